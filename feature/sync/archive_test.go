package sync

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"catalog-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestArchiveUploadsReport(t *testing.T) {
	client := new(mocks.Client)
	archiver := NewArchiver(client, "test-bucket", zap.NewNop())
	report := &RunReport{RunID: "run-1", Scopes: []string{"prod"}, Success: true}

	var uploaded []byte
	client.On("PutObject", mock.Anything, "test-bucket", "reports/run-1.json",
		mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			reader := args.Get(3).(io.Reader)
			uploaded, _ = io.ReadAll(reader)
		}).
		Return(minio.UploadInfo{}, nil)

	archiver.Archive(context.Background(), report)

	client.AssertExpectations(t)
	var got RunReport
	require.NoError(t, json.Unmarshal(uploaded, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.True(t, got.Success)
}

// Archival is best-effort; an upload failure must not panic or propagate.
func TestArchiveUploadFailureIsSwallowed(t *testing.T) {
	client := new(mocks.Client)
	archiver := NewArchiver(client, "test-bucket", zap.NewNop())

	client.On("PutObject", mock.Anything, "test-bucket", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	archiver.Archive(context.Background(), &RunReport{RunID: "run-2"})
	client.AssertExpectations(t)
}

func TestEnsureBucketCreatesWhenMissing(t *testing.T) {
	client := new(mocks.Client)
	archiver := NewArchiver(client, "test-bucket", zap.NewNop())

	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)

	require.NoError(t, archiver.EnsureBucket(context.Background()))
	client.AssertExpectations(t)
}

func TestEnsureBucketSkipsExisting(t *testing.T) {
	client := new(mocks.Client)
	archiver := NewArchiver(client, "test-bucket", zap.NewNop())

	client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)

	require.NoError(t, archiver.EnsureBucket(context.Background()))
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}
