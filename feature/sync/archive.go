package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver uploads run reports to object storage. Archival is best-effort:
// a failed upload is logged and never fails the run.
type Archiver struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewArchiver creates an archiver writing into the given bucket.
func NewArchiver(client storage.Client, bucket string, logger *zap.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, logger: logger}
}

// EnsureBucket creates the bucket if it does not exist yet.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("checking report bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating report bucket: %w", err)
	}
	return nil
}

// Archive serializes the report and uploads it as reports/<run-id>.json.
func (a *Archiver) Archive(ctx context.Context, report *RunReport) {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		a.logger.Warn("Run report serialization failed",
			zap.String("run_id", report.RunID), zap.Error(err))
		return
	}

	object := a.ObjectName(report.RunID)
	_, err = a.client.PutObject(ctx, a.bucket, object,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		a.logger.Warn("Run report upload failed",
			zap.String("run_id", report.RunID),
			zap.String("object", object),
			zap.Error(err))
		return
	}

	a.logger.Info("Run report archived",
		zap.String("run_id", report.RunID),
		zap.String("object", object))
}

// ObjectName returns the object key a run's report is stored under.
func (a *Archiver) ObjectName(runID string) string {
	return "reports/" + runID + ".json"
}
