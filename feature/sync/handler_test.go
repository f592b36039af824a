package sync

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"catalog-sync/core/mirror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *Service, *fakeSource, *fakeDownstream) {
	t.Helper()
	app := fiber.New()
	source := newFakeSource()
	downstream := newFakeDownstream()
	svc := testService(mirror.NewMemoryStore(), source, downstream)
	NewHandler(svc).RegisterRoutes(app)
	return app, svc, source, downstream
}

func TestHandleStartRun(t *testing.T) {
	app, _, source, _ := setupTestApp(t)
	seedHierarchy(source)

	req := httptest.NewRequest("POST", "/sync/runs", nil)
	resp, err := app.Test(req, -1)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var report RunReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.True(t, report.Success)
	assert.Equal(t, 8, report.Created)
	assert.NotEmpty(t, report.RunID)
}

func TestHandleStartRunPartialFailure(t *testing.T) {
	app, _, source, _ := setupTestApp(t)
	seedHierarchy(source)
	source.fail("prod", "report", assert.AnError)

	req := httptest.NewRequest("POST", "/sync/runs", nil)
	resp, err := app.Test(req, -1)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMultiStatus, resp.StatusCode)

	var report RunReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.False(t, report.Success)
	assert.NotEmpty(t, report.Problems)
}

func TestHandleGetRun(t *testing.T) {
	app, svc, source, _ := setupTestApp(t)
	seedHierarchy(source)
	report := svc.Run(context.Background())

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs/"+report.RunID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got RunReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, report.RunID, got.RunID)
}

func TestHandleGetRunNotFound(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs/unknown", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleListEntities(t *testing.T) {
	app, svc, source, _ := setupTestApp(t)
	seedHierarchy(source)
	svc.Run(context.Background())

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/entities?type=table&scope=prod", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Count    int             `json:"count"`
		Entities []mirror.Record `json:"entities"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
}

func TestHandleListEntitiesFiltersByPropagation(t *testing.T) {
	app, svc, source, _ := setupTestApp(t)
	seedHierarchy(source)
	svc.Reconcile(context.Background(), "", "")

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/entities?type=table&scope=prod&propagation=NOT_SYNCED", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
}

func TestHandleListEntitiesValidation(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/entities?type=table", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/entities?type=table&scope=prod&propagation=BOGUS", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
