package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEntities(t *testing.T) {
	var gotPath, gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"entities": [
				{
					"external_id": "t-1",
					"display_name": "Orders",
					"tracked_fields": ["Orders", "fact table", null],
					"attributes": {"owner": "data-eng"},
					"parent_id": "s-1",
					"relations": {"upstream": ["t-9"]}
				},
				{
					"external_id": "t-2",
					"display_name": "Customers",
					"tracked_fields": ["Customers", null, null],
					"parent_id": "s-1"
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, ApiKey: "secret", ApiKeyHeader: "X-API-Key", TimeoutSeconds: 5})
	entities, err := client.ListEntities(context.Background(), "prod", "table")

	require.NoError(t, err)
	assert.Equal(t, "/api/v1/scopes/prod/table", gotPath)
	assert.Equal(t, "secret", gotKey)
	require.Len(t, entities, 2)

	first := entities[0]
	assert.Equal(t, "t-1", first.ExternalID)
	assert.Equal(t, "Orders", first.DisplayName)
	require.Len(t, first.TrackedFields, 3)
	assert.Equal(t, "Orders", *first.TrackedFields[0])
	assert.Nil(t, first.TrackedFields[2], "null tracked fields stay nil")
	assert.Equal(t, "s-1", first.ParentID)
	assert.Equal(t, []string{"t-9"}, first.Relations["upstream"])

	second := entities[1]
	assert.Nil(t, second.TrackedFields[1])
	assert.Empty(t, second.Relations)
}

func TestListEntitiesEmptyInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entities": []}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, TimeoutSeconds: 5})
	entities, err := client.ListEntities(context.Background(), "prod", "view")

	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestListEntitiesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "source unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, TimeoutSeconds: 5})
	_, err := client.ListEntities(context.Background(), "prod", "table")

	require.Error(t, err)
	assert.ErrorContains(t, err, "502")
	assert.ErrorContains(t, err, "table")
}

func TestScopeList(t *testing.T) {
	assert.Equal(t, []string{"prod", "staging"}, Config{Scopes: " prod, staging ,"}.ScopeList())
	assert.Equal(t, []string{"default"}, Config{Scopes: "default"}.ScopeList())
	assert.Nil(t, Config{Scopes: ""}.ScopeList())
}
