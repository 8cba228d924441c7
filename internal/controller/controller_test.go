package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"td-generator-be/internal/pkg/logger"
	"td-generator-be/internal/pkg/serverutils"
	"td-generator-be/internal/repository/memory"
	"td-generator-be/internal/service"
	"td-generator-be/pkg/generator"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/things_types", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["blind","lamp"]`))
	})
	mux.HandleFunc("/things_types/blind", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["properties","actions"]`))
	})
	mux.HandleFunc("/things_types/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/things_types/blind/properties", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["a","b","c"]`))
	})
	mux.HandleFunc("/nodes_list", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["n1"]`))
	})
	mux.HandleFunc("/prepare_files/", func(w http.ResponseWriter, r *http.Request) {
		var req generator.PrepareFilesRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Diccionario, "n1")
		w.Write([]byte(`{"resumen":[{"nodo":"n1","tipo":"blind","numero_archivos":3,"atributos_modificados":[]}]}`))
	})
	mux.HandleFunc("/download_files", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("PK\x03\x04"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log := logger.NewNopLogger()
	client := generator.NewHTTPClient(fakeBackend(t).URL, 5*time.Second)
	access := service.NewWorkspaceAccess(memory.NewWorkspaceRepository(time.Hour))
	catalog := service.NewCatalogService(client, time.Minute, log)
	workbench := service.NewWorkbenchService(access, catalog, client, nil, false, log)
	generation := service.NewGenerationService(access, catalog, client, nil, log)
	snapshots := service.NewSnapshotService(nil, access, log)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api/v1")
	NewWorkspaceController(workbench).RegisterRoutes(api)
	NewGenerationController(generation).RegisterRoutes(api)
	NewCatalogController(catalog).RegisterRoutes(api)
	NewSnapshotController(snapshots).RegisterRoutes(api)
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func createWorkspace(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, env := call(t, app, http.MethodPost, "/api/v1/workspaces", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var ws struct {
		Id string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ws))
	require.NotEmpty(t, ws.Id)
	return ws.Id
}

func TestWorkbenchFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	id := createWorkspace(t, app)
	base := "/api/v1/workspaces/" + id

	steps := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPut, base + "/scheme", map[string]string{"scheme": "blind"}},
		{http.MethodPut, base + "/property", map[string]string{"property": "properties"}},
		{http.MethodPut, base + "/node", map[string]string{"node": "n1"}},
		{http.MethodPost, base + "/chips/a", nil},
		{http.MethodPost, base + "/chips/b", nil},
		{http.MethodPut, base + "/range", map[string]int{"min": 1, "max": 2}},
		{http.MethodPut, base + "/locations", map[string]any{"location_sets": []map[string]any{{"location": "room1", "numFiles": 3}}}},
	}
	for _, s := range steps {
		resp, env := call(t, app, s.method, s.path, s.body)
		require.Equal(t, http.StatusOK, resp.StatusCode, "%s %s: %v", s.method, s.path, env.Errors)
	}

	resp, env := call(t, app, http.MethodPost, base+"/selections", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Success save selection", env.Message)

	resp, env = call(t, app, http.MethodPost, base+"/selections", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Selection already saved", env.Message)

	resp, env = call(t, app, http.MethodGet, base+"/groups", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var groups []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	assert.Len(t, groups, 1)

	resp, env = call(t, app, http.MethodPost, base+"/generate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Errors)
	var generated struct {
		TotalFiles int `json:"total_files"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &generated))
	assert.Equal(t, 3, generated.TotalFiles)

	resp, _ = call(t, app, http.MethodGet, base+"/download", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "generated_files.zip")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04"), data)

	resp, _ = call(t, app, http.MethodDelete, base+"/groups/n1/blind", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, app, http.MethodDelete, base+"/groups/n1/blind", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	app := newTestApp(t)
	id := createWorkspace(t, app)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown workspace", http.MethodGet, "/api/v1/workspaces/nope", nil, http.StatusNotFound},
		{"missing field", http.MethodPut, "/api/v1/workspaces/" + id + "/scheme", map[string]string{}, http.StatusBadRequest},
		{"empty draft", http.MethodPost, "/api/v1/workspaces/" + id + "/selections", nil, http.StatusBadRequest},
		{"backend failure", http.MethodGet, "/api/v1/catalog/schemes/broken", nil, http.StatusBadGateway},
		{"backend not found", http.MethodGet, "/api/v1/catalog/schemes/ghost", nil, http.StatusNotFound},
		{"snapshots disabled", http.MethodGet, "/api/v1/snapshots", nil, http.StatusServiceUnavailable},
		{"bad snapshot id", http.MethodGet, "/api/v1/snapshots/xyz", nil, http.StatusBadRequest},
		{"bad document index", http.MethodDelete, "/api/v1/workspaces/" + id + "/documents/x", nil, http.StatusBadRequest},
		{"nodes need a count", http.MethodPost, "/api/v1/nodes", map[string]int{"num_nodes": 0}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := call(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.False(t, env.Success)
			assert.Equal(t, tt.status, env.Code)
		})
	}
}

func TestCatalogRoutes(t *testing.T) {
	app := newTestApp(t)

	resp, env := call(t, app, http.MethodGet, "/api/v1/catalog/schemes/blind/properties", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items struct {
		Items []string `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Equal(t, []string{"a", "b", "c"}, items.Items)

	resp, env = call(t, app, http.MethodGet, "/api/v1/catalog/nodes", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Equal(t, []string{"n1"}, items.Items)
}
