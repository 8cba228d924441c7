package generator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"td-generator-be/pkg/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", 5*time.Second)
}

func TestCatalogCalls(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.EscapedPath() {
		case "/things_types":
			w.Write([]byte(`["blind","lamp"]`))
		case "/things_types/blind":
			w.Write([]byte(`["properties","actions"]`))
		case "/things_types/blind/properties":
			w.Write([]byte(`["position","speed"]`))
		case "/nodes_list":
			w.Write([]byte(`["n1","n2"]`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	schemes, err := client.ListSchemes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"blind", "lamp"}, schemes)

	props, err := client.ListProperties(ctx, "blind")
	require.NoError(t, err)
	assert.Equal(t, []string{"properties", "actions"}, props)

	chips, err := client.ListChips(ctx, "blind", "properties")
	require.NoError(t, err)
	assert.Equal(t, []string{"position", "speed"}, chips)

	nodes, err := client.ListNodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2"}, nodes)
}

func TestPrepareFilesPayloadAndSummary(t *testing.T) {
	var got map[string]json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/prepare_files/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Write([]byte(`{"resumen":[{"nodo":"n1","tipo":"blind","numero_archivos":2,
			"atributos_modificados":[{"atributo":"properties","elementos":["a"],"rango":[0,1]}],
			"combinaciones_atributos":{"properties":{"a":2}},
			"detalles_archivos":[{"archivo":"blind1.json","atributos":[{"atributo":"properties","propiedades_seleccionadas":["a"]}]}]}]}`))
	})

	dict := selection.BuildDictionary([]selection.Selection{{
		Scheme: "blind", Property: "properties", Node: "n1",
		Chips:        []selection.Chip{{Label: "a"}},
		Range:        selection.Range{0, 1},
		LocationSets: []selection.LocationSet{{Location: "room1", NumFiles: 2}},
	}})

	summary, err := client.PrepareFiles(context.Background(), PrepareFilesRequest{Diccionario: dict})
	require.NoError(t, err)

	assert.JSONEq(t, `[]`, string(got["documentos_usuario"]))
	assert.Contains(t, string(got["diccionario"]), `"elementosSeleccionados":["a"]`)

	require.Len(t, summary, 1)
	assert.Equal(t, "n1", summary[0].Nodo)
	assert.Equal(t, 2, summary[0].NumeroArchivos)
	assert.Equal(t, 2, summary[0].CombinacionesAtributos["properties"]["a"])
	assert.Equal(t, "blind1.json", summary[0].DetallesArchivos[0].Archivo)
}

func TestNon2xxReturnsHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})

	_, err := client.ListSchemes(context.Background())
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "boom", httpErr.Body)
	assert.Equal(t, "/things_types", httpErr.Path)
}

func TestTransportErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewHTTPClient(srv.URL, time.Second)

	_, err := client.ListNodes(context.Background())
	require.Error(t, err)
	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
}

func TestSingleFileCalls(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch r.URL.Path {
		case "/generate_file/blind":
			assert.Equal(t, http.MethodPost, r.Method)
			w.Write([]byte(`{"id":"acg:home:blind1"}`))
		case "/modify_file":
			var req map[string]json.RawMessage
			assert.NoError(t, json.Unmarshal(body, &req))
			assert.JSONEq(t, `{"id":"x"}`, string(req["schema"]))
			assert.JSONEq(t, `{"properties":{"elementosSeleccionados":["!a"],"rango":[0,0]}}`, string(req["modifications"]))
			w.Write([]byte(`{"id":"x","modified":true}`))
		case "/identify_type":
			assert.Contains(t, string(body), `"documento"`)
			w.Write([]byte(`{"tipo":"blind"}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	doc, err := client.GenerateFile(ctx, "blind")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"acg:home:blind1"}`, string(doc))

	mods := map[string]selection.Attribute{
		"properties": selection.NewAttribute([]selection.Chip{{Label: "a", Forced: true}}, selection.Range{0, 0}),
	}
	modified, err := client.ModifyFile(ctx, json.RawMessage(`{"id":"x"}`), mods)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","modified":true}`, string(modified))

	tipo, err := client.IdentifyType(ctx, map[string]any{"id": "x"})
	require.NoError(t, err)
	assert.Equal(t, "blind", tipo)
}

func TestOpenAndSaveFile(t *testing.T) {
	var saved map[string]json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/open_file":
			assert.Equal(t, "n1", r.URL.Query().Get("nodo"))
			assert.Equal(t, "blind1.json", r.URL.Query().Get("archivo"))
			assert.Empty(t, r.URL.Query().Get("tipo"))
			w.Write([]byte(`{"id":"acg:home:blind1"}`))
		case "/save_file":
			body, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(body, &saved))
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()
	ref := FileRef{Node: "n1", Name: "blind1.json"}

	content, err := client.OpenFile(ctx, ref)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"acg:home:blind1"}`, string(content))

	require.NoError(t, client.SaveFile(ctx, ref, json.RawMessage(`{"id":"y"}`)))
	assert.JSONEq(t, `"n1"`, string(saved["nodo"]))
	assert.JSONEq(t, `{"id":"y"}`, string(saved["contenido"]))
}

func TestRandomFilesAndDownloads(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/prepare_random_files/":
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"num_nodos":3,"ubicaciones":[{"location":"hall","numFiles":1}]}`, string(body))
			w.Write([]byte(`{}`))
		case "/download_random_files", "/download_files":
			w.Header().Set("Content-Type", "application/zip")
			w.Write([]byte("PK\x03\x04"))
		case "/generate_nodes/":
			w.Write([]byte(`{"mensaje":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	summary, err := client.PrepareRandomFiles(ctx, 3, []selection.LocationSet{{Location: "hall", NumFiles: 1}})
	require.NoError(t, err)
	assert.Empty(t, summary)
	assert.NotNil(t, summary)

	zip, err := client.DownloadRandomFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04"), zip)

	zip, err = client.DownloadFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, zip, 4)

	raw, err := client.GenerateNodes(ctx, 3)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mensaje":"ok"}`, string(raw))
}
