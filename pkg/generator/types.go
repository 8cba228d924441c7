package generator

import (
	"encoding/json"
	"fmt"

	"td-generator-be/pkg/selection"
)

// UserDocument is an uploaded document forwarded with a prepare-files call.
type UserDocument struct {
	Nombre    string         `json:"nombre"`
	Tipo      string         `json:"tipo,omitempty"`
	Contenido map[string]any `json:"contenido"`
}

type PrepareFilesRequest struct {
	Diccionario       selection.Dictionary `json:"diccionario"`
	DocumentosUsuario []UserDocument       `json:"documentos_usuario"`
}

type prepareRandomFilesRequest struct {
	NumNodos    int                     `json:"num_nodos"`
	Ubicaciones []selection.LocationSet `json:"ubicaciones"`
}

type generateNodesRequest struct {
	NumNodos int `json:"num_nodos"`
}

type modifyFileRequest struct {
	Schema        json.RawMessage                `json:"schema"`
	Modifications map[string]selection.Attribute `json:"modifications"`
}

type identifyTypeRequest struct {
	Documento map[string]any `json:"documento"`
}

type identifyTypeResponse struct {
	Tipo string `json:"tipo"`
}

type saveFileRequest struct {
	Node      string          `json:"nodo"`
	Scheme    string          `json:"tipo,omitempty"`
	Name      string          `json:"archivo"`
	Contenido json.RawMessage `json:"contenido"`
}

type summaryResponse struct {
	Resumen []SummaryItem `json:"resumen"`
}

// FileRef locates one generated file. Scheme is optional.
type FileRef struct {
	Node   string `json:"node" validate:"required"`
	Scheme string `json:"scheme"`
	Name   string `json:"name" validate:"required"`
}

// SummaryItem is one per (node, scheme) entry of a generation summary.
type SummaryItem struct {
	Nodo                   string                    `json:"nodo"`
	Tipo                   string                    `json:"tipo"`
	NumeroArchivos         int                       `json:"numero_archivos"`
	AtributosModificados   []ModifiedAttribute       `json:"atributos_modificados"`
	CombinacionesAtributos map[string]map[string]int `json:"combinaciones_atributos,omitempty"`
	DetallesArchivos       []FileDetail              `json:"detalles_archivos,omitempty"`
	// Arbol is the optional file tree preview, passed through untouched.
	Arbol json.RawMessage `json:"arbol,omitempty"`
}

type ModifiedAttribute struct {
	Atributo  string          `json:"atributo"`
	Elementos []string        `json:"elementos"`
	Rango     selection.Range `json:"rango"`
}

type FileDetail struct {
	Archivo   string          `json:"archivo"`
	Atributos []FileAttribute `json:"atributos"`
}

type FileAttribute struct {
	Atributo                 string   `json:"atributo"`
	PropiedadesSeleccionadas []string `json:"propiedades_seleccionadas"`
}

// HTTPError is returned for any non-2xx answer of the backend.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("generator %s %s: status %d, body: %s", e.Method, e.Path, e.Status, e.Body)
}
