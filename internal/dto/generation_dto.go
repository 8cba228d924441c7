package dto

import (
	"encoding/json"

	"td-generator-be/pkg/generator"
	"td-generator-be/pkg/selection"
)

type GenerateResponse struct {
	Request    selection.Dictionary    `json:"request"`
	Summary    []generator.SummaryItem `json:"summary"`
	TotalFiles int                     `json:"total_files"`
}

type FileQuery struct {
	Node   string `query:"node" json:"node" validate:"required"`
	Scheme string `query:"scheme" json:"scheme"`
	Name   string `query:"name" json:"name" validate:"required"`
}

type SaveFileRequest struct {
	Node    string          `json:"node" validate:"required"`
	Scheme  string          `json:"scheme"`
	Name    string          `json:"name" validate:"required"`
	Content json.RawMessage `json:"content" validate:"required"`
}

type FileContentResponse struct {
	Node    string          `json:"node"`
	Scheme  string          `json:"scheme,omitempty"`
	Name    string          `json:"name"`
	Content json.RawMessage `json:"content"`
}

type GenerateNodesRequest struct {
	NumNodes int `json:"num_nodes" validate:"gt=0"`
}

type GenerateNodesResponse struct {
	Result json.RawMessage `json:"result"`
	Nodes  []string        `json:"nodes"`
}

type PrepareRandomFilesRequest struct {
	NumNodes     int                     `json:"num_nodes" validate:"gt=0"`
	LocationSets []selection.LocationSet `json:"location_sets" validate:"required,min=1"`
}

type SummaryResponse struct {
	Summary    []generator.SummaryItem `json:"summary"`
	TotalFiles int                     `json:"total_files"`
}

type SingleFileGenerateRequest struct {
	// Scheme defaults to the active scheme of the workspace.
	Scheme string `json:"scheme"`
}

type SingleFileLoadRequest struct {
	Content string `json:"content" validate:"required"`
}

type SingleFileResponse struct {
	Content       json.RawMessage                `json:"content"`
	Modifications map[string]selection.Attribute `json:"modifications,omitempty"`
}

func TotalFiles(summary []generator.SummaryItem) int {
	total := 0
	for _, s := range summary {
		total += s.NumeroArchivos
	}
	return total
}
