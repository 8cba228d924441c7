package dto

import (
	"encoding/json"
	"time"

	"td-generator-be/pkg/generator"
	"td-generator-be/pkg/selection"
)

type CreateWorkspaceRequest struct {
	// ForcedChips enables the fixed chip state; nil keeps the server default.
	ForcedChips *bool `json:"forced_chips"`
}

type ChipView struct {
	Label string              `json:"label"`
	State selection.ChipState `json:"state"`
}

type DocumentSummary struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
}

type WorkspaceResponse struct {
	Id             string                       `json:"id"`
	ActiveScheme   string                       `json:"active_scheme"`
	ActiveProperty string                       `json:"active_property"`
	ActiveNode     string                       `json:"active_node"`
	LocalSchemes   []string                     `json:"local_schemes"`
	Properties     []string                     `json:"properties"`
	Chips          []ChipView                   `json:"chips"`
	Range          selection.Range              `json:"range"`
	SelectedCount  int                          `json:"selected_count"`
	ForcedChips    bool                         `json:"forced_chips"`
	LocationDraft  []selection.LocationSet      `json:"location_draft"`
	Selections     []selection.Selection        `json:"selections"`
	Groups         []selection.GroupedSelection `json:"groups"`
	Documents      []DocumentSummary            `json:"documents"`
	LastSummary    []generator.SummaryItem      `json:"last_summary,omitempty"`
	SingleFile     json.RawMessage              `json:"single_file,omitempty"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
}

type SelectSchemeRequest struct {
	Scheme string `json:"scheme" validate:"required"`
}

type SelectPropertyRequest struct {
	Property string `json:"property" validate:"required"`
}

type SelectNodeRequest struct {
	Node string `json:"node" validate:"required"`
}

type SetRangeRequest struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SetLocationsRequest replaces the draft location bundle. Entries are only
// checked when the selection is saved.
type SetLocationsRequest struct {
	LocationSets []selection.LocationSet `json:"location_sets"`
}

type SaveSelectionResponse struct {
	Duplicate bool               `json:"duplicate"`
	Replaced  bool               `json:"replaced"`
	Index     int                `json:"index"`
	Workspace *WorkspaceResponse `json:"workspace"`
}

type EditGroupResponse struct {
	Form      selection.Form     `json:"form"`
	Workspace *WorkspaceResponse `json:"workspace"`
}

type DeleteGroupResponse struct {
	Removed   int                `json:"removed"`
	Workspace *WorkspaceResponse `json:"workspace"`
}

type UploadDocument struct {
	Name    string `json:"name" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type UploadDocumentsRequest struct {
	Documents []UploadDocument `json:"documents" validate:"required,min=1,dive"`
}

const (
	TypeSourceBackend = "backend"
	TypeSourceLocal   = "local"
	TypeSourceNone    = "none"
)

type IdentifiedDocument struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Source string `json:"source"`
}

type UploadDocumentsResponse struct {
	Identified []IdentifiedDocument `json:"identified"`
	Messages   []string             `json:"messages"`
	Workspace  *WorkspaceResponse   `json:"workspace"`
}
