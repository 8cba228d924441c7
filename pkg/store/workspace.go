package store

import (
	"encoding/json"
	"time"

	"td-generator-be/pkg/generator"
	"td-generator-be/pkg/selection"
)

// UserDoc is an uploaded document. It lives only as long as the workspace.
type UserDoc struct {
	Name    string         `json:"name"`
	Type    string         `json:"type,omitempty"`
	Content map[string]any `json:"content"`
}

// Workspace is everything one open UI needs: the catalog it is browsing, the
// chip board, the draft form and the saved selections.
type Workspace struct {
	ID string `json:"id"`

	ActiveScheme   string `json:"active_scheme"`
	ActiveProperty string `json:"active_property"`
	ActiveNode     string `json:"active_node"`

	// LocalSchemes are scheme names inferred from uploaded documents that the
	// backend catalog does not list.
	LocalSchemes []string `json:"local_schemes"`
	Properties   []string `json:"properties"`

	Board         *selection.Board        `json:"board"`
	LocationDraft []selection.LocationSet `json:"location_draft"`
	Selections    selection.Store         `json:"selections"`
	UserDocs      []UserDoc               `json:"user_docs"`
	ForcedChips   bool                    `json:"forced_chips"`

	LastSummary []generator.SummaryItem `json:"last_summary,omitempty"`
	// SingleFile is the document shown in single-file mode.
	SingleFile json.RawMessage `json:"single_file,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewWorkspace(id string, forcedChips bool) *Workspace {
	now := time.Now()
	return &Workspace{
		ID:            id,
		LocalSchemes:  []string{},
		Properties:    []string{},
		Board:         selection.NewBoard(forcedChips),
		LocationDraft: []selection.LocationSet{},
		UserDocs:      []UserDoc{},
		ForcedChips:   forcedChips,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SelectScheme makes scheme active and resets everything below it.
func (w *Workspace) SelectScheme(scheme string, properties []string) {
	w.ActiveScheme = scheme
	w.ActiveProperty = ""
	w.Properties = append([]string{}, properties...)
	w.resetBoard(nil)
}

// SelectProperty makes property active and reinitializes the chip board.
func (w *Workspace) SelectProperty(property string, chips []string) {
	w.ActiveProperty = property
	w.resetBoard(chips)
}

func (w *Workspace) resetBoard(chips []string) {
	w.Board = selection.NewBoard(w.ForcedChips)
	w.Board.Initialize(chips)
}

// AddLocalScheme records an inferred scheme name once.
func (w *Workspace) AddLocalScheme(name string) {
	for _, s := range w.LocalSchemes {
		if s == name {
			return
		}
	}
	w.LocalSchemes = append(w.LocalSchemes, name)
}

// Candidate builds the selection the draft form would save.
func (w *Workspace) Candidate() selection.Selection {
	s := selection.Selection{
		Scheme:       w.ActiveScheme,
		Property:     w.ActiveProperty,
		Node:         w.ActiveNode,
		LocationSets: append([]selection.LocationSet(nil), w.LocationDraft...),
	}
	if w.Board != nil {
		s.Chips = w.Board.Chips()
		s.Range = w.Board.Range
	}
	return s
}

// ApplyForm loads an edit form into the draft. labels are the candidate chips
// of the form's property.
func (w *Workspace) ApplyForm(f selection.Form, properties, labels []string) {
	w.ActiveNode = f.Node
	w.ActiveScheme = f.Scheme
	w.Properties = append([]string{}, properties...)
	w.ActiveProperty = f.Property
	w.resetBoard(labels)
	w.Board.Load(f.Chips, f.Range)
	w.LocationDraft = append([]selection.LocationSet{}, f.LocationSets...)
}

// Modifications turns the current board into the single-file modify payload.
func (w *Workspace) Modifications() map[string]selection.Attribute {
	mods := map[string]selection.Attribute{}
	if w.ActiveProperty == "" || w.Board == nil {
		return mods
	}
	mods[w.ActiveProperty] = selection.NewAttribute(w.Board.Chips(), w.Board.Range)
	return mods
}

// Documents converts the uploads to the form sent along with prepare-files.
func (w *Workspace) Documents() []generator.UserDocument {
	docs := make([]generator.UserDocument, len(w.UserDocs))
	for i, d := range w.UserDocs {
		docs[i] = generator.UserDocument{Nombre: d.Name, Tipo: d.Type, Contenido: d.Content}
	}
	return docs
}

// RemoveDocument drops the upload at index i.
func (w *Workspace) RemoveDocument(i int) bool {
	if i < 0 || i >= len(w.UserDocs) {
		return false
	}
	w.UserDocs = append(w.UserDocs[:i], w.UserDocs[i+1:]...)
	return true
}

func (w *Workspace) Touch() {
	w.UpdatedAt = time.Now()
}
