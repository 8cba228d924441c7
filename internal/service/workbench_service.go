package service

import (
	"context"
	"fmt"

	"td-generator-be/internal/dto"
	"td-generator-be/internal/pkg/apperror"
	"td-generator-be/internal/pkg/logger"
	"td-generator-be/pkg/events"
	"td-generator-be/pkg/generator"
	"td-generator-be/pkg/selection"
	"td-generator-be/pkg/store"
	"td-generator-be/pkg/thingtype"

	"github.com/google/uuid"
)

type IWorkbenchService interface {
	CreateWorkspace(ctx context.Context, req *dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error)
	GetWorkspace(ctx context.Context, id string) (*dto.WorkspaceResponse, error)
	DeleteWorkspace(ctx context.Context, id string) error

	SelectScheme(ctx context.Context, id string, req *dto.SelectSchemeRequest) (*dto.WorkspaceResponse, error)
	SelectProperty(ctx context.Context, id string, req *dto.SelectPropertyRequest) (*dto.WorkspaceResponse, error)
	SelectNode(ctx context.Context, id string, req *dto.SelectNodeRequest) (*dto.WorkspaceResponse, error)
	ToggleChip(ctx context.Context, id string, label string) (*dto.WorkspaceResponse, error)
	SetRange(ctx context.Context, id string, req *dto.SetRangeRequest) (*dto.WorkspaceResponse, error)
	SetLocationDraft(ctx context.Context, id string, req *dto.SetLocationsRequest) (*dto.WorkspaceResponse, error)

	SaveSelection(ctx context.Context, id string) (*dto.SaveSelectionResponse, error)
	EditGroup(ctx context.Context, id string, key selection.GroupKey) (*dto.EditGroupResponse, error)
	DeleteGroup(ctx context.Context, id string, key selection.GroupKey) (*dto.DeleteGroupResponse, error)
	ListGroups(ctx context.Context, id string) ([]selection.GroupedSelection, error)

	UploadDocuments(ctx context.Context, id string, req *dto.UploadDocumentsRequest) (*dto.UploadDocumentsResponse, error)
	RemoveDocument(ctx context.Context, id string, index int) (*dto.WorkspaceResponse, error)
}

type workbenchService struct {
	access      *WorkspaceAccess
	catalog     ICatalogService
	client      generator.Client
	publisher   IPublisherService
	forcedChips bool
	logger      logger.ILogger
}

func NewWorkbenchService(
	access *WorkspaceAccess,
	catalog ICatalogService,
	client generator.Client,
	publisher IPublisherService,
	forcedChips bool,
	logger logger.ILogger,
) IWorkbenchService {
	return &workbenchService{
		access:      access,
		catalog:     catalog,
		client:      client,
		publisher:   publisher,
		forcedChips: forcedChips,
		logger:      logger,
	}
}

func (s *workbenchService) CreateWorkspace(ctx context.Context, req *dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	forced := s.forcedChips
	if req != nil && req.ForcedChips != nil {
		forced = *req.ForcedChips
	}

	ws := store.NewWorkspace(uuid.NewString(), forced)
	if err := s.access.repo.Save(ctx, ws); err != nil {
		return nil, err
	}

	s.logger.Info("WorkbenchService", "Workspace created", map[string]interface{}{"workspace_id": ws.ID, "forced_chips": forced})
	return toWorkspaceResponse(ws), nil
}

func (s *workbenchService) GetWorkspace(ctx context.Context, id string) (*dto.WorkspaceResponse, error) {
	ws, err := s.access.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWorkspaceResponse(ws), nil
}

func (s *workbenchService) DeleteWorkspace(ctx context.Context, id string) error {
	unlock := s.access.lock(id)
	defer unlock()

	if _, err := s.access.load(ctx, id); err != nil {
		return err
	}
	if err := s.access.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.access.forget(id)

	s.logger.Info("WorkbenchService", "Workspace deleted", map[string]interface{}{"workspace_id": id})
	return nil
}

func (s *workbenchService) SelectScheme(ctx context.Context, id string, req *dto.SelectSchemeRequest) (*dto.WorkspaceResponse, error) {
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		properties, err := s.catalog.ListProperties(ctx, req.Scheme)
		if err != nil {
			return err
		}
		ws.SelectScheme(req.Scheme, properties)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toWorkspaceResponse(ws), nil
}

func (s *workbenchService) SelectProperty(ctx context.Context, id string, req *dto.SelectPropertyRequest) (*dto.WorkspaceResponse, error) {
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		if ws.ActiveScheme == "" {
			return apperror.Validation("select a scheme first")
		}
		chips, err := s.catalog.ListChips(ctx, ws.ActiveScheme, req.Property)
		if err != nil {
			return err
		}
		ws.SelectProperty(req.Property, chips)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toWorkspaceResponse(ws), nil
}

func (s *workbenchService) SelectNode(ctx context.Context, id string, req *dto.SelectNodeRequest) (*dto.WorkspaceResponse, error) {
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		ws.ActiveNode = req.Node
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toWorkspaceResponse(ws), nil
}

func (s *workbenchService) ToggleChip(ctx context.Context, id string, label string) (*dto.WorkspaceResponse, error) {
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		if !ws.Board.Toggle(label) {
			s.logger.Debug("WorkbenchService", "Toggle of unknown chip ignored", map[string]interface{}{"workspace_id": id, "label": label})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toWorkspaceResponse(ws), nil
}

func (s *workbenchService) SetRange(ctx context.Context, id string, req *dto.SetRangeRequest) (*dto.WorkspaceResponse, error) {
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		ws.Board.SetRange(req.Min, req.Max)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toWorkspaceResponse(ws), nil
}

func (s *workbenchService) SetLocationDraft(ctx context.Context, id string, req *dto.SetLocationsRequest) (*dto.WorkspaceResponse, error) {
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		ws.LocationDraft = selection.NormalizeLocations(req.LocationSets)
		if ws.LocationDraft == nil {
			ws.LocationDraft = []selection.LocationSet{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toWorkspaceResponse(ws), nil
}

func (s *workbenchService) SaveSelection(ctx context.Context, id string) (*dto.SaveSelectionResponse, error) {
	var (
		result    selection.SaveResult
		candidate selection.Selection
	)
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		candidate = ws.Candidate()
		res, err := ws.Selections.Save(candidate)
		if err != nil {
			return apperror.FromSelection(err)
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Duplicate {
		s.logger.Info("WorkbenchService", "Selection already saved", map[string]interface{}{"workspace_id": id, "index": result.Index})
	} else {
		s.publish(ctx, events.New(events.SelectionSaved, id, map[string]interface{}{
			"node":     candidate.Node,
			"scheme":   candidate.Scheme,
			"property": candidate.Property,
			"replaced": result.Replaced,
			"count":    ws.Selections.Len(),
		}))
	}

	return &dto.SaveSelectionResponse{
		Duplicate: result.Duplicate,
		Replaced:  result.Replaced,
		Index:     result.Index,
		Workspace: toWorkspaceResponse(ws),
	}, nil
}

func (s *workbenchService) EditGroup(ctx context.Context, id string, key selection.GroupKey) (*dto.EditGroupResponse, error) {
	var form selection.Form
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		group, ok := selection.FindGroup(ws.Selections.Groups(), key)
		if !ok {
			return apperror.NotFound(fmt.Sprintf("no selections for node %q and scheme %q", key.Node, key.Scheme))
		}
		form = group.EditForm()

		// The catalog only completes the form; the saved chips are enough to edit it.
		properties, err := s.catalog.ListProperties(ctx, form.Scheme)
		if err != nil {
			s.logger.Warn("WorkbenchService", "Properties unavailable for edit form", map[string]interface{}{"workspace_id": id, "error": err})
			properties = group.Properties
		}
		labels, err := s.catalog.ListChips(ctx, form.Scheme, form.Property)
		if err != nil {
			s.logger.Warn("WorkbenchService", "Chips unavailable for edit form", map[string]interface{}{"workspace_id": id, "error": err})
			labels = nil
		}

		ws.ApplyForm(form, properties, labels)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.EditGroupResponse{
		Form:      form,
		Workspace: toWorkspaceResponse(ws),
	}, nil
}

func (s *workbenchService) DeleteGroup(ctx context.Context, id string, key selection.GroupKey) (*dto.DeleteGroupResponse, error) {
	var removed int
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		removed = ws.Selections.DeleteGroup(key)
		if removed == 0 {
			return apperror.NotFound(fmt.Sprintf("no selections for node %q and scheme %q", key.Node, key.Scheme))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.SelectionGroupDeleted, id, map[string]interface{}{
		"node":    key.Node,
		"scheme":  key.Scheme,
		"removed": removed,
	}))

	return &dto.DeleteGroupResponse{
		Removed:   removed,
		Workspace: toWorkspaceResponse(ws),
	}, nil
}

func (s *workbenchService) ListGroups(ctx context.Context, id string) ([]selection.GroupedSelection, error) {
	ws, err := s.access.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ws.Selections.Groups(), nil
}

func (s *workbenchService) UploadDocuments(ctx context.Context, id string, req *dto.UploadDocumentsRequest) (*dto.UploadDocumentsResponse, error) {
	// Parse everything before touching the workspace: one bad file rejects the upload.
	docs := make([]store.UserDoc, len(req.Documents))
	for i, d := range req.Documents {
		content, err := thingtype.ParseDocument(d.Content)
		if err != nil {
			return nil, apperror.Parse(fmt.Sprintf("document %q is not a JSON object", d.Name), err)
		}
		docs[i] = store.UserDoc{Name: d.Name, Content: content}
	}

	resp := &dto.UploadDocumentsResponse{
		Identified: make([]dto.IdentifiedDocument, 0, len(docs)),
		Messages:   []string{},
	}

	schemes, err := s.catalog.ListSchemes(ctx)
	if err != nil {
		s.logger.Warn("WorkbenchService", "Scheme list unavailable, backend types accepted unchecked", map[string]interface{}{"workspace_id": id, "error": err})
		schemes = nil
	}

	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		known := knownSchemes(schemes, ws.LocalSchemes)
		active := ""
		for i := range docs {
			docType, source := s.identify(ctx, docs[i].Content, known)
			docs[i].Type = docType

			resp.Identified = append(resp.Identified, dto.IdentifiedDocument{Name: docs[i].Name, Type: docType, Source: source})
			switch source {
			case dto.TypeSourceNone:
				resp.Messages = append(resp.Messages, fmt.Sprintf("could not determine the type of %q", docs[i].Name))
				continue
			case dto.TypeSourceLocal:
				ws.AddLocalScheme(docType)
				if known != nil {
					known[docType] = true
				}
			}
			active = docType
		}
		ws.UserDocs = append(ws.UserDocs, docs...)

		if active == "" {
			return nil
		}
		properties, err := s.catalog.ListProperties(ctx, active)
		if err != nil {
			s.logger.Warn("WorkbenchService", "Properties unavailable for uploaded type", map[string]interface{}{"workspace_id": id, "type": active, "error": err})
			properties = nil
		}
		ws.SelectScheme(active, properties)
		resp.Messages = append(resp.Messages, fmt.Sprintf("%s selected", active))
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Workspace = toWorkspaceResponse(ws)
	return resp, nil
}

// knownSchemes returns nil when the scheme list could not be fetched, which
// disables the check.
func knownSchemes(catalog, local []string) map[string]bool {
	if catalog == nil {
		return nil
	}
	known := make(map[string]bool, len(catalog)+len(local))
	for _, name := range catalog {
		known[name] = true
	}
	for _, name := range local {
		known[name] = true
	}
	return known
}

// identify asks the backend first and falls back to the document id when the
// backend fails or answers with a scheme outside known.
func (s *workbenchService) identify(ctx context.Context, doc map[string]any, known map[string]bool) (string, string) {
	docType, err := s.client.IdentifyType(ctx, doc)
	switch {
	case err != nil:
		s.logger.Warn("WorkbenchService", "Backend type identification failed, using local inference", map[string]interface{}{"error": err})
	case docType == "":
	case known != nil && !known[docType]:
		s.logger.Warn("WorkbenchService", "Backend returned an unknown type, using local inference", map[string]interface{}{"type": docType})
	default:
		return docType, dto.TypeSourceBackend
	}

	if name, ok := thingtype.InferType(doc); ok {
		return name, dto.TypeSourceLocal
	}
	return "", dto.TypeSourceNone
}

func (s *workbenchService) RemoveDocument(ctx context.Context, id string, index int) (*dto.WorkspaceResponse, error) {
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		if !ws.RemoveDocument(index) {
			return apperror.NotFound(fmt.Sprintf("no document at index %d", index))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toWorkspaceResponse(ws), nil
}

func (s *workbenchService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("WorkbenchService", "Failed to publish event", map[string]interface{}{"type": event.EventType(), "error": err})
	}
}

func toWorkspaceResponse(ws *store.Workspace) *dto.WorkspaceResponse {
	resp := &dto.WorkspaceResponse{
		Id:             ws.ID,
		ActiveScheme:   ws.ActiveScheme,
		ActiveProperty: ws.ActiveProperty,
		ActiveNode:     ws.ActiveNode,
		LocalSchemes:   append([]string{}, ws.LocalSchemes...),
		Properties:     append([]string{}, ws.Properties...),
		Chips:          []dto.ChipView{},
		ForcedChips:    ws.ForcedChips,
		LocationDraft:  append([]selection.LocationSet{}, ws.LocationDraft...),
		Selections:     ws.Selections.List(),
		Groups:         ws.Selections.Groups(),
		Documents:      make([]dto.DocumentSummary, len(ws.UserDocs)),
		LastSummary:    ws.LastSummary,
		SingleFile:     ws.SingleFile,
		CreatedAt:      ws.CreatedAt,
		UpdatedAt:      ws.UpdatedAt,
	}

	if ws.Board != nil {
		for _, label := range ws.Board.Labels {
			resp.Chips = append(resp.Chips, dto.ChipView{Label: label, State: ws.Board.State(label)})
		}
		resp.Range = ws.Board.Range
		resp.SelectedCount = ws.Board.SelectedCount()
	}
	for i, d := range ws.UserDocs {
		resp.Documents[i] = dto.DocumentSummary{Index: i, Name: d.Name, Type: d.Type}
	}
	return resp
}
