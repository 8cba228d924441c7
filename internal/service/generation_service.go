package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"td-generator-be/internal/dto"
	"td-generator-be/internal/pkg/apperror"
	"td-generator-be/internal/pkg/logger"
	"td-generator-be/pkg/events"
	"td-generator-be/pkg/generator"
	"td-generator-be/pkg/selection"
	"td-generator-be/pkg/store"
	"td-generator-be/pkg/thingtype"
)

// IGenerationService drives the generation backend: bulk generation from the
// saved selections, generated file editing, node and random generation, and
// single-file mode.
type IGenerationService interface {
	Generate(ctx context.Context, id string) (*dto.GenerateResponse, error)
	Download(ctx context.Context, id string) ([]byte, error)
	OpenFile(ctx context.Context, id string, query *dto.FileQuery) (*dto.FileContentResponse, error)
	SaveFile(ctx context.Context, id string, req *dto.SaveFileRequest) (*dto.FileContentResponse, error)

	GenerateNodes(ctx context.Context, req *dto.GenerateNodesRequest) (*dto.GenerateNodesResponse, error)
	PrepareRandomFiles(ctx context.Context, req *dto.PrepareRandomFilesRequest) (*dto.SummaryResponse, error)
	DownloadRandomFiles(ctx context.Context) ([]byte, error)

	GenerateSingleFile(ctx context.Context, id string, req *dto.SingleFileGenerateRequest) (*dto.SingleFileResponse, error)
	LoadSingleFile(ctx context.Context, id string, req *dto.SingleFileLoadRequest) (*dto.SingleFileResponse, error)
	ModifyFile(ctx context.Context, id string) (*dto.SingleFileResponse, error)
}

type generationService struct {
	access    *WorkspaceAccess
	catalog   ICatalogService
	client    generator.Client
	publisher IPublisherService
	logger    logger.ILogger
}

func NewGenerationService(
	access *WorkspaceAccess,
	catalog ICatalogService,
	client generator.Client,
	publisher IPublisherService,
	logger logger.ILogger,
) IGenerationService {
	return &generationService{
		access:    access,
		catalog:   catalog,
		client:    client,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *generationService) Generate(ctx context.Context, id string) (*dto.GenerateResponse, error) {
	var dict selection.Dictionary
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		if ws.Selections.Len() == 0 {
			return apperror.Validation("no saved selections to generate from")
		}
		dict = selection.BuildDictionary(ws.Selections.List())

		summary, err := s.client.PrepareFiles(ctx, generator.PrepareFilesRequest{
			Diccionario:       dict,
			DocumentosUsuario: ws.Documents(),
		})
		if err != nil {
			return s.backendError("prepare files failed", id, err)
		}
		ws.LastSummary = summary
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := dto.TotalFiles(ws.LastSummary)
	s.logger.Info("GenerationService", "Files prepared", map[string]interface{}{"workspace_id": id, "total_files": total, "entries": len(ws.LastSummary)})
	s.publish(ctx, events.New(events.FilesPrepared, id, map[string]interface{}{
		"total_files": total,
		"entries":     len(ws.LastSummary),
	}))

	return &dto.GenerateResponse{
		Request:    dict,
		Summary:    ws.LastSummary,
		TotalFiles: total,
	}, nil
}

func (s *generationService) Download(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.access.load(ctx, id); err != nil {
		return nil, err
	}
	data, err := s.client.DownloadFiles(ctx)
	if err != nil {
		return nil, s.backendError("download failed", id, err)
	}
	return data, nil
}

func (s *generationService) OpenFile(ctx context.Context, id string, query *dto.FileQuery) (*dto.FileContentResponse, error) {
	if _, err := s.access.load(ctx, id); err != nil {
		return nil, err
	}
	ref := generator.FileRef{Node: query.Node, Scheme: query.Scheme, Name: query.Name}
	content, err := s.client.OpenFile(ctx, ref)
	if err != nil {
		return nil, s.backendError("open file failed", id, err)
	}
	return fileResponse(ref, content), nil
}

func (s *generationService) SaveFile(ctx context.Context, id string, req *dto.SaveFileRequest) (*dto.FileContentResponse, error) {
	if !json.Valid(req.Content) {
		return nil, apperror.Parse("file content is not valid JSON", errors.New("invalid JSON"))
	}
	if _, err := s.access.load(ctx, id); err != nil {
		return nil, err
	}

	ref := generator.FileRef{Node: req.Node, Scheme: req.Scheme, Name: req.Name}
	if err := s.client.SaveFile(ctx, ref, req.Content); err != nil {
		return nil, s.backendError("save file failed", id, err)
	}

	s.logger.Info("GenerationService", "Generated file saved", map[string]interface{}{"workspace_id": id, "node": ref.Node, "name": ref.Name})
	return fileResponse(ref, req.Content), nil
}

func (s *generationService) GenerateNodes(ctx context.Context, req *dto.GenerateNodesRequest) (*dto.GenerateNodesResponse, error) {
	result, err := s.client.GenerateNodes(ctx, req.NumNodes)
	if err != nil {
		return nil, s.backendError("generate nodes failed", "", err)
	}
	s.catalog.Invalidate()

	nodes, err := s.catalog.ListNodes(ctx)
	if err != nil {
		s.logger.Warn("GenerationService", "Node list unavailable after generation", map[string]interface{}{"error": err})
		nodes = []string{}
	}

	s.publish(ctx, events.New(events.NodesGenerated, "", map[string]interface{}{
		"requested": req.NumNodes,
		"nodes":     len(nodes),
	}))

	return &dto.GenerateNodesResponse{Result: result, Nodes: nodes}, nil
}

func (s *generationService) PrepareRandomFiles(ctx context.Context, req *dto.PrepareRandomFilesRequest) (*dto.SummaryResponse, error) {
	locations := selection.NormalizeLocations(req.LocationSets)
	if err := selection.ValidateLocationSets(locations); err != nil {
		return nil, apperror.FromSelection(err)
	}

	summary, err := s.client.PrepareRandomFiles(ctx, req.NumNodes, locations)
	if err != nil {
		return nil, s.backendError("prepare random files failed", "", err)
	}

	total := dto.TotalFiles(summary)
	s.publish(ctx, events.New(events.RandomFilesPrepared, "", map[string]interface{}{
		"num_nodes":   req.NumNodes,
		"total_files": total,
	}))

	return &dto.SummaryResponse{Summary: summary, TotalFiles: total}, nil
}

func (s *generationService) DownloadRandomFiles(ctx context.Context) ([]byte, error) {
	data, err := s.client.DownloadRandomFiles(ctx)
	if err != nil {
		return nil, s.backendError("download random files failed", "", err)
	}
	return data, nil
}

func (s *generationService) GenerateSingleFile(ctx context.Context, id string, req *dto.SingleFileGenerateRequest) (*dto.SingleFileResponse, error) {
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		scheme := req.Scheme
		if scheme == "" {
			scheme = ws.ActiveScheme
		}
		if scheme == "" {
			return apperror.Validation("select a scheme first")
		}

		content, err := s.client.GenerateFile(ctx, scheme)
		if err != nil {
			return s.backendError("generate file failed", id, err)
		}
		ws.SingleFile = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.SingleFileResponse{Content: ws.SingleFile}, nil
}

func (s *generationService) LoadSingleFile(ctx context.Context, id string, req *dto.SingleFileLoadRequest) (*dto.SingleFileResponse, error) {
	if _, err := thingtype.ParseDocument(req.Content); err != nil {
		return nil, apperror.Parse("file is not a JSON object", err)
	}

	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		ws.SingleFile = json.RawMessage(req.Content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.SingleFileResponse{Content: ws.SingleFile}, nil
}

func (s *generationService) ModifyFile(ctx context.Context, id string) (*dto.SingleFileResponse, error) {
	var mods map[string]selection.Attribute
	ws, err := s.access.mutate(ctx, id, func(ws *store.Workspace) error {
		if len(ws.SingleFile) == 0 {
			return apperror.Validation("no file loaded")
		}
		mods = ws.Modifications()
		if len(mods) == 0 {
			return apperror.Validation("select a property first")
		}

		content, err := s.client.ModifyFile(ctx, ws.SingleFile, mods)
		if err != nil {
			return s.backendError("modify file failed", id, err)
		}
		ws.SingleFile = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.SingleFileResponse{Content: ws.SingleFile, Modifications: mods}, nil
}

func (s *generationService) backendError(message, id string, err error) error {
	s.logger.Error("GenerationService", fmt.Sprintf("Backend call failed: %s", message), map[string]interface{}{"workspace_id": id, "error": err})
	return apperror.Backend(message, err)
}

func (s *generationService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("GenerationService", "Failed to publish event", map[string]interface{}{"type": event.EventType(), "error": err})
	}
}

func fileResponse(ref generator.FileRef, content json.RawMessage) *dto.FileContentResponse {
	return &dto.FileContentResponse{
		Node:    ref.Node,
		Scheme:  ref.Scheme,
		Name:    ref.Name,
		Content: content,
	}
}
