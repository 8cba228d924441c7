package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"td-generator-be/internal/pkg/logger"
	"td-generator-be/internal/repository/memory"
	"td-generator-be/pkg/events"
	"td-generator-be/pkg/generator"
	"td-generator-be/pkg/selection"
)

var errBackendDown = errors.New("backend down")

type fakeClient struct {
	mu sync.Mutex

	schemes    []string
	properties map[string][]string
	chips      map[string][]string
	nodes      []string
	types      map[string]string
	summary    []generator.SummaryItem
	file       json.RawMessage

	fail  map[string]error
	calls map[string]int

	prepared generator.PrepareFilesRequest
	modified map[string]selection.Attribute
	saved    json.RawMessage
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		schemes:    []string{"blind", "lamp"},
		properties: map[string][]string{"blind": {"properties", "actions"}, "lamp": {"properties"}},
		chips: map[string][]string{
			"blind/properties": {"a", "b", "c"},
			"blind/actions":    {"open", "close"},
			"lamp/properties":  {"on", "brightness"},
		},
		nodes:   []string{"n1", "n2"},
		types:   map[string]string{},
		summary: []generator.SummaryItem{{Nodo: "n1", Tipo: "blind", NumeroArchivos: 2}},
		file:    json.RawMessage(`{"id":"urn:blind1"}`),
		fail:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeClient) call(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.fail[name]
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) ListSchemes(ctx context.Context) ([]string, error) {
	if err := f.call("ListSchemes"); err != nil {
		return nil, err
	}
	return f.schemes, nil
}

func (f *fakeClient) ListProperties(ctx context.Context, scheme string) ([]string, error) {
	if err := f.call("ListProperties"); err != nil {
		return nil, err
	}
	return f.properties[scheme], nil
}

func (f *fakeClient) ListChips(ctx context.Context, scheme, property string) ([]string, error) {
	if err := f.call("ListChips"); err != nil {
		return nil, err
	}
	return f.chips[scheme+"/"+property], nil
}

func (f *fakeClient) ListNodes(ctx context.Context) ([]string, error) {
	if err := f.call("ListNodes"); err != nil {
		return nil, err
	}
	return f.nodes, nil
}

func (f *fakeClient) GenerateNodes(ctx context.Context, n int) (json.RawMessage, error) {
	if err := f.call("GenerateNodes"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.nodes = append(f.nodes, "n3")
	f.mu.Unlock()
	return json.RawMessage(`{"ok":true}`), nil
}

func (f *fakeClient) PrepareFiles(ctx context.Context, req generator.PrepareFilesRequest) ([]generator.SummaryItem, error) {
	if err := f.call("PrepareFiles"); err != nil {
		return nil, err
	}
	f.prepared = req
	return f.summary, nil
}

func (f *fakeClient) DownloadFiles(ctx context.Context) ([]byte, error) {
	if err := f.call("DownloadFiles"); err != nil {
		return nil, err
	}
	return []byte("PK"), nil
}

func (f *fakeClient) OpenFile(ctx context.Context, ref generator.FileRef) (json.RawMessage, error) {
	if err := f.call("OpenFile"); err != nil {
		return nil, err
	}
	return f.file, nil
}

func (f *fakeClient) SaveFile(ctx context.Context, ref generator.FileRef, content json.RawMessage) error {
	if err := f.call("SaveFile"); err != nil {
		return err
	}
	f.saved = content
	return nil
}

func (f *fakeClient) IdentifyType(ctx context.Context, doc map[string]any) (string, error) {
	if err := f.call("IdentifyType"); err != nil {
		return "", err
	}
	id, _ := doc["id"].(string)
	return f.types[id], nil
}

func (f *fakeClient) GenerateFile(ctx context.Context, scheme string) (json.RawMessage, error) {
	if err := f.call("GenerateFile"); err != nil {
		return nil, err
	}
	return f.file, nil
}

func (f *fakeClient) ModifyFile(ctx context.Context, doc json.RawMessage, mods map[string]selection.Attribute) (json.RawMessage, error) {
	if err := f.call("ModifyFile"); err != nil {
		return nil, err
	}
	f.modified = mods
	return json.RawMessage(`{"id":"urn:blind1","modified":true}`), nil
}

func (f *fakeClient) PrepareRandomFiles(ctx context.Context, numNodes int, locations []selection.LocationSet) ([]generator.SummaryItem, error) {
	if err := f.call("PrepareRandomFiles"); err != nil {
		return nil, err
	}
	return f.summary, nil
}

func (f *fakeClient) DownloadRandomFiles(ctx context.Context) ([]byte, error) {
	if err := f.call("DownloadRandomFiles"); err != nil {
		return nil, err
	}
	return []byte("PK-random"), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type harness struct {
	client     *fakeClient
	publisher  *recordingPublisher
	access     *WorkspaceAccess
	catalog    ICatalogService
	workbench  IWorkbenchService
	generation IGenerationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.NewNopLogger()
	h := &harness{
		client:    newFakeClient(),
		publisher: &recordingPublisher{},
		access:    NewWorkspaceAccess(memory.NewWorkspaceRepository(0)),
	}
	h.catalog = NewCatalogService(h.client, 0, log)
	h.workbench = NewWorkbenchService(h.access, h.catalog, h.client, h.publisher, false, log)
	h.generation = NewGenerationService(h.access, h.catalog, h.client, h.publisher, log)
	return h
}
