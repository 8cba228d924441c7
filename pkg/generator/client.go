// Package generator talks to the external Thing Description generation
// backend.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"td-generator-be/pkg/selection"
)

const DefaultBaseURL = "http://127.0.0.1:5000"

// Client covers every call the workbench makes to the backend.
type Client interface {
	ListSchemes(ctx context.Context) ([]string, error)
	ListProperties(ctx context.Context, scheme string) ([]string, error)
	ListChips(ctx context.Context, scheme, property string) ([]string, error)
	ListNodes(ctx context.Context) ([]string, error)
	GenerateNodes(ctx context.Context, n int) (json.RawMessage, error)
	PrepareFiles(ctx context.Context, req PrepareFilesRequest) ([]SummaryItem, error)
	DownloadFiles(ctx context.Context) ([]byte, error)
	OpenFile(ctx context.Context, ref FileRef) (json.RawMessage, error)
	SaveFile(ctx context.Context, ref FileRef, content json.RawMessage) error
	IdentifyType(ctx context.Context, doc map[string]any) (string, error)
	GenerateFile(ctx context.Context, scheme string) (json.RawMessage, error)
	ModifyFile(ctx context.Context, doc json.RawMessage, mods map[string]selection.Attribute) (json.RawMessage, error)
	PrepareRandomFiles(ctx context.Context, numNodes int, locations []selection.LocationSet) ([]SummaryItem, error)
	DownloadRandomFiles(ctx context.Context) ([]byte, error)
}

type HTTPClient struct {
	BaseURL string
	Client  *http.Client
}

var _ Client = &HTTPClient{}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) ListSchemes(ctx context.Context) ([]string, error) {
	var out []string
	err := c.getJSON(ctx, "/things_types", &out)
	return out, err
}

func (c *HTTPClient) ListProperties(ctx context.Context, scheme string) ([]string, error) {
	var out []string
	err := c.getJSON(ctx, "/things_types/"+url.PathEscape(scheme), &out)
	return out, err
}

func (c *HTTPClient) ListChips(ctx context.Context, scheme, property string) ([]string, error) {
	var out []string
	err := c.getJSON(ctx, "/things_types/"+url.PathEscape(scheme)+"/"+url.PathEscape(property), &out)
	return out, err
}

func (c *HTTPClient) ListNodes(ctx context.Context) ([]string, error) {
	var out []string
	err := c.getJSON(ctx, "/nodes_list", &out)
	return out, err
}

func (c *HTTPClient) GenerateNodes(ctx context.Context, n int) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, "/generate_nodes/", generateNodesRequest{NumNodos: n})
	if err != nil {
		return nil, err
	}
	return rawOrNull(body), nil
}

func (c *HTTPClient) PrepareFiles(ctx context.Context, req PrepareFilesRequest) ([]SummaryItem, error) {
	if req.DocumentosUsuario == nil {
		req.DocumentosUsuario = []UserDocument{}
	}
	return c.summary(ctx, "/prepare_files/", req)
}

func (c *HTTPClient) PrepareRandomFiles(ctx context.Context, numNodes int, locations []selection.LocationSet) ([]SummaryItem, error) {
	return c.summary(ctx, "/prepare_random_files/", prepareRandomFilesRequest{NumNodos: numNodes, Ubicaciones: locations})
}

func (c *HTTPClient) DownloadFiles(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/download_files", nil)
}

func (c *HTTPClient) DownloadRandomFiles(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/download_random_files", nil)
}

func (c *HTTPClient) OpenFile(ctx context.Context, ref FileRef) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("nodo", ref.Node)
	if ref.Scheme != "" {
		q.Set("tipo", ref.Scheme)
	}
	q.Set("archivo", ref.Name)

	body, err := c.do(ctx, http.MethodGet, "/open_file?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("open_file: response is not JSON")
	}
	return json.RawMessage(body), nil
}

func (c *HTTPClient) SaveFile(ctx context.Context, ref FileRef, content json.RawMessage) error {
	_, err := c.do(ctx, http.MethodPost, "/save_file", saveFileRequest{
		Node:      ref.Node,
		Scheme:    ref.Scheme,
		Name:      ref.Name,
		Contenido: content,
	})
	return err
}

func (c *HTTPClient) IdentifyType(ctx context.Context, doc map[string]any) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/identify_type", identifyTypeRequest{Documento: doc})
	if err != nil {
		return "", err
	}
	var resp identifyTypeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal identify_type response: %w", err)
	}
	return resp.Tipo, nil
}

func (c *HTTPClient) GenerateFile(ctx context.Context, scheme string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, "/generate_file/"+url.PathEscape(scheme), struct{}{})
	if err != nil {
		return nil, err
	}
	return rawOrNull(body), nil
}

func (c *HTTPClient) ModifyFile(ctx context.Context, doc json.RawMessage, mods map[string]selection.Attribute) (json.RawMessage, error) {
	if mods == nil {
		mods = map[string]selection.Attribute{}
	}
	body, err := c.do(ctx, http.MethodPost, "/modify_file", modifyFileRequest{Schema: doc, Modifications: mods})
	if err != nil {
		return nil, err
	}
	return rawOrNull(body), nil
}

func (c *HTTPClient) summary(ctx context.Context, path string, payload any) ([]SummaryItem, error) {
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	var resp summaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal %s response: %w", path, err)
	}
	if resp.Resumen == nil {
		resp.Resumen = []SummaryItem{}
	}
	return resp.Resumen, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generator request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Method: method, Path: path, Status: resp.StatusCode, Body: string(bodyBytes)}
	}
	return bodyBytes, nil
}

func rawOrNull(body []byte) json.RawMessage {
	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(body)
}
