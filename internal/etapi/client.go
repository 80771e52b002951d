package etapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Client talks to a TriliumNext server over ETAPI.
//
// It carries no retry or backoff logic: a failed call surfaces as a
// *StoreError (HTTP-level rejection) or a wrapped transport error, and the
// caller decides what to do.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewClient creates an ETAPI client for the given base URL (e.g.
// "http://localhost:8080/etapi") authenticating with the given token.
func NewClient(baseURL, token string, httpc *http.Client, log zerolog.Logger) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   httpc,
		log:     log,
	}
}

// etapiError is the error body ETAPI returns on 4xx/5xx.
type etapiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do issues a request and decodes a JSON response into out (if non-nil).
// body is JSON-encoded unless rawBody is set, in which case it is sent
// verbatim as text/plain (ETAPI's content endpoints are not JSON).
func (c *Client) do(ctx context.Context, method, path string, body any, rawBody *string, out any) error {
	var reader io.Reader
	contentType := ""
	switch {
	case rawBody != nil:
		reader = strings.NewReader(*rawBody)
		contentType = "text/plain"
	case body != nil:
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("etapi request")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.asStoreError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// asStoreError converts an error response into a *StoreError, preserving
// the server's message verbatim.
func (c *Client) asStoreError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var body etapiError
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = strings.TrimSpace(string(raw))
		if body.Message == "" {
			body.Message = resp.Status
		}
	}

	c.log.Error().
		Int("status", resp.StatusCode).
		Str("code", body.Code).
		Str("message", body.Message).
		Msg("etapi error response")

	return &StoreError{
		StatusCode: resp.StatusCode,
		Code:       body.Code,
		Message:    body.Message,
	}
}

// GetNote fetches note metadata, including blobId and attributes.
func (c *Client) GetNote(ctx context.Context, noteID string) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(noteID), nil, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// GetNoteContent fetches the note's raw content. The endpoint returns
// text/plain, not JSON.
func (c *Client) GetNoteContent(ctx context.Context, noteID string) (string, error) {
	path := "/notes/" + url.PathEscape(noteID) + "/content"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", c.asStoreError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading content body: %w", err)
	}
	return string(raw), nil
}

// createNoteResponse wraps ETAPI's create-note payload, which returns the
// note together with the branch placing it under the parent.
type createNoteResponse struct {
	Note Note `json:"note"`
}

// CreateNote creates a note under the given parent.
func (c *Client) CreateNote(ctx context.Context, params CreateNoteParams) (*Note, error) {
	var resp createNoteResponse
	if err := c.do(ctx, http.MethodPost, "/create-note", params, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Note, nil
}

// WriteContent replaces the note's content and returns the new blobId.
// ETAPI's content write returns no body, so the fresh token is read back
// from the note metadata.
func (c *Client) WriteContent(ctx context.Context, noteID, content string) (string, error) {
	path := "/notes/" + url.PathEscape(noteID) + "/content"
	if err := c.do(ctx, http.MethodPut, path, nil, &content, nil); err != nil {
		return "", err
	}

	note, err := c.GetNote(ctx, noteID)
	if err != nil {
		return "", fmt.Errorf("reading back version token: %w", err)
	}
	return note.BlobID, nil
}

// CreateRevision snapshots the note's current state as a revision.
func (c *Client) CreateRevision(ctx context.Context, noteID string) error {
	return c.do(ctx, http.MethodPost, "/notes/"+url.PathEscape(noteID)+"/revision", nil, nil, nil)
}

// searchResponse wraps ETAPI's search payload.
type searchResponse struct {
	Results []Note `json:"results"`
}

// SearchNotes runs a Trilium search query and returns matching note
// metadata.
func (c *Client) SearchNotes(ctx context.Context, query string, limit int) ([]Note, error) {
	q := url.Values{}
	q.Set("search", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp searchResponse
	if err := c.do(ctx, http.MethodGet, "/notes?"+q.Encode(), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// CreateAttribute attaches an attribute to a note.
func (c *Client) CreateAttribute(ctx context.Context, attr Attribute) (*Attribute, error) {
	var created Attribute
	if err := c.do(ctx, http.MethodPost, "/attributes", attr, nil, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAttribute patches an existing attribute.
func (c *Client) UpdateAttribute(ctx context.Context, attributeID string, patch AttributePatch) (*Attribute, error) {
	var updated Attribute
	path := "/attributes/" + url.PathEscape(attributeID)
	if err := c.do(ctx, http.MethodPatch, path, patch, nil, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAttribute removes an attribute by identifier.
func (c *Client) DeleteAttribute(ctx context.Context, attributeID string) error {
	return c.do(ctx, http.MethodDelete, "/attributes/"+url.PathEscape(attributeID), nil, nil, nil)
}

// compile-time interface check
var _ Store = (*Client)(nil)
