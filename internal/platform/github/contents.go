package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/yungbote/minicms-backend/internal/store"
)

type contentItem struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int    `json:"size"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

type blobResponse struct {
	SHA      string `json:"sha"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

type putContentRequest struct {
	Message   string     `json:"message"`
	Content   string     `json:"content"`
	SHA       string     `json:"sha"`
	Branch    string     `json:"branch,omitempty"`
	Committer *committer `json:"committer,omitempty"`
}

type committer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type putContentResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

var _ store.ContentStore = (*Client)(nil)

func contentsPath(repo, p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return fmt.Sprintf("/repos/%s/contents/%s", strings.Trim(repo, "/"), strings.Join(parts, "/"))
}

func (c *Client) withRef(path string) string {
	if c.cfg.Branch == "" {
		return path
	}
	return path + "?ref=" + url.QueryEscape(c.cfg.Branch)
}

// Fetch reads one file through the contents API and unwraps its base64 body.
func (c *Client) Fetch(ctx context.Context, repo, p string) (*store.Blob, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.withRef(contentsPath(repo, p)), nil, &raw); err != nil {
		return nil, mapStoreError(p, err)
	}
	if len(raw) > 0 && raw[0] == '[' {
		return nil, fmt.Errorf("%s is a directory: %w", p, store.ErrNotFound)
	}
	var item contentItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("github decode %s: %w", p, err)
	}
	if item.Type != "" && item.Type != "file" {
		return nil, fmt.Errorf("%s is a %s: %w", p, item.Type, store.ErrNotFound)
	}

	encoded, encoding := item.Content, item.Encoding
	// Files over 1MB come back without content; the blob API still serves them.
	if encoding == "none" || (encoded == "" && item.Size > 0) {
		var blob blobResponse
		path := fmt.Sprintf("/repos/%s/git/blobs/%s", strings.Trim(repo, "/"), url.PathEscape(item.SHA))
		if err := c.do(ctx, http.MethodGet, path, nil, &blob); err != nil {
			return nil, mapStoreError(p, err)
		}
		encoded, encoding = blob.Content, blob.Encoding
	}
	body, err := decodeContent(encoded, encoding)
	if err != nil {
		return nil, fmt.Errorf("github content %s: %w", p, err)
	}
	return &store.Blob{Path: item.Path, Content: body, Revision: item.SHA}, nil
}

// WriteIfMatch updates an existing file, presenting expectedRevision as the blob sha.
func (c *Client) WriteIfMatch(ctx context.Context, repo, p string, content []byte, expectedRevision, message string) (string, error) {
	req := putContentRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     expectedRevision,
		Branch:  c.cfg.Branch,
	}
	if c.cfg.CommitterName != "" && c.cfg.CommitterEmail != "" {
		req.Committer = &committer{Name: c.cfg.CommitterName, Email: c.cfg.CommitterEmail}
	}
	var resp putContentResponse
	if err := c.do(ctx, http.MethodPut, contentsPath(repo, p), req, &resp); err != nil {
		return "", mapStoreError(p, err)
	}
	return resp.Content.SHA, nil
}

func (c *Client) ListDirectory(ctx context.Context, repo, p string) ([]store.Entry, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.withRef(contentsPath(repo, p)), nil, &raw); err != nil {
		return nil, mapStoreError(p, err)
	}
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%s is not a directory: %w", p, store.ErrNotFound)
	}
	var items []contentItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("github decode %s: %w", p, err)
	}
	out := make([]store.Entry, 0, len(items))
	for _, it := range items {
		typ := store.EntryFile
		if it.Type == "dir" {
			typ = store.EntryDir
		} else if it.Type != "file" {
			continue
		}
		out = append(out, store.Entry{Name: it.Name, Path: it.Path, Type: typ})
	}
	return out, nil
}

func decodeContent(encoded, encoding string) ([]byte, error) {
	switch encoding {
	case "base64", "":
		// GitHub wraps base64 at 60 columns.
		clean := strings.NewReplacer("\n", "", "\r", "").Replace(encoded)
		return base64.StdEncoding.DecodeString(clean)
	case "utf-8":
		return []byte(encoded), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// mapStoreError translates GitHub statuses into the store contract errors.
// 409 is what the contents API returns when the supplied sha is stale.
func mapStoreError(p string, err error) error {
	switch StatusCode(err) {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w (%v)", p, store.ErrNotFound, err)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w (%v)", p, store.ErrRevisionMismatch, err)
	default:
		return err
	}
}
