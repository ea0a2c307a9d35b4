// Package ghapi implements the objectstore contract against the GitHub git
// data API: refs, blobs, trees, commits, and the contents endpoint for
// read-by-path. All writes are expressed through these primitives; the
// package never mutates anything except via an explicit ref update.
package ghapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/comrelyy/blog-7-Eleven/internal/errs"
	"github.com/comrelyy/blog-7-Eleven/objectstore"
)

const defaultBaseURL = "https://api.github.com"

// Config carries the store target. Token is the caller-supplied credential;
// acquiring it is outside this package.
type Config struct {
	Owner   string
	Repo    string
	Token   string
	BaseURL string        // defaults to the public GitHub API
	Timeout time.Duration // defaults to 30s
}

// Client talks to one repository on one GitHub-compatible backend.
type Client struct {
	rc    *resty.Client
	owner string
	repo  string
}

var _ objectstore.Store = (*Client)(nil)

// New constructs a Client for the configured repository.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rc := resty.New().
		SetBaseURL(base).
		SetAuthToken(cfg.Token).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", "2022-11-28").
		SetTimeout(timeout)

	if debugLoggingRequested() {
		rc.SetTransport(&debugTransport{base: http.DefaultTransport})
	}

	return &Client{rc: rc, owner: cfg.Owner, repo: cfg.Repo}
}

// ------------------------------
// Wire types
// ------------------------------

type refResponse struct {
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

type blobRequest struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type shaResponse struct {
	SHA string `json:"sha"`
}

type treeItem struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

type treeRequest struct {
	BaseTree string     `json:"base_tree,omitempty"`
	Tree     []treeItem `json:"tree"`
}

type commitRequest struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

type updateRefRequest struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}

type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// ------------------------------
// objectstore.Store implementation
// ------------------------------

// GetBranchHead returns the commit SHA heads/<branch> points at.
func (c *Client) GetBranchHead(ctx context.Context, branch string) (string, error) {
	var out refResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/repos/%s/%s/git/ref/heads/%s", c.owner, c.repo, branch))
	if cerr := c.check("get branch head", resp, err); cerr != nil {
		return "", cerr
	}
	return out.Object.SHA, nil
}

// CreateBlob uploads content as a base64-encoded blob.
func (c *Client) CreateBlob(ctx context.Context, content []byte) (string, error) {
	var out shaResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(&blobRequest{
			Content:  base64.StdEncoding.EncodeToString(content),
			Encoding: "base64",
		}).
		SetResult(&out).
		Post(fmt.Sprintf("/repos/%s/%s/git/blobs", c.owner, c.repo))
	if cerr := c.check("create blob", resp, err); cerr != nil {
		return "", cerr
	}
	return out.SHA, nil
}

// CreateTree snapshots entries as regular files on top of base.
func (c *Client) CreateTree(ctx context.Context, entries []objectstore.TreeEntry, base string) (string, error) {
	req := treeRequest{BaseTree: base, Tree: make([]treeItem, 0, len(entries))}
	for _, e := range entries {
		req.Tree = append(req.Tree, treeItem{Path: e.Path, Mode: "100644", Type: "blob", SHA: e.BlobSHA})
	}

	var out shaResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&out).
		Post(fmt.Sprintf("/repos/%s/%s/git/trees", c.owner, c.repo))
	if cerr := c.check("create tree", resp, err); cerr != nil {
		return "", cerr
	}
	return out.SHA, nil
}

// CreateCommit creates a commit object for tree with the given parents.
func (c *Client) CreateCommit(ctx context.Context, message, tree string, parents []string) (string, error) {
	var out shaResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(&commitRequest{Message: message, Tree: tree, Parents: parents}).
		SetResult(&out).
		Post(fmt.Sprintf("/repos/%s/%s/git/commits", c.owner, c.repo))
	if cerr := c.check("create commit", resp, err); cerr != nil {
		return "", cerr
	}
	return out.SHA, nil
}

// UpdateRef advances heads/<branch> to sha without force, so the backend
// rejects non-fast-forward updates; those surface as ErrRefConflict.
func (c *Client) UpdateRef(ctx context.Context, branch, sha string) error {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(&updateRefRequest{SHA: sha, Force: false}).
		Patch(fmt.Sprintf("/repos/%s/%s/git/refs/heads/%s", c.owner, c.repo, branch))
	if err != nil {
		return errs.Network("update ref", err)
	}
	// GitHub answers 422 when the update is not a fast-forward.
	if sc := resp.StatusCode(); sc == http.StatusConflict || sc == http.StatusUnprocessableEntity {
		return errs.New(errs.Recoverable, sc, resp.String(),
			fmt.Errorf("update ref: %w", objectstore.ErrRefConflict))
	}
	return c.check("update ref", resp, nil)
}

// ReadPath fetches and decodes the file at path on ref via the contents API.
func (c *Client) ReadPath(ctx context.Context, path, ref string) ([]byte, error) {
	var out contentsResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParam("ref", ref).
		SetResult(&out).
		Get(fmt.Sprintf("/repos/%s/%s/contents/%s", c.owner, c.repo, path))
	if cerr := c.check("read path", resp, err); cerr != nil {
		return nil, cerr
	}
	if out.Encoding != "base64" {
		return []byte(out.Content), nil
	}
	// GitHub wraps base64 payloads with newlines.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(out.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("read path: decode content: %w", err)
	}
	return decoded, nil
}

// check maps transport failures and non-2xx responses onto the shared error
// taxonomy.
func (c *Client) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return errs.Network(op, err)
	}
	if resp.IsSuccess() {
		return nil
	}
	sc := resp.StatusCode()
	switch sc {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.New(errs.Irrecoverable, sc, resp.String(),
			fmt.Errorf("%s: %w", op, objectstore.ErrUnauthorized))
	case http.StatusNotFound:
		return errs.New(errs.Irrecoverable, sc, resp.String(),
			fmt.Errorf("%s: %w", op, objectstore.ErrNotFound))
	default:
		return errs.New(errs.CategoryForStatus(sc), sc, resp.String(),
			fmt.Errorf("%s: HTTP %d", op, sc))
	}
}
