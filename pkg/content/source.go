package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

var (
	// ErrDocNotFound indicates the requested document does not exist on
	// the source. Transport and permission failures return other errors.
	ErrDocNotFound = errors.New("document not found")

	// ErrBadDocPath indicates the document path contains traversal or
	// control sequences and was refused before touching the source.
	ErrBadDocPath = errors.New("invalid document path")
)

// maxDocSize bounds a single fetched document.
const maxDocSize = 8 << 20

// Source fetches raw document bytes by site-absolute document path,
// e.g. "/list/news.md".
type Source interface {
	// Fetch returns the raw bytes of the document at docPath. It
	// returns ErrDocNotFound when the document does not exist.
	Fetch(ctx context.Context, docPath string) ([]byte, error)

	// Name identifies the source kind in logs and metrics.
	Name() string
}

// relDocPath converts a site-absolute document path into a relative
// path with each segment percent-decoded. Backslashes, NUL bytes, dot
// segments, and escapes that decode to a slash are rejected.
func relDocPath(docPath string) (string, error) {
	if strings.Contains(docPath, "\\") {
		return "", fmt.Errorf("%w: backslash in %q", ErrBadDocPath, docPath)
	}
	if strings.Contains(docPath, "\x00") || strings.Contains(strings.ToUpper(docPath), "%00") {
		return "", fmt.Errorf("%w: NUL byte in %q", ErrBadDocPath, docPath)
	}

	var parts []string
	for _, seg := range strings.Split(docPath, "/") {
		if seg == "" {
			continue
		}
		if seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: dot segment in %q", ErrBadDocPath, docPath)
		}
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return "", fmt.Errorf("%w: undecodable segment %q", ErrBadDocPath, seg)
		}
		// A segment that decodes to a slash or dot segment would escape
		// the tree after decoding.
		if strings.Contains(decoded, "/") || decoded == "." || decoded == ".." {
			return "", fmt.Errorf("%w: segment %q decodes outside the tree", ErrBadDocPath, seg)
		}
		parts = append(parts, decoded)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: empty path %q", ErrBadDocPath, docPath)
	}
	return strings.Join(parts, "/"), nil
}

// ============================================================
// Filesystem source
// ============================================================

// FSSource reads documents from a filesystem tree.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource returns a source reading from fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource returns a source reading from the directory dir.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

// Fetch implements Source.
func (s *FSSource) Fetch(ctx context.Context, docPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, err := relDocPath(docPath)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocNotFound, docPath)
		}
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

// Name implements Source.
func (s *FSSource) Name() string { return "fs" }

// ============================================================
// HTTP source
// ============================================================

// HTTPSource fetches documents with GET requests against a base URL.
type HTTPSource struct {
	client  *http.Client
	baseURL string
}

// HTTPSourceOption configures an HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// NewHTTPSource returns a source fetching documents relative to
// baseURL, e.g. "https://cdn.example.com/docs".
func NewHTTPSource(baseURL string, opts ...HTTPSourceOption) *HTTPSource {
	s := &HTTPSource{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, docPath string) ([]byte, error) {
	if !strings.HasPrefix(docPath, "/") {
		docPath = "/" + docPath
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+docPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", docPath, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", docPath, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrDocNotFound, docPath)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: unexpected status %s", docPath, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", docPath, err)
	}
	if len(data) > maxDocSize {
		return nil, fmt.Errorf("fetch %s: document exceeds %d bytes", docPath, maxDocSize)
	}
	return data, nil
}

// Name implements Source.
func (s *HTTPSource) Name() string { return "http" }
