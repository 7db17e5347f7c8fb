package refdata

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Source fetches the reference lists in one call.
type Source interface {
	Fetch(ctx context.Context) (Bundle, error)
	String() string
}

// NewSource picks a Source for location: an http(s) URL is fetched over
// HTTP, any other non-empty value is read as a YAML file, and an empty
// location falls back to the embedded defaults.
func NewSource(location string, timeout time.Duration) Source {
	switch {
	case location == "":
		return EmbeddedSource{}
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, timeout)
	default:
		return FileSource{Path: location}
	}
}

// Load fetches src once and indexes the result. Any failure is logged and
// yields an empty Directory; the load is not retried.
func Load(ctx context.Context, src Source, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	b, err := src.Fetch(ctx)
	if err != nil {
		logger.Warn("reference data unavailable, continuing with empty lists",
			zap.String("source", src.String()),
			zap.Error(err),
		)
		return NewDirectory(Bundle{})
	}

	d := NewDirectory(b)
	logger.Info("reference data loaded",
		zap.String("source", src.String()),
		zap.Int("customers", len(b.Customers)),
		zap.Int("welders", len(b.Welders)),
		zap.Int("pipe_diameters", len(b.PipeDiameters)),
		zap.Int("templates", len(b.Templates)),
	)
	return d
}

// HTTPSource reads the four lists from a JSON API exposing
// /customers, /welders, /pipe-diameters and /templates.
type HTTPSource struct {
	baseURL string
	client  *resty.Client
}

// NewHTTPSource returns an HTTPSource rooted at baseURL. Requests are not
// retried.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPSource{baseURL: baseURL, client: client}
}

// Client exposes the underlying resty client.
func (s *HTTPSource) Client() *resty.Client {
	return s.client
}

func (s *HTTPSource) String() string {
	return s.baseURL
}

// Fetch requests every list. The first failing request aborts the fetch.
func (s *HTTPSource) Fetch(ctx context.Context) (Bundle, error) {
	var b Bundle
	if err := s.get(ctx, "/customers", &b.Customers); err != nil {
		return Bundle{}, err
	}
	if err := s.get(ctx, "/welders", &b.Welders); err != nil {
		return Bundle{}, err
	}
	if err := s.get(ctx, "/pipe-diameters", &b.PipeDiameters); err != nil {
		return Bundle{}, err
	}
	if err := s.get(ctx, "/templates", &b.Templates); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

func (s *HTTPSource) get(ctx context.Context, path string, result any) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(result).
		Get(path)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode())
	}
	return nil
}

// FileSource reads a YAML document with the Bundle layout.
type FileSource struct {
	Path string
}

func (s FileSource) String() string {
	return s.Path
}

// Fetch reads and decodes the file.
func (s FileSource) Fetch(_ context.Context) (Bundle, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Bundle{}, fmt.Errorf("read reference file: %w", err)
	}
	return decodeYAML(data)
}

//go:embed defaults.yaml
var defaultsYAML []byte

// EmbeddedSource serves the templates shipped with the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) String() string {
	return "embedded defaults"
}

// Fetch decodes the embedded defaults.
func (EmbeddedSource) Fetch(_ context.Context) (Bundle, error) {
	return decodeYAML(defaultsYAML)
}

func decodeYAML(data []byte) (Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("decode reference yaml: %w", err)
	}
	return b, nil
}
