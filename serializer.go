package serial

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zoobzio/sentinel"
)

// FormatFactory builds a Format around the serializer's shared Mapper.
// JSON and YAML are FormatFactory values.
type FormatFactory func(*Mapper) Format

// Serializer dispatches serialize and parse calls to the format selected
// by an explicit Format, a content type, or a file or URL extension.
//
// A Serializer is immutable after New returns and safe for concurrent use.
type Serializer struct {
	registry *Registry
	mapper   *Mapper
	client   *http.Client
}

type config struct {
	mapper        *Mapper
	factories     []FormatFactory
	defaultFormat string
	table         MIMETable
	client        *http.Client
}

// Option configures a Serializer.
type Option func(*config)

// WithFormats replaces the registered formats. The default set is JSON, YAML.
func WithFormats(factories ...FormatFactory) Option {
	return func(c *config) {
		c.factories = factories
	}
}

// WithDefaultFormat selects the format used when no hint is given.
// Without it the first registered format is the default.
func WithDefaultFormat(name string) Option {
	return func(c *config) {
		c.defaultFormat = name
	}
}

// WithMapper sets the shared mapper.
func WithMapper(m *Mapper) Option {
	return func(c *config) {
		c.mapper = m
	}
}

// WithMIMETable sets the extension to MIME type table used for file and URL sources.
func WithMIMETable(t MIMETable) Option {
	return func(c *config) {
		c.table = t
	}
}

// WithHTTPClient sets the client used for http and https URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// New creates a Serializer. It fails with a *ConfigError when two formats
// claim the same name, MIME type or extension, or when the default format
// is not registered.
func New(opts ...Option) (*Serializer, error) {
	cfg := &config{
		factories: []FormatFactory{JSON, YAML},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.mapper == nil {
		cfg.mapper = NewMapper()
	}
	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}

	registry := NewRegistry(cfg.table)
	for _, factory := range cfg.factories {
		if err := registry.Register(factory(cfg.mapper)); err != nil {
			return nil, err
		}
	}
	if cfg.defaultFormat != "" {
		if err := registry.SetDefault(cfg.defaultFormat); err != nil {
			return nil, err
		}
	}
	if registry.Default() == nil {
		return nil, &ConfigError{Name: cfg.defaultFormat}
	}
	registry.Freeze()

	return &Serializer{
		registry: registry,
		mapper:   cfg.mapper,
		client:   cfg.client,
	}, nil
}

// MustNew is like New but panics on a configuration error.
func MustNew(opts ...Option) *Serializer {
	s, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

var std = sync.OnceValue(func() *Serializer { return MustNew() })

// Default returns the process-wide Serializer with JSON (default) and YAML.
func Default() *Serializer {
	return std()
}

// Registry returns the serializer's format registry. It is frozen, so only
// lookups succeed.
func (s *Serializer) Registry() *Registry {
	return s.registry
}

// Mapper returns the shared mapper.
func (s *Serializer) Mapper() *Mapper {
	return s.mapper
}

// DefaultFormat returns the format used when no hint is given.
func (s *Serializer) DefaultFormat() Format {
	return s.registry.Default()
}

// Serialize encodes v with f, or with the default format when f is nil.
func (s *Serializer) Serialize(v any, f Format) (string, error) {
	if f == nil {
		f = s.registry.Default()
	}
	start := time.Now()
	text, err := f.Serialize(v)
	emitSerializeComplete(context.Background(), canonicalName(f), fmt.Sprintf("%T", v),
		len(text), time.Since(start), err)
	if err != nil {
		return "", err
	}
	return text, nil
}

// SerializeContentType encodes v with the format registered for contentType.
func (s *Serializer) SerializeContentType(v any, contentType string) (string, error) {
	f, err := s.registry.ResolveByMIMEType(contentType)
	if err != nil {
		return "", err
	}
	return s.Serialize(v, f)
}

func (s *Serializer) formatOrDefault(f Format) Format {
	if f == nil {
		return s.registry.Default()
	}
	return f
}

// ParseString decodes text into a T using f, or the default format when f is nil.
func ParseString[T any](s *Serializer, text string, f Format) (T, error) {
	return parseOne[T](context.Background(), s.formatOrDefault(f), SourceString, strings.NewReader(text))
}

// ParseStringList decodes a sequence document into a []T.
func ParseStringList[T any](s *Serializer, text string, f Format) ([]T, error) {
	return parseList[T](context.Background(), s.formatOrDefault(f), SourceString, strings.NewReader(text))
}

// ParseReader decodes r into a T using f, or the default format when f is nil.
// r is read to the end but not closed.
func ParseReader[T any](s *Serializer, r io.Reader, f Format) (T, error) {
	return parseOne[T](context.Background(), s.formatOrDefault(f), SourceReader, r)
}

// ParseReaderList decodes a sequence document from r into a []T.
func ParseReaderList[T any](s *Serializer, r io.Reader, f Format) ([]T, error) {
	return parseList[T](context.Background(), s.formatOrDefault(f), SourceReader, r)
}

// ParseFile decodes the file at path into a T. The format is derived from
// the file extension; open errors are returned unchanged.
func ParseFile[T any](s *Serializer, path string) (T, error) {
	var zero T
	f, rc, err := s.openFile(path)
	if err != nil {
		return zero, err
	}
	defer rc.Close()
	return parseOne[T](context.Background(), f, SourceFile, rc)
}

// ParseFileList decodes the sequence document in the file at path into a []T.
func ParseFileList[T any](s *Serializer, path string) ([]T, error) {
	f, rc, err := s.openFile(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parseList[T](context.Background(), f, SourceFile, rc)
}

// ParseURL fetches rawURL and decodes it into a T. The format is derived from
// the extension of the URL path. Schemes http, https and file are supported.
func ParseURL[T any](ctx context.Context, s *Serializer, rawURL string) (T, error) {
	var zero T
	f, rc, err := s.openURL(ctx, rawURL)
	if err != nil {
		return zero, err
	}
	defer rc.Close()
	return parseOne[T](ctx, f, SourceURL, rc)
}

// ParseURLList fetches rawURL and decodes its sequence document into a []T.
func ParseURLList[T any](ctx context.Context, s *Serializer, rawURL string) ([]T, error) {
	f, rc, err := s.openURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parseList[T](ctx, f, SourceURL, rc)
}

func parseOne[T any](ctx context.Context, f Format, source string, r io.Reader) (T, error) {
	start := time.Now()
	var out T
	err := f.Parse(r, &out)
	emitParseComplete(ctx, canonicalName(f), source, typeName[T](), time.Since(start), err)
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func parseList[T any](ctx context.Context, f Format, source string, r io.Reader) ([]T, error) {
	start := time.Now()
	var out []T
	err := f.ParseList(r, &out)
	emitParseComplete(ctx, canonicalName(f), source, "[]"+typeName[T](), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// openFile resolves the format of path before opening it.
func (s *Serializer) openFile(path string) (Format, io.ReadCloser, error) {
	f, err := s.registry.ResolveByExtension(path)
	if err != nil {
		return nil, nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, file, nil
}

// openURL resolves the format of rawURL before fetching it.
func (s *Serializer) openURL(ctx context.Context, rawURL string) (Format, io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.registry.ResolveByExtension(u.Path)
	if err != nil {
		return nil, nil, err
	}

	switch u.Scheme {
	case "file":
		file, err := os.Open(u.Path)
		if err != nil {
			return nil, nil, err
		}
		return f, file, nil
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, nil, err
		}
		req.Header.Set("Accept", canonicalContentType(f))
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_ = resp.Body.Close()
			return nil, nil, &StatusError{URL: u.String(), StatusCode: resp.StatusCode}
		}
		return f, resp.Body, nil
	default:
		return nil, nil, errors.Newf("unsupported URL scheme %q", u.Scheme)
	}
}

// typeName names the shape T for events. Struct shapes use sentinel metadata.
func typeName[T any]() string {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Struct {
		if name := sentinel.Scan[T]().TypeName; name != "" {
			return name
		}
	}
	return rt.String()
}
