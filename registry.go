package serial

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"
)

// MIMETable maps a file extension (with its leading dot) to a MIME type.
// It returns "" when the extension has no mapping.
type MIMETable interface {
	TypeByExtension(ext string) string
}

// MIMETableFunc adapts a function to MIMETable.
type MIMETableFunc func(ext string) string

// TypeByExtension calls fn(ext).
func (fn MIMETableFunc) TypeByExtension(ext string) string {
	return fn(ext)
}

// StdMIMETable is the standard library extension table.
var StdMIMETable MIMETable = MIMETableFunc(mime.TypeByExtension)

// Registry resolves formats by name, MIME type or file extension.
//
// Every name, MIME type and extension belongs to exactly one format.
// Lookups are safe for concurrent use. Once Freeze is called, Register and
// SetDefault fail; a Serializer freezes its registry in New.
type Registry struct {
	mu         sync.RWMutex
	frozen     bool
	formats    []Format
	byName     map[string]Format
	byMIME     map[string]string // MIME type -> canonical name
	extensions map[string]Format
	table      MIMETable
	def        Format
}

// NewRegistry creates an empty registry. A nil table selects StdMIMETable.
func NewRegistry(table MIMETable) *Registry {
	if table == nil {
		table = StdMIMETable
	}
	return &Registry{
		byName:     make(map[string]Format),
		byMIME:     make(map[string]string),
		extensions: make(map[string]Format),
		table:      table,
	}
}

// Register adds f under all of its names, MIME types and extensions.
// The first registered format becomes the default until SetDefault is called.
func (r *Registry) Register(f Format) error {
	name := canonicalName(f)
	if name == "" {
		return &ConfigError{Format: fmt.Sprintf("%T", f)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return &ConfigError{Format: name, Reason: frozenReason}
	}

	for _, n := range f.Names() {
		if owner, ok := r.byName[normalize(n)]; ok {
			return &ConfigError{Format: name, Name: n, Owner: canonicalName(owner)}
		}
	}
	for _, ct := range f.ContentTypes() {
		if owner, ok := r.byMIME[normalize(ct)]; ok {
			return &ConfigError{Format: name, Name: ct, Owner: owner}
		}
	}
	for _, ext := range f.Extensions() {
		if owner, ok := r.extensions[normalizeExt(ext)]; ok {
			return &ConfigError{Format: name, Name: ext, Owner: canonicalName(owner)}
		}
	}

	for _, n := range f.Names() {
		r.byName[normalize(n)] = f
	}
	for _, ct := range f.ContentTypes() {
		r.byMIME[normalize(ct)] = name
	}
	for _, ext := range f.Extensions() {
		r.extensions[normalizeExt(ext)] = f
	}
	r.formats = append(r.formats, f)
	if r.def == nil {
		r.def = f
	}

	emitFormatRegistered(context.Background(), name, canonicalContentType(f))
	return nil
}

// SetDefault selects the format used when no hint is available.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return &ConfigError{Name: name, Reason: frozenReason}
	}

	f, ok := r.byName[normalize(name)]
	if !ok {
		return &ConfigError{Name: name}
	}
	r.def = f
	return nil
}

const frozenReason = "registry is frozen"

// Freeze makes the registry read-only. It cannot be undone.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Default returns the default format, or nil if nothing is registered.
func (r *Registry) Default() Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}

// Formats returns the registered formats in registration order.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, len(r.formats))
	copy(out, r.formats)
	return out
}

// ResolveByName returns the format registered under name.
func (r *Registry) ResolveByName(name string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveByName(name)
}

func (r *Registry) resolveByName(name string) (Format, error) {
	if f, ok := r.byName[normalize(name)]; ok {
		return f, nil
	}
	return nil, newFormatError(LookupName, name)
}

// ResolveByMIMEType returns the format for a MIME type such as
// "application/json; charset=utf-8". Structured syntax suffixes
// ("application/vnd.api+json") resolve through the suffix.
func (r *Registry) ResolveByMIMEType(mimeType string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveByMIMEType(mimeType)
}

func (r *Registry) resolveByMIMEType(mimeType string) (Format, error) {
	mt := normalize(mimeType)
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	if name, ok := r.byMIME[mt]; ok {
		return r.resolveByName(name)
	}
	if i := strings.LastIndexByte(mt, '+'); i >= 0 {
		if f, ok := r.byName[mt[i+1:]]; ok {
			return f, nil
		}
	}
	return nil, newFormatError(LookupMIMEType, mimeType)
}

// ResolveByExtension returns the format for a file extension. ext may be
// "yml", ".yml" or a file name or path such as "conf/app.yml".
//
// The extension is first mapped to a MIME type, using the registered
// formats' own extensions and then the registry's MIMETable, and the MIME
// type is resolved with ResolveByMIMEType.
func (r *Registry) ResolveByExtension(ext string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := extensionOf(ext)
	if key == "" {
		return nil, newFormatError(LookupExtension, ext)
	}
	mimeType := ""
	if f, ok := r.extensions[key]; ok {
		mimeType = canonicalContentType(f)
	} else {
		mimeType = r.table.TypeByExtension("." + key)
	}
	if mimeType == "" {
		return nil, newFormatError(LookupExtension, ext)
	}
	f, err := r.resolveByMIMEType(mimeType)
	if err != nil {
		return nil, newFormatError(LookupExtension, ext)
	}
	return f, nil
}

// extensionOf extracts a normalized extension from a bare extension,
// dotted extension, file name or path.
func extensionOf(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, `./\`) {
		return normalize(s)
	}
	return normalizeExt(filepath.Ext(s))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(normalize(ext), ".")
}
