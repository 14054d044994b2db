package serial

import (
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// documentStart is the marker yaml.v3 may place before a document.
const documentStart = "---\n"

var yamlLine = regexp.MustCompile(`line (\d+)`)

// yamlFormat implements Format for YAML.
// Values pass through the shared mapper, so struct fields are named by their
// `json` tags exactly as in JSON output.
type yamlFormat struct {
	mapper *Mapper
	indent int
}

// YAML returns the YAML format backed by mapper.
func YAML(mapper *Mapper) Format {
	return &yamlFormat{mapper: mapper, indent: 2}
}

func (f *yamlFormat) Names() []string { return []string{"yaml", "yml"} }

func (f *yamlFormat) ContentTypes() []string {
	return []string{"application/x-yaml", "application/yaml", "text/yaml", "text/x-yaml"}
}

func (f *yamlFormat) Extensions() []string { return []string{"yaml", "yml"} }

// Serialize encodes v as YAML without a document start marker.
func (f *yamlFormat) Serialize(v any) (string, error) {
	tree, err := f.mapper.tree(v)
	if err != nil {
		return "", newSerializeError("yaml", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(f.indent)
	if err := enc.Encode(tree); err != nil {
		return "", newSerializeError("yaml", err)
	}
	if err := enc.Close(); err != nil {
		return "", newSerializeError("yaml", err)
	}
	return strings.TrimPrefix(buf.String(), documentStart), nil
}

// Parse decodes the first YAML document from r into target.
func (f *yamlFormat) Parse(r io.Reader, target any) error {
	doc, err := f.decode(r)
	if err != nil {
		return err
	}
	if err := f.mapper.Convert(doc, target); err != nil {
		return &ParseError{Format: "yaml", Cause: err}
	}
	return nil
}

// ParseList decodes a YAML sequence from r into target.
func (f *yamlFormat) ParseList(r io.Reader, target any) error {
	slice, err := slicePointer(target)
	if err != nil {
		return err
	}
	doc, err := f.decode(r)
	if err != nil {
		return err
	}
	switch doc.(type) {
	case nil:
		// An explicit null or a comments-only document is an empty sequence.
		ensureSlice(slice)
		return nil
	case []any:
	default:
		return &ParseError{Format: "yaml", Cause: errors.Newf("expected a sequence, found %T", doc)}
	}
	if err := f.mapper.Convert(doc, target); err != nil {
		return &ParseError{Format: "yaml", Cause: err}
	}
	ensureSlice(slice)
	return nil
}

// decode reads r fully and returns the generic document tree.
// Blank input is an empty document and fails as in JSON.
func (f *yamlFormat) decode(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Format: "yaml", Cause: errEmptyDocument}
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, yamlParseError(err)
	}
	doc, err = textKeys(doc)
	if err != nil {
		return nil, &ParseError{Format: "yaml", Cause: err}
	}
	return doc, nil
}

// yamlParseError extracts the line yaml.v3 reports in its messages.
func yamlParseError(cause error) error {
	pe := &ParseError{Format: "yaml", Cause: cause}
	msg := cause.Error()
	var typeErr *yaml.TypeError
	if errors.As(cause, &typeErr) && len(typeErr.Errors) > 0 {
		msg = typeErr.Errors[0]
	}
	if m := yamlLine.FindStringSubmatch(msg); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
	}
	return pe
}
