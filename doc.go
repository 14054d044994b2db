// Package serial provides format-agnostic serialization with content-type
// and file-extension aware format resolution.
//
// A Serializer owns a Registry of formats and one shared Mapper. Every
// format converts values through that mapper, so struct fields are named by
// their `json` tags whether the text is JSON or YAML.
//
// # Formats
//
// Built-in formats:
//
//   - json - names "json"; application/json, text/json; extension .json
//   - yaml - names "yaml", "yml"; application/x-yaml, application/yaml,
//     text/yaml, text/x-yaml; extensions .yaml, .yml
//
// JSON is the default format. YAML output never starts with a "---"
// document marker.
//
// # Sources
//
// Values can be parsed from a string, an io.Reader, a file or a URL:
//
//	s := serial.Default()
//
//	m, _ := serial.ParseString[serial.Map](s, `{"a":1}`, nil) // default format
//	cfg, _ := serial.ParseFile[Config](s, "conf/app.yml")      // format from extension
//	users, _ := serial.ParseURLList[User](ctx, s, "https://example.com/users.json")
//
// For files and URLs the format is always derived from the extension. To
// force a format, open the resource and use ParseReader.
//
// # Serializing
//
//	text, _ := s.Serialize(user, nil)                         // default format
//	text, _ = s.SerializeContentType(user, "application/x-yaml")
//
// # Conversions
//
// ConvertToMap, ConvertToObject and ConvertToObjects reshape values between
// generic mappings and typed records using the shared mapper.
//
// # Errors
//
// Failures are typed and unwrap to a sentinel:
//
//   - *FormatError - ErrUnknownFormat
//   - *ParseError - ErrParse (with line and column when known)
//   - *SerializeError - ErrSerialize (cyclic graphs, unsupported values)
//   - *ConfigError - ErrConfiguration (overlapping format names)
//   - *ConvertError - ErrConvert
//
// I/O errors from opening files or fetching URLs are returned unchanged.
package serial
