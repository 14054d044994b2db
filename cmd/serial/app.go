package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/zoobzio/serial"
)

// run is the main entry point after CLI parsing.
func run(opts Options, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := setupLogger(opts.LogLevel, stderr)
	defer func() { _ = logger.Sync() }()

	s, err := newSerializer(opts)
	if err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return 1
	}

	if opts.List {
		listFormats(s, stdout)
		return 0
	}

	from, err := resolveFormat(s.Registry(), opts.From)
	if err != nil {
		logger.Error("unknown input format", zap.String("from", opts.From), zap.Error(err))
		return 1
	}
	to, err := resolveFormat(s.Registry(), opts.To)
	if err != nil {
		logger.Error("unknown output format", zap.String("to", opts.To), zap.Error(err))
		return 1
	}

	start := time.Now()
	doc, err := readInput(s, opts, from, stdin)
	if err != nil {
		logger.Error("failed to read input", zap.String("in", opts.Input), zap.Error(err))
		return 1
	}
	logger.Debug("input parsed", zap.String("in", opts.Input), zap.Duration("took", time.Since(start)))

	text, err := s.Serialize(doc, to)
	if err != nil {
		logger.Error("failed to serialize", zap.Error(err))
		return 1
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(stdout, text); err != nil {
		logger.Error("failed to write output", zap.Error(err))
		return 1
	}

	outName := s.DefaultFormat().Names()[0]
	if to != nil {
		outName = to.Names()[0]
	}
	logger.Info("converted", zap.String("in", opts.Input), zap.String("to", outName), zap.Int("bytes", len(text)))
	return 0
}

func newSerializer(opts Options) (*serial.Serializer, error) {
	var sopts []serial.Option
	if opts.Default != "" {
		sopts = append(sopts, serial.WithDefaultFormat(opts.Default))
	}
	if opts.Pretty {
		sopts = append(sopts, serial.WithMapper(serial.NewMapper(serial.WithIndent("  "))))
	}
	return serial.New(sopts...)
}

// resolveFormat looks hint up as a format name, then as a content type.
// An empty hint resolves to nil, meaning the default or derived format.
func resolveFormat(r *serial.Registry, hint string) (serial.Format, error) {
	if hint == "" {
		return nil, nil
	}
	if strings.Contains(hint, "/") {
		return r.ResolveByMIMEType(hint)
	}
	return r.ResolveByName(hint)
}

// readInput parses the document named by opts.Input. An explicit input
// format overrides the one derived from the file extension.
func readInput(s *serial.Serializer, opts Options, from serial.Format, stdin io.Reader) (any, error) {
	switch {
	case opts.Input == "" || opts.Input == "-":
		return serial.ParseReader[any](s, stdin, from)
	case strings.Contains(opts.Input, "://"):
		if from != nil {
			return nil, errors.New("-from cannot be combined with URL input")
		}
		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		defer cancel()
		return serial.ParseURL[any](ctx, s, opts.Input)
	case from != nil:
		f, err := os.Open(opts.Input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return serial.ParseReader[any](s, f, from)
	default:
		return serial.ParseFile[any](s, opts.Input)
	}
}

func listFormats(s *serial.Serializer, w io.Writer) {
	def := s.DefaultFormat().Names()[0]
	for _, f := range s.Registry().Formats() {
		name := f.Names()[0]
		marker := ""
		if name == def {
			marker = " (default)"
		}
		fmt.Fprintf(w, "%s%s\n", name, marker)
		fmt.Fprintf(w, "  names:         %s\n", strings.Join(f.Names(), ", "))
		fmt.Fprintf(w, "  content types: %s\n", strings.Join(f.ContentTypes(), ", "))
		fmt.Fprintf(w, "  extensions:    %s\n", strings.Join(f.Extensions(), ", "))
	}
}
