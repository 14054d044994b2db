package main

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"
)

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := ParseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if opts.Input != "-" {
		t.Errorf("Input = %q, want %q", opts.Input, "-")
	}
	if opts.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", opts.LogLevel, "warn")
	}
	if opts.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", opts.Timeout)
	}
	if opts.List || opts.Pretty {
		t.Error("List and Pretty should default to false")
	}
}

func TestParseFlags_Values(t *testing.T) {
	opts, err := ParseFlags([]string{"-from", "yaml", "-to", "application/json", "-pretty", "-default", "yml", "-timeout", "2s", "data.txt"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if opts.From != "yaml" || opts.To != "application/json" || opts.Default != "yml" {
		t.Errorf("ParseFlags() = %+v", opts)
	}
	if !opts.Pretty {
		t.Error("Pretty should be set")
	}
	if opts.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", opts.Timeout)
	}
	if opts.Input != "data.txt" {
		t.Errorf("Input = %q, want positional %q", opts.Input, "data.txt")
	}
}

func TestParseFlags_Errors(t *testing.T) {
	if _, err := ParseFlags([]string{"-nope"}, io.Discard); err == nil {
		t.Error("ParseFlags(unknown flag) should return error")
	}
	if _, err := ParseFlags([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("ParseFlags(-h) error = %v, want flag.ErrHelp", err)
	}
}
