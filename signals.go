package serial

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for serial events.
var (
	SignalFormatRegistered  = capitan.NewSignal("serial.format.registered", "Format added to a registry")
	SignalSerializeComplete = capitan.NewSignal("serial.serialize.complete", "Serialize operation finished")
	SignalParseComplete     = capitan.NewSignal("serial.parse.complete", "Parse operation finished")
	SignalConvertComplete   = capitan.NewSignal("serial.convert.complete", "Convert operation finished")
)

// Keys for typed event data.
var (
	KeyFormat      = capitan.NewStringKey("format")
	KeyContentType = capitan.NewStringKey("content_type")
	KeySource      = capitan.NewStringKey("source")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeySize        = capitan.NewIntKey("size")
	KeyCount       = capitan.NewIntKey("count")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// Source kinds reported under KeySource.
const (
	SourceString = "string"
	SourceReader = "reader"
	SourceFile   = "file"
	SourceURL    = "url"
)

// emitFormatRegistered emits an event when a format joins a registry.
func emitFormatRegistered(ctx context.Context, format, contentType string) {
	capitan.Emit(ctx, SignalFormatRegistered,
		KeyFormat.Field(format),
		KeyContentType.Field(contentType),
	)
}

// emitSerializeComplete emits an event when serialize finishes.
func emitSerializeComplete(ctx context.Context, format, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFormat.Field(format),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSerializeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSerializeComplete, fields...)
	}
}

// emitParseComplete emits an event when parse or parse-list finishes.
func emitParseComplete(ctx context.Context, format, source, typeName string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFormat.Field(format),
		KeySource.Field(source),
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalParseComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalParseComplete, fields...)
	}
}

// emitConvertComplete emits an event when a conversion finishes.
func emitConvertComplete(ctx context.Context, typeName string, count int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyCount.Field(count),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalConvertComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalConvertComplete, fields...)
	}
}
