package benchmarks

import (
	"context"
	"strings"
	"testing"

	"github.com/zoobzio/serial"
	codectest "github.com/zoobzio/serial/testing"
)

func BenchmarkSerialize_JSON(b *testing.B) {
	s := codectest.TestSerializer(b)
	f, _ := s.Registry().ResolveByName("json")
	customer := codectest.SampleCustomer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Serialize(customer, f)
	}
}

func BenchmarkSerialize_YAML(b *testing.B) {
	s := codectest.TestSerializer(b)
	f, _ := s.Registry().ResolveByName("yaml")
	customer := codectest.SampleCustomer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Serialize(customer, f)
	}
}

func BenchmarkParseString_JSON(b *testing.B) {
	s := codectest.TestSerializer(b)
	f, _ := s.Registry().ResolveByName("json")
	text, _ := s.Serialize(codectest.SampleCustomer(), f)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = serial.ParseString[codectest.Customer](s, text, f)
	}
}

func BenchmarkParseString_YAML(b *testing.B) {
	s := codectest.TestSerializer(b)
	f, _ := s.Registry().ResolveByName("yaml")
	text, _ := s.Serialize(codectest.SampleCustomer(), f)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = serial.ParseString[codectest.Customer](s, text, f)
	}
}

func BenchmarkParseStringList_JSON(b *testing.B) {
	s := codectest.TestSerializer(b)
	text := "[" + strings.Repeat(`{"id":"1","name":"Alice"},`, 99) + `{"id":"1","name":"Alice"}]`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = serial.ParseStringList[codectest.SimpleUser](s, text, nil)
	}
}

func BenchmarkParseURL_JSON(b *testing.B) {
	s := codectest.TestSerializer(b)
	base := codectest.ServeFiles(b, map[string]string{"/user.json": `{"id":"1","name":"Alice"}`})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = serial.ParseURL[codectest.SimpleUser](ctx, s, base+"/user.json")
	}
}

func BenchmarkConvertToMap(b *testing.B) {
	s := codectest.TestSerializer(b)
	customer := codectest.SampleCustomer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = serial.ConvertToMap(s, customer)
	}
}

func BenchmarkConvertToObject(b *testing.B) {
	s := codectest.TestSerializer(b)
	m, _ := serial.ConvertToMap(s, codectest.SampleCustomer())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = serial.ConvertToObject[codectest.Customer](s, m)
	}
}

func BenchmarkResolveByExtension(b *testing.B) {
	s := codectest.TestSerializer(b)
	r := s.Registry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.ResolveByExtension("config/app.yml")
	}
}
