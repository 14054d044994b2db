package integration

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/zoobzio/serial"
	codectest "github.com/zoobzio/serial/testing"
)

func TestRoundTrip_String(t *testing.T) {
	s := codectest.TestSerializer(t)
	original := codectest.SampleCustomer()

	for _, f := range s.Registry().Formats() {
		name := f.Names()[0]
		t.Run(name, func(t *testing.T) {
			text, err := s.Serialize(original, f)
			if err != nil {
				t.Fatalf("Serialize error: %v", err)
			}

			restored, err := serial.ParseString[codectest.Customer](s, text, f)
			if err != nil {
				t.Fatalf("ParseString error: %v", err)
			}
			if !reflect.DeepEqual(restored, original) {
				t.Errorf("round-trip = %+v, want %+v", restored, original)
			}
		})
	}
}

func TestRoundTrip_File(t *testing.T) {
	s := codectest.TestSerializer(t)
	original := []codectest.Customer{codectest.SampleCustomer(), {ID: "c-2", Name: "Bob", Tags: []string{}, Labels: map[string]string{}}}

	for _, file := range []string{"customers.json", "customers.yaml", "customers.yml"} {
		t.Run(file, func(t *testing.T) {
			f, err := s.Registry().ResolveByExtension(file)
			if err != nil {
				t.Fatalf("ResolveByExtension error: %v", err)
			}
			text, err := s.Serialize(original, f)
			if err != nil {
				t.Fatalf("Serialize error: %v", err)
			}

			path := codectest.WriteFile(t, file, text)
			restored, err := serial.ParseFileList[codectest.Customer](s, path)
			if err != nil {
				t.Fatalf("ParseFileList error: %v", err)
			}
			if !reflect.DeepEqual(restored, original) {
				t.Errorf("round-trip = %+v, want %+v", restored, original)
			}
		})
	}
}

func TestRoundTrip_URL(t *testing.T) {
	s := codectest.TestSerializer(t)
	original := codectest.SampleCustomer()

	jsonText, err := s.SerializeContentType(original, "application/json")
	if err != nil {
		t.Fatalf("SerializeContentType(json) error: %v", err)
	}
	yamlText, err := s.SerializeContentType(original, "application/x-yaml")
	if err != nil {
		t.Fatalf("SerializeContentType(yaml) error: %v", err)
	}

	base := codectest.ServeFiles(t, map[string]string{
		"/customer.json": jsonText,
		"/customer.yml":  yamlText,
	})

	for _, path := range []string{"/customer.json", "/customer.yml"} {
		restored, err := serial.ParseURL[codectest.Customer](context.Background(), s, base+path)
		if err != nil {
			t.Fatalf("ParseURL(%s) error: %v", path, err)
		}
		if !reflect.DeepEqual(restored, original) {
			t.Errorf("ParseURL(%s) = %+v, want %+v", path, restored, original)
		}
	}
}

func TestRoundTrip_CrossFormat(t *testing.T) {
	s := codectest.TestSerializer(t)
	jsonFormat, _ := s.Registry().ResolveByName("json")
	yamlFormat, _ := s.Registry().ResolveByName("yaml")

	input := `{"id":"c-1","nested":{"f":1.5,"list":[1,"two",null,true],"n":3}}`

	generic, err := serial.ParseString[serial.Map](s, input, jsonFormat)
	if err != nil {
		t.Fatalf("ParseString(json) error: %v", err)
	}
	yamlText, err := s.Serialize(generic, yamlFormat)
	if err != nil {
		t.Fatalf("Serialize(yaml) error: %v", err)
	}
	if strings.HasPrefix(yamlText, "---") {
		t.Errorf("Serialize(yaml) = %q, should not start with a document marker", yamlText)
	}

	fromYAML, err := serial.ParseString[serial.Map](s, yamlText, yamlFormat)
	if err != nil {
		t.Fatalf("ParseString(yaml) error: %v", err)
	}
	if !reflect.DeepEqual(fromYAML, generic) {
		t.Errorf("cross-format = %#v, want %#v", fromYAML, generic)
	}

	jsonText, err := s.Serialize(fromYAML, jsonFormat)
	if err != nil {
		t.Fatalf("Serialize(json) error: %v", err)
	}
	if jsonText != input {
		t.Errorf("Serialize(json) = %s, want %s", jsonText, input)
	}
}

func TestRoundTrip_Convert(t *testing.T) {
	s := codectest.TestSerializer(t)
	original := []codectest.Customer{codectest.SampleCustomer(), codectest.SampleCustomer()}
	original[1].ID = "c-2"

	maps := make([]serial.Map, 0, len(original))
	for _, c := range original {
		m, err := serial.ConvertToMap(s, c)
		if err != nil {
			t.Fatalf("ConvertToMap error: %v", err)
		}
		maps = append(maps, m)
	}

	restored, err := serial.ConvertToObjects[codectest.Customer](s, maps)
	if err != nil {
		t.Fatalf("ConvertToObjects error: %v", err)
	}
	if !reflect.DeepEqual(restored, original) {
		t.Errorf("ConvertToObjects = %+v, want %+v", restored, original)
	}
}

func TestSerializer_Concurrent(t *testing.T) {
	s := codectest.TestSerializer(t)
	original := codectest.SampleCustomer()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ct := "application/json"
			if i%2 == 1 {
				ct = "application/yaml"
			}
			f, err := s.Registry().ResolveByMIMEType(ct)
			if err != nil {
				errs <- err
				return
			}
			text, err := s.Serialize(original, f)
			if err != nil {
				errs <- err
				return
			}
			if _, err := serial.ParseString[codectest.Customer](s, text, f); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent round-trip error: %v", err)
	}
}
