package service

import (
	"testing"
)

func TestJSONCodec(t *testing.T) {
	codec := JSONCodec{}
	if codec.Name() != "json" {
		t.Fatalf("expected name json, got %q", codec.Name())
	}

	data, err := codec.Marshal(&Student{Name: "John Doe", Location: &Location{Latitude: 0, Longitude: 0}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"name":"John Doe","location":{"latitude":0,"longitude":0}}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	var empty ListStudentsRequest
	if err := codec.Unmarshal(nil, &empty); err != nil {
		t.Errorf("empty body should decode: %v", err)
	}
	if err := codec.Unmarshal([]byte("{"), &empty); err == nil {
		t.Error("expected error for truncated JSON")
	}
}
