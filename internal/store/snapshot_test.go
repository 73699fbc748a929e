package store

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	urls := map[string]string{"Acme": "https://acme.example", "Empty": ""}
	if err := s.Save("business_urls.json", urls); err != nil {
		t.Fatalf("save: %v", err)
	}

	var loaded map[string]string
	if err := s.Load("business_urls.json", &loaded); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(loaded, urls) {
		t.Fatalf("round trip mismatch: %#v", loaded)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "snapshots"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	var v []string
	if err := s.Load("absent.json", &v); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestNewRejectsEmptyDir(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty directory")
	}
}
