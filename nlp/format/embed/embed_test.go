package embed

import (
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	data := "the 0.1 0.2 0.3\nDog -0.5 0 1.5\n"
	embeddings, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if embeddings.Dim != 3 {
		t.Error("Got dim", embeddings.Dim, "expected 3")
	}
	if len(embeddings.Vectors) != 2 {
		t.Error("Got", len(embeddings.Vectors), "vectors, expected 2")
	}
	vec, exists := embeddings.Get("the")
	if !exists || vec[1] != 0.2 {
		t.Error("Got", vec, exists, "for known token")
	}
}

func TestGetLowerCase(t *testing.T) {
	embeddings, err := Read(strings.NewReader("dog 1 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, exists := embeddings.Get("Dog"); !exists {
		t.Error("Expected lowercase fallback lookup to succeed")
	}
	if _, exists := embeddings.Get("cat"); exists {
		t.Error("Expected lookup of unknown token to fail")
	}
}

func TestDimMismatch(t *testing.T) {
	if _, err := Read(strings.NewReader("a 1 2\nb 1 2 3\n")); err == nil {
		t.Error("Expected error for inconsistent vector dimensions")
	}
}
