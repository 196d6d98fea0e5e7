package drawing

import (
	"errors"
	"testing"
)

func TestNewCatalog_Mismatch(t *testing.T) {
	_, err := NewCatalog([]string{"a", "b"}, []string{"#000000"})
	if !errors.Is(err, ErrCatalogMismatch) {
		t.Fatalf("expected ErrCatalogMismatch, got %v", err)
	}

	_, err = NewCatalog(nil, nil)
	if !errors.Is(err, ErrCatalogMismatch) {
		t.Fatalf("expected ErrCatalogMismatch for empty catalog, got %v", err)
	}
}

func TestMustCatalog_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustCatalog to panic on mismatch")
		}
	}()
	MustCatalog([]string{"a"}, []string{"#000000", "#ffffff"})
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if c.Len() != len(DefaultTokens) {
		t.Errorf("expected %d entries, got %d", len(DefaultTokens), c.Len())
	}
}

func TestCatalog_NextWraps(t *testing.T) {
	c := MustCatalog([]string{"a", "b", "c"}, []string{"#1", "#2", "#3"})

	if got := c.Next(0); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := c.Next(2); got != 0 {
		t.Errorf("expected wrap to 0, got %d", got)
	}
	token, color := c.At(4)
	if token != "b" || color != "#2" {
		t.Errorf("expected (b, #2) for wrapped index, got (%s, %s)", token, color)
	}
}

func TestCatalog_CopiesInput(t *testing.T) {
	tokens := []string{"a"}
	c := MustCatalog(tokens, []string{"#1"})
	tokens[0] = "changed"
	if tok, _ := c.At(0); tok != "a" {
		t.Errorf("expected catalog to keep its own copy, got %q", tok)
	}
}
