package seed

import (
	"testing"

	"github.com/localmind/localmind/internal/index"
)

func TestLoad(t *testing.T) {
	store := index.NewStore(1000, 5)
	n, err := Load(store)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("loaded %d documents, want 3", n)
	}
	if store.Len() != 3 {
		t.Errorf("store has %d documents, want 3", store.Len())
	}

	results := store.Search("concrete compressive strength", 10)
	if len(results) == 0 {
		t.Fatal("expected results from seeded corpus")
	}
	if results[0].Document.ID != "sample2" {
		t.Errorf("top result = %q, want sample2", results[0].Document.ID)
	}
}

func TestLoadIdempotent(t *testing.T) {
	store := index.NewStore(1000, 5)
	if _, err := Load(store); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(store); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 3 {
		t.Errorf("store has %d documents after double seed, want 3", store.Len())
	}
}
