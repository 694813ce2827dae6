package models

import "testing"

func TestSearchQueryValidate(t *testing.T) {
	q := &SearchQuery{Query: "concrete"}
	if err := q.Validate(); err != nil {
		t.Fatal(err)
	}
	if q.Limit != 10 {
		t.Errorf("default limit = %d, want 10", q.Limit)
	}

	q = &SearchQuery{Query: "concrete", Limit: 500}
	if err := q.Validate(); err != nil {
		t.Fatal(err)
	}
	if q.Limit != 100 {
		t.Errorf("clamped limit = %d, want 100", q.Limit)
	}

	q = &SearchQuery{}
	if err := q.Validate(); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestDocumentInputValidate(t *testing.T) {
	in := &DocumentInput{Title: "empty"}
	if err := in.Validate(); err == nil {
		t.Error("expected error for empty content")
	}
	in = &DocumentInput{Content: "some text"}
	if err := in.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
