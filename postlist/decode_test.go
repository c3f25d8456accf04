package postlist

import (
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/pkg/errors"
)

func TestDecodeIndex(t *testing.T) {
	const index = `[
		{"url": "/a", "title": "Go Concurrency", "summary": "goroutines", "category": "Go"},
		{"url": "/b", "title": "Rust Basics", "summary": "ownership"}
	]`

	p, err := DecodeIndex(strings.NewReader(index))
	if err != nil {
		t.Fatal("Failed to decode:", err)
	}

	if eq := deep.Equal(p, testPosts[:2]); eq != nil {
		t.Fatal("Unexpected posts:", eq)
	}
}

func TestDecodeIndexEmpty(t *testing.T) {
	for _, doc := range []string{"[]", "null", " [ ] "} {
		p, err := DecodeIndex(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("Failed to decode %q: %v", doc, err)
		}
		if len(p) != 0 {
			t.Fatalf("Unexpected posts from %q: %v", doc, p)
		}
	}
}

func TestDecodeIndexInvalid(t *testing.T) {
	for _, doc := range []string{"", "{", `{"url": "/a"}`, "<html>"} {
		if _, err := DecodeIndex(strings.NewReader(doc)); !errors.Is(err, ErrInvalidIndex) {
			t.Fatalf("Unexpected error for %q: %v", doc, err)
		}
	}
}

func TestDecodeIndexSkipsMalformed(t *testing.T) {
	const index = `[
		{"url": "/a", "title": "Go Concurrency", "summary": "goroutines", "category": "Go"},
		{"url": "/nope", "summary": "no title"},
		42,
		null,
		{"url": "/b", "title": "Rust Basics", "summary": "ownership"}
	]`

	p, skipped, err := DecodeIndexStrict(strings.NewReader(index))
	if err != nil {
		t.Fatal("Failed to decode:", err)
	}

	if eq := deep.Equal(p, testPosts[:2]); eq != nil {
		t.Fatal("Unexpected posts:", eq)
	}

	var indices = make([]int, len(skipped))
	for i, entry := range skipped {
		indices[i] = entry.Index
	}

	if eq := deep.Equal(indices, []int{1, 2, 3}); eq != nil {
		t.Fatal("Unexpected skipped entries:", eq)
	}

	if !errors.Is(skipped[0], ErrMissingTitle) {
		t.Fatal("Unexpected skip reason:", skipped[0])
	}
}
