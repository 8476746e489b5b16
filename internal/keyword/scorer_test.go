package keyword_test

import (
	"testing"

	"github.com/talentsift/assessrec/internal/keyword"
	"github.com/talentsift/assessrec/pkg/types"
)

func boolPtr(b bool) *bool { return &b }

func testItem() *types.CatalogItem {
	return &types.CatalogItem{
		ID:            1,
		Name:          "Java Programming Test",
		TestTypeCodes: "Knowledge Skills",
		JobLevels:     "Professional Individual Contributor",
		Description:   "Measures knowledge of Java programming constructs and debugging.",
	}
}

func TestScore_EmptyQuery(t *testing.T) {
	if got := keyword.Score(nil, testItem()); got != 0 {
		t.Errorf("Score(nil) = %v, want 0", got)
	}
	if got := keyword.Score([]string{}, testItem()); got != 0 {
		t.Errorf("Score(empty) = %v, want 0", got)
	}
}

func TestScore_EmptyItem(t *testing.T) {
	item := &types.CatalogItem{ID: 2}
	got := keyword.Score(keyword.Tokenize("java developer"), item)
	if got != 0 {
		t.Errorf("Score against empty item = %v, want 0", got)
	}
}

func TestScore_Range(t *testing.T) {
	queries := []string{
		"java",
		"java developer",
		"senior java developer with strong debugging skills",
		"completely unrelated marine biology research",
	}

	for _, q := range queries {
		got := keyword.Score(keyword.Tokenize(q), testItem())
		if got < 0 || got > 1 {
			t.Errorf("Score(%q) = %v, out of [0, 1]", q, got)
		}
	}
}

func TestScore_ExactBeatsNoMatch(t *testing.T) {
	item := testItem()

	match := keyword.Score(keyword.Tokenize("java programming"), item)
	miss := keyword.Score(keyword.Tokenize("marine biology"), item)

	if match <= miss {
		t.Errorf("matching query scored %v, non-matching %v; want match > miss", match, miss)
	}
	if miss != 0 {
		t.Errorf("non-matching query scored %v, want 0", miss)
	}
}

func TestScore_NameBoostOutweighsDescription(t *testing.T) {
	nameHit := &types.CatalogItem{Name: "Python Assessment"}
	descHit := &types.CatalogItem{Description: "Python Assessment"}

	tokens := keyword.Tokenize("python")
	if n, d := keyword.Score(tokens, nameHit), keyword.Score(tokens, descHit); n <= d {
		t.Errorf("name-field match %v should outscore description-field match %v", n, d)
	}
}

func TestScore_PartialCredit(t *testing.T) {
	item := &types.CatalogItem{Name: "Development Aptitude"}

	exact := keyword.Score(keyword.Tokenize("development"), item)
	partial := keyword.Score(keyword.Tokenize("develop"), item)

	if partial <= 0 {
		t.Fatalf("substring query scored %v, want > 0", partial)
	}
	if partial >= exact {
		t.Errorf("partial match %v should score below exact match %v", partial, exact)
	}
}

func TestScore_RemoteBoost(t *testing.T) {
	base := testItem()
	remote := testItem()
	remote.RemoteTesting = boolPtr(true)

	tokens := keyword.Tokenize("remote java assessment")
	if r, b := keyword.Score(tokens, remote), keyword.Score(tokens, base); r <= b {
		t.Errorf("remote-capable item %v should outscore base item %v for a remote query", r, b)
	}

	// No boost when the query never asks for it
	plain := keyword.Tokenize("java assessment")
	if r, b := keyword.Score(plain, remote), keyword.Score(plain, base); r != b {
		t.Errorf("remote capability changed score without remote in query: %v vs %v", r, b)
	}
}

func TestScore_AdaptiveBoost(t *testing.T) {
	base := testItem()
	adaptive := testItem()
	adaptive.AdaptiveSupport = boolPtr(true)

	for _, q := range []string{"adaptive java test", "irt java test"} {
		tokens := keyword.Tokenize(q)
		if a, b := keyword.Score(tokens, adaptive), keyword.Score(tokens, base); a <= b {
			t.Errorf("query %q: adaptive item %v should outscore base item %v", q, a, b)
		}
	}
}

func TestScore_NilCapabilityTreatedAsFalse(t *testing.T) {
	unknown := testItem()
	declined := testItem()
	declined.RemoteTesting = boolPtr(false)

	tokens := keyword.Tokenize("remote java")
	if u, d := keyword.Score(tokens, unknown), keyword.Score(tokens, declined); u != d {
		t.Errorf("nil capability %v should score the same as false %v", u, d)
	}
}
