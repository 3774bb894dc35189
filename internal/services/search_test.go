package services

import (
	"reflect"
	"testing"
)

type named struct {
	Rank int
	Name string
}

func nameField(n named) []string { return []string{n.Name} }

func TestFilterByNameMatchesSubstringIgnoringCase(t *testing.T) {
	items := []named{{1, "Alice"}, {2, "Bob"}, {3, "Barbara"}}

	for _, q := range []string{"b", "B", "  b  "} {
		got := FilterByName(items, q, nameField)
		want := []named{{2, "Bob"}, {3, "Barbara"}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("query %q: got %+v", q, got)
		}
	}
}

func TestFilterByNameBlankQueryIsIdentity(t *testing.T) {
	items := []named{{1, "Alice"}, {2, "Bob"}}
	for _, q := range []string{"", "   ", "\t"} {
		if got := FilterByName(items, q, nameField); !reflect.DeepEqual(got, items) {
			t.Fatalf("query %q changed the list: %+v", q, got)
		}
	}
	if SearchActive("  ") {
		t.Fatal("whitespace query must not be active")
	}
}

func TestFilterByNameIsIdempotentAndKeepsRanks(t *testing.T) {
	items := []named{{1, "Dua Lipa"}, {2, "Drake"}, {3, "Adele"}, {4, "Daddy Yankee"}}
	once := FilterByName(items, "d", nameField)
	twice := FilterByName(once, "d", nameField)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent: %+v vs %+v", once, twice)
	}
	for i := 1; i < len(once); i++ {
		if once[i-1].Rank >= once[i].Rank {
			t.Fatalf("order not preserved: %+v", once)
		}
	}
}

func TestFilterByNameAnyField(t *testing.T) {
	type song struct{ Title, Artist string }
	items := []song{{"Flowers", "Miley Cyrus"}, {"Kill Bill", "SZA"}}
	got := FilterByName(items, "sza", func(s song) []string { return []string{s.Title, s.Artist} })
	if len(got) != 1 || got[0].Title != "Kill Bill" {
		t.Fatalf("expected match on artist field, got %+v", got)
	}
}
