package domain

import (
	"testing"
	"time"
)

func TestSortResponses(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	input := []Response{
		{ID: "c", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "a", CreatedAt: base},
		{ID: "b", CreatedAt: base.Add(time.Minute)},
	}

	ordered := SortResponses(input)
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if ordered[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, ordered[i].ID, id)
		}
	}

	// the input slice must not be reordered
	if input[0].ID != "c" || input[1].ID != "a" || input[2].ID != "b" {
		t.Fatal("SortResponses mutated its input")
	}
}

func TestSortResponsesBreaksTiesByID(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	input := []Response{
		{ID: "z", CreatedAt: at},
		{ID: "m", CreatedAt: at},
		{ID: "a", CreatedAt: at},
	}

	ordered := SortResponses(input)
	want := []string{"a", "m", "z"}
	for i, id := range want {
		if ordered[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, ordered[i].ID, id)
		}
	}
}

func TestValidResponderType(t *testing.T) {
	if !ValidResponderType(ResponderUser) || !ValidResponderType(ResponderAdmin) {
		t.Fatal("known responder types should be valid")
	}
	if ValidResponderType("SYSTEM") || ValidResponderType("") {
		t.Fatal("unknown responder types should be invalid")
	}
}

func TestResponderTypeFor(t *testing.T) {
	if ResponderTypeFor(RoleAdmin) != ResponderAdmin {
		t.Fatal("admin role should map to admin responder")
	}
	if ResponderTypeFor(RoleUser) != ResponderUser {
		t.Fatal("user role should map to user responder")
	}
}
