package service

import (
	"reflect"
	"testing"

	"tagz/internal/entity/db"
)

func TestNormalizeNames(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil", input: nil, expected: []string{}},
		{name: "trims and drops blanks", input: []string{" a ", "", "  ", "b"}, expected: []string{"a", "b"}},
		{name: "keeps first occurrence", input: []string{"b", "a", "b", " a"}, expected: []string{"b", "a"}},
		{name: "case sensitive", input: []string{"Tag", "tag"}, expected: []string{"Tag", "tag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeNames(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSplitNames(t *testing.T) {
	got := SplitNames("a,b, c", "", "b,d")
	expected := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestSortedIDs(t *testing.T) {
	got := sortedIDs([]db.Tag{{ID: 9}, {ID: 2}, {ID: 5}})
	if !reflect.DeepEqual(got, []uint{2, 5, 9}) {
		t.Errorf("expected ascending ids, got %v", got)
	}
}

func TestExactMatches(t *testing.T) {
	links := []db.FileTag{
		{FileID: 1, TagID: 3}, {FileID: 1, TagID: 1},
		{FileID: 2, TagID: 1},
		{FileID: 3, TagID: 1}, {FileID: 3, TagID: 3}, {FileID: 3, TagID: 7},
		{FileID: 4, TagID: 3},
		{FileID: 5, TagID: 1}, {FileID: 5, TagID: 3},
	}
	groups := groupTagIDsByFile(links)

	tests := []struct {
		name     string
		query    []uint
		expected []uint
	}{
		{name: "pair matches regardless of row order", query: []uint{1, 3}, expected: []uint{1, 5}},
		{name: "superset excluded", query: []uint{1}, expected: []uint{2}},
		{name: "triple", query: []uint{1, 3, 7}, expected: []uint{3}},
		{name: "no match", query: []uint{7}, expected: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exactMatches(groups, tt.query)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestGroupTagIDsByFileKeepsRowOrder(t *testing.T) {
	groups := groupTagIDsByFile([]db.FileTag{{FileID: 1, TagID: 9}, {FileID: 1, TagID: 2}})
	if !reflect.DeepEqual(groups[1], []uint{9, 2}) {
		t.Errorf("expected insertion order, got %v", groups[1])
	}
}
