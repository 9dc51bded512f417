package resolve

import (
	"testing"

	"github.com/inkdex/inkdex/backend/pkg/common"
)

func TestApplyMerges_DescriptionUnionAndRemoval(t *testing.T) {
	entities := []common.Entity{
		{ID: "1", Name: "Blake T McCarn", Type: "person", Description: "Owns the mill", Degree: 3},
		{ID: "2", Name: "Blake", Type: "person", Description: "Seen at the docks"},
	}

	gotEntities, _ := applyMerges(entities, nil, map[string]string{"2": "1"})

	if len(gotEntities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(gotEntities))
	}
	keep := gotEntities[0]
	if keep.ID != "1" {
		t.Fatalf("expected entity 1 to survive, got %s", keep.ID)
	}
	if keep.Description != "Owns the mill Seen at the docks" {
		t.Fatalf("unexpected description: %q", keep.Description)
	}
	if keep.Degree != 3 {
		t.Fatalf("expected degree to carry through, got %d", keep.Degree)
	}
}

func TestApplyMerges_DescriptionSubstringNotDuplicated(t *testing.T) {
	entities := []common.Entity{
		{ID: "1", Name: "Blake T McCarn", Type: "person", Description: "Owns the mill and the docks"},
		{ID: "2", Name: "Blake", Type: "person", Description: "the mill"},
	}

	gotEntities, _ := applyMerges(entities, nil, map[string]string{"2": "1"})

	if gotEntities[0].Description != "Owns the mill and the docks" {
		t.Fatalf("substring description was appended: %q", gotEntities[0].Description)
	}
}

func TestApplyMerges_RedirectsRelationships(t *testing.T) {
	entities := []common.Entity{
		{ID: "1", Name: "Blake T McCarn", Type: "person"},
		{ID: "2", Name: "Blake", Type: "person"},
		{ID: "3", Name: "Harbor Trust", Type: "organization"},
	}
	relationships := []common.Relationship{
		{Source: "Blake", Target: "Harbor Trust", SourceID: "2", TargetID: "3", Type: "banks_with"},
	}

	_, gotRels := applyMerges(entities, relationships, map[string]string{"2": "1"})

	if len(gotRels) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(gotRels))
	}
	rel := gotRels[0]
	if rel.SourceID != "1" || rel.Source != "Blake T McCarn" {
		t.Fatalf("relationship not redirected: %+v", rel)
	}
	if rel.Target != "Harbor Trust" || rel.TargetID != "3" {
		t.Fatalf("unrelated endpoint changed: %+v", rel)
	}
}

func TestApplyMerges_DropsSelfLoops(t *testing.T) {
	entities := []common.Entity{
		{ID: "1", Name: "Blake T McCarn", Type: "person"},
		{ID: "2", Name: "Blake", Type: "person"},
	}
	relationships := []common.Relationship{
		{Source: "Blake", Target: "Blake T McCarn", SourceID: "2", TargetID: "1", Type: "alias_of"},
	}

	_, gotRels := applyMerges(entities, relationships, map[string]string{"2": "1"})

	if len(gotRels) != 0 {
		t.Fatalf("expected self-loop to be dropped, got %v", gotRels)
	}
}

func TestApplyMerges_DeduplicatesDirectedEdges(t *testing.T) {
	entities := []common.Entity{
		{ID: "1", Name: "Blake T McCarn", Type: "person"},
		{ID: "2", Name: "Blake", Type: "person"},
		{ID: "3", Name: "Harbor Trust", Type: "organization"},
	}
	relationships := []common.Relationship{
		{Source: "Blake", Target: "Harbor Trust", SourceID: "2", TargetID: "3", Weight: 2, Description: "weak"},
		{Source: "Blake T McCarn", Target: "Harbor Trust", SourceID: "1", TargetID: "3", Weight: 5, Description: "strong"},
		{Source: "Harbor Trust", Target: "Blake T McCarn", SourceID: "3", TargetID: "1", Weight: 1, Description: "reverse"},
	}

	_, gotRels := applyMerges(entities, relationships, map[string]string{"2": "1"})

	if len(gotRels) != 2 {
		t.Fatalf("expected 2 relationships, got %d: %v", len(gotRels), gotRels)
	}
	byKey := make(map[string]common.Relationship)
	for _, rel := range gotRels {
		byKey[rel.Source+"|"+rel.Target] = rel
	}
	forward, ok := byKey["Blake T McCarn|Harbor Trust"]
	if !ok || forward.Weight != 5 {
		t.Fatalf("expected highest-weight forward edge to survive, got %v", byKey)
	}
	// Direction is preserved: the reverse edge is not a duplicate.
	if _, ok := byKey["Harbor Trust|Blake T McCarn"]; !ok {
		t.Fatalf("reverse edge was collapsed away: %v", byKey)
	}
}

func TestApplyMerges_EmptyMergeMapIsNoop(t *testing.T) {
	entities := []common.Entity{{ID: "1", Name: "Blake", Type: "person"}}
	relationships := []common.Relationship{{Source: "Blake", Target: "Harbor Trust"}}

	gotEntities, gotRels := applyMerges(entities, relationships, nil)
	if len(gotEntities) != 1 || len(gotRels) != 1 {
		t.Fatalf("expected tables unchanged, got %d entities, %d relationships", len(gotEntities), len(gotRels))
	}
}
