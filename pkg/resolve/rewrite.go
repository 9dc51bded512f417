package resolve

import (
	"sort"
	"strings"

	"github.com/inkdex/inkdex/backend/pkg/common"
)

// applyMerges rewrites the entity and relationship tables under the
// final merge map: descriptions of absorbed entities are unioned into
// their canonical entity, absorbed rows are removed, relationship
// endpoints are redirected, self-loops created by the merge are dropped,
// and duplicate directed edges collapse to the highest-weight row.
func applyMerges(
	entities []common.Entity,
	relationships []common.Relationship,
	merged map[string]string,
) ([]common.Entity, []common.Relationship) {
	if len(merged) == 0 {
		return entities, relationships
	}

	byID := make(map[string]int, len(entities))
	idToName := make(map[string]string, len(entities))
	for i, entity := range entities {
		byID[entity.ID] = i
		idToName[entity.ID] = entity.Name
	}

	// Old display name -> canonical display name, for relationship rows
	// that reference endpoints by name.
	nameRedirect := make(map[string]string, len(merged))
	for mergeID, keepID := range merged {
		oldName, newName := idToName[mergeID], idToName[keepID]
		if oldName != "" && newName != "" {
			nameRedirect[oldName] = newName
		}
	}

	for mergeID, keepID := range merged {
		mergeIdx, okMerge := byID[mergeID]
		keepIdx, okKeep := byID[keepID]
		if !okMerge || !okKeep {
			continue
		}
		entities[keepIdx].Description = unionDescriptions(
			entities[keepIdx].Description,
			entities[mergeIdx].Description,
		)
	}

	kept := make([]common.Entity, 0, len(entities)-len(merged))
	for _, entity := range entities {
		if _, absorbed := merged[entity.ID]; !absorbed {
			kept = append(kept, entity)
		}
	}

	rewritten := make([]common.Relationship, 0, len(relationships))
	for _, rel := range relationships {
		if keepID, ok := merged[rel.SourceID]; ok {
			rel.SourceID = keepID
		}
		if keepID, ok := merged[rel.TargetID]; ok {
			rel.TargetID = keepID
		}
		if newName, ok := nameRedirect[rel.Source]; ok {
			rel.Source = newName
		}
		if newName, ok := nameRedirect[rel.Target]; ok {
			rel.Target = newName
		}
		if isSelfLoop(rel) {
			continue
		}
		rewritten = append(rewritten, rel)
	}

	return kept, dedupeRelationships(rewritten)
}

// unionDescriptions appends the absorbed description unless the kept one
// already contains it, so repeated passes never accumulate duplicates.
func unionDescriptions(keep, merge string) string {
	if merge == "" || strings.Contains(keep, merge) {
		return keep
	}
	return strings.TrimSpace(keep + " " + merge)
}

func isSelfLoop(rel common.Relationship) bool {
	if rel.SourceID != "" && rel.TargetID != "" {
		return rel.SourceID == rel.TargetID
	}
	return rel.Source != "" && rel.Source == rel.Target
}

// edgeKey identifies a directed edge. Direction is significant: (A,B)
// and (B,A) are distinct edges and are never collapsed together.
func edgeKey(rel common.Relationship) string {
	if rel.Source != "" || rel.Target != "" {
		return rel.Source + "|" + rel.Target
	}
	return rel.SourceID + "|" + rel.TargetID
}

// dedupeRelationships keeps one row per ordered endpoint pair. Rows are
// ranked by combined degree, then weight, descending, so the surviving
// row is the strongest evidence for the edge.
func dedupeRelationships(relationships []common.Relationship) []common.Relationship {
	sort.SliceStable(relationships, func(i, j int) bool {
		if relationships[i].CombinedDegree != relationships[j].CombinedDegree {
			return relationships[i].CombinedDegree > relationships[j].CombinedDegree
		}
		return relationships[i].Weight > relationships[j].Weight
	})

	seen := make(map[string]struct{}, len(relationships))
	deduped := make([]common.Relationship, 0, len(relationships))
	for _, rel := range relationships {
		key := edgeKey(rel)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, rel)
	}
	return deduped
}
