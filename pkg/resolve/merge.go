package resolve

// mergeSet is a disjoint-set structure over entity ids with path
// compression. Union operations record merge proposals; the exported map
// resolves every absorbed id to its final canonical id in one hop, with
// no chains left to follow.
type mergeSet struct {
	parent map[string]string
}

func newMergeSet() *mergeSet {
	return &mergeSet{parent: make(map[string]string)}
}

func (s *mergeSet) find(id string) string {
	root := id
	for {
		next, ok := s.parent[root]
		if !ok || next == root {
			break
		}
		root = next
	}
	// Compress the walked path so later lookups are single hops.
	for id != root {
		next := s.parent[id]
		s.parent[id] = root
		id = next
	}
	return root
}

func (s *mergeSet) union(keep, merge string) {
	keepRoot := s.find(keep)
	mergeRoot := s.find(merge)
	if keepRoot == mergeRoot {
		return
	}
	s.parent[mergeRoot] = keepRoot
}

// resolveMergeMap collapses the proposed pairs into a flat map from each
// absorbed id to its final canonical id. Chains (A absorbed into B, B
// later absorbed into C) resolve to the ultimate canonical, and no
// canonical id ever appears as a key.
func resolveMergeMap(proposals []MergeProposal) map[string]string {
	set := newMergeSet()
	for _, p := range proposals {
		set.union(p.KeepID, p.MergeID)
	}

	merged := make(map[string]string)
	for id := range set.parent {
		if root := set.find(id); root != id {
			merged[id] = root
		}
	}
	return merged
}
