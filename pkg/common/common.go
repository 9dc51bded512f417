package common

// Entity is a node in the knowledge graph, extracted upstream from the
// document corpus. An entity can be a person, organization, location, or
// any other concept the extraction stage recognizes.
//
// Degree is a precomputed connection count. It is optional in the
// snapshot and carried through resolution unchanged.
type Entity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Degree      int    `json:"degree,omitempty"`
}

// Relationship is a directed edge between two entities. Endpoints are
// recorded both by display name (Source/Target) and by id
// (SourceID/TargetID); snapshots may carry either or both.
//
// Weight and CombinedDegree are optional ranking signals and default to
// zero when the snapshot omits them.
type Relationship struct {
	Source         string  `json:"source"`
	Target         string  `json:"target"`
	SourceID       string  `json:"source_id,omitempty"`
	TargetID       string  `json:"target_id,omitempty"`
	Type           string  `json:"type"`
	Description    string  `json:"description"`
	Weight         float64 `json:"weight,omitempty"`
	CombinedDegree int     `json:"combined_degree,omitempty"`
}
