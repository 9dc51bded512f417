// Package resolve implements post-indexing entity resolution: a batch
// pass that merges duplicate graph entities (the same real-world person
// extracted under different name spellings) and rewrites the
// relationship table consistently. The heuristics are precision-biased;
// uncertain pairs are left alone.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkdex/inkdex/backend/pkg/common"
	"github.com/inkdex/inkdex/backend/pkg/logger"
	"github.com/inkdex/inkdex/backend/pkg/snapshot"
)

// Result statuses.
const (
	StatusSkipped   = "skipped"
	StatusCompleted = "completed"
)

// Result summarizes a resolution pass for the orchestrating pipeline.
type Result struct {
	Status              string `json:"status"`
	EntitiesBefore      int    `json:"entities_before"`
	EntitiesAfter       int    `json:"entities_after"`
	RelationshipsBefore int    `json:"relationships_before"`
	RelationshipsAfter  int    `json:"relationships_after"`
	Merges              int    `json:"merges"`
}

// Resolver runs entity resolution passes. It is stateless between runs;
// the alias table is the only configuration.
type Resolver struct {
	aliases AliasTable
}

// NewResolverParams defines the configuration for creating a Resolver.
// Aliases maps alternate surnames to canonical surnames and may be nil.
type NewResolverParams struct {
	Aliases AliasTable
}

// NewResolver creates a Resolver with the given configuration.
func NewResolver(params NewResolverParams) *Resolver {
	aliases := params.Aliases
	if aliases == nil {
		aliases = AliasTable{}
	}
	return &Resolver{aliases: aliases}
}

// ResolveGraph runs candidate generation, merge resolution, and the
// graph rewrite over an in-memory snapshot. It returns the corrected
// tables and the number of merges applied.
func (r *Resolver) ResolveGraph(
	entities []common.Entity,
	relationships []common.Relationship,
) ([]common.Entity, []common.Relationship, int) {
	proposals := r.findMergeCandidates(entities)
	if len(proposals) == 0 {
		return entities, relationships, 0
	}

	merged := resolveMergeMap(proposals)
	entities, relationships = applyMerges(entities, relationships, merged)
	return entities, relationships, len(merged)
}

// ResolveDir runs a full resolution pass over the snapshot files in dir:
// load, resolve, back up the originals, overwrite. Missing snapshot
// files yield a skipped result without error; I/O failures propagate to
// the caller.
//
// The pass is a single synchronous batch computation. It must not run
// concurrently with another pass over the same directory; serializing
// indexing operations is the caller's responsibility.
func (r *Resolver) ResolveDir(ctx context.Context, dir string) (*Result, error) {
	entities, relationships, err := snapshot.Load(ctx, dir)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			logger.Warn("[Resolve] Skipped, snapshot files not found", "dir", dir)
			return &Result{Status: StatusSkipped}, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	result := &Result{
		Status:              StatusCompleted,
		EntitiesBefore:      len(entities),
		EntitiesAfter:       len(entities),
		RelationshipsBefore: len(relationships),
		RelationshipsAfter:  len(relationships),
	}

	logger.Info("[Resolve] Starting entity resolution",
		"dir", dir, "entities", len(entities), "relationships", len(relationships))

	resolvedEntities, resolvedRelationships, merges := r.ResolveGraph(entities, relationships)
	if merges == 0 {
		logger.Info("[Resolve] No duplicate entities found", "dir", dir)
		return result, nil
	}

	if err := snapshot.Backup(dir); err != nil {
		return nil, err
	}
	if err := snapshot.Write(dir, resolvedEntities, resolvedRelationships); err != nil {
		return nil, fmt.Errorf("failed to write resolved snapshot: %w", err)
	}

	result.EntitiesAfter = len(resolvedEntities)
	result.RelationshipsAfter = len(resolvedRelationships)
	result.Merges = merges

	logger.Info("[Resolve] Entity resolution complete",
		"entities_before", result.EntitiesBefore,
		"entities_after", result.EntitiesAfter,
		"relationships_before", result.RelationshipsBefore,
		"relationships_after", result.RelationshipsAfter,
		"merges", result.Merges)

	return result, nil
}
