package queue

import (
	"context"
	"encoding/json"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/inkdex/inkdex/backend/pkg/logger"
	"github.com/inkdex/inkdex/backend/pkg/resolve"
)

// ResolveJob asks the worker to run entity resolution over the snapshot
// files of one finished indexing run. RunID correlates log lines and is
// generated when the publisher omits it.
type ResolveJob struct {
	OutputDir string `json:"output_dir"`
	RunID     string `json:"run_id,omitempty"`
}

// ProcessResolveMessage handles one resolve job. A malformed payload is
// an error (the message goes through retry and dead-letter handling),
// but a failing resolution pass is logged and swallowed: deduplication
// must never fail the wider indexing run.
func ProcessResolveMessage(ctx context.Context, resolver *resolve.Resolver, body string) error {
	var job ResolveJob
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		return fmt.Errorf("failed to parse resolve job: %w", err)
	}
	if job.OutputDir == "" {
		return fmt.Errorf("resolve job missing output_dir")
	}
	if job.RunID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate run id: %w", err)
		}
		job.RunID = id
	}

	logger.Info("[Resolve] Processing resolve job", "run_id", job.RunID, "dir", job.OutputDir)

	result, err := resolver.ResolveDir(ctx, job.OutputDir)
	if err != nil {
		logger.Error("[Resolve] Resolution pass failed, continuing without dedup",
			"run_id", job.RunID, "dir", job.OutputDir, "err", err)
		return nil
	}

	logger.Info("[Resolve] Resolve job finished",
		"run_id", job.RunID,
		"status", result.Status,
		"entities_before", result.EntitiesBefore,
		"entities_after", result.EntitiesAfter,
		"relationships_before", result.RelationshipsBefore,
		"relationships_after", result.RelationshipsAfter,
		"merges", result.Merges)
	return nil
}
