// Package snapshot reads and writes the columnar graph snapshot files
// produced by the extraction stage: entities.csv and relationships.csv
// in a per-run output directory. Columns are addressed by header name,
// optional columns default instead of aborting, and a .bak copy of each
// file is written before any overwrite.
package snapshot

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/inkdex/inkdex/backend/pkg/common"
)

const (
	EntitiesFile      = "entities.csv"
	RelationshipsFile = "relationships.csv"
	BackupSuffix      = ".bak"
)

// ErrNotFound reports that one or both snapshot files are absent. The
// caller treats this as "nothing to resolve", not a failure.
var ErrNotFound = errors.New("snapshot files not found")

// Load reads both snapshot tables from dir. The two files are parsed
// concurrently. A missing file yields ErrNotFound; any other I/O or
// parse failure is returned as-is.
func Load(ctx context.Context, dir string) ([]common.Entity, []common.Relationship, error) {
	entitiesPath := filepath.Join(dir, EntitiesFile)
	relationshipsPath := filepath.Join(dir, RelationshipsFile)

	for _, path := range []string{entitiesPath, relationshipsPath} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, path)
			}
			return nil, nil, fmt.Errorf("failed to stat snapshot: %w", err)
		}
	}

	var entities []common.Entity
	var relationships []common.Relationship

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		rows, header, err := readTable(entitiesPath)
		if err != nil {
			return err
		}
		entities = decodeEntities(rows, header)
		return nil
	})
	eg.Go(func() error {
		rows, header, err := readTable(relationshipsPath)
		if err != nil {
			return err
		}
		relationships = decodeRelationships(rows, header)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	return entities, relationships, nil
}

// Write overwrites both snapshot tables in dir. There is no transactional
// write; callers are expected to Backup first.
func Write(dir string, entities []common.Entity, relationships []common.Relationship) error {
	if err := writeEntities(filepath.Join(dir, EntitiesFile), entities); err != nil {
		return err
	}
	return writeRelationships(filepath.Join(dir, RelationshipsFile), relationships)
}

// Backup copies both snapshot files to their .bak siblings. The backups
// are the sole recovery mechanism if a pass is interrupted mid-write.
func Backup(dir string) error {
	for _, name := range []string{EntitiesFile, RelationshipsFile} {
		path := filepath.Join(dir, name)
		if err := copyFile(path, path+BackupSuffix); err != nil {
			return fmt.Errorf("failed to back up %s: %w", name, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// header maps lowercased column names to their index.
type header map[string]int

func (h header) field(row []string, names ...string) string {
	for _, name := range names {
		if idx, ok := h[name]; ok && idx < len(row) {
			return row[idx]
		}
	}
	return ""
}

func (h header) floatField(row []string, names ...string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(h.field(row, names...)), 64)
	if err != nil {
		return 0
	}
	return value
}

func (h header) intField(row []string, names ...string) int {
	value, err := strconv.Atoi(strings.TrimSpace(h.field(row, names...)))
	if err != nil {
		return 0
	}
	return value
}

func readTable(path string) ([][]string, header, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse snapshot %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, header{}, nil
	}

	cols := make(header, len(records[0]))
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return records[1:], cols, nil
}

func decodeEntities(rows [][]string, cols header) []common.Entity {
	entities := make([]common.Entity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, common.Entity{
			ID:          cols.field(row, "id"),
			Name:        cols.field(row, "title", "name"),
			Type:        cols.field(row, "type"),
			Description: cols.field(row, "description"),
			Degree:      cols.intField(row, "degree"),
		})
	}
	return entities
}

func decodeRelationships(rows [][]string, cols header) []common.Relationship {
	relationships := make([]common.Relationship, 0, len(rows))
	for _, row := range rows {
		relationships = append(relationships, common.Relationship{
			Source:         cols.field(row, "source"),
			Target:         cols.field(row, "target"),
			SourceID:       cols.field(row, "source_id"),
			TargetID:       cols.field(row, "target_id"),
			Type:           cols.field(row, "type"),
			Description:    cols.field(row, "description"),
			Weight:         cols.floatField(row, "weight", "rank"),
			CombinedDegree: cols.intField(row, "combined_degree"),
		})
	}
	return relationships
}

func writeEntities(path string, entities []common.Entity) error {
	rows := make([][]string, 0, len(entities)+1)
	rows = append(rows, []string{"id", "title", "type", "description", "degree"})
	for _, entity := range entities {
		rows = append(rows, []string{
			entity.ID,
			entity.Name,
			entity.Type,
			entity.Description,
			strconv.Itoa(entity.Degree),
		})
	}
	return writeTable(path, rows)
}

func writeRelationships(path string, relationships []common.Relationship) error {
	rows := make([][]string, 0, len(relationships)+1)
	rows = append(rows, []string{
		"source", "target", "source_id", "target_id",
		"type", "description", "weight", "combined_degree",
	})
	for _, rel := range relationships {
		rows = append(rows, []string{
			rel.Source,
			rel.Target,
			rel.SourceID,
			rel.TargetID,
			rel.Type,
			rel.Description,
			strconv.FormatFloat(rel.Weight, 'f', -1, 64),
			strconv.Itoa(rel.CombinedDegree),
		})
	}
	return writeTable(path, rows)
}

func writeTable(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		file.Close()
		return fmt.Errorf("failed to write snapshot %s: %w", filepath.Base(path), err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
