// Package backup exports and imports the full data snapshot as JSON. The
// import path accepts old backup files too: every project record passes
// through the migrate package before it reaches the store.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mlocatelli/progetta/internal/migrate"
	"github.com/mlocatelli/progetta/internal/model"
)

// file is the on-disk backup shape. Projects are kept raw so legacy
// records parse alongside current ones.
type file struct {
	Clients  []model.Client       `json:"clients"`
	Projects []migrate.RawProject `json:"projects"`
	Todos    []model.Todo         `json:"todos"`
}

// FileName returns a timestamped backup file name.
func FileName(now time.Time) string {
	return "progetta_backup_" + now.Format("2006-01-02_15-04-05") + ".json"
}

// Export writes the snapshot as indented JSON to path.
func Export(path string, snap model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling backup: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing backup to %s: %w", path, err)
	}
	return nil
}

// Import reads a backup file and returns a normalized snapshot. Files
// missing any of the three collections are rejected as corrupt.
func Import(path string) (model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("reading backup %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Snapshot{}, fmt.Errorf("parsing backup %s: %w", path, err)
	}
	for _, key := range []string{"clients", "projects", "todos"} {
		if _, ok := raw[key]; !ok {
			return model.Snapshot{}, fmt.Errorf("backup %s is missing %q", path, key)
		}
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return model.Snapshot{}, fmt.Errorf("parsing backup %s: %w", path, err)
	}

	snap := model.Snapshot{
		Clients:  f.Clients,
		Projects: make([]model.Project, len(f.Projects)),
		Todos:    f.Todos,
	}
	for i, rp := range f.Projects {
		snap.Projects[i] = migrate.NormalizeProject(rp)
	}
	return snap, nil
}
