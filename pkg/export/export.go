// Package export persists finished games to durable storage in a saved-game
// JSON format suitable for offline visualization.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
)

// Persister accepts a full game history at termination.
type Persister interface {
	SaveGame(history *diplomacy.GameHistory) error
}

// FilePersister writes one JSON file per game into a folder, creating the
// folder on first use.
type FilePersister struct {
	Folder string
	// RunID keys the output file name, game-<RunID>.json.
	RunID string
}

func NewFilePersister(folder string, runID string) *FilePersister {
	return &FilePersister{Folder: folder, RunID: runID}
}

func (p *FilePersister) SaveGame(history *diplomacy.GameHistory) error {
	if err := os.MkdirAll(p.Folder, 0o755); err != nil {
		return errors.Wrapf(err, "creating output folder %s", p.Folder)
	}

	if history.ID == "" {
		history.ID = p.RunID
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling game history")
	}

	path := filepath.Join(p.Folder, fmt.Sprintf("game-%s.json", p.RunID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing saved game %s", path)
	}

	log.Info().Str("path", path).Int("phases", len(history.Phases)).Msg("exported saved game")
	return nil
}

var _ Persister = (*FilePersister)(nil)
