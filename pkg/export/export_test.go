package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeDean2367/welfare-diplomacy/pkg/diplomacy"
)

func TestFilePersisterSaveGame(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "games")
	p := NewFilePersister(folder, "abc123")

	history := &diplomacy.GameHistory{
		Map: "standard_welfare",
		Phases: []diplomacy.PhaseRecord{
			{
				Name:   "S1901M",
				Orders: map[string][]string{"FRANCE": {"A PAR H"}},
				Messages: []diplomacy.Message{
					{Sender: "FRANCE", Recipient: "GERMANY", Content: "truce?", Phase: "S1901M"},
				},
			},
		},
	}
	require.NoError(t, p.SaveGame(history))

	data, err := os.ReadFile(filepath.Join(folder, "game-abc123.json"))
	require.NoError(t, err)

	var got diplomacy.GameHistory
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "abc123", got.ID)
	assert.Equal(t, "standard_welfare", got.Map)
	require.Len(t, got.Phases, 1)
	assert.Equal(t, []string{"A PAR H"}, got.Phases[0].Orders["FRANCE"])
}
