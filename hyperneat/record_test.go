package hyperneat

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	dice := NewRandDice(3)
	g := RandomGenome(cfg, dice)
	for i := 0; i < 50; i++ {
		_, err := g.Mutate(cfg, dice)
		require.NoError(t, err)
	}

	r := g.ToRecord()
	for i := 1; i < len(r.Nodes); i++ {
		require.Less(t, r.Nodes[i-1].ID, r.Nodes[i].ID)
	}
	for i := 1; i < len(r.Links); i++ {
		require.Less(t, r.Links[i-1].ID, r.Links[i].ID)
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))

	back, err := FromRecord(decoded)
	require.NoError(t, err)
	assert.True(t, g.Equal(back))
	assert.Equal(t, r, back.ToRecord())
}

func TestRecordJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(chainGenome().ToRecord())
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"input_count":4`)
	assert.Contains(t, s, `"next_link_id":3`)
	assert.Contains(t, s, `{"id":1,"src":5,"dst":4,"weight":-0.5}`)
}

func TestFromRecordRejectsBrokenRecords(t *testing.T) {
	t.Run("duplicate node", func(t *testing.T) {
		r := chainGenome().ToRecord()
		r.Nodes = append(r.Nodes, r.Nodes[0])
		_, err := FromRecord(r)
		require.ErrorIs(t, err, ErrInvariantViolation)
	})
	t.Run("duplicate link", func(t *testing.T) {
		r := chainGenome().ToRecord()
		r.Links = append(r.Links, r.Links[0])
		_, err := FromRecord(r)
		require.ErrorIs(t, err, ErrInvariantViolation)
	})
	t.Run("dangling endpoint", func(t *testing.T) {
		r := chainGenome().ToRecord()
		r.Links[0].Src = 99
		_, err := FromRecord(r)
		require.ErrorIs(t, err, ErrInvariantViolation)
	})
}

func TestRecordSort(t *testing.T) {
	r := chainGenome().ToRecord()
	r.Nodes[0], r.Nodes[5] = r.Nodes[5], r.Nodes[0]
	r.Links[0], r.Links[2] = r.Links[2], r.Links[0]
	r.Sort()
	assert.Equal(t, chainGenome().ToRecord(), r)
}

func TestCheckpointRoundTrip(t *testing.T) {
	g := chainGenome()
	path := filepath.Join(t.TempDir(), "genome.gz")

	require.NoError(t, SaveCheckpoint(g, path))
	loaded, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.True(t, g.Equal(loaded))
}

func TestLoadCheckpointMissingFile(t *testing.T) {
	_, err := LoadCheckpoint(filepath.Join(t.TempDir(), "missing.gz"))
	require.Error(t, err)
}
