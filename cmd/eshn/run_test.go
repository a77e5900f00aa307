package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat/substrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoints(t *testing.T) {
	points, err := parsePoints("-1,-1; 1,-1 ;0,0,1;")
	require.NoError(t, err)
	assert.Equal(t, []substrate.Point{
		substrate.NewPoint(-1, -1),
		substrate.NewPoint(1, -1),
		substrate.NewPoint(0, 0, 1),
	}, points)

	for _, bad := range []string{"1", "1,2,3,4", "a,b"} {
		_, err := parsePoints(bad)
		assert.Error(t, err, bad)
	}
}

func TestGenomeFilesAndStore(t *testing.T) {
	dir := t.TempDir()
	flags := &globalFlags{}
	ctx := context.Background()

	for _, name := range []string{"seed.json", "seed.gz"} {
		path := filepath.Join(dir, name)
		require.NoError(t, runRandom(flags, 3, path))
		require.NoError(t, runMutate(flags, path, 4, 10, path))
		g, err := readGenome(path)
		require.NoError(t, err)
		require.NoError(t, g.Validate())
	}

	net, err := buildNetwork(flags, filepath.Join(dir, "seed.json"), substrateFlags{inputs: "-1,-1;1,-1", outputs: "0,1"})
	require.NoError(t, err)
	assert.Len(t, net.Outputs(), 1)

	db := filepath.Join(dir, "genomes.db")
	require.NoError(t, runStorePut(ctx, "sqlite", db, "seed", filepath.Join(dir, "seed.json")))
	out := filepath.Join(dir, "copy.json")
	require.NoError(t, runStoreGet(ctx, "sqlite", db, "seed", out))

	want, err := readGenome(filepath.Join(dir, "seed.json"))
	require.NoError(t, err)
	got, err := readGenome(out)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	require.Error(t, runStoreGet(ctx, "sqlite", db, "missing", out))
}
