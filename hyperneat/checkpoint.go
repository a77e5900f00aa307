package hyperneat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
)

// genomeCheckpoint is what SaveCheckpoint writes: the structural record only.
// The function registry and config are not saved; they are supplied again on load.
type genomeCheckpoint struct {
	Version int
	Record  Record
}

const checkpointVersion = 1

// SaveCheckpoint writes g to filePath as a gzip-compressed gob stream.
func SaveCheckpoint(g *Genome, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	// Use gzip for compression
	gzWriter := gzip.NewWriter(file)
	encoder := gob.NewEncoder(gzWriter)
	if err := encoder.Encode(genomeCheckpoint{Version: checkpointVersion, Record: g.ToRecord()}); err != nil {
		_ = gzWriter.Close()
		return fmt.Errorf("failed to encode genome: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint '%s': %w", filePath, err)
	}
	return file.Sync()
}

// LoadCheckpoint reads a genome written by SaveCheckpoint.
func LoadCheckpoint(filePath string) (*Genome, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	// Use gzip for decompression
	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	var saved genomeCheckpoint
	if err := gob.NewDecoder(gzReader).Decode(&saved); err != nil {
		return nil, fmt.Errorf("failed to decode genome from checkpoint: %w", err)
	}
	if saved.Version != checkpointVersion {
		return nil, fmt.Errorf("unsupported checkpoint version %d", saved.Version)
	}
	return FromRecord(saved.Record)
}
