package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"
)

// CurrentSchemaVersion is written with every stored record.
const CurrentSchemaVersion = 1

// ErrVersionMismatch is returned when a stored record has a different schema version.
var ErrVersionMismatch = errors.New("record version mismatch")

// storedGenome is the JSON payload written by the sqlite backend.
type storedGenome struct {
	SchemaVersion int              `json:"schema_version"`
	ID            string           `json:"id"`
	Genome        hyperneat.Record `json:"genome"`
}

// EncodeGenome serialises r with its id and the current schema version.
func EncodeGenome(id string, r hyperneat.Record) ([]byte, error) {
	return json.Marshal(storedGenome{SchemaVersion: CurrentSchemaVersion, ID: id, Genome: cloneRecord(r)})
}

// DecodeGenome parses a payload written by EncodeGenome.
func DecodeGenome(data []byte) (string, hyperneat.Record, error) {
	var stored storedGenome
	if err := json.Unmarshal(data, &stored); err != nil {
		return "", hyperneat.Record{}, err
	}
	if stored.SchemaVersion != CurrentSchemaVersion {
		return "", hyperneat.Record{}, fmt.Errorf("%w: schema %d, want %d", ErrVersionMismatch, stored.SchemaVersion, CurrentSchemaVersion)
	}
	return stored.ID, stored.Genome, nil
}
