package store

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"lockin-cli/internal/model"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SnapshotVersion is the current on-disk snapshot format.
//
// Version 0 is the unversioned {"state":{...},"version":0} shape written by the
// browser build; it has the same state layout and is upgraded on load.
const SnapshotVersion = 1

var (
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
	ErrSnapshotInvalid = errors.New("invalid snapshot")
)

//go:embed schema/snapshot.schema.json
var schemaFS embed.FS

const snapshotSchemaURL = "snapshot.schema.json"

var (
	snapshotSchemaOnce sync.Once
	snapshotSchema     *jsonschema.Schema
	snapshotSchemaErr  error
)

type snapshotEnvelope struct {
	Version int            `json:"version"`
	State   model.Document `json:"state"`
}

func compiledSnapshotSchema() (*jsonschema.Schema, error) {
	snapshotSchemaOnce.Do(func() {
		b, err := schemaFS.ReadFile("schema/snapshot.schema.json")
		if err != nil {
			snapshotSchemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(snapshotSchemaURL, bytes.NewReader(b)); err != nil {
			snapshotSchemaErr = err
			return
		}
		snapshotSchema, snapshotSchemaErr = compiler.Compile(snapshotSchemaURL)
	})
	return snapshotSchema, snapshotSchemaErr
}

// EncodeSnapshot serializes doc in the current snapshot format.
func EncodeSnapshot(doc model.Document) ([]byte, error) {
	doc = normalizeDocument(doc)
	return json.Marshal(snapshotEnvelope{Version: SnapshotVersion, State: doc})
}

// DecodeSnapshot parses, validates and upgrades a persisted snapshot.
func DecodeSnapshot(b []byte) (model.Document, error) {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return model.Document{}, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	sch, err := compiledSnapshotSchema()
	if err != nil {
		return model.Document{}, err
	}
	if err := sch.Validate(raw); err != nil {
		return model.Document{}, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}

	var env snapshotEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return model.Document{}, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	switch env.Version {
	case 0, SnapshotVersion:
	default:
		return model.Document{}, fmt.Errorf("%w: %d", ErrSnapshotVersion, env.Version)
	}
	if id, dup := firstDuplicateID(env.State); dup {
		return model.Document{}, fmt.Errorf("%w: duplicate id %s", ErrSnapshotInvalid, id)
	}
	return normalizeDocument(env.State), nil
}

// normalizeDocument replaces nil slices with empty ones so snapshots and
// comparisons are stable.
func normalizeDocument(doc model.Document) model.Document {
	if doc.Rules == nil {
		doc.Rules = []model.Rule{}
	}
	if doc.Blocks == nil {
		doc.Blocks = []model.Block{}
	}
	for i := range doc.Blocks {
		if doc.Blocks[i].Subtasks == nil {
			doc.Blocks[i].Subtasks = []model.Subtask{}
		}
	}
	return doc
}

func firstDuplicateID(doc model.Document) (string, bool) {
	seen := map[string]bool{}
	check := func(id string) bool {
		if seen[id] {
			return true
		}
		seen[id] = true
		return false
	}
	for _, r := range doc.Rules {
		if check(r.ID) {
			return r.ID, true
		}
	}
	for _, b := range doc.Blocks {
		if check(b.ID) {
			return b.ID, true
		}
		for _, t := range b.Subtasks {
			if check(t.ID) {
				return t.ID, true
			}
		}
	}
	return "", false
}
