package template

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"lockin-cli/internal/model"
	"lockin-cli/internal/store"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const snapshotVersion = 1

//go:embed schema/template.schema.json
var schemaFS embed.FS

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

type envelope struct {
	Version int            `json:"version"`
	State   model.Template `json:"state"`
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := schemaFS.ReadFile("schema/template.schema.json")
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("template.schema.json", bytes.NewReader(b)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile("template.schema.json")
	})
	return schema, schemaErr
}

func encode(t model.Template) ([]byte, error) {
	return json.Marshal(envelope{Version: snapshotVersion, State: normalize(t)})
}

func decode(b []byte) (model.Template, error) {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return model.Template{}, fmt.Errorf("%w: %v", store.ErrSnapshotInvalid, err)
	}
	sch, err := compiledSchema()
	if err != nil {
		return model.Template{}, err
	}
	if err := sch.Validate(raw); err != nil {
		return model.Template{}, fmt.Errorf("%w: %v", store.ErrSnapshotInvalid, err)
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return model.Template{}, fmt.Errorf("%w: %v", store.ErrSnapshotInvalid, err)
	}
	if env.Version != 0 && env.Version != snapshotVersion {
		return model.Template{}, fmt.Errorf("%w: %d", store.ErrSnapshotVersion, env.Version)
	}
	return normalize(env.State), nil
}

func normalize(t model.Template) model.Template {
	t = t.Clone()
	for _, b := range []*model.TemplateBlock{&t.BlockA, &t.BlockB} {
		for i := range b.Cards {
			if b.Cards[i].Items == nil {
				b.Cards[i].Items = []string{}
			}
		}
	}
	return t
}
