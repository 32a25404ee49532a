package template

import (
	"fmt"
	"io"

	"lockin-cli/internal/model"

	"github.com/BurntSushi/toml"
)

// ImportTOML reads a template file. Missing keys keep their default text.
func ImportTOML(r io.Reader) (model.Template, error) {
	t := DefaultTemplate()
	md, err := toml.NewDecoder(r).Decode(&t)
	if err != nil {
		return model.Template{}, fmt.Errorf("parse template: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return model.Template{}, fmt.Errorf("parse template: unknown key %s", undecoded[0])
	}
	return normalize(t), nil
}

func ExportTOML(w io.Writer, t model.Template) error {
	return toml.NewEncoder(w).Encode(t)
}
