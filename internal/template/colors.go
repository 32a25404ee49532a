package template

import (
	"fmt"
	"strings"

	"lockin-cli/internal/model"

	"github.com/lucasb-eyer/go-colorful"
)

// NormalizeColors validates hex colors and fills blanks with defaults.
func NormalizeColors(c model.Colors) (model.Colors, error) {
	def := DefaultColors()
	primary, err := normalizeHex(c.Primary, def.Primary)
	if err != nil {
		return model.Colors{}, fmt.Errorf("primary: %w", err)
	}
	bg, err := normalizeHex(c.Background, def.Background)
	if err != nil {
		return model.Colors{}, fmt.Errorf("background: %w", err)
	}
	return model.Colors{Primary: primary, Background: bg}, nil
}

func normalizeHex(s, def string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = def
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("invalid color %q", s)
	}
	return strings.ToUpper(col.Hex()), nil
}
