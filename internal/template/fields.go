package template

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lockin-cli/internal/model"
)

var ErrUnknownField = errors.New("unknown template field")

// Fields lists the scalar slots in display order. Card items are addressed
// as "<block>.card<N>.item<M>" (1-based).
var Fields = []string{
	"title",
	"tagline",
	"ruleHeading",
	"ruleBody",
	"blockA.title",
	"blockA.description",
	"blockA.card1.heading",
	"blockA.card2.heading",
	"blockB.title",
	"blockB.description",
	"blockB.card1.heading",
	"blockB.card2.heading",
	"leisureLimit",
	"footer",
}

// BlockRef selects BlockA or BlockB.
type BlockRef string

const (
	BlockA BlockRef = "blockA"
	BlockB BlockRef = "blockB"
)

func ParseBlockRef(s string) (BlockRef, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "blocka":
		return BlockA, nil
	case "b", "blockb":
		return BlockB, nil
	default:
		return "", fmt.Errorf("invalid block %q (expected a|b)", s)
	}
}

func blockOf(t *model.Template, ref BlockRef) *model.TemplateBlock {
	switch ref {
	case BlockA:
		return &t.BlockA
	case BlockB:
		return &t.BlockB
	}
	return nil
}

// card returns the card for a 1-based index.
func card(t *model.Template, ref BlockRef, n int) *model.TemplateCard {
	b := blockOf(t, ref)
	if b == nil || n < 1 || n > len(b.Cards) {
		return nil
	}
	return &b.Cards[n-1]
}

// fieldPtr resolves a field path to the string it names.
func fieldPtr(t *model.Template, field string) (*string, error) {
	switch field {
	case "title":
		return &t.Title, nil
	case "tagline":
		return &t.Tagline, nil
	case "ruleHeading":
		return &t.RuleHeading, nil
	case "ruleBody":
		return &t.RuleBody, nil
	case "leisureLimit":
		return &t.LeisureLimit, nil
	case "footer":
		return &t.Footer, nil
	}

	parts := strings.Split(field, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	b := blockOf(t, BlockRef(parts[0]))
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "title":
			return &b.Title, nil
		case "description":
			return &b.Description, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if len(parts) != 3 || !strings.HasPrefix(parts[1], "card") {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(parts[1], "card"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	c := card(t, BlockRef(parts[0]), n)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if parts[2] == "heading" {
		return &c.Heading, nil
	}
	if strings.HasPrefix(parts[2], "item") {
		i, err := strconv.Atoi(strings.TrimPrefix(parts[2], "item"))
		if err != nil || i < 1 || i > len(c.Items) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		return &c.Items[i-1], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// ItemField builds the field path of a card item (1-based card and item).
func ItemField(ref BlockRef, cardN, itemN int) string {
	return fmt.Sprintf("%s.card%d.item%d", ref, cardN, itemN)
}

// Get returns the value of a field path.
func Get(t model.Template, field string) (string, error) {
	p, err := fieldPtr(&t, field)
	if err != nil {
		return "", err
	}
	return *p, nil
}
