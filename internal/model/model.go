package model

// Document is the daily structure plan: an ordered list of rules and an ordered
// list of blocks. Slice order is display order.
type Document struct {
	Rules  []Rule  `json:"rules"`
	Blocks []Block `json:"blocks"`
}

type Rule struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Block struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Subtasks []Subtask `json:"subtasks"`
}

// Subtask belongs to exactly one Block and is discarded with it.
type Subtask struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Clone returns a deep copy so callers never share slices with the canonical tree.
func (d Document) Clone() Document {
	out := Document{
		Rules:  make([]Rule, len(d.Rules)),
		Blocks: make([]Block, len(d.Blocks)),
	}
	copy(out.Rules, d.Rules)
	for i, b := range d.Blocks {
		out.Blocks[i] = b.Clone()
	}
	return out
}

func (b Block) Clone() Block {
	subs := make([]Subtask, len(b.Subtasks))
	copy(subs, b.Subtasks)
	b.Subtasks = subs
	return b
}

func (d *Document) FindRule(id string) (*Rule, bool) {
	for i := range d.Rules {
		if d.Rules[i].ID == id {
			return &d.Rules[i], true
		}
	}
	return nil, false
}

func (d *Document) FindBlock(id string) (*Block, bool) {
	for i := range d.Blocks {
		if d.Blocks[i].ID == id {
			return &d.Blocks[i], true
		}
	}
	return nil, false
}

func (b *Block) FindSubtask(id string) (*Subtask, bool) {
	for i := range b.Subtasks {
		if b.Subtasks[i].ID == id {
			return &b.Subtasks[i], true
		}
	}
	return nil, false
}

// Template is the fixed-slot variant of the plan. Every text value is a slot
// addressed by a FieldKey (see TemplateFields).
type Template struct {
	Title        string        `json:"title" toml:"title"`
	Tagline      string        `json:"tagline" toml:"tagline"`
	RuleHeading  string        `json:"ruleHeading" toml:"rule_heading"`
	RuleBody     string        `json:"ruleBody" toml:"rule_body"`
	BlockA       TemplateBlock `json:"blockA" toml:"block_a"`
	BlockB       TemplateBlock `json:"blockB" toml:"block_b"`
	LeisureLimit string        `json:"leisureLimit" toml:"leisure_limit"`
	Footer       string        `json:"footer" toml:"footer"`
}

type TemplateBlock struct {
	Title       string          `json:"title" toml:"title"`
	Description string          `json:"description" toml:"description"`
	Cards       [2]TemplateCard `json:"cards" toml:"cards"`
}

type TemplateCard struct {
	Heading string   `json:"heading" toml:"heading"`
	Items   []string `json:"items" toml:"items"`
}

func (t Template) Clone() Template {
	t.BlockA = t.BlockA.clone()
	t.BlockB = t.BlockB.clone()
	return t
}

func (b TemplateBlock) clone() TemplateBlock {
	for i := range b.Cards {
		items := make([]string, len(b.Cards[i].Items))
		copy(items, b.Cards[i].Items)
		b.Cards[i].Items = items
	}
	return b
}

// Colors are presentation-only settings; they are never part of the document
// snapshot.
type Colors struct {
	Primary    string `json:"primary,omitempty"`
	Background string `json:"background,omitempty"`
}
