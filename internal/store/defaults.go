package store

import "lockin-cli/internal/model"

const (
	DefaultBlockTitle   = "New Block"
	DefaultSubtaskText  = "New Task"
	StartupBlockTitle   = "Block A"
	FallbackRuleText    = "Untitled rule"
	FallbackBlockTitle  = "Untitled Block"
	FallbackSubtaskText = "Untitled Task"
)

// DefaultDocument is the sample plan used when nothing (or nothing readable)
// is persisted. Ids are drawn fresh from newID.
func DefaultDocument(newID IDSource) model.Document {
	id := func(prefix string) string {
		v, err := newID(prefix)
		if err != nil {
			return fallbackID(prefix)
		}
		return v
	}
	return model.Document{
		Rules: []model.Rule{
			{ID: id(prefixRule), Text: "Use a single fixed slot for unstructured leisure"},
			{ID: id(prefixRule), Text: "Stick to the defined categories"},
		},
		Blocks: []model.Block{
			{
				ID:       id(prefixBlock),
				Title:    "Problem Solving",
				Subtitle: "Focus on algorithm practice",
				Subtasks: []model.Subtask{
					{ID: id(prefixSubtask), Text: "LeetCode - Top 30"},
					{ID: id(prefixSubtask), Text: "Read solution notes"},
				},
			},
		},
	}
}
