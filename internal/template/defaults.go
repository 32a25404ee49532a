package template

import "lockin-cli/internal/model"

// StorageKey is the slot key of the template variant.
const StorageKey = "lockin-template-storage"

// FallbackText replaces an empty committed slot.
const FallbackText = "Untitled"

const (
	DefaultPrimary    = "#005792"
	DefaultBackground = "#E8F6FF"
)

func DefaultColors() model.Colors {
	return model.Colors{Primary: DefaultPrimary, Background: DefaultBackground}
}

// DefaultTemplate is the stock "DAILY LOCK-IN PLAN".
func DefaultTemplate() model.Template {
	return model.Template{
		Title:       "DAILY LOCK-IN PLAN",
		Tagline:     "Maximize Focus, Minimize Distraction",
		RuleHeading: "THE SINGLE RULE: AUTHORIZED ACTIVITIES ONLY",
		RuleBody: "The items below represent the only permitted daily activities. " +
			"Any activity, distraction, or \"anything else\" not explicitly listed here is STRICTLY PROHIBITED.",
		BlockA: model.TemplateBlock{
			Title:       "Block A: Core Focus & Growth",
			Description: "High-value, priority activities scheduled during peak mental hours.",
			Cards: [2]model.TemplateCard{
				{
					Heading: "Professional & Personal Development",
					Items: []string{
						"Work on Personal Project: Dedicated, deep work sessions.",
						"Problem Solving: Coding challenges, analytical work.",
						"Driving: Necessary transit only.",
					},
				},
				{
					Heading: "Fitness & Health",
					Items: []string{
						"Workout and Diet: Structured training + strict meals.",
						"Running: Scheduled cardio sessions.",
					},
				},
			},
		},
		BlockB: model.TemplateBlock{
			Title:       "Block B: Maintenance & Decompression",
			Description: "Necessary upkeep and essential, highly limited breaks.",
			Cards: [2]model.TemplateCard{
				{
					Heading: "Strictly Limited Leisure",
					Items: []string{
						"Use this single time slot for ALL unstructured leisure (gaming, TV, browsing).",
					},
				},
				{
					Heading: "Passive Input & Social Check-Ins",
					Items: []string{
						"Reading, Podcast: Passive input for growth or pleasure.",
						"WhatsApp: Brief scheduled check-ins only.",
						"Going Out: Must be scheduled and goal-directed.",
					},
				},
			},
		},
		LeisureLimit: "HARD LIMIT: 1-3 HOURS TOTAL",
		Footer:       "YOUR FOCUS STARTS NOW.",
	}
}
