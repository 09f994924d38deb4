// Package flow implements the conversation-flow core of StrategyPipe: the
// scripted question catalog, the per-session answer record and turn log, and
// the orchestration that drives a session through the catalog.
package flow

import (
	"fmt"

	"github.com/quadrant-labs/StrategyPipe/internal/models"
)

// AnswerType defines how a question is answered.
type AnswerType string

const (
	// AnswerFreeText expects a non-empty free text answer.
	AnswerFreeText AnswerType = "free_text"
	// AnswerSingleSelect expects exactly one option value.
	AnswerSingleSelect AnswerType = "single_select"
	// AnswerMultiSelect expects a non-empty ordered set of option values.
	AnswerMultiSelect AnswerType = "multi_select"
)

// Question keys that trigger enrichment calls when answered.
const (
	// KeyGapAnalysis is the last free-text question of section 2; answering
	// it triggers the pillars/strategies enrichment.
	KeyGapAnalysis = "actual"
	// KeyPriorityActions is the final catalog entry; answering it triggers
	// the final action plan enrichment and completes the session.
	KeyPriorityActions = "recircleActions"
)

// Question is one immutable catalog entry.
type Question struct {
	Section     int             `json:"section"`
	Key         string          `json:"key"`
	Prompt      string          `json:"prompt"`
	Type        AnswerType      `json:"type"`
	Options     []models.Option `json:"options,omitempty"`
	Path        string          `json:"path"`
	Placeholder string          `json:"placeholder,omitempty"`
}

// Catalog is the ordered question list. Catalog order defines traversal order.
type Catalog []Question

// TotalSections returns the highest section number in the catalog.
func (c Catalog) TotalSections() int {
	total := 0
	for _, q := range c {
		if q.Section > total {
			total = q.Section
		}
	}
	return total
}

// QuestionAt returns the question at the given cursor position, or nil when
// the cursor is past the end of the catalog.
func (c Catalog) QuestionAt(index int) *Question {
	if index < 0 || index >= len(c) {
		return nil
	}
	return &c[index]
}

// Validate checks the catalog invariants: section numbers are non-decreasing
// in catalog order, every storage path is unique, select-type questions carry
// options with unique values, and free-text questions carry none.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	seenPaths := make(map[string]bool, len(c))
	prevSection := 0
	for i, q := range c {
		if q.Key == "" {
			return fmt.Errorf("catalog entry %d: key is empty", i)
		}
		if q.Path == "" {
			return fmt.Errorf("catalog entry %q: path is empty", q.Key)
		}
		if seenPaths[q.Path] {
			return fmt.Errorf("catalog entry %q: duplicate path %q", q.Key, q.Path)
		}
		seenPaths[q.Path] = true
		if q.Section < prevSection {
			return fmt.Errorf("catalog entry %q: section %d decreases below %d", q.Key, q.Section, prevSection)
		}
		prevSection = q.Section
		switch q.Type {
		case AnswerFreeText:
			if len(q.Options) != 0 {
				return fmt.Errorf("catalog entry %q: free text question must not carry options", q.Key)
			}
		case AnswerSingleSelect, AnswerMultiSelect:
			if len(q.Options) == 0 {
				return fmt.Errorf("catalog entry %q: select question requires options", q.Key)
			}
			seenValues := make(map[string]bool, len(q.Options))
			for _, opt := range q.Options {
				if seenValues[opt.Value] {
					return fmt.Errorf("catalog entry %q: duplicate option value %q", q.Key, opt.Value)
				}
				seenValues[opt.Value] = true
			}
		default:
			return fmt.Errorf("catalog entry %q: unknown answer type %q", q.Key, q.Type)
		}
	}
	return nil
}

// HasOptionValue reports whether value is one of the question's option values.
func (q *Question) HasOptionValue(value string) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// DefaultCatalog returns the scripted strategy-session question list:
// thirteen questions across seven wizard sections.
func DefaultCatalog() Catalog {
	return Catalog{
		// Section 1: data collection
		{
			Section:     1,
			Key:         "investmentDetails",
			Prompt:      "What investment details would you like to share?",
			Type:        AnswerFreeText,
			Path:        "section1.investmentDetails",
			Placeholder: "Example: AI-powered analytics platform upgrade for retail operations.",
		},
		{
			Section:     1,
			Key:         "industryInfo",
			Prompt:      "What industry-specific information can you provide?",
			Type:        AnswerFreeText,
			Path:        "section1.industryInfo",
			Placeholder: "Example: Retail sector with focus on digital adoption and customer analytics.",
		},
		{
			Section:     1,
			Key:         "toolPlatform",
			Prompt:      "What tool or platform are you using?",
			Type:        AnswerFreeText,
			Path:        "section1.toolPlatform",
			Placeholder: "Example: Microsoft Azure AI Studio or Power BI integration.",
		},
		{
			Section:     1,
			Key:         "effort",
			Prompt:      "What is the estimated effort required?",
			Type:        AnswerFreeText,
			Path:        "section1.effort",
			Placeholder: "Example: 6-week project involving 3 data engineers and 1 consultant.",
		},
		{
			Section:     1,
			Key:         "friction",
			Prompt:      "What are the known friction points?",
			Type:        AnswerFreeText,
			Path:        "section1.friction",
			Placeholder: "Example: Data quality issues and inconsistent data formats across sources.",
		},
		{
			Section:     1,
			Key:         "whatIf",
			Prompt:      "What are your what-if scenarios?",
			Type:        AnswerFreeText,
			Path:        "section1.whatIf",
			Placeholder: "Example: What if the data pipeline doesn't scale during the pilot rollout?",
		},

		// Section 2: coverage calculation
		{
			Section:     2,
			Key:         "expected",
			Prompt:      "What was expected from this initiative?",
			Type:        AnswerFreeText,
			Path:        "section2.expected",
			Placeholder: "Example: Achieve 30% faster report generation and improved customer insights.",
		},
		{
			Section:     2,
			Key:         KeyGapAnalysis,
			Prompt:      "What is the current situation?",
			Type:        AnswerFreeText,
			Path:        "section2.actual",
			Placeholder: "Example: Reports still require manual intervention and data latency remains high.",
		},

		// Section 3: prepare pillars
		{
			Section:     3,
			Key:         "anythingElse",
			Prompt:      "Is there anything else to consider when preparing your strategic pillars?",
			Type:        AnswerFreeText,
			Path:        "section3.anythingElse",
			Placeholder: "Example: Include governance and data literacy training for business users.",
		},

		// Section 4: generate strategies
		{
			Section: 4,
			Key:     "strategies",
			Prompt:  "Which strategies would you like to prioritize?",
			Type:    AnswerSingleSelect,
			Options: []models.Option{
				{Label: "Generate Use Cases to Test", Value: "useCases"},
				{Label: "Verify Design Effectiveness", Value: "designEffectiveness"},
				{Label: "Isolate Operational Blockers", Value: "operationalBlockers"},
			},
			Path: "section4.priority",
		},

		// Section 5: integrate / associate
		{
			Section: 5,
			Key:     "integrationMethod",
			Prompt:  "What integration method would you prefer?",
			Type:    AnswerSingleSelect,
			Options: []models.Option{
				{Label: "Consultant Led Execution", Value: "consultant"},
				{Label: "API Led Application", Value: "api"},
			},
			Path: "section5.integrationMethod",
		},

		// Section 6: outcome
		{
			Section: 6,
			Key:     "outcome",
			Prompt:  "What is your desired outcome from this process?",
			Type:    AnswerSingleSelect,
			Options: []models.Option{
				{Label: "Operation Playbook", Value: "playbook"},
				{Label: "Adoption Roadmap", Value: "adoption"},
			},
			Path: "section6.outcome",
		},

		// Section 7: recircle
		{
			Section: 7,
			Key:     KeyPriorityActions,
			Prompt:  "Which actions would you like to prioritize for continuous improvement?",
			Type:    AnswerMultiSelect,
			Options: []models.Option{
				{Label: "Recheck on progress", Value: "recheck"},
				{Label: "Reenforce roadmap", Value: "reenforce"},
				{Label: "User Training", Value: "training"},
			},
			Path: "section7.recircleActions",
		},
	}
}
