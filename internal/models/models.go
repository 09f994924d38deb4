// Package models defines the core data structures for StrategyPipe.
//
// It includes conversation turn types, answer values, and the JSON response
// envelope, which are shared across modules.
package models

import (
	"errors"
	"strings"
	"time"
)

// MessageSender identifies who produced a conversation turn.
type MessageSender string

const (
	// SenderBot marks turns produced by the assistant.
	SenderBot MessageSender = "bot"
	// SenderUser marks turns produced by the participant.
	SenderUser MessageSender = "user"
)

// ContentKind tags the variant carried by a TurnContent.
type ContentKind string

const (
	// ContentText is a plain text message.
	ContentText ContentKind = "plain_text"
	// ContentPillars carries a generated strategic pillar list.
	ContentPillars ContentKind = "pillars"
	// ContentStrategies carries a generated strategy list.
	ContentStrategies ContentKind = "strategies"
	// ContentActionPlan carries the final generated action plan.
	ContentActionPlan ContentKind = "action_plan"
	// ContentLoading is a transient placeholder shown while an enrichment
	// call is in flight. Loading turns are removed once the call settles.
	ContentLoading ContentKind = "loading"
)

// Validation constants for answer input.
const (
	// MaxAnswerLength defines the maximum allowed length for a free-text answer.
	MaxAnswerLength = 4096
)

// Error variables for better error handling and testability.
var (
	ErrNoActiveQuestion  = errors.New("no active question to answer")
	ErrUnknownPath       = errors.New("answer path does not resolve in the session record")
	ErrPathNotRecord     = errors.New("intermediate path segment is not a nested record")
	ErrValueTypeMismatch = errors.New("answer value type does not match the record field")
	ErrEmptyPath         = errors.New("answer path cannot be empty")
)

// TurnContent is a tagged variant: exactly the fields implied by Kind are set.
// Rendering dispatches on Kind, never on field sniffing.
type TurnContent struct {
	Kind       ContentKind `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Pillars    []Pillar    `json:"pillars,omitempty"`
	Strategies []Strategy  `json:"strategies,omitempty"`
	Plan       *ActionPlan `json:"plan,omitempty"`
}

// TextContent builds a plain text content variant.
func TextContent(text string) TurnContent {
	return TurnContent{Kind: ContentText, Text: text}
}

// LoadingContent builds a transient loading marker with a display label.
func LoadingContent(label string) TurnContent {
	return TurnContent{Kind: ContentLoading, Text: label}
}

// PillarsContent builds a pillars payload variant.
func PillarsContent(pillars []Pillar) TurnContent {
	return TurnContent{Kind: ContentPillars, Pillars: pillars}
}

// StrategiesContent builds a strategies payload variant.
func StrategiesContent(strategies []Strategy) TurnContent {
	return TurnContent{Kind: ContentStrategies, Strategies: strategies}
}

// ActionPlanContent builds a final action plan payload variant.
func ActionPlanContent(plan ActionPlan) TurnContent {
	return TurnContent{Kind: ContentActionPlan, Plan: &plan}
}

// Option is a selectable (label, value) pair for select-type questions.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Turn is one entry in the visible conversation history. Turns are immutable
// once created except for the AwaitingInput flag, which is cleared when a
// newer bot prompt is appended.
type Turn struct {
	ID            string        `json:"id"`
	Sender        MessageSender `json:"sender"`
	Content       TurnContent   `json:"content"`
	Options       []Option      `json:"options,omitempty"`
	AwaitingInput bool          `json:"awaiting_input,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// AnswerValue is a submitted answer: free text for text and single-select
// questions, an ordered value list for multi-select questions.
type AnswerValue struct {
	Text  string   `json:"text,omitempty"`
	List  []string `json:"list,omitempty"`
	Multi bool     `json:"multi,omitempty"`
}

// TextAnswer wraps a free-text or single-select answer.
func TextAnswer(text string) AnswerValue {
	return AnswerValue{Text: text}
}

// ListAnswer wraps a multi-select answer, preserving selection order.
func ListAnswer(values []string) AnswerValue {
	return AnswerValue{List: values, Multi: true}
}

// IsEmpty reports whether the answer fails the non-empty validation rule.
func (v AnswerValue) IsEmpty() bool {
	if v.Multi {
		return len(v.List) == 0
	}
	return strings.TrimSpace(v.Text) == ""
}

// Display returns the human-readable rendering used for the user turn.
// Multi-select answers are joined with ", ".
func (v AnswerValue) Display() string {
	if v.Multi {
		return strings.Join(v.List, ", ")
	}
	return v.Text
}

// Value returns the raw value written into the session record.
func (v AnswerValue) Value() any {
	if v.Multi {
		return v.List
	}
	return v.Text
}
