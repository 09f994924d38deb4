package flow

import "github.com/quadrant-labs/StrategyPipe/internal/models"

// ControlKind identifies which input affordance a client should render.
type ControlKind string

const (
	// ControlTyping means the bot is busy and no input is accepted.
	ControlTyping ControlKind = "typing"
	// ControlFreeText means a text box with the active question's placeholder.
	ControlFreeText ControlKind = "free_text"
	// ControlSingleSelect means one-of-N option buttons.
	ControlSingleSelect ControlKind = "single_select"
	// ControlMultiSelect means checkboxes plus an explicit submit action.
	ControlMultiSelect ControlKind = "multi_select"
	// ControlNone means the session is complete and only restart applies.
	ControlNone ControlKind = "none"
)

// ControlState describes the input surface for the session's current moment.
// Exactly one control kind applies at any time.
type ControlState struct {
	Kind          ControlKind     `json:"kind"`
	Placeholder   string          `json:"placeholder,omitempty"`
	Options       []models.Option `json:"options,omitempty"`
	Selected      []string        `json:"selected,omitempty"`
	SubmitEnabled bool            `json:"submit_enabled"`
	Disabled      bool            `json:"disabled"`
}

// ControlFor derives the control state from the active question and the
// session's transient flags. Bot activity always wins: while the bot is
// typing or an enrichment call is in flight, every control is suppressed.
func ControlFor(q *Question, botTyping, enriching bool, sel *Selection) ControlState {
	if botTyping || enriching {
		return ControlState{Kind: ControlTyping, Disabled: true}
	}
	if q == nil {
		return ControlState{Kind: ControlNone, Disabled: true}
	}
	switch q.Type {
	case AnswerSingleSelect:
		return ControlState{
			Kind:    ControlSingleSelect,
			Options: q.Options,
		}
	case AnswerMultiSelect:
		selected := []string{}
		if sel != nil {
			selected = sel.Values()
		}
		return ControlState{
			Kind:          ControlMultiSelect,
			Options:       q.Options,
			Selected:      selected,
			SubmitEnabled: len(selected) > 0,
		}
	default:
		return ControlState{
			Kind:        ControlFreeText,
			Placeholder: q.Placeholder,
		}
	}
}

// Selection is an insertion-ordered set of option values for a multi-select
// question. Toggling an absent value appends it; toggling a present value
// removes it without disturbing the order of the rest.
type Selection struct {
	values []string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Toggle adds value if absent and removes it if present. It reports whether
// the value is selected after the call.
func (s *Selection) Toggle(value string) bool {
	for i, v := range s.values {
		if v == value {
			s.values = append(s.values[:i], s.values[i+1:]...)
			return false
		}
	}
	s.values = append(s.values, value)
	return true
}

// Contains reports whether value is currently selected.
func (s *Selection) Contains(value string) bool {
	for _, v := range s.values {
		if v == value {
			return true
		}
	}
	return false
}

// Values returns the selected values in insertion order.
func (s *Selection) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of selected values.
func (s *Selection) Len() int {
	return len(s.values)
}

// Reset clears the selection.
func (s *Selection) Reset() {
	s.values = nil
}
