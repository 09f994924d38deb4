package flow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quadrant-labs/StrategyPipe/internal/models"
	"github.com/quadrant-labs/StrategyPipe/internal/util"
)

// Session holds the complete in-memory state of one wizard conversation:
// the accumulated answer record, the flow cursor, and the turn log. All
// mutation goes through the Engine; the mutex guards every field below it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu               sync.Mutex
	record           models.SessionRecord
	cursor           int
	displayedSection int
	turns            []models.Turn
	botTyping        bool
	enriching        bool
	selection        *Selection
	// generation increments on every restart; deferred work captured under
	// an older generation discards itself when it finally runs.
	generation uint64
	updatedAt  time.Time
}

// NewSession returns a fresh session with an empty record and turn log.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		record:    models.NewSessionRecord(),
		selection: NewSelection(),
		updatedAt: now,
	}
}

// appendTurn appends a turn to the log, clearing the awaiting-input flag on
// every prior turn first. At most one turn is ever awaiting input. Caller
// must hold the session mutex.
func (s *Session) appendTurn(turn models.Turn) {
	for i := range s.turns {
		s.turns[i].AwaitingInput = false
	}
	s.turns = append(s.turns, turn)
	s.updatedAt = time.Now()
}

// removeTurn deletes the turn with the given ID, preserving the order of the
// rest. Used to retire loading turns once their enrichment call settles.
// Caller must hold the session mutex.
func (s *Session) removeTurn(id string) {
	for i, t := range s.turns {
		if t.ID == id {
			s.turns = append(s.turns[:i], s.turns[i+1:]...)
			s.updatedAt = time.Now()
			return
		}
	}
}

// newBotTurn builds a bot turn with a fresh ID.
func newBotTurn(content models.TurnContent, options []models.Option, awaiting bool) models.Turn {
	return models.Turn{
		ID:            util.GenerateTurnID(),
		Sender:        models.SenderBot,
		Content:       content,
		Options:       options,
		AwaitingInput: awaiting,
		CreatedAt:     time.Now(),
	}
}

// newUserTurn builds a user turn with a fresh ID.
func newUserTurn(text string) models.Turn {
	return models.Turn{
		ID:        util.GenerateTurnID(),
		Sender:    models.SenderUser,
		Content:   models.TextContent(text),
		CreatedAt: time.Now(),
	}
}

// Record returns a deep copy of the current answer record.
func (s *Session) Record() models.SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

// Snapshot is a read-only view of a session, safe to serialize after the
// session mutex has been released.
type Snapshot struct {
	ID               string        `json:"id"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Turns            []models.Turn `json:"turns"`
	Cursor           int           `json:"cursor"`
	DisplayedSection int           `json:"displayed_section"`
	TotalSections    int           `json:"total_sections"`
	Progress         float64       `json:"progress"`
	BotTyping        bool          `json:"bot_typing"`
	Enriching        bool          `json:"enriching"`
	Complete         bool          `json:"complete"`
	Control          ControlState  `json:"control"`
}
