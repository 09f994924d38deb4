package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quadrant-labs/StrategyPipe/internal/enrich"
	"github.com/quadrant-labs/StrategyPipe/internal/models"
)

// Default delays match the reference pacing of the conversation: a short
// typing pause before each prompt and a shorter one before the restart line.
const (
	DefaultPromptDelay  = 1000 * time.Millisecond
	DefaultRestartDelay = 500 * time.Millisecond
)

// EnrichmentGateway is the boundary over the external model calls. Both
// operations absorb transient failures into deterministic fallback content;
// an error return means the gateway is not usable at all (missing
// credential), not that a single call failed.
type EnrichmentGateway interface {
	SynthesizePillarsAndStrategies(ctx context.Context, section1 models.Section1Data, section2 models.Section2Data) (models.PillarsStrategies, error)
	SynthesizeFinalActionPlan(ctx context.Context, record models.SessionRecord) (models.ActionPlan, error)
}

// EngineOpts holds configuration for Engine creation.
type EngineOpts struct {
	Scheduler    Scheduler
	PromptDelay  time.Duration
	RestartDelay time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*EngineOpts)

// WithScheduler sets the scheduler used for deferred turns. Tests inject a
// manual scheduler here to make transitions deterministic.
func WithScheduler(s Scheduler) EngineOption {
	return func(o *EngineOpts) {
		o.Scheduler = s
	}
}

// WithPromptDelay sets the typing pause before each bot prompt.
func WithPromptDelay(d time.Duration) EngineOption {
	return func(o *EngineOpts) {
		o.PromptDelay = d
	}
}

// WithRestartDelay sets the pause before the restart narrative line.
func WithRestartDelay(d time.Duration) EngineOption {
	return func(o *EngineOpts) {
		o.RestartDelay = d
	}
}

// Engine drives sessions through the question catalog: it validates and
// records answers, appends the scripted turns, invokes the enrichment
// gateway at the two trigger questions, and schedules the delayed prompts.
type Engine struct {
	catalog      Catalog
	gateway      EnrichmentGateway
	scheduler    Scheduler
	promptDelay  time.Duration
	restartDelay time.Duration
}

// NewEngine creates an Engine over the given catalog and gateway.
func NewEngine(catalog Catalog, gateway EnrichmentGateway, options ...EngineOption) *Engine {
	opts := EngineOpts{
		PromptDelay:  DefaultPromptDelay,
		RestartDelay: DefaultRestartDelay,
	}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewSimpleTimer()
	}
	slog.Debug("Engine created", "questions", len(catalog), "promptDelay", opts.PromptDelay, "restartDelay", opts.RestartDelay)
	return &Engine{
		catalog:      catalog,
		gateway:      gateway,
		scheduler:    opts.Scheduler,
		promptDelay:  opts.PromptDelay,
		restartDelay: opts.RestartDelay,
	}
}

// Catalog returns the engine's question catalog.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Stop cancels all pending deferred work.
func (e *Engine) Stop() {
	e.scheduler.Stop()
}

// Start opens a session: it appends the intro line and schedules the first
// question prompt.
func (e *Engine) Start(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slog.Info("Engine.Start: starting session", "sessionID", s.ID)
	s.appendTurn(newBotTurn(models.TextContent(MsgIntro), nil, false))
	e.beginTransition(s, 0)
}

// SubmitAnswer accepts an answer for the session's current question.
// Invalid submissions (no active question, empty answer, bot busy) are
// silently ignored. A write failure against the record schema is a
// programmer error and is returned loudly.
func (e *Engine) SubmitAnswer(ctx context.Context, s *Session, answer models.AnswerValue) error {
	s.mu.Lock()
	if s.botTyping || s.enriching {
		s.mu.Unlock()
		slog.Debug("Engine.SubmitAnswer: ignored while bot busy", "sessionID", s.ID)
		return nil
	}
	q := e.catalog.QuestionAt(s.cursor)
	if q == nil {
		s.mu.Unlock()
		slog.Debug("Engine.SubmitAnswer: ignored, session complete", "sessionID", s.ID)
		return nil
	}
	if !validAnswer(q, answer) {
		s.mu.Unlock()
		slog.Debug("Engine.SubmitAnswer: ignored invalid answer", "sessionID", s.ID, "question", q.Key)
		return nil
	}

	s.appendTurn(newUserTurn(answer.Display()))
	rec, err := WriteAnswer(s.record, q, answer)
	if err != nil {
		s.mu.Unlock()
		slog.Error("Engine.SubmitAnswer: record write failed", "sessionID", s.ID, "path", q.Path, "error", err)
		return fmt.Errorf("Engine.SubmitAnswer: record write failed for path %s: %w", q.Path, err)
	}
	s.record = rec
	s.selection.Reset()
	slog.Debug("Engine.SubmitAnswer: answer recorded", "sessionID", s.ID, "question", q.Key, "cursor", s.cursor)

	switch q.Key {
	case KeyGapAnalysis:
		if !e.runGapEnrichment(ctx, s) {
			// session restarted while the call was in flight
			s.mu.Unlock()
			return nil
		}
	case KeyPriorityActions:
		if !e.runPlanEnrichment(ctx, s) {
			s.mu.Unlock()
			return nil
		}
		// the final answer never advances to another question: pin the
		// cursor past the catalog and close the session
		s.cursor = len(e.catalog)
		s.displayedSection = e.catalog.TotalSections() + 1
		s.appendTurn(newBotTurn(models.TextContent(MsgTerminal), nil, false))
		s.mu.Unlock()
		slog.Info("Engine.SubmitAnswer: session complete", "sessionID", s.ID)
		return nil
	}

	s.cursor++
	e.beginTransition(s, s.cursor)
	s.mu.Unlock()
	return nil
}

// validAnswer applies the submission guard: non-empty trimmed text within
// the length cap for text questions, a known option value for single-select,
// a non-empty list of known option values for multi-select.
func validAnswer(q *Question, answer models.AnswerValue) bool {
	if answer.IsEmpty() {
		return false
	}
	switch q.Type {
	case AnswerSingleSelect:
		return !answer.Multi && q.HasOptionValue(answer.Text)
	case AnswerMultiSelect:
		if !answer.Multi {
			return false
		}
		for _, v := range answer.List {
			if !q.HasOptionValue(v) {
				return false
			}
		}
		return true
	default:
		return !answer.Multi && len(answer.Text) <= models.MaxAnswerLength
	}
}

// ToggleSelection flips one option value in the session's multi-select
// selection set. It reports whether the value is selected afterwards.
// Toggles are ignored unless the current question is a multi-select and the
// value is one of its options.
func (e *Engine) ToggleSelection(s *Session, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := e.catalog.QuestionAt(s.cursor)
	if q == nil || q.Type != AnswerMultiSelect || !q.HasOptionValue(value) || s.botTyping || s.enriching {
		return false
	}
	selected := s.selection.Toggle(value)
	slog.Debug("Engine.ToggleSelection", "sessionID", s.ID, "value", value, "selected", selected)
	return selected
}

// Restart resets the session to its initial state and schedules the restart
// narrative followed by the first question. A restart while an enrichment
// call is in flight is safe: the stale call's completion sees the bumped
// generation and discards its result.
func (e *Engine) Restart(s *Session) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.turns = nil
	s.record = models.NewSessionRecord()
	s.cursor = 0
	s.displayedSection = 0
	s.botTyping = false
	s.enriching = false
	s.selection.Reset()
	s.mu.Unlock()
	slog.Info("Engine.Restart: session reset", "sessionID", s.ID)

	if _, err := e.scheduler.ScheduleAfter(e.restartDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen {
			return
		}
		s.appendTurn(newBotTurn(models.TextContent(MsgRestart), nil, false))
		e.beginTransition(s, 0)
	}); err != nil {
		slog.Error("Engine.Restart: failed to schedule restart narrative", "sessionID", s.ID, "error", err)
	}
}

// beginTransition starts the move toward the question at nextIndex: it sets
// the typing flag and schedules completeTransition after the prompt delay.
// When nextIndex is past the catalog it closes the session immediately
// instead. Caller must hold the session mutex.
func (e *Engine) beginTransition(s *Session, nextIndex int) {
	if nextIndex >= len(e.catalog) {
		s.cursor = len(e.catalog)
		s.displayedSection = e.catalog.TotalSections() + 1
		s.appendTurn(newBotTurn(models.TextContent(MsgTerminal), nil, false))
		slog.Info("Engine.beginTransition: session complete", "sessionID", s.ID)
		return
	}
	s.botTyping = true
	gen := s.generation
	if _, err := e.scheduler.ScheduleAfter(e.promptDelay, func() {
		e.completeTransition(s, nextIndex, gen)
	}); err != nil {
		slog.Error("Engine.beginTransition: failed to schedule prompt", "sessionID", s.ID, "error", err)
		s.botTyping = false
	}
}

// completeTransition finishes a transition begun by beginTransition: it
// clears the typing flag and appends the question prompt as the awaiting
// turn. A transition begun before a restart is discarded.
func (e *Engine) completeTransition(s *Session, nextIndex int, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		slog.Debug("Engine.completeTransition: discarding stale transition", "sessionID", s.ID)
		return
	}
	s.botTyping = false
	q := e.catalog.QuestionAt(nextIndex)
	if q == nil {
		return
	}
	s.cursor = nextIndex
	s.displayedSection = q.Section
	s.selection.Reset()
	s.appendTurn(newBotTurn(models.TextContent(q.Prompt), q.Options, true))
	slog.Debug("Engine.completeTransition: prompt shown", "sessionID", s.ID, "question", q.Key, "section", q.Section)
}

// runGapEnrichment performs the pillars/strategies call for the gap-analysis
// trigger: loading turn in, gateway call with the mutex released, loading
// turn out, then the narrative and the two rich turns. Called and returned
// with the session mutex held; reports false when the session was restarted
// while the call was in flight (the caller must not advance).
func (e *Engine) runGapEnrichment(ctx context.Context, s *Session) bool {
	gen := s.generation
	s.enriching = true
	loading := newBotTurn(models.LoadingContent(MsgGapLoading), nil, false)
	s.appendTurn(loading)
	section1 := s.record.Section1
	section2 := s.record.Section2
	s.mu.Unlock()

	result, err := e.gateway.SynthesizePillarsAndStrategies(ctx, section1, section2)

	s.mu.Lock()
	if s.generation != gen {
		slog.Debug("Engine.runGapEnrichment: discarding stale result after restart", "sessionID", s.ID)
		return false
	}
	s.removeTurn(loading.ID)
	s.enriching = false
	if err != nil {
		slog.Error("Engine.runGapEnrichment: enrichment unavailable", "sessionID", s.ID, "error", err)
		s.appendTurn(newBotTurn(models.TextContent(fmt.Sprintf("Sorry, I encountered an error: %s. Please try again.", err)), nil, false))
		return true
	}

	combined := enrich.MergeWithDefaults(result.Pillars)
	s.record.Section3.Pillars = combined
	s.record.Section4.Strategies = append([]models.Strategy(nil), result.Strategies...)
	s.appendTurn(newBotTurn(models.TextContent(MsgGapNarrative), nil, false))
	s.appendTurn(newBotTurn(models.PillarsContent(combined), nil, false))
	s.appendTurn(newBotTurn(models.StrategiesContent(result.Strategies), nil, false))
	slog.Info("Engine.runGapEnrichment: pillars and strategies generated", "sessionID", s.ID, "pillars", len(combined), "strategies", len(result.Strategies))
	return true
}

// runPlanEnrichment performs the final action plan call for the last
// question. Same locking contract as runGapEnrichment.
func (e *Engine) runPlanEnrichment(ctx context.Context, s *Session) bool {
	gen := s.generation
	s.enriching = true
	loading := newBotTurn(models.LoadingContent(MsgPlanLoading), nil, false)
	s.appendTurn(loading)
	record := s.record.Clone()
	s.mu.Unlock()

	plan, err := e.gateway.SynthesizeFinalActionPlan(ctx, record)

	s.mu.Lock()
	if s.generation != gen {
		slog.Debug("Engine.runPlanEnrichment: discarding stale result after restart", "sessionID", s.ID)
		return false
	}
	s.removeTurn(loading.ID)
	s.enriching = false
	if err != nil {
		slog.Error("Engine.runPlanEnrichment: enrichment unavailable", "sessionID", s.ID, "error", err)
		s.appendTurn(newBotTurn(models.TextContent(fmt.Sprintf("Sorry, I encountered an error generating the final plan: %s", err)), nil, false))
		return true
	}

	s.appendTurn(newBotTurn(models.TextContent(MsgPlanNarrative), nil, false))
	s.appendTurn(newBotTurn(models.ActionPlanContent(plan), nil, false))
	slog.Info("Engine.runPlanEnrichment: action plan generated", "sessionID", s.ID, "categories", len(plan.ActionPlan))
	return true
}

// Snapshot returns a consistent read-only view of the session for clients.
func (e *Engine) Snapshot(s *Session) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := make([]models.Turn, len(s.turns))
	copy(turns, s.turns)
	total := e.catalog.TotalSections()
	q := e.catalog.QuestionAt(s.cursor)
	complete := s.cursor >= len(e.catalog)
	var control ControlState
	if complete {
		control = ControlFor(nil, false, false, nil)
	} else {
		control = ControlFor(q, s.botTyping, s.enriching, s.selection)
	}
	return Snapshot{
		ID:               s.ID,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.updatedAt,
		Turns:            turns,
		Cursor:           s.cursor,
		DisplayedSection: s.displayedSection,
		TotalSections:    total,
		Progress:         ProgressPercent(s.displayedSection, total),
		BotTyping:        s.botTyping,
		Enriching:        s.enriching,
		Complete:         complete,
		Control:          control,
	}
}
