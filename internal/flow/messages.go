package flow

// Scripted narrative messages emitted by the engine around the question
// catalog. These are fixed bot lines, not catalog prompts.
const (
	// MsgIntro opens every new session before the first question.
	MsgIntro = "Hello! I'm here to help you build a strategic roadmap. Let's begin."
	// MsgTerminal closes the session after the final action plan is shown.
	MsgTerminal = "Thank you! You've completed the strategy session. You can now start over."
	// MsgRestart acknowledges a restart before the flow begins again.
	MsgRestart = "Alright, let's start over from the beginning."
	// MsgGapNarrative introduces the pillars and strategies enrichment result.
	MsgGapNarrative = "I've analyzed your input and generated the following strategic pillars and strategies based on it."
	// MsgPlanNarrative introduces the final action plan.
	MsgPlanNarrative = "Perfect! I've compiled everything into a comprehensive action plan for you."
	// MsgGapLoading is the loading indicator label while pillars and
	// strategies are being generated.
	MsgGapLoading = "Generating your strategy with AI..."
	// MsgPlanLoading is the loading indicator label while the action plan
	// is being generated.
	MsgPlanLoading = "Creating your comprehensive action plan..."
)
