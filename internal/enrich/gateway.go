// Package enrich implements the two model-backed synthesis operations of the
// strategy wizard and their deterministic fallback payloads. Transient
// failures (network, bad status, unparseable reply) never surface to the
// conversation: the gateway substitutes fixed content instead, so the flow
// always has something complete to render.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quadrant-labs/StrategyPipe/internal/genai"
	"github.com/quadrant-labs/StrategyPipe/internal/models"
)

// ErrNotConfigured indicates the gateway was built without a model client.
// Unlike call failures this is a configuration error and is not masked by
// fallback content.
var ErrNotConfigured = errors.New("enrichment gateway is not configured with a model client")

const (
	pillarsSystemPrompt = "You are a strategic assistant that outputs structured JSON."
	planSystemPrompt    = "You are a strategic assistant that outputs structured JSON with detailed, actionable recommendations."
)

// Gateway performs the two synthesis calls over a GenAI client.
type Gateway struct {
	client genai.ClientInterface
}

// NewGateway creates a Gateway over the given model client.
func NewGateway(client genai.ClientInterface) *Gateway {
	return &Gateway{client: client}
}

// SynthesizePillarsAndStrategies asks the model for strategic pillars and
// implementation strategies derived from the section 1 and 2 answers. On any
// call or parse failure it returns the fixed fallback payload and a nil
// error; only a missing client is reported as an error.
func (g *Gateway) SynthesizePillarsAndStrategies(ctx context.Context, section1 models.Section1Data, section2 models.Section2Data) (models.PillarsStrategies, error) {
	if g.client == nil {
		return models.PillarsStrategies{}, ErrNotConfigured
	}

	prompt := buildPillarsPrompt(section1, section2)
	reply, err := g.client.GeneratePrompt(ctx, pillarsSystemPrompt, prompt)
	if err != nil {
		slog.Warn("Gateway.SynthesizePillarsAndStrategies: model call failed, using fallback", "error", err)
		return FallbackPillarsStrategies(), nil
	}

	var result models.PillarsStrategies
	if err := json.Unmarshal([]byte(StripJSONFences(reply)), &result); err != nil {
		slog.Warn("Gateway.SynthesizePillarsAndStrategies: unparseable reply, using fallback", "error", err)
		return FallbackPillarsStrategies(), nil
	}
	if len(result.Pillars) == 0 || len(result.Strategies) == 0 {
		slog.Warn("Gateway.SynthesizePillarsAndStrategies: incomplete reply, using fallback", "pillars", len(result.Pillars), "strategies", len(result.Strategies))
		return FallbackPillarsStrategies(), nil
	}

	if missing := missingRequiredPillars(result.Pillars); len(missing) > 0 {
		slog.Warn("Gateway.SynthesizePillarsAndStrategies: model omitted required pillars", "missing", missing)
	}
	slog.Debug("Gateway.SynthesizePillarsAndStrategies: generated", "pillars", len(result.Pillars), "strategies", len(result.Strategies))
	return result, nil
}

// SynthesizeFinalActionPlan asks the model for the final action plan over
// the full answer record. Failure behavior matches
// SynthesizePillarsAndStrategies.
func (g *Gateway) SynthesizeFinalActionPlan(ctx context.Context, record models.SessionRecord) (models.ActionPlan, error) {
	if g.client == nil {
		return models.ActionPlan{}, ErrNotConfigured
	}

	prompt := buildPlanPrompt(record)
	reply, err := g.client.GeneratePrompt(ctx, planSystemPrompt, prompt)
	if err != nil {
		slog.Warn("Gateway.SynthesizeFinalActionPlan: model call failed, using fallback", "error", err)
		return FallbackActionPlan(), nil
	}

	var plan models.ActionPlan
	if err := json.Unmarshal([]byte(StripJSONFences(reply)), &plan); err != nil {
		slog.Warn("Gateway.SynthesizeFinalActionPlan: unparseable reply, using fallback", "error", err)
		return FallbackActionPlan(), nil
	}
	if plan.Summary == "" || len(plan.ActionPlan) == 0 {
		slog.Warn("Gateway.SynthesizeFinalActionPlan: incomplete reply, using fallback")
		return FallbackActionPlan(), nil
	}

	slog.Debug("Gateway.SynthesizeFinalActionPlan: generated", "categories", len(plan.ActionPlan))
	return plan, nil
}

func missingRequiredPillars(pillars []models.Pillar) []string {
	var missing []string
	for _, title := range RequiredPillarTitles {
		found := false
		for _, p := range pillars {
			if strings.EqualFold(p.Title, title) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, title)
		}
	}
	return missing
}

// StripJSONFences removes Markdown code-fence wrapping (``` with an optional
// json tag) from a model reply so the remainder parses as JSON.
func StripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.ReplaceAll(s, "```json\n", "")
		s = strings.ReplaceAll(s, "```json", "")
		s = strings.ReplaceAll(s, "```\n", "")
		s = strings.ReplaceAll(s, "```", "")
	} else if strings.HasPrefix(s, "```") {
		s = strings.ReplaceAll(s, "```\n", "")
		s = strings.ReplaceAll(s, "```", "")
	}
	return strings.TrimSpace(s)
}

func buildPillarsPrompt(section1 models.Section1Data, section2 models.Section2Data) string {
	var b strings.Builder
	b.WriteString("Based on the following investment and tool details, generate strategic pillars and implementation strategies.\n\n")
	b.WriteString("**Step 1: Data Collection**\n")
	fmt.Fprintf(&b, "- Investment Details: %s\n", section1.InvestmentDetails)
	fmt.Fprintf(&b, "- Industry Specific Information: %s\n", section1.IndustryInfo)
	fmt.Fprintf(&b, "- Tool/Platform Details: %s\n", section1.ToolPlatform)
	fmt.Fprintf(&b, "- Estimated Effort: %s\n", section1.Effort)
	fmt.Fprintf(&b, "- Known Friction Points: %s\n", section1.Friction)
	fmt.Fprintf(&b, "- What-If Scenarios: %s\n\n", section1.WhatIf)
	b.WriteString("**Step 2: Coverage Calculation**\n")
	fmt.Fprintf(&b, "- What was expected: %s\n", section2.Expected)
	fmt.Fprintf(&b, "- What is the current situation: %s\n\n", section2.Actual)
	b.WriteString(`**Task:**
Analyze the provided data and generate strategic recommendations. You MUST provide content for ALL 5 standard pillars plus 2-3 additional context-specific pillars.

Generate a JSON object with:
1. 'pillars': A list containing ALL of these pillars with context-specific descriptions and action items:
   - Governance: Customize for this specific context
   - Efficiency: Customize for this specific context
   - Security: Customize for this specific context
   - Adoption: Customize for this specific context
   - Usability: Customize for this specific context
   - Plus 2-3 additional NEW pillars specific to the investment/industry context

Each pillar MUST have:
- title: The pillar name
- description: Detailed description (minimum 25 words) customized to the specific context
- actionItems: Array of 4-5 concrete, actionable items

2. 'strategies': Exactly 3 strategies with these exact titles:
   - "Generate Use Cases to Test"
   - "Verify Design Effectiveness"
   - "Isolate Operational Blockers"

Each strategy MUST have:
- title: Exact title as listed above
- description: Detailed description (minimum 25 words)
- steps: Array of 4-6 specific actionable steps

Return ONLY valid JSON in this exact format:
{
  "pillars": [
    {
      "title": "Governance",
      "description": "detailed contextual description here (25+ words)",
      "actionItems": ["action1", "action2", "action3", "action4"]
    }
  ],
  "strategies": [
    {
      "title": "Generate Use Cases to Test",
      "description": "detailed description here",
      "steps": ["step1", "step2", "step3", "step4", "step5"]
    }
  ]
}`)
	return b.String()
}

func buildPlanPrompt(record models.SessionRecord) string {
	var b strings.Builder
	b.WriteString("Based on all the collected data from this strategic planning session, generate a comprehensive final action plan.\n\n")
	b.WriteString("**Collected Data:**\n\n")
	b.WriteString("**Step 1 - Initial Assessment:**\n")
	fmt.Fprintf(&b, "- Investment Details: %s\n", record.Section1.InvestmentDetails)
	fmt.Fprintf(&b, "- Industry Info: %s\n", record.Section1.IndustryInfo)
	fmt.Fprintf(&b, "- Tool/Platform: %s\n", record.Section1.ToolPlatform)
	fmt.Fprintf(&b, "- Effort: %s\n", record.Section1.Effort)
	fmt.Fprintf(&b, "- Friction Points: %s\n", record.Section1.Friction)
	fmt.Fprintf(&b, "- What-If Scenarios: %s\n\n", record.Section1.WhatIf)
	b.WriteString("**Step 2 - Gap Analysis:**\n")
	fmt.Fprintf(&b, "- Expected: %s\n", record.Section2.Expected)
	fmt.Fprintf(&b, "- Actual: %s\n\n", record.Section2.Actual)
	b.WriteString("**Step 3 - Strategic Input:**\n")
	fmt.Fprintf(&b, "%s\n\n", record.Section3.AnythingElse)
	b.WriteString("**Step 5 - Integration Preference:**\n")
	fmt.Fprintf(&b, "%s\n\n", record.Section5.IntegrationMethod)
	b.WriteString("**Step 6 - Desired Outcome:**\n")
	fmt.Fprintf(&b, "%s\n\n", record.Section6.Outcome)
	b.WriteString("**Step 7 - Priority Actions:**\n")
	fmt.Fprintf(&b, "%s\n\n", strings.Join(record.Section7.RecircleActions, ", "))
	b.WriteString("**Strategic Pillars Already Identified:**\n")
	b.WriteString(formatPillarLines(record.Section3.Pillars))
	b.WriteString("\n\n**Strategies Already Defined:**\n")
	b.WriteString(formatStrategyLines(record.Section4.Strategies))
	b.WriteString(`

**Task:**
Create a super comprehensive and detailed final action plan with:
1. A summary paragraph explaining the overall strategic direction and approach
2. 5-7 actionable categories such as:
   - "Immediate Actions (Week 1-2)"
   - "30-Day Plan"
   - "90-Day Goals"
   - "Key Stakeholders & Responsibilities"
   - "Success Metrics & KPIs"
   - "Risk Mitigation"
   - "Long-term Vision"
3. Each category should have 3-6 specific, actionable items that are measurable and time-bound

Return ONLY valid JSON in this exact format:
{
  "summary": "comprehensive summary paragraph here (150-170 words)",
  "actionPlan": [
    {
      "category": "Immediate Actions (Week 1-2)",
      "actions": ["specific action 1", "specific action 2", "specific action 3"]
    }
  ]
}`)
	return b.String()
}

func formatPillarLines(pillars []models.Pillar) string {
	if len(pillars) == 0 {
		return "None yet"
	}
	lines := make([]string, len(pillars))
	for i, p := range pillars {
		lines[i] = fmt.Sprintf("- %s: %s", p.Title, p.Description)
	}
	return strings.Join(lines, "\n")
}

func formatStrategyLines(strategies []models.Strategy) string {
	if len(strategies) == 0 {
		return "None yet"
	}
	lines := make([]string, len(strategies))
	for i, s := range strategies {
		lines[i] = fmt.Sprintf("- %s: %s", s.Title, s.Description)
	}
	return strings.Join(lines, "\n")
}
