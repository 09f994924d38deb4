// Package models defines the session record schema for the strategy wizard.
package models

// Pillar is one strategic pillar, either generated by the enrichment model
// or taken from the fixed default set.
type Pillar struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionItems []string `json:"actionItems"`
}

// Strategy is one implementation strategy generated by the enrichment model.
type Strategy struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

// PillarsStrategies is the combined result of the gap-analysis enrichment.
type PillarsStrategies struct {
	Pillars    []Pillar   `json:"pillars"`
	Strategies []Strategy `json:"strategies"`
}

// ActionCategory is one category of the final action plan.
type ActionCategory struct {
	Category string   `json:"category"`
	Actions  []string `json:"actions"`
}

// ActionPlan is the final synthesized action plan: a summary paragraph plus
// an ordered list of action categories.
type ActionPlan struct {
	Summary    string           `json:"summary"`
	ActionPlan []ActionCategory `json:"actionPlan"`
}

// Section1Data holds the initial assessment answers (all free text).
type Section1Data struct {
	InvestmentDetails string `json:"investmentDetails"`
	IndustryInfo      string `json:"industryInfo"`
	ToolPlatform      string `json:"toolPlatform"`
	Effort            string `json:"effort"`
	Friction          string `json:"friction"`
	WhatIf            string `json:"whatIf"`
}

// Section2Data holds the gap analysis answers.
type Section2Data struct {
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// Section3Data holds the strategic pillars. Pillars are populated only by
// the enrichment gateway; AnythingElse is a user answer.
type Section3Data struct {
	Pillars      []Pillar `json:"pillars"`
	AnythingElse string   `json:"anythingElse"`
}

// Section4Data holds the generated strategies plus the strategy direction
// the user chose to prioritize. Keeping them on separate fields means the
// user's choice never clobbers the generated list.
type Section4Data struct {
	Strategies []Strategy `json:"strategies"`
	Priority   string     `json:"priority"`
}

// Section5Data holds the chosen integration method.
type Section5Data struct {
	IntegrationMethod string `json:"integrationMethod"`
}

// Section6Data holds the desired outcome.
type Section6Data struct {
	Outcome string `json:"outcome"`
}

// Section7Data holds the priority actions selected for continuous improvement.
type Section7Data struct {
	RecircleActions []string `json:"recircleActions"`
}

// SessionRecord is the accumulated answer record for one wizard session,
// one sub-record per section. Fields for sections not yet reached keep
// their zero value until the flow writes them.
type SessionRecord struct {
	Section1 Section1Data `json:"section1"`
	Section2 Section2Data `json:"section2"`
	Section3 Section3Data `json:"section3"`
	Section4 Section4Data `json:"section4"`
	Section5 Section5Data `json:"section5"`
	Section6 Section6Data `json:"section6"`
	Section7 Section7Data `json:"section7"`
}

// NewSessionRecord returns the all-empty initial record.
func NewSessionRecord() SessionRecord {
	return SessionRecord{}
}

// Clone returns a deep copy of the record. Writes to the copy never affect
// the original snapshot.
func (r SessionRecord) Clone() SessionRecord {
	out := r
	out.Section3.Pillars = clonePillars(r.Section3.Pillars)
	out.Section4.Strategies = cloneStrategies(r.Section4.Strategies)
	out.Section7.RecircleActions = cloneStrings(r.Section7.RecircleActions)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func clonePillars(in []Pillar) []Pillar {
	if in == nil {
		return nil
	}
	out := make([]Pillar, len(in))
	for i, p := range in {
		p.ActionItems = cloneStrings(p.ActionItems)
		out[i] = p
	}
	return out
}

func cloneStrategies(in []Strategy) []Strategy {
	if in == nil {
		return nil
	}
	out := make([]Strategy, len(in))
	for i, s := range in {
		s.Steps = cloneStrings(s.Steps)
		out[i] = s
	}
	return out
}
