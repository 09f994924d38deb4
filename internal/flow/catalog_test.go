package flow

import (
	"testing"

	"github.com/quadrant-labs/StrategyPipe/internal/models"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	catalog := DefaultCatalog()
	if err := catalog.Validate(); err != nil {
		t.Fatalf("DefaultCatalog failed validation: %v", err)
	}
	if len(catalog) != 13 {
		t.Errorf("Expected 13 questions, got %d", len(catalog))
	}
	if catalog.TotalSections() != 7 {
		t.Errorf("Expected 7 sections, got %d", catalog.TotalSections())
	}
}

func TestDefaultCatalogTriggerKeys(t *testing.T) {
	catalog := DefaultCatalog()

	gap := catalog.QuestionAt(7)
	if gap == nil || gap.Key != KeyGapAnalysis {
		t.Fatalf("Expected gap-analysis trigger at index 7, got %+v", gap)
	}
	if gap.Section != 2 || gap.Type != AnswerFreeText {
		t.Errorf("Gap-analysis question has wrong shape: %+v", gap)
	}

	last := catalog.QuestionAt(len(catalog) - 1)
	if last == nil || last.Key != KeyPriorityActions {
		t.Fatalf("Expected priority-actions trigger at final index, got %+v", last)
	}
	if last.Type != AnswerMultiSelect {
		t.Errorf("Priority-actions question should be multi-select, got %s", last.Type)
	}
}

func TestQuestionAtOutOfRange(t *testing.T) {
	catalog := DefaultCatalog()
	if q := catalog.QuestionAt(-1); q != nil {
		t.Errorf("Expected nil for negative index, got %+v", q)
	}
	if q := catalog.QuestionAt(len(catalog)); q != nil {
		t.Errorf("Expected nil past catalog end, got %+v", q)
	}
}

func TestValidateRejectsDuplicatePaths(t *testing.T) {
	catalog := Catalog{
		{Section: 1, Key: "a", Prompt: "A?", Type: AnswerFreeText, Path: "section1.a"},
		{Section: 1, Key: "b", Prompt: "B?", Type: AnswerFreeText, Path: "section1.a"},
	}
	if err := catalog.Validate(); err == nil {
		t.Error("Expected validation error for duplicate paths")
	}
}

func TestValidateRejectsDecreasingSections(t *testing.T) {
	catalog := Catalog{
		{Section: 2, Key: "a", Prompt: "A?", Type: AnswerFreeText, Path: "section2.a"},
		{Section: 1, Key: "b", Prompt: "B?", Type: AnswerFreeText, Path: "section1.b"},
	}
	if err := catalog.Validate(); err == nil {
		t.Error("Expected validation error for decreasing section numbers")
	}
}

func TestValidateRejectsSelectWithoutOptions(t *testing.T) {
	catalog := Catalog{
		{Section: 1, Key: "a", Prompt: "A?", Type: AnswerSingleSelect, Path: "section1.a"},
	}
	if err := catalog.Validate(); err == nil {
		t.Error("Expected validation error for select question without options")
	}
}

func TestValidateRejectsFreeTextWithOptions(t *testing.T) {
	catalog := Catalog{
		{Section: 1, Key: "a", Prompt: "A?", Type: AnswerFreeText, Path: "section1.a",
			Options: []models.Option{{Label: "X", Value: "x"}}},
	}
	if err := catalog.Validate(); err == nil {
		t.Error("Expected validation error for free-text question with options")
	}
}

func TestValidateRejectsDuplicateOptionValues(t *testing.T) {
	catalog := Catalog{
		{Section: 1, Key: "a", Prompt: "A?", Type: AnswerSingleSelect, Path: "section1.a",
			Options: []models.Option{{Label: "X", Value: "x"}, {Label: "Y", Value: "x"}}},
	}
	if err := catalog.Validate(); err == nil {
		t.Error("Expected validation error for duplicate option values")
	}
}

func TestHasOptionValue(t *testing.T) {
	q := &Question{
		Type:    AnswerSingleSelect,
		Options: []models.Option{{Label: "API Led Application", Value: "api"}},
	}
	if !q.HasOptionValue("api") {
		t.Error("Expected HasOptionValue to find existing value")
	}
	if q.HasOptionValue("consultant") {
		t.Error("Expected HasOptionValue to reject unknown value")
	}
}
