package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/kutbudev/aha-mcp/internal/config"
	"github.com/kutbudev/aha-mcp/internal/models"
)

func TestJaccardSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		minScore float64
		maxScore float64
	}{
		{"identical", "Ready to ship", "Ready to ship", 0.99, 1.0},
		{"word dropped", "ready develop", "Ready to develop", 0.6, 0.7},
		{"unrelated", "Shipped", "Under consideration", 0.0, 0.0},
		{"empty", "", "Open", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := JaccardSimilarity(tt.a, tt.b)
			if score < tt.minScore || score > tt.maxScore {
				t.Errorf("JaccardSimilarity(%q, %q) = %v, want between %v and %v",
					tt.a, tt.b, score, tt.minScore, tt.maxScore)
			}
		})
	}
}

func TestNormalizeForMatch(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Ready to ship", "readytoship"},
		{"in-development", "indevelopment"},
		{"will_not.implement", "willnotimplement"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeForMatch(tt.input); got != tt.expected {
				t.Errorf("normalizeForMatch(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFuzzyMatchStatuses(t *testing.T) {
	statuses := []models.WorkflowStatus{
		{ID: "1", Name: "Under consideration"},
		{ID: "2", Name: "In development"},
		{ID: "3", Name: "Ready to ship"},
		{ID: "4", Name: "Shipped"},
	}

	t.Run("substring", func(t *testing.T) {
		matches := fuzzyMatchStatuses(statuses, "development")
		if len(matches) == 0 || matches[0].Status.ID != "2" {
			t.Fatalf("expected In development first, got %+v", matches)
		}
		if matches[0].Confidence < 0.70 {
			t.Errorf("expected confidence >= 0.70, got %f", matches[0].Confidence)
		}
	})

	t.Run("normalized exact", func(t *testing.T) {
		matches := fuzzyMatchStatuses(statuses, "ready-to-ship")
		if len(matches) == 0 || matches[0].Confidence != 0.95 {
			t.Fatalf("expected a 0.95 match, got %+v", matches)
		}
	})

	t.Run("short input", func(t *testing.T) {
		if matches := fuzzyMatchStatuses(statuses, "in"); matches != nil {
			t.Errorf("expected nil, got %+v", matches)
		}
	})

	t.Run("sorted", func(t *testing.T) {
		matches := fuzzyMatchStatuses(statuses, "ship")
		for i := 1; i < len(matches); i++ {
			if matches[i].Confidence > matches[i-1].Confidence {
				t.Errorf("not sorted at %d", i)
			}
		}
	})
}

func TestUnknownStatusSuggestsClosestName(t *testing.T) {
	up := &fakeUpstream{
		workflowID: "55",
		workflow:   []models.WorkflowStatus{{ID: "1", Name: "Open"}, {ID: "2", Name: "In development"}},
	}
	e := newTestEngine(config.Config{}, up)

	_, err := e.ResolveStatusID(context.Background(), "131", "development")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), `Did you mean "In development"?`) {
		t.Errorf("missing suggestion in %q", err.Error())
	}
	if !strings.Contains(err.Error(), "Open, In development") {
		t.Errorf("missing status list in %q", err.Error())
	}
}
