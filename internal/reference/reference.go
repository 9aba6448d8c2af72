// Package reference classifies human-facing Aha! reference numbers.
package reference

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind is the entity a reference (or an upstream operation) targets.
type Kind string

const (
	Feature        Kind = "Feature"
	Requirement    Kind = "Requirement"
	Page           Kind = "Page"
	Idea           Kind = "Idea"
	Release        Kind = "Release"
	User           Kind = "User"
	WorkflowStatus Kind = "WorkflowStatus"
)

var (
	featureRe     = regexp.MustCompile(`^([A-Z][A-Z0-9]*)-(\d+)$`)
	requirementRe = regexp.MustCompile(`^([A-Z][A-Z0-9]*)-(\d+)-(\d+)$`)
	pageRe        = regexp.MustCompile(`^([A-Z][A-Z0-9]*)-N-(\d+)$`)
	ideaRe        = regexp.MustCompile(`^([A-Z][A-Z0-9]*)-I-(\d+)$`)
)

// ErrInvalidFormat is returned when a reference matches no known shape.
var ErrInvalidFormat = errors.New("invalid reference number format")

type rule struct {
	kind    Kind
	re      *regexp.Regexp
	example string
}

// Order matters only for readability: the shapes are disjoint.
var rules = []rule{
	{Feature, featureRe, "DEVELOP-123"},
	{Requirement, requirementRe, "ADT-123-1"},
	{Page, pageRe, "ABC-N-213"},
	{Idea, ideaRe, "ABC-I-213"},
}

// Classify maps ref to the kind of entity it names.
func Classify(ref string) (Kind, error) {
	for _, r := range rules {
		if r.re.MatchString(ref) {
			return r.kind, nil
		}
	}
	return "", &FormatError{Ref: ref, Expected: allKinds()}
}

// ClassifyAs classifies ref and requires it to be one of kinds.
func ClassifyAs(ref string, kinds ...Kind) (Kind, error) {
	k, err := Classify(ref)
	if err == nil {
		for _, want := range kinds {
			if k == want {
				return k, nil
			}
		}
	}
	return "", &FormatError{Ref: ref, Expected: kinds}
}

func IsFeature(ref string) bool     { return featureRe.MatchString(ref) }
func IsRequirement(ref string) bool { return requirementRe.MatchString(ref) }
func IsPage(ref string) bool        { return pageRe.MatchString(ref) }
func IsIdea(ref string) bool        { return ideaRe.MatchString(ref) }

// ExpectedFormat lists example references for kinds, e.g.
// "DEVELOP-123 or ADT-123-1".
func ExpectedFormat(kinds ...Kind) string {
	var ex []string
	for _, k := range kinds {
		for _, r := range rules {
			if r.kind == k {
				ex = append(ex, r.example)
			}
		}
	}
	return strings.Join(ex, " or ")
}

// FormatError describes a reference that did not match the expected shapes.
type FormatError struct {
	Ref      string
	Expected []Kind
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("Invalid reference number format. Expected %s", ExpectedFormat(e.Expected...))
}

func (e *FormatError) Unwrap() error { return ErrInvalidFormat }

func allKinds() []Kind {
	out := make([]Kind, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.kind)
	}
	return out
}
