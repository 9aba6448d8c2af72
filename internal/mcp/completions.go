package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var searchableTypes = []string{"Page", "Feature", "Requirement", "Epic", "Idea", "Release", "Initiative"}

// Aha! default workflow; accounts may rename these.
var defaultStatusNames = []string{
	"Under consideration",
	"Ready to develop",
	"In development",
	"Ready to ship",
	"Shipped",
	"Will not implement",
}

// completionHandler provides autocomplete suggestions for prompt and resource arguments
func (s *Server) completionHandler(_ context.Context, req *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	argValue := strings.ToLower(req.Params.Argument.Value)

	var values []string
	switch req.Params.Argument.Name {
	case "searchableType":
		values = completeStaticValues(argValue, searchableTypes)
	case "workflowStatus":
		values = completeStaticValues(argValue, defaultStatusNames)
	default:
		values = []string{}
	}

	return &mcp.CompleteResult{
		Completion: mcp.CompletionResultDetails{
			Values:  values,
			Total:   len(values),
			HasMore: false,
		},
	}, nil
}

// completeStaticValues filters a static list of values by prefix
func completeStaticValues(prefix string, options []string) []string {
	if prefix == "" {
		return options
	}

	matches := []string{}
	for _, opt := range options {
		if strings.HasPrefix(strings.ToLower(opt), prefix) {
			matches = append(matches, opt)
		}
	}
	return matches
}
