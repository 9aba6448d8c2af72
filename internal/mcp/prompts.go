package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerPrompts adds MCP prompt templates to the server
func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "update_feature_status",
		Title:       "Update Feature Status",
		Description: "Move a feature to a workflow status, checking the status exists first",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "reference",
				Description: "Feature reference number (e.g., DEVELOP-123)",
				Required:    true,
			},
			{
				Name:        "workflowStatus",
				Description: "Target status name (e.g., In development)",
				Required:    true,
			},
			{
				Name:        "comment",
				Description: "Optional comment explaining the change",
				Required:    false,
			},
		},
	}, handleUpdateFeatureStatusPrompt)
}

func handleUpdateFeatureStatusPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	ref := req.Params.Arguments["reference"]
	status := req.Params.Arguments["workflowStatus"]
	comment := req.Params.Arguments["comment"]

	if ref == "" {
		return nil, fmt.Errorf("reference is required")
	}
	if status == "" {
		return nil, fmt.Errorf("workflowStatus is required")
	}

	commentStep := "- No comment was requested; skip this step."
	if comment != "" {
		commentStep = fmt.Sprintf(`- Call add_feature_comment with reference="%s" and comment="%s"`, ref, comment)
	}

	promptText := fmt.Sprintf(`Move Aha! feature %s to the workflow status "%s".

## Step 1: Inspect the feature
- Call get_record with reference="%s"
- Note its current workflowStatus and its project id

## Step 2: Check the target status
- Call get_workflow_statuses with projectId set to the feature's project id
- If "%s" is not listed (case-insensitive), stop and report the available statuses

## Step 3: Update
- Call update_feature with reference="%s" and workflowStatus="%s"
- Do not pass release or assignee fields; they must stay unchanged

## Step 4: Comment
%s

## Output Format
Report the previous status, the new status, and any error verbatim.`,
		ref, status, ref, status, ref, status, commentStep)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Update status of %s to %s", ref, status),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}
