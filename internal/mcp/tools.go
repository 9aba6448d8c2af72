package mcp

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/kutbudev/aha-mcp/internal/engine"
	apierrors "github.com/kutbudev/aha-mcp/internal/errors"
	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/kutbudev/aha-mcp/internal/reference"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// tool pairs a definition with a handler that can be reached both through
// the SDK and through Dispatch.
type tool struct {
	def      *mcp.Tool
	register func(*mcp.Server)
	call     func(ctx context.Context, args json.RawMessage) (*mcp.CallToolResult, error)
}

// newTool adapts h to the SDK. The SDK infers the input schema from In.
// Handler errors become IsError results for MCP clients and plain errors
// for Dispatch.
func newTool[In any](def *mcp.Tool, h func(ctx context.Context, in In) (*mcp.CallToolResult, error)) tool {
	return tool{
		def: def,
		register: func(server *mcp.Server) {
			mcp.AddTool(server, def, func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
				res, err := h(ctx, in)
				if err != nil {
					return errorResult(err), nil, nil
				}
				return res, nil, nil
			})
		},
		call: func(ctx context.Context, args json.RawMessage) (*mcp.CallToolResult, error) {
			var in In
			if len(bytes.TrimSpace(args)) > 0 {
				if err := json.Unmarshal(args, &in); err != nil {
					return nil, apierrors.InvalidParams("Invalid arguments for %s: %v", def.Name, err)
				}
			}
			return h(ctx, in)
		},
	}
}

type EmptyInput struct{}

type GetRecordInput struct {
	Reference string `json:"reference" jsonschema:"Reference number (e.g., DEVELOP-123 or ADT-123-1)"`
}

type GetIdeaInput struct {
	Reference string `json:"reference" jsonschema:"Idea reference number (e.g., ABC-I-213)"`
}

type GetPageInput struct {
	Reference     string `json:"reference" jsonschema:"Reference number (e.g., ABC-N-213)"`
	IncludeParent bool   `json:"includeParent,omitempty" jsonschema:"Include parent page in the response"`
}

type SearchDocumentsInput struct {
	Query          string `json:"query" jsonschema:"Search query string"`
	SearchableType string `json:"searchableType,omitempty" jsonschema:"Type of document to search for (e.g., Page). Defaults to Page"`
	Page           *int   `json:"page,omitempty" jsonschema:"Result page, starting at 1"`
}

type GetReleasesInput struct {
	ProductID string `json:"productId,omitempty" jsonschema:"Product ID to query releases for (optional if AHA_PRODUCT_ID is set)"`
}

type GetWorkflowStatusesInput struct {
	ProjectID string `json:"projectId" jsonschema:"Project ID to query workflow statuses for"`
}

type CreateFeatureInput struct {
	Name        string `json:"name" jsonschema:"Feature name/title"`
	Description string `json:"description" jsonschema:"Feature description"`
	ReleaseID   string `json:"releaseId" jsonschema:"Release ID where the feature will be created"`
}

type UpdateFeatureInput struct {
	Reference           string `json:"reference" jsonschema:"Feature reference number (e.g., DEVELOP-123)"`
	Release             string `json:"release,omitempty" jsonschema:"Release ID to assign the feature to"`
	AssignedToUser      string `json:"assignedToUser,omitempty" jsonschema:"User ID to assign the feature to"`
	AssignedToUserEmail string `json:"assignedToUserEmail,omitempty" jsonschema:"Email address of user to assign the feature to (alternative to assignedToUser)"`
	WorkflowStatus      string `json:"workflowStatus,omitempty" jsonschema:"Workflow status ID or name. Names are looked up in the feature's project"`
}

type AddFeatureCommentInput struct {
	Reference string `json:"reference" jsonschema:"Feature reference number (e.g., DEVELOP-123)"`
	Comment   string `json:"comment" jsonschema:"Comment text to add to the feature"`
}

type GetUserByEmailInput struct {
	Email string `json:"email" jsonschema:"Email address to look up"`
}

func readOnly(title string) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		Title:         title,
		ReadOnlyHint:  true,
		OpenWorldHint: boolPtr(true),
	}
}

func (s *Server) toolTable() []tool {
	return []tool{
		newTool(&mcp.Tool{
			Name:        "get_record",
			Description: "Get an Aha! feature or requirement by reference number",
			Annotations: readOnly("Get Record"),
		}, s.handleGetRecord),
		newTool(&mcp.Tool{
			Name:        "get_idea",
			Description: "Get an Aha! idea by reference number",
			Annotations: readOnly("Get Idea"),
		}, s.handleGetIdea),
		newTool(&mcp.Tool{
			Name:        "get_page",
			Description: "Get an Aha! page by reference number with optional relationships",
			Annotations: readOnly("Get Page"),
		}, s.handleGetPage),
		newTool(&mcp.Tool{
			Name:        "search_documents",
			Description: "Search for Aha! documents",
			Annotations: readOnly("Search Documents"),
		}, s.handleSearchDocuments),
		newTool(&mcp.Tool{
			Name:        "get_releases",
			Description: "Query releases for a product. Product ID can be provided as a parameter or set via AHA_PRODUCT_ID environment variable",
			Annotations: readOnly("Get Releases"),
		}, s.handleGetReleases),
		newTool(&mcp.Tool{
			Name:        "get_workflow_statuses",
			Description: "Get the workflow statuses available to features of a project",
			Annotations: readOnly("Get Workflow Statuses"),
		}, s.handleGetWorkflowStatuses),
		newTool(&mcp.Tool{
			Name:        "create_feature",
			Description: "Create a new feature in Aha!",
			Annotations: &mcp.ToolAnnotations{
				Title:           "Create Feature",
				DestructiveHint: boolPtr(false),
				OpenWorldHint:   boolPtr(true),
			},
		}, s.handleCreateFeature),
		newTool(&mcp.Tool{
			Name:        "update_feature",
			Description: "Update key properties of an existing feature (release, assignment, status)",
			Annotations: &mcp.ToolAnnotations{
				Title:           "Update Feature",
				DestructiveHint: boolPtr(false),
				IdempotentHint:  true,
				OpenWorldHint:   boolPtr(true),
			},
		}, s.handleUpdateFeature),
		newTool(&mcp.Tool{
			Name:        "add_feature_comment",
			Description: "Add a comment to an existing feature",
			Annotations: &mcp.ToolAnnotations{
				Title:           "Add Feature Comment",
				DestructiveHint: boolPtr(false),
				OpenWorldHint:   boolPtr(true),
			},
		}, s.handleAddFeatureComment),
		newTool(&mcp.Tool{
			Name:        "get_user_by_email",
			Description: "Get a user ID by email address",
			Annotations: readOnly("Get User By Email"),
		}, s.handleGetUserByEmail),
		newTool(&mcp.Tool{
			Name:        "get_configured_user",
			Description: "Get the user configured via AHA_USER_EMAIL, with their user ID",
			Annotations: readOnly("Get Configured User"),
		}, s.handleGetConfiguredUser),
	}
}

func (s *Server) handleGetRecord(ctx context.Context, in GetRecordInput) (*mcp.CallToolResult, error) {
	rec, err := s.engine.GetRecord(ctx, in.Reference)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return plainResult(engine.NotFoundMessage(reference.Feature, in.Reference)), nil
	}
	return textResult(rec)
}

func (s *Server) handleGetIdea(ctx context.Context, in GetIdeaInput) (*mcp.CallToolResult, error) {
	idea, err := s.engine.GetIdea(ctx, in.Reference)
	if err != nil {
		return nil, err
	}
	if idea == nil {
		return plainResult(engine.NotFoundMessage(reference.Idea, in.Reference)), nil
	}
	return textResult(idea)
}

func (s *Server) handleGetPage(ctx context.Context, in GetPageInput) (*mcp.CallToolResult, error) {
	page, err := s.engine.GetPage(ctx, in.Reference, in.IncludeParent)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return plainResult(engine.NotFoundMessage(reference.Page, in.Reference)), nil
	}
	return textResult(page)
}

func (s *Server) handleSearchDocuments(ctx context.Context, in SearchDocumentsInput) (*mcp.CallToolResult, error) {
	res, err := s.engine.SearchDocuments(ctx, in.Query, in.SearchableType, in.Page)
	if err != nil {
		return nil, err
	}
	return textResult(res)
}

func (s *Server) handleGetReleases(ctx context.Context, in GetReleasesInput) (*mcp.CallToolResult, error) {
	releases, err := s.engine.GetReleases(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if releases == nil {
		releases = []models.Release{}
	}
	return textResult(map[string]interface{}{
		"releases": releases,
		"total":    len(releases),
	})
}

func (s *Server) handleGetWorkflowStatuses(ctx context.Context, in GetWorkflowStatusesInput) (*mcp.CallToolResult, error) {
	statuses, err := s.engine.GetWorkflowStatuses(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	return textResult(map[string]interface{}{
		"projectId": in.ProjectID,
		"statuses":  statuses,
	})
}

func (s *Server) handleCreateFeature(ctx context.Context, in CreateFeatureInput) (*mcp.CallToolResult, error) {
	rec, err := s.engine.CreateFeature(ctx, models.CreateFeatureInput{
		Name:        in.Name,
		Description: in.Description,
		ReleaseID:   in.ReleaseID,
	})
	if err != nil {
		return nil, err
	}
	return textResult(rec)
}

func (s *Server) handleUpdateFeature(ctx context.Context, in UpdateFeatureInput) (*mcp.CallToolResult, error) {
	rec, err := s.engine.UpdateFeature(ctx, engine.UpdateFeatureRequest{
		Reference:           in.Reference,
		Release:             in.Release,
		AssignedToUser:      in.AssignedToUser,
		AssignedToUserEmail: in.AssignedToUserEmail,
		WorkflowStatus:      in.WorkflowStatus,
	})
	if err != nil {
		return nil, err
	}
	return textResult(rec)
}

func (s *Server) handleAddFeatureComment(ctx context.Context, in AddFeatureCommentInput) (*mcp.CallToolResult, error) {
	c, err := s.engine.AddFeatureComment(ctx, in.Reference, in.Comment)
	if err != nil {
		return nil, err
	}
	return textResult(c)
}

func (s *Server) handleGetUserByEmail(ctx context.Context, in GetUserByEmailInput) (*mcp.CallToolResult, error) {
	u, err := s.engine.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	return textResult(u)
}

func (s *Server) handleGetConfiguredUser(ctx context.Context, _ EmptyInput) (*mcp.CallToolResult, error) {
	u, err := s.engine.GetConfiguredUser(ctx)
	if err != nil {
		return nil, err
	}
	return textResult(u)
}
