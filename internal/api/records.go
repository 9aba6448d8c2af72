package api

import (
	"context"
	"fmt"

	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/kutbudev/aha-mcp/internal/pagination"
)

// GetFeature fetches a feature by reference. A nil record means the API
// returned no feature.
func (c *Client) GetFeature(ctx context.Context, ref string) (*models.Record, error) {
	var resp struct {
		Feature *models.Record `json:"feature"`
	}
	if err := c.run(ctx, getFeatureQuery, map[string]interface{}{"id": ref}, &resp); err != nil {
		return nil, err
	}
	return resp.Feature, nil
}

// GetRequirement fetches a requirement by reference.
func (c *Client) GetRequirement(ctx context.Context, ref string) (*models.Record, error) {
	var resp struct {
		Requirement *models.Record `json:"requirement"`
	}
	if err := c.run(ctx, getRequirementQuery, map[string]interface{}{"id": ref}, &resp); err != nil {
		return nil, err
	}
	return resp.Requirement, nil
}

// GetPage fetches a note/page, optionally with its parent.
func (c *Client) GetPage(ctx context.Context, ref string, includeParent bool) (*models.Page, error) {
	var resp struct {
		Page *models.Page `json:"page"`
	}
	vars := map[string]interface{}{"id": ref, "includeParent": includeParent}
	if err := c.run(ctx, getPageQuery, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Page, nil
}

// SearchDocuments runs a full-text search. page may be nil for the
// server default.
func (c *Client) SearchDocuments(ctx context.Context, query, searchableType string, page *int) (*models.SearchResult, error) {
	var resp struct {
		SearchDocuments models.SearchResult `json:"searchDocuments"`
	}
	vars := map[string]interface{}{
		"query":          query,
		"searchableType": []string{searchableType},
	}
	if page != nil {
		vars["page"] = *page
	}
	if err := c.run(ctx, searchDocumentsQuery, vars, &resp); err != nil {
		return nil, err
	}
	return &resp.SearchDocuments, nil
}

// ListReleases returns one page of a product's releases.
func (c *Client) ListReleases(ctx context.Context, productID string, page int) (*pagination.Page[models.Release], error) {
	var resp struct {
		Releases pagination.Page[models.Release] `json:"releases"`
	}
	vars := map[string]interface{}{"productId": productID, "page": page}
	if err := c.run(ctx, getReleasesQuery, vars, &resp); err != nil {
		return nil, err
	}
	return &resp.Releases, nil
}

// ListFeatureStatuses returns one page of a project's features carrying
// only their workflow status.
func (c *Client) ListFeatureStatuses(ctx context.Context, projectID string, page int) (*pagination.Page[models.Record], error) {
	var resp struct {
		Features pagination.Page[models.Record] `json:"features"`
	}
	vars := map[string]interface{}{"projectId": projectID, "page": page}
	if err := c.run(ctx, getFeatureStatusesQuery, vars, &resp); err != nil {
		return nil, err
	}
	return &resp.Features, nil
}

// GetWorkflowID returns the workflow id of the first feature of a project
// that has one, or "" if none do.
func (c *Client) GetWorkflowID(ctx context.Context, projectID string) (string, error) {
	var resp struct {
		Features struct {
			Nodes []models.Record `json:"nodes"`
		} `json:"features"`
	}
	if err := c.run(ctx, getWorkflowIDQuery, map[string]interface{}{"projectId": projectID}, &resp); err != nil {
		return "", err
	}
	for _, n := range resp.Features.Nodes {
		if n.WorkflowStatus != nil && n.WorkflowStatus.Workflow != nil && n.WorkflowStatus.Workflow.ID != "" {
			return n.WorkflowStatus.Workflow.ID, nil
		}
	}
	return "", nil
}

// CreateFeature creates a feature in a release.
func (c *Client) CreateFeature(ctx context.Context, in models.CreateFeatureInput) (models.MutationResult[models.Record], error) {
	var resp struct {
		CreateFeature struct {
			Feature *models.Record       `json:"feature"`
			Errors  []models.ErrorDetail `json:"errors"`
		} `json:"createFeature"`
	}
	vars := map[string]interface{}{
		"name":        in.Name,
		"description": in.Description,
		"releaseId":   in.ReleaseID,
	}
	if err := c.run(ctx, createFeatureMutation, vars, &resp); err != nil {
		return models.MutationResult[models.Record]{}, err
	}
	return models.MutationResult[models.Record]{
		Entity: resp.CreateFeature.Feature,
		Errors: resp.CreateFeature.Errors,
	}, nil
}

// UpdateFeature applies a partial relationship update to a feature.
func (c *Client) UpdateFeature(ctx context.Context, ref string, patch models.FeaturePatch) (models.MutationResult[models.Record], error) {
	if patch.Empty() {
		return models.MutationResult[models.Record]{}, fmt.Errorf("update of %s carries no changes", ref)
	}
	doc, vars := buildUpdateFeatureMutation(ref, patch)

	var resp struct {
		UpdateFeature struct {
			Feature *models.Record       `json:"feature"`
			Errors  []models.ErrorDetail `json:"errors"`
		} `json:"updateFeature"`
	}
	if err := c.run(ctx, doc, vars, &resp); err != nil {
		return models.MutationResult[models.Record]{}, err
	}
	return models.MutationResult[models.Record]{
		Entity: resp.UpdateFeature.Feature,
		Errors: resp.UpdateFeature.Errors,
	}, nil
}

// CreateComment adds a comment to a feature.
func (c *Client) CreateComment(ctx context.Context, featureRef, body string) (models.MutationResult[models.Comment], error) {
	var resp struct {
		CreateComment struct {
			Comment *models.Comment      `json:"comment"`
			Errors  []models.ErrorDetail `json:"errors"`
		} `json:"createComment"`
	}
	vars := map[string]interface{}{"featureId": featureRef, "comment": body}
	if err := c.run(ctx, addFeatureCommentMutation, vars, &resp); err != nil {
		return models.MutationResult[models.Comment]{}, err
	}
	return models.MutationResult[models.Comment]{
		Entity: resp.CreateComment.Comment,
		Errors: resp.CreateComment.Errors,
	}, nil
}
