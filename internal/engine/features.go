package engine

import (
	"context"

	apierrors "github.com/kutbudev/aha-mcp/internal/errors"
	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/kutbudev/aha-mcp/internal/reference"
)

// UpdateFeatureRequest is an update_feature call. Empty strings mean
// "not given".
type UpdateFeatureRequest struct {
	Reference           string
	Release             string
	AssignedToUser      string
	AssignedToUserEmail string
	WorkflowStatus      string
}

// CreateFeature creates a feature inside a release.
func (e *Engine) CreateFeature(ctx context.Context, in models.CreateFeatureInput) (*models.Record, error) {
	if err := required(in.Name, "Feature name"); err != nil {
		return nil, err
	}
	if err := required(in.Description, "Feature description"); err != nil {
		return nil, err
	}
	if err := required(in.ReleaseID, "Release ID"); err != nil {
		return nil, err
	}

	res, err := e.up.CreateFeature(ctx, in)
	if err != nil {
		return nil, e.wrap("create feature", err)
	}
	return normalize(res, "create feature")
}

// UpdateFeature changes the release, assignee and/or workflow status of a
// feature. All validation happens before the first upstream call. Only
// the relationships given (or resolved) are sent.
func (e *Engine) UpdateFeature(ctx context.Context, req UpdateFeatureRequest) (*models.Record, error) {
	if _, err := classify(req.Reference, reference.Feature); err != nil {
		return nil, err
	}

	email := req.AssignedToUserEmail
	if req.AssignedToUser == "" && email == "" {
		email = e.cfg.UserEmail
	}
	if req.Release == "" && req.AssignedToUser == "" && email == "" && req.WorkflowStatus == "" {
		return nil, apierrors.InvalidParams("At least one of release, assignedToUser, assignedToUserEmail or workflowStatus is required")
	}

	var patch models.FeaturePatch
	if req.Release != "" {
		patch.ReleaseID = &req.Release
	}

	switch {
	case req.AssignedToUser != "":
		patch.AssignedToUserID = &req.AssignedToUser
	case email != "":
		id, err := e.ResolveUserID(ctx, email)
		if err != nil {
			return nil, err
		}
		patch.AssignedToUserID = &id
	}

	if req.WorkflowStatus != "" {
		id, err := e.resolveFeatureStatus(ctx, req.Reference, req.WorkflowStatus)
		if err != nil {
			return nil, err
		}
		patch.WorkflowStatusID = &id
	}

	res, err := e.up.UpdateFeature(ctx, req.Reference, patch)
	if err != nil {
		return nil, e.wrap("update feature", err)
	}
	return normalize(res, "update feature")
}

// resolveFeatureStatus maps a status name to an id within the project that
// owns ref.
func (e *Engine) resolveFeatureStatus(ctx context.Context, ref, nameOrID string) (string, error) {
	if isNumeric(nameOrID) {
		return nameOrID, nil
	}
	feature, err := e.up.GetFeature(ctx, ref)
	if err != nil {
		return "", e.wrap("fetch feature", err)
	}
	if feature == nil || feature.Project == nil || feature.Project.ID == "" {
		return "", apierrors.Internal("Could not determine the project of feature %s", ref)
	}
	return e.ResolveStatusID(ctx, feature.Project.ID, nameOrID)
}

// AddFeatureComment posts a comment on a feature.
func (e *Engine) AddFeatureComment(ctx context.Context, ref, body string) (*models.Comment, error) {
	if _, err := classify(ref, reference.Feature); err != nil {
		return nil, err
	}
	if err := required(body, "Comment"); err != nil {
		return nil, err
	}

	res, err := e.up.CreateComment(ctx, ref, body)
	if err != nil {
		return nil, e.wrap("add comment", err)
	}
	return normalize(res, "add comment")
}
