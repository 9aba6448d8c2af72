package engine

import (
	"context"
	"fmt"
	"strings"

	apierrors "github.com/kutbudev/aha-mcp/internal/errors"
	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/kutbudev/aha-mcp/internal/pagination"
)

// statusSource is one tier of the status lookup chain. A tier that finds
// nothing returns an empty slice; only the last tier's error is reported.
type statusSource struct {
	name  string
	fetch func(ctx context.Context, projectID string) ([]models.WorkflowStatus, error)
}

func (e *Engine) statusTiers() []statusSource {
	return []statusSource{
		{"workflow", e.statusesFromWorkflow},
		{"feature scan", e.statusesFromFeatures},
	}
}

// GetWorkflowStatuses lists the statuses available to a project. Tiers are
// tried in order and the first non-empty one wins.
func (e *Engine) GetWorkflowStatuses(ctx context.Context, projectID string) ([]models.WorkflowStatus, error) {
	if err := required(projectID, "Project ID"); err != nil {
		return nil, err
	}

	var lastErr error
	for _, tier := range e.statusTiers() {
		statuses, err := tier.fetch(ctx, projectID)
		if err != nil {
			e.log.Debug("status tier failed", "tier", tier.name, "project_id", projectID, "error", err)
			lastErr = err
			continue
		}
		// A later tier that answered supersedes an earlier failure.
		lastErr = nil
		if len(statuses) > 0 {
			e.log.Debug("statuses resolved", "tier", tier.name, "project_id", projectID, "count", len(statuses))
			return statuses, nil
		}
	}
	if lastErr != nil {
		return nil, e.wrap("fetch workflow statuses", lastErr)
	}
	return nil, apierrors.Internal("No workflow statuses found for project %s", projectID).
		WithKind(apierrors.KindNoStatusesFound)
}

// statusesFromWorkflow discovers the project's workflow through one of its
// features and reads that workflow's definition over REST. A failed REST
// call counts as an empty result so the next tier still runs.
func (e *Engine) statusesFromWorkflow(ctx context.Context, projectID string) ([]models.WorkflowStatus, error) {
	workflowID, err := e.up.GetWorkflowID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if workflowID == "" {
		return nil, nil
	}
	statuses, err := e.up.GetWorkflowStatuses(ctx, workflowID)
	if err != nil {
		e.log.Debug("workflow definition unavailable", "workflow_id", workflowID, "error", err)
		return nil, nil
	}
	return statuses, nil
}

// statusesFromFeatures drains every feature of the project and collects the
// distinct statuses they are in, keyed by id, in first-seen order. If the
// project mixes workflows the result mixes them too.
func (e *Engine) statusesFromFeatures(ctx context.Context, projectID string) ([]models.WorkflowStatus, error) {
	features, err := pagination.Drain(ctx, func(ctx context.Context, page int) (*pagination.Page[models.Record], error) {
		return e.up.ListFeatureStatuses(ctx, projectID, page)
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]string)
	var order []string
	for _, f := range features {
		ws := f.WorkflowStatus
		if ws == nil || ws.ID == "" {
			continue
		}
		if _, seen := byID[ws.ID]; !seen {
			order = append(order, ws.ID)
		}
		byID[ws.ID] = ws.Name
	}

	statuses := make([]models.WorkflowStatus, 0, len(order))
	for _, id := range order {
		statuses = append(statuses, models.WorkflowStatus{ID: id, Name: byID[id]})
	}
	return statuses, nil
}

// ResolveStatusID turns a status name into its id within projectID. An
// all-digit value is already an id and is returned without any lookup.
func (e *Engine) ResolveStatusID(ctx context.Context, projectID, nameOrID string) (string, error) {
	if isNumeric(nameOrID) {
		return nameOrID, nil
	}

	statuses, err := e.GetWorkflowStatuses(ctx, projectID)
	if err != nil {
		return "", err
	}
	if s, ok := MatchStatus(statuses, nameOrID); ok {
		return s.ID, nil
	}

	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.Name)
	}
	msg := fmt.Sprintf("Workflow status %q not found. Available statuses: %s", nameOrID, strings.Join(names, ", "))
	if hint, ok := suggestStatus(statuses, nameOrID); ok {
		msg += fmt.Sprintf(". Did you mean %q?", hint)
	}
	return "", apierrors.InvalidParams("%s", msg).WithKind(apierrors.KindStatusNotFound)
}

// MatchStatus finds the status whose name equals name, ignoring case.
func MatchStatus(statuses []models.WorkflowStatus, name string) (models.WorkflowStatus, bool) {
	for _, s := range statuses {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return models.WorkflowStatus{}, false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
