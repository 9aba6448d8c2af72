// Package engine validates tool requests, resolves names to ids and runs the
// upstream calls behind every Aha! operation.
//
// An Engine holds no mutable state: every method is an independent,
// sequential series of upstream calls.
package engine

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kutbudev/aha-mcp/internal/config"
	apierrors "github.com/kutbudev/aha-mcp/internal/errors"
	"github.com/kutbudev/aha-mcp/internal/logging"
	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/kutbudev/aha-mcp/internal/pagination"
)

// Upstream is the subset of the Aha! client the engine drives. Each method
// is exactly one HTTP round trip.
type Upstream interface {
	GetFeature(ctx context.Context, ref string) (*models.Record, error)
	GetRequirement(ctx context.Context, ref string) (*models.Record, error)
	GetPage(ctx context.Context, ref string, includeParent bool) (*models.Page, error)
	GetIdea(ctx context.Context, ref string) (models.Idea, error)
	SearchDocuments(ctx context.Context, query, searchableType string, page *int) (*models.SearchResult, error)
	ListReleases(ctx context.Context, productID string, page int) (*pagination.Page[models.Release], error)
	ListFeatureStatuses(ctx context.Context, projectID string, page int) (*pagination.Page[models.Record], error)
	GetWorkflowID(ctx context.Context, projectID string) (string, error)
	GetWorkflowStatuses(ctx context.Context, workflowID string) ([]models.WorkflowStatus, error)
	FindUsersByEmail(ctx context.Context, email string) ([]models.User, error)
	CreateFeature(ctx context.Context, in models.CreateFeatureInput) (models.MutationResult[models.Record], error)
	UpdateFeature(ctx context.Context, ref string, patch models.FeaturePatch) (models.MutationResult[models.Record], error)
	CreateComment(ctx context.Context, featureRef, body string) (models.MutationResult[models.Comment], error)
}

// Engine runs tool operations against an Upstream.
type Engine struct {
	cfg config.Config
	up  Upstream
	log *slog.Logger
}

// New returns an engine bound to cfg. The configuration is copied and never
// re-read. logger may be nil.
func New(cfg config.Config, up Upstream, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{cfg: cfg, up: up, log: logger}
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// wrap is the single error boundary of every operation. Classified errors
// pass through untouched; anything else is logged once and becomes an
// InternalError prefixed with the operation.
func (e *Engine) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierrors.As(err); ok {
		return err
	}
	e.log.Error("upstream call failed", "op", op, "call_id", uuid.NewString(), "error", err)
	return apierrors.Internal("Failed to %s: %s", op, err.Error())
}

// normalize turns a mutation result into its entity or a classified error.
// Structured errors always win over a present entity.
func normalize[T any](res models.MutationResult[T], what string) (*T, error) {
	if res.Failed() {
		return nil, apierrors.Internal("Failed to %s: %s", what, res.ErrorMessage())
	}
	if res.Entity == nil {
		return nil, apierrors.Internal("Failed to %s", what)
	}
	return res.Entity, nil
}

func required(value, field string) error {
	if value == "" {
		return apierrors.InvalidParams("%s is required", field)
	}
	return nil
}
