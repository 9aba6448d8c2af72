package engine

import (
	"context"

	apierrors "github.com/kutbudev/aha-mcp/internal/errors"
	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/kutbudev/aha-mcp/internal/reference"
)

// DefaultSearchableType is searched when the caller names no type.
const DefaultSearchableType = "Page"

func classify(ref string, kinds ...reference.Kind) (reference.Kind, error) {
	if ref == "" {
		return "", apierrors.InvalidParams("Reference number is required")
	}
	k, err := reference.ClassifyAs(ref, kinds...)
	if err != nil {
		return "", apierrors.InvalidParams("%s", err.Error()).WithKind(apierrors.KindInvalidFormat)
	}
	return k, nil
}

// GetRecord fetches a feature or requirement. A nil record with a nil error
// means the reference does not exist.
func (e *Engine) GetRecord(ctx context.Context, ref string) (*models.Record, error) {
	kind, err := classify(ref, reference.Feature, reference.Requirement)
	if err != nil {
		return nil, err
	}

	var rec *models.Record
	if kind == reference.Feature {
		rec, err = e.up.GetFeature(ctx, ref)
	} else {
		rec, err = e.up.GetRequirement(ctx, ref)
	}
	if err != nil {
		return nil, e.wrap("fetch record", err)
	}
	return rec, nil
}

// GetIdea fetches an idea through the REST API.
func (e *Engine) GetIdea(ctx context.Context, ref string) (models.Idea, error) {
	if _, err := classify(ref, reference.Idea); err != nil {
		return nil, err
	}
	idea, err := e.up.GetIdea(ctx, ref)
	if err != nil {
		return nil, e.wrap("fetch idea", err)
	}
	return idea, nil
}

// GetPage fetches a note/page and, if asked, its parent.
func (e *Engine) GetPage(ctx context.Context, ref string, includeParent bool) (*models.Page, error) {
	if _, err := classify(ref, reference.Page); err != nil {
		return nil, err
	}
	page, err := e.up.GetPage(ctx, ref, includeParent)
	if err != nil {
		return nil, e.wrap("fetch page", err)
	}
	return page, nil
}

// SearchDocuments runs one page of a full-text search.
func (e *Engine) SearchDocuments(ctx context.Context, query, searchableType string, page *int) (*models.SearchResult, error) {
	if query == "" {
		return nil, apierrors.InvalidParams("Search query is required")
	}
	if searchableType == "" {
		searchableType = DefaultSearchableType
	}
	if page != nil && *page < 1 {
		return nil, apierrors.InvalidParams("page must be 1 or greater")
	}
	res, err := e.up.SearchDocuments(ctx, query, searchableType, page)
	if err != nil {
		return nil, e.wrap("search documents", err)
	}
	return res, nil
}

// NotFoundMessage is the success text returned when a read finds nothing.
func NotFoundMessage(kind reference.Kind, ref string) string {
	switch kind {
	case reference.Idea:
		return "No idea found for reference " + ref
	case reference.Page:
		return "No page found for reference " + ref
	default:
		return "No record found for reference " + ref
	}
}
