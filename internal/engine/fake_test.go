package engine

import (
	"context"
	"fmt"

	"github.com/kutbudev/aha-mcp/internal/config"
	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/kutbudev/aha-mcp/internal/pagination"
)

// fakeUpstream records every call by method name. failWith, when set, is
// returned by every method.
type fakeUpstream struct {
	calls []string

	features        map[string]*models.Record
	requirements    map[string]*models.Record
	pages           map[string]*models.Page
	ideas           map[string]models.Idea
	search          *models.SearchResult
	releasePages    []pagination.Page[models.Release]
	featurePages    []pagination.Page[models.Record]
	workflowID      string
	workflowErr     error
	workflow        []models.WorkflowStatus
	workflowRESTErr error
	users           map[string][]models.User
	createResult    models.MutationResult[models.Record]
	updateResult    models.MutationResult[models.Record]
	commentResult   models.MutationResult[models.Comment]
	failWith        error

	lastPatch  models.FeaturePatch
	lastSearch string
}

func (f *fakeUpstream) record(name string) error {
	f.calls = append(f.calls, name)
	return f.failWith
}

func (f *fakeUpstream) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeUpstream) GetFeature(_ context.Context, ref string) (*models.Record, error) {
	if err := f.record("GetFeature"); err != nil {
		return nil, err
	}
	return f.features[ref], nil
}

func (f *fakeUpstream) GetRequirement(_ context.Context, ref string) (*models.Record, error) {
	if err := f.record("GetRequirement"); err != nil {
		return nil, err
	}
	return f.requirements[ref], nil
}

func (f *fakeUpstream) GetPage(_ context.Context, ref string, _ bool) (*models.Page, error) {
	if err := f.record("GetPage"); err != nil {
		return nil, err
	}
	return f.pages[ref], nil
}

func (f *fakeUpstream) GetIdea(_ context.Context, ref string) (models.Idea, error) {
	if err := f.record("GetIdea"); err != nil {
		return nil, err
	}
	return f.ideas[ref], nil
}

func (f *fakeUpstream) SearchDocuments(_ context.Context, _ string, searchableType string, _ *int) (*models.SearchResult, error) {
	if err := f.record("SearchDocuments"); err != nil {
		return nil, err
	}
	f.lastSearch = searchableType
	return f.search, nil
}

func (f *fakeUpstream) ListReleases(_ context.Context, _ string, page int) (*pagination.Page[models.Release], error) {
	if err := f.record("ListReleases"); err != nil {
		return nil, err
	}
	if page < 1 || page > len(f.releasePages) {
		return nil, fmt.Errorf("unexpected page %d", page)
	}
	return &f.releasePages[page-1], nil
}

func (f *fakeUpstream) ListFeatureStatuses(_ context.Context, _ string, page int) (*pagination.Page[models.Record], error) {
	if err := f.record("ListFeatureStatuses"); err != nil {
		return nil, err
	}
	if page < 1 || page > len(f.featurePages) {
		return nil, fmt.Errorf("unexpected page %d", page)
	}
	return &f.featurePages[page-1], nil
}

func (f *fakeUpstream) GetWorkflowID(_ context.Context, _ string) (string, error) {
	if err := f.record("GetWorkflowID"); err != nil {
		return "", err
	}
	return f.workflowID, f.workflowErr
}

func (f *fakeUpstream) GetWorkflowStatuses(_ context.Context, _ string) ([]models.WorkflowStatus, error) {
	if err := f.record("GetWorkflowStatuses"); err != nil {
		return nil, err
	}
	return f.workflow, f.workflowRESTErr
}

func (f *fakeUpstream) FindUsersByEmail(_ context.Context, email string) ([]models.User, error) {
	if err := f.record("FindUsersByEmail"); err != nil {
		return nil, err
	}
	return f.users[email], nil
}

func (f *fakeUpstream) CreateFeature(_ context.Context, _ models.CreateFeatureInput) (models.MutationResult[models.Record], error) {
	if err := f.record("CreateFeature"); err != nil {
		return models.MutationResult[models.Record]{}, err
	}
	return f.createResult, nil
}

func (f *fakeUpstream) UpdateFeature(_ context.Context, _ string, patch models.FeaturePatch) (models.MutationResult[models.Record], error) {
	if err := f.record("UpdateFeature"); err != nil {
		return models.MutationResult[models.Record]{}, err
	}
	f.lastPatch = patch
	return f.updateResult, nil
}

func (f *fakeUpstream) CreateComment(_ context.Context, _, _ string) (models.MutationResult[models.Comment], error) {
	if err := f.record("CreateComment"); err != nil {
		return models.MutationResult[models.Comment]{}, err
	}
	return f.commentResult, nil
}

func newTestEngine(cfg config.Config, up *fakeUpstream) *Engine {
	return New(cfg, up, nil)
}

func lastPage[T any](nodes ...T) pagination.Page[T] {
	return pagination.Page[T]{Nodes: nodes, CurrentPage: 1, TotalPages: 1, TotalCount: len(nodes), IsLastPage: true}
}

func featureIn(statusID, statusName string) models.Record {
	return models.Record{WorkflowStatus: &models.WorkflowStatus{ID: statusID, Name: statusName}}
}
