package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/kutbudev/aha-mcp/internal/config"
	apierrors "github.com/kutbudev/aha-mcp/internal/errors"
	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/kutbudev/aha-mcp/internal/pagination"
	"github.com/kutbudev/aha-mcp/internal/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireToolError(t *testing.T, err error, code apierrors.Code, kind apierrors.Kind) *apierrors.ToolError {
	t.Helper()
	te, ok := apierrors.As(err)
	require.True(t, ok, "expected a ToolError, got %v", err)
	assert.Equal(t, code, te.Code)
	assert.Equal(t, kind, te.Kind)
	return te
}

func TestGetRecordRoutesByReferenceShape(t *testing.T) {
	up := &fakeUpstream{
		features:     map[string]*models.Record{"DEVELOP-123": {Name: "feature"}},
		requirements: map[string]*models.Record{"ADT-123-1": {Name: "requirement"}},
	}
	e := newTestEngine(config.Config{}, up)

	rec, err := e.GetRecord(context.Background(), "DEVELOP-123")
	require.NoError(t, err)
	assert.Equal(t, "feature", rec.Name)

	rec, err = e.GetRecord(context.Background(), "ADT-123-1")
	require.NoError(t, err)
	assert.Equal(t, "requirement", rec.Name)

	assert.Equal(t, []string{"GetFeature", "GetRequirement"}, up.calls)
}

func TestGetRecordNotFoundIsNotAnError(t *testing.T) {
	e := newTestEngine(config.Config{}, &fakeUpstream{})

	rec, err := e.GetRecord(context.Background(), "DEVELOP-9")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, "No record found for reference DEVELOP-9", NotFoundMessage(reference.Feature, "DEVELOP-9"))
}

func TestGetRecordRejectsBadReferences(t *testing.T) {
	up := &fakeUpstream{}
	e := newTestEngine(config.Config{}, up)

	_, err := e.GetRecord(context.Background(), "")
	te := requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindNone)
	assert.Equal(t, "Reference number is required", te.Message)

	for _, ref := range []string{"develop-123", "ABC-N-213", "ABC-I-1", "DEVELOP"} {
		_, err := e.GetRecord(context.Background(), ref)
		te := requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindInvalidFormat)
		assert.Equal(t, "Invalid reference number format. Expected DEVELOP-123 or ADT-123-1", te.Message, ref)
	}
	assert.Empty(t, up.calls)
}

func TestGetIdeaAndPageValidateShape(t *testing.T) {
	up := &fakeUpstream{
		ideas: map[string]models.Idea{"ABC-I-213": {"name": "Dark mode"}},
		pages: map[string]*models.Page{"ABC-N-213": {Name: "Notes"}},
	}
	e := newTestEngine(config.Config{}, up)

	_, err := e.GetIdea(context.Background(), "ABC-N-213")
	te := requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindInvalidFormat)
	assert.Equal(t, "Invalid reference number format. Expected ABC-I-213", te.Message)

	_, err = e.GetPage(context.Background(), "ABC-I-213", false)
	te = requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindInvalidFormat)
	assert.Equal(t, "Invalid reference number format. Expected ABC-N-213", te.Message)
	assert.Empty(t, up.calls)

	idea, err := e.GetIdea(context.Background(), "ABC-I-213")
	require.NoError(t, err)
	assert.Equal(t, "Dark mode", idea["name"])

	page, err := e.GetPage(context.Background(), "ABC-N-213", true)
	require.NoError(t, err)
	assert.Equal(t, "Notes", page.Name)
}

func TestUpstreamFailureIsWrappedAsInternal(t *testing.T) {
	up := &fakeUpstream{failWith: errors.New("graphql: boom")}
	e := newTestEngine(config.Config{}, up)

	_, err := e.GetRecord(context.Background(), "DEVELOP-1")
	te := requireToolError(t, err, apierrors.CodeInternalError, apierrors.KindNone)
	assert.Equal(t, "Failed to fetch record: graphql: boom", te.Message)
}

func TestClassifiedErrorsPassThrough(t *testing.T) {
	orig := apierrors.InvalidParams("already classified")
	e := newTestEngine(config.Config{}, &fakeUpstream{failWith: orig})

	_, err := e.GetPage(context.Background(), "ABC-N-1", false)
	assert.Same(t, orig, err)
}

func TestSearchDocuments(t *testing.T) {
	up := &fakeUpstream{search: &models.SearchResult{TotalCount: 3}}
	e := newTestEngine(config.Config{}, up)

	res, err := e.SearchDocuments(context.Background(), "roadmap", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, "Page", up.lastSearch)

	_, err = e.SearchDocuments(context.Background(), "", "Page", nil)
	te := requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindNone)
	assert.Equal(t, "Search query is required", te.Message)

	zero := 0
	_, err = e.SearchDocuments(context.Background(), "x", "Page", &zero)
	requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindNone)
	assert.Equal(t, 1, up.count("SearchDocuments"))
}

func TestGetReleasesSortsByNumericID(t *testing.T) {
	up := &fakeUpstream{releasePages: []pagination.Page[models.Release]{
		lastPage(models.Release{ID: "9"}, models.Release{ID: "10"}, models.Release{ID: "2"}),
	}}
	e := newTestEngine(config.Config{ProductID: "PRJ"}, up)

	releases, err := e.GetReleases(context.Background(), "")
	require.NoError(t, err)

	var ids []string
	for _, r := range releases {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"2", "9", "10"}, ids)
}

func TestSortReleasesBeyondInt64(t *testing.T) {
	releases := []models.Release{
		{ID: "6776000000000000000001"},
		{ID: "x"},
		{ID: "999999999999999999999"},
		{ID: "12"},
	}
	SortReleases(releases)

	var ids []string
	for _, r := range releases {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"12", "999999999999999999999", "6776000000000000000001", "x"}, ids)
}

func TestGetReleasesDrainsAllPages(t *testing.T) {
	up := &fakeUpstream{releasePages: []pagination.Page[models.Release]{
		{Nodes: []models.Release{{ID: "3"}}, CurrentPage: 1, TotalPages: 2},
		{Nodes: []models.Release{{ID: "1"}}, CurrentPage: 2, TotalPages: 2, IsLastPage: true},
	}}
	e := newTestEngine(config.Config{}, up)

	releases, err := e.GetReleases(context.Background(), "PRJ")
	require.NoError(t, err)
	require.Len(t, releases, 2)
	assert.Equal(t, "1", releases[0].ID)
	assert.Equal(t, 2, up.count("ListReleases"))
}

func TestGetReleasesNeedsProduct(t *testing.T) {
	up := &fakeUpstream{}
	e := newTestEngine(config.Config{}, up)

	_, err := e.GetReleases(context.Background(), "")
	requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindNone)
	assert.Empty(t, up.calls)
}

func TestResolveStatusIDNumericShortCircuits(t *testing.T) {
	up := &fakeUpstream{}
	e := newTestEngine(config.Config{}, up)

	id, err := e.ResolveStatusID(context.Background(), "131", "1234")
	require.NoError(t, err)
	assert.Equal(t, "1234", id)
	assert.Empty(t, up.calls)
}

func TestResolveStatusIDFromWorkflow(t *testing.T) {
	up := &fakeUpstream{
		workflowID: "55",
		workflow:   []models.WorkflowStatus{{ID: "1", Name: "Open"}, {ID: "2", Name: "Done"}},
	}
	e := newTestEngine(config.Config{}, up)

	id, err := e.ResolveStatusID(context.Background(), "131", "done")
	require.NoError(t, err)
	assert.Equal(t, "2", id)
	assert.Equal(t, []string{"GetWorkflowID", "GetWorkflowStatuses"}, up.calls)
}

func TestResolveStatusIDUnknownNameListsAvailable(t *testing.T) {
	up := &fakeUpstream{
		workflowID: "55",
		workflow:   []models.WorkflowStatus{{ID: "1", Name: "Open"}, {ID: "2", Name: "Done"}},
	}
	e := newTestEngine(config.Config{}, up)

	_, err := e.ResolveStatusID(context.Background(), "131", "Shipped")
	te := requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindStatusNotFound)
	assert.Contains(t, te.Message, "Open, Done")
	assert.Contains(t, te.Message, `"Shipped"`)
}

func TestStatusesFallBackToFeatureScan(t *testing.T) {
	pages := []pagination.Page[models.Record]{
		{Nodes: []models.Record{featureIn("1", "Open"), {}, featureIn("2", "Done")}, CurrentPage: 1, TotalPages: 2},
		{Nodes: []models.Record{featureIn("1", "Opened"), featureIn("3", "Shipped")}, CurrentPage: 2, TotalPages: 2, IsLastPage: true},
	}

	tests := []struct {
		name     string
		up       *fakeUpstream
		wantCall []string
	}{
		{
			name:     "no workflow id",
			up:       &fakeUpstream{featurePages: pages},
			wantCall: []string{"GetWorkflowID", "ListFeatureStatuses", "ListFeatureStatuses"},
		},
		{
			name:     "empty workflow definition",
			up:       &fakeUpstream{workflowID: "55", featurePages: pages},
			wantCall: []string{"GetWorkflowID", "GetWorkflowStatuses", "ListFeatureStatuses", "ListFeatureStatuses"},
		},
		{
			name:     "workflow endpoint fails",
			up:       &fakeUpstream{workflowID: "55", workflowRESTErr: errors.New("status 500"), featurePages: pages},
			wantCall: []string{"GetWorkflowID", "GetWorkflowStatuses", "ListFeatureStatuses", "ListFeatureStatuses"},
		},
		{
			name:     "workflow id lookup fails",
			up:       &fakeUpstream{workflowErr: errors.New("graphql: nope"), featurePages: pages},
			wantCall: []string{"GetWorkflowID", "ListFeatureStatuses", "ListFeatureStatuses"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(config.Config{}, tt.up)

			statuses, err := e.GetWorkflowStatuses(context.Background(), "131")
			require.NoError(t, err)
			assert.Equal(t, []models.WorkflowStatus{
				{ID: "1", Name: "Opened"},
				{ID: "2", Name: "Done"},
				{ID: "3", Name: "Shipped"},
			}, statuses)
			assert.Equal(t, tt.wantCall, tt.up.calls)
		})
	}
}

func TestNoStatusesFound(t *testing.T) {
	up := &fakeUpstream{featurePages: []pagination.Page[models.Record]{lastPage[models.Record]()}}
	e := newTestEngine(config.Config{}, up)

	_, err := e.ResolveStatusID(context.Background(), "131", "Open")
	requireToolError(t, err, apierrors.CodeInternalError, apierrors.KindNoStatusesFound)
}

func TestNoStatusesFoundAfterEarlierTierFailed(t *testing.T) {
	tests := []struct {
		name     string
		up       *fakeUpstream
		wantCall []string
	}{
		{
			name: "workflow id lookup fails",
			up: &fakeUpstream{
				workflowErr:  errors.New("graphql: transient"),
				featurePages: []pagination.Page[models.Record]{lastPage[models.Record]()},
			},
			wantCall: []string{"GetWorkflowID", "ListFeatureStatuses"},
		},
		{
			name: "workflow id lookup fails and features carry no status",
			up: &fakeUpstream{
				workflowErr:  errors.New("graphql: transient"),
				featurePages: []pagination.Page[models.Record]{lastPage(models.Record{ID: "1"})},
			},
			wantCall: []string{"GetWorkflowID", "ListFeatureStatuses"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(config.Config{}, tt.up)

			_, err := e.ResolveStatusID(context.Background(), "131", "Open")
			te := requireToolError(t, err, apierrors.CodeInternalError, apierrors.KindNoStatusesFound)
			assert.Equal(t, "No workflow statuses found for project 131", te.Message)
			assert.Equal(t, tt.wantCall, tt.up.calls)
		})
	}
}

func TestGetWorkflowStatusesReportsUpstreamFailure(t *testing.T) {
	up := &fakeUpstream{workflowErr: errors.New("graphql: down"), featurePages: nil}
	e := newTestEngine(config.Config{}, up)

	_, err := e.GetWorkflowStatuses(context.Background(), "131")
	te := requireToolError(t, err, apierrors.CodeInternalError, apierrors.KindNone)
	assert.Contains(t, te.Message, "Failed to fetch workflow statuses")
}

func TestUserResolution(t *testing.T) {
	up := &fakeUpstream{users: map[string][]models.User{
		"one@acme.io": {{ID: "u1", Email: "one@acme.io"}},
		"two@acme.io": {{ID: "u2"}, {ID: "u3"}},
	}}
	e := newTestEngine(config.Config{}, up)

	id, err := e.ResolveUserID(context.Background(), "one@acme.io")
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	_, err = e.ResolveUserID(context.Background(), "two@acme.io")
	requireToolError(t, err, apierrors.CodeInternalError, apierrors.KindAmbiguousUser)

	_, err = e.ResolveUserID(context.Background(), "none@acme.io")
	requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindUserNotFound)
}

func TestGetConfiguredUser(t *testing.T) {
	up := &fakeUpstream{users: map[string][]models.User{"me@acme.io": {{ID: "u9"}}}}

	_, err := newTestEngine(config.Config{}, up).GetConfiguredUser(context.Background())
	requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindNone)
	assert.Empty(t, up.calls)

	u, err := newTestEngine(config.Config{UserEmail: "me@acme.io"}, up).GetConfiguredUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.ConfiguredUser{Email: "me@acme.io", UserID: "u9"}, u)
}

func TestUpdateFeatureRequiresAChangeBeforeAnyCall(t *testing.T) {
	up := &fakeUpstream{}
	e := newTestEngine(config.Config{}, up)

	_, err := e.UpdateFeature(context.Background(), UpdateFeatureRequest{Reference: "DEVELOP-123"})
	requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindNone)
	assert.Empty(t, up.calls)

	_, err = e.UpdateFeature(context.Background(), UpdateFeatureRequest{Reference: "ADT-1-1", Release: "7"})
	requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindInvalidFormat)
	assert.Empty(t, up.calls)
}

func TestUpdateFeatureUsesFallbackEmail(t *testing.T) {
	up := &fakeUpstream{
		users:        map[string][]models.User{"me@acme.io": {{ID: "u9"}}},
		updateResult: models.MutationResult[models.Record]{Entity: &models.Record{Name: "Login"}},
	}
	e := newTestEngine(config.Config{UserEmail: "me@acme.io"}, up)

	rec, err := e.UpdateFeature(context.Background(), UpdateFeatureRequest{Reference: "DEVELOP-123"})
	require.NoError(t, err)
	assert.Equal(t, "Login", rec.Name)

	assert.Equal(t, []string{"FindUsersByEmail", "UpdateFeature"}, up.calls)
	require.NotNil(t, up.lastPatch.AssignedToUserID)
	assert.Equal(t, "u9", *up.lastPatch.AssignedToUserID)
	assert.Nil(t, up.lastPatch.ReleaseID)
	assert.Nil(t, up.lastPatch.WorkflowStatusID)
}

func TestUpdateFeatureExplicitUserSkipsLookup(t *testing.T) {
	up := &fakeUpstream{updateResult: models.MutationResult[models.Record]{Entity: &models.Record{}}}
	e := newTestEngine(config.Config{UserEmail: "me@acme.io"}, up)

	_, err := e.UpdateFeature(context.Background(), UpdateFeatureRequest{
		Reference:      "DEVELOP-123",
		AssignedToUser: "u1",
		WorkflowStatus: "42",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"UpdateFeature"}, up.calls)
	assert.Equal(t, "u1", *up.lastPatch.AssignedToUserID)
	assert.Equal(t, "42", *up.lastPatch.WorkflowStatusID)
}

func TestUpdateFeatureResolvesStatusName(t *testing.T) {
	up := &fakeUpstream{
		features:     map[string]*models.Record{"DEVELOP-123": {Project: &models.Project{ID: "131"}}},
		workflowID:   "55",
		workflow:     []models.WorkflowStatus{{ID: "1", Name: "Open"}, {ID: "2", Name: "Done"}},
		updateResult: models.MutationResult[models.Record]{Entity: &models.Record{}},
	}
	e := newTestEngine(config.Config{}, up)

	_, err := e.UpdateFeature(context.Background(), UpdateFeatureRequest{
		Reference:      "DEVELOP-123",
		Release:        "7001",
		WorkflowStatus: "Done",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"GetFeature", "GetWorkflowID", "GetWorkflowStatuses", "UpdateFeature"}, up.calls)
	assert.Equal(t, "7001", *up.lastPatch.ReleaseID)
	assert.Equal(t, "2", *up.lastPatch.WorkflowStatusID)
	assert.Nil(t, up.lastPatch.AssignedToUserID)
}

func TestUpdateFeatureUnknownStatusNeverMutates(t *testing.T) {
	up := &fakeUpstream{
		features:   map[string]*models.Record{"DEVELOP-123": {Project: &models.Project{ID: "131"}}},
		workflowID: "55",
		workflow:   []models.WorkflowStatus{{ID: "1", Name: "Open"}, {ID: "2", Name: "Done"}},
	}
	e := newTestEngine(config.Config{}, up)

	_, err := e.UpdateFeature(context.Background(), UpdateFeatureRequest{Reference: "DEVELOP-123", WorkflowStatus: "Nope"})
	requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindStatusNotFound)
	assert.Zero(t, up.count("UpdateFeature"))
}

func TestMutationErrorsWinOverEntity(t *testing.T) {
	up := &fakeUpstream{createResult: models.MutationResult[models.Record]{
		Entity: &models.Record{ID: "1"},
		Errors: []models.ErrorDetail{{Attributes: []models.ErrorAttribute{{Messages: []string{"Name can't be blank"}}}}},
	}}
	e := newTestEngine(config.Config{}, up)

	rec, err := e.CreateFeature(context.Background(), models.CreateFeatureInput{Name: "n", Description: "d", ReleaseID: "r"})
	assert.Nil(t, rec)
	te := requireToolError(t, err, apierrors.CodeInternalError, apierrors.KindNone)
	assert.Equal(t, "Failed to create feature: Name can't be blank", te.Message)
}

func TestMutationNullEntity(t *testing.T) {
	up := &fakeUpstream{}
	e := newTestEngine(config.Config{}, up)

	_, err := e.CreateFeature(context.Background(), models.CreateFeatureInput{Name: "n", Description: "d", ReleaseID: "r"})
	te := requireToolError(t, err, apierrors.CodeInternalError, apierrors.KindNone)
	assert.Equal(t, "Failed to create feature", te.Message)

	_, err = e.AddFeatureComment(context.Background(), "DEVELOP-1", "hi")
	te = requireToolError(t, err, apierrors.CodeInternalError, apierrors.KindNone)
	assert.Equal(t, "Failed to add comment", te.Message)
}

func TestCreateFeatureValidation(t *testing.T) {
	up := &fakeUpstream{}
	e := newTestEngine(config.Config{}, up)

	_, err := e.CreateFeature(context.Background(), models.CreateFeatureInput{Description: "d", ReleaseID: "r"})
	requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindNone)
	_, err = e.CreateFeature(context.Background(), models.CreateFeatureInput{Name: "n", Description: "d"})
	requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindNone)
	assert.Empty(t, up.calls)
}

func TestAddFeatureComment(t *testing.T) {
	up := &fakeUpstream{commentResult: models.MutationResult[models.Comment]{Entity: &models.Comment{ID: "c1"}}}
	e := newTestEngine(config.Config{}, up)

	c, err := e.AddFeatureComment(context.Background(), "DEVELOP-1", "looks good")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)

	_, err = e.AddFeatureComment(context.Background(), "DEVELOP-1", "")
	requireToolError(t, err, apierrors.CodeInvalidParams, apierrors.KindNone)
	assert.Equal(t, 1, up.count("CreateComment"))
}
