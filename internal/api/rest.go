package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/kutbudev/aha-mcp/internal/models"
)

// The workflow endpoint has returned its status list under each of these
// keys, either at the top level or nested under "workflow". They are tried
// in this order.
var workflowStatusKeys = []string{"workflow_statuses", "statuses", "workflowStatuses"}

var userListKeys = []string{"users"}

// flexString decodes a JSON string or number into a string. REST ids are
// large integers and are not always quoted.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// firstList returns the value of the first key in keys that holds a JSON
// array in obj.
func firstList(obj map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			return trimmed, true
		}
	}
	return nil, false
}

// extractWorkflowStatuses pulls {id, name} pairs out of a workflow
// response. The nested "workflow" object is searched before the top level;
// the first non-empty list wins.
func extractWorkflowStatuses(body []byte) ([]models.WorkflowStatus, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("failed to decode workflow: %w", err)
	}

	containers := make([]map[string]json.RawMessage, 0, 2)
	if raw, ok := top["workflow"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err == nil {
			containers = append(containers, nested)
		}
	}
	containers = append(containers, top)

	for _, obj := range containers {
		raw, ok := firstList(obj, workflowStatusKeys)
		if !ok {
			continue
		}
		var items []struct {
			ID   flexString `json:"id"`
			Name string     `json:"name"`
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("failed to decode workflow statuses: %w", err)
		}
		statuses := make([]models.WorkflowStatus, 0, len(items))
		for _, it := range items {
			if it.ID == "" {
				continue
			}
			statuses = append(statuses, models.WorkflowStatus{ID: string(it.ID), Name: it.Name})
		}
		if len(statuses) > 0 {
			return statuses, nil
		}
	}
	return nil, nil
}

// GetWorkflowStatuses fetches a workflow definition and returns its
// statuses. An empty result is not an error.
func (c *Client) GetWorkflowStatuses(ctx context.Context, workflowID string) ([]models.WorkflowStatus, error) {
	body, err := c.makeRequest(ctx, "GET", "/workflows/"+url.PathEscape(workflowID), nil)
	if err != nil {
		return nil, err
	}
	return extractWorkflowStatuses(body)
}

// FindUsersByEmail returns every user the API matches for email.
func (c *Client) FindUsersByEmail(ctx context.Context, email string) ([]models.User, error) {
	q := url.Values{}
	q.Set("email", email)
	body, err := c.makeRequest(ctx, "GET", "/users?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	raw, ok := firstList(top, userListKeys)
	if !ok {
		return nil, nil
	}
	var items []struct {
		ID    flexString `json:"id"`
		Name  string     `json:"name"`
		Email string     `json:"email"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	users := make([]models.User, 0, len(items))
	for _, it := range items {
		users = append(users, models.User{ID: string(it.ID), Name: it.Name, Email: it.Email})
	}
	return users, nil
}

// GetIdea fetches an idea by reference. A nil idea means the response had
// no idea object.
func (c *Client) GetIdea(ctx context.Context, ref string) (models.Idea, error) {
	body, err := c.makeRequest(ctx, "GET", "/ideas/"+url.PathEscape(ref), nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Idea models.Idea `json:"idea"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idea: %w", err)
	}
	return resp.Idea, nil
}
