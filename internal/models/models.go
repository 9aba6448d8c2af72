package models

import "strings"

// Description is a rich-text body as returned by the GraphQL API.
type Description struct {
	MarkdownBody string `json:"markdownBody,omitempty"`
	HTMLBody     string `json:"htmlBody,omitempty"`
}

// Ref is an {id, name} pair used for relationships.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is the owning product/workspace of a record.
type Project struct {
	ID string `json:"id"`
}

// Workflow identifies the workflow a status belongs to.
type Workflow struct {
	ID string `json:"id"`
}

// WorkflowStatus is a named state within a project's workflow.
type WorkflowStatus struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Workflow *Workflow `json:"workflow,omitempty"`
}

// Record is a feature or requirement fetched by reference.
type Record struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name"`
	ReferenceNum   string          `json:"referenceNum,omitempty"`
	Description    *Description    `json:"description,omitempty"`
	Project        *Project        `json:"project,omitempty"`
	Release        *Ref            `json:"release,omitempty"`
	AssignedToUser *Ref            `json:"assignedToUser,omitempty"`
	WorkflowStatus *WorkflowStatus `json:"workflowStatus,omitempty"`
}

// PageLink is a lightweight pointer to another page.
type PageLink struct {
	Name         string `json:"name"`
	ReferenceNum string `json:"referenceNum"`
}

// Page is an Aha! note/page.
type Page struct {
	Name        string       `json:"name"`
	Description *Description `json:"description,omitempty"`
	Children    []PageLink   `json:"children"`
	Parent      *PageLink    `json:"parent,omitempty"`
}

// Idea is returned verbatim from the REST API; its shape varies by account
// configuration so it is kept as a generic object.
type Idea map[string]any

// SearchNode is one search hit.
type SearchNode struct {
	Name           *string `json:"name"`
	URL            string  `json:"url"`
	SearchableID   string  `json:"searchableId"`
	SearchableType string  `json:"searchableType"`
}

// SearchResult is a single page of search hits.
type SearchResult struct {
	Nodes       []SearchNode `json:"nodes"`
	CurrentPage int          `json:"currentPage"`
	TotalCount  int          `json:"totalCount"`
	TotalPages  int          `json:"totalPages"`
	IsLastPage  bool         `json:"isLastPage"`
}

// Release is a scheduled delivery within a product.
type Release struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ReleaseDate  *string `json:"releaseDate"`
	ReferenceNum string  `json:"referenceNum"`
	CreatedAt    string  `json:"createdAt,omitempty"`
}

// User is an Aha! account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Comment is a comment created on a feature.
type Comment struct {
	ID          string `json:"id"`
	Commentable *struct {
		ID           string `json:"id"`
		ReferenceNum string `json:"referenceNum"`
	} `json:"commentable"`
}

// ErrorAttribute holds validation messages for one attribute.
type ErrorAttribute struct {
	Messages []string `json:"messages"`
}

// ErrorDetail is a structured mutation error.
type ErrorDetail struct {
	Attributes []ErrorAttribute `json:"attributes"`
}

// MutationResult is the outcome of a create/update mutation. A non-empty
// Errors slice means Entity must be treated as absent.
type MutationResult[T any] struct {
	Entity *T
	Errors []ErrorDetail
}

// Failed reports whether the mutation returned structured errors.
func (m MutationResult[T]) Failed() bool {
	return len(m.Errors) > 0
}

// ErrorMessage flattens every validation message into one line.
func (m MutationResult[T]) ErrorMessage() string {
	var msgs []string
	for _, e := range m.Errors {
		for _, a := range e.Attributes {
			msgs = append(msgs, a.Messages...)
		}
	}
	return strings.Join(msgs, ", ")
}

// CreateFeatureInput carries the attributes of a new feature.
type CreateFeatureInput struct {
	Name        string
	Description string
	ReleaseID   string
}

// FeaturePatch lists the relationships to change on a feature. Nil fields
// are left untouched upstream.
type FeaturePatch struct {
	ReleaseID        *string
	AssignedToUserID *string
	WorkflowStatusID *string
}

// Empty reports whether the patch changes nothing.
func (p FeaturePatch) Empty() bool {
	return p.ReleaseID == nil && p.AssignedToUserID == nil && p.WorkflowStatusID == nil
}

// ConfiguredUser is the requester identity resolved from configuration.
type ConfiguredUser struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}
