package api

import (
	"fmt"
	"strings"

	"github.com/kutbudev/aha-mcp/internal/models"
)

const getFeatureQuery = `
  query GetFeature($id: ID!) {
    feature(id: $id) {
      id
      name
      referenceNum
      description {
        markdownBody
      }
      project {
        id
      }
      release {
        id
        name
      }
      assignedToUser {
        id
        name
      }
      workflowStatus {
        id
        name
      }
    }
  }
`

const getRequirementQuery = `
  query GetRequirement($id: ID!) {
    requirement(id: $id) {
      id
      name
      referenceNum
      description {
        markdownBody
      }
    }
  }
`

const getPageQuery = `
  query GetPage($id: ID!, $includeParent: Boolean!) {
    page(id: $id) {
      name
      description {
        markdownBody
      }
      children {
        name
        referenceNum
      }
      parent @include(if: $includeParent) {
        name
        referenceNum
      }
    }
  }
`

const searchDocumentsQuery = `
  query SearchDocuments($query: String!, $searchableType: [String!]!, $page: Int) {
    searchDocuments(filters: {query: $query, searchableType: $searchableType}, page: $page) {
      nodes {
        name
        url
        searchableId
        searchableType
      }
      currentPage
      totalCount
      totalPages
      isLastPage
    }
  }
`

const getReleasesQuery = `
  query GetReleases($productId: ID!, $page: Int) {
    releases(filters: {projectId: $productId}, page: $page) {
      nodes {
        id
        name
        releaseDate
        referenceNum
        createdAt
      }
      currentPage
      totalCount
      totalPages
      isLastPage
    }
  }
`

const getWorkflowIDQuery = `
  query GetWorkflowId($projectId: ID!) {
    features(filters: {projectId: $projectId}, page: 1) {
      nodes {
        workflowStatus {
          workflow {
            id
          }
        }
      }
    }
  }
`

const getFeatureStatusesQuery = `
  query GetFeatures($projectId: ID!, $page: Int) {
    features(filters: {projectId: $projectId}, page: $page) {
      nodes {
        workflowStatus {
          id
          name
        }
      }
      currentPage
      totalCount
      totalPages
      isLastPage
    }
  }
`

const createFeatureMutation = `
  mutation CreateFeature($name: String!, $description: String!, $releaseId: ID!) {
    createFeature(attributes: {
      name: $name
      description: $description
      release: { id: $releaseId }
    }) {
      feature {
        id
        name
        referenceNum
        description {
          markdownBody
        }
      }
      errors {
        attributes {
          messages
        }
      }
    }
  }
`

const addFeatureCommentMutation = `
  mutation AddFeatureComment($featureId: ID!, $comment: String!) {
    createComment(attributes: {
      commentable: { id: $featureId, typename: Feature }
      body: $comment
    }) {
      comment {
        id
        commentable {
          ... on Feature {
            id
            referenceNum
          }
        }
      }
      errors {
        attributes {
          messages
        }
      }
    }
  }
`

// relationship is one optional attribute of updateFeature.
type relationship struct {
	attr     string
	variable string
	gqlType  string
}

var featureRelationships = []relationship{
	{"release", "release", "ReleaseRelationshipInput"},
	{"assignedToUser", "assignedToUser", "UserRelationshipInput"},
	{"workflowStatus", "workflowStatus", "WorkflowStatusRelationshipInput"},
}

// buildUpdateFeatureMutation renders an updateFeature document whose
// attributes block names only the relationships set in p, together with
// its variables. Unset relationships are absent from the document, so the
// server leaves them untouched.
func buildUpdateFeatureMutation(ref string, p models.FeaturePatch) (string, map[string]interface{}) {
	values := map[string]*string{
		"release":        p.ReleaseID,
		"assignedToUser": p.AssignedToUserID,
		"workflowStatus": p.WorkflowStatusID,
	}

	vars := map[string]interface{}{"featureId": ref}
	params := []string{"$featureId: ID!"}
	var attrs []string
	for _, r := range featureRelationships {
		v := values[r.attr]
		if v == nil {
			continue
		}
		params = append(params, fmt.Sprintf("$%s: %s", r.variable, r.gqlType))
		attrs = append(attrs, fmt.Sprintf("      %s: $%s", r.attr, r.variable))
		vars[r.variable] = map[string]string{"id": *v}
	}

	doc := fmt.Sprintf(`
  mutation UpdateFeature(%s) {
    updateFeature(id: $featureId, attributes: {
%s
    }) {
      feature {
        id
        name
        referenceNum
        release {
          id
          name
        }
        assignedToUser {
          id
          name
        }
        workflowStatus {
          id
          name
        }
      }
      errors {
        attributes {
          messages
        }
      }
    }
  }
`, strings.Join(params, ", "), strings.Join(attrs, "\n"))
	return doc, vars
}
