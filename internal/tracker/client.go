// Package tracker implements the REST client for the external issue
// tracker. It decodes the tracker's wire format into the typed snapshot
// records the reasoning engine consumes, normalizing free-text status
// into the three-way status category at the boundary.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/projectnexus/taskpilot/pkg/models"
)

// Client talks to a Jira-compatible tracker over REST with basic auth.
// The HTTP client is injected so callers own timeouts and retries; the
// engine itself never retries.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	projectKey string
	httpClient *http.Client
}

// ClientConfig contains configuration for creating a tracker Client.
type ClientConfig struct {
	// BaseURL is the tracker root, e.g. "https://example.atlassian.net".
	BaseURL string
	// Email and APIToken form the basic-auth credential pair.
	Email    string
	APIToken string
	// ProjectKey scopes issue queries to one project.
	ProjectKey string
	// HTTPClient overrides the default client; nil gets a 30s-timeout one.
	HTTPClient *http.Client
}

// NewClient creates a tracker client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		email:      cfg.Email,
		apiToken:   cfg.APIToken,
		projectKey: cfg.ProjectKey,
		httpClient: httpClient,
	}
}

// issueDTO mirrors the slice of the tracker's issue payload we consume.
// Optional fields stay pointers so absence survives the decode.
type issueDTO struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string `json:"summary"`
		Description string `json:"description"`
		IssueType   struct {
			Name string `json:"name"`
		} `json:"issuetype"`
		Status struct {
			Name           string `json:"name"`
			StatusCategory struct {
				Key string `json:"key"`
			} `json:"statusCategory"`
		} `json:"status"`
		Assignee *struct {
			AccountID    string `json:"accountId"`
			DisplayName  string `json:"displayName"`
			EmailAddress string `json:"emailAddress"`
		} `json:"assignee"`
		DueDate              *string `json:"duedate"`
		TimeOriginalEstimate *int64  `json:"timeoriginalestimate"`
		Parent               *struct {
			Key string `json:"key"`
		} `json:"parent"`
	} `json:"fields"`
}

type searchResponse struct {
	Issues []issueDTO `json:"issues"`
}

type userDTO struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	AccountType  string `json:"accountType"`
}

// ListIssues fetches the project's issues as a normalized snapshot.
func (c *Client) ListIssues(ctx context.Context) ([]models.Issue, error) {
	query := url.Values{}
	query.Set("jql", fmt.Sprintf("project = %s ORDER BY created ASC", c.projectKey))
	query.Set("maxResults", "200")
	query.Set("fields", "summary,description,issuetype,status,assignee,duedate,timeoriginalestimate,parent")

	var resp searchResponse
	if err := c.get(ctx, "/rest/api/2/search?"+query.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}

	issues := make([]models.Issue, 0, len(resp.Issues))
	for _, dto := range resp.Issues {
		issues = append(issues, normalizeIssue(dto))
	}
	return issues, nil
}

// ListTeamMembers fetches tracker user accounts, filtering out app and
// system accounts so the roster only holds people.
func (c *Client) ListTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	var users []userDTO
	if err := c.get(ctx, "/rest/api/2/users/search?maxResults=200", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	members := make([]models.TeamMember, 0, len(users))
	for _, user := range users {
		if user.AccountType != "" && user.AccountType != "atlassian" {
			continue
		}
		members = append(members, models.TeamMember{
			ID:    user.AccountID,
			Name:  user.DisplayName,
			Email: user.EmailAddress,
		})
	}
	return members, nil
}

// Assign sets the issue's assignee. The tracker treats this as an
// idempotent set operation, which the confirmation protocol relies on.
func (c *Client) Assign(ctx context.Context, issueKey, assigneeID string) error {
	payload, err := json.Marshal(map[string]string{"accountId": assigneeID})
	if err != nil {
		return fmt.Errorf("marshal assignee: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/api/2/issue/%s/assignee", c.baseURL, url.PathEscape(issueKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("assign %s: tracker returned %d: %s", issueKey, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tracker returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// normalizeIssue converts the wire DTO into the engine's snapshot record.
func normalizeIssue(dto issueDTO) models.Issue {
	issue := models.Issue{
		Key:            dto.Key,
		Summary:        dto.Fields.Summary,
		Description:    dto.Fields.Description,
		Type:           dto.Fields.IssueType.Name,
		Status:         dto.Fields.Status.Name,
		StatusCategory: normalizeStatusCategory(dto.Fields.Status.StatusCategory.Key),
	}

	if dto.Fields.Assignee != nil {
		issue.Assignee = &models.Assignee{
			AccountID:   dto.Fields.Assignee.AccountID,
			DisplayName: dto.Fields.Assignee.DisplayName,
			Email:       dto.Fields.Assignee.EmailAddress,
		}
	}
	if dto.Fields.DueDate != nil {
		if due, err := time.Parse("2006-01-02", *dto.Fields.DueDate); err == nil {
			issue.DueDate = &due
		}
	}
	if dto.Fields.TimeOriginalEstimate != nil {
		hours := float64(*dto.Fields.TimeOriginalEstimate) / 3600
		if hours >= 0 {
			issue.EstimatedHours = &hours
		}
	}
	if dto.Fields.Parent != nil {
		issue.ParentKey = dto.Fields.Parent.Key
	}

	return issue
}

// normalizeStatusCategory maps the tracker's category key to the
// three-way bucket. Unknown keys default to todo rather than erroring;
// the category is a derived hint, not authoritative data.
func normalizeStatusCategory(key string) models.StatusCategory {
	switch key {
	case "done":
		return models.StatusCategoryDone
	case "indeterminate":
		return models.StatusCategoryInProgress
	default:
		return models.StatusCategoryTodo
	}
}
