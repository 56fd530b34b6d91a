package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"
	"github.com/kevinmichaelchen/gh-sms/internal/models"
	"golang.org/x/oauth2"
)

// ErrNotFound is returned when GitHub answers 404 for the requested resource.
var ErrNotFound = errors.New("not found")

const commentsPageSize = 100

// Client is a read-only wrapper around the GitHub REST API. Without a token
// it falls back to anonymous access.
type Client struct {
	gh            *gh.Client
	authenticated bool
}

// NewClient builds a client. baseURL overrides the public API endpoint and
// may be empty.
func NewClient(token, baseURL string) (*Client, error) {
	var transport http.RoundTripper = acceptTransport{base: http.DefaultTransport}
	if token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   transport,
		}
	}

	client := gh.NewClient(&http.Client{Transport: transport})
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing GitHub API URL: %w", err)
		}
		client.BaseURL = u
	}

	return &Client{gh: client, authenticated: token != ""}, nil
}

// Authenticated reports whether requests carry a bearer token.
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// AuthenticatedUser returns the login the token belongs to.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", wrap(resp, err, "fetching authenticated user")
	}
	return user.GetLogin(), nil
}

// GetRepo fetches repository metadata.
func (c *Client) GetRepo(ctx context.Context, ref models.RepoRef) (*models.Repo, error) {
	repo, resp, err := c.gh.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, wrap(resp, err, "fetching repo %s", ref)
	}
	return repoToModel(repo), nil
}

// GetReadme fetches and decodes the repository README.
func (c *Client) GetReadme(ctx context.Context, ref models.RepoRef) (*models.Readme, error) {
	content, resp, err := c.gh.Repositories.GetReadme(ctx, ref.Owner, ref.Name, nil)
	if err != nil {
		return nil, wrap(resp, err, "fetching README for %s", ref)
	}
	raw, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decoding README for %s: %w", ref, err)
	}
	text, err := ReadmeText(content.GetName(), raw)
	if err != nil {
		return nil, err
	}
	return &models.Readme{Name: content.GetName(), Content: text}, nil
}

// ListOpenIssues returns up to perPage open issues in GitHub's default order.
func (c *Client) ListOpenIssues(ctx context.Context, ref models.RepoRef, perPage int) ([]models.Issue, error) {
	issues, resp, err := c.gh.Issues.ListByRepo(ctx, ref.Owner, ref.Name, &gh.IssueListByRepoOptions{
		State:       "open",
		ListOptions: gh.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, wrap(resp, err, "listing issues for %s", ref)
	}

	out := make([]models.Issue, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issueToModel(issue))
	}
	return out, nil
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, ref models.RepoRef, number int) (*models.Issue, error) {
	issue, resp, err := c.gh.Issues.Get(ctx, ref.Owner, ref.Name, number)
	if err != nil {
		return nil, wrap(resp, err, "fetching issue %s#%d", ref, number)
	}
	m := issueToModel(issue)
	return &m, nil
}

// ListComments returns every comment on an issue, following pagination.
func (c *Client) ListComments(ctx context.Context, ref models.RepoRef, number int) ([]models.Comment, error) {
	opts := &gh.IssueListCommentsOptions{ListOptions: gh.ListOptions{PerPage: commentsPageSize}}

	var out []models.Comment
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, ref.Owner, ref.Name, number, opts)
		if err != nil {
			return nil, wrap(resp, err, "listing comments for %s#%d", ref, number)
		}
		for _, comment := range comments {
			out = append(out, models.Comment{
				Author: comment.GetUser().GetLogin(),
				Body:   comment.GetBody(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// SearchRepositories runs a repository search sorted by stars, descending.
func (c *Client) SearchRepositories(ctx context.Context, query string, perPage int) ([]models.SearchCandidate, error) {
	result, resp, err := c.gh.Search.Repositories(ctx, query, &gh.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, wrap(resp, err, "searching repositories for %q", query)
	}

	out := make([]models.SearchCandidate, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		out = append(out, models.SearchCandidate{
			FullName:    r.GetFullName(),
			Name:        r.GetName(),
			Description: r.GetDescription(),
			Stars:       r.GetStargazersCount(),
		})
	}
	return out, nil
}

func wrap(resp *gh.Response, err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func repoToModel(r *gh.Repository) *models.Repo {
	return &models.Repo{
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.Description,
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Language:    r.Language,
	}
}

func issueToModel(i *gh.Issue) models.Issue {
	return models.Issue{
		Number: i.GetNumber(),
		Title:  i.GetTitle(),
		Body:   i.GetBody(),
	}
}
