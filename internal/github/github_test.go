package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kevinmichaelchen/gh-sms/internal/models"
	"github.com/stretchr/testify/require"
)

var ref = models.RepoRef{Owner: "o", Name: "r"}

func newTestClient(t *testing.T, token string, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewClient(token, srv.URL)
	require.NoError(t, err)
	return client
}

func TestGetRepo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, acceptHeader, r.Header.Get("Accept"))
		require.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":             "r",
			"full_name":        "o/r",
			"owner":            map[string]any{"login": "o"},
			"description":      "a repo",
			"stargazers_count": 42,
			"forks_count":      7,
			"language":         "Go",
		})
	})

	client := newTestClient(t, "", mux)
	require.False(t, client.Authenticated())

	repo, err := client.GetRepo(context.Background(), ref)
	require.NoError(t, err)
	require.Equal(t, "o", repo.Owner)
	require.Equal(t, "r", repo.Name)
	require.Equal(t, "o/r", repo.FullName)
	require.Equal(t, 42, repo.Stars)
	require.Equal(t, 7, repo.Forks)
	require.Equal(t, "a repo", *repo.Description)
	require.Equal(t, "Go", *repo.Language)
}

func TestGetRepoNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	client := newTestClient(t, "", mux)
	_, err := client.GetRepo(context.Background(), ref)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetRepoServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	client := newTestClient(t, "", mux)
	_, err := client.GetRepo(context.Background(), ref)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestBearerTokenSent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer ghp_secret", r.Header.Get("Authorization"))
		require.Equal(t, acceptHeader, r.Header.Get("Accept"))
		_ = json.NewEncoder(w).Encode(map[string]any{"login": "octocat"})
	})

	client := newTestClient(t, "ghp_secret", mux)
	require.True(t, client.Authenticated())

	login, err := client.AuthenticatedUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "octocat", login)
}

func TestGetReadme(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/readme", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"name":     "README.md",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte("# Hello\nworld")),
		})
	})

	client := newTestClient(t, "", mux)
	readme, err := client.GetReadme(context.Background(), ref)
	require.NoError(t, err)
	require.Equal(t, "README.md", readme.Name)
	require.Equal(t, "# Hello\nworld", readme.Content)
}

func TestGetReadmeHTMLIsConverted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/readme", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"name":     "README.html",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte("<h1>Title</h1><p>Some <strong>bold</strong> text</p>")),
		})
	})

	client := newTestClient(t, "", mux)
	readme, err := client.GetReadme(context.Background(), ref)
	require.NoError(t, err)
	require.Contains(t, readme.Content, "# Title")
	require.Contains(t, readme.Content, "**bold**")
	require.NotContains(t, readme.Content, "<h1>")
}

func TestListOpenIssues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "open", r.URL.Query().Get("state"))
		require.Equal(t, "1", r.URL.Query().Get("per_page"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"number": 12, "title": "Crash on start", "body": "stack trace"},
		})
	})

	client := newTestClient(t, "", mux)
	issues, err := client.ListOpenIssues(context.Background(), ref, 1)
	require.NoError(t, err)
	require.Equal(t, []models.Issue{{Number: 12, Title: "Crash on start", Body: "stack trace"}}, issues)
}

func TestGetIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues/5", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"number": 5, "title": "t", "body": "b"})
	})

	client := newTestClient(t, "", mux)
	issue, err := client.GetIssue(context.Background(), ref, 5)
	require.NoError(t, err)
	require.Equal(t, &models.Issue{Number: 5, Title: "t", Body: "b"}, issue)

	_, err = client.GetIssue(context.Background(), ref, 6)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListCommentsFollowsPagination(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues/5/comments", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "100", r.URL.Query().Get("per_page"))
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/o/r/issues/5/comments?per_page=100&page=2>; rel="next"`, srvURL))
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"body": "first", "user": map[string]any{"login": "a"}},
				{"body": "second", "user": map[string]any{"login": "b"}},
			})
		case "2":
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"body": "third", "user": map[string]any{"login": "a"}},
			})
		default:
			t.Fatalf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	client, err := NewClient("", srv.URL)
	require.NoError(t, err)

	comments, err := client.ListComments(context.Background(), ref, 5)
	require.NoError(t, err)
	require.Equal(t, []models.Comment{
		{Author: "a", Body: "first"},
		{Author: "b", Body: "second"},
		{Author: "a", Body: "third"},
	}, comments)
}

func TestSearchRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "foo-cli in:name,description", q.Get("q"))
		require.Equal(t, "stars", q.Get("sort"))
		require.Equal(t, "desc", q.Get("order"))
		require.Equal(t, "10", q.Get("per_page"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_count": 2,
			"items": []map[string]any{
				{"name": "baz", "full_name": "qux/baz", "description": "a foo tool", "stargazers_count": 900},
				{"name": "foo-cli", "full_name": "bar/foo-cli", "stargazers_count": 10},
			},
		})
	})

	client := newTestClient(t, "", mux)
	got, err := client.SearchRepositories(context.Background(), "foo-cli in:name,description", 10)
	require.NoError(t, err)
	require.Equal(t, []models.SearchCandidate{
		{FullName: "qux/baz", Name: "baz", Description: "a foo tool", Stars: 900},
		{FullName: "bar/foo-cli", Name: "foo-cli", Stars: 10},
	}, got)
}

func TestReadmeTextPassesMarkdownThrough(t *testing.T) {
	got, err := ReadmeText("README.md", "<p align=\"center\">logo</p>\n# Title")
	require.NoError(t, err)
	require.Equal(t, "<p align=\"center\">logo</p>\n# Title", got)
}
