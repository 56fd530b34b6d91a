package summarize

import (
	"fmt"
	"strings"

	"github.com/kevinmichaelchen/gh-sms/internal/models"
)

func repoPrompt(repo *models.Repo, readme string) string {
	description := "No description"
	if repo.Description != nil && *repo.Description != "" {
		description = *repo.Description
	}
	language := "Unknown"
	if repo.Language != nil && *repo.Language != "" {
		language = *repo.Language
	}

	var b strings.Builder
	b.WriteString("Summarize this GitHub repo:\n\n")
	fmt.Fprintf(&b, "Repo Name: %s\n", repo.Name)
	fmt.Fprintf(&b, "Owner: %s\n", repo.Owner)
	fmt.Fprintf(&b, "Description: %s\n", description)
	fmt.Fprintf(&b, "Stars: %d\n", repo.Stars)
	fmt.Fprintf(&b, "Forks: %d\n", repo.Forks)
	fmt.Fprintf(&b, "Primary Language: %s\n\n", language)
	b.WriteString("README:\n")
	b.WriteString(readme)
	b.WriteString(lengthRule)
	return b.String()
}

func issuePrompt(thread string) string {
	return "Summarize this GitHub issue thread:\n" + thread + lengthRule
}

// threadText renders the issue header and body followed by each comment body
// on its own line, in the order GitHub returned them.
func threadText(issue models.Issue, comments []models.Comment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Issue #%d: %s\n%s", issue.Number, issue.Title, issue.Body)
	for _, c := range comments {
		b.WriteString("\n")
		b.WriteString(c.Body)
	}
	return b.String()
}
