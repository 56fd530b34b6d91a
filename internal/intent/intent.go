// Package intent extracts a structured command from a free-text message with
// an LLM, and fills in a missing repository from a search when it can.
package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/kevinmichaelchen/gh-sms/internal/llm"
	"github.com/kevinmichaelchen/gh-sms/internal/models"
	"go.uber.org/zap"
)

const (
	maxOutputTokens = 300
	temperature     = 0.2
	systemPrompt    = "You extract structured commands from natural GitHub-related messages."
)

const promptTemplate = `You are a GitHub command interpreter. Your job is to extract structured command intents from natural language inputs.

Output your result as JSON with keys: action, repo, title, body, issue_number (use null for any missing fields).

Examples:
Input: "What is internet in a box?"
{"action": "summarize_repo", "repo": null, "title": null, "body": null, "issue_number": null}

Input: "Summarize the latest issue in GitHub's OSPO repo"
{"action": "summarize_latest_issue", "repo": "github/github-ospo", "title": null, "body": null, "issue_number": null}

Input: "What is issue 42 in vercel/next.js about?"
{"action": "summarize_specific_issue", "repo": "vercel/next.js", "title": null, "body": null, "issue_number": 42}

Input: "Create a repo called test-ai-bot"
{"action": "create_repo", "repo": null, "title": null, "body": null, "issue_number": null, "repo_name": "test-ai-bot"}

Input: "I want to file a bug in next.js"
{"action": "create_issue", "repo": "vercel/next.js", "title": "Bug report", "body": null, "issue_number": null}

Now extract the intent from: %q`

// Resolver guesses an owner/name for a free-text query.
type Resolver interface {
	Resolve(ctx context.Context, query string) (string, bool)
}

// Extractor turns free text into an Intent.
type Extractor struct {
	llm      llm.Completer
	resolver Resolver
	log      *zap.SugaredLogger
}

func NewExtractor(completer llm.Completer, resolver Resolver, log *zap.SugaredLogger) *Extractor {
	return &Extractor{llm: completer, resolver: resolver, log: log}
}

// Extract never fails: any completion or parse problem yields an unknown
// intent.
func (e *Extractor) Extract(ctx context.Context, text string) models.Intent {
	raw, err := e.llm.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      fmt.Sprintf(promptTemplate, text),
		MaxTokens:   maxOutputTokens,
		Temperature: temperature,
	})
	if err != nil {
		e.log.Warnw("intent extraction failed", "provider", e.llm.Name(), "error", err)
		return models.UnknownIntent()
	}
	e.log.Debugw("intent raw output", "raw", raw)

	in, err := Decode([]byte(llm.StripCodeFences(raw)))
	if err != nil {
		e.log.Warnw("intent output is not valid JSON", "error", err, "raw", raw)
		return models.UnknownIntent()
	}

	if needsRepo(in.Action) && strings.TrimSpace(in.Repo) == "" {
		if guess, ok := e.resolver.Resolve(ctx, text); ok {
			e.log.Infow("guessed repo", "repo", guess, "action", in.Action)
			in.Repo = guess
		}
	}

	return in
}

func needsRepo(a models.Action) bool {
	switch a {
	case models.ActionSummarizeRepo, models.ActionSummarizeLatestIssue, models.ActionCreateIssue:
		return true
	default:
		return false
	}
}
