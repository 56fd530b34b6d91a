package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kevinmichaelchen/gh-sms/internal/models"
	"github.com/kevinmichaelchen/gh-sms/internal/summarize"
	"go.uber.org/zap"
)

const issueSeparator = " -- "

// Summarizer is the summarization engine as seen by the handlers.
type Summarizer interface {
	Repo(ctx context.Context, ref models.RepoRef) (string, error)
	LatestIssue(ctx context.Context, ref models.RepoRef) (string, error)
	Issue(ctx context.Context, ref models.RepoRef, number int) (string, error)
}

// Structured returns the fixed-grammar handlers in priority order.
func Structured(s Summarizer, c Creator, log *zap.SugaredLogger) []Handler {
	return []Handler{
		createRepoHandler{creator: c},
		createIssueHandler{creator: c},
		helpHandler{},
		summarizeHandler{summarizer: s, log: log},
	}
}

// hasVerb reports whether the first len(verb) tokens match verb,
// ignoring case.
func hasVerb(parts []string, verb ...string) bool {
	if len(parts) < len(verb) {
		return false
	}
	for i, v := range verb {
		if !strings.EqualFold(parts[i], v) {
			return false
		}
	}
	return true
}

// create repo <name>
type createRepoHandler struct {
	creator Creator
}

func (createRepoHandler) Name() string { return "create-repo" }

func (h createRepoHandler) Handle(ctx context.Context, text string) (string, bool) {
	parts := strings.Fields(text)
	if len(parts) < 3 || !hasVerb(parts, "create", "repo") {
		return "", false
	}

	name := parts[2]
	if err := h.creator.CreateRepo(ctx, name); err != nil {
		return fmt.Sprintf("Failed to create repo '%s'.", name), true
	}
	return fmt.Sprintf("Created repo '%s'", name), true
}

// create issue <repo> <title> -- <body>
type createIssueHandler struct {
	creator Creator
}

func (createIssueHandler) Name() string { return "create-issue" }

func (h createIssueHandler) Handle(ctx context.Context, text string) (string, bool) {
	parts := strings.Fields(text)
	if len(parts) < 4 || !hasVerb(parts, "create", "issue") {
		return "", false
	}

	repo, title, body, ok := splitCreateIssue(text)
	if !ok {
		return MsgCreateIssueUsage, true
	}

	if err := h.creator.CreateIssue(ctx, repo, title, body); err != nil {
		return fmt.Sprintf("Failed to create issue in '%s'.", repo), true
	}
	return fmt.Sprintf("Issue created in '%s'", repo), true
}

// splitCreateIssue splits on the first separator. The body keeps any later
// separators verbatim.
func splitCreateIssue(text string) (repo, title, body string, ok bool) {
	pre, body, found := strings.Cut(text, issueSeparator)
	if !found {
		return "", "", "", false
	}
	head := strings.Fields(pre)
	if len(head) < 4 {
		return "", "", "", false
	}
	return head[2], strings.Join(head[3:], " "), body, true
}

type helpHandler struct{}

func (helpHandler) Name() string { return "help" }

func (helpHandler) Handle(_ context.Context, text string) (string, bool) {
	if !strings.EqualFold(text, "help") {
		return "", false
	}
	return MsgHelp, true
}

// summarize <owner/repo> [issue [#N]]
type summarizeHandler struct {
	summarizer Summarizer
	log        *zap.SugaredLogger
}

func (summarizeHandler) Name() string { return "summarize" }

func (h summarizeHandler) Handle(ctx context.Context, text string) (string, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 || !hasVerb(parts, "summarize") || !strings.Contains(parts[1], "/") {
		return "", false
	}

	ref, err := models.ParseRepoRef(parts[1])
	if err != nil {
		return MsgInvalidRepoRef, true
	}

	wantsIssue := len(parts) >= 3 && strings.EqualFold(parts[2], "issue")
	if wantsIssue && len(parts) >= 4 {
		if n, ok := parseIssueNumber(parts[3]); ok {
			out, err := h.summarizer.Issue(ctx, ref, n)
			return summaryReply(h.log, out, err, MsgIssueFailed, MsgIssueFailed), true
		}
	}
	if wantsIssue {
		out, err := h.summarizer.LatestIssue(ctx, ref)
		return summaryReply(h.log, out, err, MsgLatestIssueFailed, MsgLatestIssueFailed), true
	}

	out, err := h.summarizer.Repo(ctx, ref)
	return summaryReply(h.log, out, err, MsgRepoFailed, MsgRepoFailed), true
}

// parseIssueNumber accepts "12" or "#12"; only positive numbers qualify.
func parseIssueNumber(s string) (int, bool) {
	s = strings.TrimPrefix(s, "#")
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// summaryReply turns an engine result into reply text. notFound is used when
// the repository does not exist, fallback for any other GitHub failure.
func summaryReply(log *zap.SugaredLogger, out string, err error, notFound, fallback string) string {
	switch {
	case err == nil:
		return out
	case errors.Is(err, summarize.ErrNoIssues):
		return MsgNoIssues
	case errors.Is(err, summarize.ErrRepoNotFound):
		log.Infow("summarization target missing", "error", err)
		return notFound
	default:
		log.Warnw("summarization aborted", "error", err)
		return fallback
	}
}
