package command

import (
	"context"
	"strings"

	"github.com/kevinmichaelchen/gh-sms/internal/models"
	"go.uber.org/zap"
)

// Extractor turns free text into an intent.
type Extractor interface {
	Extract(ctx context.Context, text string) models.Intent
}

// NaturalLanguage handles messages the structured grammar did not claim by
// asking the extractor what the sender meant. Intents missing the field their
// action requires are passed on.
type NaturalLanguage struct {
	extractor  Extractor
	summarizer Summarizer
	creator    Creator
	log        *zap.SugaredLogger
}

func NewNaturalLanguage(e Extractor, s Summarizer, c Creator, log *zap.SugaredLogger) *NaturalLanguage {
	return &NaturalLanguage{extractor: e, summarizer: s, creator: c, log: log}
}

func (*NaturalLanguage) Name() string { return "natural-language" }

func (h *NaturalLanguage) Handle(ctx context.Context, text string) (string, bool) {
	if text == "" {
		return "", false
	}

	in := h.extractor.Extract(ctx, text)
	h.log.Infow("parsed intent",
		"action", in.Action,
		"repo", in.Repo,
		"repo_name", in.RepoName,
		"issue_number", in.IssueNumber,
	)

	switch in.Action {
	case models.ActionSummarizeRepo:
		if in.Repo == "" {
			return "", false
		}
		return h.withRef(in.Repo, func(ref models.RepoRef) string {
			out, err := h.summarizer.Repo(ctx, ref)
			return summaryReply(h.log, out, err, MsgRepoNotFound, MsgRepoFailed)
		}), true

	case models.ActionSummarizeLatestIssue:
		if in.Repo == "" {
			return "", false
		}
		return h.withRef(in.Repo, func(ref models.RepoRef) string {
			out, err := h.summarizer.LatestIssue(ctx, ref)
			return summaryReply(h.log, out, err, MsgRepoNotFound, MsgLatestIssueFailed)
		}), true

	case models.ActionSummarizeSpecificIssue:
		if in.Repo == "" || in.IssueNumber < 1 {
			return "", false
		}
		return h.withRef(in.Repo, func(ref models.RepoRef) string {
			out, err := h.summarizer.Issue(ctx, ref, in.IssueNumber)
			return summaryReply(h.log, out, err, MsgRepoNotFound, MsgIssueFailed)
		}), true

	case models.ActionCreateRepo:
		if in.RepoName == "" {
			return "", false
		}
		if err := h.creator.CreateRepo(ctx, in.RepoName); err != nil {
			return MsgRepoCreateFailed, true
		}
		return MsgRepoCreated, true

	case models.ActionCreateIssue:
		if in.Repo == "" {
			return "", false
		}
		title := in.Title
		if title == "" {
			title = "Issue"
		}
		if err := h.creator.CreateIssue(ctx, in.Repo, title, in.Body); err != nil {
			return MsgIssueCreateFailed, true
		}
		return MsgIssueCreated, true

	default:
		return "", false
	}
}

func (h *NaturalLanguage) withRef(repo string, fn func(models.RepoRef) string) string {
	ref, err := models.ParseRepoRef(strings.TrimPrefix(repo, "https://github.com/"))
	if err != nil {
		h.log.Infow("extracted repo is not owner/name", "repo", repo)
		return MsgInvalidRepoRef
	}
	return fn(ref)
}
