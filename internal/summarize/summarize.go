package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kevinmichaelchen/gh-sms/internal/github"
	"github.com/kevinmichaelchen/gh-sms/internal/llm"
	"github.com/kevinmichaelchen/gh-sms/internal/models"
	"github.com/kevinmichaelchen/gh-sms/internal/tokens"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MaxSummaryChars is the longest summary that is sent back; longer output is
// rejected rather than cut mid-sentence.
const MaxSummaryChars = 1000

const (
	MsgTooLong = "The summary was too long to send. Try summarizing a smaller repo or issue."
	MsgFailed  = "AI summarization failed. Please try again later."
)

var (
	ErrRepoNotFound  = errors.New("repo not found")
	ErrIssueNotFound = errors.New("issue not found")
	ErrNoIssues      = errors.New("no open issues")
)

const (
	maxOutputTokens = 700
	temperature     = 0.2
	systemPrompt    = "You summarize GitHub repositories and issue threads for text-message replies."
	lengthRule      = "\n\nLimit the summary to no more than 1,000 characters. Return plain text only. No formatting."
	noReadme        = "No README found."
)

// Reader is the read-only GitHub surface the engine depends on.
type Reader interface {
	GetRepo(ctx context.Context, ref models.RepoRef) (*models.Repo, error)
	GetReadme(ctx context.Context, ref models.RepoRef) (*models.Readme, error)
	ListOpenIssues(ctx context.Context, ref models.RepoRef, perPage int) ([]models.Issue, error)
	GetIssue(ctx context.Context, ref models.RepoRef, number int) (*models.Issue, error)
	ListComments(ctx context.Context, ref models.RepoRef, number int) ([]models.Comment, error)
}

// Engine turns repository and issue data into short plain-text summaries.
//
// GitHub failures are returned as errors so callers can pick their own reply;
// completion failures never are; they resolve to MsgFailed or MsgTooLong.
type Engine struct {
	gh      Reader
	llm     llm.Completer
	counter tokens.Counter
	budget  int
	log     *zap.SugaredLogger
	tracer  trace.Tracer
}

func NewEngine(gh Reader, completer llm.Completer, counter tokens.Counter, budget int, log *zap.SugaredLogger) *Engine {
	return &Engine{
		gh:      gh,
		llm:     completer,
		counter: counter,
		budget:  budget,
		log:     log,
		tracer:  otel.Tracer("github.com/kevinmichaelchen/gh-sms/internal/summarize"),
	}
}

// Repo summarizes a repository from its metadata and README.
func (e *Engine) Repo(ctx context.Context, ref models.RepoRef) (string, error) {
	ctx, span := e.tracer.Start(ctx, "summarize.repo", trace.WithAttributes(attribute.String("repo", ref.String())))
	defer span.End()

	repo, err := e.gh.GetRepo(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, github.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", ref, ErrRepoNotFound)
		}
		return "", err
	}

	readme := noReadme
	if r, err := e.gh.GetReadme(ctx, ref); err != nil {
		e.log.Infow("README unavailable", "repo", ref.String(), "error", err)
	} else if strings.TrimSpace(r.Content) != "" {
		readme = r.Content
	}

	if repo.Owner == "" {
		repo.Owner = ref.Owner
	}
	if repo.Name == "" {
		repo.Name = ref.Name
	}

	prompt := e.fit(func(text string) string { return repoPrompt(repo, text) }, readme)
	return e.complete(ctx, prompt), nil
}

// LatestIssue summarizes the first open issue in GitHub's default order.
func (e *Engine) LatestIssue(ctx context.Context, ref models.RepoRef) (string, error) {
	ctx, span := e.tracer.Start(ctx, "summarize.latest_issue", trace.WithAttributes(attribute.String("repo", ref.String())))
	defer span.End()

	issues, err := e.gh.ListOpenIssues(ctx, ref, 1)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, github.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", ref, ErrRepoNotFound)
		}
		return "", err
	}
	if len(issues) == 0 {
		return "", fmt.Errorf("%s: %w", ref, ErrNoIssues)
	}

	return e.thread(ctx, ref, issues[0])
}

// Issue summarizes one issue and its comment thread.
func (e *Engine) Issue(ctx context.Context, ref models.RepoRef, number int) (string, error) {
	ctx, span := e.tracer.Start(ctx, "summarize.issue", trace.WithAttributes(
		attribute.String("repo", ref.String()),
		attribute.Int("issue", number),
	))
	defer span.End()

	issue, err := e.gh.GetIssue(ctx, ref, number)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, github.ErrNotFound) {
			return "", fmt.Errorf("%s#%d: %w", ref, number, ErrIssueNotFound)
		}
		return "", err
	}

	return e.thread(ctx, ref, *issue)
}

func (e *Engine) thread(ctx context.Context, ref models.RepoRef, issue models.Issue) (string, error) {
	comments, err := e.gh.ListComments(ctx, ref, issue.Number)
	if err != nil {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	prompt := e.fit(issuePrompt, threadText(issue, comments))
	return e.complete(ctx, prompt), nil
}

// fit builds the prompt around text and, when it exceeds the token budget,
// truncates text (and only text) to what the rest of the prompt leaves over.
// Token merges across the join can still overshoot, so the rebuilt prompt is
// counted again and text shrinks by the overflow until it fits.
func (e *Engine) fit(build func(text string) string, text string) string {
	prompt := build(text)
	total := e.counter.Count(prompt)
	if total <= e.budget {
		return prompt
	}

	allowance := e.budget - e.counter.Count(build(""))
	e.log.Infow("trimming prompt to token budget", "tokens", total, "budget", e.budget, "allowance", allowance)
	for allowance > 0 {
		prompt = build(e.counter.Truncate(text, allowance))
		over := e.counter.Count(prompt) - e.budget
		if over <= 0 {
			return prompt
		}
		allowance -= over
	}
	return build("")
}

func (e *Engine) complete(ctx context.Context, prompt string) string {
	e.log.Debugw("sending summarization prompt", "chars", len(prompt))

	out, err := e.llm.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      prompt,
		MaxTokens:   maxOutputTokens,
		Temperature: temperature,
	})
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("llm.provider", e.llm.Name()))
	if err != nil {
		e.log.Warnw("summarization failed", "provider", e.llm.Name(), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return MsgFailed
	}
	if out == "" {
		e.log.Warnw("summarization returned empty text", "provider", e.llm.Name())
		span.SetStatus(codes.Error, "empty completion")
		return MsgFailed
	}

	n := utf8.RuneCountInString(out)
	span.SetAttributes(attribute.Int("summary.chars", n))
	if n > MaxSummaryChars {
		e.log.Infow("summary too long", "chars", n)
		return MsgTooLong
	}
	return out
}
