// Package publish creates posts on the scheduling service, one at a time.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"snsdedupe/internal/lateclient"
	"snsdedupe/internal/logging"
	"snsdedupe/internal/metrics"
	"snsdedupe/internal/model"
	"snsdedupe/internal/platform"
	"snsdedupe/internal/schedule"
	"snsdedupe/internal/store/journal"
	"snsdedupe/internal/util"
)

// DefaultTimezone is sent with every create request unless overridden.
const DefaultTimezone = "Asia/Tokyo"

const previewRunes = 50

// ErrNoAccounts is an item failure: none of the requested platforms has a
// connected account.
var ErrNoAccounts = errors.New("no connected accounts found for requested platforms")

// ErrMissingContent is an item failure for a batch entry without content.
var ErrMissingContent = errors.New("missing content")

// Client is the slice of the API client the publisher needs.
type Client interface {
	ListAccounts(ctx context.Context) ([]model.Account, error)
	CreatePost(ctx context.Context, req model.CreatePostRequest) (model.CreatedPost, error)
}

// Recorder receives an event per created or failed post.
type Recorder interface {
	Record(ctx context.Context, typ string, payload any)
}

type Options struct {
	Timezone string
	DryRun   bool
	// Out receives progress and dry-run previews; ErrOut receives item
	// errors and warnings.
	Out    io.Writer
	ErrOut io.Writer
	// DefaultPlatforms apply to batch items that name none.
	DefaultPlatforms []string
	Journal          Recorder
}

// Item is one post ready to send. A nil At publishes immediately.
type Item struct {
	Content   string
	Platforms []platform.Platform
	At        *time.Time
}

// Outcome is the result of one Publish call.
type Outcome struct {
	Index   int
	OK      bool
	Post    *model.CreatedPost
	Missing []platform.Platform
	Err     error
}

// Summary counts batch outcomes.
type Summary struct {
	Success int
	Failed  int
}

type Publisher struct {
	client   Client
	opts     Options
	accounts []model.Account
	loaded   bool
}

func New(client Client, opts Options) *Publisher {
	if opts.Timezone == "" {
		opts.Timezone = DefaultTimezone
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.ErrOut == nil {
		opts.ErrOut = io.Discard
	}
	if len(opts.DefaultPlatforms) == 0 {
		opts.DefaultPlatforms = []string{platform.All}
	}
	return &Publisher{client: client, opts: opts}
}

// Accounts fetches connected accounts once per Publisher.
func (p *Publisher) Accounts(ctx context.Context) ([]model.Account, error) {
	if p.loaded {
		return p.accounts, nil
	}
	accts, err := p.client.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	p.accounts = accts
	p.loaded = true
	return accts, nil
}

func prefix(index int) string {
	if index < 0 {
		return ""
	}
	return fmt.Sprintf("[%d] ", index+1)
}

// targets maps platforms to the first connected account for each.
func targets(accounts []model.Account, wanted []platform.Platform) ([]model.PlatformTarget, []platform.Platform) {
	var found []model.PlatformTarget
	var missing []platform.Platform
	for _, w := range wanted {
		matched := false
		for _, a := range accounts {
			if platform.Normalize(a.Platform) == string(w) {
				found = append(found, model.PlatformTarget{Platform: w.APIName(), AccountID: a.ID})
				matched = true
				break
			}
		}
		if !matched {
			missing = append(missing, w)
		}
	}
	return found, missing
}

// Publish sends one item. Item-level problems land in Outcome.Err; the
// returned error is reserved for failures that should stop the run.
// index < 0 marks single-post mode and drops the "[n] " prefix.
func (p *Publisher) Publish(ctx context.Context, item Item, index int) (Outcome, error) {
	pre := prefix(index)
	out := Outcome{Index: index}
	accounts, err := p.Accounts(ctx)
	if err != nil {
		return out, err
	}

	found, missing := targets(accounts, item.Platforms)
	out.Missing = missing
	if len(found) == 0 {
		available := make([]string, 0, len(accounts))
		for _, a := range accounts {
			available = append(available, a.Platform)
		}
		fmt.Fprintf(p.opts.ErrOut, "%sError: %s\n", pre, ErrNoAccounts)
		fmt.Fprintf(p.opts.ErrOut, "%sRequested: %s\n", pre, joinPlatforms(item.Platforms))
		fmt.Fprintf(p.opts.ErrOut, "%sAvailable: %s\n", pre, strings.Join(available, ", "))
		return p.fail(ctx, out, ErrNoAccounts), nil
	}
	if len(missing) > 0 {
		fmt.Fprintf(p.opts.ErrOut, "%sWarning: No account connected for: %s\n", pre, joinPlatforms(missing))
		logging.Warn("publish_missing_accounts", map[string]any{"index": index, "missing": joinPlatforms(missing)})
	}

	if p.opts.DryRun {
		p.preview(pre, item, found)
		metrics.IncPost("dry_run")
		out.OK = true
		return out, nil
	}

	req := model.CreatePostRequest{Content: item.Content, Platforms: found, Timezone: p.opts.Timezone}
	if item.At != nil {
		req.ScheduledFor = item.At.UTC().Format(time.RFC3339)
	} else {
		req.PublishNow = true
	}
	created, err := p.client.CreatePost(ctx, req)
	if err != nil {
		fmt.Fprintf(p.opts.ErrOut, "%sError: %v\n", pre, err)
		return p.fail(ctx, out, err), nil
	}
	out.OK = true
	out.Post = &created
	metrics.IncPost("success")
	p.record(ctx, journal.TypeCreated, map[string]any{"id": created.ID, "status": created.Status, "scheduledFor": created.ScheduledFor})
	p.report(pre, created)
	return out, nil
}

func (p *Publisher) fail(ctx context.Context, out Outcome, err error) Outcome {
	out.OK = false
	out.Err = err
	metrics.IncPost("failed")
	fields := map[string]any{"index": out.Index, "error": err.Error()}
	if lateclient.IsAPIError(err) {
		fields["source"] = "api"
	}
	logging.Error("publish_item_failed", fields)
	p.record(ctx, journal.TypeFailed, map[string]any{"index": out.Index, "error": err.Error()})
	return out
}

func (p *Publisher) record(ctx context.Context, typ string, payload map[string]any) {
	if p.opts.Journal == nil || p.opts.DryRun {
		return
	}
	p.opts.Journal.Record(ctx, typ, payload)
}

func (p *Publisher) preview(pre string, item Item, found []model.PlatformTarget) {
	w := p.opts.Out
	names := make([]string, 0, len(found))
	for _, t := range found {
		names = append(names, t.Platform)
	}
	fmt.Fprintf(w, "%s=== DRY RUN ===\n", pre)
	fmt.Fprintf(w, "%sContent (%d chars): %s\n", pre, util.CharCount(item.Content), util.Preview(item.Content, previewRunes))
	fmt.Fprintf(w, "%sPlatforms: %s\n", pre, strings.Join(names, ", "))
	if item.At != nil {
		fmt.Fprintf(w, "%sScheduled: %s\n", pre, schedule.FormatLocal(*item.At))
	} else {
		fmt.Fprintf(w, "%sWould post immediately\n", pre)
	}
	fmt.Fprintln(w)
}

func (p *Publisher) report(pre string, created model.CreatedPost) {
	w := p.opts.Out
	fmt.Fprintf(w, "%sPost created (ID: %s)\n", pre, created.ID)
	fmt.Fprintf(w, "%s   Status: %s\n", pre, created.Status)
	if created.ScheduledFor != "" {
		if t, err := schedule.ParseInstant(created.ScheduledFor); err == nil {
			fmt.Fprintf(w, "%s   Scheduled: %s\n", pre, schedule.FormatLocal(t))
		}
	}
	parts := make([]string, 0, len(created.Platforms))
	for _, ps := range created.Platforms {
		parts = append(parts, fmt.Sprintf("%s(%s)", ps.Platform, ps.Status))
	}
	fmt.Fprintf(w, "%s   Platforms: %s\n", pre, strings.Join(parts, ", "))
	fmt.Fprintln(w)
}

func joinPlatforms(ps []platform.Platform) string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
