package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"snsdedupe/internal/cmdlog"
	"snsdedupe/internal/model"
	"snsdedupe/internal/platform"
	"snsdedupe/internal/publish"
	"snsdedupe/internal/store/journal"
)

type postFlags struct {
	text      string
	file      string
	json      string
	schedule  string
	platforms string
	dryRun    bool
}

func newPostCmd(o *rootOptions) *cobra.Command {
	f := &postFlags{}
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create one post, or a batch from a JSON file",
		Long: "Single mode takes --text or --file. Batch mode takes --json, an array of\n" +
			"{content, schedule?, platforms?}; a failing item does not stop the rest.\n" +
			"Schedules are \"YYYY-MM-DD HH:MM\" (UTC+9) or ISO 8601; without one the post goes out now.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("platforms") && len(o.cfg.Post.DefaultPlatforms) > 0 {
				f.platforms = strings.Join(o.cfg.Post.DefaultPlatforms, ",")
			}
			return cmdlog.Run("post", func() error {
				return runPost(cmd.Context(), o, f, cmd.OutOrStdout(), cmd.ErrOrStderr())
			})
		},
	}
	cmd.Flags().StringVarP(&f.text, "text", "t", "", "post content")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read post content from a file")
	cmd.Flags().StringVarP(&f.json, "json", "j", "", "batch file: JSON array of posts")
	cmd.Flags().StringVarP(&f.schedule, "schedule", "s", "", "when to publish (default: now)")
	cmd.Flags().StringVarP(&f.platforms, "platforms", "p", platform.All, "comma separated platforms, or all")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "preview without creating anything")
	return cmd
}

func runPost(ctx context.Context, o *rootOptions, f *postFlags, stdout, stderr io.Writer) error {
	if f.json != "" {
		return runPostBatch(ctx, o, f, stdout, stderr)
	}

	var content string
	switch {
	case f.file != "":
		b, err := os.ReadFile(f.file)
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file not found: %s", f.file)
		}
		if err != nil {
			return err
		}
		content = strings.TrimSpace(string(b))
	case f.text != "":
		content = f.text
	default:
		return errors.New("provide --text, --file, or --json")
	}

	platforms, err := platform.ParseList(platform.SplitList(f.platforms))
	if err != nil {
		return err
	}
	at, err := publish.At(f.schedule)
	if err != nil {
		return err
	}
	if err := o.cfg.RequireAPIKey(); err != nil {
		return err
	}

	p, closeJournal := o.publisher(f.dryRun, stdout, stderr)
	defer closeJournal()
	out, err := p.Publish(ctx, publish.Item{Content: content, Platforms: platforms, At: at}, -1)
	if err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("post not created: %w", out.Err)
	}
	return nil
}

func runPostBatch(ctx context.Context, o *rootOptions, f *postFlags, stdout, stderr io.Writer) error {
	entries, err := model.LoadCandidates(f.json)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("JSON file not found: %s", f.json)
	}
	if err != nil {
		return err
	}
	if err := o.cfg.RequireAPIKey(); err != nil {
		return err
	}

	p, closeJournal := o.publisher(f.dryRun, stdout, stderr)
	defer closeJournal()
	sum, err := p.PublishBatch(ctx, entries)
	if err != nil {
		return err
	}
	publish.WriteSummary(stdout, sum)
	return nil
}

// publisher builds a Publisher for this run; the returned func releases the
// journal if one was opened.
func (o *rootOptions) publisher(dryRun bool, stdout, stderr io.Writer) (*publish.Publisher, func()) {
	opts := publish.Options{
		Timezone:         o.cfg.Post.Timezone,
		DryRun:           dryRun,
		Out:              stdout,
		ErrOut:           stderr,
		DefaultPlatforms: o.cfg.Post.DefaultPlatforms,
	}
	var db *journal.DB
	if !dryRun {
		db = o.openJournal()
	}
	if db != nil {
		opts.Journal = db
	}
	return publish.New(o.client(), opts), func() {
		if db != nil {
			_ = db.Close()
		}
	}
}
