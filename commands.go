package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"go-portfolio/internal/aggregate"
	"go-portfolio/internal/dates"
	"go-portfolio/internal/export"
	"go-portfolio/internal/fetch"
	"go-portfolio/internal/logx"
	"go-portfolio/internal/model"
	"go-portfolio/internal/posts"
	"go-portfolio/internal/rules"
	"go-portfolio/internal/schema"
	"go-portfolio/internal/work"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate all content",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := loadContent(cmd.Context())
		if err != nil {
			printIssues(err)
			return errors.New("content is invalid")
		}
		published := posts.Count(coll.Posts)
		fmt.Printf("work=%d posts=%d (published=%d drafts=%d)\n",
			len(coll.Work), len(coll.Posts), published, len(coll.Posts)-published)
		return nil
	},
}

// printIssues 逐条打印合并后的校验错误。
func printIssues(err error) {
	var errs []error
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	} else {
		errs = []error{err}
	}
	for _, e := range errs {
		var ve *schema.ValidationError
		if !errors.As(e, &ve) {
			fmt.Fprintln(os.Stderr, e)
			continue
		}
		fmt.Fprintf(os.Stderr, "%s (%s):\n", ve.Source, ve.Kind)
		for _, is := range ve.Issues {
			fmt.Fprintf(os.Stderr, "  - %s [%s] %s\n", is.Field, is.Constraint, is.Message)
		}
	}
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the site data file (data.json)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := loadContent(cmd.Context())
		if err != nil {
			printIssues(err)
			return errors.New("content is invalid")
		}
		out := exportOut
		if out == "" {
			out = cfg.ExportPath
		}
		data := export.Build(coll, export.Options{Recent: cfg.RecentPosts})
		if err := export.ToJSON(cmd.Context(), data, out); err != nil {
			return err
		}
		logx.Infof("已导出 %s：work=%d posts=%d", out, len(data.Work), len(data.Posts))
		return nil
	},
}

var postsQuery posts.Query
var postsCollection string

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List published posts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := loadContent(cmd.Context())
		if err != nil {
			printIssues(err)
			return errors.New("content is invalid")
		}
		q := postsQuery
		q.Collection = model.Collection(postsCollection)
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, p := range q.Apply(coll.Posts) {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", dates.FormatISO(p.PubDate), p.Slug, posts.CategoryLabel(p.Category), p.Title)
		}
		return tw.Flush()
	},
}

var workCmd = &cobra.Command{
	Use:   "work",
	Short: "Inspect work and project items",
}

var workListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print item ids and date ranges",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := loadContent(cmd.Context())
		if err != nil {
			printIssues(err)
			return errors.New("content is invalid")
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, it := range coll.Work {
			d := it.Info()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", work.ItemID(it), it.Kind(), dates.MonthYearRange(d.StartDate, d.EndDate, d.Current), it.Heading())
		}
		return tw.Flush()
	},
}

var workSummaryCmd = &cobra.Command{
	Use:   "summary <id>",
	Short: "Print the plain-text summary of one item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := loadContent(cmd.Context())
		if err != nil {
			printIssues(err)
			return errors.New("content is invalid")
		}
		it, ok := work.Find(coll.Work, args[0])
		if !ok {
			return fmt.Errorf("no work item with id %q", args[0])
		}
		fmt.Println(work.TextSummary(it))
		return nil
	},
}

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import posts from FEEDS as drafts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		coll, err := loadContent(ctx)
		if err != nil {
			printIssues(err)
			return errors.New("content is invalid")
		}
		known := make([]string, 0, len(coll.Posts))
		for _, p := range coll.Posts {
			known = append(known, p.CanonicalURL)
		}
		rl, err := rules.Load(rulesPath)
		if err != nil {
			return err
		}
		cl, err := fetch.New(fetch.Options{
			ProxyHTTP:  cfg.Proxy.HTTP,
			ProxyHTTPS: cfg.Proxy.HTTPS,
			Timeout:    25 * time.Second,
			Retry:      cfg.Concurrency.Retry,
		})
		if err != nil {
			return fmt.Errorf("http client: %w", err)
		}
		run := aggregate.New(cfg, cl, rl, aggregate.Options{
			DryRun:   importDryRun,
			Known:    known,
			Defaults: schemaDefaults(),
		})
		results, err := run.Run(ctx)
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, r := range results {
			detail := r.Path
			if r.Err != "" {
				detail = r.Err
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Status, r.Link, strings.TrimSpace(detail))
		}
		if ferr := tw.Flush(); ferr != nil && err == nil {
			err = ferr
		}
		return err
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default EXPORT_PATH)")

	postsCmd.Flags().StringVar(&postsQuery.Category, "category", "", "only posts in this category")
	postsCmd.Flags().StringVar(&postsQuery.Tag, "tag", "", "only posts with this tag")
	postsCmd.Flags().StringVar(&postsCollection, "collection", "", "only posts of this collection (tutorial|article|reflection)")
	postsCmd.Flags().IntVar(&postsQuery.Year, "year", 0, "only posts published in this year")
	postsCmd.Flags().IntVar(&postsQuery.Limit, "limit", 0, "maximum number of posts")

	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "report what would be written without touching files")

	workCmd.AddCommand(workListCmd, workSummaryCmd)
	rootCmd.AddCommand(validateCmd, exportCmd, postsCmd, workCmd, importCmd)
}
