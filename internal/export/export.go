// 包 export 负责站点导出：将校验后的内容集合整理为 data.json。
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"go-portfolio/internal/content"
	"go-portfolio/internal/dates"
	"go-portfolio/internal/model"
	"go-portfolio/internal/posts"
	"go-portfolio/internal/work"
)

// Options 控制导出内容。Recent 为首页最新文章条数；MaxPosts 为文章列表上限，0 表示不限。
type Options struct {
	Recent   int
	MaxPosts int
	Now      func() time.Time
}

// Build 由内容集合生成导出结构。文章只包含已发布的，按发布日期倒序。
func Build(coll *content.Collection, opts Options) model.Export {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	views := make([]model.WorkView, 0, len(coll.Work))
	for _, it := range coll.Work {
		d := it.Info()
		views = append(views, model.WorkView{
			ID:         work.ItemID(it),
			Heading:    it.Heading(),
			Subheading: it.Subheading(),
			DateRange:  dates.MonthYearRange(d.StartDate, d.EndDate, d.Current),
			Summary:    work.TextSummary(it),
			Stack:      work.Stack(it),
			Images:     work.Images(it),
			Item:       it,
		})
	}

	sorted := posts.PublishedSorted(coll.Posts)
	if opts.MaxPosts > 0 && len(sorted) > opts.MaxPosts {
		sorted = sorted[:opts.MaxPosts]
	}
	postViews := make([]model.PostView, 0, len(sorted))
	for _, p := range sorted {
		postViews = append(postViews, postView(p))
	}
	recent := make([]model.PostView, 0, opts.Recent)
	for _, p := range posts.Recent(coll.Posts, opts.Recent) {
		recent = append(recent, postView(p))
	}

	groups := posts.ByYear(coll.Posts)
	years := make(map[int][]string, len(groups))
	for y, ps := range groups {
		for _, p := range ps {
			years[y] = append(years[y], p.Slug)
		}
	}

	published := posts.Count(coll.Posts)
	return model.Export{
		Stats: model.Stats{
			WorkTotal:      len(coll.Work),
			PostsTotal:     len(coll.Posts),
			PostsPublished: published,
			PostsDraft:     len(coll.Posts) - published,
			BuildID:        uuid.NewString(),
			UpdatedAt:      now(),
		},
		Work:       views,
		Posts:      postViews,
		Recent:     recent,
		Categories: posts.Categories(coll.Posts),
		Tags:       posts.Tags(coll.Posts),
		Years:      years,
		YearOrder:  posts.Years(groups),
	}
}

func postView(p model.PostEntry) model.PostView {
	return model.PostView{
		PostEntry: p,
		Date:      dates.FormatLong(p.PubDate),
		DateISO:   dates.FormatISO(p.PubDate),
	}
}

// ToJSON 将导出结构写入 JSON 文件（带缩进格式）。先写临时文件再重命名，避免留下半截文件。
func ToJSON(ctx context.Context, data model.Export, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode json to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
