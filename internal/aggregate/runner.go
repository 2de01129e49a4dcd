// 包 aggregate 负责订阅导入的主流程编排：
// - 并发发现订阅并解析条目
// - 条目无正文时按 rules 预设抓取文章页
// - 转为 markdown 草稿，经 schema 校验后写入 posts 目录（从不覆盖）
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"go-portfolio/internal/config"
	"go-portfolio/internal/feeds"
	"go-portfolio/internal/fetch"
	"go-portfolio/internal/logx"
	"go-portfolio/internal/rules"
	"go-portfolio/internal/schema"
	"go-portfolio/internal/slug"
)

// DefaultCategory 为订阅与条目都没有分类时使用的分类。
const DefaultCategory = "imported"

const (
	maxDescription = 160
	maxSlug        = 60
)

type Status string

const (
	StatusPending Status = "pending"
	StatusWritten Status = "written"
	StatusPlanned Status = "planned" // dry-run 下将会写入
	StatusKnown   Status = "known"   // canonicalUrl 已存在于内容中
	StatusExists  Status = "exists"  // 目标文件已存在
	StatusFailed  Status = "failed"
)

// Result 为单个条目的导入结果。订阅本身失败时 Link 为订阅来源地址。
type Result struct {
	Feed    string    `json:"feed"`
	Link    string    `json:"link"`
	Title   string    `json:"title"`
	PubDate time.Time `json:"pub_date"`
	Path    string    `json:"path,omitempty"`
	Status  Status    `json:"status"`
	Err     string    `json:"error,omitempty"`
}

type Options struct {
	DryRun bool
	// Known 为内容中已有的 canonicalUrl，这些链接不会重复导入。
	Known    []string
	Defaults schema.Defaults
}

// Runner 导入执行器，持有配置/HTTP 客户端/规则。
type Runner struct {
	cfg   *config.Config
	rules *rules.Rules
	fetch *fetch.Client
	conv  *md.Converter
	opts  Options
	known map[string]bool
	buf   *ResultBuffer
}

func New(cfg *config.Config, cl *fetch.Client, rl *rules.Rules, opts Options) *Runner {
	known := make(map[string]bool, len(opts.Known))
	for _, k := range opts.Known {
		if k != "" {
			known[k] = true
		}
	}
	return &Runner{
		cfg:   cfg,
		rules: rl,
		fetch: cl,
		conv:  md.NewConverter("", true, nil),
		opts:  opts,
		known: known,
		buf:   NewResultBuffer(),
	}
}

// Run 执行一轮导入：发现订阅→解析条目→生成草稿→写入。
// 单个订阅或条目失败只记录在结果中，不中断其他来源。
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	if len(r.cfg.Feeds) == 0 {
		logx.Warnf("没有配置任何订阅来源（FEEDS）")
		return nil, nil
	}
	logx.Infof("订阅来源=%d，并发=%d，dry-run=%v", len(r.cfg.Feeds), r.cfg.Concurrency.Fetch, r.opts.DryRun)

	sem := make(chan struct{}, max(1, r.cfg.Concurrency.Fetch))
	var wg sync.WaitGroup
	for _, src := range r.cfg.Feeds {
		wg.Add(1)
		sem <- struct{}{}
		go func(src config.FeedSource) {
			defer wg.Done()
			defer func() { <-sem }()
			r.processFeed(ctx, src)
		}(src)
	}
	wg.Wait()

	results := r.buf.Snapshot()
	counts := map[Status]int{}
	for _, res := range results {
		counts[res.Status]++
	}
	logx.Infof("导入完成：写入=%d 计划=%d 已存在=%d 已导入=%d 失败=%d",
		counts[StatusWritten], counts[StatusPlanned], counts[StatusExists], counts[StatusKnown], counts[StatusFailed])
	return results, ctx.Err()
}

func (r *Runner) processFeed(ctx context.Context, src config.FeedSource) {
	origin := src.URL
	if origin == "" {
		origin = src.Site
	}
	host := hostOf(origin)

	feedURL := src.URL
	if feedURL == "" {
		u, err := feeds.DiscoverFeed(ctx, r.fetch, src.Site, src.FeedSuffix)
		if err != nil {
			logx.Warnf("[%s] 发现订阅失败：%v", host, err)
			r.buf.Add(Result{Feed: origin, Link: origin, Status: StatusFailed, Err: err.Error()})
			return
		}
		feedURL = u
	}
	feed, err := feeds.ParseFeed(ctx, r.fetch, feedURL, src.Limit)
	if err != nil {
		logx.Warnf("[%s] 解析订阅失败：%v", host, err)
		r.buf.Add(Result{Feed: feedURL, Link: origin, Status: StatusFailed, Err: err.Error()})
		return
	}
	logx.Infof("[%s] 订阅解析完成：%d 条", host, len(feed.Items))
	for _, it := range feed.Items {
		if ctx.Err() != nil {
			return
		}
		if strings.TrimSpace(it.Link) == "" {
			logx.Debugf("[%s] 跳过无链接条目：%s", host, it.Title)
			continue
		}
		if !r.buf.Claim(it.Link) {
			logx.Debugf("[%s] 条目已由其他订阅处理：%s", host, it.Link)
			continue
		}
		res := r.importItem(ctx, src, feedURL, it)
		if res.Status == StatusFailed {
			logx.Warnf("[%s] 导入失败：%s 错误=%s", host, it.Link, res.Err)
		} else {
			logx.Debugf("[%s] %s %s", host, res.Status, it.Link)
		}
		r.buf.Add(res)
	}
}

func (r *Runner) importItem(ctx context.Context, src config.FeedSource, feedURL string, it feeds.Item) Result {
	res := Result{Feed: feedURL, Link: it.Link, Title: it.Title, PubDate: it.Published}
	if r.known[it.Link] {
		res.Status = StatusKnown
		return res
	}
	d, err := r.buildDraft(ctx, src, it)
	if err != nil {
		res.Status, res.Err = StatusFailed, err.Error()
		return res
	}
	res.Title = d.Front.Title
	res.Path = filepath.Join(r.cfg.ContentDir, "posts", d.FileName())

	if r.opts.DryRun {
		res.Status = StatusPlanned
		if _, err := os.Stat(res.Path); err == nil {
			res.Status = StatusExists
		}
		return res
	}
	switch err := writeNew(res.Path, d.Bytes()); {
	case errors.Is(err, os.ErrExist):
		res.Status = StatusExists
	case err != nil:
		res.Status, res.Err = StatusFailed, err.Error()
	default:
		res.Status = StatusWritten
	}
	return res
}

// writeNew 只在文件不存在时创建。
func writeNew(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// FrontMatter 为草稿文件头，字段顺序即写出顺序。
type FrontMatter struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	PubDate      string   `yaml:"pubDate"`
	Category     string   `yaml:"category"`
	Collection   string   `yaml:"collection"`
	Tags         []string `yaml:"tags"`
	Author       string   `yaml:"author,omitempty"`
	Image        string   `yaml:"image,omitempty"`
	CanonicalURL string   `yaml:"canonicalUrl"`
	Draft        bool     `yaml:"draft"`
}

// Draft 为待写入的文章草稿。
type Draft struct {
	Front     FrontMatter
	Published time.Time
	Body      string
	yaml      []byte
}

// FileName 为 <年份>-<slug>.md；标题无法生成 slug 时用链接的短哈希。
func (d *Draft) FileName() string {
	s := slug.Truncate(slug.Make(d.Front.Title), maxSlug)
	if s == "" {
		s = uuid.NewSHA1(uuid.NameSpaceURL, []byte(d.Front.CanonicalURL)).String()[:8]
	}
	return fmt.Sprintf("%d-%s.md", d.Published.UTC().Year(), s)
}

func (d *Draft) Bytes() []byte {
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(d.yaml)
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimSpace(d.Body))
	b.WriteString("\n")
	return []byte(b.String())
}

func (r *Runner) buildDraft(ctx context.Context, src config.FeedSource, it feeds.Item) (*Draft, error) {
	if it.Published.IsZero() {
		return nil, errors.New("item has no publish date")
	}
	html, image, title := it.Content, it.Image, it.Title
	if strings.TrimSpace(html) == "" {
		if preset, ok := r.rules.GetPreset(src.Theme); ok && preset.Article != nil {
			art, err := feeds.ExtractArticle(ctx, r.fetch, it.Link, preset)
			if err != nil {
				logx.Debugf("抽取正文失败：%s 错误=%v", it.Link, err)
			} else {
				html = art.Content
				if image == "" {
					image = art.Image
				}
				if title == "" {
					title = art.Title
				}
			}
		}
	}
	if strings.TrimSpace(html) == "" {
		html = it.Summary
	}
	if strings.TrimSpace(html) == "" {
		return nil, errors.New("item has no content")
	}
	if title == "" {
		title = it.Link
	}
	body, err := r.conv.ConvertString(html)
	if err != nil {
		return nil, fmt.Errorf("convert html: %w", err)
	}

	category := src.Category
	if category == "" && len(it.Categories) > 0 {
		category = strings.TrimSpace(it.Categories[0])
	}
	if category == "" {
		category = DefaultCategory
	}
	tags := append([]string{}, src.Tags...)

	d := &Draft{
		Published: it.Published,
		Body:      body,
		Front: FrontMatter{
			Title:        title,
			Description:  describe(it.Summary, html),
			PubDate:      it.Published.UTC().Format(time.RFC3339),
			Category:     category,
			Collection:   src.Collection,
			Tags:         tags,
			Author:       it.Author,
			Image:        image,
			CanonicalURL: it.Link,
			Draft:        true,
		},
	}
	if d.yaml, err = yaml.Marshal(d.Front); err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}
	// 以写出的 YAML 回读校验，保证草稿能被内容仓库加载
	raw := map[string]any{}
	if err := yaml.Unmarshal(d.yaml, &raw); err != nil {
		return nil, fmt.Errorf("reparse frontmatter: %w", err)
	}
	if _, err := schema.ParsePost(raw, r.opts.Defaults); err != nil {
		return nil, err
	}
	return d, nil
}

// describe 取摘要的纯文本；没有摘要时取正文第一段。超长时按字符截断。
func describe(summary, content string) string {
	text := plainText(summary, "")
	if text == "" {
		text = plainText(content, "p")
	}
	if text == "" {
		text = plainText(content, "")
	}
	if utf8.RuneCountInString(text) <= maxDescription {
		return text
	}
	rs := []rune(text)
	return strings.TrimSpace(string(rs[:maxDescription-1])) + "…"
}

func plainText(html, sel string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	s := doc.Selection
	if sel != "" {
		s = doc.Find(sel).First()
	}
	return strings.Join(strings.Fields(s.Text()), " ")
}

// hostOf 提取链接的主机名，失败时原样返回，便于日志定位。
func hostOf(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	return raw
}
