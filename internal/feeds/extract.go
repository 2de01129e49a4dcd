package feeds

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-portfolio/internal/fetch"
	"go-portfolio/internal/rules"
)

// Article 为从文章页抽取的结果，Content 为正文 HTML。
type Article struct {
	Title   string
	Image   string
	Content string
}

// ExtractArticle 抓取文章页并按预设选择器抽取正文。
// 选择器语法：
// - 文本：".title" 或 "."（取当前范围文本）
// - 属性："img@src"/"meta[property='og:image']@content"
// - 回退：使用 "||" 连接多个候选，按先后尝试
func ExtractArticle(ctx context.Context, cl *fetch.Client, pageURL string, preset rules.Preset) (*Article, error) {
	if preset.Article == nil {
		return nil, fmt.Errorf("preset has no article rules")
	}
	b, err := cl.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("GET article %s: %w", pageURL, err)
	}
	return extract(b, pageURL, preset.Article)
}

func extract(html []byte, pageURL string, r *rules.Article) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse article html: %w", err)
	}
	root := doc.Selection
	content := contentHTML(root, r.Content)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("no content matched %q in %s", r.Content, pageURL)
	}
	return &Article{
		Title:   getVal(root, r.Title),
		Image:   joinURL(pageURL, getVal(root, r.Image)),
		Content: content,
	}, nil
}

// contentHTML 返回第一个命中且非空的正文容器的内部 HTML，脚本与样式会被剔除。
func contentHTML(scope *goquery.Selection, expr string) string {
	for _, sel := range strings.Split(expr, "||") {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		el := scope.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		el.Find("script, style, noscript").Remove()
		h, err := el.Html()
		if err == nil && strings.TrimSpace(el.Text()) != "" {
			return strings.TrimSpace(h)
		}
	}
	return ""
}

// getVal 解析表达式并支持 "||" 回退，例如 "meta[property='og:title']@content||h1"。
func getVal(scope *goquery.Selection, expr string) string {
	for _, p := range strings.Split(expr, "||") {
		if v := getValSingle(scope, strings.TrimSpace(p)); v != "" {
			return v
		}
	}
	return ""
}

func getValSingle(scope *goquery.Selection, expr string) string {
	if expr == "" {
		return ""
	}
	if expr == "." {
		return strings.TrimSpace(scope.Text())
	}
	if at := strings.LastIndex(expr, "@"); at != -1 {
		sel := strings.TrimSpace(expr[:at])
		attr := strings.TrimSpace(expr[at+1:])
		el := scope
		if sel != "" {
			el = scope.Find(sel).First()
		}
		return strings.TrimSpace(el.AttrOr(attr, ""))
	}
	return strings.TrimSpace(scope.Find(expr).First().Text())
}
