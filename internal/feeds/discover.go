// 包 feeds 负责外部订阅的发现、解析与正文抽取：
// - DiscoverFeed：基于常见路径与 HTML <link> 自动发现订阅
// - ParseFeed：使用 gofeed 解析 RSS/Atom/JSON Feed 并归一化
// - ExtractArticle：按 rules 预设从文章页抽取正文
package feeds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-portfolio/internal/fetch"
	"go-portfolio/internal/logx"
)

// 相对站点目录尝试（适配 https://host/blog 这类子路径站点）。
var dirCandidates = []string{"index.xml", "atom.xml", "rss.xml", "feed.xml", "feed"}

// 相对站点根尝试。
var rootCandidates = []string{
	"/feed", "/feed.xml", "/index.xml", "/atom.xml", "/rss.xml", "/rss",
	"/?feed=rss2", "/feed/atom", "/posts/index.xml", "/blog/index.xml",
	"/feed.json", "/index.json",
}

// DiscoverFeed 依次探测候选订阅地址，最后回退到解析站点首页的 <link rel=alternate>。
// feedSuffix 非空时最先尝试。
func DiscoverFeed(ctx context.Context, cl *fetch.Client, site, feedSuffix string) (string, error) {
	var candidates []string
	if feedSuffix != "" {
		candidates = append(candidates, joinURL(site, feedSuffix), joinURLDir(site, feedSuffix))
	}
	for _, c := range dirCandidates {
		candidates = append(candidates, joinURLDir(site, c))
	}
	for _, c := range rootCandidates {
		candidates = append(candidates, joinURL(site, c))
	}

	seen := map[string]bool{}
	for _, u := range candidates {
		if seen[u] {
			continue
		}
		seen[u] = true
		logx.Debugf("探测候选订阅：%s", u)
		if probeFeed(ctx, cl, u) {
			return u, nil
		}
	}

	b, err := cl.Fetch(ctx, site)
	if err != nil {
		return "", fmt.Errorf("GET site %s: %w", site, err)
	}
	if found := feedLink(site, b); found != "" && probeFeed(ctx, cl, found) {
		logx.Debugf("从 <link> 发现订阅：%s", found)
		return found, nil
	}
	return "", fmt.Errorf("no feed discovered for %s", site)
}

// feedLink 从 HTML 中找第一个声明为订阅的 <link>。
func feedLink(site string, html []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}
	var found string
	doc.Find("link[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel := strings.ToLower(s.AttrOr("rel", ""))
		typ := strings.ToLower(s.AttrOr("type", ""))
		href := s.AttrOr("href", "")
		if strings.Contains(rel, "alternate") && (strings.Contains(typ, "rss") || strings.Contains(typ, "atom") || strings.Contains(typ, "json")) {
			found = joinURL(site, href)
			return false
		}
		if typ == "" && hasFeedExt(href) {
			found = joinURL(site, href)
			return false
		}
		return true
	})
	return found
}

func hasFeedExt(href string) bool {
	h := strings.ToLower(href)
	for _, ext := range []string{".xml", ".rss", ".atom", ".json"} {
		if strings.HasSuffix(h, ext) {
			return true
		}
	}
	return false
}

// probeFeed 根据 Content-Type 与内容开头粗略判断 URL 是否为订阅。
func probeFeed(ctx context.Context, cl *fetch.Client, feedURL string) bool {
	prCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	resp, err := cl.Get(prCtx, feedURL)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	head, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return looksLikeFeed(resp.Header.Get("Content-Type"), head)
}

func looksLikeFeed(contentType string, head []byte) bool {
	ct := strings.ToLower(contentType)
	lb := bytes.ToLower(head)
	isJSONFeed := bytes.Contains(lb, []byte("jsonfeed.org/version"))
	switch {
	case strings.Contains(ct, "json"):
		return isJSONFeed
	case strings.Contains(ct, "rss"), strings.Contains(ct, "atom"), strings.Contains(ct, "xml"):
		return true
	}
	return bytes.Contains(lb, []byte("<rss")) || bytes.Contains(lb, []byte("<feed")) ||
		bytes.Contains(lb, []byte("<rdf")) || isJSONFeed
}

// joinURL 将 ref 相对 base 解析为绝对 URL。
func joinURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(base)
	if err != nil {
		return ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return u.ResolveReference(ru).String()
}

// joinURLDir 将 base 视为目录进行相对拼接（即便 base 不以 / 结尾）。
func joinURLDir(base, ref string) string {
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return joinURL(u.String(), strings.TrimPrefix(ref, "/"))
}
