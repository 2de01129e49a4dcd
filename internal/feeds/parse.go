package feeds

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"go-portfolio/internal/fetch"
)

// Item 为归一化后的订阅条目，Content/Summary 保留原始 HTML。
type Item struct {
	Title      string
	Link       string
	Author     string
	Summary    string
	Content    string
	Image      string
	Categories []string
	Published  time.Time
	Updated    time.Time
}

// Feed 为订阅元信息与条目。
type Feed struct {
	Title string
	Link  string
	Items []Item
}

// ParseFeed 抓取并解析订阅（最多返回 max 条，0 表示不限制）。
func ParseFeed(ctx context.Context, cl *fetch.Client, feedURL string, max int) (*Feed, error) {
	reqCtx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()
	// gofeed 不直接接收自定义 http.Client，先用自定义客户端抓取再交给 gofeed
	b, err := cl.Fetch(reqCtx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("GET feed %s: %w", feedURL, err)
	}
	return parseBytes(b, feedURL, max)
}

func parseBytes(b []byte, feedURL string, max int) (*Feed, error) {
	f, err := gofeed.NewParser().Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	out := &Feed{Title: strings.TrimSpace(f.Title), Link: f.Link}
	for _, it := range f.Items {
		link := strings.TrimSpace(it.Link)
		if link == "" {
			continue
		}
		out.Items = append(out.Items, Item{
			Title:      strings.TrimSpace(it.Title),
			Link:       joinURL(feedURL, link),
			Author:     authorName(it),
			Summary:    strings.TrimSpace(it.Description),
			Content:    strings.TrimSpace(it.Content),
			Image:      imageOf(it),
			Categories: it.Categories,
			Published:  pickTime(it.PublishedParsed, it.UpdatedParsed),
			Updated:    pickTime(it.UpdatedParsed, it.PublishedParsed),
		})
		if max > 0 && len(out.Items) >= max {
			break
		}
	}
	return out, nil
}

func pickTime(a, b *time.Time) time.Time {
	if a != nil {
		return *a
	}
	if b != nil {
		return *b
	}
	return time.Time{}
}

func authorName(it *gofeed.Item) string {
	if it.Author != nil {
		if it.Author.Name != "" {
			return it.Author.Name
		}
		return it.Author.Email
	}
	if len(it.Authors) > 0 && it.Authors[0] != nil {
		return it.Authors[0].Name
	}
	return ""
}

func imageOf(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	for _, e := range it.Enclosures {
		if e != nil && strings.HasPrefix(e.Type, "image/") {
			return e.URL
		}
	}
	return ""
}
