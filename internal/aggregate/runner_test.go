package aggregate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-portfolio/internal/aggregate"
	"go-portfolio/internal/config"
	"go-portfolio/internal/content"
	"go-portfolio/internal/fetch"
	"go-portfolio/internal/rules"
	"go-portfolio/internal/schema"
)

const feedA = `<?xml version="1.0"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/"><channel>
<title>A</title><link>BASE</link>
<item><title>Hello World</title><link>BASE/p/1</link><description>Short</description>
  <content:encoded><![CDATA[<p>Hi <b>there</b></p>]]></content:encoded>
  <category>go</category><pubDate>Sat, 01 Jun 2024 10:00:00 GMT</pubDate></item>
<item><title>Page only</title><link>BASE/p/2</link><pubDate>Wed, 01 May 2024 10:00:00 GMT</pubDate></item>
<item><title>Already here</title><link>BASE/p/3</link><description>x</description><pubDate>Mon, 01 Apr 2024 10:00:00 GMT</pubDate></item>
<item><title>Undated</title><link>BASE/p/4</link><description>x</description></item>
</channel></rss>`

const feedB = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>B</title><link>BASE/b/</link>
<item><title>Hello World</title><link>BASE/p/1</link><description>dup</description><pubDate>Sat, 01 Jun 2024 10:00:00 GMT</pubDate></item>
<item><title>日本語</title><link>BASE/p/5</link><description><![CDATA[<p>Bonjour</p>]]></description><pubDate>Tue, 02 Jul 2024 10:00:00 GMT</pubDate></item>
</channel></rss>`

func server(t *testing.T) *httptest.Server {
	t.Helper()
	var base string
	mux := http.NewServeMux()
	serve := func(body, ct string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", ct)
			_, _ = w.Write([]byte(strings.ReplaceAll(body, "BASE", base)))
		}
	}
	mux.HandleFunc("/a.xml", serve(feedA, "application/rss+xml"))
	mux.HandleFunc("/b/feed.xml", serve(feedB, "application/rss+xml"))
	mux.HandleFunc("/p/2", serve(`<html><body><article><h1>Page only</h1><p>Extracted body text.</p></article></body></html>`, "text/html"))
	srv := httptest.NewServer(mux)
	base = srv.URL
	t.Cleanup(srv.Close)
	return srv
}

func setup(t *testing.T) (*config.Config, *fetch.Client, string) {
	t.Helper()
	srv := server(t)
	dir := t.TempDir()
	cfg := &config.Config{
		ContentDir: dir,
		Feeds: []config.FeedSource{
			{URL: srv.URL + "/a.xml", Theme: "default"},
			{Site: srv.URL + "/b/", FeedSuffix: "feed.xml", Category: "elsewhere", Tags: []string{"syndicated"}},
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	cl, err := fetch.New(fetch.Options{Timeout: 3 * time.Second, Backoff: time.Millisecond})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return cfg, cl, srv.URL
}

func byLink(results []aggregate.Result) map[string]aggregate.Result {
	m := map[string]aggregate.Result{}
	for _, r := range results {
		m[r.Link] = r
	}
	return m
}

func TestRunner_ImportsDrafts(t *testing.T) {
	cfg, cl, base := setup(t)
	run := aggregate.New(cfg, cl, rules.Builtin(), aggregate.Options{Known: []string{base + "/p/3"}})
	results, err := run.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("results=%d want 5: %+v", len(results), results)
	}
	got := byLink(results)
	for _, p := range []string{"/p/1", "/p/2", "/p/5"} {
		if got[base+p].Status != aggregate.StatusWritten {
			t.Errorf("%s status=%s err=%s", p, got[base+p].Status, got[base+p].Err)
		}
	}
	if got[base+"/p/3"].Status != aggregate.StatusKnown {
		t.Errorf("p/3 status=%s", got[base+"/p/3"].Status)
	}
	if got[base+"/p/4"].Status != aggregate.StatusFailed {
		t.Errorf("p/4 status=%s", got[base+"/p/4"].Status)
	}

	b, err := os.ReadFile(filepath.Join(cfg.ContentDir, "posts", "2024-page-only.md"))
	if err != nil {
		t.Fatalf("read extracted draft: %v", err)
	}
	if !strings.Contains(string(b), "Extracted body text.") || !strings.Contains(string(b), "draft: true") {
		t.Fatalf("draft=%s", b)
	}

	// 草稿必须能被内容仓库正常加载
	coll, err := content.Load(context.Background(), content.NewFSLoader(os.DirFS(cfg.ContentDir)), schema.Defaults{})
	if err != nil {
		t.Fatalf("load drafts: %v", err)
	}
	if len(coll.Posts) != 3 {
		t.Fatalf("posts=%d", len(coll.Posts))
	}
	for _, p := range coll.Posts {
		if !p.Draft || p.CanonicalURL == "" {
			t.Errorf("post %s should be a draft with canonicalUrl: %+v", p.Slug, p.Post)
		}
		if p.CanonicalURL == base+"/p/5" && (p.Category != "elsewhere" || len(p.Tags) != 1 || p.Description != "Bonjour") {
			t.Errorf("p/5 frontmatter=%+v", p.Post)
		}
		if p.Slug == "2024-hello-world" && (!strings.Contains(p.HTML, "<strong>there</strong>") && p.Description != "dup") {
			t.Errorf("hello html=%q", p.HTML)
		}
	}
}

func TestRunner_NeverOverwrites(t *testing.T) {
	cfg, cl, _ := setup(t)
	target := filepath.Join(cfg.ContentDir, "posts", "2024-page-only.md")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte("mine"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	results, err := aggregate.New(cfg, cl, rules.Builtin(), aggregate.Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var exists int
	for _, r := range results {
		if r.Status == aggregate.StatusExists {
			exists++
		}
	}
	if exists != 1 {
		t.Fatalf("exists=%d: %+v", exists, results)
	}
	if b, _ := os.ReadFile(target); string(b) != "mine" {
		t.Fatalf("file overwritten: %q", b)
	}
}

func TestRunner_DryRun(t *testing.T) {
	cfg, cl, _ := setup(t)
	results, err := aggregate.New(cfg, cl, rules.Builtin(), aggregate.Options{DryRun: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	planned := 0
	for _, r := range results {
		if r.Status == aggregate.StatusPlanned {
			planned++
			if !strings.HasSuffix(r.Path, ".md") {
				t.Errorf("path=%q", r.Path)
			}
		}
	}
	if planned != 4 {
		t.Fatalf("planned=%d: %+v", planned, results)
	}
	if _, err := os.Stat(filepath.Join(cfg.ContentDir, "posts")); !os.IsNotExist(err) {
		t.Fatalf("dry-run must not write")
	}
}

func TestRunner_FeedFailureIsIsolated(t *testing.T) {
	cfg, cl, base := setup(t)
	cfg.Feeds = append(cfg.Feeds, config.FeedSource{URL: base + "/missing.xml", Collection: "article"})
	results, err := aggregate.New(cfg, cl, rules.Builtin(), aggregate.Options{DryRun: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := byLink(results)
	if got[base+"/missing.xml"].Status != aggregate.StatusFailed {
		t.Fatalf("missing feed should fail: %+v", got[base+"/missing.xml"])
	}
	if got[base+"/p/1"].Status != aggregate.StatusPlanned {
		t.Fatalf("other feeds should still import: %+v", got[base+"/p/1"])
	}
}

func TestRunner_NoFeeds(t *testing.T) {
	cfg := config.Default()
	results, err := aggregate.New(cfg, nil, nil, aggregate.Options{}).Run(context.Background())
	if err != nil || len(results) != 0 {
		t.Fatalf("results=%v err=%v", results, err)
	}
}
