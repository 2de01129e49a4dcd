package posts_test

import (
	"reflect"
	"testing"
	"time"

	"go-portfolio/internal/model"
	"go-portfolio/internal/posts"
	"go-portfolio/internal/schema"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func entry(slug, date string, draft bool, category string, c model.Collection, tags ...string) model.PostEntry {
	return model.PostEntry{
		Slug: slug,
		Post: model.Post{
			Title:      slug,
			PubDate:    day(date),
			Draft:      draft,
			Category:   category,
			Collection: c,
			Tags:       tags,
		},
	}
}

func slugs(ps []model.PostEntry) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Slug)
	}
	return out
}

func fixture() []model.PostEntry {
	return []model.PostEntry{
		entry("a", "2024-01-01", false, "engineering", model.CollectionArticle, "go"),
		entry("b", "2023-06-01", false, "life", model.CollectionReflection, "notes"),
		entry("c", "2024-06-01", false, "engineering", model.CollectionTutorial, "go", "web"),
		entry("d", "2025-01-01", true, "secret", model.CollectionArticle, "draft-only"),
	}
}

func TestPublishedSorted(t *testing.T) {
	got := slugs(posts.PublishedSorted(fixture()[:3]))
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestPublishedSorted_StableTies(t *testing.T) {
	all := []model.PostEntry{
		entry("x", "2024-01-01", false, "c", model.CollectionArticle),
		entry("y", "2024-01-01", false, "c", model.CollectionArticle),
		entry("z", "2024-02-01", false, "c", model.CollectionArticle),
	}
	got := slugs(posts.PublishedSorted(all))
	if want := []string{"z", "x", "y"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestPublished_ExcludesDrafts(t *testing.T) {
	all := fixture()
	for _, p := range posts.Published(all) {
		if p.Draft {
			t.Fatalf("draft %s leaked", p.Slug)
		}
	}
	if posts.Count(all) != 3 {
		t.Fatalf("count=%d", posts.Count(all))
	}
	if got := posts.ByCategory(all, "secret"); len(got) != 0 {
		t.Fatalf("draft category leaked: %v", slugs(got))
	}
	if got := posts.ByTag(all, "draft-only"); len(got) != 0 {
		t.Fatalf("draft tag leaked: %v", slugs(got))
	}
}

func TestRecent(t *testing.T) {
	all := fixture()
	if got := slugs(posts.Recent(all, 2)); !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Fatalf("recent=%v", got)
	}
	if got := posts.Recent(all, 0); len(got) != 3 {
		t.Fatalf("default recent len=%d", len(got))
	}
}

func TestFilters(t *testing.T) {
	all := fixture()
	if got := slugs(posts.ByCategory(all, "engineering")); !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Fatalf("category=%v", got)
	}
	if got := slugs(posts.ByCollection(all, model.CollectionReflection)); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("collection=%v", got)
	}
	if got := slugs(posts.ByTag(all, "go")); !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Fatalf("tag=%v", got)
	}
	if got := posts.ByCategory(all, "Engineering"); len(got) != 0 {
		t.Fatalf("category match should be exact")
	}
}

func TestCategoriesAndTags(t *testing.T) {
	all := fixture()
	if got := posts.Categories(all); !reflect.DeepEqual(got, []string{"engineering", "life"}) {
		t.Fatalf("categories=%v", got)
	}
	if got := posts.Tags(all); !reflect.DeepEqual(got, []string{"go", "notes", "web"}) {
		t.Fatalf("tags=%v", got)
	}
}

func TestByYear(t *testing.T) {
	groups := posts.ByYear(fixture())
	if got := slugs(groups[2024]); !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Fatalf("2024=%v", got)
	}
	if got := slugs(groups[2023]); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("2023=%v", got)
	}
	if _, ok := groups[2025]; ok {
		t.Fatalf("draft year leaked")
	}
	if got := posts.Years(groups); !reflect.DeepEqual(got, []int{2024, 2023}) {
		t.Fatalf("years=%v", got)
	}
}

func TestDoesNotMutateInput(t *testing.T) {
	all := fixture()
	before := slugs(all)
	_ = posts.PublishedSorted(all)
	_ = posts.Query{Tag: "go", Limit: 1}.Apply(all)
	if after := slugs(all); !reflect.DeepEqual(before, after) {
		t.Fatalf("input mutated: %v -> %v", before, after)
	}
}

func TestQuery_Apply(t *testing.T) {
	all := fixture()
	got := slugs(posts.Query{Category: "engineering", Year: 2024, Limit: 1}.Apply(all))
	if !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("query=%v", got)
	}
	if got := (posts.Query{}).Apply(all); len(got) != 3 {
		t.Fatalf("empty query len=%d", len(got))
	}
}

func TestCategoryLabel(t *testing.T) {
	cases := map[string]string{
		"engineering":   "Engineering",
		"dev-ops":       "Dev Ops",
		"machine_learn": "Machine Learn",
	}
	for in, want := range cases {
		if got := posts.CategoryLabel(in); got != want {
			t.Errorf("CategoryLabel(%q)=%q want %q", in, got, want)
		}
	}
}

func TestAggregates_FromParsedFrontmatter(t *testing.T) {
	raws := []map[string]any{
		{"title": "A", "description": "a", "category": "engineering", "pubDate": "2024-01-01", "collection": "article", "tags": []any{"go", "web"}},
		{"title": "B", "description": "b", "category": "life", "pubDate": "2023-6-1", "collection": "reflection"},
		{"title": "C", "description": "c", "category": "hidden", "pubDate": "2025-01-01", "collection": "article", "tags": []any{"wip"}, "draft": true},
	}
	all := make([]model.PostEntry, 0, len(raws))
	for i, raw := range raws {
		p, err := schema.ParsePost(raw, schema.Defaults{})
		if err != nil {
			t.Fatalf("post %d: %v", i, err)
		}
		all = append(all, model.PostEntry{Post: p, Slug: p.Title})
	}
	if got := posts.Categories(all); !reflect.DeepEqual(got, []string{"engineering", "life"}) {
		t.Fatalf("categories=%v", got)
	}
	if got := posts.Tags(all); !reflect.DeepEqual(got, []string{"go", "web"}) {
		t.Fatalf("tags=%v", got)
	}
	if got := slugs(posts.PublishedSorted(all)); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("sorted=%v", got)
	}
}
