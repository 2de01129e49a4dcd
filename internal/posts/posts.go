// 包 posts 提供文章列表的只读派生：过滤草稿、按发布日期倒序、分类/标签/年份聚合。
// 所有函数都不修改传入的切片，返回新分配的结果，可并发调用。
package posts

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"go-portfolio/internal/model"
)

// DefaultRecent 为 Recent 未指定数量时的条数。
const DefaultRecent = 3

// Published 返回非草稿文章，保持原有顺序。
func Published(all []model.PostEntry) []model.PostEntry {
	out := make([]model.PostEntry, 0, len(all))
	for _, p := range all {
		if !p.Draft {
			out = append(out, p)
		}
	}
	return out
}

// PublishedSorted 按 pubDate 倒序；同一时间的文章保持原集合顺序。
func PublishedSorted(all []model.PostEntry) []model.PostEntry {
	return sortDesc(Published(all))
}

func sortDesc(ps []model.PostEntry) []model.PostEntry {
	slices.SortStableFunc(ps, func(a, b model.PostEntry) int {
		return b.PubDate.Compare(a.PubDate)
	})
	return ps
}

// Recent 返回最新的 n 篇；n <= 0 时取 DefaultRecent。
func Recent(all []model.PostEntry, n int) []model.PostEntry {
	if n <= 0 {
		n = DefaultRecent
	}
	s := PublishedSorted(all)
	if len(s) > n {
		s = s[:n]
	}
	return s
}

func filter(all []model.PostEntry, keep func(model.PostEntry) bool) []model.PostEntry {
	out := make([]model.PostEntry, 0)
	for _, p := range all {
		if !p.Draft && keep(p) {
			out = append(out, p)
		}
	}
	return sortDesc(out)
}

// ByCategory 精确匹配分类（区分大小写）。
func ByCategory(all []model.PostEntry, category string) []model.PostEntry {
	return filter(all, func(p model.PostEntry) bool { return p.Category == category })
}

func ByCollection(all []model.PostEntry, c model.Collection) []model.PostEntry {
	return filter(all, func(p model.PostEntry) bool { return p.Collection == c })
}

func ByTag(all []model.PostEntry, tag string) []model.PostEntry {
	return filter(all, func(p model.PostEntry) bool { return slices.Contains(p.Tags, tag) })
}

// Categories 返回已发布文章中出现过的分类，去重后按字典序排列。
func Categories(all []model.PostEntry) []string {
	set := map[string]struct{}{}
	for _, p := range Published(all) {
		set[p.Category] = struct{}{}
	}
	return sortedKeys(set)
}

// Tags 返回已发布文章的标签并集，去重后按字典序排列。
func Tags(all []model.PostEntry) []string {
	set := map[string]struct{}{}
	for _, p := range Published(all) {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ByYear 按发布年份（UTC）分组，组内顺序与 PublishedSorted 一致。
func ByYear(all []model.PostEntry) map[int][]model.PostEntry {
	out := map[int][]model.PostEntry{}
	for _, p := range PublishedSorted(all) {
		y := p.PubDate.UTC().Year()
		out[y] = append(out[y], p)
	}
	return out
}

// Years 返回 ByYear 的键，倒序。
func Years(groups map[int][]model.PostEntry) []int {
	ys := make([]int, 0, len(groups))
	for y := range groups {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))
	return ys
}

// Count 为已发布文章数。
func Count(all []model.PostEntry) int {
	n := 0
	for _, p := range all {
		if !p.Draft {
			n++
		}
	}
	return n
}

// CategoryLabel 将 slug 形式的分类转为展示标题，例如 dev-ops → Dev Ops。
func CategoryLabel(category string) string {
	words := strings.FieldsFunc(category, func(r rune) bool { return r == '-' || r == '_' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Query 为列表页常用的组合过滤条件，空值表示不过滤。
type Query struct {
	Category   string
	Tag        string
	Collection model.Collection
	Year       int
	Limit      int
}

// Apply 依次应用各条件，结果按发布日期倒序。
func (q Query) Apply(all []model.PostEntry) []model.PostEntry {
	out := PublishedSorted(all)
	out = slices.DeleteFunc(out, func(p model.PostEntry) bool {
		switch {
		case q.Category != "" && p.Category != q.Category:
			return true
		case q.Tag != "" && !slices.Contains(p.Tags, q.Tag):
			return true
		case q.Collection != "" && p.Collection != q.Collection:
			return true
		case q.Year != 0 && p.PubDate.UTC().Year() != q.Year:
			return true
		}
		return false
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}
