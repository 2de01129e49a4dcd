// 包 work 提供经历条目的派生视图：锚点 id 与剪贴板文本摘要。
// 输入均为已通过 schema 校验的条目，函数都是纯函数。
package work

import (
	"strings"

	"github.com/google/uuid"

	"go-portfolio/internal/dates"
	"go-portfolio/internal/model"
	"go-portfolio/internal/slug"
)

const unknownCompany = "unknown"

// ItemID 由 公司（缺省 unknown）+ 标题 生成可作为 HTML id / URL 片段的标识。
// 重音字符先折叠为 ASCII（é → e），其余非 [a-z0-9] 的连续字符替换为单个连字符。
// 公司与标题都没有可用字符时（例如全为中文）退化为 unknown-<哈希前缀>，结果不为空且对同一输入稳定。
func ItemID(item model.WorkItem) string {
	company := item.CompanyName()
	if company == "" {
		company = unknownCompany
	}
	title := item.Info().Title
	if id := slug.Make(company + "-" + title); id != "" {
		return id
	}
	h := uuid.NewSHA1(uuid.NameSpaceOID, []byte(company+"\x00"+title))
	return unknownCompany + "-" + h.String()[:8]
}

// TextSummary 渲染为纯文本/markdown 摘要，段落之间空一行：
// 标题、副标题（含地点）、时间段、描述、要点、技术、GitHub 链接。
func TextSummary(item model.WorkItem) string {
	d := item.Info()
	sections := []string{item.Heading()}

	sub := item.Subheading()
	if d.Location != "" {
		sub += " • " + d.Location
	}
	sections = append(sections, sub, dates.MonthYearRange(d.StartDate, d.EndDate, d.Current))

	if d.Description != "" {
		sections = append(sections, d.Description)
	}
	if len(d.Highlights) > 0 {
		var b strings.Builder
		b.WriteString("Key Highlights:")
		for _, h := range d.Highlights {
			b.WriteString("\n- ")
			b.WriteString(h)
		}
		sections = append(sections, b.String())
	}
	if len(d.Technologies) > 0 {
		names := make([]string, 0, len(d.Technologies))
		for _, t := range d.Technologies {
			names = append(names, "("+t.Name+")")
		}
		sections = append(sections, "🛠️ "+strings.Join(names, " "))
	}
	if d.GithubURL != "" {
		sections = append(sections, "🔗 "+d.GithubURL)
	}
	return strings.Join(sections, "\n\n")
}

// Find 按 ItemID 查找条目。
func Find(items []model.WorkItem, id string) (model.WorkItem, bool) {
	for _, it := range items {
		if ItemID(it) == id {
			return it, true
		}
	}
	return nil, false
}

// Stack 将关键技术按分类分组，分组顺序同 model.TechnologyTypes，组内保持原顺序；空分类不输出。
func Stack(item model.WorkItem) []model.TechGroup {
	byType := map[model.TechnologyType][]string{}
	for _, t := range item.Info().Technologies {
		typ := t.Type
		if typ == "" {
			typ = model.TechOther
		}
		byType[typ] = append(byType[typ], t.Name)
	}
	out := make([]model.TechGroup, 0, len(byType))
	for _, typ := range model.TechnologyTypes {
		if names := byType[typ]; len(names) > 0 {
			out = append(out, model.TechGroup{Type: typ, Names: names})
		}
	}
	return out
}

// Images 返回图片集合的副本，相对路径已拼接 BaseURL；没有图片时为 nil。
func Images(item model.WorkItem) *model.ProjectImages {
	src := item.Info().Images
	if src == nil {
		return nil
	}
	out := model.ProjectImages{BaseURL: src.BaseURL}
	if src.Logo != nil {
		logo := src.Resolve(*src.Logo)
		out.Logo = &logo
	}
	if src.Primary != nil {
		primary := src.Resolve(*src.Primary)
		out.Primary = &primary
	}
	out.Showcase = make([]model.ProjectImage, 0, len(src.Showcase))
	for _, img := range src.Showcase {
		out.Showcase = append(out.Showcase, src.Resolve(img))
	}
	return &out
}
