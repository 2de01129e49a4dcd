// 包 model 定义站点的数据模型：
// - 经历条目（任职/项目，见 work.go）
// - 博客文章 frontmatter（见 post.go）
// - 导出到 data.json 的视图结构
package model

import "time"

// Stats 为导出时的统计信息。
type Stats struct {
	WorkTotal      int       `json:"work_total"`
	PostsTotal     int       `json:"posts_total"`
	PostsPublished int       `json:"posts_published"`
	PostsDraft     int       `json:"posts_draft"`
	BuildID        string    `json:"build_id"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TechGroup 为同一分类下的技术名称。
type TechGroup struct {
	Type  TechnologyType `json:"type"`
	Names []string       `json:"names"`
}

// WorkView 为经历条目的展示视图：锚点、标题行、时间段与纯文本摘要。
// Images 中的相对路径已拼接 BaseURL。
type WorkView struct {
	ID         string         `json:"id"`
	Heading    string         `json:"heading"`
	Subheading string         `json:"subheading"`
	DateRange  string         `json:"date_range"`
	Summary    string         `json:"summary"`
	Stack      []TechGroup    `json:"stack"`
	Images     *ProjectImages `json:"images,omitempty"`
	Item       WorkItem       `json:"item"`
}

// PostView 为文章列表项。
type PostView struct {
	PostEntry
	Date    string `json:"date"`
	DateISO string `json:"date_iso"`
}

// Export 为 data.json 的顶层结构。YearOrder 为 Years 的键，倒序。
type Export struct {
	Stats      Stats            `json:"stats"`
	Work       []WorkView       `json:"work"`
	Posts      []PostView       `json:"posts"`
	Recent     []PostView       `json:"recent"`
	Categories []string         `json:"categories"`
	Tags       []string         `json:"tags"`
	Years      map[int][]string `json:"years"`
	YearOrder  []int            `json:"year_order"`
}
