package model

import "time"

// DefaultAuthor 为 author 缺省时的署名。
const DefaultAuthor = "Ryan Robinson"

// Collection 为文章的体裁。
type Collection string

const (
	CollectionTutorial   Collection = "tutorial"
	CollectionArticle    Collection = "article"
	CollectionReflection Collection = "reflection"
)

// Card 为社交卡片类型。
type Card string

const (
	CardSummary      Card = "summary"
	CardSummaryLarge Card = "summary_large_image"
)

// Social 为分享卡片的元信息，缺省字段由站点配置回填。
type Social struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Card        Card   `json:"card"`
}

// Post 为博客文章的 frontmatter。PubDate 是唯一的排序键。
type Post struct {
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle,omitempty"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Author       string     `json:"author"`
	Draft        bool       `json:"draft"`
	PubDate      time.Time  `json:"pubDate"`
	Collection   Collection `json:"collection"`
	Tags         []string   `json:"tags"`
	Social       *Social    `json:"social,omitempty"`
	Image        string     `json:"image,omitempty"`
	Layout       string     `json:"layout,omitempty"`
	CanonicalURL string     `json:"canonicalUrl,omitempty"`
}

// PostEntry 将 frontmatter 与内容源提供的 slug/url/正文关联起来。
type PostEntry struct {
	Post
	Slug   string `json:"slug"`
	URL    string `json:"url"`
	Source string `json:"-"`
	HTML   string `json:"-"`
}
