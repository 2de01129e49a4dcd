// 包 schema 在加载期校验原始内容记录并转换为强类型实体：
// - 经历条目 → model.Employment / model.Project
// - 文章 frontmatter → model.Post（pubDate 强制解析，缺省值按站点配置回填）
// 任何不合法记录都以 *ValidationError 失败，下游不再重复检查。
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"go-portfolio/internal/dates"
	"go-portfolio/internal/model"
)

const (
	KindWork = "work"
	KindPost = "post"
)

//go:embed work.schema.json
var workSchemaJSON string

//go:embed post.schema.json
var postSchemaJSON string

var (
	workSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewStringLoader(workSchemaJSON))
	})
	postSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewStringLoader(postSchemaJSON))
	})
)

// Defaults 为文章校验时注入的站点级缺省值。
type Defaults struct {
	Author string
	Social model.Social
}

// validate 按 schema 校验 raw，通过后将其解码到 out。
func validate(kind string, load func() (*gojsonschema.Schema, error), raw any, out any) error {
	s, err := load()
	if err != nil {
		return fmt.Errorf("compile %s schema: %w", kind, err)
	}
	res, err := s.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("validate %s: %w", kind, err)
	}
	if !res.Valid() {
		return &ValidationError{Kind: kind, Issues: issuesFrom(res.Errors())}
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", kind, err)
	}
	return nil
}

type workRecord struct {
	model.WorkDetails
	Type        model.WorkType `json:"type"`
	Company     string         `json:"company"`
	ProjectName string         `json:"projectName"`
}

// ParseWork 校验一条经历记录；type 决定返回 Employment 还是 Project。
func ParseWork(raw any) (model.WorkItem, error) {
	var rec workRecord
	if err := validate(KindWork, workSchema, raw, &rec); err != nil {
		return nil, err
	}
	d := rec.WorkDetails
	for i := range d.Technologies {
		if d.Technologies[i].Type == "" {
			d.Technologies[i].Type = model.TechOther
		}
	}
	if d.Highlights == nil {
		d.Highlights = []string{}
	}
	if d.Technologies == nil {
		d.Technologies = []model.KeyTechnology{}
	}
	if d.Images != nil && d.Images.Showcase == nil {
		d.Images.Showcase = []model.ProjectImage{}
	}
	switch rec.Type {
	case model.WorkEmployment:
		return model.Employment{WorkDetails: d, Company: rec.Company}, nil
	case model.WorkProject:
		return model.Project{WorkDetails: d, ProjectName: rec.ProjectName, Company: rec.Company}, nil
	}
	// schema 已限定枚举，这里只防御 schema 与代码不同步
	return nil, &ValidationError{Kind: KindWork, Issues: []Issue{{Field: "type", Constraint: "enum", Message: fmt.Sprintf("unknown work type %q", rec.Type)}}}
}

type postRecord struct {
	Title        string           `json:"title"`
	Subtitle     string           `json:"subtitle"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Author       string           `json:"author"`
	Draft        bool             `json:"draft"`
	PubDate      json.RawMessage  `json:"pubDate"`
	Collection   model.Collection `json:"collection"`
	Tags         []string         `json:"tags"`
	Social       *model.Social    `json:"social"`
	Image        string           `json:"image"`
	Layout       string           `json:"layout"`
	CanonicalURL string           `json:"canonicalUrl"`
}

// ParsePost 校验文章 frontmatter。pubDate 接受日期字符串或毫秒时间戳，
// 无法解析时为校验失败（不回退为当前时间）。
func ParsePost(raw any, def Defaults) (model.Post, error) {
	var rec postRecord
	if err := validate(KindPost, postSchema, raw, &rec); err != nil {
		return model.Post{}, err
	}
	pub, err := coerceDate(rec.PubDate)
	if err != nil {
		return model.Post{}, &ValidationError{Kind: KindPost, Issues: []Issue{{Field: "pubDate", Constraint: "date", Message: err.Error()}}}
	}
	p := model.Post{
		Title:        rec.Title,
		Subtitle:     rec.Subtitle,
		Description:  rec.Description,
		Category:     rec.Category,
		Author:       rec.Author,
		Draft:        rec.Draft,
		PubDate:      pub,
		Collection:   rec.Collection,
		Tags:         rec.Tags,
		Image:        rec.Image,
		Layout:       rec.Layout,
		CanonicalURL: rec.CanonicalURL,
	}
	if p.Author == "" {
		p.Author = def.Author
	}
	if p.Author == "" {
		p.Author = model.DefaultAuthor
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if rec.Social != nil {
		s := *rec.Social
		if s.Title == "" {
			s.Title = def.Social.Title
		}
		if s.Description == "" {
			s.Description = def.Social.Description
		}
		if s.Image == "" {
			s.Image = def.Social.Image
		}
		if s.Card == "" {
			s.Card = def.Social.Card
		}
		if s.Card == "" {
			s.Card = model.CardSummaryLarge
		}
		p.Social = &s
	}
	return p, nil
}

func coerceDate(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return dates.Parse(s)
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, fmt.Errorf("unsupported pubDate %s", string(raw))
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, fmt.Errorf("invalid timestamp %s", string(raw))
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}
