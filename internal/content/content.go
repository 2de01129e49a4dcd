// 包 content 是内容仓库：从文件树枚举原始记录（work 数据文件、posts markdown），
// 再交给 schema 层校验，得到内存中的 Collection。任何一条记录不合法都会让整体加载失败。
package content

import (
	"context"
	"errors"
	"fmt"

	"go-portfolio/internal/logx"
	"go-portfolio/internal/model"
	"go-portfolio/internal/schema"
)

// Kind 为内容集合名。
type Kind string

const (
	KindWork  Kind = "work"
	KindPosts Kind = "posts"
)

// Record 为内容源给出的一条未校验记录。
// 文章记录额外带有 Slug/URL/正文；Data 是 frontmatter 或数据文件的原始键值。
type Record struct {
	Source string
	Slug   string
	URL    string
	Data   map[string]any
	Body   string
	HTML   string
}

// RecordLoader 按集合名返回有序的原始记录。
type RecordLoader interface {
	LoadRecords(ctx context.Context, kind Kind) ([]Record, error)
}

// Collection 为校验后的全部内容，加载后只读。
type Collection struct {
	Work  []model.WorkItem
	Posts []model.PostEntry
}

// Load 读取两个集合并逐条校验；所有错误合并后返回，不返回部分结果。
func Load(ctx context.Context, loader RecordLoader, def schema.Defaults) (*Collection, error) {
	workRecs, err := loader.LoadRecords(ctx, KindWork)
	if err != nil {
		return nil, fmt.Errorf("load work: %w", err)
	}
	postRecs, err := loader.LoadRecords(ctx, KindPosts)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	var errs []error
	coll := &Collection{
		Work:  make([]model.WorkItem, 0, len(workRecs)),
		Posts: make([]model.PostEntry, 0, len(postRecs)),
	}
	for _, r := range workRecs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := schema.ParseWork(r.Data)
		if err != nil {
			errs = append(errs, withSource(err, r.Source))
			continue
		}
		coll.Work = append(coll.Work, item)
	}

	slugs := make(map[string]string, len(postRecs))
	for _, r := range postRecs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if prev, dup := slugs[r.Slug]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate slug %q (also %s)", r.Source, r.Slug, prev))
			continue
		}
		slugs[r.Slug] = r.Source
		p, err := schema.ParsePost(r.Data, def)
		if err != nil {
			errs = append(errs, withSource(err, r.Source))
			continue
		}
		coll.Posts = append(coll.Posts, model.PostEntry{
			Post:   p,
			Slug:   r.Slug,
			URL:    r.URL,
			Source: r.Source,
			HTML:   r.HTML,
		})
	}

	if len(errs) > 0 {
		logx.Errorf("内容校验失败：%d 条记录不合法", len(errs))
		return nil, errors.Join(errs...)
	}
	logx.Infof("内容加载完成：work=%d posts=%d", len(coll.Work), len(coll.Posts))
	return coll, nil
}

func withSource(err error, source string) error {
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		ve.Source = source
		return ve
	}
	return fmt.Errorf("%s: %w", source, err)
}
