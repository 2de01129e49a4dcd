package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"go-portfolio/internal/logx"
)

// frontmatter 默认的 YAML 格式基于 yaml.v2（嵌套 map 键为 interface{}），这里统一换成 yaml.v3。
var fmFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
}

// FSLoader 从文件树读取内容：
//
//	work/*.yaml|*.yml|*.json|*.toml  每个文件一条经历
//	posts/**/*.md                    frontmatter + markdown 正文
//
// 以 _ 或 . 开头的文件被忽略。记录按路径字典序返回。
type FSLoader struct {
	FS fs.FS
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{FS: fsys}
}

func (l *FSLoader) LoadRecords(ctx context.Context, kind Kind) ([]Record, error) {
	switch kind {
	case KindWork:
		return l.walk(ctx, string(kind), l.workRecord)
	case KindPosts:
		return l.walk(ctx, string(kind), l.postRecord)
	}
	return nil, fmt.Errorf("unknown content kind %q", kind)
}

func (l *FSLoader) walk(ctx context.Context, root string, read func(p string) (*Record, error)) ([]Record, error) {
	var out []Record
	err := fs.WalkDir(l.FS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || ignored(d.Name()) {
			return nil
		}
		rec, err := read(p)
		if err != nil {
			return err
		}
		if rec != nil {
			out = append(out, *rec)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		logx.Warnf("内容目录不存在：%s", root)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func ignored(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

func (l *FSLoader) workRecord(p string) (*Record, error) {
	ext := strings.ToLower(path.Ext(p))
	var unmarshal func([]byte, any) error
	switch ext {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".json":
		unmarshal = json.Unmarshal
	case ".toml":
		unmarshal = toml.Unmarshal
	default:
		logx.Debugf("跳过非数据文件：%s", p)
		return nil, nil
	}
	b, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	data := map[string]any{}
	if err := unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	return &Record{Source: p, Slug: strings.TrimSuffix(path.Base(p), path.Ext(p)), Data: data}, nil
}

func (l *FSLoader) postRecord(p string) (*Record, error) {
	if ext := strings.ToLower(path.Ext(p)); ext != ".md" && ext != ".markdown" {
		logx.Debugf("跳过非 markdown 文件：%s", p)
		return nil, nil
	}
	b, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	data := map[string]any{}
	body, err := frontmatter.MustParse(bytes.NewReader(b), &data, fmFormats...)
	if err != nil {
		return nil, fmt.Errorf("frontmatter %s: %w", p, err)
	}
	var html bytes.Buffer
	if err := markdown.Convert(body, &html); err != nil {
		return nil, fmt.Errorf("render %s: %w", p, err)
	}
	slug := PostSlug(p)
	return &Record{
		Source: p,
		Slug:   slug,
		URL:    PostURL(slug),
		Data:   data,
		Body:   string(body),
		HTML:   html.String(),
	}, nil
}

// PostSlug 为 posts/ 下去掉扩展名的相对路径，例如 posts/2024/hello.md → 2024/hello。
func PostSlug(p string) string {
	rel := strings.TrimPrefix(p, string(KindPosts)+"/")
	return strings.TrimSuffix(rel, path.Ext(rel))
}

func PostURL(slug string) string {
	return "/posts/" + slug + "/"
}
