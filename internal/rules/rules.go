// 包 rules 负责加载文章页解析规则（rules.yaml），
// 以预设名（如 default/hexo/hugo）组织 CSS 选择器，供订阅导入抓取正文。
package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules 表示全部规则集合：键为预设名，值为具体规则。
type Rules struct {
	Presets map[string]Preset `yaml:",inline"`
}

// Preset 为单个主题预设的解析规则。
type Preset struct {
	Article *Article `yaml:"article"`
}

// Article 描述文章页的选择器：
// - content：正文容器，取其内部 HTML
// - title/image：取文本或属性（支持 img@src / meta[property='og:image']@content）
// 均支持 "||" 多方案回退。
type Article struct {
	Content string `yaml:"content"`
	Title   string `yaml:"title"`
	Image   string `yaml:"image"`
}

// Builtin 为 rules.yaml 缺省时使用的规则，覆盖常见博客主题。
func Builtin() *Rules {
	return &Rules{Presets: map[string]Preset{
		"default": {Article: &Article{
			Content: "article .post-content||article .entry-content||article||main||.content",
			Title:   "meta[property='og:title']@content||h1",
			Image:   "meta[property='og:image']@content||article img@src",
		}},
		"hugo": {Article: &Article{
			Content: ".post-content||.article-content||article",
			Title:   "h1.post-title||h1",
			Image:   "meta[property='og:image']@content",
		}},
		"hexo": {Article: &Article{
			Content: ".article-entry||.post-body||#article-container||article",
			Title:   ".article-title||.post-title||h1",
			Image:   "meta[property='og:image']@content||.article-entry img@src",
		}},
	}}
}

// Load 从文件加载规则；文件不存在时返回内置规则。
func Load(path string) (*Rules, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Builtin(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	var r Rules
	if err := yaml.Unmarshal(b, &r.Presets); err != nil {
		return nil, fmt.Errorf("unmarshal rules %s: %w", path, err)
	}
	for name, p := range r.Presets {
		if p.Article == nil || strings.TrimSpace(p.Article.Content) == "" {
			return nil, fmt.Errorf("rules %s: preset %q has no article.content", path, name)
		}
	}
	return &r, nil
}

// GetPreset 按名称获取预设（不区分大小写），若为空或不存在则回退到 "default"。
func (r *Rules) GetPreset(name string) (Preset, bool) {
	if r == nil || len(r.Presets) == 0 {
		return Preset{}, false
	}
	if name == "" {
		name = "default"
	}
	if p, ok := r.Presets[name]; ok {
		return p, true
	}
	for k, v := range r.Presets {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	if p, ok := r.Presets["default"]; ok {
		return p, true
	}
	return Preset{}, false
}
