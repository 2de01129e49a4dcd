// 包 config 负责加载与校验站点配置（settings.yaml），
// 对外提供结构体 Config 及默认值/合法性校验。
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"go-portfolio/internal/model"
)

// DefaultAuthor 为文章 author 缺省时使用的署名。
const DefaultAuthor = model.DefaultAuthor

type Config struct {
	Site        Site         `yaml:"SITE"`
	Social      Social       `yaml:"SOCIAL"`
	ContentDir  string       `yaml:"CONTENT_DIR"`
	ExportPath  string       `yaml:"EXPORT_PATH"`
	RecentPosts int          `yaml:"RECENT_POSTS"`
	Feeds       []FeedSource `yaml:"FEEDS" validate:"dive"`
	Concurrency Concurrency  `yaml:"CONCURRENCY"`
	Proxy       Proxy        `yaml:"PROXY"`
	LogLevel    string       `yaml:"LOG_LEVEL"`
	LogFormat   string       `yaml:"LOG_FORMAT" validate:"omitempty,oneof=text json pretty"`
	LogLocale   string       `yaml:"LOG_LOCALE"` // zh-CN|en
	LogColor    string       `yaml:"LOG_COLOR" validate:"omitempty,oneof=auto always never"`
}

type Site struct {
	Title  string `yaml:"title"`
	URL    string `yaml:"url" validate:"omitempty,url"`
	Author string `yaml:"author"`
}

// Social 为文章 social.* 的站点级缺省值。
type Social struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Card        string `yaml:"card" validate:"omitempty,oneof=summary summary_large_image"`
}

// FeedSource 为一个外部订阅来源：URL 为订阅地址；
// 若只给出 Site，则按常见路径与 <link> 自动发现订阅（FeedSuffix 优先尝试）。
// Theme 为 rules.yaml 中的预设名；Limit 为每次导入的最多条目数，0 表示不限。
type FeedSource struct {
	URL        string   `yaml:"url" validate:"required_without=Site,omitempty,url"`
	Site       string   `yaml:"site" validate:"omitempty,url"`
	FeedSuffix string   `yaml:"feed_suffix"`
	Theme      string   `yaml:"theme"`
	Category   string   `yaml:"category"`
	Collection string   `yaml:"collection" validate:"omitempty,oneof=tutorial article reflection"`
	Tags       []string `yaml:"tags"`
	Limit      int      `yaml:"limit" validate:"gte=0"`
}

type Concurrency struct {
	Fetch int `yaml:"fetch"`
	Retry int `yaml:"retry"`
}

type Proxy struct {
	HTTP  string `yaml:"http"`
	HTTPS string `yaml:"https"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Default 返回不依赖配置文件的默认配置（settings.yaml 不存在时使用）。
func Default() *Config {
	c := &Config{}
	_ = c.Validate()
	return c
}

// Validate 先做结构体标签校验，再填充默认值，业务层不再判空。
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s %s", fe.Namespace(), fe.Tag(), fe.Param()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	if c.RecentPosts < 0 {
		return errors.New("RECENT_POSTS must be >= 0")
	}
	if c.RecentPosts == 0 {
		c.RecentPosts = 3
	}
	if c.Site.Author == "" {
		c.Site.Author = DefaultAuthor
	}
	if c.Social.Card == "" {
		c.Social.Card = string(model.CardSummaryLarge)
	}
	if c.Social.Title == "" {
		c.Social.Title = c.Site.Title
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.ExportPath == "" {
		c.ExportPath = "data.json"
	}
	for i := range c.Feeds {
		if c.Feeds[i].Collection == "" {
			c.Feeds[i].Collection = string(model.CollectionArticle)
		}
	}
	if c.Concurrency.Fetch <= 0 {
		c.Concurrency.Fetch = 4
	}
	if c.Concurrency.Retry < 0 {
		c.Concurrency.Retry = 2
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}

// SocialDefaults 转换为 schema 层使用的 model.Social。
func (c *Config) SocialDefaults() model.Social {
	return model.Social{
		Title:       c.Social.Title,
		Description: c.Social.Description,
		Image:       c.Social.Image,
		Card:        model.Card(c.Social.Card),
	}
}
