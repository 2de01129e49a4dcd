package model

import (
	"encoding/json"
	"strings"
)

// WorkType 区分任职经历与个人项目。
type WorkType string

const (
	WorkEmployment WorkType = "employment"
	WorkProject    WorkType = "project"
)

// TechnologyType 为关键技术的分类标签（共 8 类，缺省为 other）。
type TechnologyType string

const (
	TechLanguage     TechnologyType = "language_tech"
	TechFramework    TechnologyType = "framework_tooling"
	TechInfra        TechnologyType = "infra_platform"
	TechPractice     TechnologyType = "engineering_practice"
	TechArchitecture TechnologyType = "architecture_pattern"
	TechCapability   TechnologyType = "system_capability"
	TechDelivery     TechnologyType = "delivery_context"
	TechOther        TechnologyType = "other"
)

// TechnologyTypes 按展示顺序列出全部分类。
var TechnologyTypes = []TechnologyType{
	TechLanguage, TechFramework, TechInfra, TechPractice,
	TechArchitecture, TechCapability, TechDelivery, TechOther,
}

// KeyTechnology 是经历中使用到的一项技术，名称在所属列表内唯一即可。
type KeyTechnology struct {
	Name        string         `json:"name"`
	Type        TechnologyType `json:"type"`
	Description string         `json:"description,omitempty"`
}

// ProjectImage 为单张图片：full 必填，缩略图与替代文本可选。
type ProjectImage struct {
	Full      string `json:"full"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Alt       string `json:"alt,omitempty"`
}

// ProjectImages 为经历的图片集合，BaseURL 作为相对路径的前缀。
type ProjectImages struct {
	BaseURL  string         `json:"base_url,omitempty"`
	Logo     *ProjectImage  `json:"logo,omitempty"`
	Primary  *ProjectImage  `json:"primary,omitempty"`
	Showcase []ProjectImage `json:"showcase"`
}

// Resolve 将图片的相对路径拼接到 BaseURL 之后；绝对地址与根路径保持不变。
func (p ProjectImages) Resolve(img ProjectImage) ProjectImage {
	img.Full = joinBase(p.BaseURL, img.Full)
	if img.Thumbnail != "" {
		img.Thumbnail = joinBase(p.BaseURL, img.Thumbnail)
	}
	return img
}

func joinBase(base, ref string) string {
	if base == "" || ref == "" {
		return ref
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "/") {
		return ref
	}
	return strings.TrimSuffix(base, "/") + "/" + ref
}

// ProjectSkill 为经历中突出的一项能力。
type ProjectSkill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// WorkDetails 是两种经历共有的字段。
// Current 为 true 时表示仍在进行，展示时忽略 EndDate。
type WorkDetails struct {
	Title        string          `json:"title"`
	Location     string          `json:"location,omitempty"`
	URL          string          `json:"url,omitempty"`
	GithubURL    string          `json:"githubUrl,omitempty"`
	LiveURL      string          `json:"liveUrl,omitempty"`
	StartDate    string          `json:"startDate"`
	EndDate      string          `json:"endDate,omitempty"`
	Current      bool            `json:"current"`
	Description  string          `json:"description"`
	Highlights   []string        `json:"highlights"`
	Technologies []KeyTechnology `json:"technologies"`
	Images       *ProjectImages  `json:"images,omitempty"`
	TopSkills    []ProjectSkill  `json:"topSkills,omitempty"`
	Reflections  string          `json:"reflections,omitempty"`
}

// WorkItem 为经历条目（任职或项目）的封闭接口，只有 Employment 与 Project 两种实现。
type WorkItem interface {
	Kind() WorkType
	Info() WorkDetails
	// CompanyName 返回所属公司，项目可能为空。
	CompanyName() string
	// Heading 为摘要与卡片的标题行：任职取职位，项目取项目名。
	Heading() string
	// Subheading 为副标题：任职取公司，项目取 title。
	Subheading() string
	workItem()
}

// Employment 为任职经历，Company 必填。
type Employment struct {
	WorkDetails
	Company string `json:"company"`
}

func (e Employment) Kind() WorkType      { return WorkEmployment }
func (e Employment) Info() WorkDetails   { return e.WorkDetails }
func (e Employment) CompanyName() string { return e.Company }
func (e Employment) Heading() string     { return e.Title }
func (e Employment) Subheading() string  { return e.Company }
func (Employment) workItem()             {}

// MarshalJSON 输出时带上 type 判别字段。
func (e Employment) MarshalJSON() ([]byte, error) {
	type alias Employment
	return json.Marshal(struct {
		Type WorkType `json:"type"`
		alias
	}{WorkEmployment, alias(e)})
}

// Project 为个人项目，ProjectName 必填；Company 可选（例如外包项目的客户）。
type Project struct {
	WorkDetails
	ProjectName string `json:"projectName"`
	Company     string `json:"company,omitempty"`
}

func (p Project) Kind() WorkType      { return WorkProject }
func (p Project) Info() WorkDetails   { return p.WorkDetails }
func (p Project) CompanyName() string { return p.Company }
func (p Project) Heading() string     { return p.ProjectName }
func (p Project) Subheading() string  { return p.Title }
func (Project) workItem()             {}

func (p Project) MarshalJSON() ([]byte, error) {
	type alias Project
	return json.Marshal(struct {
		Type WorkType `json:"type"`
		alias
	}{WorkProject, alias(p)})
}
