package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Issue 描述一个字段违反的约束。Field 为点分路径，例如 technologies.0.name。
type Issue struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// ValidationError 为加载期校验失败，Source 由内容源填写（通常是文件路径）。
type ValidationError struct {
	Kind   string
	Source string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid ")
	b.WriteString(e.Kind)
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	b.WriteString(": ")
	for i, is := range e.Issues {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s (%s): %s", is.Field, is.Constraint, is.Message)
	}
	return b.String()
}

// Constraint 返回字段的第一个约束名，不存在时为空。
func (e *ValidationError) Constraint(field string) string {
	for _, is := range e.Issues {
		if is.Field == field {
			return is.Constraint
		}
	}
	return ""
}

// 组合类错误只说明"某个子规则失败"，具体原因已在合并的子错误中。
var wrapperTypes = map[string]bool{
	"number_all_of":  true,
	"number_any_of":  true,
	"number_one_of":  true,
	"number_not":     true,
	"condition_then": true,
	"condition_else": true,
}

const rootField = "(root)"

func issuesFrom(errs []gojsonschema.ResultError) []Issue {
	out := make([]Issue, 0, len(errs))
	seen := map[string]bool{}
	add := func(is Issue) {
		key := is.Field + "|" + is.Constraint
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, is)
	}
	for _, re := range errs {
		if wrapperTypes[re.Type()] {
			continue
		}
		add(toIssue(re))
	}
	if len(out) == 0 {
		for _, re := range errs {
			add(toIssue(re))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func toIssue(re gojsonschema.ResultError) Issue {
	field := re.Field()
	if field == rootField {
		field = ""
	}
	constraint := re.Type()
	details := re.Details()
	switch re.Type() {
	case "required":
		if p, ok := details["property"].(string); ok {
			field = joinPath(field, p)
		}
	case "invalid_type":
		constraint = "type"
	case "format":
		if f, ok := details["format"].(string); ok {
			constraint = f
		}
	case "enum", "const":
		constraint = "enum"
	}
	if field == "" {
		field = rootField
	}
	return Issue{Field: field, Constraint: constraint, Message: re.Description()}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
