// 包 slug 生成 URL/DOM 安全的标识：重音折叠为 ASCII、转小写，
// 其余非 [a-z0-9] 的连续字符替换为单个连字符，首尾连字符去掉。
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Make 返回 s 的 slug，结果只含 [a-z0-9-]，可能为空。
func Make(s string) string {
	s = strings.ToLower(Fold(s))
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Fold 去掉组合附加符号，例如 Café → Cafe。
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Truncate 将 slug 截断到最多 n 个字符，并避免以连字符结尾。
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return strings.TrimRight(s[:n], "-")
}
