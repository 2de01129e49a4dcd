// 包 dates 提供展示用的日期格式化：
// - FormatLong/FormatShort/FormatISO/MonthYear 接受 time.Time 或字符串
// - 解析失败不会中断渲染，而是返回 "Invalid date <原始输入>" 并记录警告
// - 所有展示派生（日期文本、ISO 日期、年份）统一按 UTC 取值
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"go-portfolio/internal/logx"
)

// InvalidPrefix 为格式化失败时返回值的前缀。
const InvalidPrefix = "Invalid date "

// Input 为格式化函数接受的输入类型。
type Input interface {
	time.Time | string
}

// layouts 为按顺序尝试的解析格式；不带时区的格式按 UTC 解释。
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006-01",
	"2006/01",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"January 2006",
	"Jan 2006",
	time.RFC1123Z,
	time.RFC1123,
	"Mon Jan 2 2006",
	"2006",
}

// ErrEmpty 表示输入为空字符串。
var ErrEmpty = errors.New("empty date")

// Parse 按 layouts 依次解析日期字符串，都不匹配时交给 dateparse 做宽松解析
// （例如 7/29/2025）。不带时区的输入按 UTC 解释。
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmpty
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return t, nil
}

func resolve[T Input](d T) (time.Time, error) {
	switch v := any(d).(type) {
	case time.Time:
		if v.IsZero() {
			return v, errors.New("zero time")
		}
		return v, nil
	case string:
		return Parse(v)
	}
	return time.Time{}, errors.New("unsupported date input")
}

func format[T Input](d T, fn func(time.Time) string) string {
	t, err := resolve(d)
	if err != nil {
		logx.Warnf("日期格式化失败：输入=%v 错误=%v", d, err)
		return InvalidPrefix + fmt.Sprint(d)
	}
	return fn(t.UTC())
}

// FormatLong 例如 "July 29, 2025"。
func FormatLong[T Input](d T) string {
	return format(d, func(t time.Time) string { return t.Format("January 2, 2006") })
}

// FormatShort 例如 "Jul 29, 2025"。
func FormatShort[T Input](d T) string {
	return format(d, func(t time.Time) string { return t.Format("Jan 2, 2006") })
}

// FormatISO 例如 "2025-07-29"。
func FormatISO[T Input](d T) string {
	return format(d, func(t time.Time) string { return t.Format("2006-01-02") })
}

// MonthYear 例如 "July 2025"。
func MonthYear[T Input](d T) string {
	return format(d, func(t time.Time) string { return t.Format("January 2006") })
}

// MonthYearRange 生成经历的时间段：
// current 为 true 时为 "<start> - Present"；有 end 时为 "<start> - <end>"；否则仅 start。
func MonthYearRange(start, end string, current bool) string {
	s := MonthYear(start)
	if current {
		return s + " - Present"
	}
	if end != "" {
		return s + " - " + MonthYear(end)
	}
	return s
}
