// 包 logx 是对标准库 slog 的薄封装：
// - 级别/格式/语言/颜色均来自 settings.yaml
// - pretty 输出带 [信息]/[INFO] 等标签，便于在终端阅读构建日志
// - 通过 Debugf/Infof/Warnf/Errorf 暴露，调用方无需关心底层 Handler
package logx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// levelSilent 高于所有内置级别，用于关闭输出。
const levelSilent slog.Level = 100

// Init 初始化全局日志器，输出到标准输出。
func Init(level, format, locale, colorMode string) {
	InitWriter(os.Stdout, level, format, locale, colorMode)
}

// InitWriter 与 Init 相同，但允许指定输出目标（测试中用 bytes.Buffer 捕获）。
func InitWriter(w io.Writer, level, format, locale, colorMode string) {
	lv := parseSlogLevel(level)
	opts := &slog.HandlerOptions{Level: lv}
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "pretty", "":
		handler = NewPrettyHandler(w, lv, locale, colorMode)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseSlogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none", "silent", "off":
		return levelSilent
	default:
		return slog.LevelInfo
	}
}

func Debugf(format string, v ...any) { slog.Debug(fmt.Sprintf(format, v...)) }
func Infof(format string, v ...any)  { slog.Info(fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...any)  { slog.Warn(fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...any) { slog.Error(fmt.Sprintf(format, v...)) }

// PrettyHandler 输出 "时间 标签 消息 k=v ..." 单行格式，仅供人读。
type PrettyHandler struct {
	w      io.Writer
	level  slog.Level
	locale string
	color  bool
	mu     *sync.Mutex
	attrs  []slog.Attr
	group  string
}

// NewPrettyHandler 创建 PrettyHandler；locale 为空时使用中文标签。
func NewPrettyHandler(w io.Writer, lv slog.Level, locale string, colorMode string) *PrettyHandler {
	if w == nil {
		w = os.Stdout
	}
	if locale == "" {
		locale = "zh-CN"
	}
	return &PrettyHandler{
		w:      w,
		level:  lv,
		locale: locale,
		color:  shouldColor(w, colorMode),
		mu:     &sync.Mutex{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, l slog.Level) bool {
	return h.level < levelSilent && l >= h.level
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(ts.Format("2006-01-02 15:04:05"))
	buf.WriteByte(' ')
	lvl := levelLabel(h.locale, r.Level)
	if h.color {
		lvl = colorize(lvl, r.Level)
	}
	buf.WriteString(lvl)
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	writeAttr := func(a slog.Attr) {
		buf.WriteByte(' ')
		if h.group != "" {
			buf.WriteString(h.group)
			buf.WriteByte('.')
		}
		buf.WriteString(a.Key)
		buf.WriteByte('=')
		buf.WriteString(a.Value.String())
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &cp
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	cp := *h
	if cp.group == "" {
		cp.group = name
	} else {
		cp.group += "." + name
	}
	return &cp
}

func levelLabel(locale string, l slog.Level) string {
	zh := strings.HasPrefix(strings.ToLower(locale), "zh")
	switch l {
	case slog.LevelDebug:
		if zh {
			return "[调试]"
		}
		return "[DEBUG]"
	case slog.LevelInfo:
		if zh {
			return "[信息]"
		}
		return "[INFO]"
	case slog.LevelWarn:
		if zh {
			return "[警告]"
		}
		return "[WARN]"
	case slog.LevelError:
		if zh {
			return "[错误]"
		}
		return "[ERROR]"
	default:
		return fmt.Sprintf("[L%d]", l)
	}
}

// shouldColor 遵循 NO_COLOR；auto 模式下仅在终端输出时启用颜色。
func shouldColor(w io.Writer, mode string) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "auto", "":
		if f, ok := w.(*os.File); ok {
			return term.IsTerminal(int(f.Fd()))
		}
		return false
	default:
		return false
	}
}

func colorize(s string, l slog.Level) string {
	code := "0"
	switch l {
	case slog.LevelDebug:
		code = "90"
	case slog.LevelInfo:
		code = "36"
	case slog.LevelWarn:
		code = "33"
	case slog.LevelError:
		code = "31"
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
