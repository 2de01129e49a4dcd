package logx_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"go-portfolio/internal/logx"
)

func TestLogx_PrettyZH_Info(t *testing.T) {
	var buf bytes.Buffer
	logx.InitWriter(&buf, "debug", "pretty", "zh-CN", "never")
	logx.Infof("hello %s", "world")
	out := buf.String()
	if !strings.Contains(out, "[信息]") || !strings.Contains(out, "hello world") {
		t.Fatalf("expect zh label and message, got: %q", out)
	}
}

func TestLogx_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logx.InitWriter(&buf, "warn", "pretty", "zh-CN", "never")
	logx.Infof("should not print")
	logx.Warnf("warn on")
	out := buf.String()
	if strings.Contains(out, "should not print") {
		t.Fatalf("info should be filtered when level=warn")
	}
	if !strings.Contains(out, "[警告]") {
		t.Fatalf("expect warn label present, got: %q", out)
	}
}

func TestLogx_EnglishLabelsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logx.InitWriter(&buf, "info", "pretty", "en", "never")
	slog.Default().WithGroup("load").With("kind", "posts").Info("ok")
	out := buf.String()
	if !strings.Contains(out, "[INFO]") {
		t.Fatalf("expect en label [INFO], got: %q", out)
	}
	if !strings.Contains(out, "load.kind=posts") {
		t.Fatalf("expect grouped attr, got: %q", out)
	}
}

func TestLogx_Silent(t *testing.T) {
	var buf bytes.Buffer
	logx.InitWriter(&buf, "off", "pretty", "en", "never")
	logx.Errorf("nothing")
	if buf.Len() != 0 {
		t.Fatalf("expect no output when silenced, got: %q", buf.String())
	}
}

func TestLogx_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logx.InitWriter(&buf, "info", "json", "en", "never")
	logx.Warnf("json %d", 1)
	if !strings.Contains(buf.String(), `"msg":"json 1"`) {
		t.Fatalf("expect json record, got: %q", buf.String())
	}
}
