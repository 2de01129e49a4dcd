// 包 fetch 封装导入用的 HTTP 客户端：代理、超时、重试与统一 UA。
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

// UAEnv 为覆盖默认 User-Agent 的环境变量。
const UAEnv = "PORTFOLIO_UA"

const defaultUA = "Mozilla/5.0 (compatible; go-portfolio/1.0; +https://github.com/)"

// MaxBody 为 Fetch 读取响应体的上限。
const MaxBody = 4 << 20

// StatusError 表示服务端返回了非 2xx 状态。4xx 不重试。
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: http status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

type Client struct {
	http    *http.Client
	retry   int
	backoff time.Duration
	ua      string
}

type Options struct {
	ProxyHTTP  string
	ProxyHTTPS string
	Timeout    time.Duration
	Retry      int
	// Backoff 为第 i 次重试前等待 (i+1)*Backoff，缺省 300ms。
	Backoff time.Duration
}

// New 创建客户端；代理未配置时沿用环境变量 HTTP(S)_PROXY。
func New(opts Options) (*Client, error) {
	var proxyHTTP, proxyHTTPS *url.URL
	var err error
	if opts.ProxyHTTP != "" {
		if proxyHTTP, err = url.Parse(opts.ProxyHTTP); err != nil {
			return nil, fmt.Errorf("parse http proxy: %w", err)
		}
	}
	if opts.ProxyHTTPS != "" {
		if proxyHTTPS, err = url.Parse(opts.ProxyHTTPS); err != nil {
			return nil, fmt.Errorf("parse https proxy: %w", err)
		}
	}
	transport := &http.Transport{
		Proxy: func(req *http.Request) (*url.URL, error) {
			switch {
			case req.URL.Scheme == "https" && proxyHTTPS != nil:
				return proxyHTTPS, nil
			case req.URL.Scheme == "http" && proxyHTTP != nil:
				return proxyHTTP, nil
			}
			return http.ProxyFromEnvironment(req)
		},
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 300 * time.Millisecond
	}
	if opts.Retry < 0 {
		opts.Retry = 0
	}
	ua := os.Getenv(UAEnv)
	if ua == "" {
		ua = defaultUA
	}
	return &Client{
		http:    &http.Client{Transport: transport, Timeout: opts.Timeout},
		retry:   opts.Retry,
		backoff: opts.Backoff,
		ua:      ua,
	}, nil
}

// Get 发起 GET，网络错误与 5xx 按线性回退重试。调用方负责关闭 Body。
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	var lastErr error
	for i := 0; i <= c.retry; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("new request: %w", err)
		}
		req.Header.Set("User-Agent", c.ua)
		resp, err := c.http.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		if err == nil {
			resp.Body.Close()
			lastErr = &StatusError{URL: rawURL, Code: resp.StatusCode}
			if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
		} else {
			lastErr = err
		}
		if i == c.retry {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * c.backoff):
		}
	}
	return nil, lastErr
}

// Fetch 读取完整响应体（最多 MaxBody 字节）。
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return b, nil
}

// IsNotFound 判断错误是否为 404/410。
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && (se.Code == http.StatusNotFound || se.Code == http.StatusGone)
}
