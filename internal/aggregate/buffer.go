package aggregate

import (
	"sort"
	"sync"
)

// ResultBuffer 收集各订阅 goroutine 的导入结果，按条目链接去重。
// 同一链接出现在多个订阅中时只保留首次结果。
type ResultBuffer struct {
	mu      sync.Mutex
	results map[string]Result // key: link
}

func NewResultBuffer() *ResultBuffer {
	return &ResultBuffer{results: make(map[string]Result)}
}

// Claim 登记链接，返回 false 表示该链接已由其他订阅处理或链接为空。
func (b *ResultBuffer) Claim(link string) bool {
	if link == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.results[link]; ok {
		return false
	}
	b.results[link] = Result{Link: link, Status: StatusPending}
	return true
}

func (b *ResultBuffer) Add(r Result) {
	if r.Link == "" {
		return
	}
	b.mu.Lock()
	b.results[r.Link] = r
	b.mu.Unlock()
}

// Snapshot 返回副本：按发布时间倒序，同时间按链接排序。
func (b *ResultBuffer) Snapshot() []Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Result, 0, len(b.results))
	for _, r := range b.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PubDate.Equal(out[j].PubDate) {
			return out[i].PubDate.After(out[j].PubDate)
		}
		return out[i].Link < out[j].Link
	})
	return out
}
