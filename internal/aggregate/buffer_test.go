package aggregate_test

import (
	"sync"
	"testing"
	"time"

	"go-portfolio/internal/aggregate"
)

func TestResultBuffer_ClaimOnce(t *testing.T) {
	b := aggregate.NewResultBuffer()
	var wg sync.WaitGroup
	var mu sync.Mutex
	won := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.Claim("https://a.example/p/1") {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if won != 1 {
		t.Fatalf("claimed %d times", won)
	}
}

func TestResultBuffer_EmptyLinkIgnored(t *testing.T) {
	b := aggregate.NewResultBuffer()
	if b.Claim("") {
		t.Fatalf("empty link must not be claimed")
	}
	b.Add(aggregate.Result{Status: aggregate.StatusFailed})
	if got := b.Snapshot(); len(got) != 0 {
		t.Fatalf("snapshot=%+v", got)
	}
}

func TestResultBuffer_SnapshotOrder(t *testing.T) {
	b := aggregate.NewResultBuffer()
	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := old.AddDate(1, 0, 0)
	b.Add(aggregate.Result{Link: "b", PubDate: old})
	b.Add(aggregate.Result{Link: "a", PubDate: old})
	b.Add(aggregate.Result{Link: "c", PubDate: newer})
	var got []string
	for _, r := range b.Snapshot() {
		got = append(got, r.Link)
	}
	if len(got) != 3 || got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Fatalf("order=%v", got)
	}
}
