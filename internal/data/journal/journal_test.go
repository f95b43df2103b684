package journal

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"litscan/internal/core/ports"
)

func openTestJournal(t *testing.T, path string) *Journal {
	t.Helper()
	j, err := Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_RecordAndSummary(t *testing.T) {
	j := openTestJournal(t, filepath.Join(t.TempDir(), "state", "litscan.db"))
	ctx := context.Background()

	outcomes := []ports.TaskOutcome{
		{JobID: "a", Key: "你好", Locale: "zh-CN", Path: "zh-CN.json", Status: ports.TaskStored},
		{JobID: "a", Key: "你好", Locale: "en-US", Path: "en-US.json", Status: ports.TaskStored},
		{JobID: "a", Key: "你好", Locale: "ja-JP", Path: "ja-JP.json", Status: ports.TaskFallback, Err: "timeout"},
		{JobID: "b", Key: "你好", Locale: "en-US", Path: "en-US.json", Status: ports.TaskSkipped},
	}
	for _, o := range outcomes {
		if err := j.Record(ctx, o); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	summary, err := j.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	want := map[ports.TaskStatus]int{ports.TaskStored: 2, ports.TaskFallback: 1, ports.TaskSkipped: 1}
	for status, n := range want {
		if summary[status] != n {
			t.Errorf("summary[%s] = %d, want %d", status, summary[status], n)
		}
	}

	recent, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent rows, got %d", len(recent))
	}
	if recent[0].JobID != "b" || recent[0].Status != ports.TaskSkipped {
		t.Fatalf("newest row first, got %+v", recent[0])
	}
	if recent[1].Err != "timeout" {
		t.Fatalf("error text not kept: %+v", recent[1])
	}
}

func TestJournal_SummaryScopedToRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "litscan.db")
	ctx := context.Background()

	first, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Record(ctx, ports.TaskOutcome{JobID: "x", Key: "k", Locale: "en-US", Path: "p", Status: ports.TaskStored, At: time.Now()}); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = first.Close()

	second := openTestJournal(t, path)
	if second.RunID() == first.RunID() {
		t.Fatal("each open should start a new run")
	}
	summary, err := second.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary) != 0 {
		t.Fatalf("expected empty summary for a fresh run, got %v", summary)
	}
}

func TestJournal_ConcurrentRecord(t *testing.T) {
	j := openTestJournal(t, filepath.Join(t.TempDir(), "litscan.db"))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = j.Record(ctx, ports.TaskOutcome{JobID: "c", Key: "k", Locale: "en-US", Path: "p", Status: ports.TaskStored})
		}()
	}
	wg.Wait()

	summary, err := j.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary[ports.TaskStored] != 20 {
		t.Fatalf("expected 20 stored rows, got %d", summary[ports.TaskStored])
	}
}

func TestOpen_RejectsDirectory(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error for directory path")
	}
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
