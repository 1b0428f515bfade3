package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Update(t *testing.T) {
	ctx, tracker := WithNewTracker(context.Background(), "run-1", "triage", nil)
	tracker.Update(Delta{Total: 3, Pending: 3})
	UpdateCtx(ctx, Delta{Pending: -1, Completed: 1})
	UpdateCtx(ctx, Delta{Pending: -1, Skipped: 1})
	UpdateCtx(ctx, Delta{Pending: -1, Failed: 1})

	snapshot, ok := GetSnapshot(ctx)
	assert.True(t, ok)
	assert.Equal(t, 3, snapshot.TotalTasks)
	assert.Equal(t, 1, snapshot.CompletedTasks)
	assert.Equal(t, 1, snapshot.SkippedTasks)
	assert.Equal(t, 1, snapshot.FailedTasks)
	assert.Equal(t, 0, snapshot.PendingTasks)
	assert.Equal(t, "run-1", snapshot.SessionID)
	assert.Equal(t, "triage", snapshot.TaskSet)
}

func TestProgress_Concurrent(t *testing.T) {
	tracker := &Progress{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Completed: 1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, tracker.Snapshot().CompletedTasks)
}

func TestProgress_OnChange(t *testing.T) {
	tracker := &Progress{}
	var observed []int
	tracker.OnChange(func(p Progress) {
		observed = append(observed, p.CompletedTasks)
	})
	tracker.Update(Delta{Completed: 1})
	tracker.Update(Delta{Completed: 1})
	assert.Equal(t, []int{1, 2}, observed)
}

func TestProgress_NilSafe(t *testing.T) {
	var tracker *Progress
	tracker.Update(Delta{Completed: 1})
	assert.Equal(t, Progress{}, tracker.Snapshot())
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}
