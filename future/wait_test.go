package future

import (
	"errors"
	"testing"
	"time"
)

func waiterCount[V any](f *Future[V]) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waiters)
}

// ============================================================================
// Wait 策略测试
// ============================================================================

func TestWait_AllCompleted(t *testing.T) {
	f1 := New[string]()
	f2 := New[string]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		f1.Start()
		f1.SetResult("a")
	}()
	go func() {
		time.Sleep(20 * time.Millisecond)
		f2.Start()
		f2.SetResult("b")
	}()

	r := Wait([]*Future[string]{f1, f2}, AllCompleted)

	if r.Done.Len() != 2 || !r.Done.Contains(f1) || !r.Done.Contains(f2) {
		t.Errorf("expected both futures done, got %d", r.Done.Len())
	}
	if !r.NotDone.IsEmpty() {
		t.Errorf("expected empty not-done, got %d", r.NotDone.Len())
	}
	if waiterCount(f1) != 0 || waiterCount(f2) != 0 {
		t.Error("waiters must be removed after Wait returns")
	}
}

func TestWait_FirstCompletedEarlyReturn(t *testing.T) {
	f1 := New[int]()
	f2 := New[int]()
	f1.SetResult(1)

	start := time.Now()
	r := Wait([]*Future[int]{f1, f2}, FirstCompleted)
	if time.Since(start) > 50*time.Millisecond {
		t.Error("wait with an already-done input must return immediately")
	}

	if !r.Done.Contains(f1) || r.Done.Len() != 1 {
		t.Error("expected done={f1}")
	}
	if !r.NotDone.Contains(f2) || r.NotDone.Len() != 1 {
		t.Error("expected not_done={f2}")
	}
}

func TestWait_FirstCompletedBlocks(t *testing.T) {
	f1 := New[int]()
	f2 := New[int]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		f2.Start()
		f2.SetResult(2)
	}()

	r := Wait([]*Future[int]{f1, f2}, FirstCompleted)
	if !r.Done.Contains(f2) || r.Done.Len() != 1 {
		t.Error("expected done={f2}")
	}
	if waiterCount(f1) != 0 {
		t.Error("waiter must be removed from the pending future too")
	}
}

func TestWait_FirstException_AlreadyFailed(t *testing.T) {
	f1 := New[int]()
	f2 := New[int]()
	f2.Start()
	f2.SetError(errors.New("boom"))

	start := time.Now()
	r := Wait([]*Future[int]{f1, f2}, FirstException)
	if time.Since(start) > 50*time.Millisecond {
		t.Error("wait must return immediately when a failed future is present")
	}

	if !r.Done.Contains(f2) || r.Done.Len() != 1 {
		t.Error("expected done={f2}")
	}
	if !r.NotDone.Contains(f1) || r.NotDone.Len() != 1 {
		t.Error("expected not_done={f1}")
	}
}

func TestWait_FirstException_FiresOnError(t *testing.T) {
	f1 := New[int]()
	f2 := New[int]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		f2.Start()
		f2.SetError(errors.New("boom"))
	}()

	r := Wait([]*Future[int]{f1, f2}, FirstException)
	if !r.Done.Contains(f2) {
		t.Error("expected the failed future in done")
	}
	if !r.NotDone.Contains(f1) {
		t.Error("expected the pending future in not_done")
	}
}

func TestWait_FirstException_CancelledDoesNotTrigger(t *testing.T) {
	// 取消不算异常:FIRST_EXCEPTION 等到全部完成
	f1 := New[int]()
	f2 := New[int]()
	f2.Cancel()
	f2.Start() // executor observes the cancellation

	go func() {
		time.Sleep(10 * time.Millisecond)
		f1.Start()
		f1.SetResult(1)
	}()

	r := Wait([]*Future[int]{f1, f2}, FirstException)
	if r.Done.Len() != 2 {
		t.Errorf("expected both done, got %d", r.Done.Len())
	}
}

func TestWait_Timeout(t *testing.T) {
	f1 := New[int]()
	f2 := New[int]()

	start := time.Now()
	r := WaitTimeout([]*Future[int]{f1, f2}, 10*time.Millisecond, AllCompleted)
	elapsed := time.Since(start)

	if elapsed < 10*time.Millisecond || elapsed > 500*time.Millisecond {
		t.Errorf("expected a ~10ms wait, took %v", elapsed)
	}
	if !r.Done.IsEmpty() {
		t.Error("expected empty done on timeout")
	}
	if r.NotDone.Len() != 2 {
		t.Errorf("expected both futures not done, got %d", r.NotDone.Len())
	}
	if waiterCount(f1) != 0 || waiterCount(f2) != 0 {
		t.Error("waiters must be removed on the timeout path")
	}
}

func TestWait_ZeroTimeout(t *testing.T) {
	f := New[int]()

	start := time.Now()
	r := WaitTimeout([]*Future[int]{f}, 0, AllCompleted)
	if time.Since(start) > 50*time.Millisecond {
		t.Error("zero timeout must sample without blocking")
	}
	if !r.Done.IsEmpty() || r.NotDone.Len() != 1 {
		t.Error("expected pending future in not_done")
	}
}

func TestWait_EmptyInput(t *testing.T) {
	r := Wait([]*Future[int]{}, AllCompleted)
	if !r.Done.IsEmpty() || !r.NotDone.IsEmpty() {
		t.Error("empty input must produce empty partitions")
	}
}

func TestWait_AlreadyAllDone(t *testing.T) {
	f1 := New[int]()
	f2 := New[int]()
	f1.SetResult(1)
	f2.Cancel()
	f2.Start()

	r := Wait([]*Future[int]{f1, f2}, AllCompleted)
	if r.Done.Len() != 2 || !r.NotDone.IsEmpty() {
		t.Error("expected both futures done")
	}
}

func TestWait_CancelledNotObservedCountsPending(t *testing.T) {
	// 尚未被 executor 观察到的取消按未完成计算
	f1 := New[int]()
	f2 := New[int]()
	f1.SetResult(1)
	f2.Cancel()

	r := WaitTimeout([]*Future[int]{f1, f2}, 10*time.Millisecond, AllCompleted)
	if !r.NotDone.Contains(f2) {
		t.Error("a cancelled-but-unobserved future must count as not done")
	}

	// Executor 观察取消后:立即完成
	f2.Start()
	r = Wait([]*Future[int]{f1, f2}, AllCompleted)
	if r.Done.Len() != 2 {
		t.Error("expected both done after the executor observed the cancel")
	}
}

func TestWait_DuplicateInputs(t *testing.T) {
	f := New[int]()
	f.SetResult(1)

	r := Wait([]*Future[int]{f, f, f}, AllCompleted)
	if r.Done.Len() != 1 {
		t.Errorf("duplicates must be coalesced, got %d", r.Done.Len())
	}
}

func TestWait_OverlappingSetsNoDeadlock(t *testing.T) {
	a := New[int]()
	b := New[int]()
	c := New[int]()

	done := make(chan struct{}, 2)
	go func() {
		Wait([]*Future[int]{a, b}, AllCompleted)
		done <- struct{}{}
	}()
	go func() {
		Wait([]*Future[int]{b, c, a}, AllCompleted)
		done <- struct{}{}
	}()

	time.Sleep(10 * time.Millisecond)
	for _, f := range []*Future[int]{a, b, c} {
		f.Start()
		f.SetResult(1)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("overlapping waits deadlocked")
		}
	}
}

// ============================================================================
// Waiter 内部行为
// ============================================================================

func TestEvent_SetClearWait(t *testing.T) {
	e := newEvent()

	if e.WaitTimeout(0) {
		t.Error("fresh event must be unset")
	}

	e.Set()
	e.Set() // idempotent
	if !e.WaitTimeout(0) {
		t.Error("set event must report set")
	}

	e.Clear()
	if e.WaitTimeout(0) {
		t.Error("cleared event must be unset")
	}

	go func() {
		time.Sleep(5 * time.Millisecond)
		e.Set()
	}()
	if !e.WaitTimeout(time.Second) {
		t.Error("WaitTimeout must observe a later Set")
	}
}

func TestAllCompletedWaiter_StopOnErr(t *testing.T) {
	f := New[int]()

	w := newAllCompletedWaiter[int](3, true)
	w.addException(f)
	if !w.signal().WaitTimeout(0) {
		t.Error("stop-on-exception waiter must fire on the first exception")
	}

	w = newAllCompletedWaiter[int](2, false)
	w.addException(f)
	if w.signal().WaitTimeout(0) {
		t.Error("all-completed waiter must not fire before the count drains")
	}
	w.addResult(f)
	if !w.signal().WaitTimeout(0) {
		t.Error("all-completed waiter must fire when the count reaches zero")
	}
}

func TestAsCompletedWaiter_DrainClearsEvent(t *testing.T) {
	f := New[int]()

	w := newAsCompletedWaiter[int]()
	w.addResult(f)
	if !w.signal().WaitTimeout(0) {
		t.Error("notification must set the event")
	}

	batch := w.drain()
	if len(batch) != 1 || batch[0] != f {
		t.Errorf("expected drained batch [f], got %v", batch)
	}
	if w.signal().WaitTimeout(0) {
		t.Error("drain must clear the event")
	}
	if len(w.drain()) != 0 {
		t.Error("second drain must be empty")
	}
}
