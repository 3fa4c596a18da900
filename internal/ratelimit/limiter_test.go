package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func testRules() map[string]Rule {
	return map[string]Rule{
		"submission": {Limit: 5, Window: time.Hour},
		"idea":       {Limit: 10, Window: time.Hour},
	}
}

func TestAllowFirstRequest(t *testing.T) {
	t.Parallel()

	l := New(testRules())

	d := l.Allow("submission", "203.0.113.5")
	if !d.Allowed {
		t.Fatal("first request should be allowed")
	}
	if d.Count != 1 {
		t.Errorf("Count = %d, want 1", d.Count)
	}
}

func TestAllowUpToLimitThenReject(t *testing.T) {
	t.Parallel()

	l := New(testRules())

	for i := 1; i <= 5; i++ {
		d := l.Allow("submission", "203.0.113.5")
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
		if d.Count != i {
			t.Errorf("request %d: Count = %d, want %d", i, d.Count, i)
		}
	}

	d := l.Allow("submission", "203.0.113.5")
	if d.Allowed {
		t.Fatal("sixth request should be rejected")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Hour {
		t.Errorf("RetryAfter = %v, want in (0, 1h]", d.RetryAfter)
	}
}

func TestCategoriesAreIndependent(t *testing.T) {
	t.Parallel()

	l := New(testRules())

	for i := 0; i < 5; i++ {
		l.Allow("submission", "203.0.113.5")
	}
	if d := l.Allow("submission", "203.0.113.5"); d.Allowed {
		t.Fatal("submission category should be exhausted")
	}

	// Same client, different category: independent counter.
	if d := l.Allow("idea", "203.0.113.5"); !d.Allowed || d.Count != 1 {
		t.Errorf("idea category Allow = %+v, want allowed with count 1", d)
	}
}

func TestClientsAreIndependent(t *testing.T) {
	t.Parallel()

	l := New(testRules())

	for i := 0; i < 5; i++ {
		l.Allow("submission", "203.0.113.5")
	}
	if d := l.Allow("submission", "198.51.100.7"); !d.Allowed || d.Count != 1 {
		t.Errorf("other client Allow = %+v, want allowed with count 1", d)
	}
}

func TestWindowReset(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := func() time.Time { return now }
	l := New(testRules(), WithClock(func() time.Time { return clock() }))

	for i := 0; i < 5; i++ {
		l.Allow("submission", "203.0.113.5")
	}
	if d := l.Allow("submission", "203.0.113.5"); d.Allowed {
		t.Fatal("limit should be exhausted")
	}

	// Just past the reset boundary the window restarts with count 1, not
	// cumulatively.
	clock = func() time.Time { return now.Add(time.Hour + time.Second) }
	d := l.Allow("submission", "203.0.113.5")
	if !d.Allowed {
		t.Fatal("request after window expiry should be allowed")
	}
	if d.Count != 1 {
		t.Errorf("Count after reset = %d, want 1", d.Count)
	}
}

func TestUnknownCategoryPassesThrough(t *testing.T) {
	t.Parallel()

	l := New(testRules())

	for i := 0; i < 100; i++ {
		if d := l.Allow("unconfigured", "203.0.113.5"); !d.Allowed {
			t.Fatal("unconfigured category must never reject")
		}
	}
	if l.Len() != 0 {
		t.Errorf("unconfigured category should not create entries, got %d", l.Len())
	}
}

func TestDisabledBypassesLimit(t *testing.T) {
	t.Parallel()

	l := New(testRules(), Disabled(true))

	for i := 0; i < 50; i++ {
		if d := l.Allow("submission", "203.0.113.5"); !d.Allowed {
			t.Fatal("disabled limiter must allow everything")
		}
	}
}

// TestConcurrentExactness fires limit+K simultaneous requests for a fresh key
// and requires exactly limit admissions: the read-check-increment sequence
// must be atomic under the mutex.
func TestConcurrentExactness(t *testing.T) {
	t.Parallel()

	const limit = 5
	const extra = 20
	l := New(map[string]Rule{"submission": {Limit: limit, Window: time.Hour}})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed, rejected := 0, 0

	start := make(chan struct{})
	for i := 0; i < limit+extra; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			d := l.Allow("submission", "203.0.113.5")
			mu.Lock()
			if d.Allowed {
				allowed++
			} else {
				rejected++
			}
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	if allowed != limit {
		t.Errorf("allowed = %d, want %d", allowed, limit)
	}
	if rejected != extra {
		t.Errorf("rejected = %d, want %d", rejected, extra)
	}
}

func TestSweepRemovesExpiredEntries(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := func() time.Time { return now }
	l := New(testRules(), WithClock(func() time.Time { return clock() }))

	l.Allow("submission", "203.0.113.5")
	l.Allow("idea", "198.51.100.7")
	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}

	clock = func() time.Time { return now.Add(2 * time.Hour) }
	if removed := l.removeExpired(); removed != 2 {
		t.Errorf("removeExpired = %d, want 2", removed)
	}
	if l.Len() != 0 {
		t.Errorf("Len after sweep = %d, want 0", l.Len())
	}
}

func TestSweepKeepsLiveEntries(t *testing.T) {
	t.Parallel()

	l := New(testRules())
	l.Allow("submission", "203.0.113.5")

	if removed := l.removeExpired(); removed != 0 {
		t.Errorf("removeExpired = %d, want 0", removed)
	}
	if l.Len() != 1 {
		t.Errorf("Len = %d, want 1", l.Len())
	}
}
