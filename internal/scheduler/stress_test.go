package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerStressConcurrentArmDisarm(t *testing.T) {
	ticker := NewTicker(time.Millisecond, 4096)
	ticker.Start()
	defer ticker.Stop()

	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if (w+i)%2 == 0 {
					if _, err := ticker.Arm(); err != nil {
						t.Errorf("arm failed: %v", err)
						return
					}
					continue
				}
				ticker.Disarm()
			}
		}()
	}
	wg.Wait()
	ticker.Disarm()

	var stale int64
	deadline := time.After(50 * time.Millisecond)
	for done := false; !done; {
		select {
		case tick := <-ticker.C():
			if ticker.Current(tick) {
				t.Fatalf("tick %+v current after final disarm", tick)
			}
			atomic.AddInt64(&stale, 1)
		case <-deadline:
			done = true
		}
	}

	gen, err := ticker.Arm()
	if err != nil {
		t.Fatalf("Arm: %v", err)
	}
	tick := waitTick(t, ticker.C(), time.Second)
	for tick.Gen != gen {
		tick = waitTick(t, ticker.C(), time.Second)
	}
	if !ticker.Current(tick) {
		t.Fatalf("expected live tick after final arm, stale=%d", stale)
	}
}
