package scheduler

import (
	"testing"
	"time"
)

func TestTickerEmitsOnlyWhileArmed(t *testing.T) {
	ticker := NewTicker(10*time.Millisecond, 8)
	ticker.Start()
	defer ticker.Stop()

	select {
	case tick := <-ticker.C():
		t.Fatalf("unexpected tick while disarmed: %+v", tick)
	case <-time.After(40 * time.Millisecond):
	}

	gen, err := ticker.Arm()
	if err != nil {
		t.Fatalf("Arm: %v", err)
	}
	tick := waitTick(t, ticker.C(), time.Second)
	if tick.Gen != gen || !ticker.Current(tick) {
		t.Fatalf("expected tick of generation %d, got %+v", gen, tick)
	}
}

func TestTickerDisarmMakesBufferedTicksStale(t *testing.T) {
	ticker := NewTicker(5*time.Millisecond, 8)
	ticker.Start()
	defer ticker.Stop()

	if _, err := ticker.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	ticker.Disarm()

	drained := 0
	for {
		select {
		case tick := <-ticker.C():
			drained++
			if ticker.Current(tick) {
				t.Fatalf("tick %+v still current after disarm", tick)
			}
			continue
		case <-time.After(30 * time.Millisecond):
		}
		break
	}
	if drained == 0 {
		t.Fatal("expected ticks buffered before disarm")
	}
}

func TestTickerRearmInvalidatesOldGeneration(t *testing.T) {
	ticker := NewTicker(time.Hour, 1)
	first, _ := ticker.Arm()
	second, _ := ticker.Arm()
	if ticker.Current(Tick{Gen: first}) || !ticker.Current(Tick{Gen: second}) {
		t.Fatalf("unexpected generations %d %d", first, second)
	}
}

func TestTickerDropsWhenConsumerIsSlow(t *testing.T) {
	ticker := NewTicker(2*time.Millisecond, 1)
	ticker.Start()
	defer ticker.Stop()
	if _, err := ticker.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if ticker.Dropped() == 0 {
		t.Fatalf("expected dropped ticks > 0, got %d", ticker.Dropped())
	}
}

func TestTickerStopClosesChannel(t *testing.T) {
	ticker := NewTicker(time.Hour, 1)
	ticker.Start()
	ticker.Stop()
	ticker.Stop()
	if _, ok := <-ticker.C(); ok {
		t.Fatal("expected closed channel after stop")
	}
	if _, err := ticker.Arm(); err != ErrTickerStopped {
		t.Fatalf("expected ErrTickerStopped, got %v", err)
	}
}

func waitTick(t *testing.T, ch <-chan Tick, timeout time.Duration) Tick {
	t.Helper()
	select {
	case tick := <-ch:
		return tick
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for tick")
		return Tick{}
	}
}
