package metro

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// mockNotifier records delivered events and can be told to fail the first n
// delivery attempts.
type mockNotifier struct {
	mu        sync.Mutex
	id        string
	events    []MoveEvent
	failFirst int
	attempts  int
	closed    bool
}

func newMockNotifier(id string) *mockNotifier {
	return &mockNotifier{id: id}
}

func (m *mockNotifier) ID() string   { return m.id }
func (m *mockNotifier) Type() string { return "mock" }

func (m *mockNotifier) Notify(ctx context.Context, event MoveEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.attempts <= m.failFirst {
		return errors.New("simulated delivery failure")
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockNotifier) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockNotifier) delivered() []MoveEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MoveEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *mockNotifier) waitForEvents(t *testing.T, n int) []MoveEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if events := m.delivered(); len(events) >= n {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, have %d", n, len(m.delivered()))
	return nil
}

func TestNotificationManager_RegisterNotifier(t *testing.T) {
	mgr := NewNotificationManager()
	defer mgr.Close()

	n := newMockNotifier("n1")
	if err := mgr.RegisterNotifier(n); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := mgr.RegisterNotifier(n); err == nil {
		t.Error("expected error registering a duplicate ID")
	}
	if err := mgr.RegisterNotifier(nil); err == nil {
		t.Error("expected error registering nil")
	}
	if err := mgr.RegisterNotifier(newMockNotifier("")); err == nil {
		t.Error("expected error registering an empty ID")
	}

	got, ok := mgr.GetNotifier("n1")
	if !ok || got != Notifier(n) {
		t.Error("GetNotifier did not return the registered notifier")
	}
}

func TestNotificationManager_UnregisterNotifier(t *testing.T) {
	mgr := NewNotificationManager()
	defer mgr.Close()

	n := newMockNotifier("n1")
	if err := mgr.RegisterNotifier(n); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := mgr.UnregisterNotifier("n1"); err != nil {
		t.Fatalf("unregister failed: %v", err)
	}
	if !n.closed {
		t.Error("unregister should close the notifier")
	}
	if _, ok := mgr.GetNotifier("n1"); ok {
		t.Error("notifier still retrievable after unregister")
	}
	if err := mgr.UnregisterNotifier("n1"); err == nil {
		t.Error("expected error unregistering an unknown ID")
	}
}

func TestNotificationManager_ListNotifiers(t *testing.T) {
	mgr := NewNotificationManager()
	defer mgr.Close()

	for _, id := range []string{"a", "b", "c"} {
		if err := mgr.RegisterNotifier(newMockNotifier(id)); err != nil {
			t.Fatalf("register %s failed: %v", id, err)
		}
	}
	ids := mgr.ListNotifiers()
	if len(ids) != 3 {
		t.Errorf("expected 3 notifier IDs, got %v", ids)
	}
}

func TestNotificationManager_EnqueueDelivers(t *testing.T) {
	mgr := NewNotificationManager()
	defer mgr.Close()

	n := newMockNotifier("n1")
	if err := mgr.RegisterNotifier(n); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	event := MoveEvent{RunID: "run", Move: 1, Phase: MoveProposed, MoleculeIndex: 2}
	mgr.Enqueue(event, []string{"n1"})

	events := n.waitForEvents(t, 1)
	if events[0].Move != 1 || events[0].Phase != MoveProposed || events[0].MoleculeIndex != 2 {
		t.Errorf("delivered event = %+v", events[0])
	}
}

func TestNotificationManager_EnqueueWithoutTargetsIsNoOp(t *testing.T) {
	mgr := NewNotificationManager()
	defer mgr.Close()

	n := newMockNotifier("n1")
	if err := mgr.RegisterNotifier(n); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	mgr.Enqueue(MoveEvent{RunID: "run"}, nil)

	time.Sleep(50 * time.Millisecond)
	if len(n.delivered()) != 0 {
		t.Error("event without targets should not be delivered")
	}
}

func TestNotificationManager_RetriesFailedDeliveries(t *testing.T) {
	mgr := NewNotificationManager()
	defer mgr.Close()

	n := newMockNotifier("flaky")
	n.failFirst = 2
	if err := mgr.RegisterNotifier(n); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	mgr.Enqueue(MoveEvent{RunID: "run", Move: 9}, []string{"flaky"})

	events := n.waitForEvents(t, 1)
	if events[0].Move != 9 {
		t.Errorf("delivered event = %+v", events[0])
	}
	n.mu.Lock()
	attempts := n.attempts
	n.mu.Unlock()
	if attempts != 3 {
		t.Errorf("expected 3 delivery attempts, got %d", attempts)
	}
}

func TestNotificationManager_Close(t *testing.T) {
	mgr := NewNotificationManager()
	n := newMockNotifier("n1")
	if err := mgr.RegisterNotifier(n); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := mgr.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !n.closed {
		t.Error("close should close registered notifiers")
	}

	// Idempotent, and enqueue after close is a silent no-op.
	if err := mgr.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
	mgr.Enqueue(MoveEvent{RunID: "run"}, []string{"n1"})
}

func TestNotificationManager_EnqueueDuringClose(t *testing.T) {
	// Enqueue racing Close must never send on the closed jobs channel.
	for _i := 0; _i < 20; _i++ {
		mgr := NewNotificationManager()
		n := newMockNotifier("n1")
		if err := mgr.RegisterNotifier(n); err != nil {
			t.Fatalf("register failed: %v", err)
		}

		var wg sync.WaitGroup
		start := make(chan struct{})
		for _i := 0; _i < 4; _i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for i := 0; i < 50; i++ {
					mgr.Enqueue(MoveEvent{RunID: "run", Move: int64(i)}, []string{"n1"})
				}
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if err := mgr.Close(); err != nil {
				t.Errorf("close failed: %v", err)
			}
		}()

		close(start)
		wg.Wait()
	}
}

func TestSerialBox_EmitsMoveEvents(t *testing.T) {
	sys := newTestSystem(2, 1.0, 20)
	box := NewSerialBox(sys, NewRandSource(4), nil)

	mgr := NewNotificationManager()
	defer mgr.Close()
	n := newMockNotifier("sink")
	if err := mgr.RegisterNotifier(n); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	box.SetNotificationManager(mgr, []string{"sink"})

	if _, err := box.ProposeMove(1); err != nil {
		t.Fatalf("ProposeMove failed: %v", err)
	}
	if err := box.Rollback(1); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	events := n.waitForEvents(t, 2)
	if events[0].Phase != MoveProposed || events[0].MoleculeIndex != 1 {
		t.Errorf("first event = %+v, want proposed for molecule 1", events[0])
	}
	if events[1].Phase != MoveRolledBack || events[1].MoleculeIndex != 1 {
		t.Errorf("second event = %+v, want rolled_back for molecule 1", events[1])
	}
	if events[0].RunID != box.RunID() {
		t.Errorf("event run ID %q does not match the box's %q", events[0].RunID, box.RunID())
	}
}

func TestMoveEvent_JSON(t *testing.T) {
	event := MoveEvent{
		RunID:         "run",
		Move:          3,
		Phase:         MoveProposed,
		MoleculeIndex: 1,
		MoleculeID:    7,
		PivotAtom:     2,
		Deltas:        [3]float64{0.1, -0.2, 0.3},
		Degrees:       [3]float64{5, -10, 15},
		Timestamp:     1700000000,
	}
	data, err := event.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	for _, want := range []string{`"run_id":"run"`, `"phase":"proposed"`, `"pivot_atom":2`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %q", data, want)
		}
	}
}
