package model

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func mustAdd(t *testing.T, ws *Workspace, name string, seconds int) {
	t.Helper()
	if _, err := ws.AddTask(name, seconds, UnitSeconds); err != nil {
		t.Fatalf("AddTask(%q): %v", name, err)
	}
}

func taskNames(ws *Workspace) []string {
	out := make([]string, 0, len(ws.CurrentTasks()))
	for _, task := range ws.CurrentTasks() {
		out = append(out, task.Name)
	}
	return out
}

func TestNewWorkspaceDefaults(t *testing.T) {
	ws := NewWorkspace()
	if ws.CurrentList != DefaultListName || !slices.Equal(ws.ListOrder, []string{DefaultListName}) {
		t.Fatalf("unexpected workspace: %+v", ws)
	}
	if ws.CurrentConfig().NotificationMode != ModeNameAndDurationOnStart {
		t.Fatal("expected default config for default list")
	}
}

func TestCreateList(t *testing.T) {
	ws := NewWorkspace()
	if err := ws.CreateList("Work", false); err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	if ws.CurrentList != DefaultListName {
		t.Fatalf("expected current to stay default, got %q", ws.CurrentList)
	}
	if err := ws.CreateList("Work", true); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if err := ws.CreateList("  ", true); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := ws.CreateList("work", true); err != nil {
		t.Fatalf("names are case-sensitive, got %v", err)
	}
	if ws.CurrentList != "work" || !slices.Equal(ws.ListOrder, []string{"default", "Work", "work"}) {
		t.Fatalf("unexpected state: current=%q order=%v", ws.CurrentList, ws.ListOrder)
	}
}

func TestRenameList(t *testing.T) {
	ws := NewWorkspace()
	_ = ws.CreateList("Work", false)
	ws.GetOrCreateConfig(DefaultListName).BeepEnabled = false

	if err := ws.RenameList(DefaultListName, DefaultListName); err != nil {
		t.Fatalf("rename to same name should be a no-op, got %v", err)
	}
	if err := ws.RenameList(DefaultListName, "Work"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if err := ws.RenameList(DefaultListName, "Home"); err != nil {
		t.Fatalf("RenameList: %v", err)
	}
	if ws.CurrentList != "Home" || !slices.Equal(ws.ListOrder, []string{"Home", "Work"}) {
		t.Fatalf("unexpected state: current=%q order=%v", ws.CurrentList, ws.ListOrder)
	}
	if ws.GetOrCreateConfig("Home").BeepEnabled {
		t.Fatal("expected config to move with the list")
	}
	if _, ok := ws.Configs[DefaultListName]; ok {
		t.Fatal("expected old config to be removed")
	}
}

func TestDeleteList(t *testing.T) {
	ws := NewWorkspace()
	if err := ws.DeleteList(DefaultListName); !errors.Is(err, ErrLastList) {
		t.Fatalf("expected ErrLastList, got %v", err)
	}
	if !ws.HasList(DefaultListName) || len(ws.ListOrder) != 1 {
		t.Fatal("deleting the only list must leave the workspace unchanged")
	}

	_ = ws.CreateList("Work", false)
	_ = ws.CreateList("Home", false)
	if err := ws.DeleteList(DefaultListName); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}
	if ws.CurrentList != "Work" || !slices.Equal(ws.ListOrder, []string{"Work", "Home"}) {
		t.Fatalf("unexpected state: current=%q order=%v", ws.CurrentList, ws.ListOrder)
	}
	if _, ok := ws.Configs[DefaultListName]; ok {
		t.Fatal("expected config to be deleted")
	}
	if err := ws.DeleteList("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReorderLists(t *testing.T) {
	ws := NewWorkspace()
	_ = ws.CreateList("A", false)
	_ = ws.CreateList("B", false)

	bad := [][]string{
		{"A", "B"},
		{"A", "B", "B"},
		{"A", "B", "C"},
	}
	for _, order := range bad {
		if err := ws.ReorderLists(order); !errors.Is(err, ErrInvalidOrder) {
			t.Fatalf("ReorderLists(%v): expected ErrInvalidOrder, got %v", order, err)
		}
	}
	if err := ws.ReorderLists([]string{"B", "default", "A"}); err != nil {
		t.Fatalf("ReorderLists: %v", err)
	}
	if !slices.Equal(ws.ListOrder, []string{"B", "default", "A"}) {
		t.Fatalf("unexpected order %v", ws.ListOrder)
	}
}

func TestSwitchListResetsIndex(t *testing.T) {
	ws := NewWorkspace()
	mustAdd(t, ws, "a", 5)
	mustAdd(t, ws, "b", 5)
	ws.CurrentTaskIndex = 1
	_ = ws.CreateList("Work", false)
	if err := ws.SwitchList("Work"); err != nil {
		t.Fatalf("SwitchList: %v", err)
	}
	if ws.CurrentTaskIndex != 0 || ws.CurrentList != "Work" {
		t.Fatalf("unexpected state: %q %d", ws.CurrentList, ws.CurrentTaskIndex)
	}
	if ws.Lists[DefaultListName][1].RemainingSeconds != 5 {
		t.Fatal("switching must not touch the other list's tasks")
	}
}

func TestSubstituteCurrentKeepsPosition(t *testing.T) {
	ws := NewWorkspace()
	_ = ws.CreateList("Home", false)
	ws.SetListTasks("Work", nil)
	if err := ws.SubstituteCurrent("Work"); err != nil {
		t.Fatalf("SubstituteCurrent: %v", err)
	}
	if !slices.Equal(ws.ListOrder, []string{"Work", "Home"}) || ws.CurrentList != "Work" {
		t.Fatalf("unexpected state: current=%q order=%v", ws.CurrentList, ws.ListOrder)
	}
	if ws.HasList(DefaultListName) {
		t.Fatal("expected previous current list to be deleted")
	}
}

func TestRepair(t *testing.T) {
	ws := &Workspace{
		Lists: map[string][]Task{
			"b": {{Name: "x", DurationSeconds: 10, RemainingSeconds: 40}},
			"a": nil,
			"c": {},
		},
		Configs:     map[string]*ListConfiguration{"ghost": newDefaultConfig(), "b": {NotificationMode: "bogus"}},
		ListOrder:   []string{"c", "missing", "c"},
		CurrentList: "nope",
	}
	ws.Repair()
	if !slices.Equal(ws.ListOrder, []string{"c", "a", "b"}) {
		t.Fatalf("unexpected order %v", ws.ListOrder)
	}
	if ws.CurrentList != "c" {
		t.Fatalf("expected fallback to first list, got %q", ws.CurrentList)
	}
	if _, ok := ws.Configs["ghost"]; ok {
		t.Fatal("expected orphan config removed")
	}
	if ws.Configs["a"] == nil || ws.Configs["b"].NotificationMode != ModeNameAndDurationOnStart {
		t.Fatal("expected configs repaired")
	}
	if ws.Lists["b"][0].RemainingSeconds != 10 {
		t.Fatalf("expected remaining clamped, got %d", ws.Lists["b"][0].RemainingSeconds)
	}

	empty := &Workspace{}
	empty.Repair()
	if empty.CurrentList != DefaultListName || len(empty.ListOrder) != 1 {
		t.Fatalf("expected default list, got %+v", empty)
	}
}

func TestAddTaskUnits(t *testing.T) {
	ws := NewWorkspace()
	task, err := ws.AddTask("Deep work", 2, UnitHours)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.DurationSeconds != 7200 || task.RemainingSeconds != 7200 {
		t.Fatalf("unexpected task %+v", task)
	}
	if _, err := ws.AddTask("Nap", 0, UnitMinutes); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := ws.AddTask("", 5, UnitMinutes); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := ws.AddTask("Forever", 9999999999999999, UnitHours); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for an oversized amount, got %v", err)
	}
	if task, err := ws.AddTask("Long", 999, UnitHours); err != nil || task.DurationSeconds != MaxDurationSeconds {
		t.Fatalf("999h should fit exactly, got %+v, %v", task, err)
	}
	if len(ws.CurrentTasks()) != 2 {
		t.Fatalf("failed adds must not change the list, have %d tasks", len(ws.CurrentTasks()))
	}
}

func TestEditTaskResetsRemaining(t *testing.T) {
	ws := NewWorkspace()
	mustAdd(t, ws, "a", 60)
	ws.CurrentTasks()[0].RemainingSeconds = 12
	ws.CurrentTasks()[0].Enabled = false
	if err := ws.EditTask(0, "b", 120); err != nil {
		t.Fatalf("EditTask: %v", err)
	}
	got := ws.CurrentTasks()[0]
	if got.Name != "b" || got.DurationSeconds != 120 || got.RemainingSeconds != 120 || got.Enabled {
		t.Fatalf("unexpected task %+v", got)
	}
	if err := ws.EditTask(3, "c", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveTaskTracksIndex(t *testing.T) {
	ws := NewWorkspace()
	for _, n := range []string{"a", "b", "c", "d"} {
		mustAdd(t, ws, n, 5)
	}
	ws.CurrentTaskIndex = 2

	if _, err := ws.RemoveTask(0); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}
	if ws.CurrentTaskIndex != 1 || ws.CurrentTasks()[1].Name != "c" {
		t.Fatalf("expected index to follow c, got %d", ws.CurrentTaskIndex)
	}
	if _, err := ws.RemoveTask(1); err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}
	if ws.CurrentTaskIndex != 1 || ws.CurrentTasks()[1].Name != "d" {
		t.Fatalf("expected d to slide into place, got %d %v", ws.CurrentTaskIndex, taskNames(ws))
	}
	_, _ = ws.RemoveTask(1)
	_, _ = ws.RemoveTask(0)
	if ws.CurrentTaskIndex != 0 || len(ws.CurrentTasks()) != 0 {
		t.Fatalf("expected empty list at index 0, got %d", ws.CurrentTaskIndex)
	}
}

func TestMoveTaskTracksIndex(t *testing.T) {
	cases := []struct {
		from, to, cur, want int
	}{
		{from: 1, to: 0, cur: 1, want: 0},
		{from: 0, to: 1, cur: 1, want: 0},
		{from: 2, to: 0, cur: 1, want: 2},
		{from: 0, to: 3, cur: 2, want: 1},
		{from: 3, to: 2, cur: 0, want: 0},
		{from: 2, to: 0, cur: 0, want: 1},
	}
	for _, tc := range cases {
		ws := NewWorkspace()
		for _, n := range []string{"a", "b", "c", "d"} {
			mustAdd(t, ws, n, 5)
		}
		ws.CurrentTaskIndex = tc.cur
		curName := ws.CurrentTasks()[tc.cur].Name
		if err := ws.MoveTask(tc.from, tc.to); err != nil {
			t.Fatalf("MoveTask(%d, %d): %v", tc.from, tc.to, err)
		}
		if ws.CurrentTaskIndex != tc.want {
			t.Fatalf("MoveTask(%d, %d) with cur %d: index %d, want %d", tc.from, tc.to, tc.cur, ws.CurrentTaskIndex, tc.want)
		}
		if ws.CurrentTasks()[ws.CurrentTaskIndex].Name != curName {
			t.Fatalf("index no longer points at %q: %v", curName, taskNames(ws))
		}
	}
	ws := NewWorkspace()
	mustAdd(t, ws, "a", 5)
	if err := ws.MoveTask(0, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnabledScanning(t *testing.T) {
	ws := NewWorkspace()
	for _, n := range []string{"a", "b", "c"} {
		mustAdd(t, ws, n, 5)
	}
	_ = ws.SetTaskEnabled(0, false)
	_ = ws.SetTaskEnabled(2, false)
	if got := ws.FirstEnabledFrom(0); got != 1 {
		t.Fatalf("FirstEnabledFrom(0) = %d", got)
	}
	if got := ws.NextEnabledAfter(1); got != -1 {
		t.Fatalf("NextEnabledAfter(1) = %d", got)
	}
}

func TestProjection(t *testing.T) {
	ws := NewWorkspace()
	mustAdd(t, ws, "Write", 300)
	mustAdd(t, ws, "Skip me", 600)
	mustAdd(t, ws, "Review", 120)
	ws.CurrentTasks()[0].RemainingSeconds = 250
	_ = ws.SetTaskEnabled(1, false)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := ws.Project(RunRunning, now)
	if p.State != RunRunning || len(p.Tasks) != 3 || !p.Tasks[0].Current || p.Tasks[1].Current {
		t.Fatalf("unexpected projection: %+v", p)
	}
	if p.Tasks[0].ProgressText != "16.67%" || p.Tasks[0].Remaining != "4m 10s" {
		t.Fatalf("unexpected task view: %+v", p.Tasks[0])
	}
	if p.Summary != "Current: Write, 5m 0s total, 4m 10s left" {
		t.Fatalf("unexpected summary %q", p.Summary)
	}
	// 250 + 120 seconds, the disabled task is excluded.
	if p.EstimatedFinish != "Estimated Finish: 2026-03-01 09:06" {
		t.Fatalf("unexpected estimate %q", p.EstimatedFinish)
	}

	ws.CurrentTaskIndex = 3
	if got := ws.EstimateText(now); got != NoEstimateText {
		t.Fatalf("unexpected estimate %q", got)
	}
	if ws.Summary() != NoActiveTaskText {
		t.Fatalf("unexpected summary %q", ws.Summary())
	}
}

func TestCloneIsDeep(t *testing.T) {
	ws := NewWorkspace()
	mustAdd(t, ws, "a", 5)
	cp := ws.Clone()
	cp.CurrentTasks()[0].Name = "changed"
	cp.CurrentConfig().BeepEnabled = false
	cp.ListOrder[0] = "x"
	if ws.CurrentTasks()[0].Name != "a" || !ws.CurrentConfig().BeepEnabled || ws.ListOrder[0] != DefaultListName {
		t.Fatal("clone shares state with original")
	}
}
