package model

import (
	"fmt"
	"slices"
)

func (w *Workspace) checkIndex(index int) error {
	if index < 0 || index >= len(w.CurrentTasks()) {
		return fmt.Errorf("%w: task index %d", ErrNotFound, index)
	}
	return nil
}

// AddTask appends a task to the current list. amount is interpreted in unit.
func (w *Workspace) AddTask(name string, amount int, unit TimeUnit) (Task, error) {
	if !unit.IsValid() {
		return Task{}, fmt.Errorf("%w: unknown time unit %q", ErrValidation, unit)
	}
	if amount <= 0 {
		return Task{}, fmt.Errorf("%w: amount must be positive, got %d", ErrValidation, amount)
	}
	if amount > unit.MaxAmount() {
		return Task{}, fmt.Errorf("%w: at most %d %s", ErrValidation, unit.MaxAmount(), unit)
	}
	task, err := NewTask(name, unit.Seconds(amount))
	if err != nil {
		return Task{}, err
	}
	w.Lists[w.CurrentList] = append(w.CurrentTasks(), task)
	return task, nil
}

// AppendTasks adds tasks to the current list as-is.
func (w *Workspace) AppendTasks(tasks []Task) {
	w.Lists[w.CurrentList] = append(w.CurrentTasks(), tasks...)
}

// EditTask renames a task and sets a new duration; remaining time is reset
// to the new duration.
func (w *Workspace) EditTask(index int, name string, durationSeconds int) error {
	if err := w.checkIndex(index); err != nil {
		return err
	}
	edited, err := NewTask(name, durationSeconds)
	if err != nil {
		return err
	}
	tasks := w.CurrentTasks()
	edited.Enabled = tasks[index].Enabled
	tasks[index] = edited
	return nil
}

// RemoveTask deletes a task. The current index keeps pointing at the same
// task, or at the one that slid into place when the current task is removed.
func (w *Workspace) RemoveTask(index int) (Task, error) {
	if err := w.checkIndex(index); err != nil {
		return Task{}, err
	}
	tasks := w.CurrentTasks()
	removed := tasks[index]
	w.Lists[w.CurrentList] = slices.Delete(tasks, index, index+1)
	if index < w.CurrentTaskIndex {
		w.CurrentTaskIndex--
	}
	if len(w.CurrentTasks()) == 0 {
		w.CurrentTaskIndex = 0
	}
	return removed, nil
}

// MoveTask moves the task at from to position to; the current index follows
// the task it pointed at.
func (w *Workspace) MoveTask(from, to int) error {
	if err := w.checkIndex(from); err != nil {
		return err
	}
	if err := w.checkIndex(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	tasks := w.CurrentTasks()
	moved := tasks[from]
	tasks = slices.Delete(tasks, from, from+1)
	tasks = slices.Insert(tasks, to, moved)
	w.Lists[w.CurrentList] = tasks

	cur := w.CurrentTaskIndex
	switch {
	case cur == from:
		w.CurrentTaskIndex = to
	case from < cur && to >= cur:
		w.CurrentTaskIndex--
	case from > cur && to <= cur:
		w.CurrentTaskIndex++
	}
	return nil
}

func (w *Workspace) SetTaskEnabled(index int, enabled bool) error {
	if err := w.checkIndex(index); err != nil {
		return err
	}
	w.CurrentTasks()[index].Enabled = enabled
	return nil
}

// ResetAll is the full-list reset: every remaining time restored and the
// index back to 0.
func (w *Workspace) ResetAll() {
	tasks := w.CurrentTasks()
	for i := range tasks {
		tasks[i].Reset()
	}
	w.CurrentTaskIndex = 0
}

// FirstEnabledFrom returns the first enabled task index at or after from, or
// -1 when there is none.
func (w *Workspace) FirstEnabledFrom(from int) int {
	if from < 0 {
		from = 0
	}
	tasks := w.CurrentTasks()
	for i := from; i < len(tasks); i++ {
		if tasks[i].Enabled {
			return i
		}
	}
	return -1
}

// NextEnabledAfter scans strictly forward from index.
func (w *Workspace) NextEnabledAfter(index int) int {
	return w.FirstEnabledFrom(index + 1)
}

// ActiveTask returns the task at the current index, if any.
func (w *Workspace) ActiveTask() (*Task, bool) {
	tasks := w.CurrentTasks()
	if w.CurrentTaskIndex < 0 || w.CurrentTaskIndex >= len(tasks) {
		return nil, false
	}
	return &tasks[w.CurrentTaskIndex], true
}
