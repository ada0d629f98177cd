package model

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/timetally/internal/timefmt"
)

const (
	NoEstimateText   = "All tasks completed or no tasks available."
	NoActiveTaskText = "No active task."
	EstimateLayout   = "2006-01-02 15:04"
)

type RunState string

const (
	RunIdle    RunState = "Idle"
	RunRunning RunState = "Running"
	RunPaused  RunState = "Paused"
)

type TaskView struct {
	Index            int     `json:"index"`
	Name             string  `json:"name"`
	DurationSeconds  int     `json:"durationSeconds"`
	RemainingSeconds int     `json:"remainingSeconds"`
	Enabled          bool    `json:"enabled"`
	Current          bool    `json:"current"`
	Duration         string  `json:"duration"`
	Remaining        string  `json:"remaining"`
	Clock            string  `json:"clock"`
	Progress         float64 `json:"progress"`
	ProgressText     string  `json:"progressText"`
}

// Projection is the read-only view handed to renderers.
type Projection struct {
	Lists            []string          `json:"lists"`
	CurrentList      string            `json:"currentList"`
	CurrentTaskIndex int               `json:"currentTaskIndex"`
	State            RunState          `json:"state"`
	Tasks            []TaskView        `json:"tasks"`
	Config           ListConfiguration `json:"config"`
	Summary          string            `json:"summary"`
	EstimatedFinish  string            `json:"estimatedFinish"`
}

func ProgressText(t Task) string {
	return fmt.Sprintf("%.2f%%", t.Elapsed()*100)
}

// Summary describes the active task, or NoActiveTaskText.
func (w *Workspace) Summary() string {
	task, ok := w.ActiveTask()
	if !ok {
		return NoActiveTaskText
	}
	return fmt.Sprintf("Current: %s, %s total, %s left",
		task.Name, timefmt.Format(task.DurationSeconds), timefmt.Format(task.RemainingSeconds))
}

// RemainingFromCurrent sums the remaining seconds of enabled tasks from the
// current index on. ok is false when no such task exists.
func (w *Workspace) RemainingFromCurrent() (total int, ok bool) {
	tasks := w.CurrentTasks()
	for i := w.CurrentTaskIndex; i >= 0 && i < len(tasks); i++ {
		if !tasks[i].Enabled {
			continue
		}
		total += tasks[i].RemainingSeconds
		ok = true
	}
	return total, ok
}

func (w *Workspace) EstimatedFinish(now time.Time) (time.Time, bool) {
	total, ok := w.RemainingFromCurrent()
	if !ok {
		return time.Time{}, false
	}
	return now.Add(time.Duration(total) * time.Second), true
}

func (w *Workspace) EstimateText(now time.Time) string {
	finish, ok := w.EstimatedFinish(now)
	if !ok {
		return NoEstimateText
	}
	return "Estimated Finish: " + finish.Format(EstimateLayout)
}

func (w *Workspace) Project(state RunState, now time.Time) Projection {
	tasks := w.CurrentTasks()
	views := make([]TaskView, 0, len(tasks))
	for i, t := range tasks {
		views = append(views, TaskView{
			Index:            i,
			Name:             t.Name,
			DurationSeconds:  t.DurationSeconds,
			RemainingSeconds: t.RemainingSeconds,
			Enabled:          t.Enabled,
			Current:          i == w.CurrentTaskIndex,
			Duration:         timefmt.Format(t.DurationSeconds),
			Remaining:        timefmt.Format(t.RemainingSeconds),
			Clock:            timefmt.Clock(t.RemainingSeconds),
			Progress:         t.Elapsed(),
			ProgressText:     ProgressText(t),
		})
	}
	cfg := *w.CurrentConfig()
	return Projection{
		Lists:            append([]string(nil), w.ListOrder...),
		CurrentList:      w.CurrentList,
		CurrentTaskIndex: w.CurrentTaskIndex,
		State:            state,
		Tasks:            views,
		Config:           cfg,
		Summary:          w.Summary(),
		EstimatedFinish:  w.EstimateText(now),
	}
}
