package model

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

const DefaultListName = "default"

// Workspace is the root aggregate: every list, its configuration, the tab
// order and the scheduler cursor. It is not safe for concurrent use; callers
// serialize access (see internal/session).
type Workspace struct {
	Lists            map[string][]Task
	Configs          map[string]*ListConfiguration
	ListOrder        []string
	CurrentList      string
	CurrentTaskIndex int
}

func NewWorkspace() *Workspace {
	return &Workspace{
		Lists:       map[string][]Task{DefaultListName: {}},
		Configs:     map[string]*ListConfiguration{DefaultListName: newDefaultConfig()},
		ListOrder:   []string{DefaultListName},
		CurrentList: DefaultListName,
	}
}

func (w *Workspace) HasList(name string) bool {
	_, ok := w.Lists[name]
	return ok
}

func (w *Workspace) CurrentTasks() []Task {
	return w.Lists[w.CurrentList]
}

// GetOrCreateConfig returns the configuration for name, inserting the
// default first if the list has none yet.
func (w *Workspace) GetOrCreateConfig(name string) *ListConfiguration {
	if w.Configs == nil {
		w.Configs = make(map[string]*ListConfiguration)
	}
	cfg, ok := w.Configs[name]
	if !ok || cfg == nil {
		cfg = newDefaultConfig()
		w.Configs[name] = cfg
	}
	return cfg
}

func (w *Workspace) CurrentConfig() *ListConfiguration {
	return w.GetOrCreateConfig(w.CurrentList)
}

func normalizeListName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: list name is required", ErrValidation)
	}
	return trimmed, nil
}

func (w *Workspace) CreateList(name string, makeCurrent bool) error {
	name, err := normalizeListName(name)
	if err != nil {
		return err
	}
	if w.HasList(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	w.Lists[name] = []Task{}
	w.Configs[name] = newDefaultConfig()
	w.ListOrder = append(w.ListOrder, name)
	if makeCurrent {
		w.CurrentList = name
		w.CurrentTaskIndex = 0
	}
	return nil
}

func (w *Workspace) RenameList(oldName, newName string) error {
	if !w.HasList(oldName) {
		return fmt.Errorf("%w: list %q", ErrNotFound, oldName)
	}
	newName, err := normalizeListName(newName)
	if err != nil {
		return err
	}
	if newName == oldName {
		return nil
	}
	if w.HasList(newName) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}

	w.Lists[newName] = w.Lists[oldName]
	delete(w.Lists, oldName)
	w.Configs[newName] = w.GetOrCreateConfig(oldName)
	delete(w.Configs, oldName)
	if idx := slices.Index(w.ListOrder, oldName); idx >= 0 {
		w.ListOrder[idx] = newName
	}
	if w.CurrentList == oldName {
		w.CurrentList = newName
	}
	return nil
}

// DeleteList removes a list and its configuration. Deleting the current list
// makes the first remaining list current.
func (w *Workspace) DeleteList(name string) error {
	if !w.HasList(name) {
		return fmt.Errorf("%w: list %q", ErrNotFound, name)
	}
	if len(w.ListOrder) <= 1 {
		return ErrLastList
	}
	delete(w.Lists, name)
	delete(w.Configs, name)
	if idx := slices.Index(w.ListOrder, name); idx >= 0 {
		w.ListOrder = slices.Delete(w.ListOrder, idx, idx+1)
	}
	if w.CurrentList == name {
		w.CurrentList = w.ListOrder[0]
		w.CurrentTaskIndex = 0
	}
	return nil
}

func (w *Workspace) ReorderLists(order []string) error {
	if len(order) != len(w.ListOrder) {
		return fmt.Errorf("%w: got %d names, have %d lists", ErrInvalidOrder, len(order), len(w.ListOrder))
	}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if !w.HasList(name) || seen[name] {
			return fmt.Errorf("%w: unexpected or repeated name %q", ErrInvalidOrder, name)
		}
		seen[name] = true
	}
	w.ListOrder = slices.Clone(order)
	return nil
}

func (w *Workspace) SwitchList(name string) error {
	if !w.HasList(name) {
		return fmt.Errorf("%w: list %q", ErrNotFound, name)
	}
	if w.CurrentList == name {
		return nil
	}
	w.CurrentList = name
	w.CurrentTaskIndex = 0
	return nil
}

// SetListTasks overwrites the tasks of name, creating the list with a default
// configuration (appended to the tab order) if it does not exist.
func (w *Workspace) SetListTasks(name string, tasks []Task) {
	if !w.HasList(name) {
		w.ListOrder = append(w.ListOrder, name)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	w.Lists[name] = tasks
	w.GetOrCreateConfig(name)
	if name == w.CurrentList {
		w.CurrentTaskIndex = 0
	}
}

// SubstituteCurrent replaces the current list with the existing list name:
// the old current list and its configuration are deleted and name takes the
// old tab position.
func (w *Workspace) SubstituteCurrent(name string) error {
	if !w.HasList(name) {
		return fmt.Errorf("%w: list %q", ErrNotFound, name)
	}
	old := w.CurrentList
	if name == old {
		return nil
	}
	pos := slices.Index(w.ListOrder, old)
	delete(w.Lists, old)
	delete(w.Configs, old)
	order := make([]string, 0, len(w.ListOrder))
	for i, n := range w.ListOrder {
		switch {
		case i == pos:
			order = append(order, name)
		case n == name:
		default:
			order = append(order, n)
		}
	}
	w.ListOrder = order
	w.CurrentList = name
	w.CurrentTaskIndex = 0
	return nil
}

// Repair restores the structural invariants of a workspace assembled from
// untrusted input. It never fails.
func (w *Workspace) Repair() {
	if w.Lists == nil {
		w.Lists = make(map[string][]Task)
	}
	if w.Configs == nil {
		w.Configs = make(map[string]*ListConfiguration)
	}
	if len(w.Lists) == 0 {
		w.Lists[DefaultListName] = []Task{}
	}

	order := make([]string, 0, len(w.Lists))
	seen := make(map[string]bool, len(w.Lists))
	for _, name := range w.ListOrder {
		if w.HasList(name) && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	missing := make([]string, 0)
	for name := range w.Lists {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	w.ListOrder = append(order, missing...)

	for name, tasks := range w.Lists {
		if tasks == nil {
			w.Lists[name] = []Task{}
		}
		for i := range tasks {
			t := &tasks[i]
			if t.DurationSeconds < 0 {
				t.DurationSeconds = 0
			}
			if t.RemainingSeconds < 0 || t.RemainingSeconds > t.DurationSeconds {
				t.RemainingSeconds = t.DurationSeconds
			}
		}
		cfg := w.GetOrCreateConfig(name)
		if !cfg.NotificationMode.IsValid() {
			cfg.NotificationMode = ModeNameAndDurationOnStart
		}
	}
	for name := range w.Configs {
		if !w.HasList(name) {
			delete(w.Configs, name)
		}
	}

	if !w.HasList(w.CurrentList) {
		w.CurrentList = w.ListOrder[0]
	}
	if w.CurrentTaskIndex < 0 {
		w.CurrentTaskIndex = 0
	}
}

// Clone returns a deep copy suitable for handing to readers outside the lock.
func (w *Workspace) Clone() *Workspace {
	out := &Workspace{
		Lists:            make(map[string][]Task, len(w.Lists)),
		Configs:          make(map[string]*ListConfiguration, len(w.Configs)),
		ListOrder:        slices.Clone(w.ListOrder),
		CurrentList:      w.CurrentList,
		CurrentTaskIndex: w.CurrentTaskIndex,
	}
	for name, tasks := range w.Lists {
		cp := make([]Task, len(tasks))
		copy(cp, tasks)
		out.Lists[name] = cp
	}
	for name, cfg := range w.Configs {
		if cfg == nil {
			continue
		}
		c := *cfg
		out.Configs[name] = &c
	}
	return out
}
