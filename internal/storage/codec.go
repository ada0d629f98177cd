package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandeepkv93/timetally/internal/model"
)

const DefaultStateKey = "timeTallyData"

type stateDoc struct {
	Lists            map[string][]taskDoc       `json:"lists"`
	ListOrder        []string                   `json:"listOrder"`
	CurrentList      string                     `json:"currentList"`
	ListConfigs      map[string]json.RawMessage `json:"listConfigs"`
	CurrentTaskIndex int                        `json:"currentTaskIndex"`
}

type taskDoc struct {
	Name          string `json:"name"`
	Time          int    `json:"time"`
	RemainingTime *int   `json:"remainingTime,omitempty"`
	Enabled       *bool  `json:"enabled,omitempty"`
}

// Encode serializes the whole workspace.
func Encode(ws *model.Workspace) (string, error) {
	doc := stateDoc{
		Lists:            make(map[string][]taskDoc, len(ws.Lists)),
		ListOrder:        ws.ListOrder,
		CurrentList:      ws.CurrentList,
		ListConfigs:      make(map[string]json.RawMessage, len(ws.Lists)),
		CurrentTaskIndex: ws.CurrentTaskIndex,
	}
	for name, tasks := range ws.Lists {
		docs := make([]taskDoc, 0, len(tasks))
		for _, t := range tasks {
			remaining := t.RemainingSeconds
			enabled := t.Enabled
			docs = append(docs, taskDoc{Name: t.Name, Time: t.DurationSeconds, RemainingTime: &remaining, Enabled: &enabled})
		}
		doc.Lists[name] = docs
		raw, err := json.Marshal(ws.GetOrCreateConfig(name))
		if err != nil {
			return "", fmt.Errorf("encode config %s: %w", name, err)
		}
		doc.ListConfigs[name] = raw
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(out), nil
}

// Decode parses a stored workspace and repairs it. Tasks without an enabled
// flag are enabled; configurations missing a field take the default for it.
func Decode(raw string) (*model.Workspace, error) {
	var doc stateDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}
	if len(doc.Lists) == 0 {
		return nil, fmt.Errorf("%w: no lists", ErrMalformedState)
	}

	ws := &model.Workspace{
		Lists:            make(map[string][]model.Task, len(doc.Lists)),
		Configs:          make(map[string]*model.ListConfiguration, len(doc.Lists)),
		ListOrder:        doc.ListOrder,
		CurrentList:      doc.CurrentList,
		CurrentTaskIndex: doc.CurrentTaskIndex,
	}
	for name, docs := range doc.Lists {
		tasks := make([]model.Task, 0, len(docs))
		for _, d := range docs {
			t := model.Task{Name: d.Name, DurationSeconds: d.Time, RemainingSeconds: d.Time, Enabled: true}
			if d.RemainingTime != nil {
				t.RemainingSeconds = *d.RemainingTime
			}
			if d.Enabled != nil {
				t.Enabled = *d.Enabled
			}
			tasks = append(tasks, t)
		}
		ws.Lists[name] = tasks

		cfg := model.DefaultListConfiguration()
		if rawCfg, ok := doc.ListConfigs[name]; ok && len(rawCfg) > 0 {
			if err := json.Unmarshal(rawCfg, &cfg); err != nil {
				cfg = model.DefaultListConfiguration()
			}
		}
		ws.Configs[name] = &cfg
	}
	ws.Repair()
	return ws, nil
}

// Load reads the workspace stored under key. It always returns a usable
// workspace; the error explains why the default was used instead, and is nil
// when the slot was simply empty.
func Load(ctx context.Context, store Store, key string) (*model.Workspace, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return model.NewWorkspace(), nil
	}
	if err != nil {
		return model.NewWorkspace(), err
	}
	ws, err := Decode(raw)
	if err != nil {
		return model.NewWorkspace(), err
	}
	return ws, nil
}

// Save encodes ws and writes it under key.
func Save(ctx context.Context, store Store, key string, ws *model.Workspace) error {
	raw, err := Encode(ws)
	if err != nil {
		return err
	}
	return store.Put(ctx, key, raw)
}
