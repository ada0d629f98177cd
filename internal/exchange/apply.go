package exchange

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/timetally/internal/model"
)

type Mode string

const (
	ModeAdd     Mode = "add"
	ModeReplace Mode = "replace"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeAdd, "":
		return ModeAdd, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
	}
}

// Result reports how Apply changed the workspace.
type Result struct {
	Mode         Mode
	List         string
	Imported     int
	ReplacedList bool
	Substituted  string
}

// Apply merges doc into ws according to mode.
func Apply(ws *model.Workspace, doc Document, mode Mode) (Result, error) {
	tasks := make([]model.Task, len(doc.Tasks))
	copy(tasks, doc.Tasks)
	res := Result{Mode: mode, Imported: len(tasks)}

	switch mode {
	case ModeReplace:
		res.ReplacedList = true
		if doc.ListName == "" {
			ws.SetListTasks(ws.CurrentList, tasks)
			break
		}
		ws.SetListTasks(doc.ListName, tasks)
		if doc.ListName != ws.CurrentList {
			res.Substituted = ws.CurrentList
			if err := ws.SubstituteCurrent(doc.ListName); err != nil {
				return Result{}, err
			}
		}
		ws.CurrentTaskIndex = 0
	case ModeAdd:
		if doc.ListName != "" && len(ws.CurrentTasks()) == 0 && !ws.HasList(doc.ListName) {
			res.ReplacedList = true
			res.Substituted = ws.CurrentList
			ws.SetListTasks(doc.ListName, tasks)
			if err := ws.SubstituteCurrent(doc.ListName); err != nil {
				return Result{}, err
			}
			break
		}
		ws.AppendTasks(tasks)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	res.List = ws.CurrentList
	return res, nil
}
