package exchange

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/sandeepkv93/timetally/internal/model"
)

func names(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Name)
	}
	return out
}

func TestExport(t *testing.T) {
	tasks := []model.Task{
		{Name: `Read "Go" & <write>`, DurationSeconds: 60, RemainingSeconds: 10, Enabled: true},
		{Name: "Rest's", DurationSeconds: 5, RemainingSeconds: 5, Enabled: false},
	}
	var buf bytes.Buffer
	if err := Export(&buf, "Work", tasks); err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := `<?xml version="1.0" encoding="UTF-8"?><List><ListName>Work</ListName>` +
		`<Task><Name>Read &quot;Go&quot; &amp; &lt;write&gt;</Name><Time>60</Time></Task>` +
		`<Task><Name>Rest&apos;s</Name><Time>5</Time></Task></List>`
	if buf.String() != want {
		t.Fatalf("unexpected export:\n got %s\nwant %s", buf.String(), want)
	}
	if FileName("Work") != "tasks-Work.xml" {
		t.Fatalf("unexpected file name %q", FileName("Work"))
	}
}

func TestExportParseRoundTrip(t *testing.T) {
	tasks := []model.Task{
		{Name: `a<b>&'"`, DurationSeconds: 90, RemainingSeconds: 90, Enabled: true},
		{Name: "second", DurationSeconds: 3600, RemainingSeconds: 3600, Enabled: true},
	}
	var buf bytes.Buffer
	if err := Export(&buf, "L & M", tasks); err != nil {
		t.Fatalf("Export: %v", err)
	}
	doc, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.ListName != "L & M" || !slices.Equal(doc.Tasks, tasks) {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestParseLenient(t *testing.T) {
	in := `<List>
		<Task><Name>kept</Name><Time> 42abc</Time></Task>
		<Task><Time>7</Time></Task>
		<Task><Name>no time</Name></Task>
		<Task><Name>bad</Name><Time>soon</Time></Task>
		<Task><Name>neg</Name><Time>-3</Time></Task>
		<Task><Name>huge</Name><Time>99999999999</Time></Task>
	</List>`
	doc, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.ListName != "" {
		t.Fatalf("expected no list name, got %q", doc.ListName)
	}
	wantNames := []string{"kept", UnnamedTask, "no time", "bad", "neg", "huge"}
	if !slices.Equal(names(doc.Tasks), wantNames) {
		t.Fatalf("unexpected names %v", names(doc.Tasks))
	}
	wantTimes := []int{42, 7, 0, 0, 0, model.MaxDurationSeconds}
	for i, task := range doc.Tasks {
		if task.DurationSeconds != wantTimes[i] || task.RemainingSeconds != wantTimes[i] || !task.Enabled {
			t.Fatalf("task %d: unexpected %+v", i, task)
		}
	}
}

func TestParseLatin1(t *testing.T) {
	raw := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<List><ListName>Caf\xe9</ListName><Task><Name>R\xe9sum\xe9</Name><Time>30</Time></Task></List>")
	doc, err := Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.ListName != "Café" {
		t.Fatalf("ListName = %q", doc.ListName)
	}
	if len(doc.Tasks) != 1 || doc.Tasks[0].Name != "Résumé" || doc.Tasks[0].DurationSeconds != 30 {
		t.Fatalf("unexpected tasks: %+v", doc.Tasks)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{"", "   ", "<List><Task>", "not xml at all"} {
		_, err := Parse(strings.NewReader(in))
		if !errors.Is(err, ErrMalformedImport) {
			t.Fatalf("Parse(%q): expected ErrMalformedImport, got %v", in, err)
		}
		var ie *ImportError
		if !errors.As(err, &ie) {
			t.Fatalf("Parse(%q): expected *ImportError, got %T", in, err)
		}
	}
}

func TestParseEmptyList(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<List><ListName>Empty</ListName></List>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.ListName != "Empty" || len(doc.Tasks) != 0 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func mustTask(t *testing.T, name string, seconds int) model.Task {
	t.Helper()
	task, err := model.NewTask(name, seconds)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	return task
}

func TestApplyReplaceSubstitutesCurrent(t *testing.T) {
	ws := model.NewWorkspace()
	_ = ws.CreateList("Home", false)
	doc := Document{ListName: "Work", Tasks: []model.Task{mustTask(t, "a", 5)}}

	res, err := Apply(ws, doc, ModeReplace)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !slices.Equal(ws.ListOrder, []string{"Work", "Home"}) || ws.CurrentList != "Work" || ws.CurrentTaskIndex != 0 {
		t.Fatalf("unexpected state: order=%v current=%q index=%d", ws.ListOrder, ws.CurrentList, ws.CurrentTaskIndex)
	}
	if ws.HasList(model.DefaultListName) {
		t.Fatal("expected previous current list to be removed")
	}
	if res.Substituted != model.DefaultListName || !res.ReplacedList || res.List != "Work" {
		t.Fatalf("unexpected result %+v", res)
	}
	if ws.CurrentConfig().NotificationMode != model.ModeNameAndDurationOnStart {
		t.Fatal("expected default config for imported list")
	}
}

func TestApplyReplaceExistingOtherList(t *testing.T) {
	ws := model.NewWorkspace()
	_ = ws.CreateList("Work", false)
	_ = ws.CreateList("Home", false)

	if _, err := Apply(ws, Document{ListName: "Home"}, ModeReplace); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !slices.Equal(ws.ListOrder, []string{"Home", "Work"}) || ws.CurrentList != "Home" {
		t.Fatalf("listOrder must stay a permutation, got %v", ws.ListOrder)
	}
}

func TestApplyReplaceWithoutName(t *testing.T) {
	ws := model.NewWorkspace()
	ws.AppendTasks([]model.Task{mustTask(t, "old", 5), mustTask(t, "older", 5)})
	ws.CurrentTaskIndex = 1

	doc := Document{Tasks: []model.Task{mustTask(t, "new", 9)}}
	if _, err := Apply(ws, doc, ModeReplace); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !slices.Equal(names(ws.CurrentTasks()), []string{"new"}) || ws.CurrentTaskIndex != 0 || ws.CurrentList != model.DefaultListName {
		t.Fatalf("unexpected state %v %d", names(ws.CurrentTasks()), ws.CurrentTaskIndex)
	}
}

func TestApplyAdd(t *testing.T) {
	ws := model.NewWorkspace()
	doc := Document{ListName: "Work", Tasks: []model.Task{mustTask(t, "a", 5)}}
	if _, err := Apply(ws, doc, ModeAdd); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if ws.CurrentList != "Work" || !slices.Equal(ws.ListOrder, []string{"Work"}) {
		t.Fatalf("empty current list must be renamed, got %q %v", ws.CurrentList, ws.ListOrder)
	}

	ws.CurrentTaskIndex = 0
	doc = Document{ListName: "Other", Tasks: []model.Task{mustTask(t, "b", 5)}}
	if _, err := Apply(ws, doc, ModeAdd); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if ws.CurrentList != "Work" || !slices.Equal(names(ws.CurrentTasks()), []string{"a", "b"}) || ws.HasList("Other") {
		t.Fatalf("non-empty list must be appended to, got %v", names(ws.CurrentTasks()))
	}

	_ = ws.CreateList("Empty", true)
	_ = ws.CreateList("Taken", false)
	doc = Document{ListName: "Taken", Tasks: []model.Task{mustTask(t, "c", 5)}}
	if _, err := Apply(ws, doc, ModeAdd); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if ws.CurrentList != "Empty" || !slices.Equal(names(ws.CurrentTasks()), []string{"c"}) {
		t.Fatalf("existing name must append to current, got %q %v", ws.CurrentList, names(ws.CurrentTasks()))
	}
}

func TestApplyUnknownMode(t *testing.T) {
	if _, err := Apply(model.NewWorkspace(), Document{}, Mode("merge")); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
	if _, err := ParseMode("merge"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
	if m, _ := ParseMode(" Replace "); m != ModeReplace {
		t.Fatalf("unexpected mode %q", m)
	}
}
