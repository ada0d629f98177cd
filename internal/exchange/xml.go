package exchange

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html/charset"

	"github.com/sandeepkv93/timetally/internal/model"
)

const (
	xmlHeader   = `<?xml version="1.0" encoding="UTF-8"?>`
	UnnamedTask = "Unnamed"
)

// Document is one list as carried by an import file.
type Document struct {
	ListName string
	Tasks    []model.Task
}

type listXML struct {
	ListName *string   `xml:"ListName"`
	Tasks    []taskXML `xml:"Task"`
}

type taskXML struct {
	Name *string `xml:"Name"`
	Time *string `xml:"Time"`
}

var xmlEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	"&", "&amp;",
	"'", "&apos;",
	`"`, "&quot;",
)

func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// FileName is the export artifact name for a list.
func FileName(listName string) string {
	return "tasks-" + listName + ".xml"
}

// Export writes the list's task names and durations.
func Export(w io.Writer, listName string, tasks []model.Task) error {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("<List><ListName>")
	b.WriteString(EscapeXML(listName))
	b.WriteString("</ListName>")
	for _, t := range tasks {
		b.WriteString("<Task><Name>")
		b.WriteString(EscapeXML(t.Name))
		b.WriteString("</Name><Time>")
		b.WriteString(strconv.Itoa(t.DurationSeconds))
		b.WriteString("</Time></Task>")
	}
	b.WriteString("</List>")
	_, err := io.WriteString(w, b.String())
	return err
}

// Parse reads an import document in any encoding its XML declaration
// names. Every task comes back enabled with its
// full duration remaining; a missing name becomes UnnamedTask, a missing
// or unreadable time becomes 0 and longer times are capped at
// model.MaxDurationSeconds.
func Parse(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, malformed("read", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return Document{}, malformed("empty document", nil)
	}
	var doc listXML
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return Document{}, malformed("parse", err)
	}

	out := Document{Tasks: make([]model.Task, 0, len(doc.Tasks))}
	if doc.ListName != nil {
		out.ListName = strings.TrimSpace(*doc.ListName)
	}
	for _, t := range doc.Tasks {
		name := UnnamedTask
		if t.Name != nil && strings.TrimSpace(*t.Name) != "" {
			name = *t.Name
		}
		seconds := 0
		if t.Time != nil {
			seconds = min(leadingInt(*t.Time), model.MaxDurationSeconds)
		}
		out.Tasks = append(out.Tasks, model.Task{
			Name:             name,
			DurationSeconds:  seconds,
			RemainingSeconds: seconds,
			Enabled:          true,
		})
	}
	return out, nil
}

// leadingInt reads an optionally signed decimal prefix, ignoring leading
// whitespace and anything after the digits. Negative and unreadable values
// are 0.
func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
