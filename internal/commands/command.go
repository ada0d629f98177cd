package commands

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sandeepkv93/timetally/internal/exchange"
	"github.com/sandeepkv93/timetally/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeEdit    Type = "edit"
	TypeRemove  Type = "rm"
	TypeMove    Type = "move"
	TypeToggle  Type = "toggle"
	TypeNew     Type = "new"
	TypeRename  Type = "rename"
	TypeDelete  Type = "delete"
	TypeSwitch  Type = "switch"
	TypeOrder   Type = "order"
	TypeStart   Type = "start"
	TypePause   Type = "pause"
	TypeSkip    Type = "skip"
	TypeDone    Type = "done"
	TypeRestart Type = "restart"
	TypeBeep    Type = "beep"
	TypeTTS     Type = "tts"
	TypeVoice   Type = "voice"
	TypeMode    Type = "mode"
	TypeMessage Type = "message"
	TypeImport  Type = "import"
	TypeExport  Type = "export"
	TypeVoices  Type = "voices"
)

// Usage lists every command with its argument syntax, in palette order.
var Usage = []string{
	"add <name> <amount>[s|m|h]",
	"edit <n> <name> <amount>[s|m|h]",
	"rm <n>",
	"move <from> <to>",
	"toggle <n>",
	"new <list>",
	"rename <new name>",
	"delete [list]",
	"switch <list>",
	"order <list>,<list>,...",
	"start | pause | skip | done | restart",
	"beep on|off",
	"tts on|off",
	"voice [name]",
	"mode name-duration|name|duration|custom|affirmation",
	"message <text>",
	"import add|replace <file>",
	"export [file]",
	"voices",
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

type AddArgs struct {
	Name   string
	Amount int
	Unit   model.TimeUnit
}

// EditArgs carries a zero-based index and the new duration in seconds.
type EditArgs struct {
	Index   int
	Name    string
	Seconds int
}

type IndexArgs struct {
	Index int
}

type MoveArgs struct {
	From int
	To   int
}

type NameArgs struct {
	Name string
}

type OrderArgs struct {
	Names []string
}

type SwitchArgs struct {
	On bool
}

type TextArgs struct {
	Text string
}

type ModeArgs struct {
	Mode model.NotificationMode
}

type ImportArgs struct {
	Mode exchange.Mode
	Path string
}

type ExportArgs struct {
	Path string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Edit   *EditArgs
	Index  *IndexArgs
	Move   *MoveArgs
	Name   *NameArgs
	Order  *OrderArgs
	Switch *SwitchArgs
	Text   *TextArgs
	Mode   *ModeArgs
	Import *ImportArgs
	Export *ExportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(raw, parts[0]))
	cmd := Command{Type: Type(head), Raw: input}

	switch cmd.Type {
	case TypeAdd:
		return parseAdd(cmd, args)
	case TypeEdit:
		return parseEdit(cmd, args)
	case TypeRemove, TypeToggle:
		if len(args) != 1 {
			return Command{}, invalid("%s requires a task number", head)
		}
		idx, err := parseIndex(args[0])
		if err != nil {
			return Command{}, err
		}
		cmd.Index = &IndexArgs{Index: idx}
		return cmd, nil
	case TypeMove:
		return parseMove(cmd, args)
	case TypeNew, TypeRename, TypeSwitch:
		if rest == "" {
			return Command{}, invalid("%s requires a list name", head)
		}
		cmd.Name = &NameArgs{Name: rest}
		return cmd, nil
	case TypeDelete:
		cmd.Name = &NameArgs{Name: rest}
		return cmd, nil
	case TypeOrder:
		return parseOrder(cmd, rest)
	case TypeStart, TypePause, TypeSkip, TypeDone, TypeRestart, TypeVoices:
		if len(args) != 0 {
			return Command{}, invalid("%s takes no arguments", head)
		}
		return cmd, nil
	case TypeBeep, TypeTTS:
		if len(args) != 1 {
			return Command{}, invalid("%s requires on or off", head)
		}
		on, err := parseOnOff(args[0])
		if err != nil {
			return Command{}, err
		}
		cmd.Switch = &SwitchArgs{On: on}
		return cmd, nil
	case TypeVoice, TypeMessage:
		cmd.Text = &TextArgs{Text: rest}
		return cmd, nil
	case TypeMode:
		mode, err := model.ParseNotificationMode(rest)
		if err != nil {
			return Command{}, invalid("unknown mode %q", rest)
		}
		cmd.Mode = &ModeArgs{Mode: mode}
		return cmd, nil
	case TypeImport:
		return parseImport(cmd, args)
	case TypeExport:
		cmd.Export = &ExportArgs{Path: rest}
		return cmd, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(cmd Command, args []string) (Command, error) {
	name, amount, unit, err := splitNameAmount(args)
	if err != nil {
		return Command{}, err
	}
	cmd.Add = &AddArgs{Name: name, Amount: amount, Unit: unit}
	return cmd, nil
}

func parseEdit(cmd Command, args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, invalid("edit requires a task number, a name and a duration")
	}
	idx, err := parseIndex(args[0])
	if err != nil {
		return Command{}, err
	}
	name, amount, unit, err := splitNameAmount(args[1:])
	if err != nil {
		return Command{}, err
	}
	cmd.Edit = &EditArgs{Index: idx, Name: name, Seconds: unit.Seconds(amount)}
	return cmd, nil
}

func parseMove(cmd Command, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("move requires two task numbers")
	}
	from, err := parseIndex(args[0])
	if err != nil {
		return Command{}, err
	}
	to, err := parseIndex(args[1])
	if err != nil {
		return Command{}, err
	}
	cmd.Move = &MoveArgs{From: from, To: to}
	return cmd, nil
}

func parseOrder(cmd Command, rest string) (Command, error) {
	if rest == "" {
		return Command{}, invalid("order requires a comma separated list of names")
	}
	var names []string
	for _, n := range strings.Split(rest, ",") {
		names = append(names, strings.TrimSpace(n))
	}
	cmd.Order = &OrderArgs{Names: names}
	return cmd, nil
}

func parseImport(cmd Command, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("import requires a mode and a file")
	}
	mode, err := exchange.ParseMode(args[0])
	if err != nil {
		return Command{}, invalid("import mode must be add or replace")
	}
	cmd.Import = &ImportArgs{Mode: mode, Path: strings.Join(args[1:], " ")}
	return cmd, nil
}

// parseIndex turns a one-based task number into an index.
func parseIndex(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, invalid("task number must be a positive integer, got %q", raw)
	}
	return n - 1, nil
}

func parseOnOff(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, invalid("expected on or off, got %q", raw)
	}
}

var amountPattern = regexp.MustCompile(`^(\d+)([a-zA-Z]*)$`)

// splitNameAmount reads "<name...> <amount>[unit]" or
// "<name...> <amount> <unit>". A bare amount is in minutes.
func splitNameAmount(args []string) (string, int, model.TimeUnit, error) {
	if len(args) < 2 {
		return "", 0, "", invalid("a name and a duration are required")
	}
	last := args[len(args)-1]
	nameParts := args[:len(args)-1]
	amountRaw, unitRaw := "", ""

	if m := amountPattern.FindStringSubmatch(last); m != nil {
		amountRaw, unitRaw = m[1], m[2]
	} else if len(args) >= 3 && amountPattern.MatchString(args[len(args)-2]) {
		m := amountPattern.FindStringSubmatch(args[len(args)-2])
		if m[2] != "" {
			return "", 0, "", invalid("duration %q %q is ambiguous", m[0], last)
		}
		amountRaw, unitRaw = m[1], last
		nameParts = args[:len(args)-2]
	} else {
		return "", 0, "", invalid("duration must look like 25m, 90s or 2h, got %q", last)
	}

	name := strings.TrimSpace(strings.Join(nameParts, " "))
	if name == "" {
		return "", 0, "", invalid("task name is required")
	}
	amount, err := strconv.Atoi(amountRaw)
	if err != nil || amount <= 0 {
		return "", 0, "", invalid("duration must be positive, got %q", amountRaw)
	}
	unit := model.UnitMinutes
	if unitRaw != "" {
		unit, err = model.ParseTimeUnit(unitRaw)
		if err != nil {
			return "", 0, "", invalid("unknown time unit %q", unitRaw)
		}
	}
	if amount > unit.MaxAmount() {
		return "", 0, "", invalid("duration is at most %d %s", unit.MaxAmount(), unit)
	}
	return name, amount, unit, nil
}
