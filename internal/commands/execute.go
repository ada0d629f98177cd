package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Edit    func(EditArgs) (Result, error)
	Remove  func(IndexArgs) (Result, error)
	Move    func(MoveArgs) (Result, error)
	Toggle  func(IndexArgs) (Result, error)
	New     func(NameArgs) (Result, error)
	Rename  func(NameArgs) (Result, error)
	Delete  func(NameArgs) (Result, error)
	Switch  func(NameArgs) (Result, error)
	Order   func(OrderArgs) (Result, error)
	Start   func() (Result, error)
	Pause   func() (Result, error)
	Skip    func() (Result, error)
	Done    func() (Result, error)
	Restart func() (Result, error)
	Beep    func(SwitchArgs) (Result, error)
	TTS     func(SwitchArgs) (Result, error)
	Voice   func(TextArgs) (Result, error)
	Mode    func(ModeArgs) (Result, error)
	Message func(TextArgs) (Result, error)
	Import  func(ImportArgs) (Result, error)
	Export  func(ExportArgs) (Result, error)
	Voices  func() (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func call[A any](t Type, h func(A) (Result, error), args *A) (Result, error) {
	if h == nil {
		return Result{}, missing(t)
	}
	if args == nil {
		return Result{}, invalid("%s is missing its arguments", t)
	}
	return h(*args)
}

func call0(t Type, h func() (Result, error)) (Result, error) {
	if h == nil {
		return Result{}, missing(t)
	}
	return h()
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return call(cmd.Type, handlers.Add, cmd.Add)
	case TypeEdit:
		return call(cmd.Type, handlers.Edit, cmd.Edit)
	case TypeRemove:
		return call(cmd.Type, handlers.Remove, cmd.Index)
	case TypeMove:
		return call(cmd.Type, handlers.Move, cmd.Move)
	case TypeToggle:
		return call(cmd.Type, handlers.Toggle, cmd.Index)
	case TypeNew:
		return call(cmd.Type, handlers.New, cmd.Name)
	case TypeRename:
		return call(cmd.Type, handlers.Rename, cmd.Name)
	case TypeDelete:
		return call(cmd.Type, handlers.Delete, cmd.Name)
	case TypeSwitch:
		return call(cmd.Type, handlers.Switch, cmd.Name)
	case TypeOrder:
		return call(cmd.Type, handlers.Order, cmd.Order)
	case TypeStart:
		return call0(cmd.Type, handlers.Start)
	case TypePause:
		return call0(cmd.Type, handlers.Pause)
	case TypeSkip:
		return call0(cmd.Type, handlers.Skip)
	case TypeDone:
		return call0(cmd.Type, handlers.Done)
	case TypeRestart:
		return call0(cmd.Type, handlers.Restart)
	case TypeBeep:
		return call(cmd.Type, handlers.Beep, cmd.Switch)
	case TypeTTS:
		return call(cmd.Type, handlers.TTS, cmd.Switch)
	case TypeVoice:
		return call(cmd.Type, handlers.Voice, cmd.Text)
	case TypeMode:
		return call(cmd.Type, handlers.Mode, cmd.Mode)
	case TypeMessage:
		return call(cmd.Type, handlers.Message, cmd.Text)
	case TypeImport:
		return call(cmd.Type, handlers.Import, cmd.Import)
	case TypeExport:
		return call(cmd.Type, handlers.Export, cmd.Export)
	case TypeVoices:
		return call0(cmd.Type, handlers.Voices)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

// Run parses input and executes it in one step.
func Run(input string, handlers Handlers) (Result, error) {
	cmd, err := Parse(input)
	if err != nil {
		return Result{}, err
	}
	return Execute(cmd, handlers)
}
