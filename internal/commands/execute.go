package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	View   func(ViewArgs) (Result, error)
	Goto   func(GotoArgs) (Result, error)
	Step   func(dir int) (Result, error)
	Today  func() (Result, error)
	Export func(ExportArgs) (Result, error)
	Delete func() (Result, error)
	Link   func(LinkArgs) (Result, error)
	Sort   func(SortArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeView:
		if handlers.View == nil {
			return Result{}, missing("view")
		}
		return handlers.View(*cmd.View)
	case TypeGoto:
		if handlers.Goto == nil {
			return Result{}, missing("goto")
		}
		return handlers.Goto(*cmd.Goto)
	case TypeNext, TypePrev:
		if handlers.Step == nil {
			return Result{}, missing(string(cmd.Type))
		}
		dir := 1
		if cmd.Type == TypePrev {
			dir = -1
		}
		return handlers.Step(dir)
	case TypeToday:
		if handlers.Today == nil {
			return Result{}, missing("today")
		}
		return handlers.Today()
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, missing("export")
		}
		return handlers.Export(*cmd.Export)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing("delete")
		}
		return handlers.Delete()
	case TypeLink:
		if handlers.Link == nil {
			return Result{}, missing("link")
		}
		return handlers.Link(*cmd.Link)
	case TypeSort:
		if handlers.Sort == nil {
			return Result{}, missing("sort")
		}
		return handlers.Sort(*cmd.Sort)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}
