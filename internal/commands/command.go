package commands

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeView   Type = "view"
	TypeGoto   Type = "goto"
	TypeNext   Type = "next"
	TypePrev   Type = "prev"
	TypeToday  Type = "today"
	TypeExport Type = "export"
	TypeDelete Type = "delete"
	TypeLink   Type = "link"
	TypeSort   Type = "sort"
)

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

type ViewArgs struct {
	Mode string
}

type GotoArgs struct {
	Date time.Time
}

type ExportArgs struct {
	Format string
	Dir    string
}

type LinkArgs struct {
	Source string
}

type SortArgs struct {
	Mode string
}

type Command struct {
	Type   Type
	Raw    string
	View   *ViewArgs
	Goto   *GotoArgs
	Export *ExportArgs
	Link   *LinkArgs
	Sort   *SortArgs
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

	switch Type(head) {
	case TypeView:
		return parseView(input, args)
	case TypeGoto:
		return parseGoto(input, args)
	case TypeNext, TypePrev, TypeToday, TypeDelete:
		return Command{Type: Type(head), Raw: input}, nil
	case TypeExport:
		return parseExport(input, args)
	case TypeLink:
		return parseLink(input, args)
	case TypeSort:
		return parseSort(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseView(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "view requires day, week or month"}
	}
	mode := strings.ToLower(args[0])
	switch mode {
	case "day", "week", "month":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown view: %s", args[0])}
	}
	return Command{Type: TypeView, Raw: raw, View: &ViewArgs{Mode: mode}}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goto requires a date (YYYY-MM-DD)"}
	}
	date, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid date: %s", args[0])}
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Date: date}}, nil
}

func parseExport(raw string, args []string) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "export requires ics or doc and an optional directory"}
	}
	format := strings.ToLower(args[0])
	if format != "ics" && format != "doc" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown export format: %s", args[0])}
	}
	dir := "."
	if len(args) == 2 {
		dir = args[1]
	}
	return Command{Type: TypeExport, Raw: raw, Export: &ExportArgs{Format: format, Dir: dir}}, nil
}

func parseLink(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "link requires work or personal"}
	}
	source := strings.ToLower(args[0])
	if source != "work" && source != "personal" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot link to: %s", args[0])}
	}
	return Command{Type: TypeLink, Raw: raw, Link: &LinkArgs{Source: source}}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sort requires policy or created"}
	}
	mode := strings.ToLower(args[0])
	if mode != "policy" && mode != "created" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown sort: %s", args[0])}
	}
	return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Mode: mode}}, nil
}
