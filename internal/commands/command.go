package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yallatask/yalla/internal/model"
)

type Type string

const (
	TypeAdd         Type = "add"
	TypeDone        Type = "done"
	TypeRemove      Type = "rm"
	TypeView        Type = "view"
	TypeAdvise      Type = "advise"
	TypeSummarize   Type = "summarize"
	TypeInfographic Type = "infographic"
	TypeInstall     Type = "install"
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

type AddArgs struct {
	Draft model.Draft
}

// TargetArgs addresses a row of the current view, counting from 1.
type TargetArgs struct {
	Index int
}

type ViewArgs struct {
	Mode model.ViewMode
}

type PathArgs struct {
	Path string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	View   *ViewArgs
	Path   *PathArgs
}

var aliases = map[string]Type{
	"new":    TypeAdd,
	"toggle": TypeDone,
	"delete": TypeRemove,
	"del":    TypeRemove,
	"show":   TypeView,
	"advice": TypeAdvise,
	"audio":  TypeSummarize,
	"info":   TypeInfographic,
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
	head := Type(strings.ToLower(parts[0]))
	if alias, ok := aliases[string(head)]; ok {
		head = alias
	}
	args := parts[1:]

	switch head {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeRemove:
		return parseTarget(input, head, args)
	case TypeView:
		return parseView(input, args)
	case TypeAdvise, TypeInstall:
		return Command{Type: head, Raw: input}, nil
	case TypeSummarize, TypeInfographic:
		return parsePath(input, head, raw)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", parts[0])}
	}
}

// parseAdd reads "add <title> [@HH:MM] [!priority] [#category]". Markers may
// appear anywhere; the remaining words form the title.
func parseAdd(raw string, args []string) (Command, error) {
	draft := model.NewDraft()
	var title []string
	for _, arg := range args {
		switch {
		case len(arg) > 1 && arg[0] == '@':
			tm, err := model.NormalizeTime(arg[1:])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid time %q, use HH:MM", arg[1:])}
			}
			draft.Time = tm
		case len(arg) > 1 && arg[0] == '!':
			p, err := model.ParsePriority(arg[1:])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid priority %q, use low, medium or high", arg[1:])}
			}
			draft.Priority = p
		case len(arg) > 1 && arg[0] == '#':
			draft.Category = arg[1:]
		default:
			title = append(title, arg)
		}
	}
	draft.Title = strings.TrimSpace(strings.Join(title, " "))
	if draft.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Draft: draft}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task number", typ)}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid task number %q", args[0])}
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Index: n}}, nil
}

func parseView(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "view requires one of today, tomorrow, all, tools"}
	}
	mode := model.ViewMode(strings.ToLower(args[0]))
	if !mode.IsValid() {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown view %q", args[0])}
	}
	return Command{Type: TypeView, Raw: raw, View: &ViewArgs{Mode: mode}}, nil
}

// parsePath keeps everything after the command word so paths may contain
// spaces.
func parsePath(raw string, typ Type, body string) (Command, error) {
	rest := ""
	if i := strings.IndexFunc(body, isSpace); i >= 0 {
		rest = strings.TrimSpace(body[i:])
	}
	rest = strings.Trim(rest, `"'`)
	if rest == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a file path", typ)}
	}
	return Command{Type: typ, Raw: raw, Path: &PathArgs{Path: rest}}, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
