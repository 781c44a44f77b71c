package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add         func(AddArgs) (Result, error)
	Done        func(TargetArgs) (Result, error)
	Remove      func(TargetArgs) (Result, error)
	View        func(ViewArgs) (Result, error)
	Advise      func() (Result, error)
	Summarize   func(PathArgs) (Result, error)
	Infographic func(PathArgs) (Result, error)
	Install     func() (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing("done")
		}
		return handlers.Done(*cmd.Target)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing("rm")
		}
		return handlers.Remove(*cmd.Target)
	case TypeView:
		if handlers.View == nil {
			return Result{}, missing("view")
		}
		return handlers.View(*cmd.View)
	case TypeAdvise:
		if handlers.Advise == nil {
			return Result{}, missing("advise")
		}
		return handlers.Advise()
	case TypeSummarize:
		if handlers.Summarize == nil {
			return Result{}, missing("summarize")
		}
		return handlers.Summarize(*cmd.Path)
	case TypeInfographic:
		if handlers.Infographic == nil {
			return Result{}, missing("infographic")
		}
		return handlers.Infographic(*cmd.Path)
	case TypeInstall:
		if handlers.Install == nil {
			return Result{}, missing("install")
		}
		return handlers.Install()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
