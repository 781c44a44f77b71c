package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

var ErrNotPermitted = errors.New("notify: permission not granted")

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

type Notification struct {
	Title string
	Body  string
	Icon  string
}

type Notifier interface {
	Permission() Permission
	RequestPermission(ctx context.Context) Permission
	Show(ctx context.Context, n Notification) error
}

type NoopNotifier struct{}

func (NoopNotifier) Permission() Permission                       { return PermissionDenied }
func (NoopNotifier) RequestPermission(context.Context) Permission { return PermissionDenied }
func (NoopNotifier) Show(context.Context, Notification) error     { return ErrNotPermitted }

// ExecNotifier shells out to notify-send on Linux and osascript on macOS.
// Permission is granted on request when notifications are enabled and the
// platform binary is on PATH.
type ExecNotifier struct {
	enabled  bool
	goos     string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error

	mu         sync.Mutex
	permission Permission
}

func NewExecNotifier(enabled bool) *ExecNotifier {
	return &ExecNotifier{
		enabled:    enabled,
		goos:       runtime.GOOS,
		lookPath:   exec.LookPath,
		run:        runCommand,
		permission: PermissionDefault,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (e *ExecNotifier) Permission() Permission {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.permission
}

// RequestPermission resolves a default permission once. Later calls return
// the settled value.
func (e *ExecNotifier) RequestPermission(context.Context) Permission {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.permission != PermissionDefault {
		return e.permission
	}
	e.permission = PermissionDenied
	if e.enabled {
		if bin := e.binary(); bin != "" {
			if _, err := e.lookPath(bin); err == nil {
				e.permission = PermissionGranted
			}
		}
	}
	return e.permission
}

func (e *ExecNotifier) Show(ctx context.Context, n Notification) error {
	if e.Permission() != PermissionGranted {
		return ErrNotPermitted
	}
	switch e.goos {
	case "linux":
		args := []string{"--app-name=Yalla Task"}
		if n.Icon != "" {
			args = append(args, "--icon="+n.Icon)
		}
		args = append(args, n.Title, n.Body)
		return e.run(ctx, "notify-send", args...)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return e.run(ctx, "osascript", "-e", script)
	default:
		return nil
	}
}

func (e *ExecNotifier) binary() string {
	switch e.goos {
	case "linux":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

// escapeAppleScript quotes s for an AppleScript string literal. Backslashes
// go first so the ones added for quotes are not doubled.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
