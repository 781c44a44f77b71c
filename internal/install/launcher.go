package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const LauncherFile = "yalla.desktop"

// DesktopLauncher installs a freedesktop.org entry that opens the app in a
// terminal. Icon is resolved when the entry is written, not at startup.
type DesktopLauncher struct {
	Dir  string
	Exec string
	Icon func(ctx context.Context) string
	goos string
}

func NewDesktopLauncher(dir, exec string, icon func(ctx context.Context) string) *DesktopLauncher {
	return &DesktopLauncher{Dir: dir, Exec: exec, Icon: icon, goos: runtime.GOOS}
}

func (d *DesktopLauncher) Path() string {
	return filepath.Join(d.Dir, LauncherFile)
}

func (d *DesktopLauncher) Eligible() bool {
	if strings.TrimSpace(d.Dir) == "" || strings.TrimSpace(d.Exec) == "" {
		return false
	}
	return d.goos == "linux" || d.goos == "freebsd"
}

func (d *DesktopLauncher) Installed() bool {
	if strings.TrimSpace(d.Dir) == "" {
		return false
	}
	_, err := os.Stat(d.Path())
	return err == nil
}

func (d *DesktopLauncher) Install(ctx context.Context) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomeDismissed, err
	}
	if !d.Eligible() {
		return OutcomeDismissed, errors.New("desktop launcher not supported here")
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return OutcomeDismissed, fmt.Errorf("create launcher dir: %w", err)
	}
	icon := ""
	if d.Icon != nil {
		icon = d.Icon(ctx)
	}
	if err := os.WriteFile(d.Path(), []byte(d.Entry(icon)), 0o644); err != nil {
		return OutcomeDismissed, fmt.Errorf("write launcher: %w", err)
	}
	return OutcomeAccepted, nil
}

func (d *DesktopLauncher) Entry(icon string) string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Name=Yalla Task\n")
	b.WriteString("Comment=Your smart companion for getting things done\n")
	fmt.Fprintf(&b, "Exec=%s\n", d.Exec)
	if icon != "" {
		fmt.Fprintf(&b, "Icon=%s\n", icon)
	}
	b.WriteString("Terminal=true\n")
	b.WriteString("Categories=Office;ProjectManagement;\n")
	return b.String()
}
