// Package install offers the app as an installable desktop entry. The offer is
// captured once at startup and shown as a banner until it is accepted,
// dismissed, or the app is already installed.
package install

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/yallatask/yalla/internal/applog"
	"github.com/yallatask/yalla/internal/storage"
)

const DismissedKey = "install_dismissed"

var ErrUnavailable = errors.New("install: installing is not available on this system")

type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeDismissed Outcome = "dismissed"
)

// Platform is the system side of installation.
type Platform interface {
	// Eligible reports whether an install can be offered right now.
	Eligible() bool
	// Installed reports whether the app already runs as an installed entry.
	Installed() bool
	Install(ctx context.Context) (Outcome, error)
}

type Prompt struct {
	kv       storage.KV
	platform Platform
	logger   *log.Logger

	mu       sync.Mutex
	captured bool
	deferred bool
	visible  bool
}

func NewPrompt(kv storage.KV, platform Platform, logger *log.Logger) *Prompt {
	return &Prompt{kv: kv, platform: platform, logger: applog.OrDiscard(logger)}
}

// Capture records the install signal. Only the first call has any effect.
// It reports whether the banner should be shown.
func (p *Prompt) Capture(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.captured {
		return p.visible
	}
	p.captured = true
	if p.platform == nil || !p.platform.Eligible() {
		return false
	}
	p.deferred = true
	p.visible = !p.platform.Installed() && !p.dismissed(ctx)
	return p.visible
}

func (p *Prompt) dismissed(ctx context.Context) bool {
	if p.kv == nil {
		return false
	}
	raw, err := p.kv.Get(ctx, DismissedKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			p.logger.Warn("read install flag", "err", err)
		}
		return false
	}
	return string(raw) == "true"
}

func (p *Prompt) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Accept runs the platform install. The captured signal is consumed whatever
// the outcome; the banner hides only when the install was accepted.
func (p *Prompt) Accept(ctx context.Context) (Outcome, error) {
	p.mu.Lock()
	if !p.deferred {
		p.mu.Unlock()
		return "", ErrUnavailable
	}
	p.deferred = false
	p.mu.Unlock()

	outcome, err := p.platform.Install(ctx)
	if err != nil {
		p.logger.Error("install failed", "err", err)
		return OutcomeDismissed, fmt.Errorf("install: %w", err)
	}
	p.logger.Info("install prompt answered", "outcome", outcome)
	if outcome == OutcomeAccepted {
		p.mu.Lock()
		p.visible = false
		p.mu.Unlock()
	}
	return outcome, nil
}

// Dismiss hides the banner and remembers the choice across restarts.
func (p *Prompt) Dismiss(ctx context.Context) error {
	p.mu.Lock()
	p.visible = false
	p.mu.Unlock()
	if p.kv == nil {
		return nil
	}
	if err := p.kv.Put(ctx, DismissedKey, []byte("true")); err != nil {
		p.logger.Warn("persist install flag", "err", err)
		return fmt.Errorf("persist install flag: %w", err)
	}
	return nil
}
