package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yallatask/yalla/internal/applog"
	"github.com/yallatask/yalla/internal/model"
	"github.com/yallatask/yalla/internal/notify"
)

const (
	DefaultInterval = 10 * time.Second
	DefaultBody     = "Yalla, let's get it done!"
	titlePrefix     = "⏰ Time for task: "
)

// Source is the task list the poller reads and flags.
type Source interface {
	Snapshot() []model.Task
	MarkNotified(ctx context.Context, id string) error
}

type ReminderEvent struct {
	TaskID  string
	Title   string
	Body    string
	FiredAt time.Time
}

type Options struct {
	Interval time.Duration
	Buffer   int
	// Icon resolves the notification icon path at fire time.
	Icon   func(ctx context.Context) string
	Logger *log.Logger
	Now    func() time.Time
}

// Poller checks the task list on a fixed period and fires a desktop
// notification for every task due in the current minute. Missed minutes are
// not caught up.
type Poller struct {
	source   Source
	notifier notify.Notifier
	interval time.Duration
	icon     func(ctx context.Context) string
	logger   *log.Logger
	now      func() time.Time

	checkMu sync.Mutex

	mu      sync.Mutex
	out     chan ReminderEvent
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	closed  bool
	dropped uint64
}

func NewPoller(source Source, notifier notify.Notifier, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	return &Poller{
		source:   source,
		notifier: notifier,
		interval: opts.Interval,
		icon:     opts.Icon,
		logger:   applog.OrDiscard(opts.Logger),
		now:      opts.Now,
		out:      make(chan ReminderEvent, opts.Buffer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (p *Poller) C() <-chan ReminderEvent {
	return p.out
}

func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	go p.loop()
}

// Stop halts the loop and waits for it to exit. Safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.stopped = true
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.stopCh)
	p.mu.Unlock()
	<-p.doneCh
}

func (p *Poller) Dropped() uint64 {
	return atomic.LoadUint64(&p.dropped)
}

func (p *Poller) loop() {
	defer close(p.doneCh)
	defer p.closeOut()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-p.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.Check(ctx, p.now())
		case <-p.stopCh:
			return
		}
	}
}

// Check runs one poll at now and returns the reminders it fired. Nothing
// fires, and nothing is flagged, unless notification permission is granted.
func (p *Poller) Check(ctx context.Context, now time.Time) []ReminderEvent {
	p.checkMu.Lock()
	defer p.checkMu.Unlock()
	if p.notifier.Permission() != notify.PermissionGranted {
		return nil
	}
	due := model.DueForReminder(p.source.Snapshot(), now)
	if len(due) == 0 {
		return nil
	}
	icon := ""
	if p.icon != nil {
		icon = p.icon(ctx)
	}
	fired := make([]ReminderEvent, 0, len(due))
	for _, t := range due {
		ev := ReminderEvent{
			TaskID:  t.ID,
			Title:   titlePrefix + t.Title,
			Body:    t.Description,
			FiredAt: now,
		}
		if strings.TrimSpace(ev.Body) == "" {
			ev.Body = DefaultBody
		}
		if err := p.notifier.Show(ctx, notify.Notification{Title: ev.Title, Body: ev.Body, Icon: icon}); err != nil {
			p.logger.Warn("show reminder failed", "task", t.ID, "err", err)
		}
		if err := p.source.MarkNotified(ctx, t.ID); err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Warn("mark notified failed", "task", t.ID, "err", err)
		}
		p.logger.Info("reminder fired", "task", t.ID, "at", now.Format(model.TimeLayout))
		p.emit(ev)
		fired = append(fired, ev)
	}
	return fired
}

func (p *Poller) emit(ev ReminderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.out <- ev:
	default:
		atomic.AddUint64(&p.dropped, 1)
	}
}

func (p *Poller) closeOut() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	close(p.out)
}
