package update

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/log"
	"github.com/yallatask/yalla/internal/advisor"
	"github.com/yallatask/yalla/internal/applog"
	"github.com/yallatask/yalla/internal/audio"
	"github.com/yallatask/yalla/internal/install"
	"github.com/yallatask/yalla/internal/model"
	"github.com/yallatask/yalla/internal/notify"
	"github.com/yallatask/yalla/internal/scheduler"
	"github.com/yallatask/yalla/internal/slot"
	"github.com/yallatask/yalla/internal/tools"
)

// TaskStore is the part of the task store the UI mutates.
type TaskStore interface {
	Snapshot() []model.Task
	Add(ctx context.Context, draft model.Draft, date string) (model.Task, error)
	ToggleCompleted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type Advisor interface {
	Advise(ctx context.Context, tasks []model.Task) string
}

type DocumentTools interface {
	Summarize(ctx context.Context, doc tools.Document) (tools.AudioSummary, error)
	Infographic(ctx context.Context, doc tools.Document) (model.InfographicData, error)
	Busy() bool
}

type Installer interface {
	Visible() bool
	Accept(ctx context.Context) (install.Outcome, error)
	Dismiss(ctx context.Context) error
}

type RuntimeConfig struct {
	RevealInterval  time.Duration
	MaxFileBytes    int64
	WelcomeFor      time.Duration
	DefaultTime     string
	DefaultCategory string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		RevealInterval:  advisor.DefaultRevealInterval,
		MaxFileBytes:    20 << 20,
		WelcomeFor:      5 * time.Second,
		DefaultTime:     model.DefaultTime,
		DefaultCategory: model.DefaultCategory,
	}
}

// Deps wires the model to the rest of the app. Nil collaborators disable the
// matching feature.
type Deps struct {
	Context     context.Context
	Store       TaskStore
	TaskUpdates <-chan []model.Task
	Reminders   <-chan scheduler.ReminderEvent
	Advisor     Advisor
	Tools       DocumentTools
	Player      audio.Player
	Notifier    notify.Notifier
	Install     Installer
	Clipboard   func(string) error
	Logger      *log.Logger
	Now         func() time.Time
	Config      RuntimeConfig
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today    string
	Tomorrow string
	All      string
	Tools    string
	Add      string
	Advise   string
	Copy     string
	Help     string
	Quit     string
}

type FormField int

const (
	FieldTitle FormField = iota
	FieldDescription
	FieldTime
	FieldPriority
	FieldCategory
	fieldCount
)

type FormState struct {
	Active   bool
	Focus    FormField
	Priority model.Priority
	Err      string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type AdviceState struct {
	Loading bool
	Reveal  advisor.Reveal
}

type ToolKind string

const (
	ToolSummarize   ToolKind = "summarize"
	ToolInfographic ToolKind = "infographic"
)

type ToolsState struct {
	Prompting   ToolKind
	Loading     bool
	Running     ToolKind
	Summary     string
	Playing     bool
	Infographic model.InfographicData
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	Mode           model.ViewMode
	Tasks          []model.Task
	Visible        []model.Task
	Stats          model.Stats
	Cursor         int
	Form           FormState
	Palette        CommandPaletteState
	Advice         AdviceState
	Tools          ToolsState
	InstallVisible bool
	Welcome        bool
	HelpVisible    bool
	ReminderLog    []scheduler.ReminderEvent
	Notifications  []Notification
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	ctx         context.Context
	store       TaskStore
	taskUpdates <-chan []model.Task
	reminders   <-chan scheduler.ReminderEvent
	advisor     Advisor
	tools       DocumentTools
	player      audio.Player
	audioReady  bool
	notifier    notify.Notifier
	installer   Installer
	clipboard   func(string) error
	logger      *log.Logger
	now         func() time.Time
	cfg         RuntimeConfig
	adviceSlot  *slot.Slot

	titleInput    textinput.Model
	descArea      textarea.Model
	timeInput     textinput.Model
	categoryInput textinput.Model
	commandInput  textinput.Model
	pathInput     textinput.Model
	statsProgress progress.Model
	busySpinner   spinner.Model
	helpModel     help.Model
	historyTable  table.Model
	toolViewport  viewport.Model
}

type SwitchViewMsg struct {
	Mode model.ViewMode
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type TasksChangedMsg struct {
	Tasks []model.Task
}

type ReminderDueMsg struct {
	Event scheduler.ReminderEvent
}

type AdviceResultMsg struct {
	ID   uint64
	Text string
}

type AdviceRevealMsg struct {
	Gen uint64
}

type SummaryResultMsg struct {
	Summary tools.AudioSummary
	Err     error
}

type InfographicResultMsg struct {
	Data model.InfographicData
	Err  error
}

type AudioPlayedMsg struct {
	Err error
}

type InstallOutcomeMsg struct {
	Outcome install.Outcome
	Err     error
}

type PermissionMsg struct {
	Permission notify.Permission
}

type WelcomeExpiredMsg struct{}

func NewModel() Model {
	return New(Deps{})
}

func New(deps Deps) Model {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NoopNotifier{}
	}
	def := DefaultRuntimeConfig()
	if deps.Config.RevealInterval <= 0 {
		deps.Config.RevealInterval = def.RevealInterval
	}
	if deps.Config.MaxFileBytes <= 0 {
		deps.Config.MaxFileBytes = def.MaxFileBytes
	}
	if tm, err := model.NormalizeTime(deps.Config.DefaultTime); err == nil {
		deps.Config.DefaultTime = tm
	} else {
		deps.Config.DefaultTime = def.DefaultTime
	}
	if deps.Config.DefaultCategory == "" {
		deps.Config.DefaultCategory = def.DefaultCategory
	}

	m := Model{
		Mode: model.ViewToday,
		Form: FormState{Priority: model.DefaultPriority},
		Keys: GlobalKeyMap{
			Today:    "1",
			Tomorrow: "2",
			All:      "3",
			Tools:    "4",
			Add:      "a",
			Advise:   "g",
			Copy:     "y",
			Help:     "?",
			Quit:     "q",
		},
		ctx:         deps.Context,
		store:       deps.Store,
		taskUpdates: deps.TaskUpdates,
		reminders:   deps.Reminders,
		advisor:     deps.Advisor,
		tools:       deps.Tools,
		player:      deps.Player,
		notifier:    deps.Notifier,
		installer:   deps.Install,
		clipboard:   deps.Clipboard,
		logger:      applog.OrDiscard(deps.Logger),
		now:         deps.Now,
		cfg:         deps.Config,
		adviceSlot:  &slot.Slot{},
	}
	if m.installer != nil {
		m.InstallVisible = m.installer.Visible()
	}
	m.Welcome = !m.InstallVisible && m.cfg.WelcomeFor > 0
	m.audioReady = playerAvailable(m.player)
	if m.store != nil {
		m.Tasks = m.store.Snapshot()
	}
	m.initBubbleComponents()
	m.refresh()
	return m
}
