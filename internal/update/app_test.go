package update

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yallatask/yalla/internal/audio"
	"github.com/yallatask/yalla/internal/install"
	"github.com/yallatask/yalla/internal/model"
	"github.com/yallatask/yalla/internal/notify"
	"github.com/yallatask/yalla/internal/scheduler"
	"github.com/yallatask/yalla/internal/storage"
	"github.com/yallatask/yalla/internal/tasks"
	"github.com/yallatask/yalla/internal/tools"
)

var fixedNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

type fakeAdvisor struct {
	calls int
}

func (f *fakeAdvisor) Advise(context.Context, []model.Task) string {
	f.calls++
	return "plan your day"
}

type fakeTools struct {
	busy    bool
	summary tools.AudioSummary
	graphic model.InfographicData
	docs    []tools.Document
}

func (f *fakeTools) Summarize(_ context.Context, doc tools.Document) (tools.AudioSummary, error) {
	f.docs = append(f.docs, doc)
	return f.summary, nil
}

func (f *fakeTools) Infographic(_ context.Context, doc tools.Document) (model.InfographicData, error) {
	f.docs = append(f.docs, doc)
	return f.graphic, nil
}

func (f *fakeTools) Busy() bool { return f.busy }

type fakePlayer struct {
	played [][]float32
}

func (f *fakePlayer) Play(_ context.Context, samples []float32, _ int) error {
	f.played = append(f.played, samples)
	return nil
}

type fakeInstaller struct {
	visible   bool
	outcome   install.Outcome
	dismissed bool
}

func (f *fakeInstaller) Visible() bool { return f.visible }

func (f *fakeInstaller) Accept(context.Context) (install.Outcome, error) {
	if f.outcome == install.OutcomeAccepted {
		f.visible = false
	}
	return f.outcome, nil
}

func (f *fakeInstaller) Dismiss(context.Context) error {
	f.visible = false
	f.dismissed = true
	return nil
}

type fakeNotifier struct {
	perm notify.Permission
}

func (f *fakeNotifier) Permission() notify.Permission { return f.perm }

func (f *fakeNotifier) RequestPermission(context.Context) notify.Permission {
	f.perm = notify.PermissionGranted
	return f.perm
}

func (f *fakeNotifier) Show(context.Context, notify.Notification) error { return nil }

func newTestModel(t *testing.T, deps Deps) (Model, *tasks.Store) {
	t.Helper()
	store := tasks.NewStore(storage.NewMemoryKV(), nil)
	store.Load(t.Context())
	deps.Store = store
	deps.Context = t.Context()
	if deps.Now == nil {
		deps.Now = func() time.Time { return fixedNow }
	}
	if deps.Clipboard == nil {
		deps.Clipboard = func(string) error { return nil }
	}
	return New(deps), store
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	if m.Mode != model.ViewToday {
		t.Fatalf("expected default view %q, got %q", model.ViewToday, m.Mode)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Welcome || m.InstallVisible {
		t.Fatalf("expected no banner without config, got welcome=%v install=%v", m.Welcome, m.InstallVisible)
	}
	if m.Form.Priority != model.DefaultPriority {
		t.Fatalf("expected default priority, got %q", m.Form.Priority)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := NewModel()
	next := press(t, m, keyRunes("2"))
	if next.Mode != model.ViewTomorrow {
		t.Fatalf("expected tomorrow view, got %q", next.Mode)
	}
	next = press(t, next, keyRunes("3"))
	if next.Mode != model.ViewAll {
		t.Fatalf("expected all view, got %q", next.Mode)
	}
	next = press(t, next, keyRunes("4"))
	if next.Mode != model.ViewTools {
		t.Fatalf("expected tools view, got %q", next.Mode)
	}
	next = press(t, next, keyRunes("1"))
	if next.Mode != model.ViewToday {
		t.Fatalf("expected today view, got %q", next.Mode)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := NewModel()
	next := press(t, m, SwitchViewMsg{Mode: model.ViewAll})
	if next.Mode != model.ViewAll {
		t.Fatalf("expected all view, got %q", next.Mode)
	}
	next = press(t, next, SwitchViewMsg{Mode: model.ViewMode("calendar")})
	if next.Mode != model.ViewAll {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.Mode)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := NewModel()
	next := press(t, m, SetStatusMsg{Text: "ready"})
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	next = press(t, next, AppErrorMsg{Err: errors.New("boom")})
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	next = press(t, next, ClearStatusMsg{})
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel()
	updated, cmd := m.Update(keyRunes("q"))
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatalf("expected quit, got quitting=%v cmd=%v", updated.(Model).Quitting, cmd != nil)
	}
}

func TestFormAddsTaskToTomorrow(t *testing.T) {
	m, store := newTestModel(t, Deps{})
	m = press(t, m, keyRunes("2"), keyRunes("a"))
	if !m.Form.Active {
		t.Fatal("expected the task form to open")
	}
	m = press(t, m, keyRunes("Gym"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Form.Active {
		t.Fatalf("expected form to close after submit, err=%q", m.Form.Err)
	}

	saved := store.Snapshot()
	if len(saved) != 1 {
		t.Fatalf("expected one stored task, got %d", len(saved))
	}
	got := saved[0]
	if got.Title != "Gym" || got.Date != model.Tomorrow(fixedNow) || got.Time != model.DefaultTime {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.Priority != model.DefaultPriority || got.Category != model.DefaultCategory {
		t.Fatalf("expected defaults, got %+v", got)
	}
	if len(m.Visible) != 1 || m.Stats.Total != 1 {
		t.Fatalf("expected tomorrow view to show the task, visible=%d stats=%+v", len(m.Visible), m.Stats)
	}
	if !strings.Contains(m.Status.Text, "added: Gym at 09:00") {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
}

func TestFormAddsTaskToToday(t *testing.T) {
	m, store := newTestModel(t, Deps{})
	if len(m.Visible) != 0 {
		t.Fatalf("expected an empty today view, got %d", len(m.Visible))
	}
	m = press(t, m, keyRunes("a"), keyRunes("Gym"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Form.Active {
		t.Fatalf("expected form to close after submit, err=%q", m.Form.Err)
	}

	saved := store.Snapshot()
	if len(saved) != 1 || saved[0].Date != model.Today(fixedNow) {
		t.Fatalf("expected one task dated today, got %+v", saved)
	}
	if len(m.Visible) != 1 || m.Visible[0].Title != "Gym" {
		t.Fatalf("expected today view to show the task, got %+v", m.Visible)
	}

	m = press(t, m, keyRunes("2"))
	if m.Mode != model.ViewTomorrow || len(m.Visible) != 0 {
		t.Fatalf("expected an empty tomorrow view, mode=%q visible=%d", m.Mode, len(m.Visible))
	}
}

func TestFormCyclesPriority(t *testing.T) {
	m, store := newTestModel(t, Deps{})
	tab := tea.KeyMsg{Type: tea.KeyTab}
	m = press(t, m, keyRunes("a"), keyRunes("Read"), tab, tab, tab)
	if m.Form.Focus != FieldPriority {
		t.Fatalf("expected priority focus, got %d", m.Form.Focus)
	}
	m = press(t, m, keyRunes("l"), tea.KeyMsg{Type: tea.KeyEnter})
	saved := store.Snapshot()
	if len(saved) != 1 || saved[0].Priority != model.PriorityHigh {
		t.Fatalf("expected a high priority task, got %+v", saved)
	}
}

func TestFormBlockedInAllView(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = press(t, m, keyRunes("3"), keyRunes("a"))
	if m.Form.Active {
		t.Fatal("expected no form in the all view")
	}
}

func TestFormRejectsInvalidTime(t *testing.T) {
	m, store := newTestModel(t, Deps{})
	tab := tea.KeyMsg{Type: tea.KeyTab}
	back := tea.KeyMsg{Type: tea.KeyBackspace}
	m = press(t, m, keyRunes("a"), keyRunes("Read"), tab, tab)
	if m.Form.Focus != FieldTime {
		t.Fatalf("expected time focus, got %d", m.Form.Focus)
	}
	m = press(t, m, back, back, back, back, back, keyRunes("99:1"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Form.Active {
		t.Fatal("expected form to stay open")
	}
	if !strings.Contains(m.Form.Err, "invalid task time") {
		t.Fatalf("expected invalid time error, got %q", m.Form.Err)
	}
	if len(store.Snapshot()) != 0 {
		t.Fatal("expected nothing stored")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Form.Active || m.Form.Err != "" {
		t.Fatalf("expected esc to reset the form, got %+v", m.Form)
	}
}

func TestToggleAndDeleteSelectedTask(t *testing.T) {
	store := tasks.NewStore(storage.NewMemoryKV(), nil)
	if _, err := store.Add(t.Context(), model.Draft{Title: "Call mom"}, model.Today(fixedNow)); err != nil {
		t.Fatalf("add: %v", err)
	}
	m := New(Deps{Context: t.Context(), Store: store, Now: func() time.Time { return fixedNow }})
	if len(m.Visible) != 1 {
		t.Fatalf("expected one visible task, got %d", len(m.Visible))
	}

	m = press(t, m, keyRunes("x"))
	if !store.Snapshot()[0].Completed || m.Stats.Completed != 1 || m.Stats.Percent != 100 {
		t.Fatalf("expected task completed, stats=%+v", m.Stats)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if store.Snapshot()[0].Completed {
		t.Fatal("expected space to reopen the task")
	}

	m = press(t, m, keyRunes("d"))
	if len(store.Snapshot()) != 0 || len(m.Visible) != 0 {
		t.Fatalf("expected task deleted, visible=%d", len(m.Visible))
	}
	if m.Status.Text != "deleted: Call mom" {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
}

func TestAdviceDropsStaleAnswers(t *testing.T) {
	adv := &fakeAdvisor{}
	m, _ := newTestModel(t, Deps{Advisor: adv})
	m = press(t, m, keyRunes("g"), keyRunes("g"))
	if !m.Advice.Loading {
		t.Fatal("expected advice to be loading")
	}

	m = press(t, m, AdviceResultMsg{ID: 1, Text: "old"})
	if !m.Advice.Loading || m.Advice.Reveal.Full() != "" {
		t.Fatalf("expected stale answer dropped, got %q", m.Advice.Reveal.Full())
	}

	updated, cmd := m.Update(AdviceResultMsg{ID: 2, Text: "ok"})
	m = updated.(Model)
	if m.Advice.Loading || m.Advice.Reveal.Full() != "ok" || cmd == nil {
		t.Fatalf("expected reveal to start, loading=%v full=%q", m.Advice.Loading, m.Advice.Reveal.Full())
	}
	if m.Advice.Reveal.Visible() != "" {
		t.Fatalf("expected nothing revealed yet, got %q", m.Advice.Reveal.Visible())
	}

	// The first answer of a fresh model starts reveal generation 1.
	const gen = 1
	m = press(t, m, AdviceRevealMsg{Gen: gen - 1})
	if m.Advice.Reveal.Visible() != "" {
		t.Fatal("expected old generation tick ignored")
	}
	m = press(t, m, AdviceRevealMsg{Gen: gen}, AdviceRevealMsg{Gen: gen})
	if m.Advice.Reveal.Visible() != "ok" || !m.Advice.Reveal.Done() {
		t.Fatalf("expected full reveal, got %q", m.Advice.Reveal.Visible())
	}
}

func TestAdviceWithoutAdvisor(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = press(t, m, keyRunes("g"))
	if m.Advice.Loading || !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestCopyAdviceUsesClipboard(t *testing.T) {
	var copied string
	m, _ := newTestModel(t, Deps{
		Advisor:   &fakeAdvisor{},
		Clipboard: func(s string) error { copied = s; return nil },
	})
	m = press(t, m, keyRunes("y"))
	if m.Status.Text != "no advice to copy yet" || copied != "" {
		t.Fatalf("expected nothing copied, status=%q", m.Status.Text)
	}

	m = press(t, m, keyRunes("g"), AdviceResultMsg{ID: 1, Text: "focus on gym"}, keyRunes("y"))
	if copied != "focus on gym" {
		t.Fatalf("expected advice copied, got %q", copied)
	}
	if m.Advice.Reveal.Visible() != "focus on gym" {
		t.Fatalf("expected copy to finish the reveal, got %q", m.Advice.Reveal.Visible())
	}
}

func TestPaletteAddDoneAndRemove(t *testing.T) {
	m, store := newTestModel(t, Deps{})
	m = press(t, m, keyRunes("/"))
	if !m.Palette.Active {
		t.Fatal("expected palette active")
	}
	m = press(t, m, keyRunes("add Call mom @7:5 !high #Family"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Palette.Active {
		t.Fatal("expected palette closed after enter")
	}
	saved := store.Snapshot()
	if len(saved) != 1 {
		t.Fatalf("expected one task, got %d (status %q)", len(saved), m.Status.Text)
	}
	got := saved[0]
	if got.Title != "Call mom" || got.Time != "07:05" || got.Priority != model.PriorityHigh || got.Category != "Family" || got.Date != model.Today(fixedNow) {
		t.Fatalf("unexpected task: %+v", got)
	}

	m = press(t, m, keyRunes("/"), keyRunes("done 1"), tea.KeyMsg{Type: tea.KeyEnter})
	if !store.Snapshot()[0].Completed {
		t.Fatalf("expected task done, status=%+v", m.Status)
	}

	m = press(t, m, keyRunes("/"), keyRunes("rm 5"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "no task #5") {
		t.Fatalf("expected out of range error, got %+v", m.Status)
	}

	m = press(t, m, keyRunes("/"), keyRunes("rm 1"), tea.KeyMsg{Type: tea.KeyEnter})
	if len(store.Snapshot()) != 0 {
		t.Fatal("expected task removed")
	}
}

func TestPaletteViewAndErrors(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = press(t, m, keyRunes("/"), keyRunes("view tomorrow"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.Mode != model.ViewTomorrow || m.Status.Text != "view: Tomorrow" {
		t.Fatalf("expected tomorrow view, got %q status %q", m.Mode, m.Status.Text)
	}

	m = press(t, m, keyRunes("/"), keyRunes("fly"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unsupported command") {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}

	m = press(t, m, keyRunes("/"), keyRunes("vie"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.Palette.Active || m.Palette.Input != "" {
		t.Fatalf("expected esc to close the palette, got %+v", m.Palette)
	}
}

func TestRunToolRejectsOverlap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("meeting notes"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ft := &fakeTools{}
	m, _ := newTestModel(t, Deps{Tools: ft})
	m = m.switchView(model.ViewTools)

	m, cmd := m.runTool(ToolSummarize, path)
	if !m.Tools.Loading || cmd == nil {
		t.Fatal("expected the tool to start")
	}
	m, cmd = m.runTool(ToolInfographic, path)
	if cmd != nil || m.Status.Text != toolBusyText {
		t.Fatalf("expected busy rejection, got %q", m.Status.Text)
	}

	idle, _ := newTestModel(t, Deps{Tools: &fakeTools{busy: true}})
	idle, cmd = idle.runTool(ToolSummarize, path)
	if cmd != nil || idle.Status.Text != toolBusyText {
		t.Fatalf("expected busy runner to reject, got %q", idle.Status.Text)
	}
}

func TestSummarizeCmdReadsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("meeting notes"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ft := &fakeTools{summary: tools.AudioSummary{Text: "short"}}
	msg := summarizeCmd(t.Context(), ft, path, 1<<20)()
	res, ok := msg.(SummaryResultMsg)
	if !ok || res.Err != nil || res.Summary.Text != "short" {
		t.Fatalf("unexpected result: %#v", msg)
	}
	if len(ft.docs) != 1 || ft.docs[0].Name != "notes.txt" || ft.docs[0].MIMEType != "text/plain" {
		t.Fatalf("unexpected document: %+v", ft.docs)
	}

	msg = summarizeCmd(t.Context(), ft, path, 4)()
	if res := msg.(SummaryResultMsg); !errors.Is(res.Err, tools.ErrTooLarge) {
		t.Fatalf("expected too large error, got %v", res.Err)
	}
}

func TestSummaryResultPlaysAudio(t *testing.T) {
	player := &fakePlayer{}
	m, _ := newTestModel(t, Deps{Tools: &fakeTools{}, Player: player})
	updated, cmd := m.Update(SummaryResultMsg{Summary: tools.AudioSummary{Text: "short", Samples: []float32{0.5}, SampleRate: 24000}})
	m = updated.(Model)
	if m.Tools.Summary != "short" || !m.Tools.Playing || cmd == nil {
		t.Fatalf("expected playback to start, tools=%+v", m.Tools)
	}
	m = press(t, m, cmd())
	if m.Tools.Playing || len(player.played) != 1 {
		t.Fatalf("expected playback finished, played=%d", len(player.played))
	}
}

func TestMissingPlayerKeepsSummaryAsText(t *testing.T) {
	player := audio.NewExecPlayer("yalla-no-such-player")
	m, _ := newTestModel(t, Deps{Tools: &fakeTools{}, Player: player})
	m = m.switchView(model.ViewTools)
	if !strings.Contains(m.renderToolsView(), "audio unavailable") {
		t.Fatalf("expected audio unavailable notice, got %q", m.renderToolsView())
	}

	updated, cmd := m.Update(SummaryResultMsg{Summary: tools.AudioSummary{Text: "short", Samples: []float32{0.5}, SampleRate: 24000}})
	m = updated.(Model)
	if m.Tools.Summary != "short" || m.Tools.Playing || cmd != nil {
		t.Fatalf("expected text only summary, tools=%+v", m.Tools)
	}

	withPlayer, _ := newTestModel(t, Deps{Tools: &fakeTools{}, Player: &fakePlayer{}})
	if strings.Contains(withPlayer.renderToolsView(), "audio unavailable") {
		t.Fatal("expected no notice when a player is available")
	}
}

func TestTooLargeMessageUsesReadableSize(t *testing.T) {
	cases := map[int64]string{
		4096:     "4 KB",
		20 << 20: "20 MB",
		3 << 19:  "1.5 MB",
		512:      "512 bytes",
	}
	for limit, want := range cases {
		m, _ := newTestModel(t, Deps{Tools: &fakeTools{}, Config: RuntimeConfig{MaxFileBytes: limit}})
		next := press(t, m, SummaryResultMsg{Err: tools.ErrTooLarge})
		if next.Status.Text != "the file is larger than "+want {
			t.Fatalf("limit %d: unexpected status %q", limit, next.Status.Text)
		}
	}
}

func TestToolFailureMessages(t *testing.T) {
	m, _ := newTestModel(t, Deps{Tools: &fakeTools{}})
	next := press(t, m, SummaryResultMsg{Err: errors.New("upstream 500")})
	if next.Status.Text != toolFailedText || next.Tools.Loading {
		t.Fatalf("expected generic failure, got %+v", next.Status)
	}
	next = press(t, m, InfographicResultMsg{Err: tools.ErrBusy})
	if next.Status.Text != toolBusyText {
		t.Fatalf("expected busy notice, got %+v", next.Status)
	}
	if len(next.Notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(next.Notifications))
	}
}

func TestInfographicResult(t *testing.T) {
	m, _ := newTestModel(t, Deps{Tools: &fakeTools{}})
	m = m.switchView(model.ViewTools)
	next := press(t, m, InfographicResultMsg{})
	if !strings.Contains(next.Status.Text, "did not produce") {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}
	if !strings.Contains(next.View(), "(none yet)") {
		t.Fatal("expected empty infographic placeholder")
	}

	data := model.InfographicData{
		MainTitle: "Launch plan",
		Summary:   "Ship it",
		Steps:     []model.InfographicStep{{Title: "Build", Content: "Write code", Icon: "fa-rocket"}},
	}
	next = press(t, m, InfographicResultMsg{Data: data})
	if next.Status.Text != "infographic ready" || next.Tools.Infographic.MainTitle != "Launch plan" {
		t.Fatalf("unexpected state: %+v", next.Status)
	}
}

func TestInstallBannerDismiss(t *testing.T) {
	inst := &fakeInstaller{visible: true}
	m, _ := newTestModel(t, Deps{Install: inst, Config: RuntimeConfig{WelcomeFor: time.Second}})
	if !m.InstallVisible || m.Welcome {
		t.Fatalf("expected install banner instead of welcome, install=%v welcome=%v", m.InstallVisible, m.Welcome)
	}
	m = press(t, m, keyRunes("N"))
	if m.InstallVisible || !inst.dismissed {
		t.Fatal("expected banner dismissed and remembered")
	}
}

func TestInstallBannerAccept(t *testing.T) {
	inst := &fakeInstaller{visible: true, outcome: install.OutcomeAccepted}
	m, _ := newTestModel(t, Deps{Install: inst})
	updated, cmd := m.Update(keyRunes("I"))
	if cmd == nil {
		t.Fatal("expected install command")
	}
	m = press(t, updated.(Model), cmd())
	if m.InstallVisible {
		t.Fatal("expected banner hidden after install")
	}

	declined := &fakeInstaller{visible: true, outcome: install.OutcomeDismissed}
	m, _ = newTestModel(t, Deps{Install: declined})
	updated, cmd = m.Update(keyRunes("I"))
	m = press(t, updated.(Model), cmd())
	if !m.InstallVisible || m.Status.Text != "install declined" {
		t.Fatalf("expected banner kept after decline, status=%q", m.Status.Text)
	}
}

func TestInstallUnavailable(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	updated, cmd := m.executePaletteCommandWith("install")
	if cmd == nil {
		t.Fatal("expected install command")
	}
	m = press(t, updated, cmd())
	if m.Status.Text != installUnavailableText {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
}

func (m Model) executePaletteCommandWith(input string) (Model, tea.Cmd) {
	m.Palette.Active = true
	m.Palette.Input = input
	return m.executePaletteCommand()
}

func TestWelcomeExpires(t *testing.T) {
	m, _ := newTestModel(t, Deps{Config: RuntimeConfig{WelcomeFor: time.Second}})
	if !m.Welcome {
		t.Fatal("expected welcome banner")
	}
	if m.Init() == nil {
		t.Fatal("expected init to schedule the welcome timer")
	}
	m = press(t, m, WelcomeExpiredMsg{})
	if m.Welcome {
		t.Fatal("expected welcome hidden")
	}
}

func TestPermissionRequestedWhenDefault(t *testing.T) {
	n := &fakeNotifier{perm: notify.PermissionDefault}
	m, _ := newTestModel(t, Deps{Notifier: n})
	if m.Init() == nil {
		t.Fatal("expected init to request permission")
	}
	msg := requestPermissionCmd(t.Context(), n)()
	m = press(t, m, msg)
	if len(m.Notifications) != 1 || !strings.Contains(m.Notifications[0].Body, "reminders are on") {
		t.Fatalf("unexpected notifications: %+v", m.Notifications)
	}
}

func TestReminderDueRecordsEvent(t *testing.T) {
	ch := make(chan scheduler.ReminderEvent, 1)
	m, _ := newTestModel(t, Deps{Reminders: ch})
	ev := scheduler.ReminderEvent{TaskID: "t1", Title: "Task reminder: Gym", Body: "It is time", FiredAt: fixedNow}
	updated, cmd := m.Update(ReminderDueMsg{Event: ev})
	m = updated.(Model)
	if len(m.ReminderLog) != 1 || m.Status.Text != ev.Title || cmd == nil {
		t.Fatalf("unexpected reminder state: log=%d status=%q", len(m.ReminderLog), m.Status.Text)
	}
	if !strings.Contains(m.View(), "last-reminder: Task reminder: Gym @ 08:00") {
		t.Fatal("expected last reminder in view")
	}
}

func TestTasksChangedMsgRefreshes(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	task := model.Task{ID: "t1", Title: "Gym", Date: model.Today(fixedNow), Time: "10:00", Priority: model.PriorityLow, Category: "Sport"}
	m = press(t, m, TasksChangedMsg{Tasks: []model.Task{task}})
	if len(m.Visible) != 1 || m.Stats.Total != 1 {
		t.Fatalf("expected refreshed list, visible=%d", len(m.Visible))
	}
	m = press(t, m, keyRunes("2"))
	if len(m.Visible) != 0 {
		t.Fatalf("expected empty tomorrow view, got %d", len(m.Visible))
	}
}

func TestNotificationsCapped(t *testing.T) {
	m := NewModel()
	for i := 0; i < notificationLogSize+5; i++ {
		m.notify("n", "body", "info")
	}
	if len(m.Notifications) != notificationLogSize {
		t.Fatalf("expected %d notifications, got %d", notificationLogSize, len(m.Notifications))
	}
}

func TestViewRendersSections(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	view := m.View()
	for _, want := range []string{"Yalla Task", "view: Today", "Yalla smart advice", "keys:"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}

	m = press(t, m, keyRunes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "add a task") {
		t.Fatal("expected help panel with view bindings")
	}

	m = press(t, m, keyRunes("4"))
	if !strings.Contains(m.View(), "summarize a file aloud") {
		t.Fatal("expected tools bindings in help")
	}
}

func TestFormUsesConfiguredDefaults(t *testing.T) {
	m, store := newTestModel(t, Deps{Config: RuntimeConfig{DefaultTime: "7:30", DefaultCategory: "Work"}})
	m = press(t, m, keyRunes("a"), keyRunes("Standup"), tea.KeyMsg{Type: tea.KeyEnter})
	saved := store.Snapshot()
	if len(saved) != 1 || saved[0].Time != "07:30" || saved[0].Category != "Work" {
		t.Fatalf("expected configured defaults, got %+v (form err %q)", saved, m.Form.Err)
	}
}
