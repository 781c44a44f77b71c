package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskRowData struct {
	Index       int
	Title       string
	Description string
	Time        string
	Date        string
	Priority    string
	Category    string
	Completed   bool
	Selected    bool
}

type TaskListData struct {
	Heading   string
	Rows      []TaskRowData
	TableView string
}

type StatsData struct {
	Completed    int
	Total        int
	Percent      int
	ProgressView string
}

type AdvicePanelData struct {
	Text        string
	Loading     bool
	SpinnerView string
	Revealing   bool
}

type FormFieldData struct {
	Label   string
	View    string
	Focused bool
}

type FormPanelData struct {
	TargetLabel string
	Fields      []FormFieldData
	ErrorText   string
}

type ToolsPanelData struct {
	Loading     bool
	SpinnerView string
	PromptLabel string
	PromptView  string
	SummaryText string
	Playing     bool
	NoAudio     bool
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

var (
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	accentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
)

const (
	AdvicePlaceholder = "Press [g] to analyze your day and get advice tailored to your tasks."
	NoDescription     = "No description for this task."
	ProcessingText    = "Processing your request smartly..."
)

func PriorityBadge(priority string) string {
	label := "[" + strings.ToUpper(priority) + "]"
	switch priority {
	case "low":
		return lowStyle.Render(label)
	case "high":
		return highStyle.Render(label)
	default:
		return mediumStyle.Render(label)
	}
}

func RenderStats(data StatsData) string {
	return fmt.Sprintf("Completed %d of %d tasks\n%s %d%%", data.Completed, data.Total, data.ProgressView, data.Percent)
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	b.WriteString(accentStyle.Render(data.Heading) + "\n")
	if data.TableView != "" {
		b.WriteString(data.TableView)
		return strings.TrimSpace(b.String())
	}
	if len(data.Rows) == 0 {
		b.WriteString("\nNo tasks yet.\n")
		b.WriteString(mutedStyle.Render("Start by adding tasks for today or tomorrow to organize your time!"))
		return b.String()
	}
	for _, row := range data.Rows {
		renderTaskRow(&b, row)
	}
	return strings.TrimSpace(b.String())
}

func renderTaskRow(b *strings.Builder, row TaskRowData) {
	cursor := " "
	if row.Selected {
		cursor = ">"
	}
	check := "[ ]"
	title := row.Title
	if row.Completed {
		check = "[x]"
		title = doneStyle.Render(title)
	}
	fmt.Fprintf(b, "%s %d. %s %s %s %s\n", cursor, row.Index, check, row.Time, title, PriorityBadge(row.Priority))
	desc := row.Description
	if strings.TrimSpace(desc) == "" {
		desc = NoDescription
	}
	meta := fmt.Sprintf("      %s · #%s", desc, row.Category)
	if row.Date != "" {
		meta += " · " + row.Date
	}
	b.WriteString(mutedStyle.Render(meta) + "\n")
}

func RenderAdvicePanel(data AdvicePanelData) string {
	var b strings.Builder
	b.WriteString(accentStyle.Render("Yalla smart advice") + "\n")
	switch {
	case data.Loading:
		b.WriteString(data.SpinnerView + " Thinking...")
	case data.Text == "":
		b.WriteString(AdvicePlaceholder)
	default:
		b.WriteString(data.Text)
		if data.Revealing {
			b.WriteString("▌")
		}
	}
	return b.String()
}

func RenderTaskForm(data FormPanelData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", accentStyle.Render("New task for "+data.TargetLabel))
	for _, f := range data.Fields {
		marker := " "
		if f.Focused {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", marker, f.Label, f.View)
	}
	if data.ErrorText != "" {
		b.WriteString(errorStyle.Render("error: "+data.ErrorText) + "\n")
	}
	b.WriteString(mutedStyle.Render("[tab] next field [←/→] priority [enter] save [esc] cancel"))
	return b.String()
}

func RenderToolsPanel(data ToolsPanelData) string {
	var b strings.Builder
	b.WriteString(accentStyle.Render("Yalla smart tools") + "\n")
	b.WriteString("Turn your documents into audio or a striking infographic.\n\n")
	b.WriteString("[s] PDF to audio: upload a file and we summarize and read it to you\n")
	b.WriteString("[i] Smart infographic: turn any text or file into a visual explanation\n")
	if data.NoAudio {
		b.WriteString(mutedStyle.Render("audio unavailable: summaries are shown as text only") + "\n")
	}
	if data.PromptView != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", data.PromptLabel, data.PromptView)
	}
	if data.Loading {
		fmt.Fprintf(&b, "\n%s %s\n", data.SpinnerView, ProcessingText)
	}
	if data.SummaryText != "" {
		b.WriteString("\nFile summary:\n")
		fmt.Fprintf(&b, "%q\n", data.SummaryText)
		if data.Playing {
			b.WriteString(mutedStyle.Render("playing audio...") + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderInstallBanner(visible bool) string {
	if !visible {
		return ""
	}
	return "Install the \"Yalla Task\" app for notifications and quick access  [I] install now  [N] not now"
}

func RenderWelcome(visible bool) string {
	if !visible {
		return ""
	}
	return "Welcome to Yalla Task! Ready to get things done?"
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
