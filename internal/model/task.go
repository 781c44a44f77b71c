package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidTime     = errors.New("model: invalid task time")
	ErrInvalidDate     = errors.New("model: invalid task date")
)

const (
	DefaultTime     = "09:00"
	DefaultPriority = PriorityMedium
	DefaultCategory = "General"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

func (p Priority) Prev() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	default:
		return PriorityHigh
	}
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

// Task is the persisted record. Field names are the stored JSON shape.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Time        string   `json:"time"`
	Date        string   `json:"date"`
	Completed   bool     `json:"completed"`
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"`
	Notified    bool     `json:"notified,omitempty"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if _, err := NormalizeTime(t.Time); err != nil {
		return err
	}
	return nil
}

// Draft is what the task form produces before the store assigns id and date.
type Draft struct {
	Title       string
	Description string
	Time        string
	Priority    Priority
	Category    string
}

func NewDraft() Draft {
	return Draft{
		Time:     DefaultTime,
		Priority: DefaultPriority,
		Category: DefaultCategory,
	}
}

// Normalize trims the title, fills defaults and canonicalizes the time.
func (d Draft) Normalize() (Draft, error) {
	out := d
	out.Title = strings.TrimSpace(d.Title)
	if out.Title == "" {
		return Draft{}, errors.New("model: task title is required")
	}
	if strings.TrimSpace(out.Time) == "" {
		out.Time = DefaultTime
	}
	tm, err := NormalizeTime(out.Time)
	if err != nil {
		return Draft{}, err
	}
	out.Time = tm
	if out.Priority == "" {
		out.Priority = DefaultPriority
	}
	if !out.Priority.IsValid() {
		return Draft{}, fmt.Errorf("%w: %q", ErrInvalidPriority, out.Priority)
	}
	if strings.TrimSpace(out.Category) == "" {
		out.Category = DefaultCategory
	}
	return out, nil
}

// NormalizeTime accepts H:M style input and returns zero padded HH:MM.
func NormalizeTime(raw string) (string, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 || len(parts[1]) > 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}
