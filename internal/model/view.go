package model

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type ViewMode string

const (
	ViewToday    ViewMode = "today"
	ViewTomorrow ViewMode = "tomorrow"
	ViewAll      ViewMode = "all"
	ViewTools    ViewMode = "tools"
)

func (v ViewMode) IsValid() bool {
	switch v {
	case ViewToday, ViewTomorrow, ViewAll, ViewTools:
		return true
	default:
		return false
	}
}

// ShowsTasks reports whether the view renders a task list and the add form.
func (v ViewMode) ShowsTasks() bool {
	return v == ViewToday || v == ViewTomorrow || v == ViewAll
}

type Stats struct {
	Total     int
	Completed int
	Percent   int
}

func Today(now time.Time) string {
	return now.Format(DateLayout)
}

func Tomorrow(now time.Time) string {
	return now.AddDate(0, 0, 1).Format(DateLayout)
}

func ParseDate(raw string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}

// DateForNewTask picks the date a task created from the given view is filed under.
func DateForNewTask(mode ViewMode, now time.Time) string {
	if mode == ViewTomorrow {
		return Tomorrow(now)
	}
	return Today(now)
}

// Filter returns a freshly allocated, sorted subset of tasks for the view.
// The input slice is never reordered.
func Filter(tasks []Task, mode ViewMode, today, tomorrow string) []Task {
	switch mode {
	case ViewAll:
		out := append([]Task(nil), tasks...)
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date > out[j].Date
			}
			return out[i].Time < out[j].Time
		})
		return out
	case ViewToday, ViewTomorrow:
		target := today
		if mode == ViewTomorrow {
			target = tomorrow
		}
		out := make([]Task, 0)
		for _, t := range tasks {
			if t.Date == target {
				out = append(out, t)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Time < out[j].Time
		})
		return out
	default:
		return []Task{}
	}
}

// ComputeStats counts over every task in the all view and over the filtered
// subset otherwise.
func ComputeStats(tasks, filtered []Task, mode ViewMode) Stats {
	relevant := filtered
	if mode == ViewAll {
		relevant = tasks
	}
	s := Stats{Total: len(relevant)}
	for _, t := range relevant {
		if t.Completed {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// DueForReminder returns incomplete, not yet notified tasks scheduled for the
// exact minute of now.
func DueForReminder(tasks []Task, now time.Time) []Task {
	date := now.Format(DateLayout)
	clock := now.Format(TimeLayout)
	out := make([]Task, 0)
	for _, t := range tasks {
		if t.Completed || t.Notified {
			continue
		}
		if t.Date == date && t.Time == clock {
			out = append(out, t)
		}
	}
	return out
}
