// Package tasks owns the in-memory task list and its persistence. Every
// mutation replaces the list with a new slice, writes it through to the
// key-value store and publishes the new snapshot to subscribers.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/yallatask/yalla/internal/applog"
	"github.com/yallatask/yalla/internal/model"
	"github.com/yallatask/yalla/internal/storage"
)

const TasksKey = "yalla_tasks"

var ErrTaskNotFound = errors.New("tasks: task not found")

type Store struct {
	kv     storage.KV
	logger *log.Logger
	newID  func() string

	mu     sync.Mutex
	tasks  []model.Task
	subs   map[int]chan []model.Task
	nextID int
}

func NewStore(kv storage.KV, logger *log.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: applog.OrDiscard(logger),
		newID:  uuid.NewString,
		tasks:  []model.Task{},
		subs:   make(map[int]chan []model.Task),
	}
}

// Load replaces the in-memory list with the persisted one. Absent or
// malformed data yields an empty list.
func (s *Store) Load(ctx context.Context) []model.Task {
	loaded := s.read(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = loaded
	snap := s.snapshotLocked()
	s.publishLocked(snap)
	return snap
}

func (s *Store) read(ctx context.Context) []model.Task {
	raw, err := s.kv.Get(ctx, TasksKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("load tasks failed", "err", err)
		}
		return []model.Task{}
	}
	var out []model.Task
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Warn("stored tasks are malformed, starting empty", "err", err)
		return []model.Task{}
	}
	if out == nil {
		out = []model.Task{}
	}
	return out
}

// Save writes the current list. Failures are logged, never returned.
func (s *Store) Save(ctx context.Context) {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.write(ctx, snap)
}

func (s *Store) write(ctx context.Context, tasks []model.Task) {
	raw, err := json.Marshal(tasks)
	if err != nil {
		s.logger.Error("encode tasks failed", "err", err)
		return
	}
	if err := s.kv.Put(ctx, TasksKey, raw); err != nil {
		s.logger.Error("save tasks failed", "err", err)
	}
}

func (s *Store) Snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked copies the list; an empty list stays a non-nil slice so it
// is persisted as [].
func (s *Store) snapshotLocked() []model.Task {
	return copyTasks(s.tasks)
}

func copyTasks(in []model.Task) []model.Task {
	return append(make([]model.Task, 0, len(in)), in...)
}

// Add files a normalized draft under date and returns the stored task.
func (s *Store) Add(ctx context.Context, draft model.Draft, date string) (model.Task, error) {
	d, err := draft.Normalize()
	if err != nil {
		return model.Task{}, err
	}
	if _, err := model.ParseDate(date); err != nil {
		return model.Task{}, err
	}
	task := model.Task{
		ID:          s.newID(),
		Title:       d.Title,
		Description: d.Description,
		Time:        d.Time,
		Date:        date,
		Priority:    d.Priority,
		Category:    d.Category,
	}
	s.apply(ctx, func(in []model.Task) ([]model.Task, bool) {
		return append(append(make([]model.Task, 0, len(in)+1), in...), task), true
	})
	s.logger.Debug("task added", "id", task.ID, "date", task.Date, "time", task.Time)
	return task, nil
}

func (s *Store) ToggleCompleted(ctx context.Context, id string) error {
	return s.update(ctx, id, func(t *model.Task) { t.Completed = !t.Completed })
}

// MarkNotified is idempotent. The flag is never cleared.
func (s *Store) MarkNotified(ctx context.Context, id string) error {
	return s.update(ctx, id, func(t *model.Task) { t.Notified = true })
}

func (s *Store) Delete(ctx context.Context, id string) error {
	found := false
	s.apply(ctx, func(in []model.Task) ([]model.Task, bool) {
		out := make([]model.Task, 0, len(in))
		for _, t := range in {
			if t.ID == id {
				found = true
				continue
			}
			out = append(out, t)
		}
		return out, found
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return nil
}

func (s *Store) update(ctx context.Context, id string, fn func(*model.Task)) error {
	found := false
	s.apply(ctx, func(in []model.Task) ([]model.Task, bool) {
		out := append([]model.Task(nil), in...)
		for i := range out {
			if out[i].ID == id {
				fn(&out[i])
				found = true
				break
			}
		}
		return out, found
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return nil
}

// apply runs fn under the lock and, when it reports a change, persists and
// publishes the result.
func (s *Store) apply(ctx context.Context, fn func([]model.Task) ([]model.Task, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, changed := fn(s.tasks)
	if !changed {
		return
	}
	s.tasks = next
	snap := s.snapshotLocked()
	s.write(ctx, snap)
	s.publishLocked(snap)
}

// Subscribe returns a channel that always holds the newest snapshot after a
// change. Slow readers skip intermediate snapshots.
func (s *Store) Subscribe() (<-chan []model.Task, func()) {
	ch := make(chan []model.Task, 1)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Store) publishLocked(snap []model.Task) {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- copyTasks(snap):
		default:
		}
	}
}
