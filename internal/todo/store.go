package todo

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultKey is the storage key holding the serialized collection.
const DefaultKey = "tasks"

// Projection is recomputed from the full collection after every successful mutation.
type Projection func(tasks []Task)

// ConfirmFunc asks the user whether t may be deleted.
type ConfirmFunc func(t Task) bool

// Store owns the task collection and mirrors it to a KV after every mutation.
type Store struct {
	mu     sync.Mutex
	kv     KV
	key    string
	now    func() time.Time
	log    *slog.Logger
	tasks  []Task
	lastID int64

	subMu  sync.Mutex
	subs   map[int]Projection
	subSeq int
}

// Option configures a Store.
type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock replaces time.Now as the source of task ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open loads the persisted snapshot once and returns a Store over it.
// Malformed records are dropped; an unreadable snapshot starts an empty
// collection and stays on disk until the next mutation overwrites it.
func Open(kv KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:   kv,
		key:  DefaultKey,
		now:  time.Now,
		log:  slog.Default(),
		subs: make(map[int]Projection),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if ok {
		tasks, dropped, err := DecodeTasks(data)
		if err != nil {
			s.log.Warn("ignoring unreadable task snapshot", "key", s.key, "error", err)
		}
		if dropped > 0 {
			s.log.Warn("dropped malformed tasks", "key", s.key, "count", dropped)
		}
		s.tasks = dedupe(tasks)
	}
	for _, t := range s.tasks {
		s.lastID = max(s.lastID, t.ID)
	}
	s.log.Debug("task store opened", "key", s.key, "tasks", len(s.tasks))
	return s, nil
}

// dedupe keeps the first record for each id.
func dedupe(tasks []Task) []Task {
	seen := make(map[int64]bool, len(tasks))
	out := tasks[:0]
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// Add validates and appends a new task.
func (s *Store) Add(description, date, clock string, priority Priority) (Task, error) {
	description = strings.TrimSpace(description)
	if err := validateNew(description, date, clock); err != nil {
		return Task{}, err
	}
	if priority == 0 {
		priority = PriorityMedium
	}
	if priority < PriorityLow || priority > PriorityHigh {
		return Task{}, &ValidationError{Fields: []string{"priority"}, Reason: fmt.Sprintf("unknown priority %d", priority)}
	}

	s.mu.Lock()
	t := Task{
		ID:          s.nextID(),
		Description: description,
		Date:        date,
		Time:        clock,
		Priority:    priority,
	}
	prev := s.tasks
	s.tasks = append(slices.Clip(s.tasks), t)
	snapshot, err := s.commit(prev)
	s.mu.Unlock()
	if err != nil {
		return Task{}, err
	}

	s.log.Info("task added", "id", t.ID, "date", t.Date, "time", t.Time, "priority", t.Priority)
	s.notify(snapshot)
	return t, nil
}

// Toggle flips the completion flag. Unknown ids are ignored.
func (s *Store) Toggle(id int64) error {
	return s.update(id, func(t *Task) { t.Completed = !t.Completed })
}

// Reschedule moves a task to another date, keeping its time, priority and state.
func (s *Store) Reschedule(id int64, date string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	return s.update(id, func(t *Task) { t.Date = date })
}

// Delete removes a task if confirm approves it. It reports whether a task was removed.
func (s *Store) Delete(id int64, confirm ConfirmFunc) (bool, error) {
	t, ok := s.Get(id)
	if !ok || confirm == nil || !confirm(t) {
		return false, nil
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	prev := s.tasks
	s.tasks = slices.Delete(slices.Clone(s.tasks), i, i+1)
	snapshot, err := s.commit(prev)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	s.log.Info("task deleted", "id", id)
	s.notify(snapshot)
	return true, nil
}

// Query returns the tasks whose description contains substr, ignoring case,
// ordered by date then time.
func (s *Store) Query(substr string) []Task {
	needle := strings.ToLower(substr)

	s.mu.Lock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	s.mu.Unlock()

	slices.SortStableFunc(out, func(a, b Task) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	})
	return out
}

func (s *Store) Get(id int64) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Subscribe registers p to run after every successful mutation.
func (s *Store) Subscribe(p Projection) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.subSeq
	s.subSeq++
	s.subs[id] = p
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) update(id int64, mutate func(*Task)) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	prev := s.tasks
	s.tasks = slices.Clone(s.tasks)
	mutate(&s.tasks[i])
	t := s.tasks[i]
	snapshot, err := s.commit(prev)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.log.Info("task updated", "id", id, "date", t.Date, "completed", t.Completed)
	s.notify(snapshot)
	return nil
}

// commit persists s.tasks, restoring prev if the write fails. Callers hold s.mu.
func (s *Store) commit(prev []Task) ([]Task, error) {
	data, err := EncodeTasks(s.tasks)
	if err == nil {
		err = s.kv.Put(s.key, data)
	}
	if err != nil {
		s.tasks = prev
		s.log.Error("persist tasks", "key", s.key, "error", err)
		return nil, fmt.Errorf("persist tasks: %w", err)
	}
	return slices.Clone(s.tasks), nil
}

func (s *Store) notify(snapshot []Task) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	subs := make([]Projection, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.subMu.Unlock()

	for _, p := range subs {
		p(slices.Clone(snapshot))
	}
}

// nextID derives an id from the clock in milliseconds, bumped past the last one
// issued so two adds in the same millisecond stay distinct.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// IsValidation reports whether err is a rejected add or reschedule.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidTask)
}
