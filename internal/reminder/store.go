package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pathakanu/myMeds/internal/metrics"
	"github.com/pathakanu/myMeds/internal/model"
	"github.com/pathakanu/myMeds/internal/schedule"
	"github.com/pathakanu/myMeds/internal/storage"
	"go.uber.org/zap"
)

// Keys under which the two collections are persisted.
const (
	KeyReminders = "reminders"
	KeyAdherence = "adherence"
)

// ErrInvalidReminder is returned by Add when the medicine or time is missing or malformed.
var ErrInvalidReminder = errors.New("please enter medicine & time")

// Snapshot is a copy of both collections.
type Snapshot struct {
	Reminders []model.Reminder        `json:"reminders"`
	Adherence []model.AdherenceRecord `json:"adherence"`
}

// Store is the working copy of the reminder and adherence collections.
// Every mutation is written through to the durable store before it becomes
// visible; a failed write leaves the working copy untouched.
type Store struct {
	kv      storage.Store
	clock   schedule.Clock
	logger  *zap.Logger
	metrics *metrics.Collector

	mu        sync.RWMutex
	reminders []model.Reminder
	adherence []model.AdherenceRecord
	lastID    int64
}

// NewStore creates an empty Store. Call Load to pick up persisted state.
func NewStore(kv storage.Store, clock schedule.Clock, logger *zap.Logger, m *metrics.Collector) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, clock: clock, logger: logger, metrics: m}
}

// Load replaces the working copy with the persisted collections. Missing,
// unreadable or malformed data yields empty collections.
func (s *Store) Load(ctx context.Context) Snapshot {
	reminders := s.validTimes(loadKey[model.Reminder](ctx, s, KeyReminders))
	history := dedupeHistory(loadKey[model.AdherenceRecord](ctx, s, KeyAdherence))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = reminders
	s.adherence = history
	s.lastID = 0
	for _, r := range reminders {
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}

	s.logger.Info("reminder store loaded",
		zap.Int("reminders", len(reminders)),
		zap.Int("adherence_days", len(history)),
	)
	return s.snapshotLocked()
}

func loadKey[T any](ctx context.Context, s *Store, key string) []T {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return []T{}
	}
	if err != nil {
		s.logger.Error("reminder store: read failed, starting empty", zap.String("key", key), zap.Error(err))
		return []T{}
	}

	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.logger.Warn("reminder store: malformed data ignored", zap.String("key", key), zap.Error(err))
		return []T{}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

// validTimes drops reminders whose time cannot be placed on the clock.
func (s *Store) validTimes(reminders []model.Reminder) []model.Reminder {
	out := reminders[:0]
	for _, r := range reminders {
		if _, ok := r.Hour(); !ok {
			s.logger.Warn("reminder store: reminder with invalid time dropped",
				zap.Int64("id", r.ID),
				zap.String("time", r.Time),
			)
			continue
		}
		out = append(out, r)
	}
	return out
}

func dedupeHistory(history []model.AdherenceRecord) []model.AdherenceRecord {
	seen := make(map[string]struct{}, len(history))
	out := history[:0]
	for _, h := range history {
		if _, ok := seen[h.Date]; ok {
			continue
		}
		seen[h.Date] = struct{}{}
		out = append(out, h)
	}
	return out
}

// Add appends a new untaken reminder for today and returns the updated collection.
func (s *Store) Add(ctx context.Context, medicine, at string, recurring bool) ([]model.Reminder, error) {
	medicine = strings.TrimSpace(medicine)
	at = strings.TrimSpace(at)
	switch {
	case medicine == "":
		return nil, fmt.Errorf("%w: medicine is required", ErrInvalidReminder)
	case at == "":
		return nil, fmt.Errorf("%w: time is required", ErrInvalidReminder)
	}
	h, m, err := model.ParseClock(at)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReminder, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	today := model.DayKey(now)
	r := model.Reminder{
		ID:        s.nextIDLocked(now.UnixMilli()),
		Medicine:  medicine,
		Time:      fmt.Sprintf("%02d:%02d", h, m),
		Recurring: recurring,
		Date:      today,
	}

	reminders := append(cloneReminders(s.reminders), r)
	history := Recompute(reminders, s.adherence, today)
	if err := s.commitLocked(ctx, reminders, history); err != nil {
		return nil, err
	}
	s.lastID = r.ID
	s.observeLocked("add", today)

	s.logger.Info("reminder added",
		zap.Int64("id", r.ID),
		zap.String("medicine", r.Medicine),
		zap.String("time", r.Time),
		zap.Bool("recurring", r.Recurring),
	)
	return cloneReminders(s.reminders), nil
}

// MarkTaken flags the reminder as taken and recomputes adherence for its day
// from the updated collection. Unknown ids and already-taken reminders are no-ops.
func (s *Store) MarkTaken(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 || s.reminders[idx].Taken {
		return nil
	}

	reminders := cloneReminders(s.reminders)
	reminders[idx].Taken = true
	day := reminders[idx].Date
	history := Recompute(reminders, s.adherence, day)
	if err := s.commitLocked(ctx, reminders, history); err != nil {
		return err
	}
	s.observeLocked("taken", day)

	s.logger.Info("reminder taken", zap.Int64("id", id), zap.String("medicine", reminders[idx].Medicine))
	return nil
}

// Remove deletes the reminder with id. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil
	}

	removed := s.reminders[idx]
	reminders := make([]model.Reminder, 0, len(s.reminders)-1)
	reminders = append(reminders, s.reminders[:idx]...)
	reminders = append(reminders, s.reminders[idx+1:]...)

	history := s.adherence
	if hasDay(history, removed.Date) {
		history = Recompute(reminders, history, removed.Date)
	}
	if err := s.commitLocked(ctx, reminders, history); err != nil {
		return err
	}
	s.observeLocked("remove", removed.Date)

	s.logger.Info("reminder removed", zap.Int64("id", id), zap.String("medicine", removed.Medicine))
	return nil
}

// Persist writes the current working copy to the durable store.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, s.reminders, s.adherence)
}

// Reminders returns a copy of every reminder in insertion order.
func (s *Store) Reminders() []model.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneReminders(s.reminders)
}

// Adherence returns a copy of the adherence history.
func (s *Store) Adherence() []model.AdherenceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.AdherenceRecord{}, s.adherence...)
}

// Snapshot returns copies of both collections taken under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Today returns the day key for the store's clock.
func (s *Store) Today() string {
	return model.DayKey(s.clock.Now())
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Reminders: cloneReminders(s.reminders),
		Adherence: append([]model.AdherenceRecord{}, s.adherence...),
	}
}

func (s *Store) commitLocked(ctx context.Context, reminders []model.Reminder, history []model.AdherenceRecord) error {
	if reminders == nil {
		reminders = []model.Reminder{}
	}
	if history == nil {
		history = []model.AdherenceRecord{}
	}
	rawReminders, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("reminder store: encode reminders: %w", err)
	}
	rawHistory, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("reminder store: encode adherence: %w", err)
	}

	if err := s.kv.SetMany(ctx, map[string]string{
		KeyReminders: string(rawReminders),
		KeyAdherence: string(rawHistory),
	}); err != nil {
		s.metrics.ObservePersistFailure()
		s.logger.Error("reminder store: persist failed", zap.Error(err))
		return fmt.Errorf("reminder store: persist: %w", err)
	}

	s.reminders = reminders
	s.adherence = history
	return nil
}

func (s *Store) observeLocked(op, day string) {
	s.metrics.ObserveReminder(op)
	if day != model.DayKey(s.clock.Now()) {
		return
	}
	for _, h := range s.adherence {
		if h.Date == day {
			s.metrics.SetAdherence(h.Taken, h.Total)
			return
		}
	}
}

// nextIDLocked derives an id from the current time, bumped past the last one
// handed out so ids stay unique and increasing.
func (s *Store) nextIDLocked(candidate int64) int64 {
	if candidate <= s.lastID {
		return s.lastID + 1
	}
	return candidate
}

func (s *Store) indexLocked(id int64) int {
	for i, r := range s.reminders {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func hasDay(history []model.AdherenceRecord, day string) bool {
	for _, h := range history {
		if h.Date == day {
			return true
		}
	}
	return false
}

func cloneReminders(in []model.Reminder) []model.Reminder {
	out := make([]model.Reminder, len(in))
	copy(out, in)
	return out
}
