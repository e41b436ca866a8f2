package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pathakanu/myMeds/internal/model"
	"github.com/pathakanu/myMeds/internal/schedule"
	"github.com/pathakanu/myMeds/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var morning = time.Date(2026, time.October, 16, 7, 30, 0, 0, time.UTC)

type flakyKV struct {
	*storage.Memory
	fail bool
}

func (f *flakyKV) SetMany(ctx context.Context, values map[string]string) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Memory.SetMany(ctx, values)
}

func newTestStore(t *testing.T) (*Store, *storage.Memory, *schedule.Manual) {
	t.Helper()
	kv := storage.NewMemory()
	clock := schedule.NewManual(morning)
	s := NewStore(kv, clock, zap.NewNop(), nil)
	s.Load(context.Background())
	return s, kv, clock
}

func persisted[T any](t *testing.T, kv storage.Store, key string) []T {
	t.Helper()
	raw, err := kv.Get(context.Background(), key)
	require.NoError(t, err)
	var out []T
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestAddThenTake(t *testing.T) {
	ctx := context.Background()
	s, kv, _ := newTestStore(t)

	reminders, err := s.Add(ctx, "Aspirin", "08:00", true)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	r := reminders[0]
	assert.False(t, r.Taken)
	assert.Equal(t, "Aspirin", r.Medicine)
	assert.Equal(t, "08:00", r.Time)
	assert.True(t, r.Recurring)
	assert.Equal(t, "Fri Oct 16 2026", r.Date)
	assert.Equal(t, morning.UnixMilli(), r.ID)

	require.NoError(t, s.MarkTaken(ctx, r.ID))
	got := s.Reminders()
	require.Len(t, got, 1)
	assert.True(t, got[0].Taken)

	want := []model.AdherenceRecord{{Date: "Fri Oct 16 2026", Taken: 1, Total: 1}}
	assert.Equal(t, want, s.Adherence())
	assert.Equal(t, want, persisted[model.AdherenceRecord](t, kv, KeyAdherence))

	stored := persisted[model.Reminder](t, kv, KeyReminders)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Taken, "persisted copy must reflect the mutation immediately")
}

func TestMarkTakenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	reminders, err := s.Add(ctx, "Aspirin", "08:00", false)
	require.NoError(t, err)
	_, err = s.Add(ctx, "Vitamin D", "09:00", false)
	require.NoError(t, err)

	require.NoError(t, s.MarkTaken(ctx, reminders[0].ID))
	once := s.Snapshot()
	require.NoError(t, s.MarkTaken(ctx, reminders[0].ID))
	assert.Equal(t, once, s.Snapshot())
	assert.Equal(t, []model.AdherenceRecord{{Date: "Fri Oct 16 2026", Taken: 1, Total: 2}}, s.Adherence())
}

func TestUnknownIDIsSilentNoop(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	_, err := s.Add(ctx, "Aspirin", "08:00", false)
	require.NoError(t, err)
	before := s.Snapshot()

	assert.NoError(t, s.MarkTaken(ctx, 42))
	assert.NoError(t, s.Remove(ctx, 42))
	assert.Equal(t, before, s.Snapshot())
}

func TestDeleteRemovesFromAllViews(t *testing.T) {
	ctx := context.Background()
	s, kv, clock := newTestStore(t)

	first, err := s.Add(ctx, "Aspirin", "08:00", true)
	require.NoError(t, err)
	clock.Advance(time.Millisecond)
	_, err = s.Add(ctx, "Metformin", "08:30", false)
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, first[0].ID))

	remaining := s.Reminders()
	require.Len(t, remaining, 1)
	assert.Equal(t, "Metformin", remaining[0].Medicine)
	assert.Len(t, persisted[model.Reminder](t, kv, KeyReminders), 1)

	buckets := Bucket(ForDay(remaining, s.Today()))
	for _, b := range buckets {
		for _, r := range b {
			assert.NotEqual(t, first[0].ID, r.ID)
		}
	}
	assert.Equal(t, []model.AdherenceRecord{{Date: "Fri Oct 16 2026", Taken: 0, Total: 1}}, s.Adherence())
}

func TestValidationRejectsEmptyInput(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	cases := []struct{ medicine, at string }{
		{"", "08:00"},
		{"   ", "08:00"},
		{"Aspirin", ""},
		{"Aspirin", "25:00"},
		{"Aspirin", "eight"},
	}
	for _, tc := range cases {
		reminders, err := s.Add(ctx, tc.medicine, tc.at, true)
		assert.True(t, errors.Is(err, ErrInvalidReminder), "add(%q, %q) = %v", tc.medicine, tc.at, err)
		assert.Nil(t, reminders)
	}
	assert.Empty(t, s.Reminders())
	assert.Empty(t, s.Adherence())
}

func TestAddNormalisesTime(t *testing.T) {
	s, _, _ := newTestStore(t)
	reminders, err := s.Add(context.Background(), " Aspirin ", "8:05", false)
	require.NoError(t, err)
	assert.Equal(t, "Aspirin", reminders[0].Medicine)
	assert.Equal(t, "08:05", reminders[0].Time)
}

func TestIDsAreUniqueWithinOneMillisecond(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	seen := map[int64]bool{}
	var last int64
	for i := 0; i < 5; i++ {
		reminders, err := s.Add(ctx, "Aspirin", "08:00", false)
		require.NoError(t, err)
		id := reminders[len(reminders)-1].ID
		assert.False(t, seen[id], "duplicate id %d", id)
		assert.Greater(t, id, last)
		seen[id] = true
		last = id
	}
}

func TestAdherenceInvariantsAcrossDays(t *testing.T) {
	ctx := context.Background()
	s, _, clock := newTestStore(t)

	yesterday, err := s.Add(ctx, "Aspirin", "08:00", false)
	require.NoError(t, err)
	require.NoError(t, s.MarkTaken(ctx, yesterday[0].ID))

	clock.Advance(24 * time.Hour)
	for _, at := range []string{"08:00", "12:00", "20:00"} {
		_, err := s.Add(ctx, "Ibuprofen", at, false)
		require.NoError(t, err)
	}
	all := s.Reminders()
	require.NoError(t, s.MarkTaken(ctx, all[1].ID))
	require.NoError(t, s.MarkTaken(ctx, all[1].ID))
	require.NoError(t, s.Remove(ctx, all[3].ID))

	reminders := s.Reminders()
	seen := map[string]bool{}
	for _, h := range s.Adherence() {
		assert.False(t, seen[h.Date], "duplicate adherence record for %s", h.Date)
		seen[h.Date] = true
		assert.GreaterOrEqual(t, h.Taken, 0)
		assert.LessOrEqual(t, h.Taken, h.Total)
		assert.Equal(t, len(ForDay(reminders, h.Date)), h.Total)
	}
	assert.Equal(t, []model.AdherenceRecord{
		{Date: "Fri Oct 16 2026", Taken: 1, Total: 1},
		{Date: "Sat Oct 17 2026", Taken: 1, Total: 2},
	}, s.Adherence())
}

func TestFailedPersistRollsBack(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{Memory: storage.NewMemory()}
	s := NewStore(kv, schedule.NewManual(morning), zap.NewNop(), nil)
	s.Load(ctx)

	reminders, err := s.Add(ctx, "Aspirin", "08:00", false)
	require.NoError(t, err)
	before := s.Snapshot()

	kv.fail = true
	_, err = s.Add(ctx, "Vitamin C", "09:00", false)
	assert.Error(t, err)
	assert.Error(t, s.MarkTaken(ctx, reminders[0].ID))
	assert.Error(t, s.Remove(ctx, reminders[0].ID))
	assert.Equal(t, before, s.Snapshot())

	kv.fail = false
	require.NoError(t, s.MarkTaken(ctx, reminders[0].ID))
	assert.True(t, s.Reminders()[0].Taken)
}

func TestLoadRestoresPersistedState(t *testing.T) {
	ctx := context.Background()
	s, kv, clock := newTestStore(t)
	added, err := s.Add(ctx, "Aspirin", "08:00", true)
	require.NoError(t, err)

	reopened := NewStore(kv, clock, zap.NewNop(), nil)
	snap := reopened.Load(ctx)
	assert.Equal(t, added, snap.Reminders)
	assert.Len(t, snap.Adherence, 1)

	// ids keep increasing past what was loaded even if the clock went back
	clock.Set(morning.Add(-time.Hour))
	more, err := reopened.Add(ctx, "Zinc", "10:00", false)
	require.NoError(t, err)
	assert.Greater(t, more[1].ID, added[0].ID)
}

func TestLoadTreatsMalformedDataAsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.SetMany(ctx, map[string]string{
		KeyReminders: "{not json",
		KeyAdherence: `[{"date":"Fri Oct 16 2026","taken":1,"total":2},{"date":"Fri Oct 16 2026","taken":0,"total":0}]`,
	}))

	core, logs := observer.New(zapcore.InfoLevel)
	s := NewStore(kv, schedule.NewManual(morning), zap.New(core), nil)
	snap := s.Load(ctx)

	assert.NotNil(t, snap.Reminders)
	assert.Empty(t, snap.Reminders)
	assert.Equal(t, []model.AdherenceRecord{{Date: "Fri Oct 16 2026", Taken: 1, Total: 2}}, snap.Adherence)
	assert.Equal(t, 1, logs.FilterMessage("reminder store: malformed data ignored").Len())
}

func TestLoadDropsRemindersWithInvalidTime(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.SetMany(ctx, map[string]string{
		KeyReminders: `[{"id":1,"medicine":"Aspirin","time":"08:00","date":"Fri Oct 16 2026"},` +
			`{"id":2,"medicine":"Zinc","time":"noon","date":"Fri Oct 16 2026"},` +
			`{"id":3,"medicine":"Iron","time":"7:30","date":"Fri Oct 16 2026"}]`,
	}))

	core, logs := observer.New(zapcore.InfoLevel)
	s := NewStore(kv, schedule.NewManual(morning), zap.New(core), nil)
	snap := s.Load(ctx)

	require.Len(t, snap.Reminders, 2)
	assert.Equal(t, int64(1), snap.Reminders[0].ID)
	assert.Equal(t, int64(3), snap.Reminders[1].ID)
	assert.Equal(t, 1, logs.FilterMessage("reminder store: reminder with invalid time dropped").Len())

	today := ForDay(snap.Reminders, s.Today())
	buckets := Bucket(today)
	bucketed := 0
	for _, b := range buckets {
		bucketed += len(b)
	}
	assert.Equal(t, len(today), bucketed)
}

func TestLoadWithNothingPersisted(t *testing.T) {
	s, _, _ := newTestStore(t)
	snap := s.Snapshot()
	assert.Empty(t, snap.Reminders)
	assert.Empty(t, snap.Adherence)
}

func TestPersistWritesBothKeys(t *testing.T) {
	ctx := context.Background()
	s, kv, _ := newTestStore(t)
	require.NoError(t, s.Persist(ctx))

	raw, err := kv.Get(ctx, KeyReminders)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
	raw, err = kv.Get(ctx, KeyAdherence)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}
