package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskbar/table-reservation/internal/catalog"
	"github.com/duskbar/table-reservation/internal/model"
)

// fakeStore returns canned per-bucket counts and records how often it was
// queried.
type fakeStore struct {
	counts map[model.Bucket]int
	calls  int
}

func (f *fakeStore) CountActiveByDate(_ context.Context, _ string) (map[model.Bucket]int, error) {
	f.calls++
	return f.counts, nil
}

// tenTables builds a catalog holding exactly ten tables per slot so the
// ratio arithmetic in the tests stays readable.
func tenTables(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.Options{
		TableCounts: map[string]int{"standard": 4, "lounge": 3, "vip": 2, "outdoor": 1},
	})
	require.NoError(t, err)
	require.Equal(t, 10, c.TotalTables())
	return c
}

func bucket(date, slot, tt string) model.Bucket {
	return model.Bucket{Date: date, Time: slot, TableType: tt}
}

func TestSlotsForDateCountsRemaining(t *testing.T) {
	const date = "2026-09-12"
	store := &fakeStore{counts: map[model.Bucket]int{
		bucket(date, "19:00", "standard"): 2,
		bucket(date, "19:00", "vip"):      1,
	}}
	e := NewEngine(tenTables(t), store, Thresholds{})

	slots, err := e.SlotsForDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, slots, 12)

	bySlot := map[string]SlotAvailability{}
	for _, s := range slots {
		bySlot[s.Time] = s
	}
	assert.Equal(t, 7, bySlot["19:00"].Available)
	assert.Equal(t, 10, bySlot["19:00"].Total)
	assert.Equal(t, 10, bySlot["18:00"].Available)
}

func TestSlotsForDateRejectsBadDate(t *testing.T) {
	e := NewEngine(tenTables(t), &fakeStore{}, Thresholds{})
	_, err := e.SlotsForDate(context.Background(), "12/09/2026")
	assert.Error(t, err)
}

func TestDayStatusAvailable(t *testing.T) {
	const date = "2026-09-12"
	counts := map[model.Bucket]int{}
	// Every slot loses three tables; seven of ten remain, ratio 0.7.
	c := tenTables(t)
	for _, slot := range c.Slots() {
		counts[bucket(date, slot, "standard")] = 3
	}
	e := NewEngine(c, &fakeStore{counts: counts}, Thresholds{})

	status, err := e.DayStatus(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, LevelAvailable, status)
}

func TestDayStatusLimited(t *testing.T) {
	const date = "2026-09-12"
	counts := map[model.Bucket]int{}
	// Six of ten taken everywhere; four remain, ratio 0.4.
	c := tenTables(t)
	for _, slot := range c.Slots() {
		counts[bucket(date, slot, "standard")] = 4
		counts[bucket(date, slot, "lounge")] = 2
	}
	e := NewEngine(c, &fakeStore{counts: counts}, Thresholds{})

	status, err := e.DayStatus(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, LevelLimited, status)
}

func TestDayStatusFull(t *testing.T) {
	const date = "2026-09-12"
	counts := map[model.Bucket]int{}
	c := tenTables(t)
	for _, slot := range c.Slots() {
		counts[bucket(date, slot, "standard")] = 4
		counts[bucket(date, slot, "lounge")] = 3
		counts[bucket(date, slot, "vip")] = 2
		counts[bucket(date, slot, "outdoor")] = 1
	}
	e := NewEngine(c, &fakeStore{counts: counts}, Thresholds{})

	status, err := e.DayStatus(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, LevelFull, status)
}

func TestDayStatusOpenWhenNothingBooked(t *testing.T) {
	e := NewEngine(tenTables(t), &fakeStore{}, Thresholds{})
	status, err := e.DayStatus(context.Background(), "2026-09-12")
	require.NoError(t, err)
	assert.Equal(t, LevelAvailable, status)
}

func TestSingleSlotWindow(t *testing.T) {
	c, err := catalog.New(catalog.Options{Open: "18:00", Close: "18:00", Interval: time.Hour})
	require.NoError(t, err)
	require.Len(t, c.Slots(), 1)
}

func TestEmptyCatalog(t *testing.T) {
	store := &fakeStore{}
	e := NewEngine(&catalog.Catalog{}, store, Thresholds{})

	slots, err := e.SlotsForDate(context.Background(), "2026-09-12")
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
	// With no slots there is nothing to count.
	assert.Equal(t, 0, store.calls)

	status, err := e.DayStatus(context.Background(), "2026-09-12")
	require.NoError(t, err)
	assert.Equal(t, LevelUnknown, status)
}

func TestPastDatesRemainQueryable(t *testing.T) {
	const date = "2019-03-02"
	store := &fakeStore{counts: map[model.Bucket]int{
		bucket(date, "19:00", "standard"): 4,
	}}
	e := NewEngine(tenTables(t), store, Thresholds{})

	slots, err := e.SlotsForDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, slots, 12)

	status, err := e.DayStatus(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, LevelAvailable, status)
}

func TestSlotClassification(t *testing.T) {
	e := NewEngine(tenTables(t), &fakeStore{}, Thresholds{})
	assert.Equal(t, LevelAvailable, e.classifySlot(7, 10))
	assert.Equal(t, LevelAvailable, e.classifySlot(4, 10))
	assert.Equal(t, LevelLimited, e.classifySlot(3, 10))
	assert.Equal(t, LevelLimited, e.classifySlot(1, 10))
	assert.Equal(t, LevelFull, e.classifySlot(0, 10))
}

func TestReadsAreIdempotent(t *testing.T) {
	const date = "2026-09-12"
	store := &fakeStore{counts: map[model.Bucket]int{
		bucket(date, "20:00", "standard"): 2,
	}}
	e := NewEngine(tenTables(t), store, Thresholds{})

	first, err := e.SlotsForDate(context.Background(), date)
	require.NoError(t, err)
	second, err := e.SlotsForDate(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, store.calls)
}
