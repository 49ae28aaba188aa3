package view

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/mkPlanner/internal/todo"
)

type stubQuerier []todo.Task

func (s stubQuerier) Query(string) []todo.Task { return s }

type recordingRescheduler struct {
	id   int64
	date string
}

func (r *recordingRescheduler) Reschedule(id int64, date string) error {
	r.id, r.date = id, date
	return nil
}

func task(id int64, date, clock, desc string, done bool) todo.Task {
	return todo.Task{ID: id, Description: desc, Date: date, Time: clock, Priority: todo.PriorityLow, Completed: done}
}

// ============================================================================
// Dashboard
// ============================================================================

func TestDashboard_SingleDayHalfDone(t *testing.T) {
	st := Dashboard([]todo.Task{
		task(1, "2025-01-10", "09:00", "a", true),
		task(2, "2025-01-10", "10:00", "b", false),
	})

	assert.Equal(t, DashboardStats{Total: 2, Completed: 1, Percent: 50, AvgPerDay: 50}, st)
}

func TestDashboard_Empty(t *testing.T) {
	st := Dashboard(nil)
	assert.Equal(t, DashboardStats{}, st)
	assert.Equal(t, "Total Tasks: 0 | Completed: 0 (0%)\nAvg Completion per Day: 0%", st.String())
}

func TestDashboard_AveragesPerDayRates(t *testing.T) {
	// Day one: 1/1 = 100%. Day two: 1/3 = 33.3%. Mean 66.67 -> 67.
	// Overall 2/4 = 50%.
	st := Dashboard([]todo.Task{
		task(1, "2025-01-01", "09:00", "a", true),
		task(2, "2025-01-02", "09:00", "b", true),
		task(3, "2025-01-02", "10:00", "c", false),
		task(4, "2025-01-02", "11:00", "d", false),
	})

	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.Completed)
	assert.Equal(t, 50, st.Percent)
	assert.Equal(t, 67, st.AvgPerDay)
}

func TestDashboard_RoundsHalfUp(t *testing.T) {
	tasks := make([]todo.Task, 0, 8)
	for i := range 8 {
		tasks = append(tasks, task(int64(i+1), "2025-01-01", "09:00", "x", i < 1))
	}
	// 1/8 = 12.5% -> 13
	assert.Equal(t, 13, Dashboard(tasks).Percent)
}

// ============================================================================
// Calendar
// ============================================================================

func TestCalendar_CoversWholeMonth(t *testing.T) {
	tests := []struct {
		now  time.Time
		days int
	}{
		{time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC), 31},
		{time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC), 29},
		{time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2025, time.April, 30, 8, 0, 0, 0, time.UTC), 30},
	}

	for _, tt := range tests {
		m := Calendar(nil, tt.now)
		require.Len(t, m.Days, tt.days, tt.now)
		assert.Equal(t, 1, m.Days[0].Number)
		assert.Equal(t, tt.days, m.Days[len(m.Days)-1].Number)
		assert.Equal(t, tt.now.Format("2006-01")+"-01", m.Days[0].Date)
	}
}

func TestCalendar_UsesLocalDateNotUTC(t *testing.T) {
	tz := time.FixedZone("UTC+10", 10*60*60)
	// 2025-03-01 05:00 local is still February in UTC.
	now := time.Date(2025, time.March, 1, 5, 0, 0, 0, tz)

	m := Calendar(nil, now)
	assert.Equal(t, time.March, m.Month)
	assert.Equal(t, "2025-03-01", m.Days[0].Date)
	assert.Equal(t, 6, m.Offset) // Saturday
}

func TestCalendar_PlacesTasksOnTheirDay(t *testing.T) {
	now := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	m := Calendar([]todo.Task{
		task(1, "2025-01-10", "09:00", "Buy milk", false),
		task(2, "2025-01-09", "10:00", "Ship release", true),
		task(3, "2025-01-10", "07:00", "Jog", false),
		task(4, "2025-02-10", "07:00", "Next month", false),
	}, now)

	day, ok := m.Day("2025-01-10")
	require.True(t, ok)
	assert.Equal(t, []Entry{
		{TaskID: 1, Label: "09:00 Buy milk"},
		{TaskID: 3, Label: "07:00 Jog"},
	}, day.Entries)

	day, ok = m.Day("2025-01-09")
	require.True(t, ok)
	assert.Equal(t, []Entry{{TaskID: 2, Label: "10:00 Ship release"}}, day.Entries)

	_, ok = m.Day("2025-02-10")
	assert.False(t, ok)
}

func TestDrop_ReschedulesToCellDate(t *testing.T) {
	r := &recordingRescheduler{}
	require.NoError(t, Drop(r, DragPayload{TaskID: 77}, Day{Date: "2025-01-21", Number: 21}))
	assert.Equal(t, int64(77), r.id)
	assert.Equal(t, "2025-01-21", r.date)
}

// ============================================================================
// List
// ============================================================================

func TestList_LabelsAndPayloads(t *testing.T) {
	rows := List(stubQuerier{
		task(2, "2025-01-09", "10:00", "Ship release", false),
		task(1, "2025-01-10", "09:00", "Buy milk", false),
	}, "")

	require.Len(t, rows, 2)
	assert.Equal(t, "2025-01-09 10:00 - Ship release", rows[0].Label)
	assert.Equal(t, DragPayload{TaskID: 2}, rows[0].Payload)
	assert.Equal(t, DragPayload{TaskID: 1}, rows[1].Payload)
}

// ============================================================================
// Chart
// ============================================================================

func TestChart_AlignedSeries(t *testing.T) {
	data := Chart([]todo.Task{
		task(1, "2025-01-10", "09:00", "a", true),
		task(2, "2025-01-09", "10:00", "b", false),
		task(3, "2025-01-10", "11:00", "c", false),
		task(4, "2025-01-08", "11:00", "d", true),
	})

	assert.Equal(t, []string{"2025-01-08", "2025-01-09", "2025-01-10"}, data.Labels)
	assert.Equal(t, []int{1, 0, 1}, data.Completed)
	assert.Equal(t, []int{1, 1, 2}, data.Total)
	assert.True(t, slices.IsSorted(data.Labels))
	assert.Equal(t, 2, data.Max())
}

func TestChart_Empty(t *testing.T) {
	data := Chart(nil)
	assert.Empty(t, data.Labels)
	assert.Empty(t, data.Completed)
	assert.Empty(t, data.Total)
	assert.Equal(t, 1, data.Max())
}

// ============================================================================
// Quote / Project
// ============================================================================

func TestQuote_FromKnownSet(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		assert.Contains(t, quotes, Quote(r))
	}
	assert.Contains(t, quotes, Quote(nil))
}

func TestProject_ComputesAllViews(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	tasks := []todo.Task{task(1, "2025-01-10", "09:00", "a", true)}

	r := Project(tasks, now)
	assert.Equal(t, Dashboard(tasks), r.Dashboard)
	assert.Equal(t, Calendar(tasks, now), r.Calendar)
	assert.Equal(t, Chart(tasks), r.Chart)
}
