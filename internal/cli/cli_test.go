package cli

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MihkelHunter/mkPlanner/internal/logging"
	"github.com/MihkelHunter/mkPlanner/internal/store"
	"github.com/MihkelHunter/mkPlanner/internal/todo"
	"github.com/MihkelHunter/mkPlanner/internal/view"
)

var testNow = time.Date(2025, time.January, 15, 8, 30, 0, 0, time.UTC)

// harness runs taskctl commands against one in-memory store.
type harness struct {
	t      *testing.T
	store  *todo.Store
	closed int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st, err := todo.Open(store.NewMemory(), todo.WithLogger(logging.Discard()))
	require.NoError(t, err)
	return &harness{t: t, store: st}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	opener := func(string) (*todo.Store, func() error, error) {
		return h.store, func() error { h.closed++; return nil }, nil
	}
	root := NewRootCmd(opener, func() time.Time { return testNow })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func (h *harness) add(desc, date, clock string) todo.Task {
	h.t.Helper()
	task, err := h.store.Add(desc, date, clock, todo.PriorityMedium)
	require.NoError(h.t, err)
	return task
}

func TestAdd(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "add", "Buy", "milk", "--date", "2025-01-10", "--time", "09:00", "--priority", "low")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-01-10 09:00 - Buy milk")

	tasks := h.store.All()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Description)
	assert.Equal(t, todo.PriorityLow, tasks[0].Priority)
	assert.Equal(t, 1, h.closed)
}

func TestAdd_DefaultsToNow(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "add", "Stand-up")
	require.NoError(t, err)

	tasks := h.store.All()
	require.Len(t, tasks, 1)
	assert.Equal(t, "2025-01-15", tasks[0].Date)
	assert.Equal(t, "08:30", tasks[0].Time)
	assert.Equal(t, todo.PriorityMedium, tasks[0].Priority)
}

func TestAdd_ValidationWarning(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "add", " ", "--date", "2025-01-10")
	require.Error(t, err)
	msg, ok := Warning(err)
	require.True(t, ok)
	assert.Equal(t, "Please enter description, date, and time!", msg)
	assert.Equal(t, 0, h.store.Len())

	_, err = h.run("", "add", "x", "--priority", "urgent")
	_, ok = Warning(err)
	assert.True(t, ok)
}

func TestList_SortedAndFiltered(t *testing.T) {
	h := newHarness(t)
	h.add("Buy milk", "2025-01-10", "09:00")
	h.add("Ship release", "2025-01-09", "10:00")

	out, err := h.run("", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Ship release")
	assert.Contains(t, lines[1], "Buy milk")

	out, err = h.run("", "list", "SHIP")
	require.NoError(t, err)
	assert.NotContains(t, out, "Buy milk")

	out, err = h.run("", "list", "--json")
	require.NoError(t, err)
	var rows []view.Row
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, 2)

	out, err = h.run("", "list", "nothing-matches")
	require.NoError(t, err)
	assert.Equal(t, "No tasks.\n", out)
}

func TestDone_Toggles(t *testing.T) {
	h := newHarness(t)
	task := h.add("Buy milk", "2025-01-10", "09:00")
	id := strconv.FormatInt(task.ID, 10)

	out, err := h.run("", "done", id)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")

	out, err = h.run("", "toggle", id)
	require.NoError(t, err)
	assert.Contains(t, out, "open")

	_, err = h.run("", "done", "abc")
	assert.ErrorContains(t, err, "invalid task ID")
}

func TestRm_Confirmation(t *testing.T) {
	h := newHarness(t)
	task := h.add("Buy milk", "2025-01-10", "09:00")
	id := strconv.FormatInt(task.ID, 10)

	out, err := h.run("n\n", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete this task?")
	assert.Equal(t, 1, h.store.Len())

	out, err = h.run("", "rm", id)
	require.NoError(t, err)
	assert.Equal(t, 1, h.store.Len(), out)

	out, err = h.run("y\n", "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task")
	assert.Equal(t, 0, h.store.Len())
}

func TestRm_Yes(t *testing.T) {
	h := newHarness(t)
	task := h.add("Buy milk", "2025-01-10", "09:00")

	_, err := h.run("", "rm", "--yes", strconv.FormatInt(task.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, h.store.Len())
}

func TestMove(t *testing.T) {
	h := newHarness(t)
	task := h.add("Buy milk", "2025-01-10", "09:00")

	_, err := h.run("", "move", strconv.FormatInt(task.ID, 10), "2025-01-22")
	require.NoError(t, err)
	got, _ := h.store.Get(task.ID)
	assert.Equal(t, "2025-01-22", got.Date)
	assert.Equal(t, "09:00", got.Time)

	_, err = h.run("", "move", strconv.FormatInt(task.ID, 10), "next week")
	_, ok := Warning(err)
	assert.True(t, ok)
}

func TestStats(t *testing.T) {
	h := newHarness(t)
	a := h.add("Buy milk", "2025-01-10", "09:00")
	h.add("Ship release", "2025-01-10", "10:00")
	require.NoError(t, h.store.Toggle(a.ID))

	out, err := h.run("", "stats")
	require.NoError(t, err)
	assert.Equal(t, "Total Tasks: 2 | Completed: 1 (50%)\nAvg Completion per Day: 50%\n", out)
}

func TestCalendar(t *testing.T) {
	h := newHarness(t)
	h.add("Buy milk", "2025-01-10", "09:00")
	h.add("Jog", "2025-01-10", "07:00")
	h.add("Elsewhere", "2025-03-01", "07:00")

	out, err := h.run("", "calendar")
	require.NoError(t, err)
	assert.Contains(t, out, "January 2025")
	assert.Contains(t, out, "10  09:00 Buy milk")
	assert.Contains(t, out, "    07:00 Jog")
	assert.NotContains(t, out, "Elsewhere")
}

func TestChart(t *testing.T) {
	h := newHarness(t)
	a := h.add("Buy milk", "2025-01-10", "09:00")
	h.add("Ship release", "2025-01-10", "10:00")
	h.add("Plan", "2025-01-09", "10:00")
	require.NoError(t, h.store.Toggle(a.ID))

	out, err := h.run("", "chart")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "2025-01-09")
	assert.Contains(t, lines[1], "0/1")
	assert.Contains(t, lines[2], "#.")
	assert.Contains(t, lines[2], "1/2")
}
