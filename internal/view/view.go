// Package view holds the read-only projections of the task collection: the
// list, the month calendar, the dashboard line and the bar chart. Each one is
// recomputed from scratch out of a []todo.Task; none keeps state of its own.
package view

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/MihkelHunter/mkPlanner/internal/todo"
)

// ── List ─────────────────────────────────────────────────────────────────────

// DragPayload is what a list row carries when dragged onto a calendar day.
type DragPayload struct {
	TaskID int64 `json:"taskId"`
}

// Row is one line of the task list.
type Row struct {
	Task    todo.Task   `json:"task"`
	Label   string      `json:"label"`
	Payload DragPayload `json:"payload"`
}

// Querier is the part of todo.Store the list reads from.
type Querier interface {
	Query(substr string) []todo.Task
}

// List returns the filtered, date-ordered rows for the search box's filter.
func List(q Querier, filter string) []Row {
	tasks := q.Query(filter)
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, Row{
			Task:    t,
			Label:   fmt.Sprintf("%s %s - %s", t.Date, t.Time, t.Description),
			Payload: DragPayload{TaskID: t.ID},
		})
	}
	return rows
}

// ── Dashboard ────────────────────────────────────────────────────────────────

// DashboardStats summarizes the whole collection, ignoring any search filter.
type DashboardStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"`
	AvgPerDay int `json:"avgPerDay"`
}

// Dashboard computes the totals and the mean of each day's completion rate.
func Dashboard(tasks []todo.Task) DashboardStats {
	var st DashboardStats
	type day struct{ done, total int }
	days := make(map[string]*day)
	for _, t := range tasks {
		st.Total++
		d := days[t.Date]
		if d == nil {
			d = &day{}
			days[t.Date] = d
		}
		d.total++
		if t.Completed {
			st.Completed++
			d.done++
		}
	}
	if st.Total == 0 {
		return st
	}

	st.Percent = roundPercent(float64(st.Completed) / float64(st.Total) * 100)
	var sum float64
	for _, d := range days {
		sum += float64(d.done) / float64(d.total) * 100
	}
	st.AvgPerDay = roundPercent(sum / float64(len(days)))
	return st
}

func (s DashboardStats) String() string {
	return fmt.Sprintf("Total Tasks: %d | Completed: %d (%d%%)\nAvg Completion per Day: %d%%",
		s.Total, s.Completed, s.Percent, s.AvgPerDay)
}

// roundPercent rounds half up, like the browser's Math.round.
func roundPercent(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ── Calendar ─────────────────────────────────────────────────────────────────

// Entry is a task shown inside a calendar day.
type Entry struct {
	TaskID int64  `json:"taskId"`
	Label  string `json:"label"`
}

// Day is one cell of the month grid.
type Day struct {
	Date    string  `json:"date"`
	Number  int     `json:"number"`
	Entries []Entry `json:"entries"`
}

// Month is the calendar for the month containing the render time.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// Offset is the weekday of the first day, Sunday = 0, for grid layouts.
	Offset int   `json:"offset"`
	Days   []Day `json:"days"`
}

// Calendar builds one Day per day of now's month, in now's location.
func Calendar(tasks []todo.Task, now time.Time) Month {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)

	byDate := make(map[string][]Entry)
	for _, t := range tasks {
		byDate[t.Date] = append(byDate[t.Date], Entry{
			TaskID: t.ID,
			Label:  t.Time + " " + t.Description,
		})
	}

	m := Month{
		Year:   first.Year(),
		Month:  first.Month(),
		Offset: int(first.Weekday()),
		Days:   make([]Day, 0, last.Day()),
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format(todo.DateLayout)
		m.Days = append(m.Days, Day{Date: date, Number: d.Day(), Entries: byDate[date]})
	}
	return m
}

// Day returns the cell for an ISO date, if it is in this month.
func (m Month) Day(date string) (Day, bool) {
	for _, d := range m.Days {
		if d.Date == date {
			return d, true
		}
	}
	return Day{}, false
}

// Rescheduler is the part of todo.Store a calendar drop writes to.
type Rescheduler interface {
	Reschedule(id int64, date string) error
}

// Drop moves the dragged task onto day.
func Drop(r Rescheduler, p DragPayload, day Day) error {
	return r.Reschedule(p.TaskID, day.Date)
}

// ── Chart ────────────────────────────────────────────────────────────────────

// Series names used by chart renderers.
const (
	SeriesCompleted = "Completed Tasks"
	SeriesTotal     = "Total Tasks"
)

// ChartData holds the per-date bar series; all three slices are aligned.
type ChartData struct {
	Labels    []string `json:"labels"`
	Completed []int    `json:"completed"`
	Total     []int    `json:"total"`
}

// ChartRenderer draws a grouped bar chart. Each Render replaces the previous chart.
type ChartRenderer interface {
	Render(ChartData)
}

// Chart counts completed and total tasks for every date present, oldest first.
func Chart(tasks []todo.Task) ChartData {
	completed := make(map[string]int)
	total := make(map[string]int)
	for _, t := range tasks {
		total[t.Date]++
		if t.Completed {
			completed[t.Date]++
		}
	}

	data := ChartData{
		Labels:    make([]string, 0, len(total)),
		Completed: make([]int, 0, len(total)),
		Total:     make([]int, 0, len(total)),
	}
	for date := range total {
		data.Labels = append(data.Labels, date)
	}
	sort.Strings(data.Labels)
	for _, date := range data.Labels {
		data.Completed = append(data.Completed, completed[date])
		data.Total = append(data.Total, total[date])
	}
	return data
}

// Max returns the tallest bar, at least 1 so renderers can divide by it.
func (c ChartData) Max() int {
	m := 1
	for _, v := range c.Total {
		m = max(m, v)
	}
	return m
}

// ── Quote ────────────────────────────────────────────────────────────────────

var quotes = []string{
	"Believe you can and you're halfway there. 🌟",
	"Small steps every day lead to big results. 🚀",
	"Focus on progress, not perfection. ✨",
	"Your future is created by what you do today. 🌌",
	"Keep going, you are doing amazing. 💫",
	"Mistakes are proof you are trying. 🌙",
}

// Quote picks a motivational line for the header. A nil r uses the global source.
func Quote(r *rand.Rand) string {
	if r == nil {
		return quotes[rand.IntN(len(quotes))]
	}
	return quotes[r.IntN(len(quotes))]
}

// Render recomputes every projection from one snapshot.
type Render struct {
	Dashboard DashboardStats
	Calendar  Month
	Chart     ChartData
}

// Project builds all collection-wide projections at once.
func Project(tasks []todo.Task, now time.Time) Render {
	return Render{
		Dashboard: Dashboard(tasks),
		Calendar:  Calendar(tasks, now),
		Chart:     Chart(tasks),
	}
}
