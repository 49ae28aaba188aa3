// Package desktop is the fyne window: add form, searchable list, month
// calendar with drag-and-drop rescheduling, dashboard line and bar chart.
// Every view is rebuilt from the store's snapshot after each mutation.
package desktop

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/MihkelHunter/mkPlanner/internal/todo"
	"github.com/MihkelHunter/mkPlanner/internal/view"
)

// ── App state ────────────────────────────────────────────────────────────────

type appState struct {
	store *todo.Store
	win   fyne.Window
	now   func() time.Time

	descEntry      *widget.Entry
	dateEntry      *widget.Entry
	timeEntry      *widget.Entry
	prioritySelect *widget.Select
	searchEntry    *widget.Entry

	taskList   *widget.List
	rows       []view.Row
	dashboard  *widget.Label
	calendar   *calendarView
	chart      *barChart
	quoteLabel *widget.Label

	unsubscribe func()
}

// Window builds the planner UI inside win and subscribes it to store.
func Window(store *todo.Store, win fyne.Window, quote string) fyne.CanvasObject {
	s := newAppState(store, win, time.Now)
	ui := s.buildUI()
	s.quoteLabel.SetText(quote)
	s.render(store.All())
	win.SetOnClosed(s.unsubscribe)
	return ui
}

func newAppState(store *todo.Store, win fyne.Window, now func() time.Time) *appState {
	s := &appState{store: store, win: win, now: now}
	s.calendar = newCalendarView(s.positionOf)
	s.chart = newBarChart()
	s.unsubscribe = store.Subscribe(s.render)
	return s
}

// ── Build UI ─────────────────────────────────────────────────────────────────

func (s *appState) buildUI() fyne.CanvasObject {
	title := canvas.NewText("  ✓  mkPlanner", color.White)
	title.TextSize = 20
	title.TextStyle = fyne.TextStyle{Bold: true}
	s.quoteLabel = widget.NewLabel("")
	s.quoteLabel.TextStyle = fyne.TextStyle{Italic: true}
	header := container.NewBorder(nil, nil, title, nil, container.NewCenter(s.quoteLabel))
	headerStack := container.NewStack(canvas.NewRectangle(colSurface), container.NewPadded(header))

	// Form
	s.descEntry = widget.NewEntry()
	s.descEntry.SetPlaceHolder("What needs doing?")
	s.descEntry.OnSubmitted = func(string) { s.addTask() }
	s.dateEntry = widget.NewEntry()
	s.dateEntry.SetPlaceHolder("YYYY-MM-DD")
	s.timeEntry = widget.NewEntry()
	s.timeEntry.SetPlaceHolder("HH:MM")
	s.prioritySelect = widget.NewSelect([]string{"Low", "Medium", "High"}, nil)
	s.prioritySelect.SetSelected("Medium")
	s.resetForm()

	addBtn := widget.NewButton("+ Add Task", s.addTask)
	addBtn.Importance = widget.HighImportance

	form := widget.NewForm(
		widget.NewFormItem("Task *", s.descEntry),
		widget.NewFormItem("Date *", s.dateEntry),
		widget.NewFormItem("Time *", s.timeEntry),
		widget.NewFormItem("Priority", s.prioritySelect),
	)

	// Search + list
	s.searchEntry = widget.NewEntry()
	s.searchEntry.SetPlaceHolder("Search tasks…")
	s.searchEntry.OnChanged = func(string) { s.render(s.store.All()) }

	s.taskList = widget.NewList(
		func() int { return len(s.rows) },
		func() fyne.CanvasObject { return newTaskRow(s.dropAt) },
		s.updateTaskRow,
	)
	s.taskList.OnSelected = func(id widget.ListItemID) { s.taskList.Unselect(id) }

	left := container.NewBorder(
		container.NewVBox(form, addBtn, widget.NewSeparator(), s.searchEntry),
		nil, nil, nil,
		s.taskList,
	)

	// Dashboard, calendar, chart
	s.dashboard = widget.NewLabel("")
	right := container.NewBorder(
		container.NewPadded(s.dashboard),
		nil, nil, nil,
		container.NewVSplit(container.NewScroll(s.calendar.grid), s.chart.box),
	)

	split := container.NewHSplit(left, right)
	split.Offset = 0.42

	return container.NewStack(
		canvas.NewRectangle(colBackground),
		container.NewBorder(headerStack, nil, nil, nil, split),
	)
}

func (s *appState) updateTaskRow(i widget.ListItemID, obj fyne.CanvasObject) {
	if i >= len(s.rows) {
		return
	}
	row := s.rows[i]
	r := obj.(*taskRow)
	r.set(row)

	id := row.Task.ID
	r.complete.OnTapped = func() { s.toggleTask(id) }
	r.remove.OnTapped = func() { s.confirmDelete(id) }
}

// ── Rendering ────────────────────────────────────────────────────────────────

// render recomputes every view from a snapshot of the collection.
func (s *appState) render(tasks []todo.Task) {
	s.rows = view.List(s.store, s.searchEntry.Text)
	s.taskList.Refresh()

	r := view.Project(tasks, s.now())
	s.dashboard.SetText(r.Dashboard.String())
	s.calendar.Render(r.Calendar)
	s.chart.Render(r.Chart)
}

// ── Actions ──────────────────────────────────────────────────────────────────

func (s *appState) addTask() {
	pri, err := todo.ParsePriority(s.prioritySelect.Selected)
	if err == nil {
		_, err = s.store.Add(s.descEntry.Text, s.dateEntry.Text, s.timeEntry.Text, pri)
	}
	if err != nil {
		s.showError(err)
		return
	}
	s.resetForm()
}

func (s *appState) resetForm() {
	date, clock := todo.DefaultSchedule(s.now())
	s.descEntry.SetText("")
	s.dateEntry.SetText(date)
	s.timeEntry.SetText(clock)
}

func (s *appState) toggleTask(id int64) {
	if err := s.store.Toggle(id); err != nil {
		s.showError(err)
	}
}

func (s *appState) confirmDelete(id int64) {
	dialog.ShowConfirm("Delete Task", "Are you sure you want to delete this task?",
		func(ok bool) { s.deleteTask(id, ok) }, s.win)
}

func (s *appState) deleteTask(id int64, confirmed bool) {
	if _, err := s.store.Delete(id, func(todo.Task) bool { return confirmed }); err != nil {
		s.showError(err)
	}
}

// dropAt reschedules the dragged task onto the calendar day under pos.
func (s *appState) dropAt(p view.DragPayload, pos fyne.Position) {
	day, ok := s.calendar.cellAt(pos)
	if !ok {
		return
	}
	if err := view.Drop(s.store, p, day); err != nil {
		s.showError(err)
	}
}

func (s *appState) positionOf(obj fyne.CanvasObject) fyne.Position {
	return fyne.CurrentApp().Driver().AbsolutePositionForObject(obj)
}

func (s *appState) showError(err error) {
	var verr *todo.ValidationError
	if errors.As(err, &verr) {
		dialog.ShowError(errors.New(verr.Warning()), s.win)
		return
	}
	dialog.ShowError(fmt.Errorf("could not save tasks: %w", err), s.win)
}
