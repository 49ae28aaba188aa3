package desktop

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/MihkelHunter/mkPlanner/internal/view"
)

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type calendarCell struct {
	obj fyne.CanvasObject
	day view.Day
}

// calendarView draws the month as a 7-column grid and remembers where each
// day cell is so drops can be resolved to a date.
type calendarView struct {
	grid       *fyne.Container
	title      *widget.Label
	cells      []calendarCell
	positionOf func(fyne.CanvasObject) fyne.Position
}

func newCalendarView(positionOf func(fyne.CanvasObject) fyne.Position) *calendarView {
	return &calendarView{
		grid:       container.NewVBox(),
		title:      widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		positionOf: positionOf,
	}
}

// Render replaces every cell with ones built from m.
func (c *calendarView) Render(m view.Month) {
	c.title.SetText(m.Month.String() + " " + strconv.Itoa(m.Year))

	days := container.NewGridWithColumns(len(weekdays))
	for _, wd := range weekdays {
		days.Add(widget.NewLabelWithStyle(wd, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
	}
	for range m.Offset {
		days.Add(layout.NewSpacer())
	}

	c.cells = c.cells[:0]
	for _, d := range m.Days {
		obj := dayCell(d)
		c.cells = append(c.cells, calendarCell{obj: obj, day: d})
		days.Add(obj)
	}

	c.grid.Objects = []fyne.CanvasObject{c.title, days}
	c.grid.Refresh()
}

func dayCell(d view.Day) fyne.CanvasObject {
	bg := canvas.NewRectangle(colSurface)
	bg.CornerRadius = 6

	num := canvas.NewText(strconv.Itoa(d.Number), colAccent)
	num.TextStyle = fyne.TextStyle{Bold: true}
	box := container.NewVBox(num)
	for _, e := range d.Entries {
		item := widget.NewLabel(e.Label)
		item.Truncation = fyne.TextTruncateEllipsis
		item.SizeName = theme.SizeNameCaptionText
		box.Add(item)
	}
	return container.NewStack(bg, container.NewPadded(box))
}

// cellAt finds the day whose cell contains the absolute position pos.
func (c *calendarView) cellAt(pos fyne.Position) (view.Day, bool) {
	for _, cell := range c.cells {
		origin := c.positionOf(cell.obj)
		size := cell.obj.Size()
		if pos.X >= origin.X && pos.X < origin.X+size.Width &&
			pos.Y >= origin.Y && pos.Y < origin.Y+size.Height {
			return cell.day, true
		}
	}
	return view.Day{}, false
}
