package desktop

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/MihkelHunter/mkPlanner/internal/todo"
	"github.com/MihkelHunter/mkPlanner/internal/view"
)

// taskRow is one list line. It is draggable: releasing it over a calendar day
// hands its payload and the pointer position to onDrop.
type taskRow struct {
	widget.BaseWidget

	bg       *canvas.Rectangle
	dot      *canvas.Circle
	label    *widget.Label
	complete *widget.Button
	remove   *widget.Button

	payload  view.DragPayload
	dragPos  fyne.Position
	dragging bool
	onDrop   func(view.DragPayload, fyne.Position)
}

var _ fyne.Draggable = (*taskRow)(nil)

func newTaskRow(onDrop func(view.DragPayload, fyne.Position)) *taskRow {
	r := &taskRow{
		bg:       canvas.NewRectangle(colSurface),
		dot:      canvas.NewCircle(colLowPri),
		label:    widget.NewLabel("task"),
		complete: widget.NewButton("✔", nil),
		remove:   widget.NewButtonWithIcon("", theme.CancelIcon(), nil),
		onDrop:   onDrop,
	}
	r.bg.CornerRadius = 8
	r.dot.Resize(fyne.NewSize(12, 12))
	r.complete.Importance = widget.LowImportance
	r.remove.Importance = widget.DangerImportance
	r.label.Truncation = fyne.TextTruncateEllipsis
	r.ExtendBaseWidget(r)
	return r
}

func (r *taskRow) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewBorder(nil, nil,
		container.NewCenter(r.dot),
		container.NewHBox(r.complete, r.remove),
		r.label,
	)
	return widget.NewSimpleRenderer(container.NewStack(r.bg, container.NewPadded(content)))
}

func (r *taskRow) set(row view.Row) {
	r.payload = row.Payload
	r.dot.FillColor = priorityColor(row.Task.Priority)
	r.dot.Refresh()

	if row.Task.Completed {
		r.label.TextStyle = fyne.TextStyle{Italic: true}
		r.bg.FillColor = colDone
	} else {
		r.label.TextStyle = fyne.TextStyle{Bold: true}
		r.bg.FillColor = colSurface
	}
	r.bg.Refresh()
	r.label.SetText(row.Label)
}

func (r *taskRow) Dragged(e *fyne.DragEvent) {
	r.dragging = true
	r.dragPos = e.AbsolutePosition
}

func (r *taskRow) DragEnd() {
	if !r.dragging {
		return
	}
	r.dragging = false
	if r.onDrop != nil {
		r.onDrop(r.payload, r.dragPos)
	}
}

func priorityColor(p todo.Priority) color.Color {
	switch p {
	case todo.PriorityHigh:
		return colHighPri
	case todo.PriorityMedium:
		return colMedPri
	default:
		return colLowPri
	}
}
