package desktop

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/MihkelHunter/mkPlanner/internal/view"
)

const (
	chartHeight = 160
	barWidth    = 14
)

// barChart draws grouped completed/total bars per date. The previous chart is
// thrown away and rebuilt on every Render.
type barChart struct {
	box     *fyne.Container
	current fyne.CanvasObject
}

var _ view.ChartRenderer = (*barChart)(nil)

func newBarChart() *barChart {
	return &barChart{box: container.NewStack()}
}

func (c *barChart) Render(data view.ChartData) {
	c.current = buildChart(data)
	c.box.Objects = []fyne.CanvasObject{c.current}
	c.box.Refresh()
}

func buildChart(data view.ChartData) fyne.CanvasObject {
	legend := container.NewHBox(
		legendItem(colDoneBar, view.SeriesCompleted),
		legendItem(colTotalBar, view.SeriesTotal),
	)
	if len(data.Labels) == 0 {
		return container.NewBorder(legend, nil, nil, nil, widget.NewLabel("No tasks yet."))
	}

	scale := float32(chartHeight) / float32(data.Max())
	groups := container.NewHBox()
	for i, label := range data.Labels {
		bars := container.NewHBox(
			bar(colDoneBar, float32(data.Completed[i])*scale),
			bar(colTotalBar, float32(data.Total[i])*scale),
		)
		caption := widget.NewLabelWithStyle(shortDate(label), fyne.TextAlignCenter, fyne.TextStyle{})
		groups.Add(container.NewVBox(bars, caption))
	}
	return container.NewBorder(legend, nil, nil, nil, container.NewHScroll(groups))
}

// bar is a rectangle of height h sitting on the chart's baseline.
func bar(col color.Color, h float32) fyne.CanvasObject {
	r := canvas.NewRectangle(col)
	r.SetMinSize(fyne.NewSize(barWidth, h))
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(barWidth, chartHeight-h))
	return container.New(layout.NewVBoxLayout(), spacer, r)
}

func legendItem(col color.Color, name string) fyne.CanvasObject {
	swatch := canvas.NewRectangle(col)
	swatch.SetMinSize(fyne.NewSize(12, 12))
	return container.NewHBox(container.NewCenter(swatch), widget.NewLabel(name))
}

// shortDate trims the year off an ISO date for axis labels.
func shortDate(date string) string {
	if len(date) == len("2006-01-02") {
		return date[5:]
	}
	return date
}
