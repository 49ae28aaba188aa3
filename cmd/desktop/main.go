package main

import (
	"flag"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	mkapp "github.com/MihkelHunter/mkPlanner/internal/app"
	"github.com/MihkelHunter/mkPlanner/internal/desktop"
	"github.com/MihkelHunter/mkPlanner/internal/view"
)

func main() {
	configPath := flag.String("config", "", "config file")
	flag.Parse()

	planner, err := mkapp.Open(*configPath)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer planner.Close()

	a := app.New()
	a.Settings().SetTheme(desktop.Theme{})

	win := a.NewWindow("mkPlanner")
	win.Resize(fyne.NewSize(planner.Config.Window.Width, planner.Config.Window.Height))
	win.CenterOnScreen()
	win.SetContent(desktop.Window(planner.Store, win, view.Quote(nil)))

	win.ShowAndRun()
}
