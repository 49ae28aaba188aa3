package main

import (
	"fmt"
	"os"
	"time"

	"github.com/MihkelHunter/mkPlanner/internal/app"
	"github.com/MihkelHunter/mkPlanner/internal/cli"
	"github.com/MihkelHunter/mkPlanner/internal/todo"
)

func main() {
	open := func(configPath string) (*todo.Store, func() error, error) {
		a, err := app.Open(configPath)
		if err != nil {
			return nil, nil, err
		}
		return a.Store, a.Close, nil
	}

	if err := cli.NewRootCmd(open, time.Now).Execute(); err != nil {
		if msg, ok := cli.Warning(err); ok {
			fmt.Fprintln(os.Stderr, msg)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
