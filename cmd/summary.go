package main

import (
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/maxaizer/boss-scraper/internal/events"
	"io"
	"time"
)

func subscribeSummary(bus EventBus.Bus, out io.Writer) error {
	return bus.Subscribe(events.RunFinishedTopic, func(event events.RunFinished) {
		summaryTable(event, out).Render()
	})
}

func summaryTable(event events.RunFinished, out io.Writer) table.Writer {

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("%s run", event.Kind))

	unit := "Pages"
	if event.Kind == events.ImportRun {
		unit = "Files"
	}

	status := "ok"
	if !event.Success {
		status = "failed"
	}

	t.AppendRows([]table.Row{
		{"Status", status},
		{unit, event.Pages},
		{"Imported", fmt.Sprintf("%d/%d", event.Imported, event.Total)},
		{"Duration", event.Duration.Round(time.Millisecond)},
	})
	if event.Err != nil {
		t.AppendRow(table.Row{"Error", event.Err.Error()})
	}

	return t
}
