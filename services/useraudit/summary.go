package useraudit

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

type ServerStats struct {
	Name   string
	Users  int
	Active int
	Paused int
	Failed bool
	Err    string
}

type Summary struct {
	Attempted  int
	Succeeded  int
	TotalUsers int
	Servers    []ServerStats
}

// Render writes the end-of-run block: totals plus a per-server
// Active/Paused breakdown.
func (s Summary) Render(w io.Writer) {
	fmt.Fprintf(w, "\nServers processed: %d of %d\n", s.Succeeded, s.Attempted)
	fmt.Fprintf(w, "Total users found: %d\n", s.TotalUsers)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Server", "Users", "Active", "Paused", "Result"})
	for _, server := range s.Servers {
		if server.Failed {
			t.AppendRow(table.Row{server.Name, "-", "-", "-", server.Err})
			continue
		}
		t.AppendRow(table.Row{server.Name, server.Users, server.Active, server.Paused, "ok"})
	}
	t.Render()
}
