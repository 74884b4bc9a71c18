package useraudit

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"prtgaudit/lib/report"

	"github.com/stretchr/testify/require"
)

const carolDetail = `
<html><body>
<div class="readonlyproperty">7/1/2025 4:15:00 PM</div>
<select name="primarygroup_2000"><option value="201" selected>Operators</option></select>
<input type="radio" name="active_" value="1" checked>
</body></html>`

func TestAggregatorMultiServer(t *testing.T) {
	users := append(defaultUsers(), fakeUser{id: 30, name: "Carol", detail: carolDetail})
	good := prtgServer(t, "secret", users)
	bad := prtgServer(t, "other-password", defaultUsers())

	wb, err := report.Open(filepath.Join(t.TempDir(), "report.xlsx"))
	require.NoError(t, err)
	defer wb.Close()

	agg := &Aggregator{
		Processor: Processor{},
		First: &StaticSource{Creds: []Credential{
			{ServerUrl: good.URL, Username: "prtgadmin", Password: "secret"},
			{ServerUrl: bad.URL, Username: "prtgadmin", Password: "secret"},
		}},
	}

	summary, err := agg.Run(context.Background(), wb)
	require.NoError(t, err)

	// server B's authentication failure surfaces in the summary
	// without halting the run
	require.Equal(t, 2, summary.Attempted)
	require.Equal(t, 1, summary.Succeeded)
	require.Equal(t, 3, summary.TotalUsers)
	require.Len(t, summary.Servers, 2)

	require.False(t, summary.Servers[0].Failed)
	require.Equal(t, 3, summary.Servers[0].Users)
	require.Equal(t, 2, summary.Servers[0].Active)
	require.Equal(t, 1, summary.Servers[0].Paused)

	require.True(t, summary.Servers[1].Failed)
	require.Contains(t, summary.Servers[1].Err, "check your username/password")

	// only the successful server got a sheet
	require.Len(t, wb.SheetNames(), 1)
	require.NoError(t, wb.Save())
}

func TestAggregatorInteractiveLoop(t *testing.T) {
	server := prtgServer(t, "secret", defaultUsers())

	wb, err := report.Open(filepath.Join(t.TempDir(), "report.xlsx"))
	require.NoError(t, err)
	defer wb.Close()

	// operator adds one extra server then declines
	var out bytes.Buffer
	more := &PromptSource{
		In:   bufio.NewReader(strings.NewReader("y\n" + server.URL + "\nprtgadmin\nn\n")),
		Out:  &out,
		Gate: true,
		ReadPassword: func() (string, error) {
			return "secret", nil
		},
	}

	agg := &Aggregator{
		Processor: Processor{},
		First: &StaticSource{Creds: []Credential{
			{ServerUrl: server.URL, Username: "prtgadmin", Password: "secret"},
		}},
		More: more,
	}

	summary, err := agg.Run(context.Background(), wb)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Attempted)
	require.Equal(t, 2, summary.Succeeded)
	require.Equal(t, 4, summary.TotalUsers)

	// both passes hit the same host; the second gets its own suffixed
	// sheet instead of landing on top of the first
	names := wb.SheetNames()
	require.Len(t, names, 2)
	require.NotEqual(t, names[0], names[1])
}

func TestSummaryRender(t *testing.T) {
	summary := Summary{
		Attempted:  2,
		Succeeded:  1,
		TotalUsers: 3,
		Servers: []ServerStats{
			{Name: "prtg.example.com", Users: 3, Active: 2, Paused: 1},
			{Name: "prtg2.example.com", Failed: true, Err: "authentication failed"},
		},
	}

	var out bytes.Buffer
	summary.Render(&out)

	rendered := out.String()
	require.Contains(t, rendered, "Servers processed: 1 of 2")
	require.Contains(t, rendered, "Total users found: 3")
	require.Contains(t, rendered, "prtg.example.com")
	require.Contains(t, rendered, "authentication failed")
}
