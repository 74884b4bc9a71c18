package useraudit

import (
	"context"
	"log/slog"

	"prtgaudit/lib/report"
	"prtgaudit/lib/scrapers/prtg"
)

// Aggregator drives the processor across a sequence of servers: the
// first from a pre-supplied (or interactive) source, the rest from an
// interactive source gated on "add another server?". Each successful
// result becomes a new sheet on the workbook; failures are logged and
// the run moves on.
type Aggregator struct {
	Processor Processor
	First     CredentialSource
	// nil disables the add-another-server loop
	More CredentialSource
}

func (a *Aggregator) Run(ctx context.Context, wb *report.Workbook) (Summary, error) {
	var summary Summary

	sources := []CredentialSource{a.First}
	if a.More != nil {
		sources = append(sources, a.More)
	}

	for _, source := range sources {
		for {
			cred, ok, err := source.Next(ctx)
			if err != nil {
				return summary, err
			}
			if !ok {
				break
			}
			if err := a.processOne(ctx, cred, wb, &summary); err != nil {
				return summary, err
			}
		}
	}

	return summary, nil
}

func (a *Aggregator) processOne(ctx context.Context, cred Credential, wb *report.Workbook, summary *Summary) error {
	slog.InfoContext(ctx, "processing server", "server", cred.ServerUrl)

	result := a.Processor.ProcessServer(ctx, cred)
	summary.Attempted++

	if !result.Success {
		slog.ErrorContext(
			ctx, "server processing failed",
			"server", result.ServerName,
			"err", result.ErrorMessage,
		)
		summary.Servers = append(summary.Servers, ServerStats{
			Name:   result.ServerName,
			Failed: true,
			Err:    result.ErrorMessage,
		})
		return nil
	}

	sheet, err := wb.AppendSheet(result.ServerName, recordsToRows(result.Users))
	if err != nil {
		// the report artifact itself is broken, this is the one
		// failure that ends the whole run
		return err
	}

	stats := ServerStats{Name: result.ServerName, Users: len(result.Users)}
	for _, u := range result.Users {
		switch u.AccountStatus {
		case prtg.StatusActive:
			stats.Active++
		case prtg.StatusPaused:
			stats.Paused++
		}
	}
	summary.Succeeded++
	summary.TotalUsers += stats.Users
	summary.Servers = append(summary.Servers, stats)

	slog.InfoContext(
		ctx, "server processed",
		"server", result.ServerName,
		"sheet", sheet,
		"users", stats.Users,
	)
	return nil
}

func recordsToRows(records []UserRecord) []report.Row {
	rows := make([]report.Row, len(records))
	for i, r := range records {
		rows[i] = report.Row{
			UserName:      r.UserName,
			PrimaryGroup:  r.PrimaryGroup,
			AccountStatus: r.AccountStatus,
			LastLoginDate: r.LastLoginDate,
		}
	}
	return rows
}
