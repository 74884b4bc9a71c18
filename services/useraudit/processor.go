package useraudit

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"prtgaudit/lib/restyutil"
	"prtgaudit/lib/scrapers/prtg"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/useraudit")

// NormalizeServerUrl trims a trailing slash and defaults to https when
// no scheme was given.
func NormalizeServerUrl(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, "/")
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return raw
}

// ServerNameFromUrl derives the reporting name: the url with its
// scheme stripped.
func ServerNameFromUrl(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		return u[i+3:]
	}
	return u
}

// Processor runs the whole pipeline for one server: passhash exchange,
// roster fetch, per-user detail extraction, record assembly.
type Processor struct {
	InsecureTls bool
	DebugOutput restyutil.InstrumentOutput
}

// ProcessServer never returns an error: every failure is downgraded
// into the result's Success flag and message so a single server can't
// stop a multi-server run.
func (p Processor) ProcessServer(ctx context.Context, cred Credential) ServerResult {
	ctx, span := tracer.Start(ctx, "ProcessServer")
	defer span.End()

	serverUrl := NormalizeServerUrl(cred.ServerUrl)
	result := ServerResult{ServerName: ServerNameFromUrl(serverUrl)}
	span.SetAttributes(attribute.String("server", result.ServerName))

	fail := func(err error) ServerResult {
		span.RecordError(err)
		span.SetStatus(codes.Error, "server processing failed")
		result.Success = false
		result.ErrorMessage = err.Error()
		return result
	}

	client, err := prtg.NewClient(prtg.ClientOptions{
		BaseUrl:     serverUrl,
		InsecureTls: p.InsecureTls,
		DebugOutput: p.DebugOutput,
	})
	if err != nil {
		return fail(err)
	}

	if err := client.Login(ctx, cred.Username, cred.Password); err != nil {
		return fail(err)
	}

	refs, err := client.FetchUserList(ctx)
	if err != nil {
		if errors.Is(err, prtg.ErrNoUsersFound) {
			slog.WarnContext(
				ctx, "roster came back empty, the account may lack permissions",
				"server", result.ServerName,
			)
		}
		return fail(err)
	}
	slog.InfoContext(ctx, "fetched user roster", "server", result.ServerName, "users", len(refs))

	details := client.FetchUserDetails(ctx, refs)

	records, err := assembleRecords(refs, details)
	if err != nil {
		return fail(err)
	}

	result.Users = records
	result.Success = true
	return result
}
