package main

import (
	"context"

	"prtgaudit/cmd/prtg-audit/commands"
	"prtgaudit/lib/telemetry"
)

func main() {
	ctx := context.Background()
	telemetry.SetupFromEnv(ctx, "prtg-audit")
	defer telemetry.Shutdown(ctx)

	commands.ExecuteContext(ctx)
}
