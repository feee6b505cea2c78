package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"ospireports/cmd/ospireports/commands"
	"ospireports/lib/serviceutil"
	"ospireports/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)

	ctx := serviceutil.SignalContext(context.Background())
	tel, err := telemetry.SetupFromEnv(ctx, "ospireports")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx, time.Second*15)

	err = commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if shutdownErr := tel.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
