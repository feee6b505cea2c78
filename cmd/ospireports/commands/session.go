package commands

import (
	"log/slog"

	"ospireports/internal/components/telemetry"
	"ospireports/internal/config"
	"ospireports/internal/reports"
	"ospireports/lib/restyutil"
	"ospireports/lib/serviceutil"
	libtelemetry "ospireports/lib/telemetry"
)

const (
	configPath = "config.json5"
	restyDumps = ".dev/resty"
)

// session is what every command starts from.
type session struct {
	cfg    config.Config
	tel    telemetry.API
	client *reports.Client
}

func newSession() session {
	cfg, err := config.Load(configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	libtelemetry.InitSlog(cfg.Debug)

	tel := telemetry.SlogAPI{Logger: slog.Default()}

	// already validated by Load
	timeout, _ := cfg.RequestTimeoutDuration()
	opts := reports.ClientOptions{
		Endpoints: reports.Endpoints{
			Portal:        cfg.PortalUrl,
			HostedReports: cfg.HostedReportsUrl,
		},
		UserAgent: cfg.Browser.UserAgent,
		Timeout:   timeout,
	}
	if cfg.Debug {
		output, err := restyutil.NewFilesystemOutput(restyDumps)
		if err != nil {
			slog.Warn("failed to create http dump directory, dumps disabled", "dir", restyDumps, "err", err)
		} else {
			opts.Output = output
		}
	}

	client, err := reports.NewClient(opts, tel)
	if err != nil {
		serviceutil.Fatal("failed to create reports client", err)
	}

	return session{cfg: cfg, tel: tel, client: client}
}
