package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ospireports/internal/components/telemetry"
	"ospireports/internal/reports"
	libtelemetry "ospireports/lib/telemetry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = libtelemetry.Tracer("ospireports.internal.orchestrator")
var meter = otel.Meter("ospireports.internal.orchestrator")

var downloadedCounter, _ = meter.Int64Counter(
	"ospireports.documents.downloaded",
	metric.WithDescription("documents saved to the output root"),
)

const (
	report_run_fetch      = "run.fetch"
	report_run_downloaded = "run.downloaded"
)

type Resolver interface {
	ResolveOrganizations(ctx context.Context, year, reportCategory int) ([]reports.Organization, error)
}

type Lister interface {
	ListDocuments(ctx context.Context, query reports.DocumentQuery) ([]reports.DocumentRecord, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, documentID int, destinationPath string) error
}

// Plan is what a single run walks through.
type Plan struct {
	Years          []int
	ReportCategory int
	OrgTypeID      int
	Slugs          []string
}

type Summary struct {
	Years         int
	Organizations int
	Documents     int
	// Failed counts fetches that were skipped, it is always zero unless
	// SkipFailedDocuments is set.
	Failed int
}

type Options struct {
	OutputRoot string
	// Progress receives one line per saved document, defaults to os.Stdout.
	Progress io.Writer
	// SkipFailedDocuments reports a failed fetch as a warning and moves on
	// to the next document instead of stopping the run.
	SkipFailedDocuments bool
}

type Orchestrator struct {
	resolver Resolver
	lister   Lister
	fetcher  Fetcher
	opts     Options
	tel      telemetry.API
}

func New(resolver Resolver, lister Lister, fetcher Fetcher, opts Options, tel telemetry.API) *Orchestrator {
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	if opts.Progress == nil {
		opts.Progress = os.Stdout
	}
	return &Orchestrator{
		resolver: resolver,
		lister:   lister,
		fetcher:  fetcher,
		opts:     opts,
		tel:      telemetry.NewScopedAPI("orchestrator", tel),
	}
}

// run is the state of a single Run call.
type run struct {
	*Orchestrator
	id      string
	plan    Plan
	summary Summary
}

// Run downloads every document of the plan, one at a time. it stops at the
// first error unless that error is a fetch failure and SkipFailedDocuments
// is set. documents saved before the error stay on disk.
func (o *Orchestrator) Run(ctx context.Context, plan Plan) (Summary, error) {
	r := &run{Orchestrator: o, id: uuid.NewString(), plan: plan}
	o.tel.ReportInfo("run started", "run_id", r.id, "years", plan.Years, "slugs", plan.Slugs)

	ctx, span := tracer.Start(ctx, "orchestrator:Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", r.id),
		attribute.IntSlice("years", plan.Years),
		attribute.StringSlice("slugs", plan.Slugs),
	)

	for _, year := range plan.Years {
		err := r.year(ctx, year)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "run")
			return r.summary, err
		}
		r.summary.Years++
	}

	o.tel.ReportInfo(
		"run finished",
		"run_id", r.id,
		"years", r.summary.Years,
		"organizations", r.summary.Organizations,
		"documents", r.summary.Documents,
		"failed", r.summary.Failed,
	)
	return r.summary, nil
}

func (r *run) year(ctx context.Context, year int) error {
	orgs, err := r.resolver.ResolveOrganizations(ctx, year, r.plan.ReportCategory)
	if err != nil {
		return fmt.Errorf("year %d: %w", year, err)
	}
	orgs = reports.FilterByType(orgs, r.plan.OrgTypeID)
	r.tel.ReportDebug("resolved organizations", "run_id", r.id, "year", year, "count", len(orgs))

	for _, org := range orgs {
		for _, slug := range r.plan.Slugs {
			err := r.slug(ctx, year, org, slug)
			if err != nil {
				return fmt.Errorf("year %d, organization %d (%s), slug %s: %w", year, org.OrganizationID, org.Name, slug, err)
			}
		}
		r.summary.Organizations++
	}
	return nil
}

func (r *run) slug(ctx context.Context, year int, org reports.Organization, slug string) error {
	docs, err := r.lister.ListDocuments(ctx, reports.DocumentQuery{
		Year:           year,
		OrganizationID: org.OrganizationID,
		OrgTypeID:      r.plan.OrgTypeID,
		ReportCategory: r.plan.ReportCategory,
		Slug:           slug,
	})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		r.tel.ReportDebug("no documents", "run_id", r.id, "year", year, "org", org.Name, "slug", slug)
		return nil
	}

	err = os.MkdirAll(slugDir(r.opts.OutputRoot, year, org.Name, slug), 0755)
	if err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, doc := range docs {
		target := NewDownloadTarget(r.opts.OutputRoot, year, org.Name, slug, doc.DocumentID, doc.Title)

		err := r.fetcher.Fetch(ctx, target.DocumentID, target.DestinationPath)
		if err != nil {
			// a canceled run is never skipped over
			if !r.opts.SkipFailedDocuments || ctx.Err() != nil {
				return err
			}
			r.tel.ReportWarning(
				report_run_fetch,
				"run_id", r.id,
				"document_id", target.DocumentID,
				"path", target.DestinationPath,
				"err", err,
			)
			r.summary.Failed++
			continue
		}

		fmt.Fprintf(r.opts.Progress, "✔ %s → %s\n", target.Label(), filepath.Base(target.DestinationPath))
		downloadedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("slug", slug)))
		r.summary.Documents++
		r.tel.ReportCount(report_run_downloaded, int64(r.summary.Documents))
	}
	return nil
}
