// client.go talks to the ospi reporting portal, it only knows about the two
// json lookups. downloading the documents themselves is done by a browser.

package reports

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ospireports/internal/components/telemetry"
	"ospireports/lib/restyutil"
	libtelemetry "ospireports/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = libtelemetry.Tracer("ospireports.internal.reports")

const (
	report_client_resolve_organizations = "client.resolve-organizations"
	report_client_list_documents        = "client.list-documents"
)

const (
	proxyPath     = "/modules/custom/ospi_reports/cors_proxy.php"
	documentsPath = "/modules/custom/ospi_reports/get_documents.php"
)

// Endpoints locates the portal (which hosts the proxy and the documents
// endpoint) and the hosted reports api the requests are relayed to.
type Endpoints struct {
	Portal        string
	HostedReports string
}

func (e Endpoints) hostedReports() string {
	return strings.TrimSuffix(e.HostedReports, "/")
}

func (e Endpoints) Organizations(year, reportCategory int) string {
	return fmt.Sprintf("%s/api/0/Document/Organizations/%d/SubCategory/%d", e.hostedReports(), year, reportCategory)
}

func (e Endpoints) Search() string {
	return e.hostedReports() + "/api/0/Document/Search"
}

func (e Endpoints) Download(documentID int) string {
	return fmt.Sprintf("%s/api/0/Document/Download/%d", e.hostedReports(), documentID)
}

type ClientOptions struct {
	Endpoints Endpoints
	UserAgent string
	Timeout   time.Duration
	// Output receives raw http exchanges when debug logging is on, may be nil.
	Output restyutil.InstrumentOutput
}

// Client holds the http session shared by every lookup of a run.
type Client struct {
	endpoints Endpoints
	http      *resty.Client
	tel       telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	tel = telemetry.NewScopedAPI("reports", tel)

	portal, err := url.Parse(opts.Endpoints.Portal)
	if err != nil {
		return nil, fmt.Errorf("parse portal url: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(strings.TrimSuffix(opts.Endpoints.Portal, "/"))
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	if opts.UserAgent != "" {
		httpClient.SetHeader("User-Agent", opts.UserAgent)
	}
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(portal.Hostname()))
	httpClient.SetTimeout(opts.Timeout)

	restyutil.InstrumentClient(httpClient, tracer, opts.Output)

	return &Client{
		endpoints: opts.Endpoints,
		http:      httpClient,
		tel:       tel,
	}, nil
}

func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

func checkStatus(res *resty.Response) error {
	if res.IsSuccess() {
		return nil
	}
	return &TransportError{
		Method:     res.Request.Method,
		URL:        res.Request.URL,
		StatusCode: res.StatusCode(),
		Status:     res.Status(),
	}
}

// ResolveOrganizations returns every organization the catalog knows of for
// `year` under `reportCategory`, unfiltered.
func (c *Client) ResolveOrganizations(ctx context.Context, year, reportCategory int) ([]Organization, error) {
	ctx, span := tracer.Start(ctx, "client:ResolveOrganizations")
	defer span.End()
	span.SetAttributes(
		attribute.Int("year", year),
		attribute.Int("report_category", reportCategory),
	)

	fail := func(err error) ([]Organization, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve organizations")
		c.tel.ReportBroken(report_client_resolve_organizations, "year", year, "err", err)
		return nil, fmt.Errorf("resolve organizations for %d: %w", year, err)
	}

	target := c.endpoints.Organizations(year, reportCategory)
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetQueryParams(map[string]string{
			"action": "cors_proxy",
			"uri":    target,
		}).
		Get(proxyPath)
	if err != nil {
		return fail(err)
	}
	if err := checkStatus(res); err != nil {
		return fail(err)
	}

	orgs, err := decodeJSON[[]Organization](res.Body())
	if err != nil {
		return fail(err)
	}

	span.SetAttributes(attribute.Int("organizations", len(orgs)))
	c.tel.ReportDebug("resolved organizations", "year", year, "count", len(orgs))
	return orgs, nil
}

// ListDocuments returns the documents matching `query`, an empty result
// means there is nothing to download for it.
func (c *Client) ListDocuments(ctx context.Context, query DocumentQuery) ([]DocumentRecord, error) {
	ctx, span := tracer.Start(ctx, "client:ListDocuments")
	defer span.End()
	span.SetAttributes(
		attribute.Int("year", query.Year),
		attribute.Int("organization_id", query.OrganizationID),
		attribute.String("slug", query.Slug),
	)

	fail := func(err error) ([]DocumentRecord, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list documents")
		c.tel.ReportBroken(
			report_client_list_documents,
			"year", query.Year,
			"organization_id", query.OrganizationID,
			"slug", query.Slug,
			"err", err,
		)
		return nil, fmt.Errorf(
			"list documents for %d/%d/%s: %w",
			query.Year, query.OrganizationID, query.Slug, err,
		)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"uri":         c.endpoints.Search(),
			"year":        strconv.Itoa(query.Year),
			"report_type": strconv.Itoa(query.ReportCategory),
			"org":         strconv.Itoa(query.OrganizationID),
			"org_type":    strconv.Itoa(query.OrgTypeID),
			"report":      query.Slug,
		}).
		Post(documentsPath)
	if err != nil {
		return fail(err)
	}
	if err := checkStatus(res); err != nil {
		return fail(err)
	}

	docs, err := decodeJSON[[]DocumentRecord](res.Body())
	if err != nil {
		return fail(err)
	}

	span.SetAttributes(attribute.Int("documents", len(docs)))
	return docs, nil
}
