package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"ospireports/lib/configutil"

	"dario.cat/mergo"
)

type YearRange struct {
	// both ends are inclusive
	Start int `json:"start"`
	End   int `json:"end"`
}

// Years expands the range in ascending order.
func (r YearRange) Years() []int {
	if r.End < r.Start {
		return nil
	}
	years := make([]int, 0, r.End-r.Start+1)
	for y := r.Start; y <= r.End; y++ {
		years = append(years, y)
	}
	return years
}

type Browser struct {
	// Headless is a pointer so that an explicit `false` survives merging with defaults.
	Headless        *bool  `json:"headless"`
	RemoteUrl       string `json:"remote_url"`
	UserAgent       string `json:"user_agent"`
	Referer         string `json:"referer"`
	DownloadTimeout string `json:"download_timeout"`
}

type Config struct {
	OutputRoot          string    `json:"output_root"`
	Years               YearRange `json:"years"`
	ReportCategory      int       `json:"report_category"`
	OrgTypeID           int       `json:"org_type_id"`
	ReportSlugs         []string  `json:"report_slugs"`
	PortalUrl           string    `json:"portal_url"`
	HostedReportsUrl    string    `json:"hosted_reports_url"`
	RequestTimeout      string    `json:"request_timeout"`
	SkipFailedDocuments bool      `json:"skip_failed_documents"`
	Debug               bool      `json:"debug"`
	Browser             Browser   `json:"browser"`
}

const (
	// apportionment
	DefaultReportCategory = 3
	// district (CCDDD)
	DefaultOrgTypeID = 2

	DefaultPortalUrl        = "https://ospi.k12.wa.us"
	DefaultHostedReportsUrl = "https://hostedreports.ospi.k12.wa.us"
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36"
	DefaultReferer          = "https://ospi.k12.wa.us/policy-funding/school-apportionment/safs-report"
)

func Default() Config {
	headless := true
	return Config{
		OutputRoot:       "FileStore",
		Years:            YearRange{Start: 2013, End: 2013},
		ReportCategory:   DefaultReportCategory,
		OrgTypeID:        DefaultOrgTypeID,
		ReportSlugs:      []string{"safs"},
		PortalUrl:        DefaultPortalUrl,
		HostedReportsUrl: DefaultHostedReportsUrl,
		RequestTimeout:   "30s",
		Browser: Browser{
			Headless:        &headless,
			UserAgent:       DefaultUserAgent,
			Referer:         DefaultReferer,
			DownloadTimeout: "2m",
		},
	}
}

// Load reads `path` (and its .local override) over the defaults, a missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	// fills every field left unset by the file
	err = mergo.Merge(&cfg, Default(), mergo.WithoutDereference)
	if err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.OutputRoot == "" {
		errs = append(errs, fmt.Errorf("output_root must be set"))
	}
	if c.Years.Start > c.Years.End {
		errs = append(errs, fmt.Errorf("years: start %d is after end %d", c.Years.Start, c.Years.End))
	}
	if len(c.ReportSlugs) == 0 {
		errs = append(errs, fmt.Errorf("report_slugs must not be empty"))
	}
	for _, slug := range c.ReportSlugs {
		if strings.TrimSpace(slug) == "" || strings.ContainsAny(slug, `/\`) {
			errs = append(errs, fmt.Errorf("report_slugs: invalid slug %q", slug))
		}
	}
	if c.PortalUrl == "" || c.HostedReportsUrl == "" {
		errs = append(errs, fmt.Errorf("portal_url and hosted_reports_url must be set"))
	}
	if _, err := c.RequestTimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.DownloadTimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func parsePositiveDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", field, value)
	}
	return d, nil
}

func (c Config) RequestTimeoutDuration() (time.Duration, error) {
	return parsePositiveDuration("request_timeout", c.RequestTimeout)
}

func (c Config) DownloadTimeoutDuration() (time.Duration, error) {
	return parsePositiveDuration("browser.download_timeout", c.Browser.DownloadTimeout)
}

func (c Config) IsHeadless() bool {
	return c.Browser.Headless == nil || *c.Browser.Headless
}
