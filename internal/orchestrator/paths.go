package orchestrator

import (
	"path/filepath"
	"strconv"
	"strings"
)

var segmentReplacer = strings.NewReplacer(" ", "_", "/", "-")

// SanitizeSegment makes a name safe to use as a single path segment,
// spaces become underscores and slashes become dashes. applying it twice
// is the same as applying it once.
func SanitizeSegment(name string) string {
	return segmentReplacer.Replace(name)
}

// FileName is the name a document is saved under.
func FileName(title string) string {
	name := SanitizeSegment(title)
	if strings.HasSuffix(name, ".pdf") {
		return name
	}
	return name + ".pdf"
}

type DownloadTarget struct {
	Year             int
	OrganizationName string
	ReportSlug       string
	DocumentID       int
	DestinationPath  string
}

func slugDir(outputRoot string, year int, orgName, slug string) string {
	return filepath.Join(outputRoot, strconv.Itoa(year), SanitizeSegment(orgName), slug)
}

// NewDownloadTarget derives where a document ends up, it depends only on
// its arguments.
func NewDownloadTarget(outputRoot string, year int, orgName, slug string, documentID int, title string) DownloadTarget {
	return DownloadTarget{
		Year:             year,
		OrganizationName: orgName,
		ReportSlug:       slug,
		DocumentID:       documentID,
		DestinationPath:  filepath.Join(slugDir(outputRoot, year, orgName, slug), FileName(title)),
	}
}

// Label is the `{year}/{org}/{slug}` part of a progress line.
func (t DownloadTarget) Label() string {
	return strconv.Itoa(t.Year) + "/" + SanitizeSegment(t.OrganizationName) + "/" + t.ReportSlug
}
