package browser

import (
	"fmt"
	"strings"
)

type NavigationOutcome int

const (
	// NavigationCompleted means the url loaded as a page.
	NavigationCompleted NavigationOutcome = iota
	// NavigationDownloadTriggered means the browser recognized the response
	// as a file and turned the navigation into a download.
	NavigationDownloadTriggered
	NavigationFailed
)

func (o NavigationOutcome) String() string {
	switch o {
	case NavigationCompleted:
		return "completed"
	case NavigationDownloadTriggered:
		return "download-triggered"
	case NavigationFailed:
		return "failed"
	}
	return fmt.Sprintf("NavigationOutcome(%d)", int(o))
}

type NavigationResult struct {
	Outcome NavigationOutcome
	// Reason is only set when Outcome is NavigationFailed.
	Reason error
}

// chrome aborts a navigation whose response becomes a download.
const abortedNavigationMarker = "net::ERR_ABORTED"

// classifyNavigation turns what the engine reports for a navigation into
// a NavigationResult. `downloadBegan` is set when the page has already
// seen a download start, the abort marker covers the case where the
// navigation returns before that event is delivered.
func classifyNavigation(err error, downloadBegan bool) NavigationResult {
	if err == nil {
		if downloadBegan {
			return NavigationResult{Outcome: NavigationDownloadTriggered}
		}
		return NavigationResult{Outcome: NavigationCompleted}
	}
	if downloadBegan || strings.Contains(err.Error(), abortedNavigationMarker) {
		return NavigationResult{Outcome: NavigationDownloadTriggered}
	}
	return NavigationResult{Outcome: NavigationFailed, Reason: err}
}
