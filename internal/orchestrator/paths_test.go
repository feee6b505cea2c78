package orchestrator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	testCases := []struct {
		title    string
		expected string
	}{
		{title: "Q1 Report/2013", expected: "Q1_Report-2013.pdf"},
		{title: "Annual Report", expected: "Annual_Report.pdf"},
		{title: "F-196", expected: "F-196.pdf"},
		{title: "a  b//c", expected: "a__b--c.pdf"},
		{title: "", expected: ".pdf"},
	}

	for _, test := range testCases {
		t.Run(test.title, func(t *testing.T) {
			name := FileName(test.title)
			require.Equal(t, test.expected, name)
			require.Equal(t, name, FileName(name))
		})
	}
}

func TestSanitizeSegmentIdempotent(t *testing.T) {
	for _, name := range []string{"Example/ESD", "Seattle Public Schools", "already_clean-name"} {
		once := SanitizeSegment(name)
		require.Equal(t, once, SanitizeSegment(once))
		require.NotContains(t, once, "/")
		require.NotContains(t, once, " ")
	}
}

func TestNewDownloadTarget(t *testing.T) {
	target := NewDownloadTarget("FileStore", 2013, "Example/ESD", "safs", 99, "Annual Report")

	require.Equal(t, DownloadTarget{
		Year:             2013,
		OrganizationName: "Example/ESD",
		ReportSlug:       "safs",
		DocumentID:       99,
		DestinationPath:  filepath.Join("FileStore", "2013", "Example-ESD", "safs", "Annual_Report.pdf"),
	}, target)
	require.Equal(t, "2013/Example-ESD/safs", target.Label())

	// same inputs, same target
	require.Equal(t, target, NewDownloadTarget("FileStore", 2013, "Example/ESD", "safs", 99, "Annual Report"))
}
