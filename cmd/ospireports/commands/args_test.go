package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIntArg(t *testing.T) {
	n, err := parseIntArg("year", "2013")
	require.NoError(t, err)
	require.Equal(t, 2013, n)

	_, err = parseIntArg("year", "twenty")
	require.EqualError(t, err, `year must be a number, got "twenty"`)
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	require.Subset(t, names, []string{"download", "orgs", "docs"})
}

func TestArgValidation(t *testing.T) {
	require.Error(t, orgsCmd.Args(orgsCmd, nil))
	require.NoError(t, orgsCmd.Args(orgsCmd, []string{"2013"}))
	require.NoError(t, orgsCmd.Args(orgsCmd, []string{"2013", "seattle"}))

	require.Error(t, docsCmd.Args(docsCmd, []string{"2013"}))
	require.NoError(t, docsCmd.Args(docsCmd, []string{"2013", "7", "safs"}))

	require.Error(t, downloadCmd.Args(downloadCmd, []string{"extra"}))
}
