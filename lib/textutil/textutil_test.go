package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "seattleschooldistrictno.1", NormalizeName("  Seattle School\tDistrict\nNo. 1 "))
	require.Equal(t, NormalizeName("Example ESD"), NormalizeName("example  esd"))
	require.Equal(t, "", NormalizeName(" \n\t"))
}
