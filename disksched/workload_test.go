package disksched

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWorkloadAssignsIDsByOrder(t *testing.T) {
	requests, err := ParseWorkload(strings.NewReader("0 5\n1 10\n2 3\n"))
	require.NoError(t, err)
	require.Len(t, requests, 3)
	require.Equal(t, 0, requests[0].ID)
	require.Equal(t, 2, requests[2].ID)
	require.Equal(t, 3, requests[2].TargetTrack)
}

func TestParseWorkloadSkipsCommentsAndBlankLines(t *testing.T) {
	requests, err := ParseWorkload(strings.NewReader("# comment\n\n0 5\n"))
	require.NoError(t, err)
	require.Len(t, requests, 1)
}

func TestParseWorkloadRejectsMalformedLine(t *testing.T) {
	_, err := ParseWorkload(strings.NewReader("0\n"))
	require.Error(t, err)
}

func TestParseWorkloadRejectsNonIntegerTrack(t *testing.T) {
	_, err := ParseWorkload(strings.NewReader("0 x\n"))
	require.Error(t, err)
}
