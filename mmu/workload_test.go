package mmu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWorkloadBasic(t *testing.T) {
	input := `
# one process, one VMA, a tiny instruction stream
1
1
0 3 0 1
c 0
r 0
w 1
e 0
`
	procs, instrs, err := ParseWorkload(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, procs, 1)
	require.Len(t, procs[0].VMAs, 1)
	require.Equal(t, VMA{StartVPage: 0, EndVPage: 3, WriteProtect: false, FileMapped: true}, procs[0].VMAs[0])

	require.Equal(t, []Instruction{
		{Op: OpSwitch, Operand: 0},
		{Op: OpRead, Operand: 0},
		{Op: OpWrite, Operand: 1},
		{Op: OpExit, Operand: 0},
	}, instrs)
}

func TestParseWorkloadMultipleProcessesAndVMAs(t *testing.T) {
	input := `
2
2
0 1 1 0
5 7 0 0
0
r 0
`
	procs, _, err := ParseWorkload(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, procs, 2)
	require.Len(t, procs[0].VMAs, 2)
	require.Empty(t, procs[1].VMAs)
	require.True(t, procs[0].VMAs[0].WriteProtect)
	require.False(t, procs[0].VMAs[1].WriteProtect)
}

func TestParseWorkloadSkipsBlankAndCommentLines(t *testing.T) {
	input := "\n# comment\n1\n0\n\n# trailing comment\n"
	procs, instrs, err := ParseWorkload(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, procs, 1)
	require.Empty(t, instrs)
}

func TestParseWorkloadRejectsNonIntegerField(t *testing.T) {
	_, _, err := ParseWorkload(strings.NewReader("one\n"))
	require.Error(t, err)
}

func TestParseWorkloadRejectsTruncatedInstruction(t *testing.T) {
	_, _, err := ParseWorkload(strings.NewReader("0\nr\n"))
	require.Error(t, err)
}

func TestParseWorkloadRejectsMultiCharOp(t *testing.T) {
	_, _, err := ParseWorkload(strings.NewReader("0\nrr 0\n"))
	require.Error(t, err)
}
