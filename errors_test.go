package kernelsim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimErrorMessage(t *testing.T) {
	err := NewError("PARSE_SPEC", ErrCodeBadSpec, "unknown scheduler letter 'Z'")

	require.Equal(t, "PARSE_SPEC", err.Op)
	require.Equal(t, ErrCodeBadSpec, err.Code)
	require.Equal(t, "kernelsim: unknown scheduler letter 'Z' (op=PARSE_SPEC)", err.Error())
}

func TestSimErrorMessageFallsBackToCode(t *testing.T) {
	err := &SimError{Op: "LOAD_RFILE", Code: ErrCodeBadRFile}
	require.Equal(t, "kernelsim: malformed random-number file (op=LOAD_RFILE)", err.Error())
}

func TestSimErrorMessageWithoutOp(t *testing.T) {
	err := &SimError{Code: ErrCodeIO, Msg: "short read"}
	require.Equal(t, "kernelsim: short read", err.Error())
}

func TestWrapErrorPreservesCause(t *testing.T) {
	inner := errors.New("unexpected EOF")
	err := WrapError("LOAD_WORKLOAD", ErrCodeBadInput, inner)

	require.ErrorIs(t, err, inner)
	require.Equal(t, inner, err.Unwrap())
}

func TestWrapErrorNil(t *testing.T) {
	require.Nil(t, WrapError("LOAD_WORKLOAD", ErrCodeBadInput, nil))
}

func TestSimErrorIsComparesByCode(t *testing.T) {
	a := NewError("PARSE_SPEC", ErrCodeBadSpec, "bad quantum")
	b := NewError("LOAD_WORKLOAD", ErrCodeBadSpec, "different message, same code")
	c := NewError("LOAD_WORKLOAD", ErrCodeBadInput, "different code")

	require.True(t, errors.Is(a, b))
	require.False(t, errors.Is(a, c))
}
