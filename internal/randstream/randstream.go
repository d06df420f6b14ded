// Package randstream implements the deterministic, file-backed random
// number sequence shared by the CPU scheduler and the MMU's random pager.
// A single stream, drawn in a strictly defined order, is part of the
// observable output of both simulators: given the same input and the same
// rfile, every run must produce byte-identical traces.
package randstream

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kernelsim/kernelsim"
)

// Stream is a read-only, wrap-around sequence of integers loaded from an
// rfile. It is not safe for concurrent use; each simulator run owns exactly
// one Stream.
type Stream struct {
	values []int
	pos    int
}

// Load reads an rfile: a first line holding the count N, followed by N
// integers, one or more per line.
func Load(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, kernelsim.WrapError("LOAD_RFILE", kernelsim.ErrCodeIO, err)
	}
	defer f.Close()
	return ReadFrom(f)
}

// ReadFrom parses an rfile from an already-open reader.
func ReadFrom(r io.Reader) (*Stream, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var count int
	var values []int
	haveCount := false

	for sc.Scan() {
		for _, tok := range splitFields(sc.Text()) {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, kernelsim.NewError("LOAD_RFILE", kernelsim.ErrCodeBadRFile,
					fmt.Sprintf("non-integer token %q", tok))
			}
			if !haveCount {
				count = n
				haveCount = true
				continue
			}
			values = append(values, n)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, kernelsim.WrapError("LOAD_RFILE", kernelsim.ErrCodeIO, err)
	}
	if !haveCount {
		return nil, kernelsim.NewError("LOAD_RFILE", kernelsim.ErrCodeBadRFile, "empty rfile")
	}
	if len(values) != count {
		return nil, kernelsim.NewError("LOAD_RFILE", kernelsim.ErrCodeBadRFile,
			fmt.Sprintf("declared count %d does not match %d values", count, len(values)))
	}
	if count == 0 {
		return nil, kernelsim.NewError("LOAD_RFILE", kernelsim.ErrCodeBadRFile, "rfile has zero values")
	}
	return &Stream{values: values}, nil
}

func splitFields(line string) []string {
	var fields []string
	start := -1
	for i, r := range line {
		if r == ' ' || r == '\t' || r == '\r' {
			if start >= 0 {
				fields = append(fields, line[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, line[start:])
	}
	return fields
}

// NextInt draws the next value using the CPU scheduler's convention:
// 1 + value mod bound, landing in [1, bound].
func (s *Stream) NextInt(bound int) int {
	return 1 + s.draw(bound)
}

// NextIntZero draws the next value using the MMU's convention: value mod
// bound, landing in [0, bound).
func (s *Stream) NextIntZero(bound int) int {
	return s.draw(bound)
}

func (s *Stream) draw(bound int) int {
	v := s.values[s.pos] % bound
	s.pos = (s.pos + 1) % len(s.values)
	return v
}

// Len reports how many values the underlying rfile held.
func (s *Stream) Len() int {
	return len(s.values)
}
