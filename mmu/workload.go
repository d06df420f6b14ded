package mmu

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kernelsim/kernelsim"
)

// tokenizer turns the input into a flat stream of whitespace-separated
// tokens with full-line #-comments and blank lines already stripped.
type tokenizer struct {
	tokens []string
	pos    int
}

func newTokenizer(r io.Reader) (*tokenizer, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var tokens []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, kernelsim.WrapError("LOAD_WORKLOAD", kernelsim.ErrCodeIO, err)
	}
	return &tokenizer{tokens: tokens}, nil
}

func (t *tokenizer) next() (string, error) {
	if t.pos >= len(t.tokens) {
		return "", kernelsim.NewError("LOAD_WORKLOAD", kernelsim.ErrCodeBadInput, "unexpected end of input")
	}
	tok := t.tokens[t.pos]
	t.pos++
	return tok, nil
}

func (t *tokenizer) nextInt() (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, kernelsim.NewError("LOAD_WORKLOAD", kernelsim.ErrCodeBadInput,
			fmt.Sprintf("expected integer, got %q", tok))
	}
	return n, nil
}

// ParseWorkload reads the process/VMA preamble and the instruction stream
// per spec §6.2.
func ParseWorkload(r io.Reader) ([]*Process, []Instruction, error) {
	t, err := newTokenizer(r)
	if err != nil {
		return nil, nil, err
	}

	numProcs, err := t.nextInt()
	if err != nil {
		return nil, nil, err
	}

	procs := make([]*Process, numProcs)
	for i := 0; i < numProcs; i++ {
		vmaCount, err := t.nextInt()
		if err != nil {
			return nil, nil, err
		}
		p := &Process{PID: i}
		for j := 0; j < vmaCount; j++ {
			start, err := t.nextInt()
			if err != nil {
				return nil, nil, err
			}
			end, err := t.nextInt()
			if err != nil {
				return nil, nil, err
			}
			wp, err := t.nextInt()
			if err != nil {
				return nil, nil, err
			}
			fm, err := t.nextInt()
			if err != nil {
				return nil, nil, err
			}
			p.VMAs = append(p.VMAs, VMA{StartVPage: start, EndVPage: end, WriteProtect: wp != 0, FileMapped: fm != 0})
		}
		procs[i] = p
	}

	var instrs []Instruction
	for t.pos < len(t.tokens) {
		opTok, err := t.next()
		if err != nil {
			return nil, nil, err
		}
		if len(opTok) != 1 {
			return nil, nil, kernelsim.NewError("LOAD_WORKLOAD", kernelsim.ErrCodeBadInput,
				fmt.Sprintf("expected single-character op, got %q", opTok))
		}
		operand, err := t.nextInt()
		if err != nil {
			return nil, nil, err
		}
		instrs = append(instrs, Instruction{Op: Op(opTok[0]), Operand: operand})
	}

	return procs, instrs, nil
}

// LoadWorkload opens path and parses it with ParseWorkload.
func LoadWorkload(path string) ([]*Process, []Instruction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, kernelsim.WrapError("LOAD_WORKLOAD", kernelsim.ErrCodeIO, err)
	}
	defer f.Close()
	return ParseWorkload(f)
}
