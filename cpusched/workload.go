package cpusched

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kernelsim/kernelsim"
)

// ParseWorkload reads lines of "arrival_time total_cpu max_cpu_burst
// max_io_burst", assigning PIDs by arrival order in the file.
func ParseWorkload(r io.Reader) ([]*Process, error) {
	sc := bufio.NewScanner(r)
	var procs []*Process
	pid := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, kernelsim.NewError("LOAD_WORKLOAD", kernelsim.ErrCodeBadInput,
				fmt.Sprintf("line %d: expected 4 fields, got %d", lineNo, len(fields)))
		}
		vals := make([]int, 4)
		for i := 0; i < 4; i++ {
			n, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, kernelsim.WrapError("LOAD_WORKLOAD", kernelsim.ErrCodeBadInput, err)
			}
			vals[i] = n
		}
		procs = append(procs, &Process{
			PID:         pid,
			ArrivalTime: vals[0],
			TotalCPU:    vals[1],
			MaxCPUBurst: vals[2],
			MaxIOBurst:  vals[3],
		})
		pid++
	}
	if err := sc.Err(); err != nil {
		return nil, kernelsim.WrapError("LOAD_WORKLOAD", kernelsim.ErrCodeIO, err)
	}
	return procs, nil
}

// LoadWorkload opens path and parses it with ParseWorkload.
func LoadWorkload(path string) ([]*Process, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, kernelsim.WrapError("LOAD_WORKLOAD", kernelsim.ErrCodeIO, err)
	}
	defer f.Close()
	return ParseWorkload(f)
}
