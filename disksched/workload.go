package disksched

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kernelsim/kernelsim"
)

// ParseWorkload reads `#`-commented `arrival_time track` lines into
// requests, IDs assigned by line order (spec §4.3's arrival order).
func ParseWorkload(r io.Reader) ([]*Request, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var requests []*Request
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, kernelsim.NewError("LOAD_WORKLOAD", kernelsim.ErrCodeBadInput,
				fmt.Sprintf("expected \"arrival_time track\", got %q", line))
		}
		arrive, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, kernelsim.NewError("LOAD_WORKLOAD", kernelsim.ErrCodeBadInput,
				fmt.Sprintf("expected integer arrival time, got %q", fields[0]))
		}
		track, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, kernelsim.NewError("LOAD_WORKLOAD", kernelsim.ErrCodeBadInput,
				fmt.Sprintf("expected integer track, got %q", fields[1]))
		}
		requests = append(requests, &Request{ID: len(requests), ArriveTime: arrive, TargetTrack: track})
	}
	if err := sc.Err(); err != nil {
		return nil, kernelsim.WrapError("LOAD_WORKLOAD", kernelsim.ErrCodeIO, err)
	}
	return requests, nil
}

// LoadWorkload opens path and parses it with ParseWorkload.
func LoadWorkload(path string) ([]*Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, kernelsim.WrapError("LOAD_WORKLOAD", kernelsim.ErrCodeIO, err)
	}
	defer f.Close()
	return ParseWorkload(f)
}
