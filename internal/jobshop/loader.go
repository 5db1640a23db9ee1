package jobshop

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var ErrMalformed = errors.New("malformed instance")

// LoadFile reads an instance in the JSPLIB text format. The instance takes the
// file's base name.
func LoadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open instance file: %w", err)
	}
	defer f.Close()
	return Parse(f, filepath.Base(path))
}

// Parse reads "jobs machines" followed by one line per job holding
// (machine duration) pairs in job order. Lines starting with '#' and blank
// lines are skipped.
func Parse(r io.Reader, name string) (*Instance, error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	next := func() ([]int, bool, error) {
		for sc.Scan() {
			lineNo++
			line := strings.TrimSpace(sc.Text())
			if line == "" || line[0] == '#' {
				continue
			}
			fields := strings.Fields(line)
			values := make([]int, len(fields))
			for i, f := range fields {
				v, err := strconv.Atoi(f)
				if err != nil {
					return nil, false, fmt.Errorf("%w: line %d: %q is not an integer", ErrMalformed, lineNo, f)
				}
				values[i] = v
			}
			return values, true, nil
		}
		return nil, false, sc.Err()
	}

	header, ok, err := next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: missing header", ErrMalformed)
	}
	if len(header) != 2 {
		return nil, fmt.Errorf("%w: line %d: header must be \"jobs machines\"", ErrMalformed, lineNo)
	}
	jobs, machines := header[0], header[1]
	if jobs <= 0 || machines <= 0 {
		return nil, fmt.Errorf("%w: line %d: jobs and machines must be > 0", ErrMalformed, lineNo)
	}

	machineOf := make([]int, 0, jobs*machines)
	durations := make([]int, 0, jobs*machines)
	for j := 0; j < jobs; j++ {
		row, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: expected %d job lines, got %d", ErrMalformed, jobs, j)
		}
		if len(row) != 2*machines {
			return nil, fmt.Errorf("%w: line %d: job %d must list %d (machine duration) pairs", ErrMalformed, lineNo, j, machines)
		}
		for i := 0; i < len(row); i += 2 {
			machineOf = append(machineOf, row[i])
			durations = append(durations, row[i+1])
		}
	}
	if extra, ok, err := next(); err != nil {
		return nil, err
	} else if ok {
		return nil, fmt.Errorf("%w: line %d: unexpected trailing data %v", ErrMalformed, lineNo, extra)
	}

	inst, err := NewInstance(name, jobs, machines, machineOf, durations)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return inst, nil
}
