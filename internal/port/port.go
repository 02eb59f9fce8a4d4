package port

import (
	"fmt"
	"strconv"
	"strings"

	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
)

// Valid host port range for port slots.
const (
	Min = 1024
	Max = 65535
)

// ParseStart validates operator input for the first port of a repository.
// Non-numeric and out-of-range input are reported as distinct errors.
func ParseStart(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ferrors.InvalidPort("starting port is required")
	}

	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, ferrors.InvalidPort(fmt.Sprintf("starting port must be a number, got %q", s))
	}

	if p < Min || p > Max {
		return 0, ferrors.InvalidPort(fmt.Sprintf("starting port %d out of range %d-%d", p, Min, Max))
	}

	return p, nil
}

// FromName parses a directory name as a port slot. Only canonical
// decimal names within Min..Max qualify, so "09000", "+9000" and "80"
// are not slots.
func FromName(name string) (int, bool) {
	p, err := strconv.Atoi(name)
	if err != nil || strconv.Itoa(p) != name {
		return 0, false
	}
	if p < Min || p > Max {
		return 0, false
	}
	return p, true
}

// Next returns one past the highest port slot name. Names that are not
// port slots are skipped. ok is false when no slot exists, meaning the
// caller has to supply a starting port.
//
// Gaps are never reused: {9000, 9003} yields 9004.
func Next(names []string) (next int, ok bool, err error) {
	highest := 0
	for _, name := range names {
		p, valid := FromName(name)
		if !valid {
			continue
		}
		if !ok || p > highest {
			highest = p
			ok = true
		}
	}

	if !ok {
		return 0, false, nil
	}

	next = highest + 1
	if next > Max {
		return 0, true, ferrors.PortAllocationFailed(fmt.Errorf("next port %d exceeds %d", next, Max))
	}

	return next, true, nil
}
