package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidChoice is returned when input matches no offered option.
var ErrInvalidChoice = errors.New("invalid choice")

// ParseChoice maps learner input to a zero-based option index. It accepts the
// 1-based option number shown next to each option, or the option text itself
// (case-insensitive).
func ParseChoice(input string, options []string) (int, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidChoice)
	}
	if n, err := strconv.Atoi(in); err == nil {
		if n < 1 || n > len(options) {
			return 0, fmt.Errorf("%w: pick a number between 1 and %d", ErrInvalidChoice, len(options))
		}
		return n - 1, nil
	}
	for i, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), in) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidChoice, in)
}
