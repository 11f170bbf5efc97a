package generator

import "errors"

// ErrTrialsExhausted is returned when no candidate in a slot was accepted.
var ErrTrialsExhausted = errors.New("generator: trials exhausted")

// attempt calls try at most limit times and returns the first accepted value
// together with the number of calls made.
func attempt[T any](limit int, try func() (T, bool)) (T, int, error) {
	var zero T
	for i := 1; i <= limit; i++ {
		if v, ok := try(); ok {
			return v, i, nil
		}
	}
	return zero, max(limit, 0), ErrTrialsExhausted
}
