package balance

import "errors"

// ErrInvalidInput is the sentinel kind for rosters the balancer refuses to split.
var ErrInvalidInput = errors.New("invalid team generation input")

// InputError reports a roster that is too small or has an odd size.
// It unwraps to ErrInvalidInput.
type InputError struct {
	Count int
}

func (e *InputError) Error() string {
	return "Team generation requires an even number of players (min 12)."
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }
