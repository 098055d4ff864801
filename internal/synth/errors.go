package synth

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInputOutOfRange is matched by every error caused by a frequency or step
// count outside the chip's operating range.
var ErrInputOutOfRange = errors.New("input out of range")

// RangeError describes a frequency rejected before any search ran.
type RangeError struct {
	// Quantity is "reference" or "output".
	Quantity string
	Value    float64
	Min      float64
	Max      float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s frequency %s Hz is outside the range [%s, %s] Hz",
		e.Quantity, formatHz(e.Value), formatHz(e.Min), formatHz(e.Max))
}

// Is makes errors.Is(err, ErrInputOutOfRange) hold for any *RangeError.
func (e *RangeError) Is(target error) bool {
	return target == ErrInputOutOfRange
}

func formatHz(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
