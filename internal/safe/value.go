// Package safe provides overflow-checked integer conversions.
package safe

import (
	"math"
)

// IntToInt32 converts an int to int32, clamping to the int32 range if
// overflow would occur.
// Returns the converted value and a boolean indicating whether clamping occurred.
func IntToInt32(val int) (int32, bool) {
	switch {
	case val > math.MaxInt32:
		return math.MaxInt32, true
	case val < math.MinInt32:
		return math.MinInt32, true
	}
	return int32(val), false
}

// PID returns the current process ID as the int32 gopsutil expects.
func PID(getpid func() int) int32 {
	pid, _ := IntToInt32(getpid())
	return pid
}
