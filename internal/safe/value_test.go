package safe

import (
	"math"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

// wide is non-constant so the out-of-range cases still compile on 32-bit targets.
var wide int64 = math.MaxInt32

func TestIntToInt32(t *testing.T) {
	if strconv.IntSize < 64 {
		t.Skip("int is 32-bit")
	}

	tests := []struct {
		name        string
		input       int
		want        int32
		wantClamped bool
	}{
		{"zero", 0, 0, false},
		{"pid", 4242, 4242, false},
		{"max", math.MaxInt32, math.MaxInt32, false},
		{"min", math.MinInt32, math.MinInt32, false},
		{"above max", int(wide + 1), math.MaxInt32, true},
		{"below min", int(-wide - 2), math.MinInt32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := IntToInt32(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantClamped, clamped)
		})
	}
}

func TestPID(t *testing.T) {
	assert.Equal(t, int32(os.Getpid()), PID(os.Getpid)) // #nosec G115
	if strconv.IntSize == 64 {
		assert.Equal(t, int32(math.MaxInt32), PID(func() int { return int(wide + 1) }))
	}
}
