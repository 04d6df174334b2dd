package testutil

import (
	"os"
	"strconv"
	"time"

	"github.com/paiml/ruchy-sub012/pkg/env"
)

// Scaled returns d scaled by $RUCHY_TEST_TIME_SCALE. If the environment
// variable does not exist or contains an invalid value, the scale defaults to
// 1.
func Scaled(d time.Duration) time.Duration {
	scale, err := strconv.ParseFloat(os.Getenv(env.RUCHY_TEST_TIME_SCALE), 64)
	if err != nil || scale <= 0 {
		return d
	}
	return time.Duration(float64(d) * scale)
}
