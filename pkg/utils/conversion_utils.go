package utils

import (
	"math"
	"strconv"
)

// Int64ToStr converts an int64 to its string representation.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 converts a string to an int64.
// Returns 0 and an error if the conversion fails.
func StrToInt64(s string) (int64, error) {
	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return num, nil
}

// RoundCents rounds a money amount to two decimal places. All totals and
// balances stored by the system pass through here so the
// paid + remaining == total invariant holds at cent precision.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
