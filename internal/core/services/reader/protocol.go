package reader

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"

	"gitlab.com/readerload.net/internal/static/errs"
	"gitlab.com/readerload.net/internal/tcp/defs"
)

var valuePattern = regexp.MustCompile(defs.VerbValue + `\s+([+-]?\d+)`)

// BuildRequest returns the request text for a key index
func BuildRequest(index int) string {
	return fmt.Sprintf("%s %d", defs.VerbRead, index)
}

// ParseValue extracts n from the first "VALUE <n>" in text. Values that do
// not fit in an int64 are treated as no match.
func ParseValue(text string) (int64, bool) {
	match := valuePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Factorial computes n! by iterative multiplication in arbitrary precision.
// limit bounds n; zero disables the bound.
func Factorial(n int64, limit int64) (*big.Int, error) {
	if n < 0 {
		return nil, fmt.Errorf("%d: %w", n, errs.ErrNegativeFactorial)
	}
	if limit > 0 && n > limit {
		return nil, fmt.Errorf("%d exceeds %d: %w", n, limit, errs.ErrFactorialTooLarge)
	}

	result := big.NewInt(1)
	factor := new(big.Int)
	for i := int64(2); i <= n; i++ {
		result.Mul(result, factor.SetInt64(i))
	}
	return result, nil
}
