package primary

import "math/big"

// Reporter prints what a reader received and what it derived from it
type Reporter interface {
	Received(readerID int, response string)
	Factorial(readerID int, n int64, result *big.Int)
}
