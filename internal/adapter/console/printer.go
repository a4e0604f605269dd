package console

import (
	"fmt"
	"io"
	"math/big"
	"sync"

	"gitlab.com/readerload.net/internal/core/ports/primary"
)

var _ primary.Reporter = (*Printer)(nil)

// Printer writes reader output lines, one whole line per write
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) Received(readerID int, response string) {
	p.printf("Reader %d received: %s\n", readerID, response)
}

func (p *Printer) Factorial(readerID int, n int64, result *big.Int) {
	p.printf("Reader %d: Factorial of %d is %s\n", readerID, n, result.String())
}

func (p *Printer) printf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format, args...)
}
