package console

import (
	"bytes"
	"math/big"
	"strings"
	"sync"
	"testing"
)

func TestPrinterLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Received(2, "VALUE 4")
	p.Factorial(2, 4, big.NewInt(24))

	want := "Reader 2 received: VALUE 4\nReader 2: Factorial of 4 is 24\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPrinterConcurrentLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var wg sync.WaitGroup
	for id := 1; id <= 10; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				p.Factorial(id, 5, big.NewInt(120))
			}
		}(id)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 500 {
		t.Fatalf("expected 500 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, ": Factorial of 5 is 120") {
			t.Fatalf("interleaved line: %q", line)
		}
	}
}
