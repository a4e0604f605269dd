package reader

import (
	"errors"
	"math/big"
	"strconv"
	"testing"

	"gitlab.com/readerload.net/internal/static/errs"
)

func TestBuildRequest(t *testing.T) {
	for i := 0; i < 10; i++ {
		want := "READ " + strconv.Itoa(i)
		if got := BuildRequest(i); got != want {
			t.Errorf("BuildRequest(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   int64
		wantOK bool
	}{
		{"plain", "VALUE 5", 5, true},
		{"zero", "VALUE 0", 0, true},
		{"trailing text", "VALUE 12 (key 3)", 12, true},
		{"embedded", "OK: VALUE 7\n", 7, true},
		{"extra spaces", "VALUE   9", 9, true},
		{"negative", "VALUE -4", -4, true},
		{"first wins", "VALUE 1 VALUE 2", 1, true},
		{"empty", "", 0, false},
		{"not found", "ERROR key not found", 0, false},
		{"no number", "VALUE abc", 0, false},
		{"lowercase", "value 3", 0, false},
		{"overflow", "VALUE 99999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseValue(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseValue(%q) = (%d, %v), want (%d, %v)", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFactorialMatchesIterativeProduct(t *testing.T) {
	product := int64(1)
	for n := int64(0); n <= 20; n++ {
		if n > 0 {
			product *= n
		}
		got, err := Factorial(n, 0)
		if err != nil {
			t.Fatalf("Factorial(%d): %v", n, err)
		}
		if !got.IsInt64() || got.Int64() != product {
			t.Errorf("Factorial(%d) = %s, want %d", n, got, product)
		}
	}
}

func TestFactorialKnownValues(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "1"},
		{1, "1"},
		{4, "24"},
		{5, "120"},
		{12, "479001600"},
		{20, "2432902008176640000"},
		{25, "15511210043330985984000000"},
	}

	for _, tt := range tests {
		got, err := Factorial(tt.n, 1000)
		if err != nil {
			t.Fatalf("Factorial(%d): %v", tt.n, err)
		}
		want, _ := new(big.Int).SetString(tt.want, 10)
		if got.Cmp(want) != 0 {
			t.Errorf("Factorial(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestFactorialErrors(t *testing.T) {
	if _, err := Factorial(-1, 1000); !errors.Is(err, errs.ErrNegativeFactorial) {
		t.Errorf("negative: got %v", err)
	}
	if _, err := Factorial(1001, 1000); !errors.Is(err, errs.ErrFactorialTooLarge) {
		t.Errorf("too large: got %v", err)
	}
	if _, err := Factorial(1000, 1000); err != nil {
		t.Errorf("at limit: got %v", err)
	}
}
