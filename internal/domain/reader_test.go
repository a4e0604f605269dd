package domain

import (
	"testing"
	"time"
)

func TestReaderDescriptorAddr(t *testing.T) {
	tests := []struct {
		name string
		desc ReaderDescriptor
		want string
	}{
		{"ipv4", ReaderDescriptor{ID: 1, Host: "127.0.0.1", Port: 8080}, "127.0.0.1:8080"},
		{"hostname", ReaderDescriptor{ID: 2, Host: "localhost", Port: 9000}, "localhost:9000"},
		{"ipv6", ReaderDescriptor{ID: 3, Host: "::1", Port: 80}, "[::1]:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.desc.Addr(); got != tt.want {
				t.Errorf("Addr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewReaderDescriptors(t *testing.T) {
	descs := NewReaderDescriptors("10.0.0.1", 7000, 4)
	if len(descs) != 4 {
		t.Fatalf("expected 4 descriptors, got %d", len(descs))
	}
	for i, d := range descs {
		if d.ID != i+1 {
			t.Errorf("descriptor %d: ID = %d, want %d", i, d.ID, i+1)
		}
		if d.Host != "10.0.0.1" || d.Port != 7000 {
			t.Errorf("descriptor %d: unexpected target %s", i, d.Addr())
		}
	}
}

func TestNewExchange(t *testing.T) {
	desc := ReaderDescriptor{ID: 5, Host: "127.0.0.1", Port: 1234}
	a := NewExchange(desc, 3, "READ 3", time.Time{})
	b := NewExchange(desc, 3, "READ 3", time.Time{})

	if a.ID == b.ID {
		t.Error("exchange ids should be unique")
	}
	if a.ReaderID != 5 || a.Index != 3 || a.Addr != "127.0.0.1:1234" {
		t.Errorf("unexpected exchange: %+v", a)
	}
}
