package defs

import "time"

// Protocol constants
const (
	// LengthPrefixSize is the size of the unsigned length field that precedes every frame
	LengthPrefixSize = 4

	// Request and response verbs
	VerbRead  = "READ"
	VerbValue = "VALUE"

	// Configuration constants
	DefaultReadBufferSize = 1024
	ShutdownGrace         = 5 * time.Second
)
