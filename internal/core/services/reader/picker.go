package reader

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// KeyPicker draws key indexes for one reader. It is owned by a single
// goroutine and needs no locking.
type KeyPicker struct {
	rng      *rand.Rand
	keySpace int
}

// NewKeyPicker seeds a generator once from crypto/rand mixed with the reader id
func NewKeyPicker(readerID int, keySpace int) *KeyPicker {
	var seed [16]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		binary.LittleEndian.PutUint64(seed[:8], uint64(time.Now().UnixNano()))
	}

	s1 := binary.LittleEndian.Uint64(seed[:8]) ^ uint64(readerID)
	s2 := binary.LittleEndian.Uint64(seed[8:])
	return NewKeyPickerWithSeed(s1, s2, keySpace)
}

// NewKeyPickerWithSeed builds a deterministic picker
func NewKeyPickerWithSeed(s1, s2 uint64, keySpace int) *KeyPicker {
	if keySpace <= 0 {
		keySpace = 1
	}
	return &KeyPicker{
		rng:      rand.New(rand.NewPCG(s1, s2)),
		keySpace: keySpace,
	}
}

// Next returns an index in [0, keySpace)
func (p *KeyPicker) Next() int {
	return p.rng.IntN(p.keySpace)
}
