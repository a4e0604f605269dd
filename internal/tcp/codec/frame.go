// Package codec implements the length-prefixed framing shared by requests
// and responses: a 4-byte unsigned length followed by that many bytes.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"gitlab.com/readerload.net/internal/static/errs"
	"gitlab.com/readerload.net/internal/tcp/defs"
)

// WriteFrame sends the length prefix and the payload as two writes
func WriteFrame(w io.Writer, order binary.ByteOrder, payload []byte) error {
	if err := WriteLength(w, order, len(payload)); err != nil {
		return err
	}
	return WriteBody(w, payload)
}

// WriteLength sends the 4-byte length prefix
func WriteLength(w io.Writer, order binary.ByteOrder, length int) error {
	if length < 0 || uint64(length) > math.MaxUint32 {
		return fmt.Errorf("payload of %d bytes: %w", length, errs.ErrSendLength)
	}

	header := make([]byte, defs.LengthPrefixSize)
	order.PutUint32(header, uint32(length))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrSendLength, err)
	}
	return nil
}

// WriteBody sends the payload that follows a length prefix
func WriteBody(w io.Writer, payload []byte) error {
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrSendBody, err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame, accumulating until the
// declared length is satisfied. Frames longer than limit are rejected
// before any payload is read.
func ReadFrame(r io.Reader, order binary.ByteOrder, limit int) ([]byte, error) {
	header := make([]byte, defs.LengthPrefixSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.ErrConnectionClosed
		}
		return nil, fmt.Errorf("%w: %w", errs.ErrReceive, err)
	}

	length := order.Uint32(header)
	if limit > 0 && uint64(length) > uint64(limit) {
		return nil, fmt.Errorf("declared %d bytes, limit %d: %w", length, limit, errs.ErrResponseTooLarge)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrReceive, err)
	}

	return payload, nil
}

// ReadRaw performs exactly one read into a buffer of limit bytes. Zero bytes
// read is treated as the peer closing the connection.
func ReadRaw(r io.Reader, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = defs.DefaultReadBufferSize
	}

	buffer := make([]byte, limit)
	n, err := r.Read(buffer)
	if n > 0 {
		return buffer[:n], nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil, errs.ErrConnectionClosed
	}
	return nil, fmt.Errorf("%w: %w", errs.ErrReceive, err)
}
