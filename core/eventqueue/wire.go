package eventqueue

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the size in bytes of the event header delivered by the first
// phase of a read: a 4-byte status code followed by a 4-byte payload length,
// both little-endian.
const HeaderSize = 8

// PutHeader encodes an event header into b, which must be at least HeaderSize
// bytes long.
func PutHeader(b []byte, status Status, payloadLen uint32) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(status))
	binary.LittleEndian.PutUint32(b[4:8], payloadLen)
}

// ParseHeader decodes an event header previously produced by a header-phase
// read. It returns the event status and the payload length the caller must
// be prepared to read next.
func ParseHeader(b []byte) (Status, uint32, error) {
	if len(b) < HeaderSize {
		return StatusUnknown, 0, fmt.Errorf("parse event header: %w", ErrShortBuffer)
	}
	return Status(binary.LittleEndian.Uint32(b[0:4])), binary.LittleEndian.Uint32(b[4:8]), nil
}
