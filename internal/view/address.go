package view

import (
	"encoding/binary"
	"fmt"
)

// AddressSize is the fixed wire size of a view-address triple.
const AddressSize = 12

// Address identifies one payload inside a view's record file: the byte
// offset of its length prefix, the payload's length, and a schema version.
// It is the only thing an index ever stores about a row.
type Address struct {
	// Version is carried on the wire but never incremented by anything in
	// this engine; see the TODO on View.Append.
	Version uint16
	Length  uint32
	Offset  uint64 // stored on the wire as 48 bits
}

// IsZero reports whether a is the zero address, used to signal a logically
// deleted or never-written index cell.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Encode flattens the address to its 12-byte big-endian wire form:
// version(2) || length(4) || offset(6).
func (a Address) Encode() [AddressSize]byte {
	var buf [AddressSize]byte
	binary.BigEndian.PutUint16(buf[0:2], a.Version)
	binary.BigEndian.PutUint32(buf[2:6], a.Length)
	putUint48(buf[6:12], a.Offset)
	return buf
}

// DecodeAddress parses a 12-byte wire form back into an Address.
func DecodeAddress(b []byte) (Address, error) {
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("view: address must be %d bytes, got %d", AddressSize, len(b))
	}
	return Address{
		Version: binary.BigEndian.Uint16(b[0:2]),
		Length:  binary.BigEndian.Uint32(b[2:6]),
		Offset:  uint48(b[6:12]),
	}, nil
}

func putUint48(b []byte, v uint64) {
	b[0] = byte(v >> 40)
	b[1] = byte(v >> 32)
	b[2] = byte(v >> 24)
	b[3] = byte(v >> 16)
	b[4] = byte(v >> 8)
	b[5] = byte(v)
}

func uint48(b []byte) uint64 {
	return uint64(b[0])<<40 | uint64(b[1])<<32 | uint64(b[2])<<24 |
		uint64(b[3])<<16 | uint64(b[4])<<8 | uint64(b[5])
}
