package index

import "encoding/binary"

// EncodeCell renders a child/leaf offset as its 8-byte big-endian wire
// form. Zero is reserved to mean "absent": an unallocated child or a
// logically deleted row.
func EncodeCell(offset uint64) [CellSize]byte {
	var buf [CellSize]byte
	binary.BigEndian.PutUint64(buf[:], offset)
	return buf
}

// DecodeCell parses an 8-byte big-endian cell back into an offset.
func DecodeCell(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

// CellOffset returns the byte offset, within a node, of the cell for
// digit d. Callers add this to the node's own base offset.
func CellOffset(d int) int64 {
	return int64(d) * CellSize
}
