package ge

import (
	"encoding/binary"

	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// HeaderSize is the fixed size, in bytes, of every Ge file's header.
const HeaderSize = 52

// front and end are the fixed sentinel byte pairs that frame the header.
// A file whose header doesn't begin and end with these exact bytes is
// rejected as corrupt rather than partially trusted.
var (
	front = [2]byte{0x20, 0x19}
	end   = [2]byte{0x02, 0x19}
)

// Header layout, all multi-byte integers little-endian except the sentinels:
//
//	offset  size  field
//	0       2     front    = 0x20 0x19
//	2       1     tag
//	3       2     version
//	5       2     sequence
//	7       8     description.start
//	15      4     description.len
//	19      8     description.modify (unix nanoseconds)
//	27      23    padding
//	50      2     end      = 0x02 0x19
type header struct {
	tag               Tag
	version           uint16
	sequence          uint16
	descriptionStart  uint64
	descriptionLen    uint32
	descriptionModify int64
}

func (h header) encode() [HeaderSize]byte {
	var buf [HeaderSize]byte
	copy(buf[0:2], front[:])
	buf[2] = byte(h.tag)
	binary.LittleEndian.PutUint16(buf[3:5], h.version)
	binary.LittleEndian.PutUint16(buf[5:7], h.sequence)
	binary.LittleEndian.PutUint64(buf[7:15], h.descriptionStart)
	binary.LittleEndian.PutUint32(buf[15:19], h.descriptionLen)
	binary.LittleEndian.PutUint64(buf[19:27], uint64(h.descriptionModify))
	// buf[27:50] left zeroed as padding.
	copy(buf[50:52], end[:])
	return buf
}

func decodeHeader(buf []byte, path string) (header, error) {
	if len(buf) != HeaderSize {
		return header{}, gerrors.NewCorruptError(path, nil).
			WithDetail("reason", "short header read").
			WithDetail("gotBytes", len(buf))
	}

	if buf[0] != front[0] || buf[1] != front[1] {
		return header{}, gerrors.NewCorruptError(path, nil).WithDetail("reason", "front sentinel mismatch")
	}
	if buf[50] != end[0] || buf[51] != end[1] {
		return header{}, gerrors.NewCorruptError(path, nil).WithDetail("reason", "end sentinel mismatch")
	}

	return header{
		tag:               Tag(buf[2]),
		version:           binary.LittleEndian.Uint16(buf[3:5]),
		sequence:          binary.LittleEndian.Uint16(buf[5:7]),
		descriptionStart:  binary.LittleEndian.Uint64(buf[7:15]),
		descriptionLen:    binary.LittleEndian.Uint32(buf[15:19]),
		descriptionModify: int64(binary.LittleEndian.Uint64(buf[19:27])),
	}, nil
}
