// Package index holds the mechanics every index engine shares: key
// canonicalization and radix-1170 digit decomposition, the 8-byte cell wire
// format, and the Engine capability interface the four concrete engines
// implement. String keys hash through the same CRC32/CRC64 pair the
// engine's key-encoding rules fix for the 32-bit and 64-bit key spaces.
package index

import (
	"hash/crc32"
	"hash/crc64"
	"math"
	"strconv"

	"github.com/aberic-labs/george/internal/ge"
	gerrors "github.com/aberic-labs/george/pkg/errors"
)

// Fanout is the number of children a B+Tree node holds.
const Fanout = 1170

// CellSize is the width, in bytes, of one child/leaf cell.
const CellSize = 8

// NodeSize is a full node's on-disk footprint: Fanout cells.
const NodeSize = Fanout * CellSize

const signBit64 = uint64(1) << 63

var crc64Table = crc64.MakeTable(crc64.ECMA)

// Space identifies which engine family a key was encoded for: Disk keys
// live in a 32-bit space, Sequence and Increment keys in a 64-bit one.
type Space int

const (
	Space32 Space = iota
	Space64
)

// Depth returns the radix-1170 digit count needed to losslessly address
// every value in the space, computed as ceil(log1170(2^bits)) rather than
// assumed — this guarantees two distinct Sequence/Increment keys can never
// land on the same digit path purely because too few digits were used.
func (s Space) Depth() int {
	if s == Space32 {
		return depth32
	}
	return depth64
}

// depth32/depth64 are derived in key_test.go against math/big and asserted
// to be the minimal n with 1170^n >= 2^32 / 2^64 respectively: 4 and 7.
const (
	depth32 = 4
	depth64 = 7
)

// Key is a canonicalized, fixed-width key ready for B+Tree traversal.
type Key struct {
	Encoded uint64
	Space   Space
}

// Digits decomposes the key into its radix-1170 digits, most significant
// first; each digit indexes a cell at one tree level.
func (k Key) Digits() []int {
	depth := k.Space.Depth()
	digits := make([]int, depth)
	v := k.Encoded
	for i := depth - 1; i >= 0; i-- {
		digits[i] = int(v % Fanout)
		v /= Fanout
	}
	return digits
}

// EncodeUint canonicalizes an unsigned integer key: the integer itself.
func EncodeUint(v uint64) uint64 { return v }

// EncodeInt canonicalizes a signed integer key by biasing it into the
// unsigned range while preserving order (flipping the sign bit).
func EncodeInt(v int64) uint64 { return uint64(v) ^ signBit64 }

// EncodeFloat canonicalizes a float key using the IEEE-754 sign-flip
// transform so lexicographic order of the result equals numeric order.
// NaN is rejected; +0.0 and -0.0 are normalized to the same encoding.
func EncodeFloat(f float64) (uint64, error) {
	if math.IsNaN(f) {
		return 0, gerrors.NewBadKeyError("", "NaN", nil)
	}
	if f == 0 {
		f = 0 // collapse -0.0 onto +0.0 before taking its bit pattern
	}
	bits := math.Float64bits(f)
	if bits&signBit64 != 0 {
		bits = ^bits
	} else {
		bits |= signBit64
	}
	return bits, nil
}

// EncodeBool canonicalizes a bool key: 0 or 1.
func EncodeBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// EncodeStringDisk canonicalizes a string key for the 32-bit Disk space.
// Per the original engine's hashcode32_enhance, a string that parses
// cleanly as an unsigned integer hashes to that integer directly, avoiding
// a CRC computation for numeric-looking string keys; everything else is
// CRC32-checksummed.
func EncodeStringDisk(s string) uint32 {
	if v, err := strconv.ParseUint(s, 10, 32); err == nil {
		return uint32(v)
	}
	return crc32.ChecksumIEEE([]byte(s))
}

// EncodeStringSequence canonicalizes a string key for the 64-bit Sequence
// space, mirroring hashcode64_enhance: a cleanly-parsing uint64 string
// hashes to itself, everything else is CRC64-checksummed.
func EncodeStringSequence(s string) uint64 {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v
	}
	return crc64.Checksum([]byte(s), crc64Table)
}

// truncateTo32 folds a 64-bit canonical encoding into the Disk engine's
// 32-bit space. Disk is a hashed, collision-tolerant engine by design, so
// folding non-string key types down to 32 bits is just another source of
// tolerated collisions, handled the same way string CRC32 collisions are.
func truncateTo32(v uint64) uint64 {
	return uint64(uint32(v))
}

// Encode canonicalizes value, declared as keyType, into a Key ready for
// traversal in the given space. It returns a BadKey error for NaN floats
// or a value that doesn't match its declared type.
func Encode(keyType ge.KeyType, space Space, value any) (Key, error) {
	switch keyType {
	case ge.KeyTypeUInt:
		v, ok := toUint64(value)
		if !ok {
			return Key{}, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "value is not an unsigned integer")
		}
		encoded := EncodeUint(v)
		if space == Space32 {
			encoded = truncateTo32(encoded)
		}
		return Key{Encoded: encoded, Space: space}, nil

	case ge.KeyTypeInt:
		v, ok := toInt64(value)
		if !ok {
			return Key{}, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "value is not a signed integer")
		}
		encoded := EncodeInt(v)
		if space == Space32 {
			encoded = truncateTo32(encoded)
		}
		return Key{Encoded: encoded, Space: space}, nil

	case ge.KeyTypeFloat:
		f, ok := toFloat64(value)
		if !ok {
			return Key{}, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "value is not a float")
		}
		encoded, err := EncodeFloat(f)
		if err != nil {
			return Key{}, err
		}
		if space == Space32 {
			encoded = truncateTo32(encoded)
		}
		return Key{Encoded: encoded, Space: space}, nil

	case ge.KeyTypeBool:
		b, ok := value.(bool)
		if !ok {
			return Key{}, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "value is not a bool")
		}
		return Key{Encoded: EncodeBool(b), Space: space}, nil

	case ge.KeyTypeString:
		s, ok := value.(string)
		if !ok {
			return Key{}, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "value is not a string")
		}
		if space == Space32 {
			return Key{Encoded: uint64(EncodeStringDisk(s)), Space: space}, nil
		}
		return Key{Encoded: EncodeStringSequence(s), Space: space}, nil

	default:
		return Key{}, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "unknown key type")
	}
}

func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint32:
		return uint64(n), true
	case uint:
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// CanonicalBytes renders value as a stable byte sequence used for
// exact-match verification after a hashed lookup (the Disk engine tolerates
// collisions and must re-check candidates against the real key, not just
// its hash). It is independent of Encode: two keys with the same Encoded
// value but different CanonicalBytes are a hash collision, not a match.
func CanonicalBytes(keyType ge.KeyType, value any) ([]byte, error) {
	switch keyType {
	case ge.KeyTypeUInt:
		v, ok := toUint64(value)
		if !ok {
			return nil, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "value is not an unsigned integer")
		}
		return []byte(strconv.FormatUint(v, 10)), nil
	case ge.KeyTypeInt:
		v, ok := toInt64(value)
		if !ok {
			return nil, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "value is not a signed integer")
		}
		return []byte(strconv.FormatInt(v, 10)), nil
	case ge.KeyTypeFloat:
		f, ok := toFloat64(value)
		if !ok {
			return nil, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "value is not a float")
		}
		if math.IsNaN(f) {
			return nil, gerrors.NewBadKeyError("", "NaN", nil)
		}
		if f == 0 {
			f = 0
		}
		return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
	case ge.KeyTypeBool:
		b, ok := value.(bool)
		if !ok {
			return nil, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "value is not a bool")
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case ge.KeyTypeString:
		s, ok := value.(string)
		if !ok {
			return nil, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "value is not a string")
		}
		return []byte(s), nil
	default:
		return nil, gerrors.NewBadKeyError("", "", nil).WithDetail("reason", "unknown key type")
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
