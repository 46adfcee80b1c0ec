package ge

import (
	"time"

	"github.com/goccy/go-json"
)

// Engine identifies which index engine a view's index uses. The byte values
// match the original engine's enum so on-disk metadata stays self-describing
// without depending on directory-name conventions.
type Engine byte

const (
	EngineIncrement Engine = 0x01
	EngineDisk      Engine = 0x02
	EngineSequence  Engine = 0x03
	EngineBlock     Engine = 0x04
)

func (e Engine) String() string {
	switch e {
	case EngineIncrement:
		return "increment"
	case EngineDisk:
		return "disk"
	case EngineSequence:
		return "sequence"
	case EngineBlock:
		return "block"
	default:
		return "unknown"
	}
}

// KeyType identifies the declared type of an index's key field. The byte
// values match the original engine's enum.
type KeyType byte

const (
	KeyTypeString KeyType = 0x00
	KeyTypeUInt   KeyType = 0x01
	KeyTypeInt    KeyType = 0x02
	KeyTypeFloat  KeyType = 0x05
	KeyTypeBool   KeyType = 0x07
)

func (k KeyType) String() string {
	switch k {
	case KeyTypeString:
		return "string"
	case KeyTypeUInt:
		return "uint"
	case KeyTypeInt:
		return "int"
	case KeyTypeFloat:
		return "float"
	case KeyTypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Description is the metadata blob stored at the header's description
// pointer. Databases, views and indexes all carry one; fields that don't
// apply to a given tag are left at their zero value.
type Description struct {
	Name       string    `json:"name"`
	Comment    string    `json:"comment,omitempty"`
	KeyType    KeyType   `json:"keyType,omitempty"`
	Engine     Engine    `json:"engine,omitempty"`
	Primary    bool      `json:"primary,omitempty"`
	Unique     bool      `json:"unique,omitempty"`
	Null       bool      `json:"null,omitempty"`
	CreateTime time.Time `json:"createTime"`

	// RecordsStart is the body offset a view's record stream begins at,
	// fixed the moment the view is created and carried forward unchanged
	// by every later ModifyDescription call (e.g. SetPrimaryIndex). Only
	// views set this; everything else leaves it zero.
	RecordsStart int64 `json:"recordsStart,omitempty"`
}

// Marshal serializes the description with the same JSON library the
// selector uses for field extraction, keeping the whole engine on one JSON
// implementation.
func (d Description) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// UnmarshalDescription parses a description blob read back from a Ge file.
func UnmarshalDescription(data []byte) (Description, error) {
	var d Description
	if err := json.Unmarshal(data, &d); err != nil {
		return Description{}, err
	}
	return d, nil
}
