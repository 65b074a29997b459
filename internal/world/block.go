package world

import "fmt"

// Type classifies how a block behaves for culling and gameplay.
type Type uint8

const (
	TypeSolid Type = iota
	TypeWater
	TypeAir
	TypeEntity
)

func (t Type) String() string {
	switch t {
	case TypeSolid:
		return "solid"
	case TypeWater:
		return "water"
	case TypeAir:
		return "air"
	case TypeEntity:
		return "entity"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Well-known block identifiers. Identifiers are opaque content keys; nothing
// in this package resolves them to textures or materials.
const (
	StoneID = "block:stone"
	AirID   = "block:air"
	WaterID = "block:water"
)

// Block describes a single voxel. It is a plain comparable value and is never
// mutated after construction.
type Block struct {
	ID       string
	Type     Type
	Metadata uint8 // block-state variant
}

var (
	Stone = Block{ID: StoneID, Type: TypeSolid}
	Air   = Block{ID: AirID, Type: TypeAir}
	Water = Block{ID: WaterID, Type: TypeWater}
)

// NewBlock creates a block with the given identity.
func NewBlock(id string, t Type, metadata uint8) Block {
	return Block{ID: id, Type: t, Metadata: metadata}
}

// IsSolid reports whether the block occludes neighbouring faces.
func (b Block) IsSolid() bool {
	return b.Type == TypeSolid
}

// IsTransparent is the complement of IsSolid.
func (b Block) IsTransparent() bool {
	return b.Type != TypeSolid
}

func (b Block) String() string {
	if b.Metadata == 0 {
		return b.ID
	}
	return fmt.Sprintf("%s:%d", b.ID, b.Metadata)
}
