package protocol

import "github.com/ashduino101/swan-dist/internal/varint"

// ChatVisibility mirrors the client-info enum of the same name.
type ChatVisibility int32

const (
	ChatVisibilityFull ChatVisibility = iota
	ChatVisibilitySystem
	ChatVisibilityHidden
)

// ChatVisibilityFromID maps 0/1/other to Full/System/Hidden.
func ChatVisibilityFromID(v int32) ChatVisibility {
	switch v {
	case 0:
		return ChatVisibilityFull
	case 1:
		return ChatVisibilitySystem
	default:
		return ChatVisibilityHidden
	}
}

// Arm is the client's reported main hand.
type Arm int32

const (
	ArmLeft Arm = iota
	ArmRight
)

// ArmFromID maps 0/other to Left/Right.
func ArmFromID(v int32) Arm {
	if v == 0 {
		return ArmLeft
	}
	return ArmRight
}

// ClientInfo is the player-settings payload sent during configuration.
type ClientInfo struct {
	Lang                 string
	ViewDistance         uint8
	ChatVisibility       ChatVisibility
	ChatColorsEnabled    bool
	PlayerModelParts     uint8
	MainArm              Arm
	FiltersText          bool
	AllowsServerListing  bool
}

// DefaultClientInfo matches the vendor client's own pre-handshake defaults,
// used only as a fallback before the real ClientInfoC2S arrives.
func DefaultClientInfo() ClientInfo {
	return ClientInfo{
		Lang:                "en_us",
		ViewDistance:        12,
		ChatVisibility:      ChatVisibilityFull,
		ChatColorsEnabled:   true,
		PlayerModelParts:    0x7f,
		MainArm:             ArmRight,
		FiltersText:         true,
		AllowsServerListing: true,
	}
}

// Position packs block coordinates into the wire's 64-bit position encoding.
// Before 1.14 the field order within the packed word was x/y/z; 1.14+
// reorders to x/z/y.
type Position struct {
	X, Y, Z int32
}

// AppendTo appends the packed position to buf.
func (p Position) AppendTo(buf []byte, v Version) []byte {
	var word uint64
	if v >= V1_14 {
		word = ((uint64(p.X) & 0x3FFFFFF) << 38) | ((uint64(p.Z) & 0x3FFFFFF) << 12) | (uint64(p.Y) & 0xFFF)
	} else {
		word = ((uint64(p.X) & 0x3FFFFFF) << 38) | ((uint64(p.Y) & 0xFFF) << 26) | (uint64(p.Z) & 0x3FFFFFF)
	}
	return varint.AppendInt64(buf, int64(word))
}
