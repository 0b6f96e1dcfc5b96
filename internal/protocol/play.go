package protocol

import (
	"bytes"
	"io"

	"github.com/ashduino101/swan-dist/internal/chunk"
	"github.com/ashduino101/swan-dist/internal/nbt"
	"github.com/ashduino101/swan-dist/internal/text"
	"github.com/ashduino101/swan-dist/internal/varint"
)

// ChatC2S is a player chat message. Its opcode has stayed at 6 across every
// tracked version (only the packets around it in the play table move).
type ChatC2S struct {
	Message       string
	Timestamp     uint64
	Salt          uint64
	Signature     []byte // 256 bytes, nil when unsigned
	MessageCount  int32
	Acknowledged  uint32 // u24, packed into the low 24 bits
}

func DecodeChatC2S(body []byte) (ChatC2S, error) {
	r := bytes.NewReader(body)
	msg, err := varint.ReadString(r)
	if err != nil {
		return ChatC2S{}, err
	}
	var tsBuf, saltBuf [8]byte
	if _, err := io.ReadFull(r, tsBuf[:]); err != nil {
		return ChatC2S{}, err
	}
	if _, err := io.ReadFull(r, saltBuf[:]); err != nil {
		return ChatC2S{}, err
	}
	hasSig, err := r.ReadByte()
	if err != nil {
		return ChatC2S{}, err
	}
	var sig []byte
	if hasSig != 0 {
		sig = make([]byte, 256)
		if _, err := io.ReadFull(r, sig); err != nil {
			return ChatC2S{}, err
		}
	}
	count, err := varint.ReadVarInt(r)
	if err != nil {
		return ChatC2S{}, err
	}
	var ackBuf [3]byte
	if _, err := io.ReadFull(r, ackBuf[:]); err != nil {
		return ChatC2S{}, err
	}
	ack := uint32(ackBuf[0])<<16 | uint32(ackBuf[1])<<8 | uint32(ackBuf[2])
	return ChatC2S{
		Message:      msg,
		Timestamp:    beUint64(tsBuf[:]),
		Salt:         beUint64(saltBuf[:]),
		Signature:    sig,
		MessageCount: count,
		Acknowledged: ack,
	}, nil
}

func (ChatC2S) ID(Version) int32 { return 6 }

// PlayDisconnectS2C closes the play connection with a reason, always
// NBT-encoded (play predates JSON on this packet only in the sense that
// pre-1.20.3 clients still read it as NBT via the legacy-root form; see
// text.Component.ToNBT).
type PlayDisconnectS2C struct{ Reason *text.Component }

func (p PlayDisconnectS2C) Encode(v Version) []byte {
	return nbt.Serialize(nil, p.Reason.ToNBT(), v >= V1_20_2)
}

func (PlayDisconnectS2C) ID(Version) int32 { return 0x1d }

// KeepAliveS2C (play stage) must be answered with the identical payload
// within the vendor's configured timeout or the connection is dropped.
type KeepAliveS2C struct{ Payload uint64 }

func (p KeepAliveS2C) Encode(Version) []byte { return varint.AppendInt64(nil, int64(p.Payload)) }

func (KeepAliveS2C) ID(v Version) int32 {
	switch {
	case v >= V1_20_6:
		return 0x26
	case v >= V1_20_2:
		return 0x24
	case v >= V1_19_4:
		return 0x23
	case v >= V1_19_3:
		return 0x1f
	case v >= V1_19_2:
		return 0x20
	case v >= V1_19:
		return 0x1e
	case v >= V1_17:
		return 0x21
	case v >= V1_16_2:
		return 0x1f
	case v >= V1_16_1:
		return 0x20
	case v >= V1_15:
		return 0x21
	case v >= V1_14:
		return 0x20
	default: // 1.13.2
		return 0x21
	}
}

// EventType is a GameEventS2C sub-event. Only InitialChunksComing is
// exercised by this server, which sends it right after JoinGameS2C, before
// the chunk sender starts.
type EventType uint8

const (
	EventNoRespawnBlock EventType = iota
	EventRainStarted
	EventRainStopped
	EventGameModeChanged
	EventGameWon
	EventDemoMessageShown
	EventProjectileHitPlayer
	EventRainGradientChanged
	EventThunderGradientChanged
	EventPufferfishSting
	EventElderGuardianEffect
	EventImmediateRespawn
	EventLimitedCraftingToggled
	EventInitialChunksComing
)

// GameEventS2C signals a miscellaneous world/client state change.
type GameEventS2C struct {
	Event EventType
	Value float32
}

func (p GameEventS2C) Encode(Version) []byte {
	return varint.AppendFloat32(append([]byte(nil), byte(p.Event)), p.Value)
}

func (GameEventS2C) ID(v Version) int32 {
	switch {
	case v >= V1_20_6:
		return 0x22
	case v >= V1_20_2:
		return 0x20
	case v >= V1_19_4:
		return 0x1f
	case v >= V1_19_3:
		return 0x1c
	case v >= V1_19_2:
		return 0x1d
	case v >= V1_19:
		return 0x1b
	case v >= V1_17:
		return 0x1e
	case v >= V1_16_2:
		return 0x1d
	case v >= V1_16_1:
		return 0x1e
	case v >= V1_15:
		return 0x1f
	default: // 1.13.2
		return 0x1e
	}
}

// JoinGameS2C is the play-entry packet: world identity, dimension registry
// references, and gameplay rule flags. Its wire shape changed on nearly
// every major version; every historical branch below is reproduced from
// the vendor protocol, but this server (which rejects any client that
// isn't 1.21, see the login handler) only ever drives the >=V1_20_6 branch
// in practice.
type JoinGameS2C struct {
	EntityID             int32
	IsHardcore           bool
	Gamemode             uint8
	PreviousGamemode     int8
	Dimensions           []string
	RegistryCodec        nbt.Tag // pre-1.20.2
	LegacyDimensionNBT   nbt.Tag // 1.16-1.19
	MaxPlayers           int32
	ViewDistance         int32
	SimulationDistance   int32
	ReducedDebugInfo     bool
	EnableRespawnScreen  bool
	DoLimitedCrafting    bool
	LegacyDimensionType  string // pre-1.20.6
	LegacyDimension      int32  // pre-1.16: -1 nether, 0 overworld, 1 end
	LegacyLevelType      string // pre-1.16
	DimensionType        int32
	DimensionName        string
	HashedSeed           uint64
	IsDebug              bool
	IsFlat               bool
	DeathDimension       *string
	DeathLocation        *Position
	PortalCooldown       int32
	EnforcesSecureChat   bool
}

func (p JoinGameS2C) Encode(v Version) []byte {
	buf := varint.AppendInt32(nil, p.EntityID)
	switch {
	case v >= V1_20_6:
		buf = varint.AppendBool(buf, p.IsHardcore)
		buf = appendStringList(buf, p.Dimensions)
		buf = varint.AppendVarInt(buf, p.MaxPlayers)
		buf = varint.AppendVarInt(buf, p.ViewDistance)
		buf = varint.AppendVarInt(buf, p.SimulationDistance)
		buf = varint.AppendBool(buf, p.ReducedDebugInfo)
		buf = varint.AppendBool(buf, p.EnableRespawnScreen)
		buf = varint.AppendBool(buf, p.DoLimitedCrafting)
		buf = varint.AppendVarInt(buf, p.DimensionType)
		buf = varint.AppendString(buf, p.DimensionName)
		buf = varint.AppendInt64(buf, int64(p.HashedSeed))
		buf = append(buf, p.Gamemode, byte(p.PreviousGamemode))
		buf = varint.AppendBool(buf, p.IsDebug)
		buf = varint.AppendBool(buf, p.IsFlat)
		buf = p.appendDeathLocation(buf, v)
		buf = varint.AppendVarInt(buf, p.PortalCooldown)
		buf = varint.AppendBool(buf, p.EnforcesSecureChat)
	case v >= V1_20_2:
		buf = varint.AppendBool(buf, p.IsHardcore)
		buf = appendStringList(buf, p.Dimensions)
		buf = varint.AppendVarInt(buf, p.MaxPlayers)
		buf = varint.AppendVarInt(buf, p.ViewDistance)
		buf = varint.AppendVarInt(buf, p.SimulationDistance)
		buf = varint.AppendBool(buf, p.ReducedDebugInfo)
		buf = varint.AppendBool(buf, p.EnableRespawnScreen)
		buf = varint.AppendBool(buf, p.DoLimitedCrafting)
		buf = varint.AppendString(buf, p.LegacyDimensionType)
		buf = varint.AppendString(buf, p.DimensionName)
		buf = varint.AppendInt64(buf, int64(p.HashedSeed))
		buf = append(buf, p.Gamemode, byte(p.PreviousGamemode))
		buf = varint.AppendBool(buf, p.IsDebug)
		buf = varint.AppendBool(buf, p.IsFlat)
		buf = p.appendDeathLocation(buf, v)
		buf = varint.AppendVarInt(buf, p.PortalCooldown)
	case v >= V1_19:
		buf = varint.AppendBool(buf, p.IsHardcore)
		buf = append(buf, p.Gamemode, byte(p.PreviousGamemode))
		buf = appendStringList(buf, p.Dimensions)
		buf = nbt.Serialize(buf, p.RegistryCodec, false)
		buf = varint.AppendString(buf, p.LegacyDimensionType)
		buf = varint.AppendString(buf, p.DimensionName)
		buf = varint.AppendInt64(buf, int64(p.HashedSeed))
		buf = varint.AppendVarInt(buf, p.MaxPlayers)
		buf = varint.AppendVarInt(buf, p.ViewDistance)
		if v >= V1_18_1 {
			buf = varint.AppendVarInt(buf, p.SimulationDistance)
		}
		buf = varint.AppendBool(buf, p.ReducedDebugInfo)
		buf = varint.AppendBool(buf, p.EnableRespawnScreen)
		buf = varint.AppendBool(buf, p.IsDebug)
		buf = varint.AppendBool(buf, p.IsFlat)
		buf = p.appendDeathLocation(buf, v)
		if v > V1_20 {
			buf = varint.AppendVarInt(buf, p.PortalCooldown)
		}
	case v >= V1_17:
		buf = varint.AppendBool(buf, p.IsHardcore)
		buf = append(buf, p.Gamemode, byte(p.PreviousGamemode))
		buf = appendStringList(buf, p.Dimensions)
		buf = nbt.Serialize(buf, p.RegistryCodec, false)
		buf = nbt.Serialize(buf, p.LegacyDimensionNBT, false)
		buf = varint.AppendString(buf, p.DimensionName)
		buf = varint.AppendInt64(buf, int64(p.HashedSeed))
		buf = varint.AppendVarInt(buf, p.MaxPlayers)
		buf = varint.AppendVarInt(buf, p.ViewDistance)
		buf = varint.AppendBool(buf, p.ReducedDebugInfo)
		buf = varint.AppendBool(buf, p.EnableRespawnScreen)
		buf = varint.AppendBool(buf, p.IsDebug)
		buf = varint.AppendBool(buf, p.IsFlat)
	case v >= V1_16:
		buf = append(buf, p.Gamemode, byte(p.PreviousGamemode))
		buf = appendStringList(buf, p.Dimensions)
		buf = nbt.Serialize(buf, p.RegistryCodec, false)
		buf = varint.AppendString(buf, p.LegacyDimensionType)
		buf = varint.AppendString(buf, p.DimensionName)
		buf = varint.AppendInt64(buf, int64(p.HashedSeed))
		buf = append(buf, byte(p.MaxPlayers))
		buf = varint.AppendVarInt(buf, p.ViewDistance)
		buf = varint.AppendBool(buf, p.ReducedDebugInfo)
		buf = varint.AppendBool(buf, p.EnableRespawnScreen)
		buf = varint.AppendBool(buf, p.IsDebug)
		buf = varint.AppendBool(buf, p.IsFlat)
	case v >= V1_15:
		buf = append(buf, p.Gamemode)
		buf = varint.AppendInt32(buf, p.LegacyDimension)
		buf = varint.AppendInt64(buf, int64(p.HashedSeed))
		buf = append(buf, byte(p.MaxPlayers))
		buf = varint.AppendString(buf, p.LegacyLevelType)
		buf = varint.AppendVarInt(buf, p.ViewDistance)
		buf = varint.AppendBool(buf, p.ReducedDebugInfo)
		buf = varint.AppendBool(buf, p.EnableRespawnScreen)
	case v >= V1_14:
		buf = append(buf, p.Gamemode)
		buf = varint.AppendInt32(buf, p.LegacyDimension)
		buf = append(buf, byte(p.MaxPlayers))
		buf = varint.AppendString(buf, p.LegacyLevelType)
		buf = varint.AppendVarInt(buf, p.ViewDistance)
		buf = varint.AppendBool(buf, p.ReducedDebugInfo)
	case v >= V1_13_2:
		buf = append(buf, p.Gamemode)
		buf = varint.AppendInt32(buf, p.LegacyDimension)
		buf = append(buf, 2) // difficulty: always Normal
		buf = append(buf, byte(p.MaxPlayers))
		buf = varint.AppendString(buf, p.LegacyLevelType)
		buf = varint.AppendBool(buf, p.ReducedDebugInfo)
	}
	return buf
}

func (p JoinGameS2C) appendDeathLocation(buf []byte, v Version) []byte {
	buf = varint.AppendBool(buf, p.DeathLocation != nil)
	if p.DeathLocation != nil {
		buf = varint.AppendString(buf, *p.DeathDimension)
		buf = p.DeathLocation.AppendTo(buf, v)
	}
	return buf
}

func appendStringList(buf []byte, ss []string) []byte {
	buf = varint.AppendVarInt(buf, int32(len(ss)))
	for _, s := range ss {
		buf = varint.AppendString(buf, s)
	}
	return buf
}

func (JoinGameS2C) ID(v Version) int32 {
	switch {
	case v >= V1_20_6:
		return 0x2B
	case v >= V1_20_2:
		return 0x29
	case v >= V1_20:
		return 0x28
	case v >= V1_19_3:
		return 0x24
	case v >= V1_19:
		return 0x23
	case v >= V1_18_1:
		return 0x26
	case v >= V1_16:
		return 0x25
	case v >= V1_13_2:
		return 0x25
	default:
		return 0x25
	}
}

// ChunkDataS2C ships one 16x16-column worth of terrain: position, computed
// heightmaps, and the packed section data (see chunk.Chunk.SerializeToChunkPacket).
type ChunkDataS2C struct {
	X, Z        int32
	Heightmaps  nbt.Tag
	Chunk       chunk.Chunk
	Table       chunk.Table
}

func (p ChunkDataS2C) Encode(v Version) []byte {
	buf := varint.AppendInt32(nil, p.X)
	buf = varint.AppendInt32(buf, p.Z)
	buf = nbt.Serialize(buf, p.Heightmaps, v >= V1_20_2)
	return p.Chunk.SerializeToChunkPacket(buf, p.Table, v < V1_19_4)
}

func (ChunkDataS2C) ID(v Version) int32 {
	switch {
	case v >= V1_20_6:
		return 0x27
	case v >= V1_20_2:
		return 0x25
	case v >= V1_19_4:
		return 0x24
	case v >= V1_19_3:
		return 0x20
	case v >= V1_19_2:
		return 0x21
	case v >= V1_19:
		return 0x1f
	case v >= V1_17:
		return 0x22
	case v >= V1_16_2:
		return 0x20
	case v >= V1_16_1:
		return 0x21
	case v >= V1_15:
		return 0x22
	case v >= V1_14:
		return 0x21
	default: // 1.13.2
		return 0x22
	}
}

// SyncPlayerPositionS2C teleports the player; the client must answer with a
// ConfirmTeleportationC2S bearing the same TeleportID (not otherwise
// tracked by this server beyond the single spawn teleport).
type SyncPlayerPositionS2C struct {
	X, Y, Z      float64
	Yaw, Pitch   float32
	Flags        uint8
	TeleportID   int32
	Dismount     bool // 1.17-1.19.3 only
}

func (p SyncPlayerPositionS2C) Encode(v Version) []byte {
	buf := varint.AppendFloat64(nil, p.X)
	buf = varint.AppendFloat64(buf, p.Y)
	buf = varint.AppendFloat64(buf, p.Z)
	buf = varint.AppendFloat32(buf, p.Yaw)
	buf = varint.AppendFloat32(buf, p.Pitch)
	buf = append(buf, p.Flags)
	buf = varint.AppendVarInt(buf, p.TeleportID)
	if v >= V1_17 && v < V1_19_4 {
		buf = varint.AppendBool(buf, p.Dismount)
	}
	return buf
}

func (SyncPlayerPositionS2C) ID(v Version) int32 {
	switch {
	case v >= V1_20_6:
		return 0x40
	case v >= V1_20_2:
		return 0x3e
	case v >= V1_19_4:
		return 0x3c
	case v >= V1_19_3:
		return 0x38
	case v >= V1_19_2:
		return 0x39
	case v >= V1_19:
		return 0x36
	case v >= V1_17:
		return 0x38
	case v >= V1_16_2:
		return 0x34
	case v >= V1_16_1:
		return 0x35
	case v >= V1_15:
		return 0x36
	case v >= V1_14:
		return 0x35
	default: // 1.13.2
		return 0x32
	}
}

// GameMessageS2C delivers a chat/system message; overlay selects the
// above-hotbar action-bar slot instead of the main chat log. This is the
// packet the one-time-code authenticator and the greeting banner both use.
type GameMessageS2C struct {
	Text    *text.Component
	Overlay bool
}

func (p GameMessageS2C) Encode(v Version) []byte {
	buf := nbt.Serialize(nil, p.Text.ToNBT(), v >= V1_20_2)
	return varint.AppendBool(buf, p.Overlay)
}

func (GameMessageS2C) ID(Version) int32 { return 0x6c }
