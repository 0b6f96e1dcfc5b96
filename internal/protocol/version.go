// Package protocol defines the protocol-version enumeration, connection
// stage, and the packet catalog (per-direction, per-version packet
// structures with version-gated encode/decode and opcode tables). Grounded
// on _examples/original_source/src/server/{version,packets}.rs.
package protocol

// Version is a totally-ordered enumeration of supported wire versions,
// ordered chronologically rather than by protocol number so that `<`
// comparisons against era boundaries (e.g. V20w12a) behave correctly; Unknown
// is an out-of-band sentinel kept at the low end, older than everything.
type Version int32

const (
	Unknown Version = iota
	V1_13_2
	V1_14
	V1_15
	V20w12a
	V1_16
	V1_16_1
	V1_16_2
	V1_17
	V1_18_1
	V1_19
	V1_19_2
	V1_19_3
	V1_19_4
	V1_20
	V1_20_2
	V1_20_4
	V1_20_5
	V1_20_6
	V1_21
)

// protocolID is the vendor wire-protocol number advertised on a status ping.
var protocolID = map[Version]int32{
	Unknown: -1,
	V1_13_2: 404, V1_14: 477, V1_15: 573,
	V20w12a: 600,
	V1_16: 735, V1_16_1: 736, V1_16_2: 751,
	V1_17: 755, V1_18_1: 757,
	V1_19: 759, V1_19_2: 760, V1_19_3: 761, V1_19_4: 762,
	V1_20: 763, V1_20_2: 764, V1_20_4: 765, V1_20_5: 766, V1_20_6: 766,
	V1_21: 767,
}

var versionName = map[Version]string{
	Unknown: "unknown",
	V1_13_2: "1.13.2", V1_14: "1.14", V1_15: "1.15",
	V20w12a: "20w12a",
	V1_16: "1.16", V1_16_1: "1.16.1", V1_16_2: "1.16.2",
	V1_17: "1.17", V1_18_1: "1.18.1",
	V1_19: "1.19", V1_19_2: "1.19.2", V1_19_3: "1.19.3", V1_19_4: "1.19.4",
	V1_20: "1.20", V1_20_2: "1.20.2", V1_20_4: "1.20.4", V1_20_5: "1.20.5", V1_20_6: "1.20.6",
	V1_21: "1.21",
}

// VersionFromID maps a wire-advertised protocol number to a Version,
// returning Unknown if unrecognized.
func VersionFromID(id int32) Version {
	for v, pid := range protocolID {
		if pid == id && v != Unknown {
			return v
		}
	}
	return Unknown
}

// ID returns the vendor wire-protocol number for v.
func (v Version) ID() int32 { return protocolID[v] }

// Name returns the human-readable version string, e.g. "1.21".
func (v Version) Name() string {
	if n, ok := versionName[v]; ok {
		return n
	}
	return "unknown"
}

// Stage is a coarse phase of the wire protocol.
type Stage int

const (
	StageHandshake Stage = iota
	StageStatus
	StageLogin
	StageConfig
	StagePlay
	StageTransfer
	StageInvalid
)

// StageFromNextID maps the handshake packet's "next state" field: 1=Status,
// 2=Login, 3=Transfer, else Invalid.
func StageFromNextID(id int32) Stage {
	switch id {
	case 1:
		return StageStatus
	case 2:
		return StageLogin
	case 3:
		return StageTransfer
	default:
		return StageInvalid
	}
}
