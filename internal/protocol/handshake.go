package protocol

import (
	"bytes"

	"github.com/ashduino101/swan-dist/internal/varint"
)

// HandshakeC2S is the single packet exchanged before a stage is chosen.
// Its own opcode and wire shape have been unchanged since the Netty
// rewrite, so it takes no version parameter.
type HandshakeC2S struct {
	Version    Version
	Address    string
	Port       uint16
	NextStage  Stage
}

// DecodeHandshakeC2S parses a handshake body. The protocol version is not
// yet known to the caller (that's what this packet establishes), so it is
// read directly off the wire rather than taken as a parameter.
func DecodeHandshakeC2S(body []byte) (HandshakeC2S, error) {
	r := bytes.NewReader(body)
	ver, err := varint.ReadVarInt(r)
	if err != nil {
		return HandshakeC2S{}, err
	}
	addr, err := varint.ReadString(r)
	if err != nil {
		return HandshakeC2S{}, err
	}
	var portBuf [2]byte
	if _, err := r.Read(portBuf[:]); err != nil {
		return HandshakeC2S{}, err
	}
	port := uint16(portBuf[0])<<8 | uint16(portBuf[1])
	next, err := varint.ReadVarInt(r)
	if err != nil {
		return HandshakeC2S{}, err
	}
	return HandshakeC2S{
		Version:   VersionFromID(ver),
		Address:   addr,
		Port:      port,
		NextStage: StageFromNextID(next),
	}, nil
}
