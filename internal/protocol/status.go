package protocol

import (
	"encoding/binary"
	"io"

	"github.com/ashduino101/swan-dist/internal/varint"
)

// StatusRequestC2S carries no fields; unchanged since the pre-Netty ping.
type StatusRequestC2S struct{}

func DecodeStatusRequestC2S([]byte) StatusRequestC2S { return StatusRequestC2S{} }

// PingRequestC2S echoes an opaque client-chosen payload back in PingResponseS2C.
type PingRequestC2S struct {
	Payload uint64
}

func DecodePingRequestC2S(body []byte) (PingRequestC2S, error) {
	if len(body) < 8 {
		return PingRequestC2S{}, io.ErrUnexpectedEOF
	}
	return PingRequestC2S{Payload: binary.BigEndian.Uint64(body)}, nil
}

// StatusResponseS2C carries the JSON status document as a length-prefixed string.
type StatusResponseS2C struct {
	Response string
}

func (p StatusResponseS2C) Encode(Version) []byte {
	return varint.AppendString(nil, p.Response)
}

func (StatusResponseS2C) ID(Version) int32 { return 0 }

// PingResponseS2C echoes PingRequestC2S.Payload verbatim.
type PingResponseS2C struct {
	Payload uint64
}

func (p PingResponseS2C) Encode(Version) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], p.Payload)
	return buf[:]
}

func (PingResponseS2C) ID(Version) int32 { return 1 }
