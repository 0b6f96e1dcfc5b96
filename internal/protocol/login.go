package protocol

import (
	"bytes"
	"io"

	"github.com/google/uuid"

	"github.com/ashduino101/swan-dist/internal/profile"
	"github.com/ashduino101/swan-dist/internal/text"
	"github.com/ashduino101/swan-dist/internal/varint"
)

// LoginHelloC2S starts authentication with the client's chosen name and,
// depending on version, a client-side UUID and (1.19-1.19.2 only) a
// signature-data bundle that was later dropped from the protocol.
type LoginHelloC2S struct {
	Name       string
	UUID       *uuid.UUID
	ExpiresAt  *uint64
	PublicKey  []byte
	Signature  []byte
}

func DecodeLoginHelloC2S(body []byte, v Version) (LoginHelloC2S, error) {
	r := bytes.NewReader(body)
	name, err := varint.ReadString(r)
	if err != nil {
		return LoginHelloC2S{}, err
	}
	out := LoginHelloC2S{Name: name}
	if v >= V1_19 {
		if v < V1_19_3 {
			hasSig, err := r.ReadByte()
			if err != nil {
				return LoginHelloC2S{}, err
			}
			if hasSig != 0 {
				var expBuf [8]byte
				if _, err := io.ReadFull(r, expBuf[:]); err != nil {
					return LoginHelloC2S{}, err
				}
				exp := beUint64(expBuf[:])
				out.ExpiresAt = &exp
				pkLen, err := varint.ReadVarInt(r)
				if err != nil {
					return LoginHelloC2S{}, err
				}
				out.PublicKey = make([]byte, pkLen)
				if _, err := io.ReadFull(r, out.PublicKey); err != nil {
					return LoginHelloC2S{}, err
				}
				sigLen, err := varint.ReadVarInt(r)
				if err != nil {
					return LoginHelloC2S{}, err
				}
				out.Signature = make([]byte, sigLen)
				if _, err := io.ReadFull(r, out.Signature); err != nil {
					return LoginHelloC2S{}, err
				}
			}
		}
		hasUUID := true
		if v < V1_20_2 {
			b, err := r.ReadByte()
			if err != nil {
				return LoginHelloC2S{}, err
			}
			hasUUID = b != 0
		}
		if hasUUID {
			u, err := varint.ReadUUID(r)
			if err != nil {
				return LoginHelloC2S{}, err
			}
			id := uuid.UUID(u)
			out.UUID = &id
		}
	}
	return out, nil
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b[:8] {
		v = v<<8 | uint64(c)
	}
	return v
}

// LoginKeyC2S carries the RSA-encrypted shared secret and verification
// nonce. 1.19-1.19.2 briefly replaced the nonce with a salt+signature pair
// for the (never broadly deployed) signed-chat scheme; every other era
// sends a plain nonce.
type LoginKeyC2S struct {
	SharedSecret     []byte
	Nonce            []byte
	Salt             *uint64
	MessageSignature []byte
}

func DecodeLoginKeyC2S(body []byte, v Version) (LoginKeyC2S, error) {
	r := bytes.NewReader(body)
	secretLen, err := varint.ReadVarInt(r)
	if err != nil {
		return LoginKeyC2S{}, err
	}
	secret := make([]byte, secretLen)
	if _, err := io.ReadFull(r, secret); err != nil {
		return LoginKeyC2S{}, err
	}
	out := LoginKeyC2S{SharedSecret: secret}
	if v >= V1_19 && v < V1_19_3 {
		hasNonce, err := r.ReadByte()
		if err != nil {
			return LoginKeyC2S{}, err
		}
		if hasNonce != 0 {
			nonceLen, err := varint.ReadVarInt(r)
			if err != nil {
				return LoginKeyC2S{}, err
			}
			out.Nonce = make([]byte, nonceLen)
			if _, err := io.ReadFull(r, out.Nonce); err != nil {
				return LoginKeyC2S{}, err
			}
		} else {
			var saltBuf [8]byte
			if _, err := io.ReadFull(r, saltBuf[:]); err != nil {
				return LoginKeyC2S{}, err
			}
			salt := beUint64(saltBuf[:])
			out.Salt = &salt
			sigLen, err := varint.ReadVarInt(r)
			if err != nil {
				return LoginKeyC2S{}, err
			}
			out.MessageSignature = make([]byte, sigLen)
			if _, err := io.ReadFull(r, out.MessageSignature); err != nil {
				return LoginKeyC2S{}, err
			}
		}
	} else {
		nonceLen, err := varint.ReadVarInt(r)
		if err != nil {
			return LoginKeyC2S{}, err
		}
		out.Nonce = make([]byte, nonceLen)
		if _, err := io.ReadFull(r, out.Nonce); err != nil {
			return LoginKeyC2S{}, err
		}
	}
	return out, nil
}

// LoginQueryResponseC2S answers a plugin-channel login query.
type LoginQueryResponseC2S struct {
	QueryID  int32
	Response []byte
}

func DecodeLoginQueryResponseC2S(body []byte) (LoginQueryResponseC2S, error) {
	r := bytes.NewReader(body)
	id, err := varint.ReadVarInt(r)
	if err != nil {
		return LoginQueryResponseC2S{}, err
	}
	rest := make([]byte, r.Len())
	io.ReadFull(r, rest)
	return LoginQueryResponseC2S{QueryID: id, Response: rest}, nil
}

// EnterConfigurationC2S is an empty acknowledgement that moves the
// connection into the configuration stage.
type EnterConfigurationC2S struct{}

func DecodeEnterConfigurationC2S([]byte) EnterConfigurationC2S { return EnterConfigurationC2S{} }

// LoginDisconnectS2C aborts login with a reason; it has always been
// JSON-encoded, never NBT, since login predates the 1.20.3 text-component
// NBT switchover.
type LoginDisconnectS2C struct {
	Reason *text.Component
}

func (p LoginDisconnectS2C) Encode(Version) []byte {
	j, _ := p.Reason.MarshalJSON()
	return varint.AppendString(nil, string(j))
}

func (LoginDisconnectS2C) ID(Version) int32 { return 0 }

// LoginHelloS2C begins encrypted login: the server's RSA public key (DER,
// X.509 SubjectPublicKeyInfo) and a random verification nonce.
type LoginHelloS2C struct {
	ServerID            string // max 20 chars; empty string is standard post-Yggdrasil
	PublicKey           []byte
	Nonce               []byte
	NeedsAuthentication bool // 1.20.5+
}

func (p LoginHelloS2C) Encode(v Version) []byte {
	buf := varint.AppendString(nil, p.ServerID)
	buf = varint.AppendVarInt(buf, int32(len(p.PublicKey)))
	buf = append(buf, p.PublicKey...)
	buf = varint.AppendVarInt(buf, int32(len(p.Nonce)))
	buf = append(buf, p.Nonce...)
	if v >= V1_20_5 {
		buf = varint.AppendBool(buf, p.NeedsAuthentication)
	}
	return buf
}

func (LoginHelloS2C) ID(Version) int32 { return 1 }

// LoginSuccessS2C finalizes login with the authenticated profile.
type LoginSuccessS2C struct {
	Profile              profile.Profile
	StrictErrorHandling  bool // 1.20.5+ (protocol 766)
}

func (p LoginSuccessS2C) Encode(v Version) []byte {
	var buf []byte
	if v < V20w12a {
		buf = varint.AppendString(buf, p.Profile.ID.String())
	} else {
		id := [16]byte(p.Profile.ID)
		buf = varint.AppendUUID(buf, id)
	}
	buf = varint.AppendString(buf, p.Profile.Name)
	if v > V1_19 {
		buf = varint.AppendVarInt(buf, int32(len(p.Profile.Properties)))
		for _, prop := range p.Profile.Properties {
			buf = varint.AppendString(buf, prop.Name)
			buf = varint.AppendString(buf, prop.Value)
			buf = varint.AppendBool(buf, prop.Signature != "")
			if prop.Signature != "" {
				buf = varint.AppendString(buf, prop.Signature)
			}
		}
	}
	if v >= V1_20_5 {
		buf = varint.AppendBool(buf, p.StrictErrorHandling)
	}
	return buf
}

func (LoginSuccessS2C) ID(Version) int32 { return 2 }

// LoginCompressionS2C switches the connection to compressed framing for
// any packet at or above threshold bytes; unchanged since the Netty rewrite.
type LoginCompressionS2C struct {
	Threshold int32
}

func (p LoginCompressionS2C) Encode(Version) []byte {
	return varint.AppendVarInt(nil, p.Threshold)
}

func (LoginCompressionS2C) ID(Version) int32 { return 3 }

// LoginQueryRequestS2C is a plugin-channel probe during login; it is part
// of the packet catalog, but this server never sends one.
type LoginQueryRequestS2C struct {
	QueryID int32
	Channel string
	Data    []byte
}

func (p LoginQueryRequestS2C) Encode(Version) []byte {
	buf := varint.AppendVarInt(nil, p.QueryID)
	buf = varint.AppendString(buf, p.Channel)
	buf = append(buf, p.Data...)
	return buf
}

func (LoginQueryRequestS2C) ID(Version) int32 { return 4 }

// LoginCookieRequestS2C asks the client to return a previously stored
// cookie; unused by this server (no cookies are ever stored) but kept in
// the catalog since it shares LoginCompressionS2C's opcode neighborhood.
type LoginCookieRequestS2C struct {
	Key string
}

func (p LoginCookieRequestS2C) Encode(Version) []byte {
	return varint.AppendString(nil, p.Key)
}

func (LoginCookieRequestS2C) ID(Version) int32 { return 5 }
