package protocol

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ashduino101/swan-dist/internal/profile"
	"github.com/ashduino101/swan-dist/internal/text"
	"github.com/ashduino101/swan-dist/internal/varint"
)

func TestHandshakeRoundTrip(t *testing.T) {
	body := varint.AppendVarInt(nil, 767)
	body = varint.AppendString(body, "play.example.com")
	body = varint.AppendUint16(body, 25565)
	body = varint.AppendVarInt(body, 2)
	hs, err := DecodeHandshakeC2S(body)
	if err != nil {
		t.Fatal(err)
	}
	if hs.Version != V1_21 || hs.Address != "play.example.com" || hs.Port != 25565 || hs.NextStage != StageLogin {
		t.Fatalf("got %#v", hs)
	}
}

func TestStatusPingRoundTrip(t *testing.T) {
	req, err := DecodePingRequestC2S(varint.AppendInt64(nil, 1234))
	if err != nil {
		t.Fatal(err)
	}
	if req.Payload != 1234 {
		t.Fatalf("got %d", req.Payload)
	}
	resp := PingResponseS2C{Payload: req.Payload}
	if resp.ID(V1_21) != 1 {
		t.Fatalf("wrong id")
	}
	out := resp.Encode(V1_21)
	if len(out) != 8 {
		t.Fatalf("got %d bytes", len(out))
	}
}

func TestLoginHelloDecode119Branch(t *testing.T) {
	body := varint.AppendString(nil, "Steve")
	body = varint.AppendBool(body, false) // no sig data
	id := uuid.New()
	body = varint.AppendBool(body, true) // has_uuid
	body = varint.AppendUUID(body, [16]byte(id))
	hello, err := DecodeLoginHelloC2S(body, V1_19_2)
	if err != nil {
		t.Fatal(err)
	}
	if hello.Name != "Steve" || hello.UUID == nil || *hello.UUID != id {
		t.Fatalf("got %#v", hello)
	}
}

func TestLoginHelloDecode1202Branch(t *testing.T) {
	body := varint.AppendString(nil, "Alex")
	id := uuid.New()
	body = varint.AppendUUID(body, [16]byte(id))
	hello, err := DecodeLoginHelloC2S(body, V1_20_2)
	if err != nil {
		t.Fatal(err)
	}
	if hello.Name != "Alex" || hello.UUID == nil || *hello.UUID != id {
		t.Fatalf("got %#v", hello)
	}
}

func TestLoginSuccessEncodeIncludesProperties(t *testing.T) {
	p := LoginSuccessS2C{
		Profile: profile.Profile{
			ID:   uuid.New(),
			Name: "Steve",
			Properties: []profile.Property{
				{Name: "textures", Value: "abc", Signature: "sig"},
			},
		},
		StrictErrorHandling: true,
	}
	out := p.Encode(V1_21)
	if len(out) == 0 {
		t.Fatal("expected non-empty encode")
	}
	// UUID (16) + name len-prefix + 1 property + trailing strict-handling byte
	if out[len(out)-1] != 1 {
		t.Fatalf("expected trailing strict-error-handling byte = 1, got %d", out[len(out)-1])
	}
}

func TestVersionEraOrdering(t *testing.T) {
	// spec.md:67 requires the hyphenated-UUID-string branch for every
	// version older than 20w12a; all three pre-1.16 versions we support
	// predate it chronologically and must compare accordingly.
	for _, v := range []Version{V1_13_2, V1_14, V1_15} {
		if !(v < V20w12a) {
			t.Fatalf("expected %s < V20w12a", v.Name())
		}
	}
	if V1_16 < V20w12a {
		t.Fatalf("expected V1_16 >= V20w12a")
	}
}

func TestLoginSuccessEncodePre20w12aUsesHyphenatedUUID(t *testing.T) {
	id := uuid.New()
	p := LoginSuccessS2C{Profile: profile.Profile{ID: id, Name: "Steve"}}
	out := p.Encode(V1_15)

	want := varint.AppendString(nil, id.String())
	if len(out) < len(want) || string(out[:len(want)]) != string(want) {
		t.Fatalf("expected hyphenated-UUID-string prefix %q, got %v", id.String(), out)
	}
}

func TestLoginCompressionEncode(t *testing.T) {
	p := LoginCompressionS2C{Threshold: 256}
	out := p.Encode(V1_21)
	v, err := varint.ReadVarInt(sliceByteReader(out))
	if err != nil || v != 256 {
		t.Fatalf("got %d, %v", v, err)
	}
}

func TestKeepAliveOpcodeLadder(t *testing.T) {
	cases := map[Version]int32{
		V1_13_2: 0x21,
		V1_16_2: 0x1f,
		V1_19:   0x1e,
		V1_20_2: 0x24,
		V1_20_6: 0x26,
	}
	for v, want := range cases {
		if got := (KeepAliveS2C{}).ID(v); got != want {
			t.Fatalf("%v: got 0x%x want 0x%x", v, got, want)
		}
	}
}

func TestJoinGameOpcodeLadder(t *testing.T) {
	cases := map[Version]int32{
		V1_13_2: 0x25,
		V1_16:   0x25,
		V1_18_1: 0x26,
		V1_19:   0x23,
		V1_20:   0x28,
		V1_20_2: 0x29,
		V1_20_6: 0x2B,
	}
	for v, want := range cases {
		if got := (JoinGameS2C{}).ID(v); got != want {
			t.Fatalf("%v: got 0x%x want 0x%x", v, got, want)
		}
	}
}

func TestJoinGameEncode1206Branch(t *testing.T) {
	p := JoinGameS2C{
		EntityID:            1,
		IsHardcore:          false,
		Gamemode:             0,
		PreviousGamemode:     -1,
		Dimensions:           []string{"minecraft:overworld"},
		MaxPlayers:           20,
		ViewDistance:         10,
		SimulationDistance:   10,
		DimensionType:        0,
		DimensionName:        "minecraft:overworld",
		EnforcesSecureChat:   true,
	}
	out := p.Encode(V1_20_6)
	if len(out) == 0 {
		t.Fatal("expected non-empty encode")
	}
	if out[len(out)-1] != 1 {
		t.Fatalf("expected trailing enforces-secure-chat byte = 1, got %d", out[len(out)-1])
	}
}

func TestChatC2SDecode(t *testing.T) {
	body := varint.AppendString(nil, "hello")
	body = varint.AppendInt64(body, 1000)
	body = varint.AppendInt64(body, 2000)
	body = varint.AppendBool(body, false)
	body = varint.AppendVarInt(body, 0)
	body = append(body, 0, 0, 0) // acknowledged u24
	msg, err := DecodeChatC2S(body)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Message != "hello" || msg.Signature != nil {
		t.Fatalf("got %#v", msg)
	}
}

func TestGameMessageEncodeNBTForModernVersion(t *testing.T) {
	p := GameMessageS2C{Text: text.Plain("hi"), Overlay: false}
	out := p.Encode(V1_21)
	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}
}

func TestLinksEncode(t *testing.T) {
	p := LinksS2C{Links: []Link{{Label: LinkWebsite, URL: "https://example.com"}}}
	out := p.Encode(V1_21)
	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}
}

// sliceByteReader adapts a []byte to io.ByteReader for varint decode checks.
type byteSliceReader struct {
	b []byte
	i int
}

func (r *byteSliceReader) ReadByte() (byte, error) {
	if r.i >= len(r.b) {
		return 0, errEOFTest
	}
	c := r.b[r.i]
	r.i++
	return c, nil
}

var errEOFTest = testEOFError("eof")

type testEOFError string

func (e testEOFError) Error() string { return string(e) }

func sliceByteReader(b []byte) *byteSliceReader { return &byteSliceReader{b: b} }
