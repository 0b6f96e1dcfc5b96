package varint

import (
	"bytes"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 127, 128, 255, 2097151, 2147483647, -2147483648, 25565}
	for _, v := range cases {
		buf := AppendVarInt(nil, v)
		got, err := ReadVarInt(bytes.NewReader(buf))
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: got %d want %d", got, v)
		}
	}
}

func TestVarIntKnownEncodings(t *testing.T) {
	// Values from the protocol's published VarInt examples.
	cases := map[int32][]byte{
		0:          {0x00},
		1:          {0x01},
		2:          {0x02},
		127:        {0x7f},
		128:        {0x80, 0x01},
		255:        {0xff, 0x01},
		25565:      {0xdd, 0xc7, 0x01},
		2097151:    {0xff, 0xff, 0x7f},
		2147483647: {0xff, 0xff, 0xff, 0xff, 0x07},
		-1:         {0xff, 0xff, 0xff, 0xff, 0x0f},
		-2147483648: {0x80, 0x80, 0x80, 0x80, 0x08},
	}
	for v, want := range cases {
		got := AppendVarInt(nil, v)
		if !bytes.Equal(got, want) {
			t.Fatalf("AppendVarInt(%d) = % x, want % x", v, got, want)
		}
	}
}

func TestVarIntTooBig(t *testing.T) {
	buf := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	if _, err := ReadVarInt(bytes.NewReader(buf)); err != ErrTooBig {
		t.Fatalf("expected ErrTooBig, got %v", err)
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 9223372036854775807, -9223372036854775808}
	for _, v := range cases {
		var buf bytes.Buffer
		if err := WriteVarLong(&buf, v); err != nil {
			t.Fatalf("WriteVarLong: %v", err)
		}
		got, err := ReadVarLong(&buf)
		if err != nil {
			t.Fatalf("ReadVarLong(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: got %d want %d", got, v)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	s := "Hello, SwanCraft éè"
	buf := AppendString(nil, s)
	got, err := ReadString(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != s {
		t.Fatalf("got %q want %q", got, s)
	}
}

func TestStringTooLong(t *testing.T) {
	var buf bytes.Buffer
	WriteVarInt(&buf, int32(maxStringLen+1))
	if _, err := ReadString(&buf); err != ErrStringTooLong {
		t.Fatalf("expected ErrStringTooLong, got %v", err)
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	var u [16]byte
	for i := range u {
		u[i] = byte(i * 7)
	}
	var buf bytes.Buffer
	if err := WriteUUID(&buf, u); err != nil {
		t.Fatalf("WriteUUID: %v", err)
	}
	got, err := ReadUUID(&buf)
	if err != nil {
		t.Fatalf("ReadUUID: %v", err)
	}
	if got != u {
		t.Fatalf("got %v want %v", got, u)
	}
}
