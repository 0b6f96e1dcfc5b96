package wire

import (
	"bytes"
	"testing"

	"github.com/ashduino101/swan-dist/internal/varint"
)

func TestReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, 5, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	fr := newFrameReader(&buf)
	f, err := fr.readFrame(false)
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != 5 || string(f.Body) != "hello" {
		t.Fatalf("got %#v", f)
	}
}

func TestLegacyPingDetected(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xFE, 0x01, 0x00})
	fr := newFrameReader(buf)
	_, err := fr.readFrame(true)
	if err != ErrLegacyPing {
		t.Fatalf("got %v", err)
	}
}

func TestLegacyPingGuardOnlyAppliesOnce(t *testing.T) {
	var buf bytes.Buffer
	writeFrame(&buf, 0, []byte{0xFE})
	fr := newFrameReader(&buf)
	f, err := fr.readFrame(true)
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != 0 {
		t.Fatalf("got %#v", f)
	}
}

func TestOversizeFrameRejected(t *testing.T) {
	var buf bytes.Buffer
	length := varint.AppendVarInt(nil, maxFrameLength+1)
	buf.Write(length)
	fr := newFrameReader(&buf)
	if _, err := fr.readFrame(false); err == nil {
		t.Fatal("expected error for oversize frame")
	}
}

func TestCipherPairIndependentDirections(t *testing.T) {
	secret := []byte("0123456789abcdef")
	pair, err := newCipherPair(secret)
	if err != nil {
		t.Fatal(err)
	}
	plain := []byte("ping")
	ct := make([]byte, len(plain))
	pair.Writer.XORKeyStream(ct, plain)

	otherPair, err := newCipherPair(secret)
	if err != nil {
		t.Fatal(err)
	}
	pt := make([]byte, len(ct))
	otherPair.Reader.XORKeyStream(pt, ct)
	if string(pt) != string(plain) {
		t.Fatalf("got %q want %q", pt, plain)
	}
}
