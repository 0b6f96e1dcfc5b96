package wire

import (
	"bytes"
	"crypto/aes"
	"testing"
)

func TestCFB8RoundTrip(t *testing.T) {
	secret := []byte("0123456789abcdef") // 16 bytes: key == iv per the wire protocol
	plain := []byte("the quick brown fox jumps over the lazy dog, repeated to span multiple AES blocks")

	encBlock, err := aes.NewCipher(secret)
	if err != nil {
		t.Fatal(err)
	}
	enc := newCFB8(encBlock, secret, false)
	ciphertext := make([]byte, len(plain))
	enc.XORKeyStream(ciphertext, plain)

	if bytes.Equal(ciphertext, plain) {
		t.Fatal("ciphertext should not equal plaintext")
	}

	decBlock, err := aes.NewCipher(secret)
	if err != nil {
		t.Fatal(err)
	}
	dec := newCFB8(decBlock, secret, true)
	roundTripped := make([]byte, len(ciphertext))
	dec.XORKeyStream(roundTripped, ciphertext)

	if !bytes.Equal(roundTripped, plain) {
		t.Fatalf("got %q want %q", roundTripped, plain)
	}
}

func TestCFB8StreamsByteAtATime(t *testing.T) {
	secret := []byte("fedcba9876543210")
	plain := []byte("hello, world! this spans more than one aes block of plaintext")

	encBlock, _ := aes.NewCipher(secret)
	enc := newCFB8(encBlock, secret, false)
	ciphertext := make([]byte, len(plain))
	for i := range plain {
		enc.XORKeyStream(ciphertext[i:i+1], plain[i:i+1])
	}

	decBlock, _ := aes.NewCipher(secret)
	dec := newCFB8(decBlock, secret, true)
	out := make([]byte, len(ciphertext))
	for i := range ciphertext {
		dec.XORKeyStream(out[i:i+1], ciphertext[i:i+1])
	}

	if !bytes.Equal(out, plain) {
		t.Fatalf("byte-at-a-time round trip mismatch: got %q want %q", out, plain)
	}
}
