package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"net/url"
	"testing"
)

func TestSessionHashKnownVectors(t *testing.T) {
	// Vectors from the vendor's own documented examples of the signed
	// two's-complement session-hash format.
	cases := []struct {
		in   string
		want string
	}{
		{"Notch", "4ed1f46bbe04bc756bcb17c0c7ce3e4632f06a48"},
		{"jeb_", "-7c9d5b0044c130109bd09cbe50233cbdf7bd78eb"},
		{"simon", "88e16a1019277b15d58faf0541e11910eb756f6"},
	}
	for _, c := range cases {
		got := SessionHash(nil, []byte(c.in))
		if got != c.want {
			t.Errorf("SessionHash(%q) = %q want %q", c.in, got, c.want)
		}
	}
}

func TestHasJoinedURLEncoding(t *testing.T) {
	u := HasJoinedURL("Steve Jobs", "abc def")
	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatal(err)
	}
	q := parsed.Query()
	if q.Get("username") != "Steve Jobs" || q.Get("serverId") != "abc def" {
		t.Fatalf("got %#v", q)
	}
}

func TestDecryptRoundTrip(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatal(err)
	}
	secret := []byte("0123456789abcdef")
	pub := &a.key.PublicKey
	ct, err := rsa.EncryptPKCS1v15(rand.Reader, pub, secret)
	if err != nil {
		t.Fatal(err)
	}
	pt, err := a.DecryptPKCS1v15(ct)
	if err != nil {
		t.Fatal(err)
	}
	if string(pt) != string(secret) {
		t.Fatalf("got %q want %q", pt, secret)
	}
}
