// Package wire owns the connection-level state machine (spec.md C7): byte
// framing, the post-login AES-128 CFB8 stream cipher, and the per-stage
// handshake/status/login/config/play handlers that drive a single TCP
// connection from accept to close.
//
// Grounded on the teacher's handleConnection/processPacket loop in
// handler.go, generalized from its two-state (handshake/status-or-login)
// switch to the full five-stage machine spec.md describes, and on
// main.go's accept loop for lifecycle/error handling idioms.
package wire

import "crypto/cipher"

// cfb8 implements 8-bit cipher feedback mode around a block cipher,
// self-synchronizing one byte at a time. The standard library's
// crypto/cipher package only ships full-block CFB (CFBEncrypter/
// CFBDecrypter operate in units of the block size); the vendor wire
// protocol specifically requires CFB8 so that a single already-decrypted
// byte can be consumed before the rest of its "block" has arrived, which
// is exactly how it self-synchronizes over the length-prefix/body
// boundary the framing layer decodes one byte at a time. No pack repo
// carries a CFB8 implementation (it is a niche mode outside TLS/SSH's
// usual menu), so this is implemented directly against crypto/aes's
// cipher.Block, producing something that satisfies cipher.Stream so it
// composes with the standard library's cipher.StreamReader/StreamWriter.
type cfb8 struct {
	block     cipher.Block
	shift     []byte // the rolling feedback register, one block in size
	decrypt   bool
	blockSize int
}

// newCFB8 returns a cipher.Stream operating in CFB8 mode. iv must be
// exactly block.BlockSize() bytes; the wire protocol hands in the shared
// secret itself as both key and IV.
func newCFB8(block cipher.Block, iv []byte, decrypt bool) cipher.Stream {
	bs := block.BlockSize()
	if len(iv) != bs {
		panic("wire: cfb8 iv length must equal block size")
	}
	shift := make([]byte, bs)
	copy(shift, iv)
	return &cfb8{block: block, shift: shift, decrypt: decrypt, blockSize: bs}
}

// XORKeyStream encrypts or decrypts src into dst, one byte at a time, so
// it satisfies cipher.Stream and can back a cipher.StreamReader/Writer.
func (c *cfb8) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("wire: cfb8 dst shorter than src")
	}
	tmp := make([]byte, c.blockSize)
	for i, in := range src {
		c.block.Encrypt(tmp, c.shift)
		ks := tmp[0]
		out := in ^ ks

		// Advance the feedback register: drop the oldest byte, append
		// whichever byte (plaintext or ciphertext) feeds the next round.
		var fb byte
		if c.decrypt {
			fb = in
		} else {
			fb = out
		}
		copy(c.shift, c.shift[1:])
		c.shift[c.blockSize-1] = fb

		dst[i] = out
	}
}
