package wire

import (
	"bufio"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"io"

	"github.com/ashduino101/swan-dist/internal/varint"
)

// maxFrameLength bounds a single incoming frame, matching the teacher's
// own sanity check in handleConnection (length < 0 || length > 1 MiB).
const maxFrameLength = 1 << 20

// ErrLegacyPing is returned when the very first byte read in the
// Handshake stage is 0xFE: the pre-netty "legacy ping" probe some
// clients still send. It carries no valid frame; the caller must close
// the socket without attempting to decode anything further.
var ErrLegacyPing = errors.New("wire: legacy ping probe")

// frameReader decodes {length:varint, id:varint, body} frames from an
// underlying byte stream that may be plaintext or, once encryption is
// enabled post-login, wrapped in a CFB8 cipher.StreamReader.
type frameReader struct {
	br        *bufio.Reader
	firstByte bool // true until the first byte of the connection has been consumed
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{br: bufio.NewReader(r), firstByte: true}
}

// frame is one decoded {id, body} pair; length framing is consumed and
// not retained.
type frame struct {
	ID   int32
	Body []byte
}

// readFrame reads the next length-prefixed frame. legacyPingGuard should
// be true only while the connection is still in the Handshake stage
// (spec.md's 0xFE legacy-pinger rule applies to the very first byte of
// the whole connection, not every frame).
func (fr *frameReader) readFrame(legacyPingGuard bool) (frame, error) {
	if legacyPingGuard && fr.firstByte {
		b, err := fr.br.Peek(1)
		if err != nil {
			return frame{}, err
		}
		if b[0] == 0xFE {
			return frame{}, ErrLegacyPing
		}
	}
	fr.firstByte = false

	length, err := varint.ReadVarInt(fr.br)
	if err != nil {
		return frame{}, err
	}
	if length < 0 || length > maxFrameLength {
		return frame{}, errors.New("wire: frame length out of bounds")
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(fr.br, body); err != nil {
		return frame{}, err
	}

	br := byteSliceReader{b: body}
	id, err := varint.ReadVarInt(&br)
	if err != nil {
		return frame{}, err
	}
	return frame{ID: id, Body: body[br.i:]}, nil
}

// writeFrame writes a length-prefixed {id, body} frame to w.
func writeFrame(w io.Writer, id int32, body []byte) error {
	prefixed := varint.AppendVarInt(nil, id)
	prefixed = append(prefixed, body...)
	length := varint.AppendVarInt(nil, int32(len(prefixed)))
	if _, err := w.Write(length); err != nil {
		return err
	}
	_, err := w.Write(prefixed)
	return err
}

// byteSliceReader adapts a []byte to io.ByteReader for varint decoding.
type byteSliceReader struct {
	b []byte
	i int
}

func (r *byteSliceReader) ReadByte() (byte, error) {
	if r.i >= len(r.b) {
		return 0, io.ErrUnexpectedEOF
	}
	c := r.b[r.i]
	r.i++
	return c, nil
}

// cryptoReader wraps an io.Reader with a toggleable decrypt stream: nil
// until login's encryption response completes, then set once so every
// subsequent read decrypts in place. Bytes read before the cipher is
// installed (the whole pre-encryption handshake/status/most-of-login
// traffic) pass through untouched.
type cryptoReader struct {
	r      io.Reader
	stream cipher.Stream
}

func (c *cryptoReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 && c.stream != nil {
		c.stream.XORKeyStream(p[:n], p[:n])
	}
	return n, err
}

// cryptoWriter is cryptoReader's write-side counterpart.
type cryptoWriter struct {
	w      io.Writer
	stream cipher.Stream
}

func (c *cryptoWriter) Write(p []byte) (int, error) {
	if c.stream == nil {
		return c.w.Write(p)
	}
	ct := make([]byte, len(p))
	c.stream.XORKeyStream(ct, p)
	return c.w.Write(ct)
}

// cipherPair bundles the independent per-direction CFB8 cipher states the
// wire protocol requires once login completes: one for bytes coming off
// the socket, one for bytes going out, each with its own feedback
// register so encrypt/decrypt order on one side never perturbs the other.
type cipherPair struct {
	Reader cipher.Stream
	Writer cipher.Stream
}

// newCipherPair derives both directions' CFB8 streams from the shared
// secret: key = IV = the 16-byte secret itself, per spec.md §4.7.
func newCipherPair(sharedSecret []byte) (*cipherPair, error) {
	readBlock, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return nil, err
	}
	writeBlock, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return nil, err
	}
	return &cipherPair{
		Reader: newCFB8(readBlock, sharedSecret, true),
		Writer: newCFB8(writeBlock, sharedSecret, false),
	}, nil
}
