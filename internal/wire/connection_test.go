package wire

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ashduino101/swan-dist/internal/onetime"
	"github.com/ashduino101/swan-dist/internal/profile"
	"github.com/ashduino101/swan-dist/internal/varint"
)

func TestSpiralRingCoversFullSquareNoDuplicates(t *testing.T) {
	coords := spiralRing(2)
	seen := make(map[[2]int32]bool)
	for _, c := range coords {
		if seen[c] {
			t.Fatalf("duplicate coordinate %v", c)
		}
		seen[c] = true
		if abs(int(c[0])) > 2 || abs(int(c[1])) > 2 {
			t.Fatalf("coordinate %v outside radius", c)
		}
	}
	want := 5 * 5
	if len(coords) != want {
		t.Fatalf("got %d coords, want %d", len(coords), want)
	}
	if coords[0] != [2]int32{0, 0} {
		t.Fatalf("expected spiral to start at origin, got %v", coords[0])
	}
}

func TestHandleChatAuthUsesVerifiedProfile(t *testing.T) {
	mgr := onetime.New()
	code := mgr.CreateCode()
	stream := mgr.GetStream(code)

	verified := profile.Profile{ID: uuid.New(), Name: "Notch"}

	c := &connection{
		h:        &Handler{OneTime: mgr, Logger: zerolog.Nop()},
		outbound: make(chan outboundPacket, outboundQueueDepth),
		done:     make(chan struct{}),
		log:      zerolog.Nop(),
	}
	c.setProfile(verified)

	if err := c.handleChatAuth(code); err != nil && err != io.EOF {
		t.Fatalf("handleChatAuth: %v", err)
	}

	got := <-stream
	if got.ID != verified.ID || got.Name != verified.Name {
		t.Fatalf("expected verified profile %+v delivered on stream, got %+v", verified, got)
	}
}

func TestHandshakeThenStatusRoundTrip(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	h := &Handler{
		Logger: zerolog.Nop(),
		StatusResponse: func() ([]byte, error) {
			return []byte(`{"version":{"name":"1.21","protocol":767}}`), nil
		},
	}

	go h.Serve(serverConn)

	hsBody := varint.AppendVarInt(nil, 767) // 1.21's wire protocol number
	hsBody = varint.AppendString(hsBody, "localhost")
	hsBody = varint.AppendUint16(hsBody, 25565)
	hsBody = varint.AppendVarInt(hsBody, 1) // next state: status

	if err := writeFrame(clientConn, 0, hsBody); err != nil {
		t.Fatal(err)
	}
	if err := writeFrame(clientConn, 0, nil); err != nil { // status request
		t.Fatal(err)
	}

	clientConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	fr := newFrameReader(clientConn)
	f, err := fr.readFrame(false)
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != 0 {
		t.Fatalf("expected status response id 0, got %d", f.ID)
	}
}
