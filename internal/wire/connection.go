package wire

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ashduino101/swan-dist/internal/auth"
	"github.com/ashduino101/swan-dist/internal/chunk"
	"github.com/ashduino101/swan-dist/internal/nbt"
	"github.com/ashduino101/swan-dist/internal/onetime"
	"github.com/ashduino101/swan-dist/internal/profile"
	"github.com/ashduino101/swan-dist/internal/protocol"
	"github.com/ashduino101/swan-dist/internal/text"
	"github.com/ashduino101/swan-dist/internal/varint"
)

// outboundQueueDepth bounds the per-connection send queue; spec.md's
// ordering guarantee only requires FIFO delivery within a connection,
// not an unbounded buffer.
const outboundQueueDepth = 64

// packet is anything the packet catalog can both identify and encode for
// a given negotiated version.
type packet interface {
	ID(protocol.Version) int32
	Encode(protocol.Version) []byte
}

// Handler holds the state shared by every connection this listener
// accepts: the RSA authenticator, the one-time-code manager, status
// builder factory, and the static block table chunk encoding needs.
// Grounded on the teacher's own package-level `cfg`/`validUsers`/
// `authLock` shared state in handler.go, generalized to an explicit,
// injectable struct instead of globals (main.go's replacement wires one
// instance up at startup).
type Handler struct {
	Auth       *auth.Authenticator
	OneTime    *onetime.Manager
	BlockTable chunk.Table
	Logger     zerolog.Logger

	// StatusResponse builds the status JSON body on demand so online
	// counts / descriptions can vary per request.
	StatusResponse func() ([]byte, error)

	MOTDName string // display name supplied by the caller; no connection handler reads it
}

// Serve drives one accepted connection end to end; it never returns until
// the connection is done, matching the teacher's own one-goroutine-per-
// connection model in main.go's accept loop.
func (h *Handler) Serve(conn net.Conn) {
	c := &connection{
		h:        h,
		conn:     conn,
		stage:    protocol.StageHandshake,
		version:  protocol.Unknown,
		outbound: make(chan outboundPacket, outboundQueueDepth),
		done:     make(chan struct{}),
		log:      h.Logger.With().Str("remote", conn.RemoteAddr().String()).Logger(),
	}
	c.cr = &cryptoReader{r: conn}
	c.cw = &cryptoWriter{w: conn}
	c.fr = newFrameReader(c.cr)

	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("connection handler panicked")
		}
		c.closeOnce.Do(func() { close(c.done) })
		conn.Close()
	}()

	go c.outboundLoop()

	for {
		legacyGuard := c.currentStage() == protocol.StageHandshake
		f, err := c.fr.readFrame(legacyGuard)
		if err != nil {
			if err == ErrLegacyPing {
				c.log.Debug().Msg("legacy ping probe, closing")
			}
			return
		}
		if err := c.handleFrame(f); err != nil {
			c.log.Debug().Err(err).Msg("connection ended")
			return
		}
	}
}

// outboundPacket is a pre-encoded frame body waiting to go out; encoding
// happens on the producer side so the single consumer (outboundLoop)
// never needs to know which packet type it is carrying.
type outboundPacket struct {
	id   int32
	body []byte
}

type connection struct {
	h    *Handler
	conn net.Conn
	fr   *frameReader
	cr   *cryptoReader
	cw   *cryptoWriter

	stageMu sync.Mutex
	stage   protocol.Stage

	// fieldMu guards version/username/authNonce/profile, the fields
	// spec.md §5 calls out as observed by background tasks.
	fieldMu   sync.Mutex
	version   protocol.Version
	username  string
	authNonce []byte
	profile   profile.Profile

	outbound  chan outboundPacket
	done      chan struct{}
	closeOnce sync.Once

	log zerolog.Logger
}

func (c *connection) currentStage() protocol.Stage {
	c.stageMu.Lock()
	defer c.stageMu.Unlock()
	return c.stage
}

func (c *connection) setStage(s protocol.Stage) {
	c.stageMu.Lock()
	c.stage = s
	c.stageMu.Unlock()
}

func (c *connection) currentVersion() protocol.Version {
	c.fieldMu.Lock()
	defer c.fieldMu.Unlock()
	return c.version
}

func (c *connection) setVersion(v protocol.Version) {
	c.fieldMu.Lock()
	c.version = v
	c.fieldMu.Unlock()
}

func (c *connection) setUsername(u string) {
	c.fieldMu.Lock()
	c.username = u
	c.fieldMu.Unlock()
}

func (c *connection) currentUsername() string {
	c.fieldMu.Lock()
	defer c.fieldMu.Unlock()
	return c.username
}

// setProfile records the session-verified profile once HasJoined succeeds.
func (c *connection) setProfile(p profile.Profile) {
	c.fieldMu.Lock()
	c.profile = p
	c.fieldMu.Unlock()
}

func (c *connection) currentProfile() profile.Profile {
	c.fieldMu.Lock()
	defer c.fieldMu.Unlock()
	return c.profile
}

// send enqueues pkt's encoding for the outbound task. It never blocks
// across a held lock: callers must not hold stageMu/fieldMu when calling
// this, matching spec.md §5's rule against holding a lock across a
// suspension point on the outbound queue.
func (c *connection) send(pkt packet) error {
	v := c.currentVersion()
	body := pkt.Encode(v)
	select {
	case c.outbound <- outboundPacket{id: pkt.ID(v), body: body}:
		return nil
	case <-c.done:
		return io.ErrClosedPipe
	}
}

// outboundLoop is the queue's single consumer; it is the only goroutine
// that ever writes to the socket, so frame writes from the main handler,
// the keepalive task, and the chunk task never interleave mid-frame.
func (c *connection) outboundLoop() {
	for {
		select {
		case pkt := <-c.outbound:
			if err := writeFrame(c.cw, pkt.id, pkt.body); err != nil {
				c.closeOnce.Do(func() { close(c.done) })
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *connection) handleFrame(f frame) error {
	switch c.currentStage() {
	case protocol.StageHandshake:
		return c.handleHandshake(f)
	case protocol.StageStatus:
		return c.handleStatus(f)
	case protocol.StageLogin:
		return c.handleLogin(f)
	case protocol.StageConfig:
		return c.handleConfig(f)
	case protocol.StagePlay:
		return c.handlePlay(f)
	default:
		// Unknown ids/stages are silently ignored per spec.md §4.7.
		return nil
	}
}

func (c *connection) handleHandshake(f frame) error {
	if f.ID != 0 {
		return nil
	}
	hs, err := protocol.DecodeHandshakeC2S(f.Body)
	if err != nil {
		return err
	}
	c.setVersion(hs.Version)
	c.setStage(hs.NextStage)
	return nil
}

func (c *connection) handleStatus(f frame) error {
	switch f.ID {
	case 0:
		body, err := c.h.StatusResponse()
		if err != nil {
			return err
		}
		return c.send(protocol.StatusResponseS2C{Response: string(body)})
	case 1:
		req, err := protocol.DecodePingRequestC2S(f.Body)
		if err != nil {
			return err
		}
		return c.send(protocol.PingResponseS2C{Payload: req.Payload})
	}
	return nil
}

func (c *connection) handleLogin(f frame) error {
	switch f.ID {
	case 0:
		hello, err := protocol.DecodeLoginHelloC2S(f.Body, c.currentVersion())
		if err != nil {
			return err
		}
		if c.currentVersion() != protocol.V1_21 {
			c.send(protocol.LoginDisconnectS2C{Reason: text.Plain("Outdated client! Please use 1.21.")})
			return fmt.Errorf("wire: rejected version %v", c.currentVersion())
		}
		c.setUsername(hello.Name)

		nonce := make([]byte, 4)
		if _, err := rand.Read(nonce); err != nil {
			return err
		}
		c.fieldMu.Lock()
		c.authNonce = nonce
		c.fieldMu.Unlock()

		return c.send(protocol.LoginHelloS2C{
			ServerID:            "",
			PublicKey:           c.h.Auth.PublicKeyDER(),
			Nonce:               nonce,
			NeedsAuthentication: true,
		})
	case 1:
		key, err := protocol.DecodeLoginKeyC2S(f.Body, c.currentVersion())
		if err != nil {
			return err
		}
		return c.finishEncryptedLogin(key)
	case 3:
		protocol.DecodeEnterConfigurationC2S(f.Body)
		c.setStage(protocol.StageConfig)
	}
	return nil
}

func (c *connection) finishEncryptedLogin(key protocol.LoginKeyC2S) error {
	secret, err := c.h.Auth.DecryptPKCS1v15(key.SharedSecret)
	if err != nil {
		return err
	}

	c.fieldMu.Lock()
	expectedNonce := c.authNonce
	c.fieldMu.Unlock()

	if key.Nonce != nil {
		decryptedNonce, err := c.h.Auth.DecryptPKCS1v15(key.Nonce)
		if err != nil {
			return err
		}
		if string(decryptedNonce) != string(expectedNonce) {
			return fmt.Errorf("wire: nonce mismatch")
		}
	}

	sessionHash := auth.SessionHash(secret, c.h.Auth.PublicKeyDER())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p, err := c.h.Auth.HasJoined(ctx, c.currentUsername(), sessionHash)
	if err != nil {
		c.send(protocol.LoginDisconnectS2C{Reason: text.Plain("Failed to verify session.")})
		return err
	}
	c.setProfile(p)

	pair, err := newCipherPair(secret)
	if err != nil {
		return err
	}
	c.cr.stream = pair.Reader
	c.cw.stream = pair.Writer

	if err := c.send(protocol.LoginSuccessS2C{Profile: p, StrictErrorHandling: true}); err != nil {
		return err
	}

	v := c.currentVersion()
	if v < protocol.V1_20_2 {
		c.setStage(protocol.StagePlay)
		return c.enterPlay()
	}
	// 1.20.2+: stay in Login, waiting for an explicit EnterConfiguration.
	return nil
}

func (c *connection) handleConfig(f frame) error {
	switch f.ID {
	case 0: // ClientInfo
		if _, err := protocol.DecodeClientInfoC2S(f.Body); err != nil {
			return err
		}
		brandPayload := varint.AppendString(nil, "WorldFreezer")
		if err := c.send(protocol.CustomPayloadS2C{Key: "minecraft:brand", Payload: brandPayload}); err != nil {
			return err
		}
		if err := c.send(protocol.FeaturesS2C{Features: []string{"minecraft:vanilla"}}); err != nil {
			return err
		}
		packs := []protocol.VersionedIdentifier{{Namespace: "minecraft", ID: "core", Version: "1.21"}}
		return c.send(protocol.SelectKnownPacksS2C{KnownPacks: packs})
	case 7: // SelectKnownPacks (client reply)
		if _, err := protocol.DecodeSelectKnownPacksC2S(f.Body); err != nil {
			return err
		}
		for _, reg := range knownRegistries {
			if err := c.send(protocol.DynamicRegistriesS2C{
				RegistryID: reg,
				Entries:    dynamicRegistryEntriesFor(reg),
			}); err != nil {
				return err
			}
		}
		return c.send(protocol.ReadyS2C{})
	case 3: // Ready (client ack)
		protocol.DecodeReadyC2S(f.Body)
		c.setStage(protocol.StagePlay)
		return c.enterPlay()
	}
	return nil
}

// enterPlay sends the Play-stage greeting sequence and spawns the
// keepalive and chunk-shipping background tasks, per spec.md §4.7's
// Config-handler description of the Ready transition.
func (c *connection) enterPlay() error {
	v := c.currentVersion()

	join := protocol.JoinGameS2C{
		EntityID:           1,
		Gamemode:           0,
		PreviousGamemode:   -1,
		Dimensions:         []string{"minecraft:overworld"},
		MaxPlayers:         20,
		ViewDistance:       10,
		SimulationDistance: 10,
		DimensionType:      0,
		DimensionName:      "minecraft:overworld",
		EnforcesSecureChat: true,
	}
	if err := c.send(join); err != nil {
		return err
	}
	if v >= protocol.V1_20_4 {
		if err := c.send(protocol.GameEventS2C{Event: protocol.EventInitialChunksComing}); err != nil {
			return err
		}
	}
	if err := c.send(protocol.SyncPlayerPositionS2C{Y: 128, TeleportID: 1}); err != nil {
		return err
	}

	go c.keepaliveTask()
	go c.chunkTask()

	title := text.Plain("")
	title.AddComponent(welcomeTitleComponent())
	if err := c.send(protocol.GameMessageS2C{Text: title}); err != nil {
		return err
	}
	return c.send(protocol.GameMessageS2C{Text: text.Plain("Type your one-time code in chat to authorize this session.")})
}

func welcomeTitleComponent() *text.Component {
	comp := text.Plain("Welcome to WorldFreezer")
	comp.SetGradient([]text.Color{text.Aqua, text.LightPurple})
	comp.SetBold(true)
	return comp
}

// keepaliveTask fires a KeepAlive with a fresh random 64-bit payload
// once a second until a send fails, matching spec.md §4.7/§5.
func (c *connection) keepaliveTask() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			var payload uint64
			var buf [8]byte
			if _, err := rand.Read(buf[:]); err == nil {
				payload = binary.BigEndian.Uint64(buf[:])
			}
			if err := c.send(protocol.KeepAliveS2C{Payload: payload}); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// chunkTask emits a 3-chunk-radius ring of empty chunks in an outward
// clockwise spiral starting from the origin, per spec.md §4.7.
func (c *connection) chunkTask() {
	empty := chunk.EmptyChunk()
	heightmaps := nbt.Compound(nil)
	for _, coord := range spiralRing(3) {
		pkt := protocol.ChunkDataS2C{
			X:          coord[0],
			Z:          coord[1],
			Heightmaps: heightmaps,
			Chunk:      empty,
			Table:      c.h.BlockTable,
		}
		if err := c.send(pkt); err != nil {
			return
		}
	}
}

// spiralRing returns every (x,z) chunk coordinate within radius
// (inclusive) of the origin, ordered as an outward clockwise spiral
// starting at the origin itself.
func spiralRing(radius int) [][2]int32 {
	coords := make([][2]int32, 0, (2*radius+1)*(2*radius+1))
	x, z := 0, 0
	coords = append(coords, [2]int32{0, 0})
	// Directions cycle clockwise starting "east, south, west, north".
	dirs := [4][2]int32{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	dirIdx := 0
	stepsInLeg := 1
	legsDone := 0
	for int32(abs(x)) <= int32(radius) && len(coords) < (2*radius+1)*(2*radius+1) {
		for s := 0; s < stepsInLeg; s++ {
			x += int(dirs[dirIdx][0])
			z += int(dirs[dirIdx][1])
			if abs(x) > radius || abs(z) > radius {
				continue
			}
			coords = append(coords, [2]int32{int32(x), int32(z)})
		}
		dirIdx = (dirIdx + 1) % 4
		legsDone++
		if legsDone%2 == 0 {
			stepsInLeg++
		}
		if stepsInLeg > radius*4 {
			break
		}
	}
	return coords
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (c *connection) handlePlay(f frame) error {
	if f.ID != 6 { // Chat
		return nil
	}
	msg, err := protocol.DecodeChatC2S(f.Body)
	if err != nil {
		return err
	}
	return c.handleChatAuth(msg.Message)
}

// handleChatAuth implements the one-time-code redemption outcomes from
// spec.md §4.9.
func (c *connection) handleChatAuth(code string) error {
	switch c.h.OneTime.UseCode(code, c.currentProfile()) {
	case onetime.OutcomeNotFound:
		msg := text.Plain("This code does not exist! Did you enter it correctly?")
		msg.SetColor(text.Red)
		msg.SetBold(true)
		return c.send(protocol.GameMessageS2C{Text: msg})
	case onetime.OutcomeAlreadyUsed:
		msg := text.Plain("This code has already been used.")
		msg.SetColor(text.Red)
		msg.SetBold(true)
		return c.send(protocol.GameMessageS2C{Text: msg})
	case onetime.OutcomeSuccess:
		msg := text.Plain("Authorization successful!")
		msg.SetColor(text.Green)
		if err := c.send(protocol.PlayDisconnectS2C{Reason: msg}); err != nil {
			return err
		}
		return io.EOF // disconnect after a successful redemption
	}
	return nil
}
