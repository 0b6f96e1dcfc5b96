// Command swan-dist runs the region-selective world-export game server:
// it accepts Minecraft-protocol connections, drives the handshake through
// play, streams placeholder terrain, and authenticates export sessions
// via in-chat one-time codes.
//
// Grounded on the teacher's main.go: flag handling for a version flag,
// server.yaml loading with defaults, and a plain accept loop handing each
// connection to its own goroutine.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/ashduino101/swan-dist/internal/auth"
	"github.com/ashduino101/swan-dist/internal/chunk"
	"github.com/ashduino101/swan-dist/internal/config"
	"github.com/ashduino101/swan-dist/internal/logging"
	"github.com/ashduino101/swan-dist/internal/onetime"
	"github.com/ashduino101/swan-dist/internal/status"
	"github.com/ashduino101/swan-dist/internal/text"
	"github.com/ashduino101/swan-dist/internal/wire"
)

const serverVersion = "0.1.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-v", "--version", "--about":
			fmt.Printf("swan-dist v%s\n", serverVersion)
			return
		}
	}

	log := logging.New(os.Getenv("SWAN_DEBUG") != "")

	cfg, err := config.Load("server.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load server.yaml")
	}

	authenticator, err := auth.New()
	if err != nil {
		log.Fatal().Err(err).Msg("could not generate RSA key pair")
	}

	blockTable, err := loadBlockTable()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load block state table")
	}

	oneTime := onetime.New()

	handler := &wire.Handler{
		Auth:       authenticator,
		OneTime:    oneTime,
		BlockTable: blockTable,
		Logger:     log,
		MOTDName:   cfg.VersionName,
		StatusResponse: func() ([]byte, error) {
			b := &status.Builder{
				VersionName:        cfg.VersionName,
				Protocol:           cfg.ProtocolID,
				Description:        text.Plain(cfg.MOTD),
				EnforcesSecureChat: cfg.EnforcesSecureChat,
				PreviewsChat:       cfg.PreviewsChat,
			}
			b.WithPlayers(cfg.MaxPlayers, 0, nil)
			return b.Build()
		},
	}

	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		log.Fatal().Err(err).Msg("could not bind listener")
	}
	log.Info().Str("address", cfg.ListenAddress).Str("version", cfg.VersionName).Msg("server started")

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Error().Err(err).Msg("accept failed")
			continue
		}
		go handler.Serve(conn)
	}
}

// loadBlockTable reads the static block-states table the chunk encoder
// needs to resolve block names to palette state ids. A future caller can
// point this at a real vanilla block-states dump; absent one, an empty
// table still lets the empty-chunk spiral task function (every block in
// an EmptyChunk palette is air, which needs no table lookup).
func loadBlockTable() (chunk.Table, error) {
	data, err := os.ReadFile("blocks.json")
	if os.IsNotExist(err) {
		return chunk.Table{}, nil
	}
	if err != nil {
		return nil, err
	}
	return chunk.ParseTable(data)
}
