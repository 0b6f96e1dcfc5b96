// Package status builds the server list status JSON payload (spec.md
// C11): version info, optional player sample, optional rich-text
// description, and an optional base64 PNG favicon resampled to 64x64.
//
// Grounded on the teacher's own `StatusResponse`/`sendFakeStatus` in
// handler.go (the JSON struct shape, omitempty favicon field, and the
// data-URI construction), generalized to the full optional-field set
// spec.md describes. The protocol number is a plain value supplied by the
// caller.
package status

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"

	"github.com/ashduino101/swan-dist/internal/text"
)

// Sample is one entry in the optional players.sample list.
type Sample struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type versionJSON struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type playersJSON struct {
	Max    int      `json:"max"`
	Online int      `json:"online"`
	Sample []Sample `json:"sample,omitempty"`
}

type responseJSON struct {
	Version            versionJSON      `json:"version"`
	Players            *playersJSON     `json:"players,omitempty"`
	Description        *text.Component  `json:"description,omitempty"`
	Favicon            string           `json:"favicon,omitempty"`
	EnforcesSecureChat bool             `json:"enforcesSecureChat"`
	PreviewsChat       bool             `json:"previewsChat"`
}

// Builder accumulates the optional fields of a status response before
// rendering it to the JSON body StatusResponseS2C carries.
type Builder struct {
	VersionName    string
	Protocol       int32
	MaxPlayers     int
	OnlinePlayers  int
	Sample         []Sample
	Description    *text.Component
	FaviconPNG     image.Image
	EnforcesSecureChat bool
	PreviewsChat   bool

	// includePlayers tracks whether any player field was set, since the
	// players object as a whole is optional.
	includePlayers bool
}

// WithPlayers marks the players object for inclusion.
func (b *Builder) WithPlayers(max, online int, sample []Sample) *Builder {
	b.MaxPlayers = max
	b.OnlinePlayers = online
	b.Sample = sample
	b.includePlayers = true
	return b
}

// Build renders the JSON status body.
func (b *Builder) Build() ([]byte, error) {
	resp := responseJSON{
		Version:            versionJSON{Name: b.VersionName, Protocol: b.Protocol},
		Description:        b.Description,
		EnforcesSecureChat: b.EnforcesSecureChat,
		PreviewsChat:       b.PreviewsChat,
	}
	if b.includePlayers {
		resp.Players = &playersJSON{Max: b.MaxPlayers, Online: b.OnlinePlayers, Sample: b.Sample}
	}
	if b.FaviconPNG != nil {
		uri, err := faviconDataURI(b.FaviconPNG)
		if err != nil {
			return nil, err
		}
		resp.Favicon = uri
	}
	return json.Marshal(resp)
}

// faviconDataURI resamples src down (or up) to 64x64 with a Lanczos-3
// kernel and returns it as a "data:image/png;base64,..." URI, the shape
// the vendor client expects for a server list icon.
func faviconDataURI(src image.Image) (string, error) {
	resized := resizeLanczos3(src, 64, 64)
	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
