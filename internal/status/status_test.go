package status

import (
	"encoding/json"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/ashduino101/swan-dist/internal/text"
)

func TestBuildMinimal(t *testing.T) {
	b := &Builder{VersionName: "1.21", Protocol: 767}
	out, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if _, ok := got["players"]; ok {
		t.Fatal("players should be omitted when not requested")
	}
	if _, ok := got["favicon"]; ok {
		t.Fatal("favicon should be omitted when no image given")
	}
}

func TestBuildWithPlayersAndDescription(t *testing.T) {
	b := (&Builder{VersionName: "1.21", Protocol: 767}).
		WithPlayers(20, 3, []Sample{{Name: "Steve", ID: "00000000-0000-0000-0000-000000000001"}})
	b.Description = text.Plain("Welcome")
	out, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Players struct {
			Max    int      `json:"max"`
			Online int      `json:"online"`
			Sample []Sample `json:"sample"`
		} `json:"players"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got.Players.Max != 20 || got.Players.Online != 3 || len(got.Players.Sample) != 1 {
		t.Fatalf("got %#v", got.Players)
	}
}

func TestBuildWithFaviconProducesDataURI(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 200, A: 255})
		}
	}
	b := &Builder{VersionName: "1.21", Protocol: 767, FaviconPNG: src}
	out, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Favicon string `json:"favicon"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got.Favicon, "data:image/png;base64,") {
		t.Fatalf("got %q", got.Favicon)
	}
}

func TestResizeLanczos3ProducesExactDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 32, 8))
	out := resizeLanczos3(src, 64, 64)
	if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 64 {
		t.Fatalf("got %v", out.Bounds())
	}
}
