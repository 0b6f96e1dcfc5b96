// Package text implements the rich chat text-component model: styling,
// named/custom colors, gradients, and the two wire serializations (JSON for
// pre-1.20.3, NBT for 1.20.3+). Grounded on
// _examples/original_source/src/server/text.rs (ChatColor, TextComponent).
//
// No gradient/color-interpolation library appears anywhere in the example
// pack (see DESIGN.md); SetGradient does a component-wise linear
// interpolation over image/color.RGBA by hand, the same role colorgrad
// played in the original.
package text

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/ashduino101/swan-dist/internal/nbt"
)

const formatChar = "§"

// Color is a named preset or a custom #RRGGBB value.
type Color struct {
	name   string // empty when Custom is set
	custom string // 6 hex digits, no '#'
}

var (
	Black       = Color{name: "black"}
	DarkBlue    = Color{name: "dark_blue"}
	DarkGreen   = Color{name: "dark_green"}
	DarkCyan    = Color{name: "dark_aqua"}
	DarkRed     = Color{name: "dark_red"}
	Purple      = Color{name: "dark_purple"}
	Gold        = Color{name: "gold"}
	Gray        = Color{name: "gray"}
	DarkGray    = Color{name: "dark_gray"}
	Blue        = Color{name: "blue"}
	Green       = Color{name: "green"}
	Aqua        = Color{name: "aqua"}
	Red         = Color{name: "red"}
	LightPurple = Color{name: "light_purple"}
	Yellow      = Color{name: "yellow"}
	White       = Color{name: "white"}
)

// Custom builds a #RRGGBB color from 6 hex digits (no leading '#').
func Custom(hex string) Color { return Color{custom: hex} }

// FormatCode returns the legacy "§x" format code, or "#hex" for custom colors.
func (c Color) FormatCode() string {
	if c.custom != "" {
		return "#" + c.custom
	}
	codes := map[string]string{
		"black": "0", "dark_blue": "1", "dark_green": "2", "dark_aqua": "3",
		"dark_red": "4", "dark_purple": "5", "gold": "6", "gray": "7",
		"dark_gray": "8", "blue": "9", "green": "a", "aqua": "b",
		"red": "c", "light_purple": "d", "yellow": "e",
	}
	if code, ok := codes[c.name]; ok {
		return formatChar + code
	}
	return formatChar + "f"
}

// Name returns the snake_case preset name, or "#hex" for custom colors.
func (c Color) Name() string {
	if c.custom != "" {
		return "#" + c.custom
	}
	if c.name == "" {
		return "white"
	}
	return c.name
}

// RGBA returns the color's byte components, matching the vendor's fixed
// 16-color palette values for presets.
func (c Color) RGBA() color.RGBA {
	if c.custom != "" {
		var r, g, b uint8
		fmt.Sscanf(c.custom[0:2], "%02x", &r)
		fmt.Sscanf(c.custom[2:4], "%02x", &g)
		fmt.Sscanf(c.custom[4:6], "%02x", &b)
		return color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	presets := map[string]color.RGBA{
		"black":        {0x00, 0x00, 0x00, 0xff},
		"dark_blue":    {0x00, 0x00, 0xaa, 0xff},
		"dark_green":   {0x00, 0xaa, 0x00, 0xff},
		"dark_aqua":    {0x00, 0xaa, 0xaa, 0xff},
		"dark_red":     {0xaa, 0x00, 0x00, 0xff},
		"dark_purple":  {0xaa, 0x00, 0xaa, 0xff},
		"gold":         {0xff, 0xaa, 0x00, 0xff},
		"gray":         {0xaa, 0xaa, 0xaa, 0xff},
		"dark_gray":    {0x55, 0x55, 0x55, 0xff},
		"blue":         {0x55, 0x55, 0xff, 0xff},
		"green":        {0x55, 0xff, 0x55, 0xff},
		"aqua":         {0x55, 0xff, 0xff, 0xff},
		"red":          {0xff, 0x55, 0x55, 0xff},
		"light_purple": {0xff, 0x55, 0xff, 0xff},
		"yellow":       {0xff, 0xff, 0x55, 0xff},
		"white":        {0xff, 0xff, 0xff, 0xff},
	}
	if rgba, ok := presets[c.name]; ok {
		return rgba
	}
	return presets["white"]
}

// ClickEvent is the clickEvent wire field.
type ClickEvent struct {
	Action string `json:"action"`
	Value  string `json:"value"`
}

// HoverEvent is the hoverEvent wire field; only ShowText is modeled since it
// is the only variant exercised by the connection state machine.
type HoverEvent struct {
	Action   string     `json:"action"`
	Contents *Component `json:"contents"`
}

// Component is the rich chat text node. Field names mirror text.rs's
// TextComponent (only the subset ToNBT actually serializes carries NBT tags;
// everything serializes to JSON).
type Component struct {
	Type          string     `json:"type"`
	Extra         []*Component `json:"extra,omitempty"`
	Text          *string    `json:"text,omitempty"`
	Color         *string    `json:"color,omitempty"`
	Bold          *bool      `json:"bold,omitempty"`
	Italic        *bool      `json:"italic,omitempty"`
	Underlined    *bool      `json:"underlined,omitempty"`
	Strikethrough *bool      `json:"strikethrough,omitempty"`
	Obfuscated    *bool      `json:"obfuscated,omitempty"`
	ClickEvent    *ClickEvent `json:"clickEvent,omitempty"`
	HoverEvent    *HoverEvent `json:"hoverEvent,omitempty"`
}

// New builds an empty text-typed component.
func New() *Component {
	return &Component{Type: "text"}
}

// Plain builds a component whose text is s.
func Plain(s string) *Component {
	c := New()
	c.SetText(s)
	return c
}

// AddComponent appends a sibling.
func (c *Component) AddComponent(child *Component) {
	c.Extra = append(c.Extra, child)
}

// PrependComponent inserts a sibling at the front.
func (c *Component) PrependComponent(child *Component) {
	c.Extra = append([]*Component{child}, c.Extra...)
}

func (c *Component) SetText(s string) { c.Text = &s }

func (c *Component) SetBold(v bool) { c.Bold = &v }

// SetItalic sets the italic field. The Rust original's set_italic wrote to
// self.bold by mistake; that is a plain defect, not a documented behavior,
// so it is not reproduced here (see SPEC_FULL.md open-question resolutions).
func (c *Component) SetItalic(v bool) { c.Italic = &v }

func (c *Component) SetUnderlined(v bool) { c.Underlined = &v }

func (c *Component) SetStrikethrough(v bool) { c.Strikethrough = &v }

func (c *Component) SetObfuscated(v bool) { c.Obfuscated = &v }

// SetColor sets a static named or custom color.
func (c *Component) SetColor(col Color) {
	name := col.Name()
	c.Color = &name
}

// SetGradient replaces the component's text with a per-character sibling
// list, each character colored by linear interpolation through points, and
// clears the parent's own text to "".
func (c *Component) SetGradient(points []Color) {
	if c.Text == nil {
		return
	}
	text := *c.Text
	runes := []rune(text)
	n := len(runes)
	children := make([]*Component, 0, n)
	for i, ch := range runes {
		var t float64
		if n > 1 {
			t = float64(i) / float64(n)
		}
		rgba := lerpGradient(points, t)
		child := New()
		child.SetText(string(ch))
		child.SetColor(Custom(fmt.Sprintf("%02x%02x%02x", rgba.R, rgba.G, rgba.B)))
		children = append(children, child)
	}
	c.Extra = children
	empty := ""
	c.Text = &empty
}

// lerpGradient walks the stop list like a piecewise-linear gradient: t in
// [0,1) maps onto len(points)-1 equal-width segments.
func lerpGradient(points []Color, t float64) color.RGBA {
	if len(points) == 0 {
		return color.RGBA{A: 0xff}
	}
	if len(points) == 1 {
		return points[0].RGBA()
	}
	if t < 0 {
		t = 0
	}
	if t >= 1 {
		t = 0.999999999
	}
	segs := len(points) - 1
	pos := t * float64(segs)
	idx := int(pos)
	if idx >= segs {
		idx = segs - 1
	}
	frac := pos - float64(idx)
	a := points[idx].RGBA()
	b := points[idx+1].RGBA()
	return color.RGBA{
		R: lerp8(a.R, b.R, frac),
		G: lerp8(a.G, b.G, frac),
		B: lerp8(a.B, b.B, frac),
		A: 0xff,
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// SetHoverEvent sets the hoverEvent field (show_text variant only).
func (c *Component) SetHoverEvent(shown *Component) {
	c.HoverEvent = &HoverEvent{Action: "show_text", Contents: shown}
}

// MarshalJSON produces the pre-1.20.3 wire form.
func (c *Component) MarshalJSON() ([]byte, error) {
	type alias Component
	return json.Marshal((*alias)(c))
}

// ToNBT produces the 1.20.3+ wire form: a Compound with only the subset of
// fields the connection state machine ever sets (type, extra, color, text,
// bold, italic, underlined, strikethrough, obfuscated) — matching
// text.rs's to_nbt, which likewise never encodes click/hover/translate et al.
func (c *Component) ToNBT() nbt.Tag {
	m := map[string]nbt.Tag{"type": nbt.Str(c.Type)}
	if len(c.Extra) > 0 {
		list := make([]nbt.Tag, len(c.Extra))
		for i, e := range c.Extra {
			list[i] = e.ToNBT()
		}
		m["extra"] = nbt.ListOf(list)
	}
	if c.Color != nil {
		m["color"] = nbt.Str(*c.Color)
	}
	if c.Text != nil {
		m["text"] = nbt.Str(*c.Text)
	}
	boolTag := func(v bool) nbt.Tag {
		if v {
			return nbt.Byte(1)
		}
		return nbt.Byte(0)
	}
	if c.Bold != nil {
		m["bold"] = boolTag(*c.Bold)
	}
	if c.Italic != nil {
		m["italic"] = boolTag(*c.Italic)
	}
	if c.Underlined != nil {
		m["underlined"] = boolTag(*c.Underlined)
	}
	if c.Strikethrough != nil {
		m["strikethrough"] = boolTag(*c.Strikethrough)
	}
	if c.Obfuscated != nil {
		m["obfuscated"] = boolTag(*c.Obfuscated)
	}
	return nbt.Compound(m)
}
