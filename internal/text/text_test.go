package text

import (
	"encoding/json"
	"testing"
)

func TestPlainJSON(t *testing.T) {
	c := Plain("hello")
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out["text"] != "hello" {
		t.Fatalf("got %v", out)
	}
	if _, ok := out["bold"]; ok {
		t.Fatalf("unset bold should be omitted, got %v", out)
	}
}

func TestSetColorName(t *testing.T) {
	c := Plain("x")
	c.SetColor(Red)
	if c.Color == nil || *c.Color != "red" {
		t.Fatalf("got %v", c.Color)
	}
}

func TestSetGradientProducesPerCharacterSiblings(t *testing.T) {
	c := Plain("abc")
	c.SetGradient([]Color{Aqua, LightPurple})
	if c.Text == nil || *c.Text != "" {
		t.Fatalf("parent text should be cleared, got %v", c.Text)
	}
	if len(c.Extra) != 3 {
		t.Fatalf("expected 3 sibling components, got %d", len(c.Extra))
	}
	for _, child := range c.Extra {
		if child.Color == nil {
			t.Fatalf("expected child color to be set")
		}
	}
	// First character should be close to the first stop, last close to the last.
	first := c.Extra[0].Color
	last := c.Extra[2].Color
	if *first == *last {
		t.Fatalf("expected gradient endpoints to differ: %s vs %s", *first, *last)
	}
}

func TestToNBTOnlyKnownFields(t *testing.T) {
	c := Plain("hi")
	c.SetBold(true)
	tag := c.ToNBT()
	if _, ok := tag.Get("text"); !ok {
		t.Fatalf("expected text key")
	}
	if _, ok := tag.Get("bold"); !ok {
		t.Fatalf("expected bold key")
	}
	if _, ok := tag.Get("clickEvent"); ok {
		t.Fatalf("clickEvent must never be emitted by ToNBT")
	}
}
