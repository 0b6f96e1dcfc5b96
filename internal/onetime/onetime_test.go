package onetime

import (
	"regexp"
	"testing"

	"github.com/google/uuid"

	"github.com/ashduino101/swan-dist/internal/profile"
)

var codePattern = regexp.MustCompile(`^[a-z0-9]{16}$`)

func TestCreateCodeShapeAndDistinctness(t *testing.T) {
	m := New()
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		c := m.CreateCode()
		if !codePattern.MatchString(c) {
			t.Fatalf("code %q does not match alphabet/length", c)
		}
		seen[c] = true
	}
	if len(seen) < 9990 {
		t.Fatalf("only %d distinct codes out of 10000", len(seen))
	}
}

func TestUseUnknownCodeIsNoOp(t *testing.T) {
	m := New()
	if got := m.UseCode("nosuchcode0000000", profile.Profile{}); got != OutcomeNotFound {
		t.Fatalf("got %v", got)
	}
}

func TestUseCodeOnceSendsProfileAndMarksUsed(t *testing.T) {
	m := New()
	code := m.CreateCode()
	stream := m.GetStream(code)
	want := profile.Profile{ID: uuid.New(), Name: "Bob"}

	if got := m.UseCode(code, want); got != OutcomeSuccess {
		t.Fatalf("first use: got %v", got)
	}
	if !m.IsCodeUsed(code) {
		t.Fatal("expected code to be marked used")
	}
	select {
	case got := <-stream:
		if got.ID != want.ID || got.Name != want.Name {
			t.Fatalf("got %#v want %#v", got, want)
		}
	default:
		t.Fatal("expected a profile on the stream")
	}

	if got := m.UseCode(code, want); got != OutcomeAlreadyUsed {
		t.Fatalf("second use: got %v", got)
	}
}

func TestGetStreamReplacesSender(t *testing.T) {
	m := New()
	code := m.CreateCode()
	first := m.GetStream(code)
	second := m.GetStream(code)

	want := profile.Profile{ID: uuid.New(), Name: "Alex"}
	m.UseCode(code, want)

	select {
	case <-first:
		t.Fatal("old stream should not receive after GetStream replaced it")
	default:
	}
	select {
	case got := <-second:
		if got.ID != want.ID || got.Name != want.Name {
			t.Fatalf("got %#v want %#v", got, want)
		}
	default:
		t.Fatal("expected a profile on the fresh stream")
	}
}

func TestHasCodeAndUnknown(t *testing.T) {
	m := New()
	code := m.CreateCode()
	if !m.HasCode(code) {
		t.Fatal("expected HasCode true")
	}
	if m.HasCode("zzzzzzzzzzzzzzzz") {
		t.Fatal("expected HasCode false for unregistered code")
	}
}
