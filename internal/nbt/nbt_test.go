package nbt

import (
	"reflect"
	"testing"
)

func sampleCompound() Tag {
	return Compound(map[string]Tag{
		"byte":      Byte(0),
		"short":     Short(3453),
		"int":       Int(34543346),
		"long":      Long(43624578963498),
		"float":     Float(0.34545),
		"double":    Double(0.437853467834),
		"bytearray": Bytes([]byte{0, 1, 2, 3}),
		"string":    Str("abcdefg"),
		"list":      ListOf([]Tag{Int(0), Int(6)}),
		"compound": Compound(map[string]Tag{
			"a": Int(0),
			"b": Int(1),
			"c": Int(2),
		}),
		"intarray":  Ints([]int32{1, 2, 3, 4, 5, 6, 7, 8}),
		"longarray": Longs([]int64{3425673454634, 346568485667542, 869273876787, 237846328437}),
	})
}

func TestRoundTripLegacyRoot(t *testing.T) {
	orig := sampleCompound()
	buf := Serialize(nil, orig, false)
	got, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(got, orig) {
		t.Fatalf("round trip mismatch:\n got=%#v\nwant=%#v", got, orig)
	}
}

func TestRoundTripNetworkedRoot(t *testing.T) {
	orig := sampleCompound()
	buf := Serialize(nil, orig, true)
	got, err := ParseNetwork(buf, true)
	if err != nil {
		t.Fatalf("ParseNetwork: %v", err)
	}
	if !reflect.DeepEqual(got, orig) {
		t.Fatalf("round trip mismatch:\n got=%#v\nwant=%#v", got, orig)
	}
}

func TestTraverse(t *testing.T) {
	root := Compound(map[string]Tag{
		"a": Compound(map[string]Tag{
			"b": Compound(map[string]Tag{
				"c": Int(42),
			}),
		}),
	})
	got, ok := root.Traverse("a/b/c")
	if !ok || got.Int != 42 {
		t.Fatalf("Traverse(a/b/c) = %#v, %v", got, ok)
	}
	if _, ok := root.Traverse("a/x/c"); ok {
		t.Fatalf("expected miss for nonexistent path")
	}
}

func TestListHomogeneous(t *testing.T) {
	l := ListOf([]Tag{Str("x"), Str("y"), Str("z")})
	buf := Serialize(nil, l, true)
	got, err := ParseNetwork(buf, true)
	if err != nil {
		t.Fatalf("ParseNetwork: %v", err)
	}
	if len(got.List) != 3 || got.List[1].String != "y" {
		t.Fatalf("got %#v", got)
	}
}

func TestEmptyListDefaultsToEndType(t *testing.T) {
	l := ListOf(nil)
	buf := Serialize(nil, l, true)
	// type byte for the list element must be TagEnd (0) when empty.
	if buf[0] != byte(TagList) {
		t.Fatalf("expected root type List, got %d", buf[0])
	}
	if buf[1] != byte(TagEnd) {
		t.Fatalf("expected empty list element type End, got %d", buf[1])
	}
}
