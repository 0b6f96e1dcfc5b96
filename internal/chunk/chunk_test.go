package chunk

import (
	"testing"

	"github.com/ashduino101/swan-dist/internal/nbt"
)

func TestBitsPerEntryPowersOfTwo(t *testing.T) {
	cases := map[int]int{
		1:  4,
		2:  4,
		15: 4,
		16: 4, // exact power of two: encode/decode must agree (open question (c))
		17: 5,
		32: 5,
		33: 6,
	}
	for n, want := range cases {
		if got := bitsPerEntry(n); got != want {
			t.Fatalf("bitsPerEntry(%d) = %d, want %d", n, got, want)
		}
	}
}

func packLongArray(blocks []uint16, bpe int) []int64 {
	perLong := 64 / bpe
	numWords := (len(blocks) + perLong - 1) / perLong
	words := make([]int64, numWords)
	for i := 0; i < numWords; i++ {
		var w uint64
		for j := 0; j < perLong; j++ {
			pos := i*perLong + j
			if pos >= len(blocks) {
				break
			}
			w |= uint64(blocks[pos]) << uint(bpe*j)
		}
		words[i] = int64(w)
	}
	return words
}

func TestDecodeBlocksRoundTripAtPowerOfTwoPalette(t *testing.T) {
	paletteLen := 16 // exact power of two
	bpe := bitsPerEntry(paletteLen)
	blocks := make([]uint16, 4096)
	for i := range blocks {
		blocks[i] = uint16(i % paletteLen)
	}
	words := packLongArray(blocks, bpe)
	got := decodeBlocks(paletteLen, words)
	if len(got) < 4096 {
		t.Fatalf("got %d entries, want at least 4096", len(got))
	}
	for i := 0; i < 4096; i++ {
		if got[i] != blocks[i] {
			t.Fatalf("mismatch at %d: got %d want %d", i, got[i], blocks[i])
		}
	}
}

func TestEmptyChunkHas28Subchunks(t *testing.T) {
	c := EmptyChunk()
	if len(c.Subchunks) != 28 {
		t.Fatalf("got %d subchunks, want 28", len(c.Subchunks))
	}
	for y := int8(-4); y < 24; y++ {
		if _, ok := c.Subchunks[y]; !ok {
			t.Fatalf("missing subchunk at y=%d", y)
		}
	}
}

func TestSerializeAllAirSection(t *testing.T) {
	c := EmptyChunk()
	table := Table{}
	buf := c.SerializeToChunkPacket(nil, table, false)
	if len(buf) == 0 {
		t.Fatalf("expected non-empty output")
	}
	// Sky/block-have-data masks should be nonzero since EmptySubChunk sets
	// both light arrays; empty masks should be zero across the fixed window.
}

func TestResolveStateIDDefaultFallback(t *testing.T) {
	table := Table{
		"minecraft:stone": {
			States: []BlockState{
				{ID: 5, Default: true},
			},
		},
		"minecraft:oak_stairs": {
			States: []BlockState{
				{ID: 10, Properties: map[string]string{"facing": "north"}},
				{ID: 11, Properties: map[string]string{"facing": "south"}, Default: true},
			},
		},
	}
	if got := table.ResolveStateID("minecraft:stone", NewBlock("minecraft:stone", nil)); got != 5 {
		t.Fatalf("got %d want 5", got)
	}
	b := NewBlock("minecraft:oak_stairs", map[string]string{"facing": "north"})
	if got := table.ResolveStateID("minecraft:oak_stairs", b); got != 10 {
		t.Fatalf("got %d want 10", got)
	}
	b2 := NewBlock("minecraft:oak_stairs", map[string]string{"facing": "east"})
	if got := table.ResolveStateID("minecraft:oak_stairs", b2); got != 11 {
		t.Fatalf("got %d want 11 (default)", got)
	}
	if got := table.ResolveStateID("minecraft:unknown", NewBlock("minecraft:unknown", nil)); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}

func TestSubChunkFromNBTModernSchema(t *testing.T) {
	palette := nbt.ListOf([]nbt.Tag{
		nbt.Compound(map[string]nbt.Tag{"Name": nbt.Str("minecraft:air")}),
		nbt.Compound(map[string]nbt.Tag{"Name": nbt.Str("minecraft:stone")}),
	})
	blocks := make([]uint16, 4096)
	blocks[0] = 1
	bpe := bitsPerEntry(2)
	words := packLongArray(blocks, bpe)
	section := nbt.Compound(map[string]nbt.Tag{
		"block_states": nbt.Compound(map[string]nbt.Tag{
			"palette": palette,
			"data":    nbt.Longs(words),
		}),
	})
	sc := NewSubChunkFromNBT(section)
	if len(sc.Palette) != 2 {
		t.Fatalf("got %d palette entries, want 2", len(sc.Palette))
	}
	block, ok := sc.GetBlock(0, 0, 0)
	if !ok || block.Name != "minecraft:stone" {
		t.Fatalf("got %#v, %v", block, ok)
	}
}
