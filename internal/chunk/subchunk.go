package chunk

import (
	"math/bits"

	"github.com/ashduino101/swan-dist/internal/nbt"
)

// SubChunk is a 16x16x16 cube: an ordered block palette, a 4096-entry index
// array addressing it, and optional 2048-byte light arrays. Grounded on
// chunk.rs's SubChunk.
type SubChunk struct {
	Palette    []Block
	Blocks     []uint16 // len 4096, index into Palette
	BlockLight []byte   // optional, 2048 bytes
	SkyLight   []byte   // optional, 2048 bytes
}

// EmptySubChunk returns an all-air sub-chunk with fully-lit light arrays,
// matching SubChunk::empty().
func EmptySubChunk() SubChunk {
	blocks := make([]uint16, 4096)
	light := make([]byte, 2048)
	for i := range light {
		light[i] = 0xff
	}
	skyLight := make([]byte, 2048)
	copy(skyLight, light)
	return SubChunk{
		Palette:    []Block{NewBlock("minecraft:air", nil)},
		Blocks:     blocks,
		BlockLight: light,
		SkyLight:   skyLight,
	}
}

// NewSubChunkFromNBT decodes a section tag, recognizing both the modern
// schema (block_states.palette / block_states.data) and the legacy schema
// (Palette / BlockStates), plus optional BlockLight/SkyLight byte arrays.
func NewSubChunkFromNBT(data nbt.Tag) SubChunk {
	if data.Type != nbt.TagCompound {
		return SubChunk{}
	}

	var paletteTags []nbt.Tag
	var states []int64

	if statesTag, ok := data.Get("block_states"); ok && statesTag.Type == nbt.TagCompound {
		if dataTag, ok := statesTag.Get("data"); ok && dataTag.Type == nbt.TagLongArray {
			states = dataTag.LongArray
		}
		if paletteTag, ok := statesTag.Get("palette"); ok && paletteTag.Type == nbt.TagList {
			paletteTags = paletteTag.List
		}
	} else {
		if statesTag, ok := data.Get("BlockStates"); ok && statesTag.Type == nbt.TagLongArray {
			states = statesTag.LongArray
		}
		if paletteTag, ok := data.Get("Palette"); ok && paletteTag.Type == nbt.TagList {
			paletteTags = paletteTag.List
		}
	}

	var blockLight, skyLight []byte
	if lt, ok := data.Get("BlockLight"); ok && lt.Type == nbt.TagByteArray {
		blockLight = append([]byte(nil), lt.ByteArray...)
	}
	if lt, ok := data.Get("SkyLight"); ok && lt.Type == nbt.TagByteArray {
		skyLight = append([]byte(nil), lt.ByteArray...)
	}

	palette := make([]Block, len(paletteTags))
	for i, pt := range paletteTags {
		palette[i] = blockFromNBT(pt)
	}

	var blocks []uint16
	if states != nil {
		blocks = decodeBlocks(len(palette), states)
	}

	return SubChunk{Palette: palette, Blocks: blocks, BlockLight: blockLight, SkyLight: skyLight}
}

// blockFromNBT builds a Block from its {Name, Properties} compound, coercing
// byte-tag property values the way the chunk-data encoder's matcher expects:
// 0 -> "true", 1 -> "false", anything else -> "???".
func blockFromNBT(t nbt.Tag) Block {
	name := "minecraft:air"
	props := map[string]string{}
	if t.Type != nbt.TagCompound {
		return NewBlock(name, props)
	}
	if nameTag, ok := t.Get("Name"); ok && nameTag.Type == nbt.TagString {
		name = nameTag.String
	}
	if propsTag, ok := t.Get("Properties"); ok && propsTag.Type == nbt.TagCompound {
		for k, v := range propsTag.Compound {
			switch v.Type {
			case nbt.TagString:
				props[k] = v.String
			case nbt.TagByte:
				switch v.Byte {
				case 0:
					props[k] = "true"
				case 1:
					props[k] = "false"
				default:
					props[k] = "???"
				}
			}
		}
	}
	return NewBlock(name, props)
}

// bitsPerEntry computes bpe = max(ceil(log2(n)), 4) for a palette of size n,
// used consistently by both decode and encode (SPEC_FULL open question
// resolution (c)): ceil(log2(n)) is computed as bits.Len(uint(n-1)) so that
// exact powers of two agree between the two call sites.
func bitsPerEntry(n int) int {
	if n <= 1 {
		return 4
	}
	bpe := bits.Len(uint(n - 1))
	if bpe < 4 {
		bpe = 4
	}
	return bpe
}

// decodeBlocks unpacks a packed long-array of palette indices into 4096
// entries: bits = bitsPerEntry(len(palette)), entries_per_long = 64/bits, no
// straddling across 64-bit words.
func decodeBlocks(paletteLen int, states []int64) []uint16 {
	bpe := bitsPerEntry(paletteLen)
	mask := uint64(1)<<uint(bpe) - 1
	perLong := 64 / bpe
	blocks := make([]uint16, 0, len(states)*perLong)
	for _, num := range states {
		v := uint64(num)
		for i := 0; i < perLong; i++ {
			blocks = append(blocks, uint16(v&mask))
			v >>= uint(bpe)
		}
	}
	if len(blocks) > 4096 {
		blocks = blocks[:4096]
	}
	return blocks
}

// GetBlock looks up the block at local coordinates (x,y,z) in [0,16).
func (s SubChunk) GetBlock(x, y, z uint8) (Block, bool) {
	idx := int(x) + int(z)*16 + int(y)*256
	if idx < 0 || idx >= len(s.Blocks) {
		return Block{}, false
	}
	id := s.Blocks[idx]
	if int(id) >= len(s.Palette) {
		return Block{}, false
	}
	return s.Palette[id], true
}
