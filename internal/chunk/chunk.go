package chunk

import (
	"sort"

	"github.com/ashduino101/swan-dist/internal/nbt"
	"github.com/ashduino101/swan-dist/internal/varint"
)

// sectionMin/sectionMax bound the fixed world-height window [-4, 19] used by
// the chunk-data encoder (SPEC_FULL open question (b): treated as fixed by
// the registry, not extrapolated).
const (
	sectionMin = -4
	sectionMax = 19 // inclusive
)

// Chunk maps sub-chunk Y-index to SubChunk. Grounded on chunk.rs's Chunk.
type Chunk struct {
	Subchunks map[int8]SubChunk
}

// EmptyChunk returns a chunk with 28 empty, air-filled sub-chunks spanning
// Y-index -4..23.
func EmptyChunk() Chunk {
	sc := make(map[int8]SubChunk, 28)
	for y := int8(-4); y < 24; y++ {
		sc[y] = EmptySubChunk()
	}
	return Chunk{Subchunks: sc}
}

// NewChunkFromNBT decodes a chunk's "sections" (modern) or "Level.Sections"
// (legacy) list, keyed by each section's Y byte tag.
func NewChunkFromNBT(data nbt.Tag) Chunk {
	var sections []nbt.Tag
	if data.Type == nbt.TagCompound {
		if st, ok := data.Get("sections"); ok && st.Type == nbt.TagList {
			sections = st.List
		} else if level, ok := data.Get("Level"); ok && level.Type == nbt.TagCompound {
			if st, ok := level.Get("Sections"); ok && st.Type == nbt.TagList {
				sections = st.List
			}
		}
	}
	sc := map[int8]SubChunk{}
	for _, section := range sections {
		yTag, ok := section.Get("Y")
		if !ok || yTag.Type != nbt.TagByte {
			continue
		}
		sc[int8(yTag.Byte)] = NewSubChunkFromNBT(section)
	}
	return Chunk{Subchunks: sc}
}

// GetSubchunk returns the sub-chunk at Y-index y, if present.
func (c Chunk) GetSubchunk(y int8) (SubChunk, bool) {
	s, ok := c.Subchunks[y]
	return s, ok
}

// GetBlock looks up the block at (x, y, z) where y is the absolute world
// height (not sub-chunk-local).
func (c Chunk) GetBlock(x uint8, y uint16, z uint8) (Block, bool) {
	sub, ok := c.GetSubchunk(int8(y / 16))
	if !ok {
		return Block{}, false
	}
	return sub.GetBlock(x, uint8(y%16), z)
}

var airBlock = NewBlock("minecraft:air", nil)

// SerializeToChunkPacket appends the wire chunk-data section format (spec.md
// §4.5) to buf using the given block-states table, and returns the updated
// slice. trustEdges selects the pre-1.19.4 "trust edges" byte emitted right
// after the block-entity count.
func (c Chunk) SerializeToChunkPacket(buf []byte, table Table, trustEdges bool) []byte {
	var sectionBuf []byte

	var skylightMask, blocklightMask, skylightEmpty, blocklightEmpty uint64
	skylightData := map[int]([]byte){}
	blocklightData := map[int]([]byte){}

	for cy := sectionMin; cy <= sectionMax; cy++ {
		section, ok := c.GetSubchunk(int8(cy))
		bit := uint64(1) << uint(cy+4)
		if !ok {
			blocklightEmpty |= bit
			skylightEmpty |= bit
			continue
		}

		if section.BlockLight != nil {
			blocklightMask |= bit
			blocklightData[cy+4] = section.BlockLight
		} else {
			blocklightEmpty |= bit
		}
		if section.SkyLight != nil {
			skylightMask |= bit
			skylightData[cy+4] = section.SkyLight
		} else {
			skylightEmpty |= bit
		}

		blocks := make([]uint16, 4096)
		var fullBlockCount uint16
		for y := 0; y < 16; y++ {
			for z := 0; z < 16; z++ {
				for x := 0; x < 16; x++ {
					idx := (y*16+z)*16 + x
					block, ok := section.GetBlock(uint8(x), uint8(y), uint8(z))
					if !ok {
						block = airBlock
					}
					if block.Name != "minecraft:air" {
						fullBlockCount++
						blocks[idx] = uint16(table.ResolveStateID(block.Name, block))
					}
				}
			}
		}

		sectionBuf = appendUint16(sectionBuf, fullBlockCount)
		sectionBuf = appendSectionPalette(sectionBuf, blocks)

		// Biome section: single-value palette, no data (biomes NYI).
		sectionBuf = append(sectionBuf, 0) // bpe=0
		sectionBuf = varint.AppendVarInt(sectionBuf, 39) // plains
		sectionBuf = varint.AppendVarInt(sectionBuf, 0)  // empty array
	}

	buf = varint.AppendVarInt(buf, int32(len(sectionBuf)))
	buf = append(buf, sectionBuf...)

	buf = varint.AppendVarInt(buf, 0) // no block entities

	if trustEdges {
		buf = append(buf, 1)
	}

	buf = varint.AppendVarInt(buf, 1)
	buf = varint.AppendInt64(buf, int64(skylightMask))
	buf = varint.AppendVarInt(buf, 1)
	buf = varint.AppendInt64(buf, int64(blocklightMask))
	buf = varint.AppendVarInt(buf, 1)
	buf = varint.AppendInt64(buf, int64(skylightEmpty))
	buf = varint.AppendVarInt(buf, 1)
	buf = varint.AppendInt64(buf, int64(blocklightEmpty))

	buf = varint.AppendVarInt(buf, int32(len(skylightData)))
	for cy := 0; cy < 24; cy++ {
		if v, ok := skylightData[cy]; ok {
			buf = varint.AppendVarInt(buf, int32(len(v)))
			buf = append(buf, v...)
		}
	}
	buf = varint.AppendVarInt(buf, int32(len(blocklightData)))
	for cy := 0; cy < 24; cy++ {
		if v, ok := blocklightData[cy]; ok {
			buf = varint.AppendVarInt(buf, int32(len(v)))
			buf = append(buf, v...)
		}
	}

	return buf
}

// appendSectionPalette packs 4096 block-state ids into the palette+data wire
// form, using the single-palette shortcut (three zero bytes) when the whole
// section is air.
func appendSectionPalette(buf []byte, blocks []uint16) []byte {
	allAir := true
	for _, b := range blocks {
		if b != 0 {
			allAir = false
			break
		}
	}
	if allAir {
		return append(buf, 0, 0, 0)
	}

	seen := map[uint16]bool{}
	var palette []uint16
	for _, b := range blocks {
		if !seen[b] {
			seen[b] = true
			palette = append(palette, b)
		}
	}
	sort.Slice(palette, func(i, j int) bool { return palette[i] < palette[j] })

	bpe := bitsPerEntry(len(palette))
	if bpe > 15 {
		panic("chunk: palette requires bpe > 15")
	}
	index := make(map[uint16]int, len(palette))
	for i, p := range palette {
		index[p] = i
	}

	perLong := 64 / bpe
	numWords := (4096 + perLong - 1) / perLong
	words := make([]uint64, numWords)
	for i := 0; i < numWords; i++ {
		var w uint64
		for j := 0; j < perLong; j++ {
			pos := i*perLong + j
			if pos >= 4096 {
				break
			}
			w |= uint64(index[blocks[pos]]) << uint(bpe*j)
		}
		words[i] = w
	}

	buf = append(buf, byte(bpe))
	buf = varint.AppendVarInt(buf, int32(len(palette)))
	for _, p := range palette {
		buf = varint.AppendVarInt(buf, int32(p))
	}
	buf = varint.AppendVarInt(buf, int32(len(words)))
	for _, w := range words {
		buf = varint.AppendInt64(buf, int64(w))
	}
	return buf
}

func appendUint16(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}
