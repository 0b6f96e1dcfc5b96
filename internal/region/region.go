// Package region implements the Anvil (.mca) region file format: an 8 KiB
// header of per-chunk sector offsets/counts and timestamps, followed by
// compressed chunk payloads. Grounded on
// _examples/original_source/src/region.rs (Region, RegionWriter).
package region

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	sectorSize  = 4096
	headerSize  = 8192
	tableLen    = 1024
)

// Compression tags as stored in a chunk payload's 5th byte.
const (
	CompressionGZip    = 1
	CompressionZlib    = 2
	CompressionUncompressed = 3
)

// chunkInfo is a single header table entry.
type chunkInfo struct {
	offset  uint32 // in 4 KiB sectors
	sectors uint8
}

func index(chunkX, chunkZ int32) int {
	return int(((chunkZ & 31) << 5) + (chunkX & 31))
}

// Region is a read-only view over an already-loaded region file.
type Region struct {
	r       io.ReaderAt
	chunks  [tableLen]chunkInfo
	timestamps [tableLen]uint32
}

// Load parses the 8 KiB header from r and returns a Region backed by it for
// random-access chunk reads.
func Load(r io.ReaderAt) (*Region, error) {
	var header [headerSize]byte
	if _, err := r.ReadAt(header[:], 0); err != nil {
		return nil, fmt.Errorf("region: read header: %w", err)
	}
	reg := &Region{r: r}
	for i := 0; i < tableLen; i++ {
		off := i * 4
		offset := uint32(header[off])<<16 | uint32(header[off+1])<<8 | uint32(header[off+2])
		sectors := header[off+3]
		reg.chunks[i] = chunkInfo{offset: offset, sectors: sectors}
	}
	base := tableLen * 4
	for i := 0; i < tableLen; i++ {
		off := base + i*4
		reg.timestamps[i] = binary.BigEndian.Uint32(header[off : off+4])
	}
	return reg, nil
}

// GetTimestamp returns the stored last-modified timestamp for (chunkX, chunkZ).
func (r *Region) GetTimestamp(chunkX, chunkZ int32) (uint32, bool) {
	info := r.chunks[index(chunkX, chunkZ)]
	if info.offset == 0 || info.sectors == 0 {
		return 0, false
	}
	return r.timestamps[index(chunkX, chunkZ)], true
}

// GetChunkRaw returns the chunk payload verbatim: the compression-tag byte
// followed by the compressed body, with no decompression — used so bytes
// can be re-packed unmodified by a RegionWriter.
func (r *Region) GetChunkRaw(chunkX, chunkZ int32) ([]byte, bool) {
	info := r.chunks[index(chunkX, chunkZ)]
	if info.offset == 0 || info.sectors == 0 {
		return nil, false
	}
	var lenBuf [4]byte
	if _, err := r.r.ReadAt(lenBuf[:], int64(info.offset)*sectorSize); err != nil {
		return nil, false
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	raw := make([]byte, length+1)
	if _, err := r.r.ReadAt(raw, int64(info.offset)*sectorSize+4); err != nil {
		return nil, false
	}
	return raw, true
}

// GetChunkData returns the decompressed NBT bytes for (chunkX, chunkZ).
func (r *Region) GetChunkData(chunkX, chunkZ int32) ([]byte, error) {
	raw, ok := r.GetChunkRaw(chunkX, chunkZ)
	if !ok {
		return nil, nil
	}
	tag := raw[0]
	body := raw[1:]
	switch tag {
	case CompressionGZip:
		gr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("region: gzip: %w", err)
		}
		defer gr.Close()
		return io.ReadAll(gr)
	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("region: zlib: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case CompressionUncompressed:
		return body, nil
	default:
		return nil, errors.New("region: invalid compression tag")
	}
}

// Writer accumulates raw chunk payloads into a flat byte area and tracks the
// next free sector index. Grounded on region.rs's RegionWriter.
type Writer struct {
	data          bytes.Buffer
	currentSector int
	chunks        [tableLen]chunkInfo
	timestamps    [tableLen]uint32
}

// NewWriter returns an empty region writer.
func NewWriter() *Writer {
	return &Writer{}
}

// maxSectorsPerChunk is the largest sector count the header's u8 sector-count
// field can represent.
const maxSectorsPerChunk = 255

// SetChunkRaw sets the raw payload of a chunk, where data is the
// compression-tag byte followed by the compressed body (the same form
// GetChunkRaw returns), preserving bytes verbatim. It is a hard error for
// the padded payload to need more than 255 sectors, since the header's
// sector-count field is a single byte.
func (w *Writer) SetChunkRaw(chunkX, chunkZ int32, data []byte) error {
	idx := index(chunkX, chunkZ)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)-1))

	fullLen := len(data) + 4
	numSectors := (fullLen + sectorSize - 1) / sectorSize
	if numSectors > maxSectorsPerChunk {
		return fmt.Errorf("region: chunk payload needs %d sectors, exceeds %d-sector u8 limit", numSectors, maxSectorsPerChunk)
	}
	pad := numSectors*sectorSize - fullLen

	sectorOffset := w.currentSector
	w.data.Write(lenBuf[:])
	w.data.Write(data)
	w.data.Write(make([]byte, pad))

	w.currentSector += numSectors
	w.chunks[idx] = chunkInfo{offset: uint32(sectorOffset + 2), sectors: uint8(numSectors)} // header occupies sectors 0,1
	return nil
}

// SetChunkTimestamp records a chunk's last-modified timestamp.
func (w *Writer) SetChunkTimestamp(chunkX, chunkZ int32, ts uint32) {
	w.timestamps[index(chunkX, chunkZ)] = ts
}

// Serialize emits the full region file: the 4 KiB header tables followed by
// the accumulated payload area.
func (w *Writer) Serialize() []byte {
	var out bytes.Buffer
	for _, c := range w.chunks {
		out.WriteByte(byte(c.offset >> 16))
		out.WriteByte(byte(c.offset >> 8))
		out.WriteByte(byte(c.offset))
		out.WriteByte(c.sectors)
	}
	var tsBuf [4]byte
	for _, ts := range w.timestamps {
		binary.BigEndian.PutUint32(tsBuf[:], ts)
		out.Write(tsBuf[:])
	}
	out.Write(w.data.Bytes())
	return out.Bytes()
}
