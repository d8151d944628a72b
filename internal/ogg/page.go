// Package ogg reads and rewrites the metadata of Ogg Opus streams.
//
// Only the OpusTags comment header is ever modified; the OpusHead page
// and all audio pages are carried through byte-for-byte, with page
// sequence numbers and checksums recomputed when the comment header
// grows or shrinks across page boundaries.
package ogg

import (
	"encoding/binary"
	"fmt"
)

const (
	flagContinued = 0x01
	flagBOS       = 0x02
	flagEOS       = 0x04

	headerSize  = 27
	maxSegments = 255
)

// page is a single Ogg page. raw holds the complete encoded page,
// including the header; the parsed fields mirror it.
type page struct {
	raw        []byte
	headerType byte
	granule    uint64
	serial     uint32
	sequence   uint32
	lacing     []byte
	data       []byte
}

// parsePage decodes the page starting at off. Returns the page and the
// offset of the next page.
func parsePage(b []byte, off int) (*page, int, error) {
	if off+headerSize > len(b) {
		return nil, 0, fmt.Errorf("truncated page header at offset %d", off)
	}
	if string(b[off:off+4]) != "OggS" {
		return nil, 0, fmt.Errorf("invalid Ogg capture pattern at offset %d", off)
	}
	if b[off+4] != 0 {
		return nil, 0, fmt.Errorf("unsupported Ogg version %d at offset %d", b[off+4], off)
	}

	segCount := int(b[off+26])
	if off+headerSize+segCount > len(b) {
		return nil, 0, fmt.Errorf("truncated segment table at offset %d", off)
	}
	lacing := b[off+headerSize : off+headerSize+segCount]

	dataSize := 0
	for _, l := range lacing {
		dataSize += int(l)
	}

	dataOff := off + headerSize + segCount
	if dataOff+dataSize > len(b) {
		return nil, 0, fmt.Errorf("truncated page data at offset %d", off)
	}

	end := dataOff + dataSize
	return &page{
		raw:        b[off:end],
		headerType: b[off+5],
		granule:    binary.LittleEndian.Uint64(b[off+6 : off+14]),
		serial:     binary.LittleEndian.Uint32(b[off+14 : off+18]),
		sequence:   binary.LittleEndian.Uint32(b[off+18 : off+22]),
		lacing:     lacing,
		data:       b[dataOff:end],
	}, end, nil
}

// packetEndsIn reports whether a packet terminates within this page,
// which is the case when any lacing value is below 255.
func (p *page) packetEndsIn() bool {
	for _, l := range p.lacing {
		if l < maxSegments {
			return true
		}
	}
	return false
}

// marshalPages lays a single packet out as one or more Ogg pages,
// starting at the given sequence number. Header pages always carry
// granule position zero.
func marshalPages(packet []byte, serial uint32, sequence uint32) [][]byte {
	lacing := packetLacing(packet)

	var pages [][]byte
	dataOff := 0
	first := true

	for len(lacing) > 0 {
		n := len(lacing)
		if n > maxSegments {
			n = maxSegments
		}
		segs := lacing[:n]
		lacing = lacing[n:]

		size := 0
		for _, l := range segs {
			size += int(l)
		}

		var headerType byte
		if !first {
			headerType = flagContinued
		}

		pages = append(pages, marshalPage(headerType, 0, serial, sequence, segs, packet[dataOff:dataOff+size]))
		dataOff += size
		sequence++
		first = false
	}

	return pages
}

// packetLacing builds the segment table for a packet: runs of 255
// followed by a terminating value below 255. A packet whose length is
// an exact multiple of 255 needs an explicit zero-length terminator.
func packetLacing(packet []byte) []byte {
	n := len(packet)
	lacing := make([]byte, 0, n/maxSegments+1)
	for n >= maxSegments {
		lacing = append(lacing, maxSegments)
		n -= maxSegments
	}
	return append(lacing, byte(n))
}

func marshalPage(headerType byte, granule uint64, serial, sequence uint32, lacing, data []byte) []byte {
	raw := make([]byte, headerSize+len(lacing)+len(data))
	copy(raw, "OggS")
	raw[5] = headerType
	binary.LittleEndian.PutUint64(raw[6:14], granule)
	binary.LittleEndian.PutUint32(raw[14:18], serial)
	binary.LittleEndian.PutUint32(raw[18:22], sequence)
	raw[26] = byte(len(lacing))
	copy(raw[headerSize:], lacing)
	copy(raw[headerSize+len(lacing):], data)

	binary.LittleEndian.PutUint32(raw[22:26], checksum(raw))
	return raw
}

// renumber patches the page's sequence number in place and recomputes
// the checksum.
func (p *page) renumber(sequence uint32) []byte {
	if p.sequence == sequence {
		return p.raw
	}
	raw := make([]byte, len(p.raw))
	copy(raw, p.raw)
	binary.LittleEndian.PutUint32(raw[18:22], sequence)
	binary.LittleEndian.PutUint32(raw[22:26], checksum(raw))
	return raw
}

// Ogg uses CRC-32 with polynomial 0x04C11DB7, no bit reflection, zero
// initial value and no final inversion. The checksum field itself is
// zeroed during computation.
var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var t [256]uint32
	for i := range t {
		r := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if r&0x80000000 != 0 {
				r = (r << 1) ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}
	return t
}

func checksum(raw []byte) uint32 {
	var crc uint32
	for i, b := range raw {
		if i >= 22 && i < 26 {
			b = 0
		}
		crc = (crc << 8) ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}
