// Package oggtest builds minimal Ogg Opus fixtures for tests.
//
// The encoder here is deliberately independent of package ogg so that
// round-trip tests exercise two separate implementations of the page
// format.
package oggtest

import (
	"encoding/binary"
	"os"
	"testing"
)

// WriteFile writes a minimal Opus stream to path: an OpusHead page, a
// single OpusTags page carrying the given comments, and one audio page.
func WriteFile(t testing.TB, path string, comments []string) {
	t.Helper()
	if err := os.WriteFile(path, Stream(t, comments), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

// Stream returns the encoded bytes of a minimal Opus stream.
func Stream(t testing.TB, comments []string) []byte {
	t.Helper()
	const serial = 0x1eaf

	head := make([]byte, 0, 19)
	head = append(head, "OpusHead"...)
	head = append(head, 1, 2) // version, channels
	head = binary.LittleEndian.AppendUint16(head, 312)
	head = binary.LittleEndian.AppendUint32(head, 48000)
	head = append(head, 0, 0, 0) // output gain, mapping family

	tags := make([]byte, 0, 64)
	tags = append(tags, "OpusTags"...)
	tags = binary.LittleEndian.AppendUint32(tags, uint32(len("oggtest")))
	tags = append(tags, "oggtest"...)
	tags = binary.LittleEndian.AppendUint32(tags, uint32(len(comments)))
	for _, c := range comments {
		tags = binary.LittleEndian.AppendUint32(tags, uint32(len(c)))
		tags = append(tags, c...)
	}

	audio := []byte{0xfc, 0xff, 0xfe}

	var stream []byte
	stream = append(stream, encodePage(t, 0x02, 0, serial, 0, head)...)
	stream = append(stream, encodePage(t, 0x00, 0, serial, 1, tags)...)
	stream = append(stream, encodePage(t, 0x04, 960, serial, 2, audio)...)
	return stream
}

func encodePage(t testing.TB, headerType byte, granule uint64, serial, sequence uint32, packet []byte) []byte {
	t.Helper()

	var lacing []byte
	n := len(packet)
	for n >= 255 {
		lacing = append(lacing, 255)
		n -= 255
	}
	lacing = append(lacing, byte(n))
	if len(lacing) > 255 {
		t.Fatalf("fixture packet too large: %d bytes", len(packet))
	}

	page := make([]byte, 0, 27+len(lacing)+len(packet))
	page = append(page, "OggS"...)
	page = append(page, 0, headerType)
	page = binary.LittleEndian.AppendUint64(page, granule)
	page = binary.LittleEndian.AppendUint32(page, serial)
	page = binary.LittleEndian.AppendUint32(page, sequence)
	page = append(page, 0, 0, 0, 0) // checksum placeholder
	page = append(page, byte(len(lacing)))
	page = append(page, lacing...)
	page = append(page, packet...)

	binary.LittleEndian.PutUint32(page[22:26], crc(page))
	return page
}

// crc implements the Ogg page checksum: CRC-32 with polynomial
// 0x04C11DB7, unreflected, zero init, no final xor.
func crc(page []byte) uint32 {
	var c uint32
	for _, b := range page {
		c ^= uint32(b) << 24
		for i := 0; i < 8; i++ {
			if c&0x80000000 != 0 {
				c = (c << 1) ^ 0x04c11db7
			} else {
				c <<= 1
			}
		}
	}
	return c
}
