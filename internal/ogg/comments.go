package ogg

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const tagsMagic = "OpusTags"

// Comments is a parsed OpusTags header: the vendor string plus the
// ordered list of KEY=VALUE user comments. Field names compare
// case-insensitively, per the Vorbis comment specification.
type Comments struct {
	Vendor  string
	Entries []string
}

// Values returns the values of every comment with the given field
// name, in stored order.
func (c *Comments) Values(key string) []string {
	var values []string
	for _, e := range c.Entries {
		if k, v, ok := splitComment(e); ok && strings.EqualFold(k, key) {
			values = append(values, v)
		}
	}
	return values
}

// Add appends a comment, preserving existing entries.
func (c *Comments) Add(key, value string) {
	c.Entries = append(c.Entries, key+"="+value)
}

// Delete removes every comment with the given field name and returns
// how many were removed.
func (c *Comments) Delete(key string) int {
	kept := c.Entries[:0]
	removed := 0
	for _, e := range c.Entries {
		if k, _, ok := splitComment(e); ok && strings.EqualFold(k, key) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	c.Entries = kept
	return removed
}

func splitComment(entry string) (key, value string, ok bool) {
	eq := strings.IndexByte(entry, '=')
	if eq < 0 {
		return "", "", false
	}
	return entry[:eq], entry[eq+1:], true
}

// parseComments decodes an OpusTags packet.
func parseComments(packet []byte) (*Comments, error) {
	if len(packet) < len(tagsMagic)+8 {
		return nil, fmt.Errorf("OpusTags packet too short: %d bytes", len(packet))
	}
	if string(packet[:len(tagsMagic)]) != tagsMagic {
		return nil, fmt.Errorf("invalid OpusTags magic: %q", packet[:len(tagsMagic)])
	}

	off := len(tagsMagic)

	vendorLen := int(binary.LittleEndian.Uint32(packet[off : off+4]))
	off += 4
	if off+vendorLen > len(packet) {
		return nil, fmt.Errorf("truncated vendor string")
	}
	vendor := string(packet[off : off+vendorLen])
	off += vendorLen

	if off+4 > len(packet) {
		return nil, fmt.Errorf("truncated comment count")
	}
	count := int(binary.LittleEndian.Uint32(packet[off : off+4]))
	off += 4

	comments := &Comments{Vendor: vendor}
	for i := 0; i < count; i++ {
		if off+4 > len(packet) {
			return nil, fmt.Errorf("truncated comment %d length", i)
		}
		entryLen := int(binary.LittleEndian.Uint32(packet[off : off+4]))
		off += 4
		if off+entryLen > len(packet) {
			return nil, fmt.Errorf("truncated comment %d data", i)
		}
		comments.Entries = append(comments.Entries, string(packet[off:off+entryLen]))
		off += entryLen
	}

	return comments, nil
}

// marshal encodes the comments back into an OpusTags packet.
func (c *Comments) marshal() []byte {
	size := len(tagsMagic) + 4 + len(c.Vendor) + 4
	for _, e := range c.Entries {
		size += 4 + len(e)
	}

	packet := make([]byte, 0, size)
	packet = append(packet, tagsMagic...)
	packet = binary.LittleEndian.AppendUint32(packet, uint32(len(c.Vendor)))
	packet = append(packet, c.Vendor...)
	packet = binary.LittleEndian.AppendUint32(packet, uint32(len(c.Entries)))
	for _, e := range c.Entries {
		packet = binary.LittleEndian.AppendUint32(packet, uint32(len(e)))
		packet = append(packet, e...)
	}
	return packet
}
