// Package snapcodec implements the binary snapshot container shared by the
// file persistence backend and blob archiving. The layout is:
//
//	magic   "TSNP" (4 bytes)
//	version uint8
//	nameLen uint16 big-endian, then name bytes
//	count   uint32 big-endian
//	count × { itemLen uint32 big-endian, item bytes }
//	crc32   uint32 big-endian, IEEE, over all preceding bytes
//
// The container is self-checking: any truncation, overrun, or bit flip fails
// the CRC or the frame walk and surfaces as store.ErrMalformedSnapshot. An
// unsupported container version surfaces as store.ErrSchemaMismatch.
package snapcodec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"tinystore/pkg/store"
)

const (
	magic = "TSNP"

	// Version is the current container version. Bumped on any layout change;
	// cross-version compatibility is explicitly not guaranteed.
	Version = 1

	// 4 magic + 1 version + 2 name length + 4 count + 4 crc.
	minLen = 15
)

// Encode serializes a snapshot into the binary container form.
func Encode(snap store.Snapshot) []byte {
	size := minLen + len(snap.Name)
	for _, item := range snap.Items {
		size += 4 + len(item)
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	buf.WriteString(magic)
	buf.WriteByte(Version)
	writeUint16(buf, uint16(len(snap.Name)))
	buf.WriteString(snap.Name)
	writeUint32(buf, uint32(len(snap.Items)))
	for _, item := range snap.Items {
		writeUint32(buf, uint32(len(item)))
		buf.Write(item)
	}
	writeUint32(buf, crc32.ChecksumIEEE(buf.Bytes()))
	return buf.Bytes()
}

// Decode parses a binary container back into a snapshot. Item payloads are
// copied out of data, so the caller may reuse the input buffer.
func Decode(data []byte) (store.Snapshot, error) {
	if len(data) < minLen {
		return store.Snapshot{}, fmt.Errorf("snapshot container: %d bytes: %w", len(data), store.ErrMalformedSnapshot)
	}
	if string(data[:4]) != magic {
		return store.Snapshot{}, fmt.Errorf("snapshot container: bad magic: %w", store.ErrMalformedSnapshot)
	}
	body, trailer := data[:len(data)-4], data[len(data)-4:]
	if crc32.ChecksumIEEE(body) != binary.BigEndian.Uint32(trailer) {
		return store.Snapshot{}, fmt.Errorf("snapshot container: checksum mismatch: %w", store.ErrMalformedSnapshot)
	}
	if v := data[4]; v != Version {
		return store.Snapshot{}, fmt.Errorf("snapshot container: version %d, supported %d: %w", v, Version, store.ErrSchemaMismatch)
	}
	r := body[5:]
	nameLen := int(binary.BigEndian.Uint16(r))
	r = r[2:]
	if len(r) < nameLen+4 {
		return store.Snapshot{}, fmt.Errorf("snapshot container: name overruns payload: %w", store.ErrMalformedSnapshot)
	}
	snap := store.Snapshot{Name: string(r[:nameLen])}
	r = r[nameLen:]
	count := binary.BigEndian.Uint32(r)
	r = r[4:]
	// Each item needs at least a 4-byte length header, so a count the
	// remaining bytes cannot frame is garbage; reject it before sizing the
	// slice from it.
	if int64(count) > int64(len(r))/4 {
		return store.Snapshot{}, fmt.Errorf("snapshot container: item count %d exceeds payload: %w", count, store.ErrMalformedSnapshot)
	}
	snap.Items = make([][]byte, 0, int(count))
	for i := uint32(0); i < count; i++ {
		if len(r) < 4 {
			return store.Snapshot{}, fmt.Errorf("snapshot container: truncated item header: %w", store.ErrMalformedSnapshot)
		}
		itemLen := int(binary.BigEndian.Uint32(r))
		r = r[4:]
		if len(r) < itemLen {
			return store.Snapshot{}, fmt.Errorf("snapshot container: item %d overruns payload: %w", i, store.ErrMalformedSnapshot)
		}
		snap.Items = append(snap.Items, append([]byte(nil), r[:itemLen]...))
		r = r[itemLen:]
	}
	if len(r) != 0 {
		return store.Snapshot{}, fmt.Errorf("snapshot container: %d trailing bytes: %w", len(r), store.ErrMalformedSnapshot)
	}
	return snap, nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}
