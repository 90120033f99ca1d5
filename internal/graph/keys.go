package graph

import (
	"encoding/binary"
	"unicode/utf8"
)

// Key component sizes.
const (
	idLen             = 16
	timestampLen      = 8
	maxShortStringLen = 255
)

// This file implements the four key-component kinds — ID,
// ShortSizedString, UnsizedString, Timestamp — as pure append/read
// functions over a byte slice, one component at a time rather than as
// a generic tagged-union encoder: Go's lack of enum variants makes a
// builder of typed append calls the more idiomatic shape.

// appendID appends a 16-byte ID verbatim.
func appendID(buf []byte, id ID) []byte {
	return append(buf, id[:]...)
}

// appendShortString appends a 1-byte length prefix followed by s's
// UTF-8 bytes. The caller is responsible for ensuring 1 <= len(s) <=
// 255 (Type.Validate does this for edge/vertex types); this function
// only guards against building a corrupt key.
func appendShortString(buf []byte, s string) []byte {
	n := len(s)
	if n > maxShortStringLen {
		n = maxShortStringLen // defensive only; callers must validate first
	}
	buf = append(buf, byte(n))
	return append(buf, s[:n]...)
}

// appendUnsizedString appends s's raw UTF-8 bytes with no length
// prefix. Only valid as the final component of a key, since decoding it
// consumes the remainder of the buffer.
func appendUnsizedString(buf []byte, s string) []byte {
	return append(buf, s...)
}

// appendTimestamp appends an 8-byte big-endian signed count of seconds
// since the epoch.
func appendTimestamp(buf []byte, ts int64) []byte {
	var tmp [timestampLen]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(ts))
	return append(buf, tmp[:]...)
}

// keyReader decodes a key positionally: the caller knows the expected
// schema for the column family it's reading from and calls the read*
// methods in that order.
type keyReader struct {
	buf []byte
	pos int
}

func newKeyReader(buf []byte) *keyReader {
	return &keyReader{buf: buf}
}

func (r *keyReader) readID() (ID, error) {
	var id ID
	if r.pos+idLen > len(r.buf) {
		return id, unexpected("truncated key: expected id")
	}
	copy(id[:], r.buf[r.pos:r.pos+idLen])
	r.pos += idLen
	return id, nil
}

func (r *keyReader) readShortString() (string, error) {
	if r.pos+1 > len(r.buf) {
		return "", unexpected("truncated key: expected short-string length prefix")
	}
	n := int(r.buf[r.pos])
	r.pos++
	if r.pos+n > len(r.buf) {
		return "", unexpected("truncated key: expected short-string body")
	}
	s := r.buf[r.pos : r.pos+n]
	r.pos += n
	if !utf8.Valid(s) {
		return "", unexpected("invalid utf-8 in short string key component")
	}
	return string(s), nil
}

func (r *keyReader) readTimestamp() (int64, error) {
	if r.pos+timestampLen > len(r.buf) {
		return 0, unexpected("truncated key: expected timestamp")
	}
	ts := int64(binary.BigEndian.Uint64(r.buf[r.pos : r.pos+timestampLen]))
	r.pos += timestampLen
	return ts, nil
}

// readUnsizedString consumes the remainder of the buffer. Must only be
// called as the last read of a key.
func (r *keyReader) readUnsizedString() (string, error) {
	s := r.buf[r.pos:]
	r.pos = len(r.buf)
	if !utf8.Valid(s) {
		return "", unexpected("invalid utf-8 in unsized string key component")
	}
	return string(s), nil
}

// ---------------------------------------------------------------------
// Column-family key builders.
// ---------------------------------------------------------------------

// accountKey: ID.
func accountKey(id ID) []byte {
	return appendID(nil, id)
}

// vertexKey: ID.
func vertexKey(id ID) []byte {
	return appendID(nil, id)
}

// edgeKey: (outboundID, type[short], inboundID).
func edgeKey(outboundID ID, t Type, inboundID ID) []byte {
	buf := make([]byte, 0, idLen+1+len(t)+idLen)
	buf = appendID(buf, outboundID)
	buf = appendShortString(buf, string(t))
	buf = appendID(buf, inboundID)
	return buf
}

func decodeEdgeKey(key []byte) (outboundID ID, t Type, inboundID ID, err error) {
	r := newKeyReader(key)
	if outboundID, err = r.readID(); err != nil {
		return
	}
	var ts string
	if ts, err = r.readShortString(); err != nil {
		return
	}
	t = Type(ts)
	inboundID, err = r.readID()
	return
}

// edgeRangeKey: (firstID, type[short], timestamp, peerID). Used for
// both edge_ranges (firstID=outbound, peerID=inbound) and
// reversed_edge_ranges (firstID=inbound, peerID=outbound) — the two
// families share a schema and differ only in which vertex plays
// "firstID".
func edgeRangeKey(firstID ID, t Type, ts int64, peerID ID) []byte {
	buf := make([]byte, 0, idLen+1+len(t)+timestampLen+idLen)
	buf = appendID(buf, firstID)
	buf = appendShortString(buf, string(t))
	buf = appendTimestamp(buf, ts)
	buf = appendID(buf, peerID)
	return buf
}

// edgeRangeTypePrefix: (firstID, type[short]) — the prefix selecting an
// edge-type adjacency slice.
func edgeRangeTypePrefix(firstID ID, t Type) []byte {
	buf := make([]byte, 0, idLen+1+len(t))
	buf = appendID(buf, firstID)
	buf = appendShortString(buf, string(t))
	return buf
}

// edgeRangeSeekKey builds the key to seek to (in a reverse iterator) to
// start scanning at or before the given (firstID, type, timestamp)
// triple: it appends the all-0xFF peerID sentinel so the seek lands at
// or after every real entry with that timestamp.
func edgeRangeSeekKey(firstID ID, t Type, ts int64) []byte {
	return edgeRangeKey(firstID, t, ts, maxID())
}

func decodeEdgeRangeKey(key []byte) (firstID ID, t Type, ts int64, peerID ID, err error) {
	r := newKeyReader(key)
	if firstID, err = r.readID(); err != nil {
		return
	}
	var ts_ string
	if ts_, err = r.readShortString(); err != nil {
		return
	}
	t = Type(ts_)
	if ts, err = r.readTimestamp(); err != nil {
		return
	}
	peerID, err = r.readID()
	return
}

// globalMetadataKey: key[unsized].
func globalMetadataKey(key string) []byte {
	return appendUnsizedString(nil, key)
}

// accountMetadataKey: (accountID, key[unsized]).
func accountMetadataKey(accountID ID, key string) []byte {
	buf := make([]byte, 0, idLen+len(key))
	buf = appendID(buf, accountID)
	buf = appendUnsizedString(buf, key)
	return buf
}

func accountMetadataPrefix(accountID ID) []byte {
	return appendID(nil, accountID)
}

// vertexMetadataKey: (vertexID, key[unsized]).
func vertexMetadataKey(vertexID ID, key string) []byte {
	buf := make([]byte, 0, idLen+len(key))
	buf = appendID(buf, vertexID)
	buf = appendUnsizedString(buf, key)
	return buf
}

func vertexMetadataPrefix(vertexID ID) []byte {
	return appendID(nil, vertexID)
}

// edgeMetadataKey: (outboundID, type[short], inboundID, key[unsized]).
func edgeMetadataKey(outboundID ID, t Type, inboundID ID, key string) []byte {
	buf := make([]byte, 0, idLen+1+len(t)+idLen+len(key))
	buf = appendID(buf, outboundID)
	buf = appendShortString(buf, string(t))
	buf = appendID(buf, inboundID)
	buf = appendUnsizedString(buf, key)
	return buf
}

// edgeMetadataPrefix: (outboundID, type[short], inboundID) — the
// prefix enumerating all metadata for one edge, used by cascading
// deletes.
func edgeMetadataPrefix(outboundID ID, t Type, inboundID ID) []byte {
	buf := make([]byte, 0, idLen+1+len(t)+idLen)
	buf = appendID(buf, outboundID)
	buf = appendShortString(buf, string(t))
	buf = appendID(buf, inboundID)
	return buf
}
