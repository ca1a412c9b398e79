package badgerdb

import (
	"encoding/binary"
	"math"
)

// Key layout:
//
//	e/<key>             event envelope
//	i/<id>              ordering key of event id
//	a/<actor>\x00<key>  actor index
//	p/<project>\x00<key> project index
//
// <key> is the 8-byte big-endian ordering key so byte order matches numeric
// order.
const (
	eventPrefix   = "e/"
	idPrefix      = "i/"
	actorPrefix   = "a/"
	projectPrefix = "p/"
)

func encodeKey(key int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(key))
	return buf[:]
}

func decodeKey(b []byte) int64 {
	if len(b) < 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b[len(b)-8:]))
}

func eventKey(key int64) []byte {
	return append([]byte(eventPrefix), encodeKey(key)...)
}

func idKey(id string) []byte {
	return []byte(idPrefix + id)
}

func indexPrefix(prefix, id string) []byte {
	return []byte(prefix + id + "\x00")
}

func indexKey(prefix, id string, key int64) []byte {
	return append(indexPrefix(prefix, id), encodeKey(key)...)
}

// seekKey is where a reverse scan of prefix starts: just at or below
// beforeKey-1, or past every key when beforeKey is zero.
func seekKey(prefix []byte, beforeKey int64) []byte {
	seek := append([]byte{}, prefix...)
	if beforeKey > 0 {
		return append(seek, encodeKey(beforeKey-1)...)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.MaxUint64)
	return append(seek, buf[:]...)
}
