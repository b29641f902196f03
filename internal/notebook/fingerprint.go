package notebook

import (
	"encoding/binary"
	"encoding/json"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// Fingerprints are the first 8 bytes of a BLAKE2b-256 digest over a
// length-prefixed field encoding. Length prefixes avoid delimiter
// ambiguity: ${len}:${value}${len}:${value}... where an absent value → 0:

type fieldWriter struct {
	buf []byte
}

func (w *fieldWriter) writeField(value []byte) {
	w.buf = strconv.AppendInt(w.buf, int64(len(value)), 10)
	w.buf = append(w.buf, ':')
	w.buf = append(w.buf, value...)
}

func (w *fieldWriter) writeString(value string) {
	w.writeField([]byte(value))
}

func (w *fieldWriter) sum64() uint64 {
	digest := blake2b.Sum256(w.buf)
	return binary.BigEndian.Uint64(digest[:8])
}

// hashCell computes a cell fingerprint. With outputs included this is the
// comparison fingerprint; without, the content fingerprint.
func hashCell(c *Cell, includeOutputs bool) uint64 {
	var w fieldWriter

	w.writeString(c.Language)
	w.writeString(c.Value())
	w.writeField(canonicalJSON(c.Metadata))
	w.writeField(canonicalJSON(c.InternalMetadata))

	if includeOutputs {
		for _, out := range c.outputs {
			w.buf = strconv.AppendUint(w.buf, hashOutput(out), 16)
			w.buf = append(w.buf, ';')
		}
	}

	return w.sum64()
}

// hashOutput hashes one output bundle: each item's MIME type plus a digest
// of its binary payload.
func hashOutput(out Output) uint64 {
	var w fieldWriter
	for _, item := range out.Items {
		w.writeString(item.Mime)
		payload := blake2b.Sum256(item.Data)
		w.writeField(payload[:])
	}
	return w.sum64()
}

// canonicalJSON serializes a metadata blob deterministically. encoding/json
// sorts map keys at every nesting level, which is exactly the stability the
// fingerprint contract needs.
func canonicalJSON(m map[string]interface{}) []byte {
	if len(m) == 0 {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		// Metadata arrives from json.Unmarshal, so it is always marshalable;
		// an empty encoding keeps the fingerprint deterministic regardless.
		return nil
	}
	return data
}
