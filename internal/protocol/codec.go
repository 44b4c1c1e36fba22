package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"
)

// EncodeHeader serializes a header into a fresh HeaderSize buffer.
func EncodeHeader(h *Header) []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = byte(h.Type)
	binary.BigEndian.PutUint32(buf[1:5], h.Length)
	binary.BigEndian.PutUint64(buf[5:13], h.Timestamp)
	// The token may fill the whole field, so it is zero-padded rather
	// than NUL-terminated like payload strings.
	copy(buf[13:13+TokenSize], h.Token)
	return buf
}

// DecodeHeader parses a HeaderSize buffer into a header.
func DecodeHeader(buf []byte) (*Header, error) {
	if len(buf) != HeaderSize {
		return nil, ErrPayloadSize
	}
	h := &Header{
		Type:      MsgType(buf[0]),
		Length:    binary.BigEndian.Uint32(buf[1:5]),
		Timestamp: binary.BigEndian.Uint64(buf[5:13]),
		Token:     getString(buf[13 : 13+TokenSize]),
	}
	return h, nil
}

// ReadMessage reads exactly one header and its declared payload from r.
// A declared length above MaxPayloadSize is a framing violation: the
// caller must drop the connection since the stream cannot be resynced.
func ReadMessage(r io.Reader) (*Header, []byte, error) {
	headerBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return nil, nil, err
	}

	header, err := DecodeHeader(headerBuf)
	if err != nil {
		return nil, nil, err
	}

	if header.Length > MaxPayloadSize {
		return nil, nil, ErrPayloadTooLong
	}

	payload := make([]byte, header.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, nil, err
	}

	return header, payload, nil
}

// WriteMessage frames and writes one message. The timestamp is taken
// from the given time; the token may be empty (server-originated
// messages carry a zeroed token field).
func WriteMessage(w io.Writer, msgType MsgType, token string, payload []byte, now time.Time) error {
	header := &Header{
		Type:      msgType,
		Length:    uint32(len(payload)),
		Timestamp: uint64(now.UnixMilli()),
		Token:     token,
	}

	buf := make([]byte, 0, HeaderSize+len(payload))
	buf = append(buf, EncodeHeader(header)...)
	buf = append(buf, payload...)
	_, err := w.Write(buf)
	return err
}

// putString copies s into a fixed-width field, NUL-padding the rest.
// Strings longer than the field are truncated; the final byte is
// always NUL so the field never overflows on read.
func putString(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	copy(dst[:len(dst)-1], s)
}

// getString reads a NUL-terminated string from a fixed-width field.
func getString(src []byte) string {
	if i := bytes.IndexByte(src, 0); i >= 0 {
		return string(src[:i])
	}
	return string(src)
}
