// Package proto implements the wire framing the server and client use
// to exchange shell command lines and their results over a socket: a
// small fixed-size header encoded into a pre-sized buffer, followed by
// a variable-length payload.
package proto

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/noxer/bytewriter"
)

// statusOK and statusError are the two values a reply header's status
// byte can carry.
const (
	statusOK    = 0
	statusError = 1
)

// headerSize is the fixed size of a frame header: one status byte
// (unused, always 0, on requests) followed by a 4-byte little-endian
// payload length.
const headerSize = 5

// MaxPayloadSize bounds a single frame's payload, guarding the reader
// against a corrupt or hostile length field driving an unbounded
// allocation.
const MaxPayloadSize = 1 << 20

func encodeHeader(status uint8, payloadLen uint32) []byte {
	header := make([]byte, headerSize)
	writer := bytewriter.New(header)
	binary.Write(writer, binary.LittleEndian, status)
	binary.Write(writer, binary.LittleEndian, payloadLen)
	return header
}

func decodeHeader(header []byte) (status uint8, payloadLen uint32) {
	return header[0], binary.LittleEndian.Uint32(header[1:5])
}

func writeFrame(w io.Writer, status uint8, payload []byte) error {
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("proto: payload of %d bytes exceeds MaxPayloadSize", len(payload))
	}
	if _, err := w.Write(encodeHeader(status, uint32(len(payload)))); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r io.Reader) (status uint8, payload []byte, err error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}
	status, payloadLen := decodeHeader(header)
	if payloadLen > MaxPayloadSize {
		return 0, nil, fmt.Errorf("proto: payload of %d bytes exceeds MaxPayloadSize", payloadLen)
	}
	payload = make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return status, payload, nil
}

// WriteRequest sends one command line as a request frame.
func WriteRequest(w io.Writer, line string) error {
	return writeFrame(w, statusOK, []byte(line))
}

// ReadRequest reads one command line off a request frame.
func ReadRequest(r io.Reader) (string, error) {
	_, payload, err := readFrame(r)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// WriteReply sends a command's result: if cmdErr is nil, the text is
// sent with an OK status; otherwise cmdErr's message is sent with an
// error status and text is ignored.
func WriteReply(w io.Writer, text string, cmdErr error) error {
	if cmdErr != nil {
		return writeFrame(w, statusError, []byte(cmdErr.Error()))
	}
	return writeFrame(w, statusOK, []byte(text))
}

// ReadReply reads one reply frame, returning the text and whether the
// far end reported an error (in which case text holds the error
// message).
func ReadReply(r io.Reader) (text string, isError bool, err error) {
	status, payload, err := readFrame(r)
	if err != nil {
		return "", false, err
	}
	return string(payload), status == statusError, nil
}
