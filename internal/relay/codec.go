package relay

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// MaxFrameSize caps a single framed message. Native messaging hosts reject
// anything larger, and so do we.
const MaxFrameSize = 1 << 20

// ErrFrameTooLarge is returned for frames above MaxFrameSize in either
// direction.
var ErrFrameTooLarge = errors.New("relay: frame exceeds size limit")

// ErrMalformedFrame marks a well-framed message whose body is not valid
// JSON. The stream itself is still in sync after it.
var ErrMalformedFrame = errors.New("relay: malformed frame body")

// Codec reads and writes native-messaging frames: a uint32 little-endian
// byte length followed by a JSON body.
type Codec struct {
	r   *bufio.Reader
	w   io.Writer
	wmu sync.Mutex
}

// NewCodec wraps a reader/writer pair, typically a process's stdio.
func NewCodec(r io.Reader, w io.Writer) *Codec {
	return &Codec{r: bufio.NewReader(r), w: w}
}

// WriteJSON marshals v and writes it as one frame. Safe for concurrent use.
func (c *Codec) WriteJSON(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("relay: encode frame: %w", err)
	}
	if len(body) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(body)))

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.w.Write(hdr[:]); err != nil {
		return fmt.Errorf("relay: write frame header: %w", err)
	}
	if _, err := c.w.Write(body); err != nil {
		return fmt.Errorf("relay: write frame body: %w", err)
	}
	return nil
}

// ReadRaw reads one frame and returns its JSON body. io.EOF is returned
// unwrapped when the peer closed cleanly between frames.
func (c *Codec) ReadRaw() (json.RawMessage, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("relay: read frame header: %w", err)
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if n > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(c.r, body); err != nil {
		return nil, fmt.Errorf("relay: read frame body: %w", err)
	}
	return body, nil
}

// ReadMessage reads one frame and decodes it as a request envelope.
func (c *Codec) ReadMessage() (Message, error) {
	raw, err := c.ReadRaw()
	if err != nil {
		return Message{}, err
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return msg, nil
}
