package relay

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	c := NewCodec(&buf, &buf)

	in := Message{ID: "abc", Type: TypeExtensionLog, Data: json.RawMessage(`{"level":"info","message":"hi"}`)}
	if err := c.WriteJSON(in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	out, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if out.ID != in.ID || out.Type != in.Type || string(out.Data) != string(in.Data) {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestCodecHeaderIsLittleEndian(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	c := NewCodec(&buf, &buf)
	if err := c.WriteJSON(Message{Type: TypePing}); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	if len(raw) < 4 {
		t.Fatalf("frame too short: %d bytes", len(raw))
	}
	n := binary.LittleEndian.Uint32(raw[:4])
	if int(n) != len(raw)-4 {
		t.Fatalf("header length %d, body length %d", n, len(raw)-4)
	}
}

func TestCodecRejectsOversizedWrite(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	c := NewCodec(&buf, &buf)
	big := make([]byte, MaxFrameSize+1)
	for i := range big {
		big[i] = 'a'
	}
	err := c.WriteJSON(map[string]string{"data": string(big)})
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestCodecRejectsOversizedRead(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], MaxFrameSize+1)
	buf.Write(hdr[:])

	c := NewCodec(&buf, io.Discard)
	if _, err := c.ReadRaw(); !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestCodecCleanEOF(t *testing.T) {
	t.Parallel()
	c := NewCodec(bytes.NewReader(nil), io.Discard)
	if _, err := c.ReadRaw(); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}
