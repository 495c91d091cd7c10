package codec

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestBinaryRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 12, 16, 255, 4096} {
		data := make([]byte, n)
		if _, err := rand.Read(data); err != nil {
			t.Fatalf("rand: %v", err)
		}

		decoded, err := DecodeBinary(EncodeBinary(data))
		if err != nil {
			t.Fatalf("DecodeBinary(%d bytes) failed: %v", n, err)
		}
		if !bytes.Equal(decoded, data) {
			t.Errorf("round trip mismatch for %d bytes", n)
		}
	}
}

func TestDecodeBinaryInvalid(t *testing.T) {
	_, err := DecodeBinary("not base64!!")
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, s := range []string{"", "hello", "päivä", "日記", "🙂 ok"} {
		got, err := DecodeText(EncodeText(s))
		if err != nil {
			t.Fatalf("DecodeText(%q) failed: %v", s, err)
		}
		if got != s {
			t.Errorf("got %q, want %q", got, s)
		}
	}
}

func TestDecodeTextInvalid(t *testing.T) {
	_, err := DecodeText([]byte{0xff, 0xfe, 'a'})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}
