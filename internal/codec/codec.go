package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"
)

var ErrDecode = errors.New("decode error")

// EncodeBinary returns the base64 form of b
func EncodeBinary(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBinary reverses EncodeBinary
func DecodeBinary(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}

// EncodeText returns the UTF-8 bytes of s
func EncodeText(s string) []byte {
	return []byte(s)
}

// DecodeText converts UTF-8 bytes to a string, failing on invalid sequences
func DecodeText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: invalid UTF-8", ErrDecode)
	}
	return string(b), nil
}
