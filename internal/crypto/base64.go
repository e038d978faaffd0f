// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// base64Window is the size of one raw-byte window. It is the largest
// multiple of 3 not above 32 KiB so that no window but the last produces
// padding.
const base64Window = 32*1024 - (32*1024)%3

// base64DecodeWindow is the size of one encoded window (a multiple of 4).
const base64DecodeWindow = 32 * 1024

var stdEncoding = base64.StdEncoding.Strict()

// EncodeBase64 returns the standard Base64 encoding of src.
func EncodeBase64(src []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(stdEncoding.EncodedLen(len(src)))
	if err := encodeBase64To(&sb, src); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// encodeBase64To encodes src into w one window at a time, reusing a single
// output buffer for every window.
func encodeBase64To(w io.Writer, src []byte) error {
	buf := make([]byte, stdEncoding.EncodedLen(min(len(src), base64Window)))
	for start := 0; start < len(src); start += base64Window {
		end := min(start+base64Window, len(src))
		n := stdEncoding.EncodedLen(end - start)
		stdEncoding.Encode(buf[:n], src[start:end])
		if _, err := w.Write(buf[:n]); err != nil {
			return fmt.Errorf("%w: %w", ErrBase64EncodeFailed, err)
		}
	}
	return nil
}

// DecodeBase64 decodes standard, padded Base64. Padding is accepted only at
// the very end and non-canonical trailing bits are rejected.
func DecodeBase64(s string) ([]byte, error) {
	if len(s)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of 4", ErrBase64DecodeFailed, len(s))
	}

	out := make([]byte, 0, stdEncoding.DecodedLen(len(s)))
	in := make([]byte, min(len(s), base64DecodeWindow))
	buf := make([]byte, stdEncoding.DecodedLen(len(in)))
	for start := 0; start < len(s); start += base64DecodeWindow {
		end := min(start+base64DecodeWindow, len(s))
		m := copy(in, s[start:end])
		n, err := stdEncoding.Decode(buf, in[:m])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBase64DecodeFailed, fmt.Errorf("at offset %d: %w", start, err))
		}
		if end < len(s) && n != (end-start)/4*3 {
			return nil, fmt.Errorf("%w: padding before end of input", ErrBase64DecodeFailed)
		}
		out = append(out, buf[:n]...)
	}
	return out, nil
}
