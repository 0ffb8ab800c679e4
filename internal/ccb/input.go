package ccb

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// Preprocess turns file contents into the raw document bytes Decode
// expects. .ccbz files are DEFLATE compressed, with or without a zlib
// wrapper; .ccbjs files are base64 text. Anything else is returned
// unchanged.
func Preprocess(filename string, raw []byte) ([]byte, error) {
	switch strings.ToLower(path.Ext(strings.ReplaceAll(filename, "\\", "/"))) {
	case ".ccbz":
		return inflate(raw)
	case ".ccbjs":
		return decodeBase64(raw)
	}
	return raw, nil
}

func inflate(raw []byte) ([]byte, error) {
	var r io.ReadCloser
	if hasZlibHeader(raw) {
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("ccb: zlib header: %w", err)
		}
		r = zr
	} else {
		r = flate.NewReader(bytes.NewReader(raw))
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ccb: inflate: %w", err)
	}
	return out, nil
}

// hasZlibHeader checks the RFC 1950 CMF/FLG pair.
func hasZlibHeader(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	cmf, flg := b[0], b[1]
	return cmf&0x0f == 8 && cmf>>4 <= 7 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}

func decodeBase64(raw []byte) ([]byte, error) {
	clean := bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, raw)
	enc := base64.StdEncoding
	if len(clean)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	out := make([]byte, enc.DecodedLen(len(clean)))
	n, err := enc.Decode(out, clean)
	if err != nil {
		return nil, fmt.Errorf("ccb: base64: %w", err)
	}
	return out[:n], nil
}
