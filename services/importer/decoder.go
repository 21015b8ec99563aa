package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DecodeExtract converts an extract byte stream from the legacy Windows-1252
// code page into a UTF-8 string. The whole content is buffered; extracts are
// tens of thousands of rows at most, so streaming is unnecessary.
//
// Five byte values (0x81, 0x8D, 0x8F, 0x90, 0x9D) are undefined in
// Windows-1252; the charmap decoder maps them to U+FFFD, which is surfaced as
// a DecodeError rather than silently carried through.
func DecodeExtract(r io.Reader, fileName string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read extract %s: %w", fileName, err)
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode extract %s: %w", fileName, err)
	}

	text := string(decoded)
	if strings.ContainsRune(text, '�') {
		return "", &DecodeError{File: fileName}
	}
	return text, nil
}
