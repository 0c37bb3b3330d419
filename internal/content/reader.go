package content

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	// DefaultMaxFileBytes is the default number of bytes read from every file.
	DefaultMaxFileBytes = 16384

	EncodingUTF8   = "utf-8"
	EncodingUTF16  = "utf-16"
	EncodingLatin1 = "latin-1"

	errorReadFileFormat = "read %s: %w"
)

// TextResult is the decoded, possibly truncated content of a file.
type TextResult struct {
	Content   string
	Encoding  string
	Truncated bool
}

var (
	utf16LittleEndianBOM = []byte{0xFF, 0xFE}
	utf16BigEndianBOM    = []byte{0xFE, 0xFF}
)

// ReadText reads at most maxBytes bytes of the file at path and decodes them.
// Decoding tries strict UTF-8, then BOM-marked UTF-16, then Latin-1, which
// accepts any input. A non-positive maxBytes selects DefaultMaxFileBytes.
//
// #nosec G304
func ReadText(path string, maxBytes int) (TextResult, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return TextResult{}, fmt.Errorf(errorReadFileFormat, path, openError)
	}
	defer fileHandle.Close()

	rawBytes, readError := io.ReadAll(io.LimitReader(fileHandle, int64(maxBytes)+1))
	if readError != nil {
		return TextResult{}, fmt.Errorf(errorReadFileFormat, path, readError)
	}
	truncated := len(rawBytes) > maxBytes
	if truncated {
		rawBytes = rawBytes[:maxBytes]
	}
	decodedText, encodingName := Decode(rawBytes, truncated)
	return TextResult{Content: decodedText, Encoding: encodingName, Truncated: truncated}, nil
}

// Decode converts raw file bytes to text and names the encoding used. When the
// bytes were cut short, a multi-byte UTF-8 sequence split by the cut is dropped
// before validation.
func Decode(rawBytes []byte, truncated bool) (string, string) {
	utf8Candidate := rawBytes
	if truncated {
		utf8Candidate = trimIncompleteRune(rawBytes)
	}
	if utf8.Valid(utf8Candidate) {
		return string(utf8Candidate), EncodingUTF8
	}
	if bytes.HasPrefix(rawBytes, utf16LittleEndianBOM) || bytes.HasPrefix(rawBytes, utf16BigEndianBOM) {
		if decodedText, decodeError := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), rawBytes); decodeError == nil {
			return decodedText, EncodingUTF16
		}
	}
	decodedText, _ := decodeWith(charmap.ISO8859_1, rawBytes)
	return decodedText, EncodingLatin1
}

func decodeWith(textEncoding encoding.Encoding, rawBytes []byte) (string, error) {
	decodedBytes, decodeError := textEncoding.NewDecoder().Bytes(rawBytes)
	if decodeError != nil {
		return "", decodeError
	}
	return string(decodedBytes), nil
}
