// Package content reads packaged files: binary detection, bounded text
// decoding and language tagging.
package content

import (
	"errors"
	"io"
	"os"
	"unicode/utf8"
)

// binarySniffLength is the number of leading bytes inspected for binary detection.
const binarySniffLength = 2048

// IsBinary reports whether data looks like binary content. Any NUL byte marks
// binary data; valid UTF-8 is text; anything else is binary when more than a
// third of its bytes fall outside printable ASCII and common whitespace.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	if utf8.Valid(trimIncompleteRune(data)) {
		return false
	}
	textByteCount := 0
	for _, byteValue := range data {
		if (byteValue >= 32 && byteValue <= 126) || byteValue == '\t' || byteValue == '\n' || byteValue == '\r' {
			textByteCount++
		}
	}
	threshold := len(data) / 3
	if threshold < 1 {
		threshold = 1
	}
	return len(data)-textByteCount > threshold
}

// IsBinaryFile inspects the first bytes of the file at path.
//
// #nosec G304
func IsBinaryFile(path string) (bool, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, binarySniffLength)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return false, readError
	}
	return IsBinary(buffer[:bytesRead]), nil
}

// trimIncompleteRune drops a multi-byte sequence cut off at the end of data.
func trimIncompleteRune(data []byte) []byte {
	for trailing := 1; trailing < utf8.UTFMax && trailing <= len(data); trailing++ {
		startIndex := len(data) - trailing
		if !utf8.RuneStart(data[startIndex]) {
			continue
		}
		if !utf8.FullRune(data[startIndex:]) {
			return data[:startIndex]
		}
		return data
	}
	return data
}
