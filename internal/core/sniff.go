package core

// sniff.go implements content classification for uploaded files.
//
// Attendance exports arrive with unreliable names and content-type labels, so
// classification trusts only the bytes: detect the encoding from a leading
// BOM, decode a bounded prefix, and run content heuristics in a fixed
// precedence order before accepting the file as delimited text.
//
// The precedence order matters: HTML and XML share a leading '<', and both
// JSON and HTML can appear after whitespace-only prefixes, so JSON is
// confirmed by an actual parse and HTML is ruled out before XML.

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
)

// sniffPrefixLen is how many raw bytes the heuristics decode and inspect.
var sniffPrefixLen = 8 * 1024

// jsonProbeLen caps the decoded prefix handed to the JSON parser.
var jsonProbeLen = 4 * 1024

// asciiProbeLen is how many raw bytes the printable-ratio check inspects.
var asciiProbeLen = 512

// minPrintableRatio is the minimum fraction of printable bytes for a BOM-less
// file to be considered text.
var minPrintableRatio = 0.8

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}

	magicPDF = []byte("%PDF")
	magicZIP = []byte{0x50, 0x4B, 0x03, 0x04} // also Office OOXML containers
)

// Classify inspects raw upload bytes and decides whether they are plausibly a
// delimited-text attendance export. On success it returns the detected
// encoding together with the fully decoded text; on failure the error is an
// *ImportError naming what the content really was.
//
// Classify is a pure function over its inputs; it performs no I/O.
func Classify(data []byte, filename string) (*Detection, error) {
	if len(data) == 0 {
		return nil, newError(CodeEmptyFile, "file %q is empty", filename)
	}

	enc := detectEncoding(data)

	// The heuristic prefix is decoded leniently (invalid sequences become
	// replacement characters) so that binary content reaches the
	// signature/ratio checks instead of failing here; the strict decode
	// happens once the heuristics pass.
	prefix, err := decodePrefix(data, enc)
	if err != nil {
		return nil, err
	}

	// (a) JSON: a leading brace or bracket plus a successful parse confirms
	// JSON. A parse failure falls through so an unterminated JSON-looking
	// file is still caught by the later checks rather than accepted as CSV.
	trimmed := strings.TrimLeftFunc(prefix, unicode.IsSpace)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		probe := trimmed
		if len(probe) > jsonProbeLen {
			probe = probe[:jsonProbeLen]
		}
		if json.Valid([]byte(probe)) {
			return nil, typeMismatchError(CodeTypeMismatch, "application/json", filename)
		}
	}

	// (b) Binary: recognized magic bytes, or mostly non-printable content.
	// Files carrying a text BOM skip the ratio check; the BOM already proves
	// they are text.
	if bytes.HasPrefix(data, magicPDF) {
		return nil, typeMismatchError(CodeBinaryContent, "application/pdf", filename)
	}
	if bytes.HasPrefix(data, magicZIP) {
		return nil, typeMismatchError(CodeBinaryContent, "application/zip", filename)
	}
	if enc == EncodingUTF8 && !mostlyPrintable(data) {
		return nil, typeMismatchError(CodeBinaryContent, "application/octet-stream", filename)
	}

	// (c) HTML before XML: both start with '<'.
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html") ||
		strings.Contains(lower, "<html>") || strings.Contains(lower, "<body>") {
		return nil, typeMismatchError(CodeTypeMismatch, "text/html", filename)
	}

	// (d) XML: a declaration, or any remaining leading '<'.
	if strings.HasPrefix(lower, "<?xml") || strings.HasPrefix(trimmed, "<") {
		return nil, typeMismatchError(CodeTypeMismatch, "application/xml", filename)
	}

	// (e) Structural check: at least one delimiter somewhere in the
	// non-empty lines of the prefix.
	if !hasDelimitedLine(prefix) {
		return nil, newError(CodeInvalidCSVStructure,
			"file %q contains no comma, tab, or semicolon delimiters", filename)
	}

	text, err := decodeFull(data, enc)
	if err != nil {
		return nil, err
	}

	return &Detection{Encoding: enc, Text: text}, nil
}

// detectEncoding inspects the leading bytes for a byte-order mark.
// UTF-8 BOM is checked before UTF-16BE: 0xEF 0xBB is not a UTF-16 mark, but
// the longer prefix must win over the two-byte ones.
func detectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	default:
		return EncodingUTF8
	}
}

// decodePrefix decodes up to sniffPrefixLen raw bytes after the BOM for
// heuristic inspection. Invalid sequences become replacement characters
// rather than errors; only a structurally undecodable stream (odd-length
// UTF-16) fails.
func decodePrefix(data []byte, enc Encoding) (string, error) {
	body := data[enc.bomLen():]
	truncated := false
	if len(body) > sniffPrefixLen {
		body = body[:sniffPrefixLen]
		truncated = true
	}

	switch enc {
	case EncodingUTF16LE, EncodingUTF16BE:
		if len(body)%2 != 0 {
			if !truncated {
				return "", newError(CodeEncodingError, "odd byte count in UTF-16 content")
			}
			body = body[:len(body)-1]
		}
		return decodeUTF16(body, enc)

	default:
		return string(sanitizeUTF8(body)), nil
	}
}

// decodeFull strictly decodes the whole file after the BOM. Content that
// survived the heuristics but is not valid text fails here.
func decodeFull(data []byte, enc Encoding) (string, error) {
	body := data[enc.bomLen():]

	switch enc {
	case EncodingUTF16LE, EncodingUTF16BE:
		if len(body)%2 != 0 {
			return "", newError(CodeEncodingError, "odd byte count in UTF-16 content")
		}
		return decodeUTF16(body, enc)

	default:
		if !utf8.Valid(body) {
			return "", newError(CodeEncodingError, "content is not valid UTF-8")
		}
		return string(body), nil
	}
}

func decodeUTF16(body []byte, enc Encoding) (string, error) {
	endian := xunicode.LittleEndian
	if enc == EncodingUTF16BE {
		endian = xunicode.BigEndian
	}
	dec := xunicode.UTF16(endian, xunicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(body)
	if err != nil {
		return "", newError(CodeEncodingError, "decode UTF-16: %v", err)
	}
	return string(out), nil
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the Unicode
// replacement character. Valid input is returned unchanged.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// mostlyPrintable reports whether the leading raw bytes look like text:
// at least minPrintableRatio of them printable ASCII or common whitespace.
func mostlyPrintable(data []byte) bool {
	probe := data
	if len(probe) > asciiProbeLen {
		probe = probe[:asciiProbeLen]
	}
	printable := 0
	for _, b := range probe {
		if (b >= 0x20 && b <= 0x7E) || b == '\t' || b == '\n' || b == '\r' {
			printable++
		}
	}
	return float64(printable) >= minPrintableRatio*float64(len(probe))
}

// hasDelimitedLine reports whether any non-empty line of text contains a
// comma, tab, or semicolon.
func hasDelimitedLine(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.ContainsAny(line, ",\t;") {
			return true
		}
	}
	return false
}
