// Package security guards the graph builder against files that lie about
// their type. A renamed binary with a code extension would otherwise flow
// into extraction and pollute the dependency graph with garbage imports.
package security

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Sniffer validates file content against its claimed extension. Validation
// looks only at a bounded header, so oversized files stay cheap to check.
type Sniffer struct {
	// Threshold is the content size above which sniffing applies. Small
	// files are cheap to mis-scan and expensive to false-positive on.
	Threshold int
	// HeaderSize bounds how much of the content is inspected.
	HeaderSize int
}

// NewSniffer returns a sniffer with the given threshold in kilobytes.
func NewSniffer(thresholdKB int) *Sniffer {
	return &Sniffer{
		Threshold:  thresholdKB * 1024,
		HeaderSize: 64 * 1024,
	}
}

// magicPrefixes are signatures of common non-code formats that show up
// disguised under code extensions.
var magicPrefixes = [][]byte{
	{0x89, 0x50, 0x4E, 0x47},       // PNG
	{0xFF, 0xD8, 0xFF},             // JPEG
	{0x47, 0x49, 0x46, 0x38},       // GIF
	{0x25, 0x50, 0x44, 0x46, 0x2D}, // PDF
	{0x50, 0x4B, 0x03, 0x04},       // ZIP
	{0x4D, 0x5A},                   // PE executable
	{0x7F, 0x45, 0x4C, 0x46},       // ELF
}

// codeMarkers maps extensions to byte sequences at least one of which a
// legitimate source file of that type is expected to contain.
var codeMarkers = map[string][][]byte{
	".go": {[]byte("package "), []byte("func "), []byte("import "), []byte("//go:build")},
	".js": {[]byte("function "), []byte("const "), []byte("let "), []byte("var "), []byte("=>"),
		[]byte("import "), []byte("export "), []byte("class ")},
	".ts": {[]byte("interface "), []byte("type "), []byte("enum "), []byte(": string"),
		[]byte("import "), []byte("export "), []byte("const "), []byte("function ")},
	".py": {[]byte("def "), []byte("import "), []byte("from "), []byte("class "), []byte("self.")},
	".rs": {[]byte("fn "), []byte("use "), []byte("pub "), []byte("mod "), []byte("struct ")},
	".c":  {[]byte("#include"), []byte("int "), []byte("void "), []byte("struct "), []byte("typedef ")},
	".rb": {[]byte("def "), []byte("require "), []byte("class "), []byte("module "), []byte("end")},
}

// markerAliases folds sibling extensions onto a marker set.
var markerAliases = map[string]string{
	".jsx": ".js",
	".mjs": ".js",
	".cjs": ".js",
	".tsx": ".ts",
	".h":   ".c",
	".cpp": ".c",
	".cc":  ".c",
	".hpp": ".c",
}

// Check validates content claiming to be source code at path. Content at or
// under the threshold passes without inspection. Returns nil when the
// content is plausible for its extension.
func (s *Sniffer) Check(path string, content []byte) error {
	if len(content) <= s.Threshold {
		return nil
	}

	header := content
	if len(header) > s.HeaderSize {
		header = header[:s.HeaderSize]
	}

	for _, magic := range magicPrefixes {
		if bytes.HasPrefix(header, magic) {
			return errors.New("known binary format disguised with a code extension")
		}
	}
	if looksBinary(header) {
		return errors.New("content is mostly non-printable bytes")
	}

	ext := strings.ToLower(filepath.Ext(path))
	if alias, ok := markerAliases[ext]; ok {
		ext = alias
	}
	markers, ok := codeMarkers[ext]
	if !ok {
		return nil
	}
	for _, marker := range markers {
		if bytes.Contains(header, marker) {
			return nil
		}
	}
	return fmt.Errorf("no %s source markers in file header", ext)
}

// looksBinary reports whether more than 30% of the data is control bytes.
func looksBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	nonPrintable := 0
	for _, b := range data {
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(data)) > 0.3
}
