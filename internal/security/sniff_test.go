package security

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func bigContent(prefix string) []byte {
	return []byte(prefix + strings.Repeat("x = 1;\n", 10_000))
}

func TestCheckSmallFilesSkipSniffing(t *testing.T) {
	s := NewSniffer(64)

	// Binary content, but under the threshold
	assert.NoError(t, s.Check("a.ts", []byte{0x89, 0x50, 0x4E, 0x47, 0x00}))
}

func TestCheckRejectsDisguisedBinaryFormats(t *testing.T) {
	s := NewSniffer(1)

	png := append([]byte{0x89, 0x50, 0x4E, 0x47}, bigContent("")...)
	assert.Error(t, s.Check("image.ts", png))

	elf := append([]byte{0x7F, 0x45, 0x4C, 0x46}, bigContent("")...)
	assert.Error(t, s.Check("tool.go", elf))
}

func TestCheckRejectsRawBinaryData(t *testing.T) {
	s := NewSniffer(1)

	data := bytes.Repeat([]byte{0x00, 0x01, 0x41}, 2000)
	err := s.Check("blob.js", data)
	assert.ErrorContains(t, err, "non-printable")
}

func TestCheckAcceptsPlausibleSource(t *testing.T) {
	s := NewSniffer(1)

	assert.NoError(t, s.Check("big.go", bigContent("package main\n\nfunc main() {}\n")))
	assert.NoError(t, s.Check("big.tsx", bigContent("import { x } from './x';\nexport const y = 1;\n")))
	assert.NoError(t, s.Check("big.py", bigContent("import os\n\ndef run():\n    pass\n")))
}

func TestCheckRejectsMarkerlessSource(t *testing.T) {
	s := NewSniffer(1)

	// Plain prose stored under a Go extension
	err := s.Check("big.go", bigContent("this file holds meeting notes\n"))
	assert.ErrorContains(t, err, "source markers")
}

func TestCheckUnknownExtensionPassesTextContent(t *testing.T) {
	s := NewSniffer(1)

	assert.NoError(t, s.Check("data.csv", bigContent("a,b,c\n1,2,3\n")))
}
