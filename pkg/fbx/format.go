package fbx

import (
	"bytes"
	"fmt"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// Format selects the on-disk variant of a document.
type Format int

const (
	FormatBinary Format = iota
	FormatASCII
)

func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatASCII:
		return "ascii"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps "binary"/"ascii" (and "bin"/"text") to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "binary", "bin":
		return FormatBinary, nil
	case "ascii", "text":
		return FormatASCII, nil
	}
	return FormatBinary, fmt.Errorf("unknown fbx format %q", s)
}

// binaryMagic is the 23 byte header prefix of binary files, followed by the uint32 version.
var binaryMagic = []byte("Kaydara FBX Binary  \x00\x1a\x00")

const binaryHeaderSize = 27

var (
	binaryType = filetype.NewType("fbx", "application/vnd.autodesk.fbx")
	asciiType  = filetype.NewType("fbxascii", "text/vnd.autodesk.fbx")
)

func init() {
	filetype.AddMatcher(binaryType, matchBinary)
	filetype.AddMatcher(asciiType, matchASCII)
}

func matchBinary(buf []byte) bool {
	return bytes.HasPrefix(buf, binaryMagic)
}

// matchASCII accepts the "; FBX x.y.z project file" comment header or a
// document opening directly with the header extension record.
func matchASCII(buf []byte) bool {
	buf = bytes.TrimLeft(buf, " \t\r\n\ufeff")
	if bytes.HasPrefix(buf, []byte("FBXHeaderExtension:")) {
		return true
	}
	if !bytes.HasPrefix(buf, []byte(";")) {
		return false
	}
	line := buf
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		line = buf[:i]
	}
	return bytes.Contains(line, []byte("FBX"))
}

// Detect sniffs the format from the first bytes of a file.
// At least 32 bytes should be provided for reliable results.
func Detect(head []byte) (Format, error) {
	switch {
	case filetype.Is(head, binaryType.Extension):
		return FormatBinary, nil
	case filetype.Is(head, asciiType.Extension):
		return FormatASCII, nil
	}
	kind, _ := filetype.Match(head)
	if kind != types.Unknown && kind != binaryType && kind != asciiType {
		return FormatBinary, fmt.Errorf("%w: looks like %s (%s)", ErrUnknownFormat, kind.Extension, kind.MIME.Value)
	}
	return FormatBinary, ErrUnknownFormat
}
