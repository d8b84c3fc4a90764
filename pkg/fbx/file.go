package fbx

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const sniffLen = 64

// Decode detects the format of r and parses it.
func Decode(r io.Reader) (*Document, Format, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, FormatBinary, fmt.Errorf("failed to read fbx header: %w", err)
	}
	format, err := Detect(head)
	if err != nil {
		return nil, format, err
	}

	var doc *Document
	switch format {
	case FormatASCII:
		doc, err = DecodeASCII(br)
	default:
		doc, err = DecodeBinary(br)
	}
	return doc, format, err
}

// Encode writes doc in the requested format.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatBinary:
		return EncodeBinary(w, doc)
	case FormatASCII:
		return EncodeASCII(w, doc)
	}
	return fmt.Errorf("unknown fbx format %v", format)
}

// Load reads and parses the file at path.
func Load(path string) (*Document, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, FormatBinary, err
	}
	defer f.Close()
	return Decode(f)
}

// Save encodes doc into a temporary file next to path and renames it into
// place, so the destination is either fully replaced or left untouched.
func Save(path string, doc *Document, format Format) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, format); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if info, err := os.Stat(path); err == nil {
		os.Chmod(tmpName, info.Mode().Perm())
	} else {
		os.Chmod(tmpName, 0644)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
