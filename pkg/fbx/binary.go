package fbx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
)

const (
	// MinVersion is the oldest binary version with UID based connections.
	MinVersion = 7100
	// MaxVersion is the newest version known to share the 7.x record layout.
	MaxVersion = 7700
	// wideVersion switches record headers from 32 to 64 bit offsets.
	wideVersion = 7500
)

var (
	footerID    = []byte{0xfa, 0xbc, 0xab, 0x09, 0xd0, 0xc8, 0xd4, 0x66, 0xb1, 0x76, 0xfb, 0x83, 0x1c, 0xf7, 0x26, 0x7e}
	footerMagic = []byte{0xf8, 0x5a, 0x8c, 0x6a, 0xde, 0xf5, 0xd9, 0x7e, 0xec, 0xe9, 0x0c, 0xe3, 0x75, 0x8f, 0x29, 0x0b}
)

// DecodeBinary parses a binary FBX stream.
func DecodeBinary(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read fbx data: %w", err)
	}
	return decodeBinary(data)
}

func decodeBinary(data []byte) (*Document, error) {
	if len(data) < binaryHeaderSize || !bytes.HasPrefix(data, binaryMagic) {
		return nil, ErrUnknownFormat
	}
	version := binary.LittleEndian.Uint32(data[len(binaryMagic):binaryHeaderSize])
	if version < MinVersion || version > MaxVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	d := &binaryDecoder{data: data, pos: binaryHeaderSize, wide: version >= wideVersion}
	doc := &Document{Version: version}
	for {
		n, err := d.node()
		if err != nil {
			return nil, err
		}
		if n == nil {
			break
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	if len(data)-d.pos >= len(footerID) {
		doc.FooterID = append([]byte(nil), data[d.pos:d.pos+len(footerID)]...)
	}
	return doc, nil
}

type binaryDecoder struct {
	data []byte
	pos  int
	wide bool
}

func (d *binaryDecoder) need(n int) error {
	if n < 0 || len(d.data)-d.pos < n {
		return corrupt(d.pos, "unexpected end of data (need %d bytes)", n)
	}
	return nil
}

func (d *binaryDecoder) bytes(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *binaryDecoder) u8() (byte, error) {
	b, err := d.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *binaryDecoder) u32() (uint32, error) {
	b, err := d.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *binaryDecoder) u64() (uint64, error) {
	b, err := d.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// offset reads a record header field, 32 or 64 bit wide depending on the version.
func (d *binaryDecoder) offset() (uint64, error) {
	if d.wide {
		return d.u64()
	}
	v, err := d.u32()
	return uint64(v), err
}

// node reads one record. A nil node with a nil error is the null record
// terminating a nested list.
func (d *binaryDecoder) node() (*Node, error) {
	start := d.pos
	end, err := d.offset()
	if err != nil {
		return nil, err
	}
	numProps, err := d.offset()
	if err != nil {
		return nil, err
	}
	propLen, err := d.offset()
	if err != nil {
		return nil, err
	}
	nameLen, err := d.u8()
	if err != nil {
		return nil, err
	}
	if end == 0 {
		if numProps != 0 || propLen != 0 || nameLen != 0 {
			return nil, corrupt(start, "malformed null record")
		}
		return nil, nil
	}
	if end > uint64(len(d.data)) || end <= uint64(start) {
		return nil, corrupt(start, "end offset %d out of range", end)
	}
	name, err := d.bytes(int(nameLen))
	if err != nil {
		return nil, err
	}

	n := &Node{Name: string(name)}
	propStart := d.pos
	if numProps > 0 {
		n.Properties = make([]Property, 0, numProps)
	}
	for i := uint64(0); i < numProps; i++ {
		p, err := d.property()
		if err != nil {
			return nil, err
		}
		n.Properties = append(n.Properties, p)
	}
	if uint64(d.pos-propStart) != propLen {
		return nil, corrupt(propStart, "property list of %q is %d bytes, header says %d", n.Name, d.pos-propStart, propLen)
	}

	if uint64(d.pos) < end {
		n.block = true
		for {
			child, err := d.node()
			if err != nil {
				return nil, err
			}
			if child == nil {
				break
			}
			n.Children = append(n.Children, child)
		}
	}
	if uint64(d.pos) != end {
		return nil, corrupt(start, "record %q ends at %d, header says %d", n.Name, d.pos, end)
	}
	return n, nil
}

func (d *binaryDecoder) property() (Property, error) {
	at := d.pos
	typ, err := d.u8()
	if err != nil {
		return Property{}, err
	}
	p := Property{Type: typ}
	switch typ {
	case TypeInt16:
		b, err := d.bytes(2)
		if err != nil {
			return p, err
		}
		p.Value = int16(binary.LittleEndian.Uint16(b))
	case TypeBool:
		b, err := d.u8()
		if err != nil {
			return p, err
		}
		p.Value = b != 0
		if b > 1 {
			p.Encoding = uint32(b)
		}
	case TypeInt32:
		v, err := d.u32()
		if err != nil {
			return p, err
		}
		p.Value = int32(v)
	case TypeFloat32:
		v, err := d.u32()
		if err != nil {
			return p, err
		}
		p.Value = math.Float32frombits(v)
	case TypeFloat64:
		v, err := d.u64()
		if err != nil {
			return p, err
		}
		p.Value = math.Float64frombits(v)
	case TypeInt64:
		v, err := d.u64()
		if err != nil {
			return p, err
		}
		p.Value = int64(v)
	case TypeString, TypeRaw:
		n, err := d.u32()
		if err != nil {
			return p, err
		}
		b, err := d.bytes(int(n))
		if err != nil {
			return p, err
		}
		if typ == TypeString {
			p.Value = string(b)
		} else {
			p.Value = append([]byte(nil), b...)
		}
	case TypeFloat32Array, TypeFloat64Array, TypeInt64Array, TypeInt32Array, TypeBoolArray:
		return d.array(p)
	default:
		return p, corrupt(at, "unknown property type %q", typ)
	}
	return p, nil
}

func elemSize(typ byte) int {
	switch typ {
	case TypeFloat64Array, TypeInt64Array:
		return 8
	case TypeFloat32Array, TypeInt32Array:
		return 4
	}
	return 1
}

func (d *binaryDecoder) array(p Property) (Property, error) {
	at := d.pos
	count, err := d.u32()
	if err != nil {
		return p, err
	}
	encoding, err := d.u32()
	if err != nil {
		return p, err
	}
	size, err := d.u32()
	if err != nil {
		return p, err
	}
	payload, err := d.bytes(int(size))
	if err != nil {
		return p, err
	}
	p.Encoding = encoding

	raw := payload
	switch encoding {
	case 0:
	case 1:
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return p, corrupt(at, "bad zlib stream: %v", err)
		}
		raw, err = io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return p, corrupt(at, "bad zlib stream: %v", err)
		}
	default:
		return p, corrupt(at, "unknown array encoding %d", encoding)
	}

	want := int(count) * elemSize(p.Type)
	if len(raw) != want {
		return p, corrupt(at, "array of %d elements has %d bytes, want %d", count, len(raw), want)
	}

	le := binary.LittleEndian
	switch p.Type {
	case TypeFloat32Array:
		v := make([]float32, count)
		for i := range v {
			v[i] = math.Float32frombits(le.Uint32(raw[i*4:]))
		}
		p.Value = v
	case TypeFloat64Array:
		v := make([]float64, count)
		for i := range v {
			v[i] = math.Float64frombits(le.Uint64(raw[i*8:]))
		}
		p.Value = v
	case TypeInt64Array:
		v := make([]int64, count)
		for i := range v {
			v[i] = int64(le.Uint64(raw[i*8:]))
		}
		p.Value = v
	case TypeInt32Array:
		v := make([]int32, count)
		for i := range v {
			v[i] = int32(le.Uint32(raw[i*4:]))
		}
		p.Value = v
	case TypeBoolArray:
		v := make([]bool, count)
		for i := range v {
			v[i] = raw[i] != 0
		}
		p.Value = v
	}
	return p, nil
}

// EncodeBinary writes doc in the binary format using doc.Version.
func EncodeBinary(w io.Writer, doc *Document) error {
	if doc.Version < MinVersion || doc.Version > MaxVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	e := &binaryEncoder{wide: doc.Version >= wideVersion}
	e.buf = append(e.buf, binaryMagic...)
	e.buf = binary.LittleEndian.AppendUint32(e.buf, doc.Version)
	for _, n := range doc.Nodes {
		if err := e.node(n); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, make([]byte, e.sentinelLen())...)
	e.footer(doc)
	_, err := w.Write(e.buf)
	return err
}

type binaryEncoder struct {
	buf  []byte
	wide bool
}

func (e *binaryEncoder) fieldLen() int {
	if e.wide {
		return 8
	}
	return 4
}

func (e *binaryEncoder) sentinelLen() int {
	return 3*e.fieldLen() + 1
}

func (e *binaryEncoder) put(at int, v uint64) error {
	if e.wide {
		binary.LittleEndian.PutUint64(e.buf[at:], v)
		return nil
	}
	if v > math.MaxUint32 {
		return fmt.Errorf("record offset %d exceeds 32 bits; save with version %d or newer", v, wideVersion)
	}
	binary.LittleEndian.PutUint32(e.buf[at:], uint32(v))
	return nil
}

func (e *binaryEncoder) node(n *Node) error {
	if len(n.Name) > math.MaxUint8 {
		return fmt.Errorf("record name %q longer than 255 bytes", n.Name[:32])
	}
	start := len(e.buf)
	fl := e.fieldLen()
	e.buf = append(e.buf, make([]byte, 3*fl)...)
	e.buf = append(e.buf, byte(len(n.Name)))
	e.buf = append(e.buf, n.Name...)

	propStart := len(e.buf)
	for _, p := range n.Properties {
		if err := e.property(p); err != nil {
			return fmt.Errorf("record %q: %w", n.Name, err)
		}
	}
	propLen := len(e.buf) - propStart

	if n.IsBlock() {
		for _, c := range n.Children {
			if err := e.node(c); err != nil {
				return err
			}
		}
		e.buf = append(e.buf, make([]byte, e.sentinelLen())...)
	}

	if err := e.put(start, uint64(len(e.buf))); err != nil {
		return err
	}
	if err := e.put(start+fl, uint64(len(n.Properties))); err != nil {
		return err
	}
	return e.put(start+2*fl, uint64(propLen))
}

func (e *binaryEncoder) property(p Property) error {
	le := binary.LittleEndian
	e.buf = append(e.buf, p.Type)
	switch p.Type {
	case TypeInt16:
		v, ok := p.Value.(int16)
		if !ok {
			return typeMismatch(p)
		}
		e.buf = le.AppendUint16(e.buf, uint16(v))
	case TypeBool:
		v, ok := p.Value.(bool)
		if !ok {
			return typeMismatch(p)
		}
		if v && p.Encoding > 1 && p.Encoding <= 0xff {
			e.buf = append(e.buf, byte(p.Encoding))
		} else if v {
			e.buf = append(e.buf, 1)
		} else {
			e.buf = append(e.buf, 0)
		}
	case TypeInt32:
		v, ok := p.Value.(int32)
		if !ok {
			return typeMismatch(p)
		}
		e.buf = le.AppendUint32(e.buf, uint32(v))
	case TypeFloat32:
		v, ok := p.Value.(float32)
		if !ok {
			return typeMismatch(p)
		}
		e.buf = le.AppendUint32(e.buf, math.Float32bits(v))
	case TypeFloat64:
		v, ok := p.Value.(float64)
		if !ok {
			return typeMismatch(p)
		}
		e.buf = le.AppendUint64(e.buf, math.Float64bits(v))
	case TypeInt64:
		v, ok := p.Value.(int64)
		if !ok {
			return typeMismatch(p)
		}
		e.buf = le.AppendUint64(e.buf, uint64(v))
	case TypeString:
		v, ok := p.Value.(string)
		if !ok {
			return typeMismatch(p)
		}
		e.buf = le.AppendUint32(e.buf, uint32(len(v)))
		e.buf = append(e.buf, v...)
	case TypeRaw:
		v, ok := p.Value.([]byte)
		if !ok {
			return typeMismatch(p)
		}
		e.buf = le.AppendUint32(e.buf, uint32(len(v)))
		e.buf = append(e.buf, v...)
	case TypeFloat32Array, TypeFloat64Array, TypeInt64Array, TypeInt32Array, TypeBoolArray:
		return e.array(p)
	default:
		return fmt.Errorf("unknown property type %q", p.Type)
	}
	return nil
}

func (e *binaryEncoder) array(p Property) error {
	le := binary.LittleEndian
	var raw []byte
	switch v := p.Value.(type) {
	case []float32:
		for _, x := range v {
			raw = le.AppendUint32(raw, math.Float32bits(x))
		}
	case []float64:
		for _, x := range v {
			raw = le.AppendUint64(raw, math.Float64bits(x))
		}
	case []int64:
		for _, x := range v {
			raw = le.AppendUint64(raw, uint64(x))
		}
	case []int32:
		for _, x := range v {
			raw = le.AppendUint32(raw, uint32(x))
		}
	case []bool:
		for _, x := range v {
			if x {
				raw = append(raw, 1)
			} else {
				raw = append(raw, 0)
			}
		}
	default:
		return typeMismatch(p)
	}
	if len(raw) != p.Len()*elemSize(p.Type) {
		return typeMismatch(p)
	}

	payload := raw
	if p.Encoding == 1 {
		var zbuf bytes.Buffer
		zw := zlib.NewWriter(&zbuf)
		if _, err := zw.Write(raw); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		payload = zbuf.Bytes()
	}

	e.buf = le.AppendUint32(e.buf, uint32(p.Len()))
	e.buf = le.AppendUint32(e.buf, p.Encoding)
	e.buf = le.AppendUint32(e.buf, uint32(len(payload)))
	e.buf = append(e.buf, payload...)
	return nil
}

// footer writes the trailer expected by the SDK: footer id, four zero bytes,
// padding to a 16 byte boundary, the version, 120 zero bytes and the magic.
func (e *binaryEncoder) footer(doc *Document) {
	id := doc.FooterID
	if len(id) != len(footerID) {
		id = footerID
	}
	e.buf = append(e.buf, id...)
	e.buf = append(e.buf, 0, 0, 0, 0)
	pad := ((len(e.buf) + 15) &^ 15) - len(e.buf)
	if pad == 0 {
		pad = 16
	}
	e.buf = append(e.buf, make([]byte, pad)...)
	e.buf = binary.LittleEndian.AppendUint32(e.buf, doc.Version)
	e.buf = append(e.buf, make([]byte, 120)...)
	e.buf = append(e.buf, footerMagic...)
}

func typeMismatch(p Property) error {
	return fmt.Errorf("property type %q does not match value %T", p.Type, p.Value)
}
