package fbx

import (
	"fmt"
	"strings"
)

// Property type codes as they appear in the binary record format.
const (
	TypeInt16        byte = 'Y'
	TypeBool         byte = 'C'
	TypeInt32        byte = 'I'
	TypeFloat32      byte = 'F'
	TypeFloat64      byte = 'D'
	TypeInt64        byte = 'L'
	TypeFloat32Array byte = 'f'
	TypeFloat64Array byte = 'd'
	TypeInt64Array   byte = 'l'
	TypeInt32Array   byte = 'i'
	TypeBoolArray    byte = 'b'
	TypeString       byte = 'S'
	TypeRaw          byte = 'R'
)

// nameSeparator joins an object name and its class in binary files ("Lod0\x00\x01Model").
const nameSeparator = "\x00\x01"

// Document is the in-memory representation of one FBX file.
type Document struct {
	// Version is the FBX file version, e.g. 7400.
	Version uint32
	// Nodes are the top-level records (FBXHeaderExtension, Objects, Connections, ...).
	Nodes []*Node
	// FooterID is the 16 byte footer code of a binary file. Nil for ASCII input.
	FooterID []byte
}

// Node is a single record of the document tree.
type Node struct {
	Name       string
	Properties []Property
	Children   []*Node

	// block is set when the record carried a nested list, even an empty one.
	block bool
}

// Property is a typed record value.
// Value holds int16, bool, int32, float32, float64, int64, []float32,
// []float64, []int64, []int32, []bool, string or []byte depending on Type.
type Property struct {
	Type  byte
	Value any
	// Encoding is the array encoding read from a binary file (0 raw, 1 zlib).
	// For a true C value it keeps the stored byte when that was not 1 ('T', 'Y').
	Encoding uint32
}

// NewNode creates a record with the given properties.
func NewNode(name string, props ...Property) *Node {
	return &Node{Name: name, Properties: props}
}

// Find returns the first top-level record with the given name.
func (d *Document) Find(name string) *Node {
	for _, n := range d.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Records counts every record in the document, nested ones included.
func (d *Document) Records() int {
	var count func(nodes []*Node) int
	count = func(nodes []*Node) int {
		n := len(nodes)
		for _, c := range nodes {
			n += count(c.Children)
		}
		return n
	}
	return count(d.Nodes)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{Version: d.Version}
	if d.FooterID != nil {
		out.FooterID = append([]byte(nil), d.FooterID...)
	}
	out.Nodes = make([]*Node, len(d.Nodes))
	for i, n := range d.Nodes {
		out.Nodes[i] = n.Clone()
	}
	return out
}

// Child returns the first direct child with the given name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given name.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Add appends children and marks the record as a block.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	n.block = true
	return n
}

// Remove detaches the given child. It reports whether the child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// IsBlock reports whether the record is written with a nested list.
func (n *Node) IsBlock() bool {
	return n.block || len(n.Children) > 0
}

// Prop returns the property at index i, or false when out of range.
func (n *Node) Prop(i int) (Property, bool) {
	if i < 0 || i >= len(n.Properties) {
		return Property{}, false
	}
	return n.Properties[i], true
}

// Clone returns a deep copy of the record and its subtree.
func (n *Node) Clone() *Node {
	out := &Node{Name: n.Name, block: n.block}
	if n.Properties != nil {
		out.Properties = make([]Property, len(n.Properties))
		for i, p := range n.Properties {
			out.Properties[i] = p.Clone()
		}
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

func (n *Node) String() string {
	parts := make([]string, len(n.Properties))
	for i, p := range n.Properties {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s: %s", n.Name, strings.Join(parts, ", "))
}

// Clone copies array and raw payloads so the result shares no memory with p.
func (p Property) Clone() Property {
	switch v := p.Value.(type) {
	case []float32:
		p.Value = append([]float32(nil), v...)
	case []float64:
		p.Value = append([]float64(nil), v...)
	case []int64:
		p.Value = append([]int64(nil), v...)
	case []int32:
		p.Value = append([]int32(nil), v...)
	case []bool:
		p.Value = append([]bool(nil), v...)
	case []byte:
		p.Value = append([]byte(nil), v...)
	}
	return p
}

// IsArray reports whether the property holds an array payload.
func (p Property) IsArray() bool {
	switch p.Type {
	case TypeFloat32Array, TypeFloat64Array, TypeInt64Array, TypeInt32Array, TypeBoolArray:
		return true
	}
	return false
}

// Int returns any integer-typed property widened to int64.
func (p Property) Int() (int64, bool) {
	switch v := p.Value.(type) {
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// Float returns any numeric property as float64.
func (p Property) Float() (float64, bool) {
	switch v := p.Value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	if i, ok := p.Int(); ok {
		return float64(i), true
	}
	return 0, false
}

// Str returns the value of a string property.
func (p Property) Str() (string, bool) {
	s, ok := p.Value.(string)
	return s, ok
}

// Len returns the element count of an array property, or 0.
func (p Property) Len() int {
	switch v := p.Value.(type) {
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	case []int64:
		return len(v)
	case []int32:
		return len(v)
	case []bool:
		return len(v)
	}
	return 0
}

func (p Property) String() string {
	if s, ok := p.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	if p.IsArray() {
		return fmt.Sprintf("*%d", p.Len())
	}
	return fmt.Sprintf("%v", p.Value)
}

func Int16(v int16) Property { return Property{Type: TypeInt16, Value: v} }
func Bool(v bool) Property { return Property{Type: TypeBool, Value: v} }
func Int32(v int32) Property { return Property{Type: TypeInt32, Value: v} }
func Float32(v float32) Property { return Property{Type: TypeFloat32, Value: v} }
func Float64(v float64) Property { return Property{Type: TypeFloat64, Value: v} }
func Int64(v int64) Property { return Property{Type: TypeInt64, Value: v} }
func String(v string) Property { return Property{Type: TypeString, Value: v} }
func Raw(v []byte) Property { return Property{Type: TypeRaw, Value: v} }
func Float32s(v []float32) Property { return Property{Type: TypeFloat32Array, Value: v} }
func Float64s(v []float64) Property { return Property{Type: TypeFloat64Array, Value: v} }
func Int64s(v []int64) Property { return Property{Type: TypeInt64Array, Value: v} }
func Int32s(v []int32) Property { return Property{Type: TypeInt32Array, Value: v} }
func Bools(v []bool) Property { return Property{Type: TypeBoolArray, Value: v} }

// ObjectName builds the binary "Name\x00\x01Class" form of an object name.
func ObjectName(name, class string) string {
	return name + nameSeparator + class
}

// SplitObjectName splits a binary object name into name and class.
// Names without a class are returned unchanged with an empty class.
func SplitObjectName(s string) (name, class string) {
	if i := strings.Index(s, nameSeparator); i >= 0 {
		return s[:i], s[i+len(nameSeparator):]
	}
	return s, ""
}
