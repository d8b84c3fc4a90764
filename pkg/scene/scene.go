package scene

import (
	"errors"
	"fmt"

	"github.com/aretw0/fbxtools/pkg/fbx"
)

// ErrNotAScene is returned by New when the document lacks an Objects or
// Connections section.
var ErrNotAScene = errors.New("document has no Objects or Connections section")

const (
	// RootUID is the implicit scene root every top level model connects to.
	RootUID int64 = 0
	// RootName is the display name of the root pseudo-object.
	RootName = "RootNode"
)

// Connection kinds.
const (
	KindObject   = "OO"
	KindProperty = "OP"
)

// Object is one entry of the Objects section.
type Object struct {
	UID      int64
	Name     string
	Class    string
	SubClass string
	// Record is the backing document record. It is nil for the root.
	Record *fbx.Node
}

// IsRoot reports whether o is the scene root pseudo-object.
func (o *Object) IsRoot() bool {
	return o.UID == RootUID
}

func (o *Object) String() string {
	return fmt.Sprintf("%s (%s)", o.Name, o.Class)
}

// Connection is one C record: Child is connected into Parent.
type Connection struct {
	Kind     string
	Child    int64
	Parent   int64
	Property string
	Record   *fbx.Node
}

// Scene indexes the objects and connections of a document. Mutations go
// through the Scene so the index and the document stay in step.
type Scene struct {
	doc         *fbx.Document
	objects     *fbx.Node
	connections *fbx.Node
	definitions *fbx.Node

	root  *Object
	order []*Object
	byUID map[int64]*Object
	links []*Connection
}

// New builds the index for doc.
func New(doc *fbx.Document) (*Scene, error) {
	s := &Scene{
		doc:         doc,
		objects:     doc.Find("Objects"),
		connections: doc.Find("Connections"),
		definitions: doc.Find("Definitions"),
		root:        &Object{UID: RootUID, Name: RootName, Class: "Model"},
		byUID:       make(map[int64]*Object),
	}
	if s.objects == nil || s.connections == nil {
		return nil, ErrNotAScene
	}
	s.byUID[RootUID] = s.root

	for _, rec := range s.objects.Children {
		if o := objectFromRecord(rec); o != nil {
			s.order = append(s.order, o)
			s.byUID[o.UID] = o
		}
	}
	for _, rec := range s.connections.Children {
		if c := connectionFromRecord(rec); c != nil {
			s.links = append(s.links, c)
		}
	}
	return s, nil
}

func objectFromRecord(rec *fbx.Node) *Object {
	if len(rec.Properties) < 2 {
		return nil
	}
	uid, ok := rec.Properties[0].Int()
	if !ok {
		return nil
	}
	full, _ := rec.Properties[1].Str()
	name, class := fbx.SplitObjectName(full)
	if class == "" {
		class = rec.Name
	}
	o := &Object{UID: uid, Name: name, Class: class, Record: rec}
	if len(rec.Properties) > 2 {
		o.SubClass, _ = rec.Properties[2].Str()
	}
	return o
}

func connectionFromRecord(rec *fbx.Node) *Connection {
	if rec.Name != "C" || len(rec.Properties) < 3 {
		return nil
	}
	kind, _ := rec.Properties[0].Str()
	child, ok1 := rec.Properties[1].Int()
	parent, ok2 := rec.Properties[2].Int()
	if !ok1 || !ok2 {
		return nil
	}
	c := &Connection{Kind: kind, Child: child, Parent: parent, Record: rec}
	if len(rec.Properties) > 3 {
		c.Property, _ = rec.Properties[3].Str()
	}
	return c
}

// Document returns the underlying document.
func (s *Scene) Document() *fbx.Document {
	return s.doc
}

// Root returns the root pseudo-object.
func (s *Scene) Root() *Object {
	return s.root
}

// Object looks up an object by UID. UID 0 resolves to the root.
func (s *Scene) Object(uid int64) (*Object, bool) {
	o, ok := s.byUID[uid]
	return o, ok
}

// Objects returns every indexed object in document order.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.order...)
}

// Nodes returns the Model objects in document order.
func (s *Scene) Nodes() []*Object {
	var out []*Object
	for _, o := range s.order {
		if o.Class == "Model" {
			out = append(out, o)
		}
	}
	return out
}

// FindNodeByName returns the first Model object named exactly name.
func (s *Scene) FindNodeByName(name string) (*Object, bool) {
	for _, o := range s.order {
		if o.Class == "Model" && o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// Connections returns every connection in which o is the child.
func (s *Scene) Connections(o *Object) []*Connection {
	var out []*Connection
	for _, c := range s.links {
		if c.Child == o.UID {
			out = append(out, c)
		}
	}
	return out
}

// Parents returns the objects o is connected into. Unknown parent UIDs are
// skipped.
func (s *Scene) Parents(o *Object) []*Object {
	var out []*Object
	for _, c := range s.links {
		if c.Child != o.UID {
			continue
		}
		if p, ok := s.byUID[c.Parent]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Sources returns every object connected into o, regardless of class.
func (s *Scene) Sources(o *Object) []*Object {
	var out []*Object
	for _, c := range s.links {
		if c.Parent != o.UID {
			continue
		}
		if src, ok := s.byUID[c.Child]; ok {
			out = append(out, src)
		}
	}
	return out
}

// Children returns the Model objects parented to o.
func (s *Scene) Children(o *Object) []*Object {
	var out []*Object
	for _, src := range s.Sources(o) {
		if src.Class == "Model" {
			out = append(out, src)
		}
	}
	return out
}

// Mesh returns the mesh geometry connected into node.
func (s *Scene) Mesh(node *Object) (*Object, bool) {
	for _, src := range s.Sources(node) {
		if src.Class == "Geometry" && src.SubClass == "Mesh" {
			return src, true
		}
	}
	return nil, false
}

// Materials returns the materials connected into node.
func (s *Scene) Materials(node *Object) []*Object {
	var out []*Object
	for _, src := range s.Sources(node) {
		if src.Class == "Material" {
			out = append(out, src)
		}
	}
	return out
}

// Connect links child into parent with an object-object connection.
func (s *Scene) Connect(child, parent *Object) *Connection {
	return s.connect(KindObject, child.UID, parent.UID, "")
}

func (s *Scene) connect(kind string, child, parent int64, property string) *Connection {
	props := []fbx.Property{fbx.String(kind), fbx.Int64(child), fbx.Int64(parent)}
	if kind == KindProperty {
		props = append(props, fbx.String(property))
	}
	rec := fbx.NewNode("C", props...)
	s.connections.Add(rec)
	c := &Connection{Kind: kind, Child: child, Parent: parent, Property: property, Record: rec}
	s.links = append(s.links, c)
	return c
}

// Describe renders c with object names, e.g. "OO Lod0Mesh (Geometry) -> Lod0 (Model)".
func (s *Scene) Describe(c *Connection) string {
	name := func(uid int64) string {
		if o, ok := s.byUID[uid]; ok {
			return o.String()
		}
		return fmt.Sprintf("#%d", uid)
	}
	out := fmt.Sprintf("%s %s -> %s", c.Kind, name(c.Child), name(c.Parent))
	if c.Property != "" {
		out += fmt.Sprintf(" [%s]", c.Property)
	}
	return out
}
