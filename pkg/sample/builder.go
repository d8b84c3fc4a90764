// Package sample builds minimal FBX scenes: a root, mesh models with
// triangle geometry, materials and the connections between them.
package sample

import (
	"github.com/aretw0/fbxtools/pkg/fbx"
)

// Builder assembles small but structurally complete FBX documents.
type Builder struct {
	doc         *fbx.Document
	definitions *fbx.Node
	objects     *fbx.Node
	connections *fbx.Node
	nextUID     int64
}

// NewBuilder starts a document of the given version with header,
// settings, definitions, objects and connections sections.
func NewBuilder(version uint32) *Builder {
	b := &Builder{
		doc:         &fbx.Document{Version: version},
		definitions: fbx.NewNode("Definitions"),
		objects:     fbx.NewNode("Objects"),
		connections: fbx.NewNode("Connections"),
		nextUID:     1000,
	}
	header := fbx.NewNode("FBXHeaderExtension").Add(
		fbx.NewNode("FBXHeaderVersion", fbx.Int32(1003)),
		fbx.NewNode("FBXVersion", fbx.Int32(int32(version))),
		fbx.NewNode("Creator", fbx.String("fbxtools")),
	)
	settings := fbx.NewNode("GlobalSettings").Add(
		fbx.NewNode("Version", fbx.Int32(1000)),
	)
	b.definitions.Add(
		fbx.NewNode("Version", fbx.Int32(100)),
		fbx.NewNode("Count", fbx.Int32(1)),
		fbx.NewNode("ObjectType", fbx.String("GlobalSettings")).Add(fbx.NewNode("Count", fbx.Int32(1))),
	)
	// empty sections still render as blocks
	b.objects.Add()
	b.connections.Add()
	b.doc.Nodes = []*fbx.Node{header, settings, b.definitions, b.objects, b.connections}
	return b
}

func (b *Builder) uid() int64 {
	b.nextUID += 1000
	return b.nextUID
}

func (b *Builder) countType(class string) {
	total := b.definitions.Child("Count")
	total.Properties[0] = fbx.Int32(total.Properties[0].Value.(int32) + 1)
	for _, t := range b.definitions.ChildrenNamed("ObjectType") {
		if s, _ := t.Properties[0].Str(); s == class {
			c := t.Child("Count")
			c.Properties[0] = fbx.Int32(c.Properties[0].Value.(int32) + 1)
			return
		}
	}
	b.definitions.Add(fbx.NewNode("ObjectType", fbx.String(class)).Add(fbx.NewNode("Count", fbx.Int32(1))))
}

// Model adds a Model object ("Mesh", "Null", ...) and returns its UID.
func (b *Builder) Model(name, subclass string) int64 {
	uid := b.uid()
	props := fbx.NewNode("Properties70").Add(
		fbx.NewNode("P", fbx.String("Lcl Translation"), fbx.String("Lcl Translation"), fbx.String(""), fbx.String("A"),
			fbx.Float64(0), fbx.Float64(1.5), fbx.Float64(0)),
	)
	b.objects.Add(fbx.NewNode("Model", fbx.Int64(uid), fbx.String(fbx.ObjectName(name, "Model")), fbx.String(subclass)).Add(
		fbx.NewNode("Version", fbx.Int32(232)),
		props,
		fbx.NewNode("Shading", fbx.Bool(true)),
		fbx.NewNode("Culling", fbx.String("CullingOff")),
	))
	b.countType("Model")
	return uid
}

// Mesh adds a triangle Geometry object with vertex colors and returns its UID.
func (b *Builder) Mesh(name string) int64 {
	uid := b.uid()
	vertices := fbx.Float64s([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0})
	vertices.Encoding = 1
	colors := fbx.NewNode("LayerElementColor", fbx.Int32(0)).Add(
		fbx.NewNode("Version", fbx.Int32(101)),
		fbx.NewNode("MappingInformationType", fbx.String("ByPolygonVertex")),
		fbx.NewNode("Colors", fbx.Float64s([]float64{1, 0, 0, 1, 0, 1, 0, 1, 0, 0, 1, 1})),
	)
	b.objects.Add(fbx.NewNode("Geometry", fbx.Int64(uid), fbx.String(fbx.ObjectName(name, "Geometry")), fbx.String("Mesh")).Add(
		fbx.NewNode("Vertices", vertices),
		fbx.NewNode("PolygonVertexIndex", fbx.Int32s([]int32{0, 1, -3})),
		fbx.NewNode("GeometryVersion", fbx.Int32(124)),
		colors,
	))
	b.countType("Geometry")
	return uid
}

// Material adds a Material object and returns its UID.
func (b *Builder) Material(name string) int64 {
	uid := b.uid()
	b.objects.Add(fbx.NewNode("Material", fbx.Int64(uid), fbx.String(fbx.ObjectName(name, "Material")), fbx.String("")).Add(
		fbx.NewNode("Version", fbx.Int32(102)),
	))
	b.countType("Material")
	return uid
}

// Connect adds an object-object connection. Parent 0 is the scene root.
func (b *Builder) Connect(child, parent int64) *Builder {
	b.connections.Add(fbx.NewNode("C", fbx.String("OO"), fbx.Int64(child), fbx.Int64(parent)))
	return b
}

// ConnectProperty adds an object-property connection.
func (b *Builder) ConnectProperty(child, parent int64, property string) *Builder {
	b.connections.Add(fbx.NewNode("C", fbx.String("OP"), fbx.Int64(child), fbx.Int64(parent), fbx.String(property)))
	return b
}

// Build returns the assembled document.
func (b *Builder) Build() *fbx.Document {
	return b.doc
}

// Document returns the reference scene:
//
//	RootNode -> Root (Null) -> Lod0 (Mesh) <- Lod0Mesh (Geometry), Mat (Material)
func Document() *fbx.Document {
	b := NewBuilder(7400)
	root := b.Model("Root", "Null")
	lod0 := b.Model("Lod0", "Mesh")
	mesh := b.Mesh("Lod0Mesh")
	mat := b.Material("Mat")
	b.Connect(root, 0).Connect(lod0, root).Connect(mesh, lod0).Connect(mat, lod0)
	return b.Build()
}
