package scene

import (
	"encoding/binary"
	"fmt"

	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/google/uuid"
)

// DefaultMeshSuffix is appended to the clone name to name its mesh.
const DefaultMeshSuffix = "Mesh"

// CloneOptions controls CloneNode.
type CloneOptions struct {
	// Name of the new node. Required.
	Name string
	// MeshName of the new geometry. Defaults to Name + DefaultMeshSuffix.
	MeshName string
	// LinkMaterials shares the source node's materials with the clone.
	LinkMaterials bool
}

// CloneResult describes the objects created by CloneNode.
type CloneResult struct {
	Node    *Object
	Mesh    *Object
	Parents []*Object
}

// CloneNode copies node and its mesh under fresh UIDs and links the copy to
// every parent of the source, keeping the connection kind and property.
// Nothing is modified unless all preconditions hold.
func (s *Scene) CloneNode(node *Object, opts CloneOptions) (*CloneResult, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("%w: clone name is required", domain.ErrInvalidRequest)
	}
	if opts.Name == node.Name {
		return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, node.Name)
	}
	if _, taken := s.FindNodeByName(opts.Name); taken {
		return nil, fmt.Errorf("%w: %q", domain.ErrNameCollision, opts.Name)
	}
	mesh, ok := s.Mesh(node)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrMeshNotFound, node.Name)
	}
	if opts.MeshName == "" {
		opts.MeshName = opts.Name + DefaultMeshSuffix
	}
	parentLinks := s.Connections(node)

	clone := s.copyObject(node, opts.Name)
	meshClone := s.copyObject(mesh, opts.MeshName)
	s.Connect(meshClone, clone)

	res := &CloneResult{Node: clone, Mesh: meshClone}
	for _, c := range parentLinks {
		s.connect(c.Kind, clone.UID, c.Parent, c.Property)
		if p, ok := s.byUID[c.Parent]; ok {
			res.Parents = append(res.Parents, p)
		}
	}
	if opts.LinkMaterials {
		for _, c := range s.links {
			if c.Parent != node.UID {
				continue
			}
			if src, ok := s.byUID[c.Child]; ok && src.Class == "Material" {
				s.connect(c.Kind, src.UID, clone.UID, c.Property)
			}
		}
	}

	s.countObject(clone.Record.Name)
	s.countObject(meshClone.Record.Name)
	return res, nil
}

// copyObject deep-copies the record of o, renames it and appends it to the
// Objects section under a new UID.
func (s *Scene) copyObject(o *Object, name string) *Object {
	rec := o.Record.Clone()
	uid := s.newUID()
	rec.Properties[0] = fbx.Int64(uid)
	rec.Properties[1] = fbx.String(fbx.ObjectName(name, o.Class))
	s.objects.Add(rec)

	c := &Object{UID: uid, Name: name, Class: o.Class, SubClass: o.SubClass, Record: rec}
	s.order = append(s.order, c)
	s.byUID[uid] = c
	return c
}

// newUID derives a positive, unused UID from a random UUID.
func (s *Scene) newUID() int64 {
	for {
		id := uuid.New()
		uid := int64(binary.BigEndian.Uint64(id[:8]) &^ (1 << 63))
		if _, taken := s.byUID[uid]; !taken && uid != RootUID {
			return uid
		}
	}
}

// countObject bumps the Definitions counters for one more object of the given
// record type. Documents without Definitions are left alone.
func (s *Scene) countObject(recordName string) {
	if s.definitions == nil {
		return
	}
	bump(s.definitions.Child("Count"))
	for _, t := range s.definitions.ChildrenNamed("ObjectType") {
		if len(t.Properties) == 0 {
			continue
		}
		if name, _ := t.Properties[0].Str(); name == recordName {
			bump(t.Child("Count"))
			return
		}
	}
}

func bump(n *fbx.Node) {
	if n == nil || len(n.Properties) == 0 {
		return
	}
	switch v := n.Properties[0].Value.(type) {
	case int32:
		n.Properties[0].Value = v + 1
	case int64:
		n.Properties[0].Value = v + 1
	case int16:
		n.Properties[0].Value = v + 1
	}
}
