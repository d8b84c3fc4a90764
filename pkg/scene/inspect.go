package scene

// NodeInfo summarises one Model object.
type NodeInfo struct {
	UID       int64    `json:"uid"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Mesh      string   `json:"mesh,omitempty"`
	Parents   []string `json:"parents"`
	Materials []string `json:"materials,omitempty"`
}

// Inspection is a flat listing of the scene hierarchy.
type Inspection struct {
	Path        string     `json:"path,omitempty"`
	Version     uint32     `json:"version"`
	Format      string     `json:"format,omitempty"`
	Objects     int        `json:"objects"`
	Connections int        `json:"connections"`
	Nodes       []NodeInfo `json:"nodes"`
}

// Inspect lists every node with its mesh, materials and parents.
func (s *Scene) Inspect() *Inspection {
	out := &Inspection{
		Version:     s.doc.Version,
		Objects:     len(s.order),
		Connections: len(s.links),
	}
	for _, n := range s.Nodes() {
		info := NodeInfo{UID: n.UID, Name: n.Name, Type: n.SubClass, Parents: []string{}}
		if m, ok := s.Mesh(n); ok {
			info.Mesh = m.Name
		}
		for _, p := range s.Parents(n) {
			info.Parents = append(info.Parents, p.Name)
		}
		for _, m := range s.Materials(n) {
			info.Materials = append(info.Materials, m.Name)
		}
		out.Nodes = append(out.Nodes, info)
	}
	return out
}

// Node returns the entry named name.
func (i *Inspection) Node(name string) (NodeInfo, bool) {
	for _, n := range i.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return NodeInfo{}, false
}
