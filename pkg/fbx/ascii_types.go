package fbx

import (
	"encoding/base64"
	"strings"
)

// Property template types whose values are stored as I or L in binary files.
// Every other numeric template value is a D.
var (
	int32Templates = map[string]bool{
		"int": true, "Integer": true, "enum": true, "bool": true, "Bool": true,
	}
	int64Templates = map[string]bool{
		"KTime": true, "ULongLong": true, "LongLong": true,
	}
)

// retype restores the binary property types a text file cannot express.
// The type of a value follows from where it sits: object and connection
// UIDs are L, template rows carry their type by name, and a few animation
// records have fixed array types.
func retype(doc *Document) {
	if objects := doc.Find("Objects"); objects != nil {
		for _, o := range objects.Children {
			widen(o.Properties, 0)
		}
	}
	if docs := doc.Find("Documents"); docs != nil {
		for _, d := range docs.ChildrenNamed("Document") {
			widen(d.Properties, 0)
		}
	}
	if conns := doc.Find("Connections"); conns != nil {
		for _, c := range conns.Children {
			if c.Name == "C" {
				widen(c.Properties, 1, 2)
			}
		}
	}

	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			switch n.Name {
			case "P":
				retypeTemplateRow(n)
			case "Content":
				unpackContent(n)
			case "LocalTime", "ReferenceTime", "RootNode":
				widen(n.Properties)
			case "KeyTime":
				widenArray(n.Properties)
			case "KeyValueFloat", "KeyAttrDataFloat":
				narrowArray(n.Properties)
			}
			walk(n.Children)
		}
	}
	walk(doc.Nodes)
}

// widen turns integer properties into L. With no indexes every property is widened.
func widen(props []Property, indexes ...int) {
	if len(indexes) == 0 {
		for i := range props {
			indexes = append(indexes, i)
		}
	}
	for _, i := range indexes {
		if i >= len(props) {
			continue
		}
		if v, ok := props[i].Int(); ok {
			props[i] = Int64(v)
		}
	}
}

// retypeTemplateRow types the values of a P row ("name", "type", "label", "flags", values...).
func retypeTemplateRow(n *Node) {
	if len(n.Properties) < 5 {
		return
	}
	kind, _ := n.Properties[1].Str()
	for i := 4; i < len(n.Properties); i++ {
		p := n.Properties[i]
		if _, isText := p.Str(); isText || p.IsArray() {
			continue
		}
		f, ok := p.Float()
		if !ok {
			continue
		}
		switch {
		case int64Templates[kind]:
			n.Properties[i] = Int64(int64(f))
		case int32Templates[kind]:
			n.Properties[i] = Int32(int32(f))
		default:
			n.Properties[i] = Float64(f)
		}
	}
}

// unpackContent restores embedded media written as base64 text.
func unpackContent(n *Node) {
	for i, p := range n.Properties {
		s, ok := p.Str()
		if !ok || s == "" {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
		if err != nil {
			continue
		}
		n.Properties[i] = Raw(raw)
	}
}

func widenArray(props []Property) {
	for i, p := range props {
		if v, ok := p.Value.([]int32); ok {
			out := make([]int64, len(v))
			for j, x := range v {
				out[j] = int64(x)
			}
			props[i] = Int64s(out)
		}
	}
}

func narrowArray(props []Property) {
	for i, p := range props {
		switch v := p.Value.(type) {
		case []float64:
			out := make([]float32, len(v))
			for j, x := range v {
				out[j] = float32(x)
			}
			props[i] = Float32s(out)
		case []int32:
			out := make([]float32, len(v))
			for j, x := range v {
				out[j] = float32(x)
			}
			props[i] = Float32s(out)
		}
	}
}
