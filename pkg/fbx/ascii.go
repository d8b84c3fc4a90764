package fbx

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// EncodeASCII writes doc in the text variant of the format.
// Object names are written in the "Class::Name" form used by text files.
func EncodeASCII(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	major, minor, patch := doc.Version/1000, doc.Version%1000/100, doc.Version%100/10
	fmt.Fprintf(bw, "; FBX %d.%d.%d project file\n", major, minor, patch)
	fmt.Fprintln(bw, "; Generator: fbxtools")
	fmt.Fprintln(bw, "; ----------------------------------------------------")
	for _, n := range doc.Nodes {
		fmt.Fprintln(bw)
		if err := writeASCIINode(bw, n, 0); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeASCIINode(w *bufio.Writer, n *Node, depth int) error {
	indent := strings.Repeat("\t", depth)
	w.WriteString(indent)
	w.WriteString(n.Name)
	w.WriteString(":")

	if len(n.Properties) == 1 && n.Properties[0].IsArray() {
		p := n.Properties[0]
		fmt.Fprintf(w, " *%d {\n%s\ta: ", p.Len(), indent)
		if err := writeASCIIArray(w, p); err != nil {
			return fmt.Errorf("record %q: %w", n.Name, err)
		}
		fmt.Fprintf(w, "\n%s}\n", indent)
		return nil
	}

	for i, p := range n.Properties {
		if i == 0 {
			w.WriteString(" ")
		} else {
			w.WriteString(", ")
		}
		s, err := formatASCIIValue(p)
		if err != nil {
			return fmt.Errorf("record %q: %w", n.Name, err)
		}
		w.WriteString(s)
	}

	if !n.IsBlock() {
		w.WriteString("\n")
		return nil
	}
	if len(n.Properties) == 0 {
		w.WriteString(" ")
	}
	w.WriteString(" {\n")
	for _, c := range n.Children {
		if err := writeASCIINode(w, c, depth+1); err != nil {
			return err
		}
	}
	w.WriteString(indent)
	w.WriteString("}\n")
	return nil
}

func formatASCIIValue(p Property) (string, error) {
	switch v := p.Value.(type) {
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case bool:
		if v {
			return "T", nil
		}
		return "F", nil
	case float32:
		return formatFloat(float64(v), 32), nil
	case float64:
		return formatFloat(v, 64), nil
	case string:
		return quote(asciiName(v)), nil
	case []byte:
		return quote(base64.StdEncoding.EncodeToString(v)), nil
	}
	return "", typeMismatch(p)
}

func writeASCIIArray(w *bufio.Writer, p Property) error {
	sep := func(i int) {
		if i > 0 {
			w.WriteByte(',')
		}
	}
	switch v := p.Value.(type) {
	case []float32:
		for i, x := range v {
			sep(i)
			w.WriteString(formatFloat(float64(x), 32))
		}
	case []float64:
		for i, x := range v {
			sep(i)
			w.WriteString(formatFloat(x, 64))
		}
	case []int64:
		for i, x := range v {
			sep(i)
			w.WriteString(strconv.FormatInt(x, 10))
		}
	case []int32:
		for i, x := range v {
			sep(i)
			w.WriteString(strconv.FormatInt(int64(x), 10))
		}
	case []bool:
		for i, x := range v {
			sep(i)
			if x {
				w.WriteByte('1')
			} else {
				w.WriteByte('0')
			}
		}
	default:
		return typeMismatch(p)
	}
	return nil
}

// formatFloat always keeps a decimal point so the value reads back as a float.
func formatFloat(v float64, bits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.0"
	}
	s := strconv.FormatFloat(v, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "&quot;") + `"`
}

// asciiName turns "Name\x00\x01Class" into "Class::Name".
func asciiName(s string) string {
	name, class := SplitObjectName(s)
	if class == "" && !strings.Contains(s, nameSeparator) {
		return s
	}
	return class + "::" + name
}

// binaryName turns "Class::Name" into "Name\x00\x01Class".
func binaryName(s string) string {
	i := strings.Index(s, "::")
	if i < 0 {
		return s
	}
	return ObjectName(s[i+2:], s[:i])
}
