package fbx_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/fbxtools/internal/testutils"
	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/aretw0/fbxtools/pkg/sample"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, doc *fbx.Document, format fbx.Format) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fbx.Encode(&buf, doc, format))
	return buf.Bytes()
}

func TestBinary_RoundTripIsByteStable(t *testing.T) {
	for _, version := range []uint32{7400, 7500, 7700} {
		b := sample.NewBuilder(version)
		uid := b.Model("Lod0", "Mesh")
		b.Connect(uid, 0)

		first := encode(t, b.Build(), fbx.FormatBinary)
		doc, format, err := fbx.Decode(bytes.NewReader(first))
		require.NoError(t, err, "version %d", version)
		assert.Equal(t, fbx.FormatBinary, format)
		assert.Equal(t, version, doc.Version)

		second := encode(t, doc, fbx.FormatBinary)
		assert.True(t, bytes.Equal(first, second), "version %d: re-encoded bytes differ", version)
	}
}

func TestBinary_BoolKeepsStoredByte(t *testing.T) {
	doc := &fbx.Document{Version: 7400, Nodes: []*fbx.Node{
		fbx.NewNode("Flags",
			fbx.Property{Type: fbx.TypeBool, Value: true, Encoding: 'T'},
			fbx.Property{Type: fbx.TypeBool, Value: true, Encoding: 'Y'},
			fbx.Bool(true), fbx.Bool(false),
		),
	}}
	first := encode(t, doc, fbx.FormatBinary)
	assert.True(t, bytes.Contains(first, []byte("CTCYC\x01C\x00")), "stored bytes are written as read")

	decoded, err := fbx.DecodeBinary(bytes.NewReader(first))
	require.NoError(t, err)
	for _, p := range decoded.Nodes[0].Properties[:3] {
		assert.Equal(t, true, p.Value)
	}
	assert.True(t, bytes.Equal(first, encode(t, decoded, fbx.FormatBinary)), "re-encoded bytes differ")
}

func TestBinary_HeaderAndFooter(t *testing.T) {
	data := encode(t, testutils.SampleDocument(), fbx.FormatBinary)

	assert.True(t, bytes.HasPrefix(data, []byte("Kaydara FBX Binary  \x00\x1a\x00")))
	assert.Equal(t, uint32(7400), binary.LittleEndian.Uint32(data[23:27]))
	assert.True(t, bytes.HasSuffix(data, []byte{0xf8, 0x5a, 0x8c, 0x6a, 0xde, 0xf5, 0xd9, 0x7e, 0xec, 0xe9, 0x0c, 0xe3, 0x75, 0x8f, 0x29, 0x0b}))
	// version is repeated 120+16 bytes before the end
	assert.Equal(t, uint32(7400), binary.LittleEndian.Uint32(data[len(data)-140:]))
}

func TestBinary_DecodesPropertiesAndCompressedArrays(t *testing.T) {
	data := encode(t, testutils.SampleDocument(), fbx.FormatBinary)
	doc, err := fbx.DecodeBinary(bytes.NewReader(data))
	require.NoError(t, err)

	objects := doc.Find("Objects")
	require.NotNil(t, objects)
	geom := objects.Child("Geometry")
	require.NotNil(t, geom)

	name, ok := geom.Properties[1].Str()
	require.True(t, ok)
	assert.Equal(t, "Lod0Mesh\x00\x01Geometry", name)

	vertices := geom.Child("Vertices").Properties[0]
	assert.Equal(t, uint32(1), vertices.Encoding, "compression flag should survive decoding")
	if diff := cmp.Diff([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, vertices.Value); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int32{0, 1, -3}, geom.Child("PolygonVertexIndex").Properties[0].Value); diff != "" {
		t.Errorf("indices mismatch (-want +got):\n%s", diff)
	}

	model := objects.Child("Model")
	assert.Equal(t, true, model.Child("Shading").Properties[0].Value)
	uid, ok := model.Properties[0].Int()
	require.True(t, ok)
	assert.NotZero(t, uid)
}

func TestBinary_AllScalarTypes(t *testing.T) {
	doc := &fbx.Document{Version: 7500, Nodes: []*fbx.Node{
		fbx.NewNode("Values",
			fbx.Int16(-7), fbx.Bool(false), fbx.Int32(-70000), fbx.Float32(1.25), fbx.Float64(-2.5),
			fbx.Int64(1<<40), fbx.String("text"), fbx.Raw([]byte{0, 1, 2}),
			fbx.Float32s([]float32{1, 2}), fbx.Int64s([]int64{1 << 33}), fbx.Bools([]bool{true, false}),
		),
	}}
	decoded, err := fbx.DecodeBinary(bytes.NewReader(encode(t, doc, fbx.FormatBinary)))
	require.NoError(t, err)
	if diff := cmp.Diff(doc.Nodes[0].Properties, decoded.Nodes[0].Properties); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestBinary_RejectsBadInput(t *testing.T) {
	good := encode(t, testutils.SampleDocument(), fbx.FormatBinary)

	t.Run("Truncated", func(t *testing.T) {
		_, err := fbx.DecodeBinary(bytes.NewReader(good[:len(good)/2]))
		assert.ErrorIs(t, err, fbx.ErrCorrupt)
		var ce *fbx.CorruptError
		assert.True(t, errors.As(err, &ce))
	})

	t.Run("OldVersion", func(t *testing.T) {
		old := append([]byte(nil), good...)
		binary.LittleEndian.PutUint32(old[23:27], 6100)
		_, err := fbx.DecodeBinary(bytes.NewReader(old))
		assert.ErrorIs(t, err, fbx.ErrUnsupportedVersion)
	})

	t.Run("NotFBX", func(t *testing.T) {
		_, err := fbx.DecodeBinary(strings.NewReader("hello"))
		assert.ErrorIs(t, err, fbx.ErrUnknownFormat)
	})
}

func TestDetect(t *testing.T) {
	bin := encode(t, testutils.SampleDocument(), fbx.FormatBinary)
	ascii := encode(t, testutils.SampleDocument(), fbx.FormatASCII)

	f, err := fbx.Detect(bin[:64])
	require.NoError(t, err)
	assert.Equal(t, fbx.FormatBinary, f)

	f, err = fbx.Detect(ascii[:64])
	require.NoError(t, err)
	assert.Equal(t, fbx.FormatASCII, f)

	f, err = fbx.Detect([]byte("FBXHeaderExtension:  {\n}"))
	require.NoError(t, err)
	assert.Equal(t, fbx.FormatASCII, f)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR\x00\x00\x00\x01")
	_, err = fbx.Detect(png)
	assert.ErrorIs(t, err, fbx.ErrUnknownFormat)
	assert.Contains(t, err.Error(), "png")

	_, err = fbx.Detect([]byte("plain text"))
	assert.ErrorIs(t, err, fbx.ErrUnknownFormat)
}

func TestASCII_Encode(t *testing.T) {
	out := string(encode(t, testutils.SampleDocument(), fbx.FormatASCII))

	assert.True(t, strings.HasPrefix(out, "; FBX 7.4.0 project file\n"))
	assert.Contains(t, out, `Model: 2000, "Model::Root", "Null" {`)
	assert.Contains(t, out, `Geometry: 4000, "Geometry::Lod0Mesh", "Mesh" {`)
	assert.Contains(t, out, "Vertices: *9 {\n\t\t\ta: 0.0,0.0,0.0,1.0,0.0,0.0,0.0,1.0,0.0\n\t\t}")
	assert.Contains(t, out, "Shading: T\n")
	assert.Contains(t, out, `C: "OO", 3000, 2000`)
	assert.Contains(t, out, "Objects:  {\n")
}

func TestASCII_RoundTrip(t *testing.T) {
	original := testutils.SampleDocument()
	doc, format, err := fbx.Decode(bytes.NewReader(encode(t, original, fbx.FormatASCII)))
	require.NoError(t, err)
	assert.Equal(t, fbx.FormatASCII, format)
	assert.Equal(t, uint32(7400), doc.Version)
	assert.Nil(t, doc.FooterID)

	objects := doc.Find("Objects")
	require.NotNil(t, objects)
	require.Len(t, objects.Children, len(original.Find("Objects").Children))

	model := objects.ChildrenNamed("Model")[1]
	name, _ := model.Properties[1].Str()
	assert.Equal(t, "Lod0\x00\x01Model", name, "text names convert back to binary form")
	uid, ok := model.Properties[0].Int()
	require.True(t, ok)
	assert.Equal(t, int64(3000), uid)

	geom := objects.Child("Geometry")
	if diff := cmp.Diff([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, geom.Child("Vertices").Properties[0].Value); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int32{0, 1, -3}, geom.Child("PolygonVertexIndex").Properties[0].Value); diff != "" {
		t.Errorf("indices mismatch (-want +got):\n%s", diff)
	}

	p := model.Child("Properties70").Child("P")
	require.Len(t, p.Properties, 7)
	assert.Equal(t, fbx.TypeFloat64, p.Properties[5].Type)
	assert.Equal(t, 1.5, p.Properties[5].Value)

	assert.Len(t, doc.Find("Connections").Children, 4)

	// A text document can be re-encoded as binary.
	_, err = fbx.DecodeBinary(bytes.NewReader(encode(t, doc, fbx.FormatBinary)))
	assert.NoError(t, err)
}

func TestASCII_TypesValuesByPosition(t *testing.T) {
	input := `; FBX 7.4.0 project file
Objects:  {
	Model: 12, "Model::Cube", "Mesh" {
		Properties70:  {
			P: "Visibility", "Visibility", "", "A",1
			P: "DefaultAttributeIndex", "int", "Integer", "",0
			P: "InheritType", "enum", "", "",1
			P: "LocalStart", "KTime", "Time", "",1924423250
			P: "Lcl Translation", "Lcl Translation", "", "A",0,2,0
		}
	}
	AnimationCurve: 14, "AnimCurve::", "" {
		KeyTime: *2 {
			a: 0,1000
		}
		KeyValueFloat: *2 {
			a: 0,1
		}
	}
	Video: 15, "Video::Tex", "Clip" {
		Content: , "AAEC"
	}
}
Connections:  {
	C: "OO",12,0
}
`
	doc, err := fbx.DecodeASCII(strings.NewReader(input))
	require.NoError(t, err)

	objects := doc.Find("Objects")
	for _, o := range objects.Children {
		assert.Equal(t, fbx.TypeInt64, o.Properties[0].Type, o.Name)
	}
	c := doc.Find("Connections").Child("C")
	assert.Equal(t, fbx.TypeInt64, c.Properties[1].Type)
	assert.Equal(t, fbx.TypeInt64, c.Properties[2].Type)

	rows := objects.Child("Model").Child("Properties70").ChildrenNamed("P")
	require.Len(t, rows, 5)
	assert.Equal(t, fbx.Float64(1), rows[0].Properties[4])
	assert.Equal(t, fbx.Int32(0), rows[1].Properties[4])
	assert.Equal(t, fbx.Int32(1), rows[2].Properties[4])
	assert.Equal(t, fbx.Int64(1924423250), rows[3].Properties[4])
	assert.Equal(t, []fbx.Property{fbx.Float64(0), fbx.Float64(2), fbx.Float64(0)}, rows[4].Properties[4:])

	curve := objects.Child("AnimationCurve")
	assert.Equal(t, []int64{0, 1000}, curve.Child("KeyTime").Properties[0].Value)
	assert.Equal(t, []float32{0, 1}, curve.Child("KeyValueFloat").Properties[0].Value)

	content := objects.Child("Video").Child("Content").Properties[0]
	assert.Equal(t, fbx.Raw([]byte{0, 1, 2}), content)

	// Re-encoding as text and reading back keeps every type.
	again, err := fbx.DecodeASCII(bytes.NewReader(encode(t, doc, fbx.FormatASCII)))
	require.NoError(t, err)
	if diff := cmp.Diff(doc.Nodes, again.Nodes, cmp.AllowUnexported(fbx.Node{})); diff != "" {
		t.Errorf("text round trip changed types (-want +got):\n%s", diff)
	}
}

func TestASCII_Malformed(t *testing.T) {
	cases := map[string]string{
		"Unbalanced":   "; FBX 7.4.0 project file\nObjects:  {\n",
		"BadArrayLen":  "; FBX 7.4.0 project file\nV: *3 {\n a: 1,2\n}\n",
		"Unterminated": "; FBX 7.4.0 project file\nCreator: \"oops\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fbx.DecodeASCII(strings.NewReader(input))
			assert.ErrorIs(t, err, fbx.ErrCorrupt)
		})
	}
}

func TestNodeClone_IsDeep(t *testing.T) {
	doc := testutils.SampleDocument()
	geom := doc.Find("Objects").Child("Geometry")
	clone := geom.Clone()

	clone.Child("Vertices").Properties[0].Value.([]float64)[0] = 42
	clone.Children = clone.Children[:1]

	assert.Equal(t, 0.0, geom.Child("Vertices").Properties[0].Value.([]float64)[0])
	assert.Len(t, geom.Children, 4)
	assert.True(t, clone.IsBlock())
}

func TestSave_ReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.fbx")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	require.NoError(t, fbx.Save(path, testutils.SampleDocument(), fbx.FormatBinary))

	doc, format, err := fbx.Load(path)
	require.NoError(t, err)
	assert.Equal(t, fbx.FormatBinary, format)
	assert.NotNil(t, doc.Find("Objects"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestSave_FailureLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.fbx")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	bad := &fbx.Document{Version: 7400, Nodes: []*fbx.Node{fbx.NewNode("X", fbx.Property{Type: fbx.TypeInt32, Value: "nope"})}}
	assert.Error(t, fbx.Save(path, bad, fbx.FormatBinary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestSplitObjectName(t *testing.T) {
	name, class := fbx.SplitObjectName(fbx.ObjectName("Lod0", "Model"))
	assert.Equal(t, "Lod0", name)
	assert.Equal(t, "Model", class)

	name, class = fbx.SplitObjectName("Plain")
	assert.Equal(t, "Plain", name)
	assert.Empty(t, class)
}

func TestDocument_Records(t *testing.T) {
	doc := &fbx.Document{Nodes: []*fbx.Node{
		fbx.NewNode("A").Add(fbx.NewNode("B"), fbx.NewNode("C").Add(fbx.NewNode("D"))),
		fbx.NewNode("E"),
	}}
	assert.Equal(t, 5, doc.Records())
}
