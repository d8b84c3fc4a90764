package fbx_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Files laid out the way Blender's binary exporter and the FBX SDK writers
// produce them, including a 7300 binary with 32 bit record headers.
var exporterFiles = []struct {
	file       string
	format     fbx.Format
	version    uint32
	creator    string
	models     int
	byteStable bool
}{
	{"blender_7400.fbx", fbx.FormatBinary, 7400, "Blender (stable FBX IO) - 2.93.1 - 4.22.0", 1, false},
	{"sdk_7300.fbx", fbx.FormatBinary, 7300, "FBX SDK/FBX Plugins version 2014.1", 2, true},
	{"maya_7300_ascii.fbx", fbx.FormatASCII, 7300, "FBX SDK/FBX Plugins version 2014.1", 1, false},
}

func TestExporterFiles_DecodeAndReencode(t *testing.T) {
	for _, tc := range exporterFiles {
		t.Run(tc.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("testdata", tc.file))
			require.NoError(t, err)

			doc, format, err := fbx.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tc.format, format)
			assert.Equal(t, tc.version, doc.Version)

			creator, _ := doc.Find("FBXHeaderExtension").Child("Creator").Properties[0].Str()
			assert.Equal(t, tc.creator, creator)
			assert.Len(t, doc.Find("Objects").ChildrenNamed("Model"), tc.models)

			again := encode(t, doc, tc.format)
			if tc.byteStable {
				assert.True(t, bytes.Equal(data, again), "re-encoded bytes differ")
			}
			decoded, _, err := fbx.Decode(bytes.NewReader(again))
			require.NoError(t, err)
			if diff := cmp.Diff(doc.Nodes, decoded.Nodes, cmp.AllowUnexported(fbx.Node{})); diff != "" {
				t.Errorf("re-encoded document differs (-want +got):\n%s", diff)
			}

			if tc.format != fbx.FormatASCII {
				return
			}
			// A text file saved as binary keeps every record and type.
			binaryCopy, _, err := fbx.Decode(bytes.NewReader(encode(t, doc, fbx.FormatBinary)))
			require.NoError(t, err)
			if diff := cmp.Diff(doc.Nodes, binaryCopy.Nodes, cmp.AllowUnexported(fbx.Node{})); diff != "" {
				t.Errorf("binary copy differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExporterFiles_BinaryDetails(t *testing.T) {
	doc, _, err := fbx.Load(filepath.Join("testdata", "blender_7400.fbx"))
	require.NoError(t, err)
	vertices := doc.Find("Objects").Child("Geometry").Child("Vertices").Properties[0]
	assert.Equal(t, uint32(1), vertices.Encoding, "large arrays are zlib compressed")
	assert.Equal(t, 24, vertices.Len())
	shading := doc.Find("Objects").Child("Model").Child("Shading").Properties[0]
	assert.Equal(t, fbx.Bool(true), shading)

	doc, _, err = fbx.Load(filepath.Join("testdata", "sdk_7300.fbx"))
	require.NoError(t, err)
	models := doc.Find("Objects").ChildrenNamed("Model")
	assert.Equal(t, uint32('Y'), models[0].Child("Shading").Properties[0].Encoding)
	assert.Equal(t, uint32('T'), models[1].Child("Shading").Properties[0].Encoding)
	look := doc.Find("Objects").Child("NodeAttribute").Child("Look").Properties[0]
	assert.Equal(t, fbx.Int16(1), look)
	keys := doc.Find("Objects").Child("AnimationCurve").Child("KeyValueFloat").Properties[0]
	assert.Equal(t, []float32{0, 1.5}, keys.Value)
}

func TestExporterFiles_TextTypes(t *testing.T) {
	doc, _, err := fbx.Load(filepath.Join("testdata", "maya_7300_ascii.fbx"))
	require.NoError(t, err)

	objects := doc.Find("Objects")
	for _, o := range objects.Children {
		assert.Equal(t, fbx.TypeInt64, o.Properties[0].Type, o.Name)
	}
	for _, c := range doc.Find("Connections").ChildrenNamed("C") {
		assert.Equal(t, fbx.TypeInt64, c.Properties[1].Type)
		assert.Equal(t, fbx.TypeInt64, c.Properties[2].Type)
	}
	document := doc.Find("Documents").Child("Document")
	assert.Equal(t, fbx.Int64(2080155376), document.Properties[0])
	assert.Equal(t, fbx.Int64(0), document.Child("RootNode").Properties[0])

	settings := doc.Find("GlobalSettings").Child("Properties70").ChildrenNamed("P")
	byName := make(map[string]fbx.Property)
	for _, p := range settings {
		name, _ := p.Properties[0].Str()
		if len(p.Properties) > 4 {
			byName[name] = p.Properties[4]
		}
	}
	assert.Equal(t, fbx.Int32(1), byName["UpAxis"])
	assert.Equal(t, fbx.Float64(1), byName["UnitScaleFactor"])
	assert.Equal(t, fbx.Int32(11), byName["TimeMode"])
	assert.Equal(t, fbx.Int64(1924423250), byName["TimeSpanStart"])
	assert.Equal(t, fbx.Float64(-1), byName["CustomFrameRate"])

	content := objects.Child("Video").Child("Content").Properties[0]
	require.Equal(t, fbx.TypeRaw, content.Type)
	assert.True(t, bytes.HasPrefix(content.Value.([]byte), []byte("\x89PNG")))

	name, _ := objects.Child("Geometry").Properties[1].Str()
	assert.Equal(t, fbx.ObjectName("", "Geometry"), name)
}
