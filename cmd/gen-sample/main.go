package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/aretw0/fbxtools/pkg/sample"
)

func main() {
	targetDir := "examples/sample"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	// Ensure dir exists
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating sample scenes in: %s\n", targetDir)

	// 1. Reference scene, binary and text
	check(fbx.Save(filepath.Join(targetDir, "scene.fbx"), sample.Document(), fbx.FormatBinary))
	check(fbx.Save(filepath.Join(targetDir, "scene_ascii.fbx"), sample.Document(), fbx.FormatASCII))

	// 2. Wide hierarchy: one mesh under two parents, one of them through a property link
	b := sample.NewBuilder(7500)
	root := b.Model("Root", "Null")
	pivot := b.Model("Pivot", "Null")
	body := b.Model("Body", "Mesh")
	geom := b.Mesh("BodyMesh")
	mat := b.Material("Paint")
	b.Connect(root, 0).Connect(pivot, root).Connect(body, root).Connect(geom, body).Connect(mat, body).
		ConnectProperty(body, pivot, "Lcl Rotation")
	check(fbx.Save(filepath.Join(targetDir, "rig.fbx"), b.Build(), fbx.FormatBinary))

	// 3. Node without geometry
	b = sample.NewBuilder(7400)
	empty := b.Model("Empty", "Null")
	b.Connect(empty, 0)
	check(fbx.Save(filepath.Join(targetDir, "empty.fbx"), b.Build(), fbx.FormatBinary))

	fmt.Println("Done. Verify contents in", targetDir)
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
