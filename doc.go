/*
Package fbxtools duplicates mesh nodes inside FBX scene files.

Given a file, the name of an existing node and a new name, the engine copies
the node and its mesh geometry, attaches the copy to every parent of the
original and saves the document. It is meant to be driven by a host process
(a game editor plugin, a build script, a CLI) that wants a quick yes or no
plus human readable diagnostics.

# Usage

	eng := fbxtools.New(
		fbxtools.WithLogger(logger),
		fbxtools.WithJournal(file.NewJournal("")),
	)
	eng.RegisterLogSink(func(msg string) { fmt.Println(msg) })

	res := eng.Clone(ctx, domain.CloneRequest{
		Path:        "character.fbx",
		Source:      "Body_LOD0",
		Destination: "Body_LOD1",
	})
	if !res.OK() {
		return res.Err()
	}

Host plugins that only need a flag can use AttemptClone, which mirrors the
exported C entry point of cmd/libfbxtools.

# Persistence

On success the source file is replaced atomically in binary form (see
WithOutputFormat). With WithSnapshots the engine instead writes ASCII
snapshots of the document before and after the clone and leaves the source
untouched, which is useful for diffing what a clone changed.
*/
package fbxtools
