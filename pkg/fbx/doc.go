/*
Package fbx reads and writes FBX 7.x scene documents.

A Document is a tree of records (Node), each carrying a name, a list of typed
properties and nested records. Both on-disk variants are supported:

  - binary ("Kaydara FBX Binary"), versions 7100 to 7700, including zlib
    compressed arrays and the 64-bit record headers introduced in 7500;
  - ASCII ("; FBX 7.4.0 project file"), which is typed heuristically on read.

The package only understands records. Objects, connections and the meaning
of specific records live in package scene.
*/
package fbx
