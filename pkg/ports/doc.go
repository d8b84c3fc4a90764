/*
Package ports defines the driven ports (interfaces) for the fbxtools engine.

These interfaces decouple the clone operation from where documents live and
where operation results are recorded.

# Key Interfaces

  - DocumentStore: opens and persists FBX documents (file system or memory).
  - Journal: records the Result of every operation (file, memory or Redis).
  - DistributedLocker: serializes operations on the same document across engine instances.
*/
package ports
