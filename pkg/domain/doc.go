/*
Package domain contains the core models of the fbxtools engine.

It defines what a clone operation asks for, how it can fail and what it
reports back. The package is kept free of I/O so it can be shared by the
engine, its adapters and the C host shim.

# Key Entities

  - CloneRequest: the file, the node to copy and the name of the copy.
  - Result: the outcome of one operation, also the record kept in the journal.
  - Status: the coarse outcome category derived from the error taxonomy.
  - LifecycleHooks: callbacks for observing document I/O and clone results.
*/
package domain
