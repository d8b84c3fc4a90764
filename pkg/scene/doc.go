// Package scene indexes the object graph of an FBX document and implements
// node cloning on top of it.
//
// Objects are the records of the Objects section, identified by UID.
// Connections are the C records of the Connections section; a connection
// points from a child (source) into a parent (destination). UID 0 is the
// implicit scene root.
package scene
