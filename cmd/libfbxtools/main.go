// Command libfbxtools builds the host plugin:
//
//	go build -buildmode=c-shared -o libfbxtools.so ./cmd/libfbxtools
//
// It exports RegisterDebugLogCallback and CloneNode with C linkage so that a
// game engine can load it as a native plugin.
package main

/*
#include <stdbool.h>
#include <stdlib.h>

typedef void (*DebugLogCallback)(const char* message);
typedef void (*OnCloneNodeFinish)(bool reimport);

static inline void callDebugLog(DebugLogCallback cb, const char* message) { cb(message); }
static inline void callCloneFinish(OnCloneNodeFinish cb, bool reimport) { cb(reimport); }
*/
import "C"

import (
	"os"
	"unsafe"
)

var engine = mustEngine(os.Getenv(configEnv))

// RegisterDebugLogCallback installs the diagnostic callback, replacing any
// previous one. A NULL callback silences diagnostics.
//
//export RegisterDebugLogCallback
func RegisterDebugLogCallback(cb C.DebugLogCallback) {
	if cb == nil {
		engine.RegisterLogSink(nil)
		return
	}
	engine.RegisterLogSink(func(msg string) {
		cs := C.CString(msg)
		defer C.free(unsafe.Pointer(cs))
		C.callDebugLog(cb, cs)
	})
}

// CloneNode duplicates nodeToDuplicate as newNodeName in the file at
// filePath. onFinish is called with true when the file was saved.
//
//export CloneNode
func CloneNode(filePath, nodeToDuplicate, newNodeName *C.char, onFinish C.OnCloneNodeFinish) C.bool {
	ok := engine.AttemptClone(C.GoString(filePath), C.GoString(nodeToDuplicate), C.GoString(newNodeName), func(reimport bool) {
		if onFinish != nil {
			C.callCloneFinish(onFinish, C.bool(reimport))
		}
	})
	return C.bool(ok)
}

func main() {}
