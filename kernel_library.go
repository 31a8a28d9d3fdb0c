package parcels

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// nativeLoopFunc mirrors the C signature codegen.GenerateLoop emits for
// particle_loop: a packed array of particle structs, its length, an
// opaque field-set handle, and the step size.
type nativeLoopFunc func(particles uintptr, n int64, field uintptr, dt float64)

// nativeLibrary wraps a dlopen'd compiled kernel library. purego lets Go
// call into it without cgo, the same dynamic-dispatch approach the
// retrieval pack's only native-loading example (pthm-soup) uses for its
// own plugin loop.
type nativeLibrary struct {
	handle uintptr
	loop   nativeLoopFunc
}

// loadNativeLibrary dlopen's the shared library at path and resolves its
// particle_loop entry point.
func loadNativeLibrary(path string) (*nativeLibrary, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLibraryLoad, err)
	}
	var loop nativeLoopFunc
	purego.RegisterLibFunc(&loop, handle, "particle_loop")
	return &nativeLibrary{handle: handle, loop: loop}, nil
}

// run invokes the library's particle_loop over the packed row buffer
// owned by particlesOwner (kept alive only for bookkeeping; the actual
// backing array is particles) and the field set owned by fieldSetOwner,
// converting each to the uintptr the registered C signature expects.
// runtime.KeepAlive pins both owners until the call returns: the Go
// garbage collector cannot trace a bare uintptr, so without it either
// buffer could be collected mid-call.
func (l *nativeLibrary) run(particles unsafe.Pointer, particlesOwner interface{}, n int64, field unsafe.Pointer, fieldSetOwner interface{}, dt float64) {
	l.loop(uintptr(particles), n, uintptr(field), dt)
	runtime.KeepAlive(particlesOwner)
	runtime.KeepAlive(fieldSetOwner)
}

// Close unloads the library. The current purego API does not expose
// dlclose, so Close is a no-op reserved for a future purego release;
// libraries accumulate in the process's address space for the lifetime
// of the program, same as any long-lived plugin loader.
func (l *nativeLibrary) Close() error { return nil }
