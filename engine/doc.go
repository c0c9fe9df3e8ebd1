// Package engine is the native surface the gogit2 binding calls into.
//
// It fronts go-git with the primitives a C version-control library exposes:
// a process-wide initialization count (Init/Shutdown), an allocator whose
// memory must be released through the matching free routine, the
// "count + string table" array layout (StrArray) with copy and free
// primitives, a version query, and global options.
//
// Nothing here adds version-control semantics. Repository operations live in
// the git package and use go-git directly; this package only supplies the
// lifetime, memory and option state they depend on.
//
// # Lifetime
//
// Default returns the process-wide Library. Every Init must be paired with a
// Shutdown; the library stays initialized while the count is positive:
//
//	lib := engine.Default()
//	if _, err := lib.Init(); err != nil {
//	    return err
//	}
//	defer lib.Shutdown()
//
// Isolated libraries built with NewLibrary have their own count, allocator and
// options, which keeps tests independent of each other.
//
// # Memory
//
// StrArray entries are NUL-terminated byte slices obtained from the library's
// Allocator. StrArrayCopy duplicates an array into fresh storage and
// StrArrayFree returns every entry to the allocator. TrackingAllocator, the
// default, counts live allocations so leaks and double frees are observable.
package engine
