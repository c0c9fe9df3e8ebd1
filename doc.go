// Package gogit2 is an owning, error-returning binding layer over the go-git
// version-control engine.
//
// The engine keeps process-wide state that must be initialized before any
// other call. A Context is the scoped guard for that state: NewContext
// initializes the engine, Close shuts it down, and the Context itself is the
// handle passed to every component that calls into the engine.
//
//	ctx, err := gogit2.NewContext()
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
//
//	refs := strarray.FromSlice(ctx, []string{"refs/heads/main", "refs/tags/v1"})
//	defer refs.Close()
//
// # Packages
//
// The binding is split by concern:
//
//   - engine: the native surface (init count, allocator, string-array
//     primitives, version query, options)
//   - strarray: the owning bridge between []string and the engine's native
//     string arrays
//   - git: repository operations that produce or consume string arrays
//   - errors: coded errors with one code per failure source
//
// # Guards
//
// Initialization is reference counted, so several guards may be open at once
// and the engine stays initialized until the last one is closed. Closing a
// guard twice is a no-op. A closed guard refuses copies and repository
// operations with errors.CodeNotInitialized, while releasing arrays through it
// keeps working.
//
// # Version
//
// EngineVersion reports the version of the go-git module linked into the
// binary:
//
//	v, err := gogit2.EngineVersion()
//	if err != nil {
//	    return err
//	}
//	fmt.Println(v) // 5.16.3
package gogit2
