// Package strarray bridges Go string slices and the engine's native string
// arrays.
//
// A StrArray owns one engine.StrArray: a count and a table of NUL-terminated
// strings, each allocated from the engine allocator. Arrays are built from a
// []string or by deep-copying a native array, duplicated with Copy or Assign
// through the engine's copy primitive, and released with Close through the
// engine's free primitive.
//
//	refs := strarray.FromSlice(ctx, []string{"refs/heads/main", "refs/tags/v1"})
//	defer refs.Close()
//
//	dup, err := refs.Copy()
//	if err != nil {
//	    return err
//	}
//	defer dup.Close()
//
//	fmt.Println(dup.Slice()) // [refs/heads/main refs/tags/v1]
//
// Entries follow C string rules: an embedded NUL ends the stored string.
//
// A StrArray is not safe for concurrent mutation.
package strarray
