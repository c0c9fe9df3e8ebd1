// Package errors defines the coded errors returned by the gogit2 binding.
//
// Every failure source in the binding has its own ErrorCode: a guard that
// could not initialize the engine reports CodeInitFailed, a copy that ran out
// of engine memory reports CodeAllocationFailed, a repository call made after
// the guard was closed reports CodeNotInitialized, and so on. Callers branch on
// the code instead of parsing messages:
//
//	arr, err := src.Copy()
//	if errors.GetCode(err) == errors.CodeAllocationFailed {
//	    // the engine allocator is exhausted
//	}
//
// Errors are immutable values compatible with the standard library (errors.Is,
// errors.As, errors.Unwrap). They carry a retry classification, optional
// context metadata, and serialize to a flat JSON ErrorResponse that omits the
// wrapped chain.
//
// Creating errors:
//
//	err := errors.New(errors.CodeNotFound, "remote not found")
//	err := errors.Newf(errors.CodeInvalidInput, "invalid refspec %q", spec)
//
// Wrapping engine errors:
//
//	if err := lib.StrArrayCopy(dst, src); err != nil {
//	    return errors.Wrap(err, errors.GetCode(err), "strarray copy")
//	}
//
// Adding context:
//
//	err = errors.WithContext(err, "remote", "origin")
package errors
