package strarray

import (
	"iter"
	"strings"

	"github.com/bigfatbrowncat/gogit2/engine"
	"github.com/bigfatbrowncat/gogit2/errors"
)

// Engine is the part of the engine a StrArray needs. It is satisfied by
// *engine.Library and *gogit2.Context.
type Engine interface {
	Malloc(size int) []byte
	StrArrayCopy(dst, src *engine.StrArray) error
	StrArrayFree(arr *engine.StrArray)
}

// StrArray is an owning wrapper around a native engine string array.
//
// The zero value is an empty array that never touches an engine.
type StrArray struct {
	eng Engine
	arr engine.StrArray
}

// New returns an empty array bound to eng.
func New(eng Engine) *StrArray {
	return &StrArray{eng: eng}
}

// Alloc builds an array holding strs. Each string gets exactly len+1 bytes of
// engine memory and a trailing NUL. An empty strs yields an empty array with
// no allocation.
//
// If the allocator runs out, everything allocated so far is released and the
// error carries CodeAllocationFailed. A nil eng with a non-empty strs fails
// with CodeInvalidInput.
func Alloc(eng Engine, strs []string) (*StrArray, error) {
	a := New(eng)
	if len(strs) == 0 {
		return a, nil
	}
	if eng == nil {
		return nil, errors.New(errors.CodeInvalidInput, "no engine to allocate from")
	}

	table := make([][]byte, 0, len(strs))
	for _, s := range strs {
		entry := dup(eng, s)
		if entry == nil {
			eng.StrArrayFree(&engine.StrArray{Count: len(table), Strings: table})
			return nil, errors.WithContext(
				errors.New(errors.CodeAllocationFailed, "engine allocator returned no memory"),
				"entries", len(strs),
			)
		}
		table = append(table, entry)
	}

	a.arr = engine.StrArray{Count: len(table), Strings: table}
	return a, nil
}

// FromSlice is like Alloc but panics where Alloc would return an error: when
// the engine allocator is exhausted or eng is nil with non-empty strs.
func FromSlice(eng Engine, strs []string) *StrArray {
	a, err := Alloc(eng, strs)
	if err != nil {
		panic("strarray: " + err.Error())
	}
	return a
}

// FromNative deep-copies native into fresh engine memory. Each entry is copied
// up to its first NUL and nil entries are skipped. native is not modified and
// the result does not reference it. It panics if the allocator is exhausted.
func FromNative(eng Engine, native *engine.StrArray) *StrArray {
	view := engine.NewView(native)

	strs := make([]string, 0, view.Len())
	for i := range view.Len() {
		if native.Strings[i] == nil {
			continue
		}
		strs = append(strs, view.At(i))
	}
	return FromSlice(eng, strs)
}

// dup allocates len(s)+1 bytes, copies s up to its first NUL and terminates
// the result. The remaining bytes stay zero.
func dup(eng Engine, s string) []byte {
	buf := eng.Malloc(len(s) + 1)
	if buf == nil {
		return nil
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	copy(buf, s)
	buf[len(buf)-1] = 0
	return buf
}

// Copy returns an independent duplicate made by the engine's copy primitive.
// Errors from the engine keep their code, typically CodeAllocationFailed or
// CodeNotInitialized. A nil or zero-value array copies to an empty one.
func (a *StrArray) Copy() (*StrArray, error) {
	if a == nil || a.eng == nil {
		return &StrArray{}, nil
	}

	out := &StrArray{eng: a.eng}
	if err := a.eng.StrArrayCopy(&out.arr, &a.arr); err != nil {
		return nil, errors.Wrap(err, errors.GetCode(err), "failed to copy string array")
	}
	return out, nil
}

// Assign replaces the contents of a with a copy of src and returns a.
//
// The copy is made before a's storage is released, so on failure a is left
// unchanged. Assigning an array to itself does nothing. A nil receiver fails
// with CodeInvalidInput before anything is copied.
func (a *StrArray) Assign(src *StrArray) (*StrArray, error) {
	if a == nil {
		return nil, errors.New(errors.CodeInvalidInput, "cannot assign to a nil string array")
	}
	if a == src {
		return a, nil
	}

	tmp, err := src.Copy()
	if err != nil {
		return nil, err
	}

	_ = a.Close()
	if tmp.eng != nil {
		a.eng = tmp.eng
	}
	a.arr = tmp.arr
	return a, nil
}

// Close releases the array's storage through the engine. An empty array is
// not passed to the engine. Close is idempotent and always returns nil.
func (a *StrArray) Close() error {
	if a == nil || a.arr.Count == 0 {
		return nil
	}
	a.eng.StrArrayFree(&a.arr)
	return nil
}

// Slice returns the elements in order. The result is never nil.
func (a *StrArray) Slice() []string {
	return a.Native().Strings()
}

// Len returns the number of elements.
func (a *StrArray) Len() int {
	return a.Native().Len()
}

// At returns element i. It panics if i is out of range.
func (a *StrArray) At(i int) string {
	return a.Native().At(i)
}

// All iterates over the elements in order.
func (a *StrArray) All() iter.Seq2[int, string] {
	return a.Native().All()
}

// Native returns a read-only view of the underlying engine array for interop
// calls. The view is valid until a is closed or reassigned.
func (a *StrArray) Native() engine.View {
	if a == nil {
		return engine.NewView(nil)
	}
	return engine.NewView(&a.arr)
}
