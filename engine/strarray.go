package engine

import (
	"bytes"
	"iter"

	"github.com/bigfatbrowncat/gogit2/errors"
)

// StrArray is the engine's native string array: a count and a table of
// NUL-terminated strings obtained from the engine allocator.
//
// An empty array has Count zero and a nil table.
type StrArray struct {
	Count   int
	Strings [][]byte
}

// CString returns b up to, not including, its first NUL byte.
func CString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// Malloc allocates size bytes from the library allocator. It returns nil when
// the allocator is exhausted.
func (l *Library) Malloc(size int) []byte {
	return l.alloc.Malloc(size)
}

// Strdup copies s up to its first NUL into size+1 bytes of fresh allocator
// memory and terminates it. It returns nil when allocation fails.
func (l *Library) Strdup(s []byte) []byte {
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}

	buf := l.alloc.Malloc(len(s) + 1)
	if buf == nil {
		return nil
	}
	copy(buf, s)
	buf[len(s)] = 0
	return buf
}

// StrArrayCopy duplicates src into dst.
//
// dst is zeroed first and any storage it referenced is not released. Nil
// entries in src are skipped. When an allocation fails the partial copy is
// released, dst is left empty, and the error carries CodeAllocationFailed.
func (l *Library) StrArrayCopy(dst, src *StrArray) error {
	if dst == nil || src == nil {
		return errors.New(errors.CodeInvalidInput, "string array copy requires source and target")
	}

	*dst = StrArray{}
	n := min(src.Count, len(src.Strings))
	if n == 0 {
		return nil
	}

	table := make([][]byte, 0, n)
	for _, s := range src.Strings[:n] {
		if s == nil {
			continue
		}

		dup := l.Strdup(s)
		if dup == nil {
			l.logger.Warn("string array copy failed", "copied", len(table), "total", n)
			l.StrArrayFree(&StrArray{Count: len(table), Strings: table})
			return errors.WithContext(
				errors.New(errors.CodeAllocationFailed, "engine allocator returned no memory"),
				"copied", len(table),
			)
		}
		table = append(table, dup)
	}

	if len(table) > 0 {
		dst.Count = len(table)
		dst.Strings = table
	}
	return nil
}

// StrArrayFree returns every entry of arr to the allocator and zeroes arr.
func (l *Library) StrArrayFree(arr *StrArray) {
	if arr == nil {
		return
	}

	for _, s := range arr.Strings {
		l.alloc.Free(s)
	}
	*arr = StrArray{}
}

// View is a read-only projection of a StrArray. It does not own the array and
// is only valid while the owner keeps the array alive.
type View struct {
	arr *StrArray
}

// NewView returns a View over arr. A nil arr yields an empty view.
func NewView(arr *StrArray) View {
	return View{arr: arr}
}

// Len returns the element count.
func (v View) Len() int {
	if v.arr == nil {
		return 0
	}
	return min(v.arr.Count, len(v.arr.Strings))
}

// At returns element i as a Go string. It panics if i is out of range.
func (v View) At(i int) string {
	if i < 0 || i >= v.Len() {
		panic("engine: string array index out of range")
	}
	return CString(v.arr.Strings[i])
}

// All iterates over the elements in order.
func (v View) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i := range v.Len() {
			if !yield(i, v.At(i)) {
				return
			}
		}
	}
}

// Strings returns the elements as a new, never nil, slice.
func (v View) Strings() []string {
	out := make([]string, 0, v.Len())
	for _, s := range v.All() {
		out = append(out, s)
	}
	return out
}
