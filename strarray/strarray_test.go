package strarray

import (
	"testing"

	"github.com/bigfatbrowncat/gogit2/engine"
	"github.com/bigfatbrowncat/gogit2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEngine counts calls into the copy and free primitives.
type recordingEngine struct {
	*engine.Library
	copies  int
	frees   int
	copyErr error
}

func (r *recordingEngine) StrArrayCopy(dst, src *engine.StrArray) error {
	r.copies++
	if r.copyErr != nil {
		return r.copyErr
	}
	return r.Library.StrArrayCopy(dst, src)
}

func (r *recordingEngine) StrArrayFree(arr *engine.StrArray) {
	r.frees++
	r.Library.StrArrayFree(arr)
}

func newEngine(t *testing.T) (*recordingEngine, *engine.TrackingAllocator) {
	t.Helper()
	alloc := engine.NewTrackingAllocator()
	return &recordingEngine{Library: engine.NewLibrary(engine.WithAllocator(alloc))}, alloc
}

func TestFromSlice(t *testing.T) {
	tests := []struct {
		name string
		in   []string
	}{
		{name: "refs", in: []string{"refs/heads/main", "refs/tags/v1"}},
		{name: "single", in: []string{"HEAD"}},
		{name: "empty strings", in: []string{"", "a", ""}},
		{name: "unicode", in: []string{"refs/heads/ветка", "refs/tags/版本"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, alloc := newEngine(t)

			arr := FromSlice(eng, tt.in)
			assert.Equal(t, tt.in, arr.Slice())
			assert.Equal(t, len(tt.in), arr.Len())
			assert.Equal(t, len(tt.in), alloc.Stats().Live)

			require.NoError(t, arr.Close())
			assert.Equal(t, 0, alloc.Stats().Live)
			assert.Equal(t, 0, alloc.Stats().InvalidFrees)
		})
	}
}

func TestFromSlice_AllocatesLengthPlusOne(t *testing.T) {
	eng, alloc := newEngine(t)

	arr := FromSlice(eng, []string{"abc", "a\x00b"})
	defer arr.Close()

	assert.EqualValues(t, len("abc")+1+len("a\x00b")+1, alloc.Stats().LiveBytes)
	assert.Equal(t, []string{"abc", "a"}, arr.Slice())

	for i, entry := range arr.arr.Strings {
		assert.Equal(t, byte(0), entry[len(entry)-1], "entry %d is not terminated", i)
	}
}

func TestFromSlice_Empty(t *testing.T) {
	eng, alloc := newEngine(t)

	for _, in := range [][]string{nil, {}} {
		arr := FromSlice(eng, in)
		assert.Equal(t, []string{}, arr.Slice())
		assert.Equal(t, 0, arr.Native().Len())
		assert.Nil(t, arr.arr.Strings)
		require.NoError(t, arr.Close())
	}

	assert.Equal(t, 0, alloc.Stats().Allocations)
	assert.Equal(t, 0, eng.frees)
}

func TestFromSlice_AllocatorExhausted(t *testing.T) {
	tracking := engine.NewTrackingAllocator()
	lib := engine.NewLibrary(engine.WithAllocator(engine.NewFailingAllocator(tracking, 1)))

	assert.Panics(t, func() {
		FromSlice(lib, []string{"one", "two"})
	})
	assert.Equal(t, 0, tracking.Stats().Live)
}

func TestAlloc_AllocatorExhausted(t *testing.T) {
	tracking := engine.NewTrackingAllocator()
	lib := engine.NewLibrary(engine.WithAllocator(engine.NewFailingAllocator(tracking, 2)))

	arr, err := Alloc(lib, []string{"one", "two", "three"})
	require.Error(t, err)
	assert.Nil(t, arr)
	assert.Equal(t, errors.CodeAllocationFailed, errors.GetCode(err))
	assert.Equal(t, 0, tracking.Stats().Live)
}

func TestAlloc_NilEngine(t *testing.T) {
	arr, err := Alloc(nil, []string{"refs/heads/main"})
	require.Error(t, err)
	assert.Nil(t, arr)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	assert.Panics(t, func() {
		FromSlice(nil, []string{"refs/heads/main"})
	})

	empty, err := Alloc(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
	assert.NoError(t, empty.Close())
}

func TestDefault(t *testing.T) {
	t.Run("new", func(t *testing.T) {
		eng, alloc := newEngine(t)

		arr := New(eng)
		assert.Equal(t, []string{}, arr.Slice())
		assert.NotPanics(t, func() { _ = arr.Close() })
		assert.NotPanics(t, func() { _ = arr.Close() })

		assert.Equal(t, 0, eng.frees)
		assert.Equal(t, engine.AllocStats{}, alloc.Stats())
	})

	t.Run("zero value", func(t *testing.T) {
		var arr StrArray
		assert.Equal(t, []string{}, arr.Slice())
		assert.Equal(t, 0, arr.Len())
		assert.NoError(t, arr.Close())

		dup, err := arr.Copy()
		require.NoError(t, err)
		assert.Equal(t, []string{}, dup.Slice())
	})

	t.Run("nil", func(t *testing.T) {
		var arr *StrArray
		assert.Equal(t, 0, arr.Len())
		assert.Equal(t, []string{}, arr.Slice())
		assert.NoError(t, arr.Close())
	})
}

func TestFromNative(t *testing.T) {
	eng, alloc := newEngine(t)

	native := &engine.StrArray{
		Count:   3,
		Strings: [][]byte{eng.Strdup([]byte("refs/heads/main")), nil, eng.Strdup([]byte("refs/tags/v1"))},
	}

	arr := FromNative(eng, native)
	assert.Equal(t, []string{"refs/heads/main", "refs/tags/v1"}, arr.Slice())

	// The source is untouched and can go away without affecting the copy.
	assert.Equal(t, 3, native.Count)
	native.Strings[0][0] = 'X'
	eng.Library.StrArrayFree(native)
	assert.Equal(t, []string{"refs/heads/main", "refs/tags/v1"}, arr.Slice())

	require.NoError(t, arr.Close())
	assert.Equal(t, 0, alloc.Stats().Live)
}

func TestFromNative_Nil(t *testing.T) {
	eng, _ := newEngine(t)

	arr := FromNative(eng, nil)
	assert.Equal(t, []string{}, arr.Slice())
	assert.NoError(t, arr.Close())
	assert.Equal(t, 0, eng.frees)
}

func TestCopy(t *testing.T) {
	eng, alloc := newEngine(t)

	src := FromSlice(eng, []string{"refs/heads/main", "", "refs/tags/v1"})
	dup, err := src.Copy()
	require.NoError(t, err)
	assert.Equal(t, 1, eng.copies)
	assert.Equal(t, src.Slice(), dup.Slice())

	// Storage is independent.
	src.arr.Strings[0][0] = 'X'
	assert.Equal(t, "refs/heads/main", dup.At(0))

	require.NoError(t, src.Close())
	assert.Equal(t, []string{"refs/heads/main", "", "refs/tags/v1"}, dup.Slice())

	require.NoError(t, dup.Close())
	assert.Equal(t, 0, alloc.Stats().Live)
}

func TestCopy_EngineError(t *testing.T) {
	eng, _ := newEngine(t)
	src := FromSlice(eng, []string{"a"})
	defer src.Close()

	eng.copyErr = errors.New(errors.CodeNotInitialized, "engine is not initialized")

	dup, err := src.Copy()
	require.Error(t, err)
	assert.Nil(t, dup)
	assert.Equal(t, errors.CodeNotInitialized, errors.GetCode(err))
	assert.Contains(t, err.Error(), "failed to copy string array")
}

func TestAssign(t *testing.T) {
	eng, alloc := newEngine(t)

	src := FromSlice(eng, []string{"+refs/heads/*:refs/remotes/origin/*"})
	dst := FromSlice(eng, []string{"old-1", "old-2"})

	got, err := dst.Assign(src)
	require.NoError(t, err)
	assert.Same(t, dst, got)
	assert.Equal(t, src.Slice(), dst.Slice())

	// The two old entries were released; src and dst hold one each.
	assert.Equal(t, 2, alloc.Stats().Live)

	require.NoError(t, src.Close())
	assert.Equal(t, []string{"+refs/heads/*:refs/remotes/origin/*"}, dst.Slice())

	require.NoError(t, dst.Close())
	assert.Equal(t, 0, alloc.Stats().Live)
	assert.Equal(t, 0, alloc.Stats().InvalidFrees)
}

func TestAssign_Self(t *testing.T) {
	eng, _ := newEngine(t)
	arr := FromSlice(eng, []string{"a", "b"})
	defer arr.Close()

	got, err := arr.Assign(arr)
	require.NoError(t, err)
	assert.Same(t, arr, got)
	assert.Equal(t, []string{"a", "b"}, arr.Slice())
	assert.Equal(t, 0, eng.copies)
	assert.Equal(t, 0, eng.frees)
}

func TestAssign_NilReceiver(t *testing.T) {
	eng, alloc := newEngine(t)
	src := FromSlice(eng, []string{"a"})
	defer src.Close()

	var dst *StrArray
	got, err := dst.Assign(src)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Equal(t, 0, eng.copies)
	assert.Equal(t, 1, alloc.Stats().Live)
}

func TestAssign_FromEmpty(t *testing.T) {
	eng, alloc := newEngine(t)
	dst := FromSlice(eng, []string{"a"})

	_, err := dst.Assign(New(eng))
	require.NoError(t, err)
	assert.Equal(t, []string{}, dst.Slice())
	assert.Equal(t, 0, alloc.Stats().Live)

	src := FromSlice(eng, []string{"b"})
	var zero StrArray
	_, err = zero.Assign(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, zero.Slice())

	require.NoError(t, src.Close())
	require.NoError(t, zero.Close())
	assert.Equal(t, 0, alloc.Stats().Live)
}

func TestAssign_Failure(t *testing.T) {
	tracking := engine.NewTrackingAllocator()
	failing := engine.NewFailingAllocator(tracking, 3)
	lib := engine.NewLibrary(engine.WithAllocator(failing))

	src := FromSlice(lib, []string{"x", "y"})
	dst := FromSlice(lib, []string{"old"})
	failing.Reset(1)

	got, err := dst.Assign(src)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, errors.CodeAllocationFailed, errors.GetCode(err))
	assert.Equal(t, []string{"old"}, dst.Slice(), "receiver must be unchanged")
	assert.Equal(t, 3, tracking.Stats().Live, "partial copy must be released")

	require.NoError(t, src.Close())
	require.NoError(t, dst.Close())
	assert.Equal(t, 0, tracking.Stats().Live)
}

func TestAccessors(t *testing.T) {
	eng, _ := newEngine(t)
	arr := FromSlice(eng, []string{"a", "b", "c"})
	defer arr.Close()

	assert.Equal(t, "b", arr.At(1))
	assert.Panics(t, func() { arr.At(3) })

	var got []string
	for i, s := range arr.All() {
		assert.Equal(t, arr.At(i), s)
		got = append(got, s)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)

	view := arr.Native()
	assert.Equal(t, 3, view.Len())
	assert.Equal(t, "c", view.At(2))
}

func TestClose_Idempotent(t *testing.T) {
	eng, alloc := newEngine(t)
	arr := FromSlice(eng, []string{"a"})

	require.NoError(t, arr.Close())
	require.NoError(t, arr.Close())
	assert.Equal(t, 1, eng.frees)
	assert.Equal(t, 0, alloc.Stats().InvalidFrees)
	assert.Equal(t, []string{}, arr.Slice())
}
