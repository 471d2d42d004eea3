package main

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"", "utf-8", "UTF8"} {
		enc, err := lookupEncoding(name)
		require.NoError(t, err, name)
		assert.Nil(t, enc, name)
	}

	enc, err := lookupEncoding("latin1")
	require.NoError(t, err)
	assert.NotNil(t, enc)

	_, err = lookupEncoding("klingon")
	assert.ErrorContains(t, err, `unknown encoding "klingon"`)
}

func TestPrepareInput_SeekableFileIsUsedDirectly(t *testing.T) {
	name := createTestFile(t, "in.csv", "a,b\n")

	for _, needSeek := range []bool{false, true} {
		input, cleanup, err := prepareInput(name, nil, needSeek)
		require.NoError(t, err)
		f, ok := input.(*os.File)
		require.True(t, ok)
		assert.Equal(t, name, f.Name())

		cleanup()
		_, err = f.Seek(0, io.SeekCurrent)
		assert.ErrorIs(t, err, os.ErrClosed)
	}
}

func TestPrepareInput_DecodesWhileReading(t *testing.T) {
	name := createTestFile(t, "in.csv", "caf\xe9,na\xefve\n")
	enc, err := lookupEncoding("latin1")
	require.NoError(t, err)

	input, cleanup, err := prepareInput(name, enc, false)
	require.NoError(t, err)
	defer cleanup()

	_, isFile := input.(*os.File)
	assert.False(t, isFile)

	contents, err := io.ReadAll(input)
	require.NoError(t, err)
	assert.Equal(t, "café,naïve\n", string(contents))
}

func TestPrepareInput_DecodesThroughSpoolWhenSeekNeeded(t *testing.T) {
	name := createTestFile(t, "in.csv", "caf\xe9,na\xefve\n")
	enc, err := lookupEncoding("latin1")
	require.NoError(t, err)

	input, cleanup, err := prepareInput(name, enc, true)
	require.NoError(t, err)
	f, ok := input.(*os.File)
	require.True(t, ok)
	spooled := f.Name()
	assert.NotEqual(t, name, spooled)

	contents, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "café,naïve\n", string(contents))

	cleanup()
	_, err = os.Stat(spooled)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPrepareInput_Stdin(t *testing.T) {
	stdin := replaceStdin(t)
	_, err := stdin.WriteString("a,b\n")
	require.NoError(t, err)
	require.NoError(t, stdin.Close())

	input, cleanup, err := prepareInput("-", nil, false)
	require.NoError(t, err)
	assert.Same(t, os.Stdin, input)
	cleanup()

	input, cleanup, err = prepareInput("-", nil, true)
	require.NoError(t, err)
	defer cleanup()

	f, ok := input.(*os.File)
	require.True(t, ok)
	assert.NotSame(t, os.Stdin, f)
	_, err = f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)

	contents, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(contents))
}

func TestPrepareInput_MissingFile(t *testing.T) {
	_, _, err := prepareInput("/does/not/exist.csv", nil, false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSpool(t *testing.T) {
	f, err := spool(struct{ io.Reader }{strings.NewReader("x,y\nz\n")})
	require.NoError(t, err)
	t.Cleanup(func() { disposeTemp(f) })

	pos, err := f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)

	contents, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "x,y\nz\n", string(contents))
}
