package cookies

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func Test_Merge_OverwritesAndPersists(t *testing.T) {

	store := NewStore(filepath.Join(t.TempDir(), "data", "cookies.json"))
	current := Jar{"a": "1"}

	merged := store.Merge([]string{"a=2; Path=/", "b=3; HttpOnly"}, current)

	assert.Equal(t, Jar{"a": "2", "b": "3"}, merged)
	assert.Equal(t, Jar{"a": "1"}, current)
	assert.Equal(t, merged, store.Load())
}

func Test_Merge_SkipsMalformedHeaders(t *testing.T) {

	store := NewStore(filepath.Join(t.TempDir(), "cookies.json"))

	merged := store.Merge([]string{"garbage", "=novalue", " sid = x ; Secure"}, Jar{"a": "1"})

	assert.Equal(t, Jar{"a": "1", "sid": "x"}, merged)
}

func Test_Merge_NoHeaders_DoesNotWrite(t *testing.T) {

	store := NewStore(filepath.Join(t.TempDir(), "cookies.json"))

	merged := store.Merge(nil, Jar{"a": "1"})

	assert.Equal(t, Jar{"a": "1"}, merged)
	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func Test_Load_MissingOrCorrupt_ReturnsEmptyJar(t *testing.T) {

	dir := t.TempDir()
	assert.Equal(t, Jar{}, NewStore(filepath.Join(dir, "absent.json")).Load())

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0600))
	assert.Equal(t, Jar{}, NewStore(corrupt).Load())

	array := filepath.Join(dir, "array.json")
	require.NoError(t, os.WriteFile(array, []byte(`["a"]`), 0600))
	assert.Equal(t, Jar{}, NewStore(array).Load())
}

func Test_Header_IsSorted(t *testing.T) {
	assert.Equal(t, "a=1; b=2; c=3", Jar{"c": "3", "a": "1", "b": "2"}.Header())
	assert.Equal(t, "", Jar{}.Header())
}

func Test_ParseInjected(t *testing.T) {

	jar, err := ParseInjected(`{"wt2":"token","__zp_stoken__":"abc"}`)
	require.NoError(t, err)
	assert.Equal(t, Jar{"wt2": "token", "__zp_stoken__": "abc"}, jar)

	file := filepath.Join(t.TempDir(), "injected.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"sid":"1"}`), 0600))
	jar, err = ParseInjected(file)
	require.NoError(t, err)
	assert.Equal(t, Jar{"sid": "1"}, jar)

	_, err = ParseInjected("sid=1")
	assert.Error(t, err)
}
