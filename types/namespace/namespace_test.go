package namespace

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/napalu/nestopt/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("plain key returns root", func(t *testing.T) {
		root := New()
		node, key, err := root.Resolve("verbose")
		require.NoError(t, err)
		assert.Same(t, root, node)
		assert.Equal(t, "verbose", key)
		assert.Equal(t, 0, root.Len(), "resolving a plain key must not create anything")
	})

	t.Run("creates intermediate nodes once", func(t *testing.T) {
		root := New()
		ab, key, err := root.Resolve("a.b.c")
		require.NoError(t, err)
		assert.Equal(t, "c", key)

		a, key, err := root.Resolve("a.b")
		require.NoError(t, err)
		assert.Equal(t, "b", key)
		child, ok := a.Get("b")
		require.True(t, ok)
		assert.Same(t, ab, child, "a.b must be the node created for a.b.c")

		again, _, err := root.Resolve("a.b.d")
		require.NoError(t, err)
		assert.Same(t, ab, again)
		assert.Equal(t, []string{"a"}, root.Keys())
	})

	t.Run("read after write", func(t *testing.T) {
		root := New()
		for dest, v := range map[string]any{"x": 1, "db.host": "local", "db.pool.size": 4} {
			require.NoError(t, root.SetPath(dest, v))
			got, ok := root.Lookup(dest)
			assert.True(t, ok)
			assert.Equal(t, v, got, dest)
		}
	})

	t.Run("nil intermediate is replaced", func(t *testing.T) {
		root := New()
		root.Set("foo", nil)
		node, key, err := root.Resolve("foo.bar")
		require.NoError(t, err)
		node.Set(key, true)
		v, ok := root.Lookup("foo.bar")
		assert.True(t, ok)
		assert.Equal(t, true, v)
	})

	t.Run("scalar intermediate conflicts", func(t *testing.T) {
		root := New()
		root.Set("a", 1)
		_, _, err := root.Resolve("a.b.c")
		assert.ErrorIs(t, err, errs.ErrDestinationConflict)
		v, _ := root.Get("a")
		assert.Equal(t, 1, v, "a conflicting resolve must leave the tree untouched")
	})

	t.Run("deep conflict leaves no partial nodes", func(t *testing.T) {
		root := New()
		require.NoError(t, root.SetPath("a.b", "leaf"))
		_, _, err := root.Resolve("a.b.c.d")
		assert.ErrorIs(t, err, errs.ErrDestinationConflict)
		assert.Equal(t, map[string]any{"a": map[string]any{"b": "leaf"}}, root.ToMap())
	})
}

func TestLookup(t *testing.T) {
	root := New()
	require.NoError(t, root.SetPath("a.b", 1))

	_, ok := root.Lookup("a.c")
	assert.False(t, ok)
	_, ok = root.Lookup("a.b.c")
	assert.False(t, ok)
	_, ok = root.Lookup("z.y")
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, root.Keys(), "lookups never create nodes")
	assert.True(t, root.HasPath("a.b"))
}

func TestMerge(t *testing.T) {
	root := New()
	require.NoError(t, root.SetPath("foo.keep", "yes"))
	foo, _ := root.Get("foo")

	root.Merge(map[string]any{
		"foo": map[string]any{"bar": "cux", "ns": map[string]any{"x": 1}},
		"top": []any{1, 2},
	})

	after, _ := root.Get("foo")
	assert.Same(t, foo, after, "merging into an existing node keeps it")

	want := map[string]any{
		"foo": map[string]any{"keep": "yes", "bar": "cux", "ns": map[string]any{"x": 1}},
		"top": []any{1, 2},
	}
	if diff := cmp.Diff(want, root.ToMap()); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestFromMap(t *testing.T) {
	ns := FromMap(map[string]any{"b": 2, "a": map[string]any{"c": 3}})
	assert.Equal(t, []string{"a", "b"}, ns.Keys())
	v, ok := ns.Lookup("a.c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	child := New()
	child.Set("x", nil)
	ns = FromMap(map[string]any{"a": child, "n": nil})
	v, ok = ns.Lookup("a.x")
	assert.True(t, ok)
	assert.Nil(t, v)
	v, ok = ns.Get("n")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	root := New()
	root.Set("z", 1)
	require.NoError(t, root.SetPath("db.host", "h"))
	root.Set("a", []any{"x"})

	out, err := json.Marshal(root)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"db":{"host":"h"},"a":["x"]}`, string(out))
}

func TestString(t *testing.T) {
	root := New()
	root.Set("flag", true)
	root.Set("name", "it's")
	root.Set("none", nil)
	require.NoError(t, root.SetPath("db.port", 5432))
	assert.Equal(t, `Namespace(flag=True, name='it\'s', none=None, db=Namespace(port=5432))`, root.String())
}
