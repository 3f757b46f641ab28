package tiler

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	idx, err := OpenIndex(filepath.Join(dir, "index.sqlite"))
	require.Nil(t, err)
	defer idx.Close()

	rec, err := idx.Get(0, 1, 2)
	assert.Nil(t, err)
	assert.Nil(t, rec)

	props := NewProperties()
	props.SetInt("sources", 4)
	props.SetBool("edge", true)
	props.SetString("zone", "JoppaWorld.0.0.0.0.10")
	require.Nil(t, idx.Put(&Record{Level: 0, X: 1, Y: 2, Path: "a.png", Props: props}))
	require.Nil(t, idx.Put(&Record{Level: 0, X: 1, Y: 2, Path: "b.png"}))
	require.Nil(t, idx.Put(&Record{Level: 1, X: 1, Y: 2, Path: "c.png", Props: props}))

	rec, err = idx.Get(0, 1, 2)
	require.Nil(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "b.png", rec.Path)

	rec, err = idx.Get(1, 1, 2)
	require.Nil(t, err)
	v, ok := rec.Props.Int("sources")
	assert.True(t, ok)
	assert.Equal(t, 4, v)
	b, _ := rec.Props.Bool("edge")
	assert.True(t, b)

	ok, err = idx.Has(1, 1, 2)
	assert.Nil(t, err)
	assert.True(t, ok)

	n, err := idx.Count(0)
	assert.Nil(t, err)
	assert.Equal(t, 1, n)
}

func TestProperties(t *testing.T) {
	p := NewProperties()
	p.SetInt("a", 1)
	p.SetString("a", "x")

	_, ok := p.Int("a")
	assert.False(t, ok)
	s, ok := p.String("a")
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	out, err := decodeProperties(p.encode())
	require.Nil(t, err)
	s, _ = out.String("a")
	assert.Equal(t, "x", s)
}
