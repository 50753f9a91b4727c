package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tinyGrid() *Grid {
	return &Grid{
		Rings:   []RingMeta{{Start: 0, Length: 4}, {Start: 4, Length: 4}},
		NPoints: 8,
	}
}

func Test_GridField_ZeroAndRing(t *testing.T) {
	g := tinyGrid()
	f := NewGridField(g)
	for i := range f.Data {
		f.Data[i] = float64(i + 1)
	}
	assert.Equal(t, []float64{1, 2, 3, 4}, f.Ring(0))
	assert.Equal(t, []float64{5, 6, 7, 8}, f.Ring(1))
	f.Zero()
	for _, v := range f.Data {
		assert.Equal(t, 0.0, v)
	}
}

func Test_axpyGrid_accumulates(t *testing.T) {
	g := tinyGrid()
	dst := NewGridField(g)
	src := NewGridField(g)
	for i := range src.Data {
		src.Data[i] = 1
		dst.Data[i] = 10
	}
	axpyGrid(dst, src, 2)
	for _, v := range dst.Data {
		assert.Equal(t, 12.0, v)
	}
}

func Test_EachRing_panicsOnMismatchedGrid(t *testing.T) {
	g1 := tinyGrid()
	g2 := tinyGrid()
	f := NewGridField(g2)
	assert.Panics(t, func() {
		g1.EachRing(func(j, start, end int) {}, f)
	})
}

func Test_EachRing_visitsEveryRing(t *testing.T) {
	g := tinyGrid()
	f := NewGridField(g)
	seen := 0
	g.EachRing(func(j, start, end int) { seen++ }, f)
	assert.Equal(t, len(g.Rings), seen)
}
