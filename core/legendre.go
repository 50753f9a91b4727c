package core

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// EpsilonTable holds ε_l^m = sqrt((l²-m²)/(4l²-1)) for 0 <= m <= l <=
// L+1, used by the meridional-derivative recurrence in core/operators.go
// and by the Legendre-polynomial recurrence below. The numerator
// vanishes at m == l, so ε_l^l = 0; a negative numerator is clamped to
// zero.
type EpsilonTable struct {
	Trunc int
	eps   *mat.Dense // (L+2) x (L+1)
}

// NewEpsilonTable precomputes ε_l^m for truncation L.
func NewEpsilonTable(L int) *EpsilonTable {
	e := mat.NewDense(L+2, L+1, nil)
	for l := 0; l <= L+1; l++ {
		for m := 0; m <= l && m <= L; m++ {
			num := float64(l*l - m*m)
			den := float64(4*l*l - 1)
			if num < 0 {
				num = 0
			}
			e.Set(l, m, math.Sqrt(num/den))
		}
	}
	return &EpsilonTable{Trunc: L, eps: e}
}

// At returns ε_l^m, or 0 outside the (l, m) domain it was built for.
func (t *EpsilonTable) At(l, m int) float64 {
	if m < 0 || l < 0 || m > l || l > t.Trunc+1 || m > t.Trunc {
		return 0
	}
	return t.eps.At(l, m)
}

// LegendreTable holds the normalized associated Legendre polynomials
// P_l^m(sinφ_j), 0 <= m <= l <= L+1, for the Northern-hemisphere rings
// of a Gaussian grid only; Southern-hemisphere values are recovered at
// transform time by the parity relation P_l^m(-x) = (-1)^(l+m) P_l^m(x).
type LegendreTable struct {
	Trunc    int
	NLatHalf int
	Eps      *EpsilonTable
	P        []*mat.Dense // P[j], shape (L+2) x (L+1), one per Northern ring
}

// NewLegendreTable computes the table for the NLatHalf Northern rings
// whose sines-of-latitude are sinLat (ascending from the equator is
// not required; order must match the grid's Northern half).
func NewLegendreTable(L int, sinLat []float64) *LegendreTable {
	eps := NewEpsilonTable(L)
	t := &LegendreTable{Trunc: L, NLatHalf: len(sinLat), Eps: eps, P: make([]*mat.Dense, len(sinLat))}
	for j, x := range sinLat {
		t.P[j] = legendreColumn(L, x, eps)
	}
	return t
}

// legendreColumn fills P_l^m(x) for a single latitude using the
// standard three-term recurrence seeded by the diagonal and
// super-diagonal closed forms.
func legendreColumn(L int, x float64, eps *EpsilonTable) *mat.Dense {
	cosLat := math.Sqrt(1 - x*x)
	P := mat.NewDense(L+2, L+1, nil)

	P.Set(0, 0, math.Sqrt(0.5))
	for m := 1; m <= L; m++ {
		P.Set(m, m, math.Sqrt((2*float64(m)+1)/(2*float64(m)))*cosLat*P.At(m-1, m-1))
	}
	for m := 0; m <= L; m++ {
		P.Set(m+1, m, math.Sqrt(2*float64(m)+3)*x*P.At(m, m))
	}
	for m := 0; m <= L; m++ {
		for l := m + 2; l <= L+1; l++ {
			e1 := eps.At(l, m)
			if e1 == 0 {
				continue
			}
			e2 := eps.At(l-1, m)
			P.Set(l, m, (x*P.At(l-1, m)-e2*P.At(l-2, m))/e1)
		}
	}
	return P
}

// At returns P_l^m(sinφ_j) for Northern ring j, applying the parity
// relation when southern is true.
func (t *LegendreTable) At(j, l, m int, southern bool) float64 {
	if m > l {
		return 0
	}
	v := t.P[j].At(l, m)
	if southern && (l+m)%2 != 0 {
		return -v
	}
	return v
}
