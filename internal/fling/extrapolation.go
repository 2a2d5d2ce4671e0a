// SPDX-License-Identifier: Unlicense OR MIT

package fling

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Extrapolation computes a 1-dimensional velocity estimate
// for a set of timestamped points using the least squares
// fit of a 2nd order polynomial. The same method is used
// by Android.
type Extrapolation struct {
	// Index into points.
	idx int
	// Circular buffer of samples.
	samples []sample
	// Pre-allocated cache for samples.
	cache [historySize]sample

	// Filtered values and times
	values [historySize]float32
	times  [historySize]float32
}

type sample struct {
	t time.Duration
	v float32
}

type matrix struct {
	rows, cols int
	data       []float32
}

// Estimate is the result of an extrapolation.
type Estimate struct {
	// Velocity is the rate of change at the newest sample,
	// in units per second.
	Velocity float32
	// Distance is the net change across the samples used for
	// the estimate.
	Distance float32
	// Duration is the time spanned by the samples used.
	Duration time.Duration
}

type coefficients [degree + 1]float32

const (
	degree       = 2
	historySize  = 20
	maxAge       = 100 * time.Millisecond
	maxSampleGap = 40 * time.Millisecond
)

// Sample adds an absolute sample to the estimation.
func (e *Extrapolation) Sample(t time.Duration, val float32) {
	if e.samples == nil {
		e.samples = e.cache[:0]
	}
	s := sample{
		t: t,
		v: val,
	}
	if e.idx == len(e.samples) && e.idx < cap(e.samples) {
		e.samples = append(e.samples, s)
	} else {
		e.samples[e.idx] = s
	}
	e.idx++
	if e.idx == cap(e.samples) {
		e.idx = 0
	}
}

// Estimate returns an estimate of the implied velocity and
// distance for the points sampled. It reports false if there
// are no samples. The velocity is zero if there are too few
// recent samples or the fit failed.
func (e *Extrapolation) Estimate() (Estimate, bool) {
	if len(e.samples) == 0 {
		return Estimate{}, false
	}
	values := e.values[:0]
	times := e.times[:0]
	newest := e.get(0)
	t := newest.t
	// Walk backwards collecting samples.
	for i := 0; i < len(e.samples); i++ {
		p := e.get(-i)
		age := newest.t - p.t
		if age >= maxAge || t-p.t >= maxSampleGap {
			// If the samples are too old or
			// too much time passed between samples
			// assume they're not part of the fling.
			break
		}
		t = p.t
		values = append(values, p.v-newest.v)
		// Fit in milliseconds; seconds squared underflow the
		// degeneracy check for dense input.
		times = append(times, float32(-age)/float32(time.Millisecond))
	}
	est := Estimate{
		Distance: -values[len(values)-1],
		Duration: newest.t - t,
	}
	if coef, ok := polyFit(times, values); ok {
		est.Velocity = coef[1] * 1000
	}
	return est, true
}

func (e *Extrapolation) get(i int) sample {
	idx := (e.idx + i - 1 + len(e.samples)) % len(e.samples)
	return e.samples[idx]
}

// fit computes the least squares polynomial fit for
// the set of points in X, Y. If the fitting fails
// because of contradicting or insufficient data,
// fit returns false.
func polyFit(X, Y []float32) (coefficients, bool) {
	if len(X) != len(Y) {
		panic("X and Y lengths differ")
	}
	if len(X) <= degree {
		// Not enough points to fit a curve.
		return coefficients{}, false
	}

	// Use a method similar to Android's VelocityTracker.cpp
	// where all weights are 1.

	// First, do QR decomposition of the Vandermonde matrix.
	A := newMatrix(len(X), degree+1)
	for i, x := range X {
		A.set(i, 0, 1)
		for j := 1; j < A.cols; j++ {
			A.set(i, j, A.get(i, j-1)*x)
		}
	}
	Q, R, ok := decomposeQR(A)
	if !ok {
		return coefficients{}, false
	}
	// Solve R*B = Qt*Y for B, which is then the polynomial coefficients.
	// Since R is upper triangular, we can proceed from bottom right to
	// upper left.
	var B coefficients
	for i := Q.cols - 1; i >= 0; i-- {
		B[i] = dot(Q.col(i), Y)
		for j := Q.cols - 1; j > i; j-- {
			B[i] -= R.get(i, j) * B[j]
		}
		B[i] /= R.get(i, i)
	}
	return B, true
}

// decomposeQR computes and returns Q, R where Q*R = A, if
// possible. Q has orthonormal columns and R is square and
// upper triangular.
func decomposeQR(A *matrix) (*matrix, *matrix, bool) {
	// Modified Gram-Schmidt.
	Q := newMatrix(A.rows, A.cols)
	R := newMatrix(A.cols, A.cols)
	for i := 0; i < A.cols; i++ {
		q := Q.col(i)
		copy(q, A.col(i))
		// Subtract projections onto the previous, already
		// normalized, columns.
		for j := 0; j < i; j++ {
			e := Q.col(j)
			d := dot(e, q)
			for k := range q {
				q[k] -= d * e[k]
			}
			R.set(j, i, d)
		}
		n := norm(q)
		if n < 0.000001 {
			// Degenerate data, no solution.
			return nil, nil, false
		}
		invNorm := 1 / n
		for k := range q {
			q[k] *= invNorm
		}
		R.set(i, i, n)
	}
	return Q, R, true
}

func norm(V []float32) float32 {
	var n float32
	for _, v := range V {
		n += v * v
	}
	return float32(math.Sqrt(float64(n)))
}

func dot(V1, V2 []float32) float32 {
	var d float32
	for i, v1 := range V1 {
		d += v1 * V2[i]
	}
	return d
}

func newMatrix(rows, cols int) *matrix {
	return &matrix{
		rows: rows,
		cols: cols,
		data: make([]float32, rows*cols),
	}
}

// Matrices are stored in column-major order.

func (m *matrix) get(row, col int) float32 {
	return m.data[col*m.rows+row]
}

func (m *matrix) set(row, col int, v float32) {
	m.data[col*m.rows+row] = v
}

func (m *matrix) col(c int) []float32 {
	return m.data[c*m.rows : (c+1)*m.rows]
}

func (m *matrix) transpose() *matrix {
	t := newMatrix(m.cols, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			t.set(c, r, m.get(r, c))
		}
	}
	return t
}

func (m *matrix) mul(m2 *matrix) *matrix {
	if m.cols != m2.rows {
		panic("mismatched matrices")
	}
	p := newMatrix(m.rows, m2.cols)
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			var v float32
			for i := 0; i < m.cols; i++ {
				v += m.get(r, i) * m2.get(i, c)
			}
			p.set(r, c, v)
		}
	}
	return p
}

func (m *matrix) approxEqual(m2 *matrix) bool {
	if m.rows != m2.rows || m.cols != m2.cols {
		return false
	}
	for i, v := range m.data {
		if !approxEqual(v, m2.data[i]) {
			return false
		}
	}
	return true
}

func (m *matrix) String() string {
	var b strings.Builder
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			fmt.Fprintf(&b, "%f ", m.get(r, c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (c coefficients) approxEqual(c2 coefficients) bool {
	for i, v := range c {
		if !approxEqual(v, c2[i]) {
			return false
		}
	}
	return true
}

func approxEqual(v1, v2 float32) bool {
	const epsilon = 0.0001
	d := float64(v1 - v2)
	scale := math.Max(1, math.Abs(float64(v1)))
	return math.Abs(d) <= epsilon*scale
}
