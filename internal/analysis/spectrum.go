package analysis

import (
	"math"
	"math/cmplx"
)

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// FFT returns the discrete Fourier transform of data zero-padded to the next
// power of two.
func FFT(data []float64) []complex128 {
	n := nextPow2(len(data))
	if len(data) == 0 {
		return nil
	}
	buf := make([]complex128, n)
	for i, v := range data {
		buf[i] = complex(v, 0)
	}
	return fft(buf)
}

func fft(x []complex128) []complex128 {
	n := len(x)
	if n == 1 {
		return []complex128{x[0]}
	}
	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = x[2*i]
		odd[i] = x[2*i+1]
	}
	fe, fo := fft(even), fft(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n))) * fo[k]
		out[k] = fe[k] + w
		out[k+n/2] = fe[k] - w
	}
	return out
}

// PowerSpectrum returns |X_k| for k in [0, n/2) after removing the mean, so
// the DC bin carries no offset.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	coeffs := FFT(centered)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// and its magnitude. A flat or too short series gives zero.
func DominantFrequency(data []float64, sampleRate float64) (float64, float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || sampleRate <= 0 {
		return 0, 0
	}
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] == 0 {
		return 0, 0
	}
	n := 2 * len(ps)
	return float64(best) * sampleRate / float64(n), ps[best]
}
