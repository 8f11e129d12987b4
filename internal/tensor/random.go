package tensor

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Randn creates an array with values drawn from N(mu, sigma²) using src.
func Randn(shape Shape, mu, sigma float32, src rand.Source) *Array {
	dist := distuv.Normal{Mu: float64(mu), Sigma: float64(sigma), Src: src}
	return sample(shape, dist.Rand)
}

// Rand creates an array with values drawn uniformly from [lower, upper) using src.
func Rand(shape Shape, lower, upper float32, src rand.Source) *Array {
	dist := distuv.Uniform{Min: float64(lower), Max: float64(upper), Src: src}
	return sample(shape, dist.Rand)
}

func sample(shape Shape, draw func() float64) *Array {
	a := Zeros(shape)
	for i := range a.data {
		a.data[i] = float32(draw())
	}
	return a
}
