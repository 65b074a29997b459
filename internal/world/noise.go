package world

import (
	"math"
)

// Sampler is a deterministic 2D noise function.
type Sampler interface {
	Sample(x, z float64, seed int64) float64
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash2 is a SplitMix64 mix of a lattice point and seed.
func hash2(x int64, z int64, seed int64) uint64 {
	v := uint64(x) + (uint64(z) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

// ValueNoise is octave lattice value noise in [0,1].
type ValueNoise struct {
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

// DefaultValueNoise returns a four octave value noise.
func DefaultValueNoise() ValueNoise {
	return ValueNoise{Octaves: 4, Persistence: 0.5, Lacunarity: 2.0}
}

func latticeValue(x int64, z int64, seed int64) float64 {
	h := hash2(x, z, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x float64, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)

	fx := fade(x - x0)
	fz := fade(z - z0)

	ix, iz := int64(x0), int64(z0)
	v00 := latticeValue(ix, iz, seed)
	v10 := latticeValue(ix+1, iz, seed)
	v01 := latticeValue(ix, iz+1, seed)
	v11 := latticeValue(ix+1, iz+1, seed)

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz)
}

// Sample implements Sampler.
func (n ValueNoise) Sample(x, z float64, seed int64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := range n.Octaves {
		v := valueNoise2D(x*frequency, z*frequency, seed+int64(i*131))
		sum += v * amplitude
		norm += amplitude
		amplitude *= n.Persistence
		frequency *= n.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

var (
	sqrt3 = math.Sqrt(3)
	f2    = 0.5 * (sqrt3 - 1)
	g2    = (3 - sqrt3) / 6

	grad2 = [8][2]float64{
		{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	}
)

// Simplex is 2D simplex noise in roughly [-1,1]. Corner gradients come from
// hashing the lattice point with the seed, so no permutation table is kept.
type Simplex struct{}

func simplexCorner(x, z float64, i, j int64, seed int64) float64 {
	t := 0.5 - x*x - z*z
	if t < 0 {
		return 0
	}
	g := grad2[hash2(i, j, seed)&7]
	t *= t
	return t * t * (g[0]*x + g[1]*z)
}

// Sample implements Sampler.
func (Simplex) Sample(xin, zin float64, seed int64) float64 {
	s := (xin + zin) * f2
	i := math.Floor(xin + s)
	j := math.Floor(zin + s)

	t := (i + j) * g2
	x0 := xin - (i - t)
	z0 := zin - (j - t)

	var i1, j1 int64
	if x0 > z0 {
		i1 = 1
	} else {
		j1 = 1
	}

	x1 := x0 - float64(i1) + g2
	z1 := z0 - float64(j1) + g2
	x2 := x0 - 1 + 2*g2
	z2 := z0 - 1 + 2*g2

	ii, jj := int64(i), int64(j)
	n0 := simplexCorner(x0, z0, ii, jj, seed)
	n1 := simplexCorner(x1, z1, ii+i1, jj+j1, seed)
	n2 := simplexCorner(x2, z2, ii+1, jj+1, seed)

	// 70 scales the corner sum to roughly [-1,1]
	return 70 * (n0 + n1 + n2)
}
