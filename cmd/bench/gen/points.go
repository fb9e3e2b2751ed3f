// Package gen 提供压测用随机点生成
package gen

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// RandomPoints 在 [lo, hi) 立方体内均匀生成 n 个点，dims=2 时 z 恒为 0
func RandomPoints(n, dims int, lo, hi float32, seed int64) []mgl32.Vec3 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]mgl32.Vec3, n)
	for i := range out {
		for a := 0; a < dims; a++ {
			out[i][a] = lo + rng.Float32()*(hi-lo)
		}
	}
	return out
}

// ClusteredPoints 围绕 clusters 个随机中心按高斯分布生成 n 个点，模拟实体聚集的场景
func ClusteredPoints(n, dims, clusters int, lo, hi, spread float32, seed int64) []mgl32.Vec3 {
	if clusters <= 0 {
		clusters = 1
	}
	rng := rand.New(rand.NewSource(seed))
	centers := RandomPoints(clusters, dims, lo, hi, seed+1)
	out := make([]mgl32.Vec3, n)
	for i := range out {
		c := centers[rng.Intn(clusters)]
		for a := 0; a < dims; a++ {
			out[i][a] = mgl32.Clamp(c[a]+float32(rng.NormFloat64())*spread, lo, hi)
		}
	}
	return out
}

// Jitter 将每个点沿各轴随机偏移至多 step，用于模拟逐帧移动
func Jitter(points []mgl32.Vec3, dims int, step float32, seed int64) []mgl32.Vec3 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]mgl32.Vec3, len(points))
	for i, p := range points {
		for a := 0; a < dims; a++ {
			p[a] += (rng.Float32()*2 - 1) * step
		}
		out[i] = p
	}
	return out
}
