package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ic-timon/hashtree/cmd/bench/gen"
)

// 压测区域固定为 [regionLo, regionHi]^dims
const (
	regionLo = float32(-512)
	regionHi = float32(512)
)

func benchPoints(conf config, n int, seed int64) []mgl32.Vec3 {
	if conf.Clustered {
		return gen.ClusteredPoints(n, conf.Dims, 64, regionLo, regionHi, (regionHi-regionLo)/64, seed)
	}
	return gen.RandomPoints(n, conf.Dims, regionLo, regionHi, seed)
}

// benchRadius 将相对半径换算为区域坐标
func benchRadius(conf config) float32 {
	return float32(conf.Radius) * (regionHi - regionLo)
}
