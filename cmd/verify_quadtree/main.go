// verify_quadtree 验证四叉树范围查询与线性扫描的一致性
//
// 随机生成大量旋转标注框，对每个随机查询矩形比较四叉树结果
// （去重后）与逐框 AABB 相交扫描的结果，任何差异都报告失败。
//
// 用法：
//
//	go run ./cmd/verify_quadtree [-boxes 2000] [-queries 500] [-seed 1]
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/annotation"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/canvas"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/config"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/geometry"
)

var (
	boxCount   = flag.Int("boxes", 2000, "随机标注框数量")
	queryCount = flag.Int("queries", 500, "随机查询矩形数量")
	seed       = flag.Int64("seed", 1, "随机种子")
)

const (
	imageW = 4096.0
	imageH = 4096.0
)

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))
	cfg := config.DefaultCanvasConfig()

	boxes := make([]annotation.Box, *boxCount)
	for i := range boxes {
		b := annotation.NewBox(rng.Float64(), rng.Float64(), 0.002+rng.Float64()*0.05, 0.002+rng.Float64()*0.05)
		b.Rotation = rng.Float64() * 6.28318
		boxes[i] = b
	}

	index := canvas.BuildIndex(boxes, imageW, imageH, true, cfg)
	if index == nil {
		fmt.Fprintln(os.Stderr, "FAIL: index construction returned nil for non-empty box set")
		os.Exit(1)
	}

	failures := 0
	for q := 0; q < *queryCount; q++ {
		query := geometry.Rect{
			X: (rng.Float64() - 0.5) * imageW,
			Y: (rng.Float64() - 0.5) * imageH,
			W: rng.Float64() * imageW / 4,
			H: rng.Float64() * imageH / 4,
		}

		got := index.Query(query)
		var want []int
		for i := range boxes {
			if canvas.IndexedAABB(boxes[i], imageW, imageH, true, cfg).Intersects(query) {
				want = append(want, i)
			}
		}

		sort.Ints(got)
		if !equal(got, want) {
			failures++
			if failures <= 5 {
				fmt.Printf("MISMATCH query=%+v got=%d want=%d\n", query, len(got), len(want))
			}
		}
	}

	if failures > 0 {
		fmt.Printf("FAIL: %d/%d queries mismatched\n", failures, *queryCount)
		os.Exit(1)
	}
	fmt.Printf("OK: %d boxes, %d queries, quadtree matches linear scan\n", *boxCount, *queryCount)
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
