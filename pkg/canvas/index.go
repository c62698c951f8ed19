// Package canvas 将几何、空间索引、历史与输入组合为可交互的标注画布
package canvas

import (
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/annotation"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/config"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/geometry"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/quadtree"
)

// SpatialIndex 是框集合上的空间索引
//
// 负载是框在列表中的下标。索引在框集合发生结构性变化（增删）或
// 几何变更落定（拖拽/缩放/旋转结束）时整树重建，连续手势过程中
// 不重建；消费方在手势期间回退到线性扫描。
type SpatialIndex struct {
	tree *quadtree.Tree[int]
}

// IndexedAABB 计算框在索引中使用的 AABB
//
// 启用标签时，AABB 被保守膨胀到同时覆盖框 ID 标签的近似占位
// （锚定在旋转后最高角点上方的固定尺寸矩形），使点击标签本身
// 也可被索引命中。
//
// 此函数是索引构建和线性扫描回退共用的唯一 AABB 来源：两条路径
// 必须应用完全相同的膨胀，否则索引命中与非索引命中会产生分歧。
func IndexedAABB(b annotation.Box, imageW, imageH float64, withLabel bool, cfg *config.CanvasConfig) geometry.Rect {
	aabb := b.WorldAABB(imageW, imageH)
	if !withLabel {
		return aabb
	}
	cx, cy := b.WorldCenter(imageW, imageH)
	w, h := b.WorldSize(imageW, imageH)
	top := geometry.TopCorner(cx, cy, w, h, b.Rotation)
	label := geometry.Rect{
		X: top.X,
		Y: top.Y - cfg.LabelHeight,
		W: cfg.LabelWidth,
		H: cfg.LabelHeight,
	}
	return aabb.Union(label)
}

// BuildIndex 从当前框列表重建空间索引
//
// 框集合为空或背景尚未加载（imageW/imageH 非法）时返回 nil，
// 所有索引消费方据此回退到对框列表的线性扫描。
// 根边界取所有插入 AABB 的并集。
func BuildIndex(boxes []annotation.Box, imageW, imageH float64, withLabels bool, cfg *config.CanvasConfig) *SpatialIndex {
	if len(boxes) == 0 || imageW <= 0 || imageH <= 0 {
		return nil
	}

	aabbs := make([]geometry.Rect, len(boxes))
	root := IndexedAABB(boxes[0], imageW, imageH, withLabels, cfg)
	aabbs[0] = root
	for i := 1; i < len(boxes); i++ {
		aabbs[i] = IndexedAABB(boxes[i], imageW, imageH, withLabels, cfg)
		root = root.Union(aabbs[i])
	}

	tree := quadtree.New[int](root, quadtree.DefaultCapacity)
	for i, aabb := range aabbs {
		tree.Insert(aabb, i)
	}
	return &SpatialIndex{tree: tree}
}

// Query 返回 AABB 与查询矩形相交的框下标（已按下标去重）
func (idx *SpatialIndex) Query(r geometry.Rect) []int {
	candidates := idx.tree.QueryRange(r)
	seen := make(map[int]struct{}, len(candidates))
	out := candidates[:0]
	for _, i := range candidates {
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}

// HitTest 返回世界坐标点命中的框下标，未命中返回 -1
//
// 后绘制的框在重叠时胜出（绘制顺序 = 列表顺序，因此倒序检测）。
// idx 为 nil 时对整个框列表线性扫描，标签膨胀与索引路径使用同一
// 个 IndexedAABB 保持一致。
func HitTest(boxes []annotation.Box, wx, wy, imageW, imageH float64, withLabels bool, cfg *config.CanvasConfig, idx *SpatialIndex) int {
	if imageW <= 0 || imageH <= 0 {
		return -1
	}

	point := geometry.Rect{X: wx, Y: wy, W: 0, H: 0}

	if idx != nil {
		candidates := idx.Query(point)
		best := -1
		for _, i := range candidates {
			if i >= 0 && i < len(boxes) && hitBox(boxes[i], wx, wy, imageW, imageH, withLabels, cfg) && i > best {
				best = i
			}
		}
		return best
	}

	for i := len(boxes) - 1; i >= 0; i-- {
		if hitBox(boxes[i], wx, wy, imageW, imageH, withLabels, cfg) {
			return i
		}
	}
	return -1
}

// hitBox 检测点是否命中框体或（启用时）其标签矩形
func hitBox(b annotation.Box, wx, wy, imageW, imageH float64, withLabel bool, cfg *config.CanvasConfig) bool {
	if b.ContainsWorldPoint(wx, wy, imageW, imageH) {
		return true
	}
	if !withLabel {
		return false
	}
	cx, cy := b.WorldCenter(imageW, imageH)
	w, h := b.WorldSize(imageW, imageH)
	top := geometry.TopCorner(cx, cy, w, h, b.Rotation)
	label := geometry.Rect{
		X: top.X,
		Y: top.Y - cfg.LabelHeight,
		W: cfg.LabelWidth,
		H: cfg.LabelHeight,
	}
	return label.ContainsPoint(wx, wy)
}

// VisibleBoxes 返回与视口世界矩形相交的框下标
// 渲染层用于可见性裁剪；idx 为 nil 时线性扫描
func VisibleBoxes(boxes []annotation.Box, view geometry.Rect, imageW, imageH float64, withLabels bool, cfg *config.CanvasConfig, idx *SpatialIndex) []int {
	if idx != nil {
		return idx.Query(view)
	}
	var out []int
	for i := range boxes {
		if IndexedAABB(boxes[i], imageW, imageH, withLabels, cfg).Intersects(view) {
			out = append(out, i)
		}
	}
	return out
}
