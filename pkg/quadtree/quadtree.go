// Package quadtree 提供基于区域四叉树的二维空间索引
//
// 索引以轴对齐包围盒（AABB）加任意负载的形式存储条目，支持插入
// 和范围查询，用于标注画布的命中测试和可见性裁剪。
//
// 结构不变式：
//   - 条目存储在完全包含它的最浅节点；若它跨越多个子象限边界，
//     则留在父节点，不向下复制
//   - 叶节点超过容量时一分为四（四个等大象限），已有条目按上述
//     规则重新分配
//   - 树不做增量平衡：框集合发生结构性变化时整树重建。这是针对
//     "大体静态、交互时突发变更"的框集合做出的简单性/性能取舍
package quadtree

import "github.com/JohnnyMoCap/test-canvas-sub000/pkg/geometry"

// DefaultCapacity 是叶节点分裂前可容纳的条目数
const DefaultCapacity = 8

// entry 是树中存储的一条 AABB + 负载
type entry[T any] struct {
	bounds  geometry.Rect
	payload T
}

// Tree 是一棵以 T 为负载类型的区域四叉树
type Tree[T any] struct {
	bounds   geometry.Rect
	capacity int
	items    []entry[T]
	children [4]*Tree[T]
	divided  bool
}

// New 创建一棵覆盖 bounds 的空树
// capacity <= 0 时使用 DefaultCapacity
func New[T any](bounds geometry.Rect, capacity int) *Tree[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tree[T]{
		bounds:   bounds,
		capacity: capacity,
		items:    make([]entry[T], 0, capacity),
	}
}

// Insert 将一条 AABB + 负载插入树中
// AABB 与树边界不相交时拒绝插入并返回 false（仅内部使用此返回值）
func (t *Tree[T]) Insert(bounds geometry.Rect, payload T) bool {
	if !t.bounds.Intersects(bounds) {
		return false
	}

	if !t.divided {
		if len(t.items) < t.capacity {
			t.items = append(t.items, entry[T]{bounds: bounds, payload: payload})
			return true
		}

		// 叶节点已满：先分裂并重新分配已有条目，再插入新条目
		t.subdivide()
		old := t.items
		t.items = t.items[:0]
		for _, it := range old {
			t.place(it)
		}
	}

	t.place(entry[T]{bounds: bounds, payload: payload})
	return true
}

// place 将条目放入完全包含它的子节点；跨越子象限边界的条目
// 留在当前节点
func (t *Tree[T]) place(it entry[T]) {
	for _, child := range t.children {
		if child.bounds.Contains(it.bounds) {
			child.Insert(it.bounds, it.payload)
			return
		}
	}
	t.items = append(t.items, it)
}

// subdivide 将节点分裂为四个等大象限
func (t *Tree[T]) subdivide() {
	hw := t.bounds.W / 2
	hh := t.bounds.H / 2
	x, y := t.bounds.X, t.bounds.Y

	t.children[0] = New[T](geometry.Rect{X: x, Y: y, W: hw, H: hh}, t.capacity)           // 左上
	t.children[1] = New[T](geometry.Rect{X: x + hw, Y: y, W: hw, H: hh}, t.capacity)      // 右上
	t.children[2] = New[T](geometry.Rect{X: x, Y: y + hh, W: hw, H: hh}, t.capacity)      // 左下
	t.children[3] = New[T](geometry.Rect{X: x + hw, Y: y + hh, W: hw, H: hh}, t.capacity) // 右下
	t.divided = true
}

// QueryRange 收集所有 AABB 与查询矩形相交的负载
//
// 只递归进入边界与查询矩形相交的子节点。相交测试带
// geometry.IntersectEpsilon 容差，避免浮点边缘漏报。
//
// 返回值是候选集：调用方若将结果与非索引的回退列表合并，
// 必须按有效 ID 去重。
func (t *Tree[T]) QueryRange(r geometry.Rect) []T {
	var found []T
	t.query(r, &found)
	return found
}

func (t *Tree[T]) query(r geometry.Rect, found *[]T) {
	if !t.bounds.Intersects(r) {
		return
	}

	for _, it := range t.items {
		if it.bounds.Intersects(r) {
			*found = append(*found, it.payload)
		}
	}

	if t.divided {
		for _, child := range t.children {
			child.query(r, found)
		}
	}
}

// Len 返回树中存储的条目总数
func (t *Tree[T]) Len() int {
	n := len(t.items)
	if t.divided {
		for _, child := range t.children {
			n += child.Len()
		}
	}
	return n
}

// Bounds 返回树的根边界
func (t *Tree[T]) Bounds() geometry.Rect {
	return t.bounds
}
