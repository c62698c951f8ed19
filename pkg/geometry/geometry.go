// Package geometry 提供标注画布的纯几何计算
//
// 本包是所有命中测试、空间索引和框变换的数学基础，不依赖任何
// 渲染或输入库。
//
// # 坐标系统概述
//
// 本项目使用以下坐标系统：
//   - **世界坐标**：以背景图片中心为原点的像素坐标，
//     x ∈ [-imgW/2, imgW/2]，y ∈ [-imgH/2, imgH/2]
//   - **屏幕坐标**：相对于窗口左上角的像素坐标（随摄像机移动）
//   - **归一化坐标**：相对于背景图片尺寸的 [0,1] 坐标（用于存储）
//   - **框局部坐标**：以框中心为原点、未旋转的坐标（用于角点计算）
//
// 所有旋转/平移运算先转换到世界坐标执行，再转换回归一化坐标存储，
// 保证标注数据与分辨率无关。
package geometry

import "math"

// Point 是一个二维点
type Point struct {
	X float64
	Y float64
}

// Rect 是一个轴对齐矩形，X/Y 为最小角（左上），W/H 为尺寸
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// IntersectEpsilon 是矩形相交测试的浮点容差（世界单位）
// 避免查询矩形与 AABB 恰好相切时因浮点误差漏报
const IntersectEpsilon = 0.001

// Intersects 判断两个矩形是否相交（含 IntersectEpsilon 容差）
func (r Rect) Intersects(o Rect) bool {
	return !(o.X > r.X+r.W+IntersectEpsilon ||
		o.X+o.W < r.X-IntersectEpsilon ||
		o.Y > r.Y+r.H+IntersectEpsilon ||
		o.Y+o.H < r.Y-IntersectEpsilon)
}

// Contains 判断矩形是否完全包含另一个矩形（边界算包含）
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.X+o.W <= r.X+r.W &&
		o.Y >= r.Y && o.Y+o.H <= r.Y+r.H
}

// ContainsPoint 判断点是否在矩形内（边界算包含）
func (r Rect) ContainsPoint(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Union 返回同时包含两个矩形的最小矩形
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// RotatePoint 将点 (x, y) 绕原点旋转 angle 弧度
func RotatePoint(x, y, angle float64) (float64, float64) {
	sin, cos := math.Sincos(angle)
	return x*cos - y*sin, x*sin + y*cos
}

// PointInRotatedBox 判断世界坐标点是否落在旋转矩形框内
//
// 将点平移到框局部坐标（减去中心），再反向旋转 -rotation，
// 然后与轴对齐的半宽/半高比较。边界算命中（>= / <=）。
//
// 参数：
//   - wx, wy: 待测点的世界坐标
//   - cx, cy: 框中心的世界坐标
//   - w, h: 框的宽高（世界单位）
//   - rotation: 框的旋转角（弧度）
func PointInRotatedBox(wx, wy, cx, cy, w, h, rotation float64) bool {
	lx, ly := RotatePoint(wx-cx, wy-cy, -rotation)
	return lx >= -w/2 && lx <= w/2 && ly >= -h/2 && ly <= h/2
}

// RotatedAABB 计算旋转矩形的轴对齐包围盒（世界坐标）
//
// 将 4 个局部角点各自旋转 +rotation 后平移到世界坐标，取 min/max。
// 旋转或尺寸变化后必须重新计算：未旋转的包围盒会在旋转框的边缘
// 处少覆盖，导致命中测试漏报和空间索引失真。
func RotatedAABB(cx, cy, w, h, rotation float64) Rect {
	hw, hh := w/2, h/2
	corners := [4][2]float64{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := RotatePoint(c[0], c[1], rotation)
		x += cx
		y += cy
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// TopCorner 返回旋转矩形在世界坐标下最高（Y 最小）的角点
// 用于确定框 ID 标签的锚点位置
func TopCorner(cx, cy, w, h, rotation float64) Point {
	hw, hh := w/2, h/2
	corners := [4][2]float64{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	}

	top := Point{X: math.Inf(1), Y: math.Inf(1)}
	for _, c := range corners {
		x, y := RotatePoint(c[0], c[1], rotation)
		x += cx
		y += cy
		if y < top.Y {
			top = Point{X: x, Y: y}
		}
	}
	return top
}

// Clamp 将 v 限制在 [lo, hi] 区间内
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
