package annotation

import (
	"math"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/geometry"
)

// Corner 标识矩形的一个角点（框局部坐标系，未旋转）
type Corner int

const (
	CornerNW Corner = iota // 左上
	CornerNE               // 右上
	CornerSE               // 右下
	CornerSW               // 左下
)

// Opposite 返回对角的角点
// 缩放手势中对角固定不动，作为锚点
func (c Corner) Opposite() Corner {
	switch c {
	case CornerNW:
		return CornerSE
	case CornerNE:
		return CornerSW
	case CornerSE:
		return CornerNW
	default:
		return CornerNE
	}
}

// LocalOffset 返回角点在框局部坐标系中的偏移（半宽/半高的符号组合）
func (c Corner) LocalOffset(w, h float64) (float64, float64) {
	switch c {
	case CornerNW:
		return -w / 2, -h / 2
	case CornerNE:
		return w / 2, -h / 2
	case CornerSE:
		return w / 2, h / 2
	default:
		return -w / 2, h / 2
	}
}

// Rotate 根据指针位置计算框的新旋转角，返回新框
//
// startPointerAngle（手势开始时指针相对框中心的角度）和
// startRotation（手势开始时框的旋转角）在指针按下时捕获一次，
// 之后每次移动只计算角度差。旋转因此是相对的，框不会在手势
// 开始的瞬间跳转到指针方向。
func Rotate(b Box, pointerWX, pointerWY, imageW, imageH, startPointerAngle, startRotation float64) Box {
	cx, cy := b.WorldCenter(imageW, imageH)
	currentAngle := math.Atan2(pointerWY-cy, pointerWX-cx)
	b.Rotation = startRotation + (currentAngle - startPointerAngle)
	return b
}

// Resize 以对角为锚点缩放框，返回新框
//
// 指针先转换到框局部（未旋转）坐标；锚点是被拖拽角的对角，在
// 局部坐标中固定不动。新宽/高 = |指针 − 锚点|，新局部中心 = 锚点
// 沿被拖拽角的方向偏移半宽/半高。新中心再用框的原始旋转角变换
// 回世界坐标；缩放过程中旋转角保持不变，绝不重新计算。
//
// minSize（世界像素）是边长下限，防止框被拖成退化或翻转的矩形。
// 触发下限时中心从锚点而不是指针中点推算，锚点角不会漂移。
// 结果经 ClampToImage 钳制，保证旋转后的包围盒不超出背景图片。
func Resize(b Box, pointerWX, pointerWY, imageW, imageH float64, corner Corner, minSize float64) Box {
	cx, cy := b.WorldCenter(imageW, imageH)
	w, h := b.WorldSize(imageW, imageH)

	// 指针 → 框局部坐标
	lx, ly := geometry.RotatePoint(pointerWX-cx, pointerWY-cy, -b.Rotation)

	ax, ay := corner.Opposite().LocalOffset(w, h)
	dx, dy := corner.LocalOffset(w, h)

	newW := math.Abs(lx - ax)
	newH := math.Abs(ly - ay)
	if newW < minSize {
		newW = minSize
	}
	if newH < minSize {
		newH = minSize
	}

	// 新局部中心 = 锚点沿被拖拽角原本所在的一侧各偏移半宽/半高，
	// 再以原始旋转角转回世界坐标
	mx := ax + math.Copysign(newW/2, dx-ax)
	my := ay + math.Copysign(newH/2, dy-ay)
	wx, wy := geometry.RotatePoint(mx, my, b.Rotation)

	b.SetWorldCenter(cx+wx, cy+wy, imageW, imageH)
	b.SetWorldSize(newW, newH, imageW, imageH)
	return ClampToImage(b, imageW, imageH)
}

// Move 将框中心移动到指针的世界坐标，返回新框
//
// 调用方负责预先减去拖拽起点相对框中心的偏移量，否则框会在
// 手势开始时跳到指针位置。结果经 ClampToImage 钳制。
func Move(b Box, pointerWX, pointerWY, imageW, imageH float64) Box {
	b.SetWorldCenter(pointerWX, pointerWY, imageW, imageH)
	return ClampToImage(b, imageW, imageH)
}

// ClampToImage 钳制框中心，使旋转后的包围盒不超出背景图片边界
//
// 按轴独立钳制：以包围盒半宽/半高收缩可行区间
// [-imgW/2 + hw, imgW/2 - hw]。包围盒大于图片的轴居中于 0。
func ClampToImage(b Box, imageW, imageH float64) Box {
	cx, cy := b.WorldCenter(imageW, imageH)
	w, h := b.WorldSize(imageW, imageH)
	aabb := geometry.RotatedAABB(cx, cy, w, h, b.Rotation)
	hw, hh := aabb.W/2, aabb.H/2

	if hw*2 > imageW {
		cx = 0
	} else {
		cx = geometry.Clamp(cx, -imageW/2+hw, imageW/2-hw)
	}
	if hh*2 > imageH {
		cy = 0
	} else {
		cy = geometry.Clamp(cy, -imageH/2+hh, imageH/2-hh)
	}

	b.SetWorldCenter(cx, cy, imageW, imageH)
	return b
}
