package geometry

import "math"

// Camera 表示画布的视口变换
//
// Zoom 是缩放倍数（屏幕像素/世界像素），X/Y 是位于视口中心的
// 世界坐标点，Rotation 是视口旋转角（弧度）。
//
// 不变式：Zoom 恒不小于 CalculateMinZoom 的结果（背景图片完全
// 覆盖视口），平移被钳制使图片不会离开视口（某轴上图片小于视口
// 时该轴居中于 0）。钳制由 ClampCamera 统一执行。
type Camera struct {
	X        float64
	Y        float64
	Zoom     float64
	Rotation float64
}

// ScreenToWorld 将屏幕坐标转换为世界坐标
//
// 计算步骤：平移到视口中心相对坐标 → 反向旋转 -Rotation →
// 除以 Zoom → 加上摄像机位置。
//
// 此函数是所有命中测试和创建坐标的唯一来源，必须与渲染端的
// WorldToScreen 严格互逆，否则命中测试会与用户看到的画面脱节。
func (c Camera) ScreenToWorld(sx, sy, viewportW, viewportH float64) Point {
	dx := sx - viewportW/2
	dy := sy - viewportH/2
	rx, ry := RotatePoint(dx, dy, -c.Rotation)
	return Point{
		X: rx/c.Zoom + c.X,
		Y: ry/c.Zoom + c.Y,
	}
}

// WorldToScreen 将世界坐标转换为屏幕坐标（ScreenToWorld 的逆变换）
func (c Camera) WorldToScreen(wx, wy, viewportW, viewportH float64) Point {
	dx := (wx - c.X) * c.Zoom
	dy := (wy - c.Y) * c.Zoom
	rx, ry := RotatePoint(dx, dy, c.Rotation)
	return Point{
		X: rx + viewportW/2,
		Y: ry + viewportH/2,
	}
}

// CalculateMinZoom 计算背景图片恰好覆盖视口较紧一轴时的缩放倍数
// 图片尺寸非法时返回 0，调用方视为"背景未就绪"
func CalculateMinZoom(viewportW, viewportH, imageW, imageH float64) float64 {
	if imageW <= 0 || imageH <= 0 {
		return 0
	}
	return math.Min(viewportW/imageW, viewportH/imageH)
}

// ClampCamera 钳制摄像机，保证背景图片不离开视口
//
// 先强制 zoom >= minZoom，再按轴计算可平移范围
// [-imgW/2 + halfView, imgW/2 - halfView]（halfView = viewport/(2*zoom)）。
// 范围倒置（该缩放下图片窄于视口）时该轴居中于 0。
func ClampCamera(cam Camera, viewportW, viewportH, imageW, imageH, minZoom float64) Camera {
	if cam.Zoom < minZoom {
		cam.Zoom = minZoom
	}

	halfViewW := viewportW / (2 * cam.Zoom)
	halfViewH := viewportH / (2 * cam.Zoom)

	minX := -imageW/2 + halfViewW
	maxX := imageW/2 - halfViewW
	if minX > maxX {
		cam.X = 0
	} else {
		cam.X = Clamp(cam.X, minX, maxX)
	}

	minY := -imageH/2 + halfViewH
	maxY := imageH/2 - halfViewH
	if minY > maxY {
		cam.Y = 0
	} else {
		cam.Y = Clamp(cam.Y, minY, maxY)
	}

	return cam
}

// ZoomAt 以指定屏幕点为焦点缩放摄像机
//
// newZoom = clamp(zoom * exp(delta*factor), minZoom, maxZoom)；
// 在旧/新缩放下分别计算焦点的世界坐标，按差值平移摄像机，
// 使光标下方的世界点保持不动。焦点修正必须在 ClampCamera 之前
// 完成，否则靠近边界时焦点会漂移。
func ZoomAt(cam Camera, sx, sy, viewportW, viewportH, delta, factor, minZoom, maxZoom float64) Camera {
	before := cam.ScreenToWorld(sx, sy, viewportW, viewportH)

	cam.Zoom = Clamp(cam.Zoom*math.Exp(delta*factor), minZoom, maxZoom)

	after := cam.ScreenToWorld(sx, sy, viewportW, viewportH)
	cam.X += before.X - after.X
	cam.Y += before.Y - after.Y
	return cam
}
