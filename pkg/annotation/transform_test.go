package annotation

import (
	"math"
	"testing"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/geometry"
)

const (
	testImgW = 2000.0
	testImgH = 2000.0
)

// TestCornerOpposite 测试对角角点映射
func TestCornerOpposite(t *testing.T) {
	tests := []struct {
		c, want Corner
	}{
		{CornerNW, CornerSE},
		{CornerNE, CornerSW},
		{CornerSE, CornerNW},
		{CornerSW, CornerNE},
	}
	for _, tt := range tests {
		if got := tt.c.Opposite(); got != tt.want {
			t.Errorf("Opposite(%v): got %v, want %v", tt.c, got, tt.want)
		}
	}
}

// TestResizeAnchorStaysFixed 测试缩放时对角锚点保持不动
//
// 拖拽右下角时，左上角（锚点）的世界坐标在缩放前后必须一致。
func TestResizeAnchorStaysFixed(t *testing.T) {
	b := Box{X: 0.5, Y: 0.5, W: 0.1, H: 0.05}

	anchorBefore := cornerWorld(b, CornerNW)

	got := Resize(b, 180, 120, testImgW, testImgH, CornerSE, 1)

	anchorAfter := cornerWorld(got, CornerNW)
	if math.Abs(anchorAfter.X-anchorBefore.X) > 1e-9 || math.Abs(anchorAfter.Y-anchorBefore.Y) > 1e-9 {
		t.Errorf("anchor moved: before %+v, after %+v", anchorBefore, anchorAfter)
	}

	// 被拖拽角应跟随指针
	dragged := cornerWorld(got, CornerSE)
	if math.Abs(dragged.X-180) > 1e-9 || math.Abs(dragged.Y-120) > 1e-9 {
		t.Errorf("dragged corner: got %+v, want (180, 120)", dragged)
	}
}

// TestResizeRotatedKeepsRotation 测试旋转框缩放时旋转角不变且锚点不动
func TestResizeRotatedKeepsRotation(t *testing.T) {
	b := Box{X: 0.5, Y: 0.5, W: 0.1, H: 0.08, Rotation: math.Pi / 6}

	anchorBefore := cornerWorld(b, CornerSW)

	got := Resize(b, 150, -90, testImgW, testImgH, CornerNE, 1)

	if got.Rotation != b.Rotation {
		t.Errorf("rotation changed during resize: got %v, want %v", got.Rotation, b.Rotation)
	}

	anchorAfter := cornerWorld(got, CornerSW)
	if math.Abs(anchorAfter.X-anchorBefore.X) > 1e-9 || math.Abs(anchorAfter.Y-anchorBefore.Y) > 1e-9 {
		t.Errorf("rotated anchor moved: before %+v, after %+v", anchorBefore, anchorAfter)
	}
}

// TestResizeMinSizeFloor 测试缩放到最小边长以下时被抬升
func TestResizeMinSizeFloor(t *testing.T) {
	b := Box{X: 0.5, Y: 0.5, W: 0.1, H: 0.1}

	// 指针越过锚点附近，理论尺寸接近 0
	got := Resize(b, -99, -99, testImgW, testImgH, CornerSE, 4)

	w, h := got.WorldSize(testImgW, testImgH)
	if w < 4 || h < 4 {
		t.Errorf("size below floor: got %vx%v, want >= 4x4", w, h)
	}
}

// TestResizeFloorKeepsAnchor 测试尺寸触底时锚点角仍然固定不动
func TestResizeFloorKeepsAnchor(t *testing.T) {
	b := Box{X: 0.5, Y: 0.5, W: 0.1, H: 0.1} // 世界 200x200，NW 锚点 (-100,-100)

	got := Resize(b, -99, -99, testImgW, testImgH, CornerSE, 4)

	anchor := cornerWorld(got, CornerNW)
	if math.Abs(anchor.X-(-100)) > 1e-9 || math.Abs(anchor.Y-(-100)) > 1e-9 {
		t.Errorf("anchor after floored resize: got (%v,%v), want (-100,-100)", anchor.X, anchor.Y)
	}
	cx, cy := got.WorldCenter(testImgW, testImgH)
	if math.Abs(cx-(-98)) > 1e-9 || math.Abs(cy-(-98)) > 1e-9 {
		t.Errorf("center after floored resize: got (%v,%v), want (-98,-98)", cx, cy)
	}
}

// TestMoveClampsToImage 测试移动超出图片边界时被钳制
func TestMoveClampsToImage(t *testing.T) {
	b := Box{X: 0.5, Y: 0.5, W: 0.1, H: 0.1} // 世界尺寸 200x200

	got := Move(b, 99999, -99999, testImgW, testImgH)

	cx, cy := got.WorldCenter(testImgW, testImgH)
	if math.Abs(cx-900) > 1e-9 {
		t.Errorf("clamped X: got %v, want 900", cx)
	}
	if math.Abs(cy-(-900)) > 1e-9 {
		t.Errorf("clamped Y: got %v, want -900", cy)
	}
}

// TestMoveInsideImageUnclamped 测试边界内移动不受钳制影响
func TestMoveInsideImageUnclamped(t *testing.T) {
	b := Box{X: 0.5, Y: 0.5, W: 0.1, H: 0.1}

	got := Move(b, 123, -456, testImgW, testImgH)

	cx, cy := got.WorldCenter(testImgW, testImgH)
	if math.Abs(cx-123) > 1e-9 || math.Abs(cy-(-456)) > 1e-9 {
		t.Errorf("move: got (%v, %v), want (123, -456)", cx, cy)
	}
}

// TestClampUsesRotatedAABB 测试钳制以旋转后的包围盒为准
func TestClampUsesRotatedAABB(t *testing.T) {
	// 200x200 的正方形旋转 45°，包围盒半宽约 141.4
	b := Box{X: 0.5, Y: 0.5, W: 0.1, H: 0.1, Rotation: math.Pi / 4}

	got := Move(b, 99999, 0, testImgW, testImgH)

	cx, _ := got.WorldCenter(testImgW, testImgH)
	wantMax := testImgW/2 - 100*math.Sqrt2
	if math.Abs(cx-wantMax) > 1e-6 {
		t.Errorf("rotated clamp X: got %v, want %v", cx, wantMax)
	}
}

// TestClampOversizedBoxCenters 测试包围盒大于图片的轴居中于 0
func TestClampOversizedBoxCenters(t *testing.T) {
	b := Box{X: 0.9, Y: 0.5, W: 1.2, H: 0.1}

	got := ClampToImage(b, testImgW, testImgH)

	cx, _ := got.WorldCenter(testImgW, testImgH)
	if math.Abs(cx) > 1e-9 {
		t.Errorf("oversized axis should center at 0: got %v", cx)
	}
}

// TestRotateRelative 测试旋转是相对的：角度差叠加到初始旋转角
func TestRotateRelative(t *testing.T) {
	b := Box{X: 0.5, Y: 0.5, W: 0.1, H: 0.1, Rotation: 0.3}

	// 手势开始时指针在正右方（角度 0），移动到正下方（角度 π/2）
	startPointerAngle := 0.0
	got := Rotate(b, 0, 100, testImgW, testImgH, startPointerAngle, 0.3)

	want := 0.3 + math.Pi/2
	if math.Abs(got.Rotation-want) > 1e-9 {
		t.Errorf("relative rotation: got %v, want %v", got.Rotation, want)
	}
}

// TestRotateNoJumpAtGestureStart 测试手势开始瞬间框不跳转
func TestRotateNoJumpAtGestureStart(t *testing.T) {
	b := Box{X: 0.5, Y: 0.5, W: 0.1, H: 0.1, Rotation: 1.1}

	// 指针未移动：当前角度等于起始角度，旋转角必须保持不变
	startAngle := math.Atan2(70, 30)
	got := Rotate(b, 30, 70, testImgW, testImgH, startAngle, 1.1)

	if math.Abs(got.Rotation-1.1) > 1e-9 {
		t.Errorf("rotation jumped at gesture start: got %v, want 1.1", got.Rotation)
	}
}

// cornerWorld 返回指定角点的世界坐标（含旋转）
func cornerWorld(b Box, c Corner) geometry.Point {
	cx, cy := b.WorldCenter(testImgW, testImgH)
	w, h := b.WorldSize(testImgW, testImgH)
	lx, ly := c.LocalOffset(w, h)
	rx, ry := geometry.RotatePoint(lx, ly, b.Rotation)
	return geometry.Point{X: cx + rx, Y: cy + ry}
}
