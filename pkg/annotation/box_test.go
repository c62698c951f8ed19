package annotation

import (
	"math"
	"testing"
)

// TestEffectiveID 测试有效 ID 的优先级规则
func TestEffectiveID(t *testing.T) {
	saved := Box{ID: 42, TempID: "tmp-abc"}
	if got := saved.EffectiveID(); got != "42" {
		t.Errorf("saved box: got %q, want %q", got, "42")
	}

	unsaved := Box{TempID: "tmp-abc"}
	if got := unsaved.EffectiveID(); got != "tmp-abc" {
		t.Errorf("unsaved box: got %q, want %q", got, "tmp-abc")
	}
}

// TestNewBoxAssignsTempID 测试新建框自动分配会话临时 ID
func TestNewBoxAssignsTempID(t *testing.T) {
	a := NewBox(0.5, 0.5, 0.1, 0.1)
	b := NewBox(0.5, 0.5, 0.1, 0.1)
	if a.TempID == "" {
		t.Error("NewBox should assign a non-empty TempID")
	}
	if a.TempID == b.TempID {
		t.Error("two new boxes should get distinct TempIDs")
	}
	if a.ID != 0 {
		t.Errorf("new box ID: got %d, want 0", a.ID)
	}
}

// TestWorldCoordinateRoundTrip 测试归一化/世界坐标的互逆转换
func TestWorldCoordinateRoundTrip(t *testing.T) {
	b := Box{X: 0.25, Y: 0.75, W: 0.1, H: 0.2}
	const imgW, imgH = 2000.0, 1000.0

	cx, cy := b.WorldCenter(imgW, imgH)
	if math.Abs(cx-(-500)) > 1e-9 || math.Abs(cy-250) > 1e-9 {
		t.Errorf("WorldCenter: got (%v, %v), want (-500, 250)", cx, cy)
	}

	w, h := b.WorldSize(imgW, imgH)
	if math.Abs(w-200) > 1e-9 || math.Abs(h-200) > 1e-9 {
		t.Errorf("WorldSize: got (%v, %v), want (200, 200)", w, h)
	}

	var back Box
	back.SetWorldCenter(cx, cy, imgW, imgH)
	back.SetWorldSize(w, h, imgW, imgH)
	if math.Abs(back.X-b.X) > 1e-12 || math.Abs(back.Y-b.Y) > 1e-12 ||
		math.Abs(back.W-b.W) > 1e-12 || math.Abs(back.H-b.H) > 1e-12 {
		t.Errorf("round trip: got %+v, want %+v", back, b)
	}
}

// TestContainsWorldPoint 测试框的世界坐标命中判定
func TestContainsWorldPoint(t *testing.T) {
	b := Box{X: 0.5, Y: 0.5, W: 0.1, H: 0.1}
	const imgW, imgH = 1000.0, 1000.0

	if !b.ContainsWorldPoint(0, 0, imgW, imgH) {
		t.Error("center should be inside")
	}
	if !b.ContainsWorldPoint(50, 50, imgW, imgH) {
		t.Error("corner should be inside (edges count as hits)")
	}
	if b.ContainsWorldPoint(51, 0, imgW, imgH) {
		t.Error("point outside edge should not be inside")
	}
}

// TestFindByID 测试按有效 ID 查找框
func TestFindByID(t *testing.T) {
	boxes := []Box{
		{ID: 7},
		{TempID: "tmp-x"},
	}

	if got := FindByID(boxes, "7"); got != 0 {
		t.Errorf("FindByID(7): got %d, want 0", got)
	}
	if got := FindByID(boxes, "tmp-x"); got != 1 {
		t.Errorf("FindByID(tmp-x): got %d, want 1", got)
	}
	if got := FindByID(boxes, "missing"); got != -1 {
		t.Errorf("FindByID(missing): got %d, want -1", got)
	}
}

// TestLabel 测试标签按持久化 ID、会话序号、临时 ID 的顺序取值
func TestLabel(t *testing.T) {
	if got := (Box{ID: 42, TempID: "tmp-x", Seq: 3}).Label(); got != "42" {
		t.Errorf("persisted label: got %q, want 42", got)
	}
	if got := (Box{TempID: "tmp-x", Seq: 3}).Label(); got != "#3" {
		t.Errorf("sequence label: got %q, want #3", got)
	}
	if got := (Box{TempID: "tmp-x"}).Label(); got != "tmp-x" {
		t.Errorf("fallback label: got %q, want tmp-x", got)
	}
}
