package canvas

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/session"
)

// InputAdapter 将 Ebiten 的指针/键盘事件翻译为路由器调用
//
// 这是纯粹的适配层：所有判定逻辑都在 Router 中，本层只负责轮询
// Ebiten 的输入状态并换算坐标。每个 tick 调用一次 Update。
// settings 用于持久化标签开关，可为 nil。
type InputAdapter struct {
	router   *Router
	settings *session.SettingsManager
}

// NewInputAdapter 创建输入适配器
func NewInputAdapter(router *Router, settings *session.SettingsManager) *InputAdapter {
	return &InputAdapter{router: router, settings: settings}
}

// Update 轮询一帧输入并分发给路由器
func (a *InputAdapter) Update() {
	a.updateKeyboard()
	a.updatePointer()
	a.applyCursorShape()
}

// updatePointer 处理指针按下/移动/抬起和滚轮
func (a *InputAdapter) updatePointer() {
	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)

	forcePan := ebiten.IsKeyPressed(ebiten.KeySpace)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		a.router.PointerDown(PointerEvent{X: sx, Y: sy, Button: ButtonPrimary, ForcePan: forcePan})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		a.router.PointerDown(PointerEvent{X: sx, Y: sy, Button: ButtonSecondary, ForcePan: forcePan})
	}

	a.router.PointerMove(sx, sy)

	// 抬起事件只路由给打开手势的那个按键：副键 + 空格的强制平移
	// 必须由副键抬起结束，不能等一次不相关的左键抬起
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && a.router.GestureButton() == ButtonPrimary {
		a.router.PointerUp(sx, sy)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) && a.router.GestureButton() == ButtonSecondary {
		a.router.PointerUp(sx, sy)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		// 滚轮步进以 120 为单位换算为缩放增量，方向反转在路由器内处理
		a.router.Wheel(sx, sy, wy*120)
	}
}

// updateKeyboard 处理快捷键
//
// Ctrl+Z 撤销，Ctrl+Shift+Z / Ctrl+Y 重做，Ctrl+C/V 复制粘贴，
// Delete/Backspace 删除选中框，N 切换创建模式，L 切换标签，
// Escape 丢弃手势。
func (a *InputAdapter) updateKeyboard() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		if shift {
			a.router.Redo()
		} else {
			a.router.Undo()
		}
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyY) {
		a.router.Redo()
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.router.CopySelected()
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		a.router.Paste()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.router.DeleteSelected()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.router.SetCreateMode(!a.router.CreateMode())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		on := !a.router.ShowLabels()
		a.router.SetShowLabels(on)
		if a.settings != nil {
			a.settings.SetShowLabels(on)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.router.CancelGesture()
	}
}

// applyCursorShape 将路由器的光标状态同步到系统光标
func (a *InputAdapter) applyCursorShape() {
	var shape ebiten.CursorShapeType
	switch a.router.Cursor() {
	case CursorMove:
		shape = ebiten.CursorShapeMove
	case CursorCrosshair:
		shape = ebiten.CursorShapeCrosshair
	case CursorResizeEW:
		shape = ebiten.CursorShapeEWResize
	case CursorResizeNS:
		shape = ebiten.CursorShapeNSResize
	case CursorResizeNESW:
		shape = ebiten.CursorShapeNESWResize
	case CursorResizeNWSE:
		shape = ebiten.CursorShapeNWSEResize
	case CursorRotate:
		shape = ebiten.CursorShapePointer
	default:
		shape = ebiten.CursorShapeDefault
	}
	ebiten.SetCursorShape(shape)
}
