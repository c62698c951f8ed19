package canvas

import (
	"math"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/annotation"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/config"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/geometry"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/history"
)

// Button 是指针按键
type Button int

const (
	ButtonPrimary   Button = iota // 主键（左键）
	ButtonSecondary               // 副键（右键）
)

// PointerEvent 是一次指针按下事件
// 坐标为屏幕像素，设备像素比已由输入适配层应用
type PointerEvent struct {
	X        float64
	Y        float64
	Button   Button
	ForcePan bool // 强制平移修饰键（空格）按下
}

// CursorKind 是悬停状态对应的光标形状
type CursorKind int

const (
	CursorDefault   CursorKind = iota
	CursorMove                 // 框体悬停/拖拽
	CursorCrosshair            // 创建模式
	CursorResizeEW             // 水平缩放
	CursorResizeNS             // 垂直缩放
	CursorResizeNESW
	CursorResizeNWSE
	CursorRotate // 旋转把手
)

// Gesture 是交互手势的标签联合
//
// 同一时刻至多一个手势处于激活状态；用单一联合类型取代一组互相
// 独立的布尔标志，使"同时缩放又旋转"之类的非法组合不可表示。
// 手势进行中绝不写历史：历史在手势结束时一次性写入。
type Gesture interface{ isGesture() }

// GestureIdle 表示无激活手势
type GestureIdle struct{}

// GesturePan 是摄像机平移手势
type GesturePan struct {
	LastX float64 // 上一事件的屏幕坐标
	LastY float64
}

// GestureCreate 是拖拽创建手势
type GestureCreate struct {
	StartWX float64 // 按下时的世界坐标
	StartWY float64
	CurWX   float64
	CurWY   float64
}

// GestureDrag 是框拖拽手势
type GestureDrag struct {
	Start   annotation.Box // 按下时捕获的几何快照
	Current annotation.Box // 手势中的实时几何（未入历史）
	OffsetX float64        // 按下点相对框中心的世界偏移
	OffsetY float64
}

// GestureResize 是框缩放手势
type GestureResize struct {
	Start   annotation.Box
	Current annotation.Box
	Corner  annotation.Corner
}

// GestureRotate 是框旋转手势
type GestureRotate struct {
	Start             annotation.Box
	Current           annotation.Box
	StartPointerAngle float64 // 按下时指针相对框中心的角度
	StartRotation     float64 // 按下时框的旋转角
}

func (GestureIdle) isGesture()   {}
func (GesturePan) isGesture()    {}
func (GestureCreate) isGesture() {}
func (GestureDrag) isGesture()   {}
func (GestureResize) isGesture() {}
func (GestureRotate) isGesture() {}

// Router 将原始指针/键盘输入路由到画布子系统
//
// 指针按下时按固定优先级取恰好一个分支：强制平移 → 打开中的
// 菜单 → 右键菜单 → 创建模式 → 选中框的把手 → 全体框命中测试 →
// 摄像机平移。
type Router struct {
	cfg  *config.CanvasConfig
	hist *history.Manager

	Camera    geometry.Camera
	MinZoom   float64
	ViewportW float64
	ViewportH float64
	ImageW    float64 // 背景未加载时为 0，几何操作短路
	ImageH    float64

	gesture       Gesture
	gestureButton Button // 打开当前手势的按键，输入适配层据此路由抬起事件
	selectedID    string
	hoveredID     string
	cursor        CursorKind
	createMode    bool
	showLabels    bool
	defaultClass  string // 新建标注的默认类别，空值或不在调色板中时取第一项
	invertZoom    bool
	clipboard     *annotation.Box
	overlay       *Overlay
	index      *SpatialIndex

	markDirty func()
}

// NewRouter 创建交互路由器
// markDirty 在任何可见状态变化后被调用（幂等），可为 nil
func NewRouter(cfg *config.CanvasConfig, hist *history.Manager, markDirty func()) *Router {
	if markDirty == nil {
		markDirty = func() {}
	}
	return &Router{
		cfg:       cfg,
		hist:      hist,
		Camera:    geometry.Camera{Zoom: 1},
		gesture:   GestureIdle{},
		markDirty: markDirty,
	}
}

// SetViewport 更新视口尺寸并重新钳制摄像机
func (r *Router) SetViewport(w, h float64) {
	if w == r.ViewportW && h == r.ViewportH {
		return
	}
	r.ViewportW, r.ViewportH = w, h
	r.reclampCamera()
	r.markDirty()
}

// SetImageSize 设置背景图片尺寸
// 背景变化后最小缩放、摄像机钳制和空间索引全部重新计算
func (r *Router) SetImageSize(w, h float64) {
	r.ImageW, r.ImageH = w, h
	r.Camera = geometry.Camera{Zoom: 1}
	r.reclampCamera()
	r.RebuildIndex()
	r.markDirty()
}

// SetShowLabels 切换框 ID 标签
// 标签参与命中测试和索引 AABB，切换后必须重建索引
func (r *Router) SetShowLabels(on bool) {
	if r.showLabels == on {
		return
	}
	r.showLabels = on
	r.RebuildIndex()
	r.markDirty()
}

// ShowLabels 返回标签是否启用
func (r *Router) ShowLabels() bool { return r.showLabels }

// SetDefaultClass 设置新建标注的默认类别
func (r *Router) SetDefaultClass(name string) { r.defaultClass = name }

// SetInvertZoom 设置滚轮缩放方向反转
func (r *Router) SetInvertZoom(on bool) { r.invertZoom = on }

// GestureButton 返回打开当前手势的指针按键
func (r *Router) GestureButton() Button { return r.gestureButton }

// newBoxClass 返回新建标注应使用的类别
// 默认类别必须在调色板中，否则回退到调色板第一项
func (r *Router) newBoxClass() string {
	for _, cs := range r.cfg.ClassPalette {
		if cs.Name == r.defaultClass {
			return r.defaultClass
		}
	}
	if len(r.cfg.ClassPalette) > 0 {
		return r.cfg.ClassPalette[0].Name
	}
	return ""
}

// SetCreateMode 切换创建模式
func (r *Router) SetCreateMode(on bool) {
	r.createMode = on
	r.markDirty()
}

// CreateMode 返回是否处于创建模式
func (r *Router) CreateMode() bool { return r.createMode }

// SelectedID 返回选中框的有效 ID，未选中返回空串
func (r *Router) SelectedID() string { return r.selectedID }

// HoveredID 返回悬停框的有效 ID
func (r *Router) HoveredID() string { return r.hoveredID }

// Cursor 返回当前悬停状态对应的光标形状
func (r *Router) Cursor() CursorKind { return r.cursor }

// CurrentGesture 返回当前手势（渲染层读取创建预览等）
func (r *Router) CurrentGesture() Gesture { return r.gesture }

// CurrentOverlay 返回打开中的右键菜单，未打开返回 nil
func (r *Router) CurrentOverlay() *Overlay { return r.overlay }

// Index 返回当前空间索引，可能为 nil
func (r *Router) Index() *SpatialIndex { return r.index }

// RebuildIndex 从当前框列表整树重建空间索引
// 在结构性变化和手势落定后调用，连续手势过程中不调用
func (r *Router) RebuildIndex() {
	r.index = BuildIndex(r.hist.Boxes(), r.ImageW, r.ImageH, r.showLabels, r.cfg)
}

// BoxesForRender 返回用于渲染的框列表
// 手势中的框以实时几何替换折叠状态中的旧几何
func (r *Router) BoxesForRender() []annotation.Box {
	boxes := r.hist.Boxes()
	var live *annotation.Box
	switch g := r.gesture.(type) {
	case GestureDrag:
		live = &g.Current
	case GestureResize:
		live = &g.Current
	case GestureRotate:
		live = &g.Current
	default:
		return boxes
	}
	out := make([]annotation.Box, len(boxes))
	copy(out, boxes)
	if idx := annotation.FindByID(out, live.EffectiveID()); idx >= 0 {
		out[idx] = *live
	}
	return out
}

// PointerDown 处理指针按下事件，按优先级取恰好一个分支
//
// gestureButton 记录武装当前手势的按键；菜单分支不产生手势，
// 必须保留上一个值，否则拖拽中的一次右键会让左键抬起失配。
func (r *Router) PointerDown(ev PointerEvent) {
	defer r.markDirty()
	prevButton := r.gestureButton
	r.gestureButton = ev.Button

	// 1. 强制平移修饰键压倒下面的一切
	if ev.ForcePan {
		r.gesture = GesturePan{LastX: ev.X, LastY: ev.Y}
		return
	}

	// 2. 打开中的菜单消费点击：菜单内执行动作，菜单外只关闭
	if r.overlay != nil {
		r.gestureButton = prevButton
		if item, ok := r.overlay.ItemAt(ev.X, ev.Y); ok {
			r.runMenuItem(r.overlay, item)
		}
		r.overlay = nil
		return
	}

	// 3. 副键打开右键菜单，捕获屏幕坐标（摆放）和世界坐标（创建）
	if ev.Button == ButtonSecondary {
		r.gestureButton = prevButton
		r.openMenu(ev.X, ev.Y)
		return
	}

	// 背景未就绪时只允许平移
	if r.ImageW <= 0 || r.ImageH <= 0 {
		r.gesture = GesturePan{LastX: ev.X, LastY: ev.Y}
		return
	}

	wp := r.Camera.ScreenToWorld(ev.X, ev.Y, r.ViewportW, r.ViewportH)

	// 4. 创建模式：主键开始创建手势
	if r.createMode {
		r.gesture = GestureCreate{StartWX: wp.X, StartWY: wp.Y, CurWX: wp.X, CurWY: wp.Y}
		return
	}

	// 5. 选中框的把手：旋转把手 > 角点手柄 > 框体
	// 把手绘制在框边缘之外，重叠时必须压过框体
	boxes := r.hist.Boxes()
	if idx := annotation.FindByID(boxes, r.selectedID); idx >= 0 {
		b := boxes[idx]
		if r.hitKnob(b, wp) {
			cx, cy := b.WorldCenter(r.ImageW, r.ImageH)
			r.gesture = GestureRotate{
				Start:             b,
				Current:           b,
				StartPointerAngle: math.Atan2(wp.Y-cy, wp.X-cx),
				StartRotation:     b.Rotation,
			}
			return
		}
		if corner, ok := r.hitCorner(b, wp); ok {
			r.gesture = GestureResize{Start: b, Current: b, Corner: corner}
			return
		}
		if b.ContainsWorldPoint(wp.X, wp.Y, r.ImageW, r.ImageH) {
			r.armDrag(b, wp)
			return
		}
	}

	// 6. 全体框命中测试（含标签），后绘制者优先；命中即选中并
	// 立即武装拖拽，单次按下拖动可同时完成选中和移动
	if i := HitTest(boxes, wp.X, wp.Y, r.ImageW, r.ImageH, r.showLabels, r.cfg, r.index); i >= 0 {
		r.selectedID = boxes[i].EffectiveID()
		r.armDrag(boxes[i], wp)
		return
	}

	// 7. 空白处：开始平移并取消选中
	r.selectedID = ""
	r.gesture = GesturePan{LastX: ev.X, LastY: ev.Y}
}

// armDrag 以按下点相对框中心的偏移武装拖拽手势
// 偏移在移动时被加回，框不会跳到指针位置
func (r *Router) armDrag(b annotation.Box, wp geometry.Point) {
	cx, cy := b.WorldCenter(r.ImageW, r.ImageH)
	r.gesture = GestureDrag{
		Start:   b,
		Current: b,
		OffsetX: cx - wp.X,
		OffsetY: cy - wp.Y,
	}
}

// PointerMove 处理指针移动
// 路由到激活手势；无手势时做悬停命中测试并更新光标
func (r *Router) PointerMove(sx, sy float64) {
	switch g := r.gesture.(type) {
	case GesturePan:
		dx, dy := sx-g.LastX, sy-g.LastY
		wdx, wdy := geometry.RotatePoint(dx, dy, -r.Camera.Rotation)
		r.Camera.X -= wdx / r.Camera.Zoom
		r.Camera.Y -= wdy / r.Camera.Zoom
		r.reclampCamera()
		r.gesture = GesturePan{LastX: sx, LastY: sy}
		r.markDirty()

	case GestureCreate:
		wp := r.Camera.ScreenToWorld(sx, sy, r.ViewportW, r.ViewportH)
		g.CurWX, g.CurWY = wp.X, wp.Y
		r.gesture = g
		r.markDirty()

	case GestureDrag:
		wp := r.Camera.ScreenToWorld(sx, sy, r.ViewportW, r.ViewportH)
		g.Current = annotation.Move(g.Current, wp.X+g.OffsetX, wp.Y+g.OffsetY, r.ImageW, r.ImageH)
		r.gesture = g
		r.markDirty()

	case GestureResize:
		wp := r.Camera.ScreenToWorld(sx, sy, r.ViewportW, r.ViewportH)
		g.Current = annotation.Resize(g.Start, wp.X, wp.Y, r.ImageW, r.ImageH, g.Corner, r.cfg.MinBoxSize)
		r.gesture = g
		r.markDirty()

	case GestureRotate:
		wp := r.Camera.ScreenToWorld(sx, sy, r.ViewportW, r.ViewportH)
		g.Current = annotation.Rotate(g.Start, wp.X, wp.Y, r.ImageW, r.ImageH, g.StartPointerAngle, g.StartRotation)
		r.gesture = g
		r.markDirty()

	default:
		r.updateHover(sx, sy)
	}
}

// PointerUp 结束激活手势
//
// 创建手势只有达到最小尺寸才实例化新框；操作手势比较按下快照与
// 当前几何，有变化时记录恰好一条对应类型的增量。空间索引在手势
// 结束时重建一次，而不是每次移动都重建。
func (r *Router) PointerUp(sx, sy float64) {
	defer func() {
		r.gesture = GestureIdle{}
		r.markDirty()
	}()

	switch g := r.gesture.(type) {
	case GestureCreate:
		w := math.Abs(g.CurWX - g.StartWX)
		h := math.Abs(g.CurWY - g.StartWY)
		if w < r.cfg.MinCreateSize || h < r.cfg.MinCreateSize {
			// 退化的创建拖拽被静默丢弃，预览随之消失
			return
		}
		b := annotation.NewBox(0, 0, 0, 0)
		b.SetWorldCenter((g.StartWX+g.CurWX)/2, (g.StartWY+g.CurWY)/2, r.ImageW, r.ImageH)
		b.SetWorldSize(w, h, r.ImageW, r.ImageH)
		b.Class = r.newBoxClass()
		b.Color = r.cfg.ClassColor(b.Class)
		b.Seq = r.hist.NextSequence()
		r.hist.RecordAdd(b)
		r.selectedID = b.EffectiveID()
		r.createMode = false
		r.RebuildIndex()

	case GestureDrag:
		r.commitChange(history.DeltaMove, g.Start, g.Current)

	case GestureResize:
		r.commitChange(history.DeltaResize, g.Start, g.Current)

	case GestureRotate:
		r.commitChange(history.DeltaRotate, g.Start, g.Current)
	}
}

// commitChange 将一次操作手势的起止几何写入历史
// 无操作守卫在 RecordChange 内部：起止相同的手势不产生增量
func (r *Router) commitChange(t history.DeltaType, start, cur annotation.Box) {
	var before, after history.FieldPatch
	switch t {
	case history.DeltaMove:
		before = history.FieldPatch{X: history.Float(start.X), Y: history.Float(start.Y)}
		after = history.FieldPatch{X: history.Float(cur.X), Y: history.Float(cur.Y)}
	case history.DeltaResize:
		before = history.FieldPatch{
			X: history.Float(start.X), Y: history.Float(start.Y),
			W: history.Float(start.W), H: history.Float(start.H),
		}
		after = history.FieldPatch{
			X: history.Float(cur.X), Y: history.Float(cur.Y),
			W: history.Float(cur.W), H: history.Float(cur.H),
		}
	case history.DeltaRotate:
		before = history.FieldPatch{Rotation: history.Float(start.Rotation)}
		after = history.FieldPatch{Rotation: history.Float(cur.Rotation)}
	}
	if r.hist.RecordChange(t, start.EffectiveID(), before, after) {
		r.RebuildIndex()
	}
}

// CancelGesture 丢弃激活手势的临时状态，不记录任何增量
func (r *Router) CancelGesture() {
	if _, idle := r.gesture.(GestureIdle); idle {
		return
	}
	r.gesture = GestureIdle{}
	r.markDirty()
}

// Wheel 处理滚轮缩放，以指针位置为焦点
func (r *Router) Wheel(sx, sy, delta float64) {
	if r.ImageW <= 0 || r.ImageH <= 0 {
		return
	}
	if r.invertZoom {
		delta = -delta
	}
	r.Camera = geometry.ZoomAt(r.Camera, sx, sy, r.ViewportW, r.ViewportH,
		delta, r.cfg.WheelZoomFactor, r.MinZoom, r.cfg.MaxZoom)
	r.reclampCamera()
	r.markDirty()
}

// Undo 撤销最近一次操作并重建索引
func (r *Router) Undo() {
	if !r.hist.Undo() {
		return
	}
	r.afterHistoryJump()
}

// Redo 重做最近一次被撤销的操作并重建索引
func (r *Router) Redo() {
	if !r.hist.Redo() {
		return
	}
	r.afterHistoryJump()
}

// afterHistoryJump 在撤销/重做后同步派生状态
func (r *Router) afterHistoryJump() {
	r.RebuildIndex()
	if r.selectedID != "" && annotation.FindByID(r.hist.Boxes(), r.selectedID) < 0 {
		r.selectedID = ""
	}
	r.markDirty()
}

// CopySelected 将选中框复制到会话剪贴板
func (r *Router) CopySelected() bool {
	idx := annotation.FindByID(r.hist.Boxes(), r.selectedID)
	if idx < 0 {
		return false
	}
	b := r.hist.Boxes()[idx]
	r.clipboard = &b
	return true
}

// Paste 在原框附近偏移处粘贴剪贴板中的框
// 粘贴产生一个全新临时 ID 的框，记录为 ADD 增量
func (r *Router) Paste() bool {
	if r.clipboard == nil || r.ImageW <= 0 {
		return false
	}
	cx, cy := r.clipboard.WorldCenter(r.ImageW, r.ImageH)
	return r.pasteAt(cx+r.cfg.PasteOffset, cy+r.cfg.PasteOffset)
}

// pasteAt 在指定世界坐标粘贴剪贴板中的框
func (r *Router) pasteAt(wx, wy float64) bool {
	if r.clipboard == nil || r.ImageW <= 0 {
		return false
	}
	b := annotation.NewBox(0, 0, r.clipboard.W, r.clipboard.H)
	b.Rotation = r.clipboard.Rotation
	b.Class = r.clipboard.Class
	b.Color = r.clipboard.Color
	b.Seq = r.hist.NextSequence()
	b.SetWorldCenter(wx, wy, r.ImageW, r.ImageH)
	b = annotation.ClampToImage(b, r.ImageW, r.ImageH)
	r.hist.RecordAdd(b)
	r.selectedID = b.EffectiveID()
	r.RebuildIndex()
	r.markDirty()
	return true
}

// DeleteSelected 删除选中框
func (r *Router) DeleteSelected() bool {
	if r.selectedID == "" {
		return false
	}
	if !r.hist.RecordDelete(r.selectedID) {
		return false
	}
	r.selectedID = ""
	r.RebuildIndex()
	r.markDirty()
	return true
}

// ChangeSelectedClass 修改选中框的类别与颜色
func (r *Router) ChangeSelectedClass(class string) bool {
	return r.changeClass(r.selectedID, class)
}

func (r *Router) changeClass(id, class string) bool {
	idx := annotation.FindByID(r.hist.Boxes(), id)
	if idx < 0 {
		return false
	}
	b := r.hist.Boxes()[idx]
	before := history.FieldPatch{Class: history.Str(b.Class), Color: history.Str(b.Color)}
	after := history.FieldPatch{Class: history.Str(class), Color: history.Str(r.cfg.ClassColor(class))}
	if !r.hist.RecordChange(history.DeltaChangeClass, id, before, after) {
		return false
	}
	r.markDirty()
	return true
}

// openMenu 在指针位置打开右键菜单
func (r *Router) openMenu(sx, sy float64) {
	wp := r.Camera.ScreenToWorld(sx, sy, r.ViewportW, r.ViewportH)
	overlay := &Overlay{
		ScreenX: sx,
		ScreenY: sy,
		WorldX:  wp.X,
		WorldY:  wp.Y,
	}

	target := -1
	if r.ImageW > 0 {
		target = HitTest(r.hist.Boxes(), wp.X, wp.Y, r.ImageW, r.ImageH, r.showLabels, r.cfg, r.index)
	}
	if target >= 0 {
		overlay.TargetID = r.hist.Boxes()[target].EffectiveID()
		overlay.Items = append(overlay.Items, MenuItem{Label: "删除标注", Action: MenuDeleteBox})
		for _, cs := range r.cfg.ClassPalette {
			overlay.Items = append(overlay.Items, MenuItem{
				Label:  "类别: " + cs.Name,
				Action: MenuChangeClass,
				Class:  cs.Name,
			})
		}
	} else {
		overlay.Items = append(overlay.Items, MenuItem{Label: "在此创建标注", Action: MenuCreateBox})
		if r.clipboard != nil {
			overlay.Items = append(overlay.Items, MenuItem{Label: "粘贴到此处", Action: MenuPasteHere})
		}
	}

	r.overlay = overlay
	r.markDirty()
}

// runMenuItem 执行一条菜单动作
func (r *Router) runMenuItem(o *Overlay, item MenuItem) {
	switch item.Action {
	case MenuCreateBox:
		if r.ImageW <= 0 {
			return
		}
		b := annotation.NewBox(0, 0, 0, 0)
		b.SetWorldCenter(o.WorldX, o.WorldY, r.ImageW, r.ImageH)
		b.SetWorldSize(r.cfg.DefaultBoxSize, r.cfg.DefaultBoxSize, r.ImageW, r.ImageH)
		b.Class = r.newBoxClass()
		b.Color = r.cfg.ClassColor(b.Class)
		b.Seq = r.hist.NextSequence()
		b = annotation.ClampToImage(b, r.ImageW, r.ImageH)
		r.hist.RecordAdd(b)
		r.selectedID = b.EffectiveID()
		r.RebuildIndex()

	case MenuPasteHere:
		r.pasteAt(o.WorldX, o.WorldY)

	case MenuDeleteBox:
		if r.hist.RecordDelete(o.TargetID) {
			if r.selectedID == o.TargetID {
				r.selectedID = ""
			}
			r.RebuildIndex()
		}

	case MenuChangeClass:
		r.changeClass(o.TargetID, item.Class)
	}
}

// updateHover 在无手势时做悬停命中测试并更新光标形状
// 优先级与点击命中测试一致：旋转把手 > 角点手柄 > 框体 > 其他框
func (r *Router) updateHover(sx, sy float64) {
	prevHover, prevCursor := r.hoveredID, r.cursor
	r.hoveredID = ""
	r.cursor = CursorDefault

	if r.createMode {
		r.cursor = CursorCrosshair
	}

	if r.ImageW <= 0 || r.ImageH <= 0 {
		r.notifyHover(prevHover, prevCursor)
		return
	}

	wp := r.Camera.ScreenToWorld(sx, sy, r.ViewportW, r.ViewportH)
	boxes := r.hist.Boxes()

	if !r.createMode {
		if idx := annotation.FindByID(boxes, r.selectedID); idx >= 0 {
			b := boxes[idx]
			if r.hitKnob(b, wp) {
				r.hoveredID = r.selectedID
				r.cursor = CursorRotate
				r.notifyHover(prevHover, prevCursor)
				return
			}
			if corner, ok := r.hitCorner(b, wp); ok {
				r.hoveredID = r.selectedID
				r.cursor = r.resizeCursor(b, corner)
				r.notifyHover(prevHover, prevCursor)
				return
			}
		}
		if i := HitTest(boxes, wp.X, wp.Y, r.ImageW, r.ImageH, r.showLabels, r.cfg, r.index); i >= 0 {
			r.hoveredID = boxes[i].EffectiveID()
			r.cursor = CursorMove
		}
	}
	r.notifyHover(prevHover, prevCursor)
}

func (r *Router) notifyHover(prevHover string, prevCursor CursorKind) {
	if r.hoveredID != prevHover || r.cursor != prevCursor {
		r.markDirty()
	}
}

// hitKnob 检测世界坐标点是否命中选中框的旋转把手
// 把手位于框上边缘中点上方 KnobOffset 屏幕像素处，随框一起旋转；
// 容差为屏幕像素，除以 camera.Zoom 转换为世界单位
func (r *Router) hitKnob(b annotation.Box, wp geometry.Point) bool {
	cx, cy := b.WorldCenter(r.ImageW, r.ImageH)
	_, h := b.WorldSize(r.ImageW, r.ImageH)
	kx, ky := geometry.RotatePoint(0, -h/2-r.cfg.KnobOffset/r.Camera.Zoom, b.Rotation)
	kx += cx
	ky += cy
	tol := r.cfg.HandleTolerance / r.Camera.Zoom
	return math.Hypot(wp.X-kx, wp.Y-ky) <= tol
}

// hitCorner 检测世界坐标点命中的角点手柄
func (r *Router) hitCorner(b annotation.Box, wp geometry.Point) (annotation.Corner, bool) {
	cx, cy := b.WorldCenter(r.ImageW, r.ImageH)
	w, h := b.WorldSize(r.ImageW, r.ImageH)
	tol := r.cfg.HandleTolerance / r.Camera.Zoom

	for _, corner := range []annotation.Corner{annotation.CornerNW, annotation.CornerNE, annotation.CornerSE, annotation.CornerSW} {
		lx, ly := corner.LocalOffset(w, h)
		x, y := geometry.RotatePoint(lx, ly, b.Rotation)
		if math.Hypot(wp.X-(cx+x), wp.Y-(cy+y)) <= tol {
			return corner, true
		}
	}
	return 0, false
}

// resizeCursor 根据角点当前的世界角度选择缩放光标
//
// 光标方向由角点相对框中心的实际角度决定，而不是固定的逐角映射，
// 框旋转后光标方向依然正确。
func (r *Router) resizeCursor(b annotation.Box, corner annotation.Corner) CursorKind {
	w, h := b.WorldSize(r.ImageW, r.ImageH)
	lx, ly := corner.LocalOffset(w, h)
	x, y := geometry.RotatePoint(lx, ly, b.Rotation)
	deg := math.Atan2(y, x) * 180 / math.Pi

	// 归一到 [0,180) 后按 45° 扇区选择四个方向之一
	deg = math.Mod(deg+360, 180)
	switch {
	case deg < 22.5 || deg >= 157.5:
		return CursorResizeEW
	case deg < 67.5:
		return CursorResizeNWSE
	case deg < 112.5:
		return CursorResizeNS
	default:
		return CursorResizeNESW
	}
}

// reclampCamera 重新计算最小缩放并钳制摄像机
// 背景未就绪时跳过（避免除零/NaN）
func (r *Router) reclampCamera() {
	if r.ImageW <= 0 || r.ImageH <= 0 || r.ViewportW <= 0 || r.ViewportH <= 0 {
		return
	}
	r.MinZoom = geometry.CalculateMinZoom(r.ViewportW, r.ViewportH, r.ImageW, r.ImageH)
	r.Camera = geometry.ClampCamera(r.Camera, r.ViewportW, r.ViewportH, r.ImageW, r.ImageH, r.MinZoom)
}
