package canvas

import (
	"bytes"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/annotation"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/config"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/geometry"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/history"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/session"
)

// 画布渲染常量
const (
	labelFontSize   = 12.0
	boxStrokeWidth  = 2.0
	previewStroke   = 1.0
	knobLineWidth   = 1.0
	selectionStroke = 3.0
)

// CanvasScene 是标注画布场景
//
// 持有路由器、历史引擎、背景加载器和输入适配器，实现 session.Scene
// 与 session.Saveable。渲染层只读取状态（摄像机、可见框、选中/
// 悬停 ID、创建预览），不做任何修改。
type CanvasScene struct {
	cfg      *config.CanvasConfig
	settings *session.SettingsManager
	hist     *history.Manager
	router   *Router
	input    *InputAdapter

	background *Background
	bgImage    *ebiten.Image

	labelFace *text.GoTextFace

	// dirty 标记派生渲染状态需要重算；由任意事件处理器置位，
	// 置位是幂等的，在固定频率的渲染 tick 上被消费
	dirty   bool
	visible []int
}

// NewCanvasScene 创建画布场景并开始异步加载背景图片
func NewCanvasScene(cfg *config.CanvasConfig, settings *session.SettingsManager, hist *history.Manager, imagePath string) *CanvasScene {
	s := &CanvasScene{
		cfg:        cfg,
		settings:   settings,
		hist:       hist,
		background: NewBackground(),
		dirty:      true,
	}

	s.router = NewRouter(cfg, hist, s.markDirty)
	s.router.SetViewport(float64(config.GameWindowWidth), float64(config.GameWindowHeight))
	s.router.SetShowLabels(settings.GetSettings().ShowLabels)
	s.router.SetDefaultClass(settings.GetSettings().DefaultClass)
	s.router.SetInvertZoom(settings.GetSettings().InvertZoom)
	s.input = NewInputAdapter(s.router, settings)

	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		// 字体不可用时跳过标签渲染，命中测试不受影响
		log.Printf("[CanvasScene] Warning: failed to create label font: %v", err)
	} else {
		s.labelFace = &text.GoTextFace{Source: source, Size: labelFontSize}
	}

	s.background.Load(imagePath)
	return s
}

// Router 返回场景的交互路由器
func (s *CanvasScene) Router() *Router { return s.router }

// markDirty 请求在下一个渲染 tick 重算派生状态
func (s *CanvasScene) markDirty() { s.dirty = true }

// Update 推进场景逻辑
// 背景加载完成的那一帧同步重算最小缩放、摄像机钳制与空间索引
func (s *CanvasScene) Update(deltaTime float64) {
	if s.background.Poll() {
		w, h := s.background.Size()
		s.bgImage = ebiten.NewImageFromImage(s.background.Image())
		s.router.SetImageSize(w, h)
		log.Printf("[CanvasScene] Background loaded: %.0fx%.0f", w, h)
	}
	if err := s.background.Err(); err != nil {
		// 错误只报告一次
		log.Printf("[CanvasScene] Background load failed: %v", err)
		s.background.err = nil
	}

	s.input.Update()
}

// Draw 渲染画布
func (s *CanvasScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 32, G: 32, B: 36, A: 255})

	if s.bgImage == nil {
		return
	}

	cam := s.router.Camera
	vw, vh := s.router.ViewportW, s.router.ViewportH
	imgW, imgH := s.router.ImageW, s.router.ImageH

	// 背景：世界坐标原点在图片中心，图片左上角位于 (-imgW/2, -imgH/2)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-imgW/2-cam.X, -imgH/2-cam.Y)
	op.GeoM.Scale(cam.Zoom, cam.Zoom)
	op.GeoM.Rotate(cam.Rotation)
	op.GeoM.Translate(vw/2, vh/2)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(s.bgImage, op)

	boxes := s.router.BoxesForRender()
	s.refreshVisible(boxes)

	for _, i := range s.visible {
		if i < 0 || i >= len(boxes) {
			continue
		}
		s.drawBox(screen, boxes[i])
	}

	s.drawCreatePreview(screen)
	s.drawOverlay(screen)
}

// refreshVisible 在 dirty 时重算可见框下标缓存
// 可见性查询走空间索引，索引缺失（手势中/无框）时线性扫描
func (s *CanvasScene) refreshVisible(boxes []annotation.Box) {
	if !s.dirty {
		return
	}
	s.dirty = false

	cam := s.router.Camera
	vw, vh := s.router.ViewportW, s.router.ViewportH
	imgW, imgH := s.router.ImageW, s.router.ImageH

	// 视口四角的世界坐标包围盒（摄像机可旋转，不能只取两角）
	corners := [4]geometry.Point{
		cam.ScreenToWorld(0, 0, vw, vh),
		cam.ScreenToWorld(vw, 0, vw, vh),
		cam.ScreenToWorld(vw, vh, vw, vh),
		cam.ScreenToWorld(0, vh, vw, vh),
	}
	minX, minY, maxX, maxY := corners[0].X, corners[0].Y, corners[0].X, corners[0].Y
	for _, p := range corners[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	view := geometry.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}

	// 手势过程中索引可能过期，统一走线性扫描保证一致性
	idx := s.router.Index()
	if _, active := s.router.CurrentGesture().(GestureIdle); !active {
		idx = nil
	}
	s.visible = VisibleBoxes(boxes, view, imgW, imgH, s.router.ShowLabels(), s.cfg, idx)
}

// drawBox 绘制单个标注框（轮廓、选中把手、标签）
func (s *CanvasScene) drawBox(screen *ebiten.Image, b annotation.Box) {
	cam := s.router.Camera
	vw, vh := s.router.ViewportW, s.router.ViewportH
	imgW, imgH := s.router.ImageW, s.router.ImageH

	cx, cy := b.WorldCenter(imgW, imgH)
	w, h := b.WorldSize(imgW, imgH)

	// 四角世界坐标 → 屏幕坐标
	var pts [4]geometry.Point
	for i, corner := range []annotation.Corner{annotation.CornerNW, annotation.CornerNE, annotation.CornerSE, annotation.CornerSW} {
		lx, ly := corner.LocalOffset(w, h)
		x, y := geometry.RotatePoint(lx, ly, b.Rotation)
		pts[i] = cam.WorldToScreen(cx+x, cy+y, vw, vh)
	}

	clr := parseHexColor(b.Color, s.cfg.DefaultColor)
	selected := b.EffectiveID() == s.router.SelectedID()
	hovered := b.EffectiveID() == s.router.HoveredID()

	strokeWidth := float32(boxStrokeWidth)
	if selected {
		strokeWidth = selectionStroke
	} else if hovered {
		strokeWidth = boxStrokeWidth + 1
	}

	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		vector.StrokeLine(screen,
			float32(pts[i].X), float32(pts[i].Y),
			float32(pts[j].X), float32(pts[j].Y),
			strokeWidth, clr, true)
	}

	if selected {
		s.drawHandles(screen, b, pts)
	}

	if s.router.ShowLabels() && s.labelFace != nil {
		top := geometry.TopCorner(cx, cy, w, h, b.Rotation)
		sp := cam.WorldToScreen(top.X, top.Y-s.cfg.LabelHeight, vw, vh)
		textOp := &text.DrawOptions{}
		textOp.GeoM.Translate(sp.X, sp.Y)
		textOp.ColorScale.ScaleWithColor(clr)
		text.Draw(screen, b.Label(), s.labelFace, textOp)
	}
}

// drawHandles 绘制选中框的角点手柄与旋转把手
func (s *CanvasScene) drawHandles(screen *ebiten.Image, b annotation.Box, pts [4]geometry.Point) {
	cam := s.router.Camera
	vw, vh := s.router.ViewportW, s.router.ViewportH
	imgW, imgH := s.router.ImageW, s.router.ImageH

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for _, p := range pts {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(s.cfg.HandleRadius), white, true)
	}

	// 旋转把手：框上边缘中点上方 KnobOffset 屏幕像素，随框旋转
	cx, cy := b.WorldCenter(imgW, imgH)
	_, h := b.WorldSize(imgW, imgH)
	tx, ty := geometry.RotatePoint(0, -h/2, b.Rotation)
	kx, ky := geometry.RotatePoint(0, -h/2-s.cfg.KnobOffset/cam.Zoom, b.Rotation)
	topMid := cam.WorldToScreen(cx+tx, cy+ty, vw, vh)
	knob := cam.WorldToScreen(cx+kx, cy+ky, vw, vh)

	vector.StrokeLine(screen,
		float32(topMid.X), float32(topMid.Y),
		float32(knob.X), float32(knob.Y),
		knobLineWidth, white, true)
	vector.DrawFilledCircle(screen, float32(knob.X), float32(knob.Y), float32(s.cfg.HandleRadius), white, true)
}

// drawCreatePreview 绘制进行中的创建手势预览矩形
func (s *CanvasScene) drawCreatePreview(screen *ebiten.Image) {
	g, ok := s.router.CurrentGesture().(GestureCreate)
	if !ok {
		return
	}

	cam := s.router.Camera
	vw, vh := s.router.ViewportW, s.router.ViewportH

	corners := [4]geometry.Point{
		cam.WorldToScreen(g.StartWX, g.StartWY, vw, vh),
		cam.WorldToScreen(g.CurWX, g.StartWY, vw, vh),
		cam.WorldToScreen(g.CurWX, g.CurWY, vw, vh),
		cam.WorldToScreen(g.StartWX, g.CurWY, vw, vh),
	}
	clr := parseHexColor(s.cfg.DefaultColor, s.cfg.DefaultColor)
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		vector.StrokeLine(screen,
			float32(corners[i].X), float32(corners[i].Y),
			float32(corners[j].X), float32(corners[j].Y),
			previewStroke, clr, true)
	}
}

// drawOverlay 绘制打开中的右键菜单
func (s *CanvasScene) drawOverlay(screen *ebiten.Image) {
	o := s.router.CurrentOverlay()
	if o == nil {
		return
	}

	bg := color.RGBA{R: 48, G: 48, B: 54, A: 240}
	vector.DrawFilledRect(screen,
		float32(o.ScreenX), float32(o.ScreenY),
		float32(o.Width()), float32(o.Height()),
		bg, true)

	if s.labelFace == nil {
		return
	}
	white := color.RGBA{R: 230, G: 230, B: 230, A: 255}
	for i, item := range o.Items {
		textOp := &text.DrawOptions{}
		textOp.GeoM.Translate(o.ScreenX+8, o.ScreenY+float64(i)*menuItemHeight+4)
		textOp.ColorScale.ScaleWithColor(white)
		text.Draw(screen, item.Label, s.labelFace, textOp)
	}
}

// SaveOnExit 在退出时持久化设置
// 历史快照在每次变更后已即时持久化，这里只需落盘设置
func (s *CanvasScene) SaveOnExit() bool {
	if err := s.settings.Save(); err != nil {
		log.Printf("[CanvasScene] Warning: failed to save settings on exit: %v", err)
		return false
	}
	return true
}

// parseHexColor 解析 "#RRGGBB" 颜色，失败时回退到默认颜色
func parseHexColor(s, fallback string) color.RGBA {
	parse := func(v string) (color.RGBA, bool) {
		if len(v) != 7 || v[0] != '#' {
			return color.RGBA{}, false
		}
		var r, g, b uint8
		for i, dst := range []*uint8{&r, &g, &b} {
			hi, ok1 := hexDigit(v[1+i*2])
			lo, ok2 := hexDigit(v[2+i*2])
			if !ok1 || !ok2 {
				return color.RGBA{}, false
			}
			*dst = hi<<4 | lo
		}
		return color.RGBA{R: r, G: g, B: b, A: 255}, true
	}

	if c, ok := parse(s); ok {
		return c
	}
	if c, ok := parse(fallback); ok {
		return c
	}
	return color.RGBA{R: 60, G: 179, B: 113, A: 255}
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
