package canvas

// MenuAction 是右键菜单项触发的动作
type MenuAction int

const (
	MenuCreateBox   MenuAction = iota // 在菜单打开位置创建新框
	MenuPasteHere                     // 在菜单打开位置粘贴剪贴板中的框
	MenuDeleteBox                     // 删除菜单目标框
	MenuChangeClass                   // 修改菜单目标框的类别
)

// MenuItem 是右键菜单中的一行
type MenuItem struct {
	Label  string
	Action MenuAction
	Class  string // MenuChangeClass 时的目标类别
}

// 菜单布局常量（屏幕像素）
const (
	menuItemWidth  = 160.0
	menuItemHeight = 24.0
)

// Overlay 是打开中的右键菜单模型
//
// 同时捕获屏幕坐标（用于 UI 摆放与命中）和世界坐标（用于后续的
// 创建/粘贴动作）。打开期间菜单消费所有指针按下事件：落在菜单
// 内执行对应动作，落在菜单外只关闭菜单，两种情况都不向下传递。
type Overlay struct {
	ScreenX float64 // 菜单左上角屏幕坐标
	ScreenY float64
	WorldX  float64 // 打开菜单时指针的世界坐标
	WorldY  float64

	TargetID string // 打开菜单时指针下的框的有效 ID，空串表示无
	Items    []MenuItem
}

// Width 返回菜单的屏幕宽度
func (o *Overlay) Width() float64 { return menuItemWidth }

// Height 返回菜单的屏幕高度
func (o *Overlay) Height() float64 { return menuItemHeight * float64(len(o.Items)) }

// Contains 判断屏幕点是否落在菜单矩形内
func (o *Overlay) Contains(sx, sy float64) bool {
	return sx >= o.ScreenX && sx <= o.ScreenX+o.Width() &&
		sy >= o.ScreenY && sy <= o.ScreenY+o.Height()
}

// ItemAt 返回屏幕点命中的菜单项
func (o *Overlay) ItemAt(sx, sy float64) (MenuItem, bool) {
	if !o.Contains(sx, sy) {
		return MenuItem{}, false
	}
	idx := int((sy - o.ScreenY) / menuItemHeight)
	if idx < 0 || idx >= len(o.Items) {
		return MenuItem{}, false
	}
	return o.Items[idx], true
}
