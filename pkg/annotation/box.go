// Package annotation 定义标注框实体及其纯几何变换
package annotation

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/geometry"
)

// Box 是背景图片上的一个可操作矩形标注
//
// ID 与 TempID 有且只有一个生效："有效 ID" 优先取持久化的整数 ID，
// 未保存时取会话内的临时字符串 ID。两者不会同时为空。
//
// X/Y 是框中心、W/H 是框尺寸，均归一化到 [0,1]（相对背景图片
// 宽/高），与分辨率无关。几何运算先经 World* 方法转换到世界坐标
// （以图片中心为原点的像素坐标）执行，再转换回归一化坐标存储。
//
// 框的身份在整个编辑生命周期内不变，只有几何/类别字段会被修改。
type Box struct {
	ID     int64  `yaml:"id,omitempty"`     // 持久化 ID，0 表示尚未保存
	TempID string `yaml:"tempId,omitempty"` // 保存前的会话临时 ID

	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	W        float64 `yaml:"w"`
	H        float64 `yaml:"h"`
	Rotation float64 `yaml:"rotation,omitempty"` // 弧度，默认 0

	Class string `yaml:"class,omitempty"` // 标注类别
	Color string `yaml:"color,omitempty"` // 显示颜色，空值由配置提供默认色

	// Seq 是会话内的可读标签序号，由历史管理器在创建时分配
	// 0 表示没有序号（外部导入的框），创建后不再改变
	Seq int `yaml:"seq,omitempty"`
}

// NewBox 创建一个带会话临时 ID 的新标注框
// 新框由用户操作产生（拖拽创建、菜单创建、粘贴），持久化 ID 由
// 外部保存协作方在之后分配
func NewBox(x, y, w, h float64) Box {
	return Box{
		TempID: uuid.NewString(),
		X:      x,
		Y:      y,
		W:      w,
		H:      h,
	}
}

// EffectiveID 返回框的有效 ID
// 持久化 ID 存在时优先使用，否则使用会话临时 ID
func (b Box) EffectiveID() string {
	if b.ID != 0 {
		return strconv.FormatInt(b.ID, 10)
	}
	return b.TempID
}

// Label 返回画布上绘制的可读标签
// 持久化 ID > 会话序号 > 临时 ID；临时 ID 是 UUID，只作兜底
func (b Box) Label() string {
	if b.ID != 0 {
		return strconv.FormatInt(b.ID, 10)
	}
	if b.Seq > 0 {
		return "#" + strconv.Itoa(b.Seq)
	}
	return b.TempID
}

// WorldCenter 返回框中心的世界坐标（以图片中心为原点）
func (b Box) WorldCenter(imageW, imageH float64) (float64, float64) {
	return (b.X - 0.5) * imageW, (b.Y - 0.5) * imageH
}

// WorldSize 返回框的世界尺寸（像素）
func (b Box) WorldSize(imageW, imageH float64) (float64, float64) {
	return b.W * imageW, b.H * imageH
}

// SetWorldCenter 以世界坐标设置框中心（转换回归一化坐标存储）
func (b *Box) SetWorldCenter(wx, wy, imageW, imageH float64) {
	b.X = wx/imageW + 0.5
	b.Y = wy/imageH + 0.5
}

// SetWorldSize 以世界尺寸设置框宽高（转换回归一化坐标存储）
func (b *Box) SetWorldSize(w, h, imageW, imageH float64) {
	b.W = w / imageW
	b.H = h / imageH
}

// WorldAABB 返回框旋转后的轴对齐包围盒（世界坐标）
func (b Box) WorldAABB(imageW, imageH float64) geometry.Rect {
	cx, cy := b.WorldCenter(imageW, imageH)
	w, h := b.WorldSize(imageW, imageH)
	return geometry.RotatedAABB(cx, cy, w, h, b.Rotation)
}

// ContainsWorldPoint 判断世界坐标点是否落在框内（边界算命中）
func (b Box) ContainsWorldPoint(wx, wy, imageW, imageH float64) bool {
	cx, cy := b.WorldCenter(imageW, imageH)
	w, h := b.WorldSize(imageW, imageH)
	return geometry.PointInRotatedBox(wx, wy, cx, cy, w, h, b.Rotation)
}

// FindByID 在框列表中按有效 ID 查找，返回下标，未找到返回 -1
func FindByID(boxes []Box, id string) int {
	for i := range boxes {
		if boxes[i].EffectiveID() == id {
			return i
		}
	}
	return -1
}
