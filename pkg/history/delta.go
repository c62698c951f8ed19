// Package history 提供基于增量日志的撤销/重做引擎
//
// 当前框集合在概念上是撤销栈中所有增量从空集合开始正向折叠的
// 结果。实现上折叠状态被增量维护以保证性能，但必须与完整重放
// 的结果严格一致。增量日志是框状态的唯一事实来源；状态不另行
// 存储再单独记日志。
package history

import (
	"time"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/annotation"
)

// DeltaType 是增量记录的类型
type DeltaType string

const (
	DeltaAdd         DeltaType = "ADD"
	DeltaDelete      DeltaType = "DELETE"
	DeltaMove        DeltaType = "MOVE"
	DeltaResize      DeltaType = "RESIZE"
	DeltaRotate      DeltaType = "ROTATE"
	DeltaChangeClass DeltaType = "CHANGE_CLASS"
)

// FieldPatch 是框可变字段的部分快照
// 只有被该次操作实际修改的字段才是非 nil，序列化时省略空字段
type FieldPatch struct {
	X        *float64 `yaml:"x,omitempty"`
	Y        *float64 `yaml:"y,omitempty"`
	W        *float64 `yaml:"w,omitempty"`
	H        *float64 `yaml:"h,omitempty"`
	Rotation *float64 `yaml:"rotation,omitempty"`
	Class    *string  `yaml:"class,omitempty"`
	Color    *string  `yaml:"color,omitempty"`
}

// Float 返回指向 v 副本的指针，用于构造 FieldPatch
func Float(v float64) *float64 { return &v }

// Str 返回指向 s 副本的指针，用于构造 FieldPatch
func Str(s string) *string { return &s }

// Equal 深比较两个补丁记录的所有字段
// 用于无操作守卫：before 与 after 相等的增量不得入栈
func (p FieldPatch) Equal(o FieldPatch) bool {
	return eqFloat(p.X, o.X) && eqFloat(p.Y, o.Y) &&
		eqFloat(p.W, o.W) && eqFloat(p.H, o.H) &&
		eqFloat(p.Rotation, o.Rotation) &&
		eqStr(p.Class, o.Class) && eqStr(p.Color, o.Color)
}

func eqFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// apply 将补丁中的非 nil 字段合并进框
func (p FieldPatch) apply(b *annotation.Box) {
	if p.X != nil {
		b.X = *p.X
	}
	if p.Y != nil {
		b.Y = *p.Y
	}
	if p.W != nil {
		b.W = *p.W
	}
	if p.H != nil {
		b.H = *p.H
	}
	if p.Rotation != nil {
		b.Rotation = *p.Rotation
	}
	if p.Class != nil {
		b.Class = *p.Class
	}
	if p.Color != nil {
		b.Color = *p.Color
	}
}

// BoxDelta 是一条不可变的历史增量记录
//
// ADD/DELETE 携带完整的框快照（DELETE 的快照用于撤销时恢复）；
// 原地修改类型（MOVE/RESIZE/ROTATE/CHANGE_CLASS）携带变更字段的
// before/after 部分快照。
type BoxDelta struct {
	Type      DeltaType       `yaml:"type"`
	BoxID     string          `yaml:"boxId"`
	Timestamp time.Time       `yaml:"timestamp"`
	Snapshot  *annotation.Box `yaml:"snapshot,omitempty"`
	Before    *FieldPatch     `yaml:"before,omitempty"`
	After     *FieldPatch     `yaml:"after,omitempty"`
}

// Apply 将增量正向应用到框列表，返回新列表
//
// 目标框不存在时返回原列表（防御性默认值：正确的时序下不应
// 发生，测试中值得暴露，但不应使用户侧崩溃）。
func (d BoxDelta) Apply(boxes []annotation.Box) []annotation.Box {
	switch d.Type {
	case DeltaAdd:
		if d.Snapshot == nil {
			return boxes
		}
		return append(boxes, *d.Snapshot)
	case DeltaDelete:
		return removeByID(boxes, d.BoxID)
	default:
		return patchByID(boxes, d.BoxID, d.After)
	}
}

// Revert 将增量反向应用到框列表（撤销），返回新列表
func (d BoxDelta) Revert(boxes []annotation.Box) []annotation.Box {
	switch d.Type {
	case DeltaAdd:
		return removeByID(boxes, d.BoxID)
	case DeltaDelete:
		if d.Snapshot == nil {
			return boxes
		}
		return append(boxes, *d.Snapshot)
	default:
		return patchByID(boxes, d.BoxID, d.Before)
	}
}

func removeByID(boxes []annotation.Box, id string) []annotation.Box {
	idx := annotation.FindByID(boxes, id)
	if idx < 0 {
		return boxes
	}
	out := make([]annotation.Box, 0, len(boxes)-1)
	out = append(out, boxes[:idx]...)
	return append(out, boxes[idx+1:]...)
}

func patchByID(boxes []annotation.Box, id string, patch *FieldPatch) []annotation.Box {
	idx := annotation.FindByID(boxes, id)
	if idx < 0 || patch == nil {
		return boxes
	}
	out := make([]annotation.Box, len(boxes))
	copy(out, boxes)
	patch.apply(&out[idx])
	return out
}
