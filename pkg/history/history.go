package history

import (
	"log"
	"time"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/annotation"
)

// MaxEntries 是撤销栈的最大长度
// 超出时最旧的记录被静默丢弃，以有界内存换取极旧操作的可撤销性
const MaxEntries = 100

// Manager 管理增量日志与折叠后的框状态
//
// 单线程使用：所有变更都发生在 UI 事件循环线程上，无需加锁。
type Manager struct {
	undo  []BoxDelta
	redo  []BoxDelta
	boxes []annotation.Box // 折叠状态，与 base + 撤销栈的完整重放严格一致

	// base 是初始框列表加上所有因超限被丢弃的旧增量折叠后的状态
	// 撤销到底时折叠状态回到 base，而不是空集合
	base []annotation.Box

	store       *SnapshotStore // 可为 nil（降级模式，不持久化）
	initialized bool

	// 会话内的标注计数，用于为新框生成可读标签序号
	// 由 Manager 持有，避免模块级可变计数器
	sessionSeq int
}

// NewManager 创建历史管理器
// store 为 nil 时进入降级模式，变更不做崩溃恢复持久化
func NewManager(store *SnapshotStore) *Manager {
	return &Manager{store: store}
}

// Initialize 设置初始框列表
//
// 必须在记录任何增量之前恰好调用一次，由外部持久化协作方在
// 启动时提供初始数据。重复调用会被忽略并记录警告。
func (m *Manager) Initialize(boxes []annotation.Box) {
	if m.initialized {
		log.Printf("[History] Warning: Initialize called twice, ignoring")
		return
	}
	m.boxes = make([]annotation.Box, len(boxes))
	copy(m.boxes, boxes)
	m.base = make([]annotation.Box, len(boxes))
	copy(m.base, boxes)
	m.seedSequence()
	m.initialized = true
}

// Boxes 返回当前折叠后的框列表（调用方不得修改）
func (m *Manager) Boxes() []annotation.Box {
	return m.boxes
}

// NextSequence 递增并返回会话内标注序号
func (m *Manager) NextSequence() int {
	m.sessionSeq++
	return m.sessionSeq
}

// seedSequence 将序号计数推进到当前框列表中的最大序号
// 在初始化和会话恢复后调用，保证新框的序号不与已有框冲突
func (m *Manager) seedSequence() {
	for _, b := range m.boxes {
		if b.Seq > m.sessionSeq {
			m.sessionSeq = b.Seq
		}
	}
}

// CanUndo 返回撤销栈是否非空
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo 返回重做栈是否非空
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// UndoLen 返回撤销栈长度
func (m *Manager) UndoLen() int { return len(m.undo) }

// UndoDeltas 返回撤销栈中的增量（调用方不得修改）
// 供验证工具和测试做完整重放对照
func (m *Manager) UndoDeltas() []BoxDelta { return m.undo }

// BaseBoxes 返回折叠基线（初始列表 + 被丢弃的旧增量，调用方不得修改）
func (m *Manager) BaseBoxes() []annotation.Box { return m.base }

// RecordAdd 记录新增框
func (m *Manager) RecordAdd(b annotation.Box) {
	snapshot := b
	m.push(BoxDelta{
		Type:      DeltaAdd,
		BoxID:     b.EffectiveID(),
		Timestamp: time.Now(),
		Snapshot:  &snapshot,
	})
}

// RecordDelete 记录删除框
//
// 增量捕获框当前的完整快照，撤销时据此恢复。
// 目标框不存在时不记录任何增量，返回 false。
func (m *Manager) RecordDelete(id string) bool {
	idx := annotation.FindByID(m.boxes, id)
	if idx < 0 {
		return false
	}
	snapshot := m.boxes[idx]
	m.push(BoxDelta{
		Type:      DeltaDelete,
		BoxID:     id,
		Timestamp: time.Now(),
		Snapshot:  &snapshot,
	})
	return true
}

// RecordChange 记录一次原地修改（MOVE/RESIZE/ROTATE/CHANGE_CLASS）
//
// 无操作守卫：before 与 after 所有记录字段深相等时整个调用是
// 无操作，不会入栈；起点和终点相同的手势（例如被误判为拖拽的
// 单击）不得污染历史。记录了增量时返回 true。
func (m *Manager) RecordChange(t DeltaType, id string, before, after FieldPatch) bool {
	if before.Equal(after) {
		return false
	}
	m.push(BoxDelta{
		Type:      t,
		BoxID:     id,
		Timestamp: time.Now(),
		Before:    &before,
		After:     &after,
	})
	return true
}

// push 正向应用并压入新增量，清空重做栈，截断超限的旧记录，
// 并持久化快照
func (m *Manager) push(d BoxDelta) {
	m.boxes = d.Apply(m.boxes)
	m.undo = append(m.undo, d)
	if len(m.undo) > MaxEntries {
		// 最旧的增量被静默丢弃，其效果折叠进 base，保证
		// "折叠状态 == base + 撤销栈重放" 始终成立
		drop := m.undo[:len(m.undo)-MaxEntries]
		for _, old := range drop {
			m.base = old.Apply(m.base)
		}
		m.undo = m.undo[len(m.undo)-MaxEntries:]
	}
	// 新增量使重做失效：线性历史不变式
	m.redo = m.redo[:0]
	m.persist()
}

// Undo 撤销最近一次操作
// 撤销栈为空时是静默无操作，返回 false
func (m *Manager) Undo() bool {
	if len(m.undo) == 0 {
		return false
	}
	d := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.boxes = d.Revert(m.boxes)
	m.redo = append(m.redo, d)
	m.persist()
	return true
}

// Redo 重做最近一次被撤销的操作
// 重做栈为空时是静默无操作，返回 false
func (m *Manager) Redo() bool {
	if len(m.redo) == 0 {
		return false
	}
	d := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.boxes = d.Apply(m.boxes)
	m.undo = append(m.undo, d)
	m.persist()
	return true
}

// Restore 从持久化存储恢复上次会话的撤销/重做栈
//
// 在 Initialize 之后、记录任何新增量之前调用。快照缺失、过期或
// 损坏都视为无历史，不是错误。恢复的撤销栈会重放到初始框列表上
// 以重建折叠状态。
func (m *Manager) Restore() {
	if m.store == nil {
		return
	}
	undo, redo, ok := m.store.Load()
	if !ok {
		return
	}
	m.undo = undo
	m.redo = redo
	for _, d := range m.undo {
		m.boxes = d.Apply(m.boxes)
	}
	m.seedSequence()
	log.Printf("[History] Restored session: %d undo, %d redo entries", len(undo), len(redo))
}

// persist 将完整的撤销+重做栈写入持久化存储
// 每次 push/undo/redo 之后调用一次；store 为 nil 时跳过
func (m *Manager) persist() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(m.undo, m.redo); err != nil {
		log.Printf("[History] Warning: failed to persist snapshot: %v", err)
	}
}
