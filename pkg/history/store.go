package history

import (
	"fmt"
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 存储路径常量
const (
	historyObject   = "history"
	historyProperty = "session"
)

// SnapshotMaxAge 是恢复快照的最大年龄
// 启动时超过该年龄的快照被丢弃而非恢复，避免复活陈旧会话
const SnapshotMaxAge = 24 * time.Hour

// snapshotData 是持久化的会话快照结构
type snapshotData struct {
	UndoStack []BoxDelta `yaml:"undoStack"`
	RedoStack []BoxDelta `yaml:"redoStack"`
	Timestamp time.Time  `yaml:"timestamp"`
}

// SnapshotStore 将撤销/重做栈持久化到 gdata 跨平台存储
// 用于崩溃恢复：持久化的是增量日志本身，不是折叠后的框状态
type SnapshotStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式）
	now          func() time.Time
}

// NewSnapshotStore 创建快照存储
// gdataManager 为 nil 时进入降级模式：Save/Load 都是无操作
func NewSnapshotStore(gdataManager *gdata.Manager) *SnapshotStore {
	return &SnapshotStore{
		gdataManager: gdataManager,
		now:          time.Now,
	}
}

// Save 序列化并写入完整的撤销+重做栈
func (s *SnapshotStore) Save(undo, redo []BoxDelta) error {
	if s.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(&snapshotData{
		UndoStack: undo,
		RedoStack: redo,
		Timestamp: s.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal history snapshot: %w", err)
	}

	if err := s.gdataManager.SaveObjectProp(historyObject, historyProperty, data); err != nil {
		return fmt.Errorf("failed to save history snapshot: %w", err)
	}
	return nil
}

// Load 读取上次会话的快照
//
// 快照缺失、损坏或超过 SnapshotMaxAge 时返回 ok=false 并（对损坏/
// 过期情况）记录警告；这些都不是错误，启动流程继续视为无历史。
func (s *SnapshotStore) Load() (undo, redo []BoxDelta, ok bool) {
	if s.gdataManager == nil {
		return nil, nil, false
	}
	if !s.gdataManager.ObjectPropExists(historyObject, historyProperty) {
		return nil, nil, false
	}

	data, err := s.gdataManager.LoadObjectProp(historyObject, historyProperty)
	if err != nil {
		log.Printf("[SnapshotStore] Warning: failed to load snapshot: %v (discarding)", err)
		return nil, nil, false
	}

	var snap snapshotData
	if err := yaml.Unmarshal(data, &snap); err != nil {
		log.Printf("[SnapshotStore] Warning: corrupt snapshot: %v (discarding)", err)
		return nil, nil, false
	}

	if s.now().Sub(snap.Timestamp) > SnapshotMaxAge {
		log.Printf("[SnapshotStore] Snapshot from %s is older than %v, discarding",
			snap.Timestamp.Format(time.RFC3339), SnapshotMaxAge)
		return nil, nil, false
	}

	return snap.UndoStack, snap.RedoStack, true
}

// Clear 删除持久化的快照
func (s *SnapshotStore) Clear() error {
	if s.gdataManager == nil {
		return nil
	}
	if err := s.gdataManager.DeleteObjectProp(historyObject, historyProperty); err != nil {
		return fmt.Errorf("failed to clear history snapshot: %w", err)
	}
	return nil
}
