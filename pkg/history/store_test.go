package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/annotation"
)

// createTestGdataManager 创建用于测试的 gdata Manager
func createTestGdataManager(t *testing.T, testName string) *gdata.Manager {
	appName := fmt.Sprintf("canvas_history_test_%s_%d", testName, time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil
	}

	// 注册清理函数，测试结束后删除测试目录
	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			testDir := filepath.Join(homeDir, ".local", "share", appName)
			os.RemoveAll(testDir)
		}
	})

	return manager
}

// TestSnapshotSaveLoadRoundTrip 测试快照写入后能原样恢复
func TestSnapshotSaveLoadRoundTrip(t *testing.T) {
	manager := createTestGdataManager(t, "roundtrip")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	store := NewSnapshotStore(manager)

	snap := annotation.Box{TempID: "tmp-1", X: 0.5, Y: 0.5, W: 0.1, H: 0.1, Class: "finding"}
	undo := []BoxDelta{
		{Type: DeltaAdd, BoxID: "tmp-1", Timestamp: time.Now(), Snapshot: &snap},
		{Type: DeltaMove, BoxID: "tmp-1", Timestamp: time.Now(),
			Before: &FieldPatch{X: Float(0.5)}, After: &FieldPatch{X: Float(0.7)}},
	}
	redo := []BoxDelta{
		{Type: DeltaRotate, BoxID: "tmp-1", Timestamp: time.Now(),
			Before: &FieldPatch{Rotation: Float(0)}, After: &FieldPatch{Rotation: Float(1.5)}},
	}

	if err := store.Save(undo, redo); err != nil {
		t.Fatalf("Save: %v", err)
	}

	gotUndo, gotRedo, ok := store.Load()
	if !ok {
		t.Fatal("Load: got ok=false, want true")
	}
	if len(gotUndo) != 2 || len(gotRedo) != 1 {
		t.Fatalf("stack sizes: got %d/%d, want 2/1", len(gotUndo), len(gotRedo))
	}
	if gotUndo[0].Type != DeltaAdd || gotUndo[0].Snapshot == nil || gotUndo[0].Snapshot.TempID != "tmp-1" {
		t.Errorf("restored add delta: got %+v", gotUndo[0])
	}
	if gotUndo[1].After == nil || gotUndo[1].After.X == nil || *gotUndo[1].After.X != 0.7 {
		t.Errorf("restored move delta after-patch: got %+v", gotUndo[1].After)
	}
	if gotRedo[0].Type != DeltaRotate {
		t.Errorf("restored redo delta type: got %s, want %s", gotRedo[0].Type, DeltaRotate)
	}
}

// TestSnapshotMissingIsNotAnError 测试快照缺失时返回无历史
func TestSnapshotMissingIsNotAnError(t *testing.T) {
	manager := createTestGdataManager(t, "missing")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	store := NewSnapshotStore(manager)

	_, _, ok := store.Load()
	if ok {
		t.Error("Load without a saved snapshot: got ok=true, want false")
	}
}

// TestSnapshotExpiryDiscarded 测试超过最大年龄的快照被丢弃
func TestSnapshotExpiryDiscarded(t *testing.T) {
	manager := createTestGdataManager(t, "expiry")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	store := NewSnapshotStore(manager)

	// 把存储时钟拨回 25 小时前写入快照
	store.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	if err := store.Save([]BoxDelta{{Type: DeltaAdd, BoxID: "x"}}, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	store.now = time.Now
	_, _, ok := store.Load()
	if ok {
		t.Error("expired snapshot should be discarded")
	}
}

// TestSnapshotCorruptDiscarded 测试损坏的快照被丢弃而非报错
func TestSnapshotCorruptDiscarded(t *testing.T) {
	manager := createTestGdataManager(t, "corrupt")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	if err := manager.SaveObjectProp(historyObject, historyProperty, []byte("{{{not yaml")); err != nil {
		t.Fatalf("SaveObjectProp: %v", err)
	}

	store := NewSnapshotStore(manager)
	_, _, ok := store.Load()
	if ok {
		t.Error("corrupt snapshot should be discarded")
	}
}

// TestSnapshotClear 测试清除后快照不再可恢复
func TestSnapshotClear(t *testing.T) {
	manager := createTestGdataManager(t, "clear")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	store := NewSnapshotStore(manager)

	if err := store.Save([]BoxDelta{{Type: DeltaAdd, BoxID: "x"}}, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	_, _, ok := store.Load()
	if ok {
		t.Error("cleared snapshot should not load")
	}
}

// TestSnapshotStoreNilManager 测试降级模式下存储是安全的无操作
func TestSnapshotStoreNilManager(t *testing.T) {
	store := NewSnapshotStore(nil)

	if err := store.Save([]BoxDelta{{Type: DeltaAdd, BoxID: "x"}}, nil); err != nil {
		t.Errorf("Save in degraded mode: got %v, want nil", err)
	}
	if _, _, ok := store.Load(); ok {
		t.Error("Load in degraded mode: got ok=true, want false")
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear in degraded mode: got %v, want nil", err)
	}
}

// TestManagerRestoreReplaysOntoInitial 测试恢复的撤销栈重放到初始列表
func TestManagerRestoreReplaysOntoInitial(t *testing.T) {
	manager := createTestGdataManager(t, "restore")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	store := NewSnapshotStore(manager)

	// 第一个会话：初始一个框，新增一个、移动初始框
	first := NewManager(store)
	first.Initialize([]annotation.Box{{ID: 1, X: 0.2, Y: 0.2, W: 0.1, H: 0.1}})
	first.RecordAdd(annotation.NewBox(0.6, 0.6, 0.1, 0.1))
	first.RecordChange(DeltaMove, "1", FieldPatch{X: Float(0.2)}, FieldPatch{X: Float(0.4)})

	// 第二个会话：同样的初始数据 + Restore
	second := NewManager(store)
	second.Initialize([]annotation.Box{{ID: 1, X: 0.2, Y: 0.2, W: 0.1, H: 0.1}})
	second.Restore()

	if len(second.Boxes()) != 2 {
		t.Fatalf("restored session: got %d boxes, want 2", len(second.Boxes()))
	}
	idx := annotation.FindByID(second.Boxes(), "1")
	if idx < 0 || second.Boxes()[idx].X != 0.4 {
		t.Errorf("restored move not replayed: %+v", second.Boxes())
	}
	if !second.CanUndo() {
		t.Error("restored session should have undo history")
	}
}
