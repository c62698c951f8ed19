package session

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// TestDefaultCanvasSettings 测试 DefaultCanvasSettings() 返回正确的默认值
func TestDefaultCanvasSettings(t *testing.T) {
	settings := DefaultCanvasSettings()

	if settings == nil {
		t.Fatal("DefaultCanvasSettings() returned nil")
	}

	// 验证标签开关默认值
	if !settings.ShowLabels {
		t.Error("ShowLabels: got false, want true")
	}

	// 验证默认类别
	if settings.DefaultClass != "finding" {
		t.Errorf("DefaultClass: got %q, want %q", settings.DefaultClass, "finding")
	}

	// 验证滚轮方向默认值
	if settings.InvertZoom {
		t.Error("InvertZoom: got true, want false")
	}
}

// TestNewSettingsManager 测试正常初始化 SettingsManager
func TestNewSettingsManager(t *testing.T) {
	// 使用临时目录创建 gdata manager
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_canvas_settings",
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}

	sm, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}

	if sm == nil {
		t.Fatal("NewSettingsManager() returned nil")
	}

	// 验证初始化后使用默认设置
	settings := sm.GetSettings()
	if settings == nil {
		t.Fatal("GetSettings() returned nil after initialization")
	}

	if !settings.ShowLabels {
		t.Error("Initial ShowLabels: got false, want true")
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}

	if sm == nil {
		t.Fatal("NewSettingsManager(nil) returned nil")
	}

	// 验证使用默认设置
	settings := sm.GetSettings()
	if settings == nil {
		t.Fatal("GetSettings() returned nil in degraded mode")
	}

	if settings.DefaultClass != "finding" {
		t.Errorf("Degraded mode DefaultClass: got %q, want %q", settings.DefaultClass, "finding")
	}
}

// TestSettingsLoadSave 测试 Load() 和 Save() 功能
func TestSettingsLoadSave(t *testing.T) {
	// 使用临时目录创建 gdata manager
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_canvas_settings_load_save",
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}

	// 创建设置管理器并修改设置
	sm1, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}

	sm1.GetSettings().ShowLabels = false
	sm1.GetSettings().DefaultClass = "defect"
	sm1.GetSettings().InvertZoom = true

	// 保存设置
	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// 创建新的设置管理器，验证加载
	sm2, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error on reload: %v", err)
	}

	settings := sm2.GetSettings()

	if settings.ShowLabels {
		t.Error("Loaded ShowLabels: got true, want false")
	}

	if settings.DefaultClass != "defect" {
		t.Errorf("Loaded DefaultClass: got %q, want %q", settings.DefaultClass, "defect")
	}

	if !settings.InvertZoom {
		t.Error("Loaded InvertZoom: got false, want true")
	}
}

// TestSetShowLabelsPersists 测试 SetShowLabels 立即持久化
func TestSetShowLabelsPersists(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_canvas_settings_labels",
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}

	sm1, _ := NewSettingsManager(gdataManager)
	sm1.SetShowLabels(false)

	sm2, _ := NewSettingsManager(gdataManager)
	if sm2.GetSettings().ShowLabels {
		t.Error("SetShowLabels(false) should persist across managers")
	}
}

// TestGetSettings 测试 GetSettings() 返回正确实例
func TestGetSettings(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	settings1 := sm.GetSettings()
	settings2 := sm.GetSettings()

	// 应该返回相同的实例
	if settings1 != settings2 {
		t.Error("GetSettings() should return the same instance")
	}
}

// TestSaveNilGdataManager 测试降级模式下 Save() 不报错
func TestSaveNilGdataManager(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	// 降级模式下 Save() 应该返回 nil（不报错）
	err := sm.Save()
	if err != nil {
		t.Errorf("Save() in degraded mode should return nil, got: %v", err)
	}
}

// TestLoadNilGdataManager 测试降级模式下 Load() 恢复默认设置
func TestLoadNilGdataManager(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	// 修改设置
	sm.GetSettings().DefaultClass = "note"

	// 重新 Load()
	err := sm.Load()
	if err != nil {
		t.Errorf("Load() in degraded mode should return nil, got: %v", err)
	}

	// 应该恢复为默认值
	if sm.GetSettings().DefaultClass != "finding" {
		t.Errorf("After Load() in degraded mode, DefaultClass: got %q, want %q",
			sm.GetSettings().DefaultClass, "finding")
	}
}
