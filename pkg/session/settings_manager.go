package session

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// CanvasSettings 全局画布显示设置
// 这些设置是全局的，不绑定到特定图片
type CanvasSettings struct {
	// ShowLabels 是否在画布上绘制框 ID 标签
	// 标签参与命中测试，因此此开关也影响空间索引的 AABB 膨胀
	ShowLabels bool `yaml:"showLabels"`

	// DefaultClass 新建标注的默认类别
	DefaultClass string `yaml:"defaultClass"`

	// InvertZoom 反转滚轮缩放方向
	InvertZoom bool `yaml:"invertZoom"`
}

// DefaultCanvasSettings 返回默认设置
func DefaultCanvasSettings() *CanvasSettings {
	return &CanvasSettings{
		ShowLabels:   true,
		DefaultClass: "finding",
		InvertZoom:   false,
	}
}

// SettingsManager 设置管理器
// 负责画布设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *CanvasSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "canvas"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultCanvasSettings(),
	}

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或设置不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultCanvasSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultCanvasSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultCanvasSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loaded CanvasSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultCanvasSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = &loaded
	return nil
}

// Save 保存设置到 gdata
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// GetSettings 返回当前设置
func (sm *SettingsManager) GetSettings() *CanvasSettings {
	return sm.settings
}

// SetShowLabels 更新标签开关并立即持久化
func (sm *SettingsManager) SetShowLabels(on bool) {
	sm.settings.ShowLabels = on
	if err := sm.Save(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to save settings: %v", err)
	}
}
