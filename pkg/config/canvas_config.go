package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// 窗口配置常量
const (
	// GameWindowWidth 是标注窗口的逻辑宽度（像素）
	GameWindowWidth = 1280

	// GameWindowHeight 是标注窗口的逻辑高度（像素）
	GameWindowHeight = 800
)

// ClassStyle 标注类别样式
// 每个类别对应一个显示名称和显示颜色（#RRGGBB 格式）
type ClassStyle struct {
	Name  string `yaml:"name"`  // 类别名称，如 "defect"
	Color string `yaml:"color"` // 显示颜色，如 "#E53935"
}

// CanvasConfig 画布交互配置
//
// 所有以 "Px" 结尾注释的字段使用屏幕像素单位，需要在使用时除以
// camera.Zoom 转换为世界单位；其余尺寸字段直接使用世界单位
// （背景图片像素）。
//
// 标签（nametag）的尺寸只在此处定义一次。空间索引的 AABB 膨胀和
// 线性扫描回退路径都必须引用同一组常量，避免两条命中测试路径
// 因常量漂移而产生不一致的结果。
type CanvasConfig struct {
	// WheelZoomFactor 是滚轮缩放灵敏度 k：newZoom = zoom * exp(delta*k)
	WheelZoomFactor float64 `yaml:"wheelZoomFactor"`

	// MaxZoom 是允许的最大缩放倍数（屏幕像素/世界像素）
	MaxZoom float64 `yaml:"maxZoom"`

	// HandleTolerance 是角点手柄的命中容差（屏幕像素）
	HandleTolerance float64 `yaml:"handleTolerance"`

	// HandleRadius 是角点手柄的绘制半径（屏幕像素）
	HandleRadius float64 `yaml:"handleRadius"`

	// KnobOffset 是旋转把手到标注框上边缘的距离（屏幕像素）
	KnobOffset float64 `yaml:"knobOffset"`

	// MinCreateSize 是拖拽创建的最小边长（世界像素），低于此值的
	// 创建手势被静默丢弃
	MinCreateSize float64 `yaml:"minCreateSize"`

	// MinBoxSize 是缩放操作的最小边长下限（世界像素），防止框被
	// 拖成退化矩形
	MinBoxSize float64 `yaml:"minBoxSize"`

	// DefaultBoxSize 是菜单"在此创建标注"生成的默认边长（世界像素）
	DefaultBoxSize float64 `yaml:"defaultBoxSize"`

	// LabelWidth / LabelHeight 是框 ID 标签的近似占位尺寸（世界像素），
	// 锚定在框旋转后最高的角点上方
	LabelWidth  float64 `yaml:"labelWidth"`
	LabelHeight float64 `yaml:"labelHeight"`

	// PasteOffset 是粘贴时相对原框的偏移量（世界像素）
	PasteOffset float64 `yaml:"pasteOffset"`

	// DefaultColor 是未指定颜色时的默认框颜色
	DefaultColor string `yaml:"defaultColor"`

	// ClassPalette 是右键菜单中可选的类别列表
	ClassPalette []ClassStyle `yaml:"classPalette"`
}

// DefaultCanvasConfig 返回默认画布配置
func DefaultCanvasConfig() *CanvasConfig {
	return &CanvasConfig{
		WheelZoomFactor: 0.001,
		MaxZoom:         8.0,
		HandleTolerance: 8.0,
		HandleRadius:    4.0,
		KnobOffset:      24.0,
		MinCreateSize:   4.0,
		MinBoxSize:      1.0,
		DefaultBoxSize:  64.0,
		LabelWidth:      48.0,
		LabelHeight:     16.0,
		PasteOffset:     16.0,
		DefaultColor:    "#3CB371",
		ClassPalette: []ClassStyle{
			{Name: "finding", Color: "#3CB371"},
			{Name: "defect", Color: "#E53935"},
			{Name: "note", Color: "#1E88E5"},
		},
	}
}

// LoadCanvasConfig 从 YAML 数据加载画布配置
//
// 未出现在 YAML 中的字段保留默认值。解析失败时返回错误，
// 调用方通常降级使用 DefaultCanvasConfig()。
func LoadCanvasConfig(data []byte) (*CanvasConfig, error) {
	cfg := DefaultCanvasConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse canvas config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置的数值范围
func (c *CanvasConfig) Validate() error {
	if c.WheelZoomFactor <= 0 {
		return fmt.Errorf("invalid canvas config: wheelZoomFactor must be positive, got %v", c.WheelZoomFactor)
	}
	if c.MaxZoom <= 0 {
		return fmt.Errorf("invalid canvas config: maxZoom must be positive, got %v", c.MaxZoom)
	}
	if c.MinBoxSize <= 0 {
		return fmt.Errorf("invalid canvas config: minBoxSize must be positive, got %v", c.MinBoxSize)
	}
	return nil
}

// ClassColor 返回指定类别的显示颜色
// 未知类别返回默认颜色
func (c *CanvasConfig) ClassColor(name string) string {
	for _, cs := range c.ClassPalette {
		if cs.Name == name {
			return cs.Color
		}
	}
	return c.DefaultColor
}
