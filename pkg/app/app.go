// Package app 提供标注工具的核心应用包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端
// 共用。桌面端通过 main.go 调用 NewApp()，移动端通过
// mobile/mobile.go 调用。
package app

import (
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/canvas"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/config"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/history"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/session"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ImagePath 要标注的背景图片路径
	ImagePath string
	// CanvasConfigData 画布配置的 YAML 数据（来自嵌入资源），
	// 为空或解析失败时使用默认配置
	CanvasConfigData []byte
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *session.SceneManager
	verbose      bool
}

// NewApp 创建并初始化标注应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 加载画布配置
	canvasCfg := config.DefaultCanvasConfig()
	if len(cfg.CanvasConfigData) > 0 {
		loaded, err := config.LoadCanvasConfig(cfg.CanvasConfigData)
		if err != nil {
			log.Printf("[App] Warning: failed to load canvas config: %v (using defaults)", err)
		} else {
			canvasCfg = loaded
		}
	}

	// 打开 gdata 跨平台存储，失败时降级为纯内存模式
	gdataManager, err := gdata.Open(gdata.Config{AppName: "annotate_canvas"})
	if err != nil {
		log.Printf("[App] Warning: failed to open gdata storage: %v (running without persistence)", err)
		gdataManager = nil
	}

	settingsManager, err := session.NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("[App] Warning: settings manager degraded: %v", err)
	}

	// 历史引擎：初始框列表由外部保存协作方提供，独立运行时为空；
	// 随后尝试恢复上次会话的崩溃恢复快照
	store := history.NewSnapshotStore(gdataManager)
	hist := history.NewManager(store)
	hist.Initialize(nil)
	hist.Restore()

	sceneManager := session.NewSceneManager()
	sceneManager.SetSceneFactory(func(imagePath string) session.Scene {
		return canvas.NewCanvasScene(canvasCfg, settingsManager, hist, imagePath)
	})
	sceneManager.OpenImage(cfg.ImagePath)

	log.Printf("[App] Initialized, image: %s", cfg.ImagePath)

	return &App{
		sceneManager: sceneManager,
		verbose:      cfg.Verbose,
	}, nil
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 窗口关闭时给当前场景保存状态的机会
	if ebiten.IsWindowBeingClosed() {
		if saveable, ok := a.sceneManager.GetCurrentScene().(session.Saveable); ok {
			if !saveable.SaveOnExit() {
				log.Printf("[App] Warning: scene failed to save on exit")
			}
		}
		return ebiten.Termination
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制应用画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *session.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
