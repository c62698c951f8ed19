package session

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 根据背景图片路径创建画布场景，避免包间循环依赖
type SceneFactory func(imagePath string) Scene

// SceneManager 控制当前激活的场景
// 任一时刻只有一个场景的 Update 和 Draw 被调用
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager 创建场景管理器
// 初始无激活场景，使用 SwitchTo 设置首个场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换激活场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前激活的场景，无则返回 nil
// 用于在程序关闭时检查场景是否需要保存状态
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// OpenImage 以指定背景图片路径创建并切换到画布场景
func (sm *SceneManager) OpenImage(imagePath string) {
	log.Printf("[SceneManager] 打开背景图片: %s", imagePath)

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] 错误: SceneFactory 未设置")
		return
	}

	scene := sm.sceneFactory(imagePath)
	if scene == nil {
		log.Printf("[SceneManager] 错误: 无法创建画布场景: %s", imagePath)
		return
	}
	sm.SwitchTo(scene)
}

// Update 更新当前激活的场景，无激活场景时不做任何事
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 渲染当前激活的场景，无激活场景时不做任何事
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
