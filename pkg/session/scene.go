// Package session 提供场景管理与用户设置的会话层
package session

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 表示应用的一个场景（加载场景、标注画布场景）
// 每个场景拥有自己的更新与渲染逻辑
type Scene interface {
	// Update 基于距上次更新经过的时间（秒）推进场景逻辑
	Update(deltaTime float64)

	// Draw 将场景渲染到给定的屏幕
	Draw(screen *ebiten.Image)
}

// Saveable 是一个可选接口，场景实现它以在退出时保存状态
//
// 实现此接口的场景会在窗口关闭或程序被 OS 命令终止时被调用
// SaveOnExit()。
type Saveable interface {
	// SaveOnExit 在场景退出时保存状态
	// 返回 true 表示保存成功或无需保存；返回 false 表示保存失败
	// （程序仍会正常退出）
	SaveOnExit() bool
}
