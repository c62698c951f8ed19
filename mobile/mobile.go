//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包，使用
// ebitenmobile 工具构建时会自动调用 init() 函数。
// 此文件仅在使用 -tags mobile 构建时编译。
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/app"
)

func init() {
	a, err := app.NewApp(app.Config{
		// 移动端图片由宿主应用放置在应用私有目录的固定路径
		ImagePath: "background.png",
	})
	if err != nil {
		log.Fatalf("[Mobile] Failed to initialize app: %v", err)
	}
	mobile.SetGame(a)
}

// Dummy 是 ebitenmobile 要求的导出占位符
func Dummy() {}
