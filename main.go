package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/app"
	"github.com/JohnnyMoCap/test-canvas-sub000/pkg/config"
)

func main() {
	imagePath := flag.String("image", "", "要标注的背景图片路径（png/jpg/webp）")
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	flag.Parse()

	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "usage: annotate -image <path> [-verbose]")
		os.Exit(2)
	}

	configData, err := assetsFS.ReadFile("assets/config/canvas.yaml")
	if err != nil {
		// 嵌入资源缺失时继续使用默认配置
		log.Printf("[Main] Warning: embedded canvas config missing: %v", err)
	}

	a, err := app.NewApp(app.Config{
		Verbose:          *verbose,
		ImagePath:        *imagePath,
		CanvasConfigData: configData,
	})
	if err != nil {
		log.Fatalf("[Main] Failed to initialize app: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("标注画布")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// 关闭事件由 App.Update 处理，给场景保存状态的机会
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
