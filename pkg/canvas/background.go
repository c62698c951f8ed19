package canvas

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// backgroundResult 是一次背景解码的结果
type backgroundResult struct {
	img image.Image
	err error
}

// Background 管理背景图片的异步加载
//
// 解码在独立 goroutine 中执行（启动或 URL 变化时触发一次），
// 完成结果通过 channel 交回 UI 事件循环：Poll 在每个 tick 上以
// 非阻塞方式检查。图片尺寸就绪之前，所有依赖背景尺寸的几何操作
// 都短路为安全的无操作。
type Background struct {
	img     image.Image
	width   float64
	height  float64
	loading bool
	err     error
	result  chan backgroundResult
}

// NewBackground 创建未加载状态的背景
func NewBackground() *Background {
	return &Background{}
}

// Load 开始异步加载指定路径的背景图片
// 再次调用会替换进行中的加载结果
func (bg *Background) Load(path string) {
	bg.loading = true
	bg.err = nil
	result := make(chan backgroundResult, 1)
	bg.result = result

	go func() {
		img, err := decodeImage(path)
		result <- backgroundResult{img: img, err: err}
	}()
}

// decodeImage 按扩展名解码图片文件
// WebP 走专用解码器，其余常见格式由 imaging 处理
func decodeImage(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open background image: %w", err)
		}
		defer f.Close()
		img, err := webp.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode webp background: %w", err)
		}
		return img, nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open background image: %w", err)
	}
	return img, nil
}

// Poll 非阻塞地检查异步加载是否完成
// 恰好在完成的那一次调用返回 true，调用方据此重算最小缩放、
// 重新钳制摄像机并重建空间索引
func (bg *Background) Poll() bool {
	if !bg.loading || bg.result == nil {
		return false
	}
	select {
	case res := <-bg.result:
		bg.loading = false
		bg.result = nil
		if res.err != nil {
			bg.err = res.err
			return false
		}
		bg.img = res.img
		bounds := res.img.Bounds()
		bg.width = float64(bounds.Dx())
		bg.height = float64(bounds.Dy())
		return true
	default:
		return false
	}
}

// Ready 返回背景是否已加载完成
func (bg *Background) Ready() bool { return bg.img != nil }

// Loading 返回是否有加载进行中
func (bg *Background) Loading() bool { return bg.loading }

// Err 返回最近一次加载失败的原因
func (bg *Background) Err() error { return bg.err }

// Image 返回解码后的图片，未就绪时为 nil
func (bg *Background) Image() image.Image { return bg.img }

// Size 返回图片的像素尺寸，未就绪时为 (0, 0)
func (bg *Background) Size() (float64, float64) { return bg.width, bg.height }
