//go:build !mobile

// 非 mobile 构建时的占位文件，保证包在常规构建下仍可编译
package mobile
