package imgx

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

const (
	// PosterWidth / PosterHeight 是卡片上海报的展示尺寸。
	PosterWidth  = 190
	PosterHeight = 281
)

var (
	posterFill  = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	posterFrame = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}
)

// PlaceholderPosterPNG 生成没有剧照时使用的占位海报（PNG）。
//
// 约束：
// - 输出固定为 PNG，尺寸为 w x h
// - 浅灰底 + 深灰边框 + 中间一个“画框”符号；同样的输入得到同样的字节
func PlaceholderPosterPNG(w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New("图片尺寸无效")
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: posterFrame}, image.Point{}, draw.Src)

	border := max(1, min(w, h)/40)
	inner := image.Rect(border, border, w-border, h-border)
	if !inner.Empty() {
		draw.Draw(dst, inner, &image.Uniform{C: posterFill}, image.Point{}, draw.Src)
	}

	// 中间的画框：宽度为海报的一半，高宽比 3:4。
	fw := w / 2
	fh := fw * 3 / 4
	if fw > 2*border && fh > 2*border {
		x0 := (w - fw) / 2
		y0 := (h - fh) / 2
		outer := image.Rect(x0, y0, x0+fw, y0+fh)
		draw.Draw(dst, outer, &image.Uniform{C: posterFrame}, image.Point{}, draw.Src)
		draw.Draw(dst, outer.Inset(border), &image.Uniform{C: posterFill}, image.Point{}, draw.Src)
	}

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
