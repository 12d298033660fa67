package assets

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// FramebufferImage wraps RGBA8 pixels read back from GL (bottom-left origin)
// into an image with a top-left origin.
func FramebufferImage(w, h int, rgba []byte) (*image.RGBA, error) {
	if w <= 0 || h <= 0 || len(rgba) != w*h*4 {
		return nil, fmt.Errorf("framebuffer %dx%d: got %d bytes", w, h, len(rgba))
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	row := w * 4
	// Flip vertically to match image's top-left origin.
	for y := 0; y < h; y++ {
		src := rgba[(h-1-y)*row : (h-y)*row]
		copy(img.Pix[y*img.Stride:y*img.Stride+row], src)
	}
	return img, nil
}

// SavePNG writes a framebuffer readback to path.
func SavePNG(path string, w, h int, rgba []byte) error {
	img, err := FramebufferImage(w, h, rgba)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png %q: %w", path, err)
	}
	return f.Close()
}
