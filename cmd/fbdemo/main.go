// Command fbdemo binds a framebuffer to the software backend, draws into it,
// optionally resizes it, and writes the primary color attachment to PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/framebuffer"
	"github.com/gogpu/framebuffer/backend"
	"github.com/gogpu/framebuffer/backend/software"
	"github.com/gogpu/framebuffer/render"
)

func main() {
	var (
		width   = flag.Float64("width", 320, "framebuffer width")
		height  = flag.Float64("height", 240, "framebuffer height")
		scale   = flag.Float64("scale", 0, "resize by this factor after drawing (0 = no resize)")
		output  = flag.String("output", "framebuffer.png", "output file")
		verbose = flag.Bool("v", false, "log framebuffer and backend activity")
	)
	flag.Parse()

	if *verbose {
		framebuffer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	log.Printf("Available backends: %v", backend.Available())

	b := software.New()
	defer b.Close()

	fb := framebuffer.New(*width, *height, framebuffer.WithLabel("demo")).
		AddColorTexture(0, nil).
		EnableDepth()
	defer fb.Dispose()

	if err := b.Bind(fb); err != nil {
		log.Fatalf("Failed to bind: %v", err)
	}

	target, err := b.ColorTarget(fb, 0)
	if err != nil {
		log.Fatalf("Failed to get color target: %v", err)
	}
	drawGradient(target)
	drawLabel(target.Image(), fmt.Sprintf("fb%d %dx%d", fb.ID(), fb.Width(), fb.Height()))

	if *scale > 0 {
		if err := fb.Resize(float64(fb.Width())**scale, float64(fb.Height())**scale); err != nil {
			log.Fatalf("Failed to resize: %v", err)
		}
		if err := b.Bind(fb); err != nil {
			log.Fatalf("Failed to rebind: %v", err)
		}
		log.Printf("Resized to %dx%d (versions %+v)", fb.Width(), fb.Height(), fb.Versions())
	}

	describe(b, fb)

	img, err := b.Snapshot(fb, 0)
	if err != nil {
		log.Fatalf("Failed to snapshot: %v", err)
	}
	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Framebuffer saved to %s (%dx%d)\n", *output, img.Bounds().Dx(), img.Bounds().Dy())
}

// describe logs the primary color attachment as any backend exposes it.
func describe(tp backend.TargetProvider, fb *framebuffer.Framebuffer) {
	rt, err := tp.Target(fb, 0)
	if err != nil {
		log.Fatalf("Failed to get render target: %v", err)
	}
	msg := fmt.Sprintf("Color attachment 0: %dx%d %v", rt.Width(), rt.Height(), rt.Format())
	if pt, ok := rt.(*render.PixmapTarget); ok {
		msg += fmt.Sprintf(", center pixel %v", pt.GetPixel(pt.Width()/2, pt.Height()/2))
	}
	log.Print(msg)
}

func drawGradient(t *render.PixmapTarget) {
	w, h := t.Width(), t.Height()
	for y := range h {
		for x := range w {
			t.SetPixel(x, y, color.RGBA{
				R: uint8(40 + 160*x/max(w-1, 1)),
				G: uint8(60 + 100*y/max(h-1, 1)),
				B: 160,
				A: 255,
			})
		}
	}
}

func drawLabel(dst *image.RGBA, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 8+basicfont.Face7x13.Ascent),
	}
	d.DrawString(text)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
