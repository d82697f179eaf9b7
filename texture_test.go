// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuffer

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNewTextureDefaultsResolution(t *testing.T) {
	tests := []struct {
		name string
		res  float64
		want float64
	}{
		{"zero", 0, 1},
		{"negative", -2, 1},
		{"explicit", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := NewTexture(TextureOptions{Width: 10, Height: 10, Resolution: tt.res})
			if tex.Resolution() != tt.want {
				t.Errorf("Resolution() = %g, want %g", tex.Resolution(), tt.want)
			}
		})
	}
}

func TestTextureRealSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, res    float64
		wantW, wantH int
	}{
		{"unit", 64, 32, 1, 64, 32},
		{"hidpi", 50.5, 10, 2, 101, 20},
		{"fractional", 10.2, 3.1, 1, 11, 4},
		{"empty", 0, 0, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := NewTexture(TextureOptions{Width: tt.w, Height: tt.h, Resolution: tt.res})
			if tex.RealWidth() != tt.wantW || tex.RealHeight() != tt.wantH {
				t.Errorf("real size = (%d, %d), want (%d, %d)",
					tex.RealWidth(), tex.RealHeight(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestTextureResizeVersion(t *testing.T) {
	tex := NewTexture(ColorTextureOptions(10, 10))

	if err := tex.Resize(10, 10); err != nil {
		t.Fatalf("Resize() = %v", err)
	}
	if tex.Version() != 0 {
		t.Errorf("Version() = %d after same-size resize, want 0", tex.Version())
	}

	if err := tex.Resize(20, 10); err != nil {
		t.Fatalf("Resize() = %v", err)
	}
	if tex.Version() != 1 {
		t.Errorf("Version() = %d, want 1", tex.Version())
	}
	if tex.Width() != 20 {
		t.Errorf("Width() = %g, want 20", tex.Width())
	}
}

func TestTextureDestroy(t *testing.T) {
	tex := NewTexture(DepthTextureOptions(4, 4))
	tex.Destroy()
	tex.Destroy()

	if !tex.Destroyed() {
		t.Error("Destroyed() = false after Destroy")
	}
	if err := tex.Resize(8, 8); !errors.Is(err, ErrTextureDestroyed) {
		t.Errorf("Resize() = %v, want ErrTextureDestroyed", err)
	}
}

func TestTextureOptionPresets(t *testing.T) {
	color := ColorTextureOptions(3, 4)
	if color.Format != gputypes.TextureFormatRGBA8Unorm || color.Type != ComponentUnsignedByte {
		t.Errorf("ColorTextureOptions = %+v", color)
	}
	depth := DepthTextureOptions(3, 4)
	if depth.Format != gputypes.TextureFormatDepth16Unorm || depth.Type != ComponentUnsignedShort {
		t.Errorf("DepthTextureOptions = %+v", depth)
	}
	for _, o := range []TextureOptions{color, depth} {
		if o.Width != 3 || o.Height != 4 || o.Resolution != 1 || o.Mipmap || o.ScaleMode != gputypes.FilterModeNearest {
			t.Errorf("preset = %+v, want 3x4 nearest res 1 without mips", o)
		}
	}
}

func TestComponentTypeString(t *testing.T) {
	tests := []struct {
		c    ComponentType
		want string
	}{
		{ComponentUnsignedByte, "uint8"},
		{ComponentUnsignedShort, "uint16"},
		{ComponentFloat, "float32"},
		{ComponentType(9), "ComponentType(9)"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
