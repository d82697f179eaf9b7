// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuffer

import "testing"

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.factory == nil {
		t.Fatal("default factory should not be nil")
	}
	if _, ok := o.factory(ColorTextureOptions(1, 1)).(*Texture); !ok {
		t.Error("default factory should create *Texture")
	}
}

func TestWithTextureFactoryNilKeepsDefault(t *testing.T) {
	fb := New(4, 4, WithTextureFactory(nil))
	fb.AddColorTexture(0, nil)
	if _, ok := fb.PrimaryColorTexture().(*Texture); !ok {
		t.Error("nil factory should keep the default")
	}
}

func TestWithLabel(t *testing.T) {
	fb := New(4, 4, WithLabel("shadow"))
	if fb.Label() != "shadow" {
		t.Errorf("Label() = %q, want %q", fb.Label(), "shadow")
	}
	fb.AddDepthTexture(nil)
	if got := fb.DepthTexture().(*Texture).Label(); got != "shadow/depth" {
		t.Errorf("depth label = %q, want %q", got, "shadow/depth")
	}
}
