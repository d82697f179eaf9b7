// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Entry points of the blit shader. The vertex stage takes no buffers and
// draws a fullscreen triangle (3 vertices); the fragment stage samples
// binding 0 (texture_2d<f32>) with binding 1 (sampler) of group 0.
const (
	BlitVertexEntry   = "vs_main"
	BlitFragmentEntry = "fs_main"
)

// blitShaderSource draws a color attachment as a fullscreen triangle.
//
//go:embed shaders/blit.wgsl
var blitShaderSource string

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("native: compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// BlitShader returns a shader module that presents a color attachment,
// for callers building their own present pipeline (see BlitVertexEntry and
// BlitFragmentEntry). It is compiled and created on first use and
// destroyed by Close.
func (b *Binder) BlitShader() (hal.ShaderModule, error) {
	if b.closed {
		return nil, errClosed()
	}
	if b.blit != nil {
		return b.blit, nil
	}

	code, err := compileSPIRV(blitShaderSource)
	if err != nil {
		return nil, err
	}
	module, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "framebuffer_blit",
		Source: hal.ShaderSource{
			SPIRV: code,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create blit shader module: %w", err)
	}
	b.blit = module
	return module, nil
}
