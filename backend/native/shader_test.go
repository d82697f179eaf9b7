// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"strings"
	"testing"
)

// skipIfUnsupported skips when naga cannot compile the shader yet.
func skipIfUnsupported(t *testing.T, err error) {
	t.Helper()
	msg := err.Error()
	if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
		t.Skipf("Skipping: naga feature not yet implemented: %v", err)
	}
}

func TestBlitShaderSource(t *testing.T) {
	if blitShaderSource == "" {
		t.Fatal("blit shader source is empty")
	}
	for _, entry := range []string{"fn " + BlitVertexEntry, "fn " + BlitFragmentEntry} {
		if !strings.Contains(blitShaderSource, entry) {
			t.Errorf("blit shader missing %q", entry)
		}
	}
}

func TestCompileSPIRV(t *testing.T) {
	code, err := compileSPIRV(blitShaderSource)
	if err != nil {
		skipIfUnsupported(t, err)
		t.Fatalf("compileSPIRV() error = %v", err)
	}
	if len(code) == 0 {
		t.Fatal("compileSPIRV() returned no words")
	}
	// SPIR-V magic number.
	if code[0] != 0x07230203 {
		t.Errorf("code[0] = %#08x, want SPIR-V magic 0x07230203", code[0])
	}
}

func TestCompileSPIRVInvalid(t *testing.T) {
	if _, err := compileSPIRV("fn broken("); err == nil {
		t.Error("compileSPIRV() of invalid WGSL should fail")
	}
}

func TestBinderBlitShader(t *testing.T) {
	b, _ := newTestBinder(t)

	first, err := b.BlitShader()
	if err != nil {
		skipIfUnsupported(t, err)
		t.Fatalf("BlitShader() error = %v", err)
	}
	second, err := b.BlitShader()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("BlitShader() compiled twice")
	}
	b.Close()
}
