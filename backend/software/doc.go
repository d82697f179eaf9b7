// Package software provides a CPU backend for framebuffers.
//
// Each bound framebuffer gets one *image.RGBA per color attachment and, when
// depth or stencil is requested, a uint16 depth plane and a uint8 stencil
// plane. Resizes rescale the color images so existing content survives;
// format changes start over from cleared planes.
//
// The backend registers itself as "software" on import:
//
//	import _ "github.com/gogpu/framebuffer/backend/software"
package software
