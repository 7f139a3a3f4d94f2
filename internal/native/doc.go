// Package native wraps shader compilation and pipeline resource bookkeeping
// on top of the gogpu/wgpu HAL.
package native
