// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/palette.wgsl
var paletteShaderWGSL string

// PaletteShaderSource returns the WGSL source of the palette lookup
// shader. Entry points are vs_main and fs_main; binding 0 is the index
// texture, binding 1 the palette texture.
func PaletteShaderSource() string { return paletteShaderWGSL }

// CompilePaletteShader compiles the palette lookup shader to SPIR-V words.
func CompilePaletteShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(paletteShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("render: compile palette shader: %w", err)
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}
