package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const quadVertexShader = `
#version 410 core
layout (location = 0) in vec2 inPos;
layout (location = 1) in vec2 inUV;
layout (location = 2) in vec4 inColor;

uniform mat4 uProj;

out vec2 uv;
out vec4 tint;

void main() {
    uv = inUV;
    tint = inColor;
    gl_Position = uProj * vec4(inPos, 0.0, 1.0);
}
`

// Glyph textures carry coverage in R; untextured quads use the tint as is.
const quadFragmentShader = `
#version 410 core
in vec2 uv;
in vec4 tint;

uniform sampler2D uGlyphs;
uniform bool uTextured;

out vec4 outColor;

void main() {
    float coverage = uTextured ? texture(uGlyphs, uv).r : 1.0;
    outColor = vec4(tint.rgb, tint.a * coverage);
}
`

// program is a linked shader program with the uniforms the renderer sets.
type program struct {
	id       uint32
	proj     int32
	glyphs   int32
	textured int32
}

func newProgram() (*program, error) {
	vs, err := compile(gl.VERTEX_SHADER, quadVertexShader)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compile(gl.FRAGMENT_SHADER, quadFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)

	var ok int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(id, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link: %s", msg)
	}

	return &program{
		id:       id,
		proj:     uniform(id, "uProj"),
		glyphs:   uniform(id, "uGlyphs"),
		textured: uniform(id, "uTextured"),
	}, nil
}

func (p *program) delete() {
	if p != nil && p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

func compile(kind uint32, src string) (uint32, error) {
	id := gl.CreateShader(kind)
	cs, free := gl.Strs(src + "\x00")
	gl.ShaderSource(id, 1, cs, nil)
	free()
	gl.CompileShader(id)

	var ok int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(id, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(id)
		return 0, fmt.Errorf("compile: %s", msg)
	}
	return id, nil
}

// infoLog reads a shader or program log through the matching pair of GL
// getters.
func infoLog(id uint32, param func(uint32, uint32, *int32), read func(uint32, int32, *int32, *uint8)) string {
	var n int32
	param(id, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return "no log"
	}
	buf := make([]byte, n)
	read(id, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}
