// Package opengl draws reader frames with OpenGL 4.1 and feeds it GLFW input.
package opengl

import (
	"fmt"
	"image"
	"image/draw"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font/basicfont"

	"github.com/go-theft-auto/triptych"
)

const vertexSize = int32(unsafe.Sizeof(triptych.Vertex{}))

// Renderer uploads a DrawList per frame and issues one draw call per command.
// It needs a current GL context for its whole lifetime.
type Renderer struct {
	prog     *program
	vao      uint32
	vbo, ibo uint32
	glyphs   uint32

	width, height int
}

// NewRenderer sets up buffers for a width x height framebuffer and uploads
// face's glyph mask as the font texture.
func NewRenderer(width, height int, face *basicfont.Face) (*Renderer, error) {
	prog, err := newProgram()
	if err != nil {
		return nil, fmt.Errorf("shader program: %w", err)
	}
	r := &Renderer{prog: prog, width: width, height: height}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ibo)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ibo)

	var v triptych.Vertex
	attrib := func(loc uint32, n int32, typ uint32, norm bool, off uintptr) {
		gl.VertexAttribPointerWithOffset(loc, n, typ, norm, vertexSize, off)
		gl.EnableVertexAttribArray(loc)
	}
	attrib(0, 2, gl.FLOAT, false, unsafe.Offsetof(v.Pos))
	attrib(1, 2, gl.FLOAT, false, unsafe.Offsetof(v.TexCoord))
	attrib(2, 4, gl.UNSIGNED_BYTE, true, unsafe.Offsetof(v.Color))

	gl.BindVertexArray(0)

	r.glyphs = uploadMask(face)
	return r, nil
}

func (r *Renderer) FontTextureID() uint32 {
	return r.glyphs
}

// Resize sets the framebuffer size used for projection and scissoring.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
}

// Render draws dl over whatever is in the framebuffer. GL state it touches
// is put back afterwards.
func (r *Renderer) Render(dl *triptych.DrawList) error {
	if dl == nil || len(dl.Vertices) == 0 {
		return nil
	}
	dl.Finalize()

	saved := saveState()
	defer saved.restore()

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)

	gl.UseProgram(r.prog.id)
	proj := orthoMatrix(0, float32(r.width), float32(r.height), 0, -1, 1)
	gl.UniformMatrix4fv(r.prog.proj, 1, false, &proj[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.prog.glyphs, 0)

	gl.BindVertexArray(r.vao)
	defer gl.BindVertexArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(dl.Vertices)*int(vertexSize), gl.Ptr(dl.Vertices), gl.STREAM_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(dl.Indices)*2, gl.Ptr(dl.Indices), gl.STREAM_DRAW)

	for _, cmd := range dl.Commands {
		x, y, w, h, ok := r.scissor(cmd.ClipRect)
		if !ok || cmd.ElemCount == 0 {
			continue
		}
		gl.Scissor(x, y, w, h)

		textured := int32(0)
		if cmd.TextureID != 0 {
			gl.BindTexture(gl.TEXTURE_2D, cmd.TextureID)
			textured = 1
		}
		gl.Uniform1i(r.prog.textured, textured)

		gl.DrawElementsBaseVertexWithOffset(gl.TRIANGLES, int32(cmd.ElemCount), gl.UNSIGNED_SHORT,
			uintptr(cmd.IndexOffset)*2, int32(cmd.VertexOffset))
	}
	return nil
}

// scissor turns a top-left based clip into a bottom-left based GL scissor
// box inside the framebuffer. ok is false if the box is empty.
func (r *Renderer) scissor(clip [4]float32) (x, y, w, h int32, ok bool) {
	fw, fh := int32(r.width), int32(r.height)
	left, top := max(int32(clip[0]), 0), max(int32(clip[1]), 0)
	right, bottom := min(int32(clip[2]), fw), min(int32(clip[3]), fh)
	if right <= left || bottom <= top {
		return 0, 0, 0, 0, false
	}
	return left, fh - bottom, right - left, bottom - top, true
}

// Delete frees the renderer's GL objects.
func (r *Renderer) Delete() {
	if r.glyphs != 0 {
		gl.DeleteTextures(1, &r.glyphs)
	}
	for _, b := range []*uint32{&r.vbo, &r.ibo} {
		if *b != 0 {
			gl.DeleteBuffers(1, b)
		}
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	r.prog.delete()
}

// glState is the slice of GL state Render changes.
type glState struct {
	program          int32
	blendSrc, blendD int32
	scissorBox       [4]int32
	caps             map[uint32]bool
}

func saveState() glState {
	s := glState{caps: make(map[uint32]bool, 4)}
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &s.program)
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &s.blendSrc)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &s.blendD)
	gl.GetIntegerv(gl.SCISSOR_BOX, &s.scissorBox[0])
	for _, c := range []uint32{gl.BLEND, gl.DEPTH_TEST, gl.CULL_FACE, gl.SCISSOR_TEST} {
		s.caps[c] = gl.IsEnabled(c)
	}
	return s
}

func (s glState) restore() {
	gl.UseProgram(uint32(s.program))
	gl.BlendFunc(uint32(s.blendSrc), uint32(s.blendD))
	for c, on := range s.caps {
		if on {
			gl.Enable(c)
		} else {
			gl.Disable(c)
		}
	}
	b := s.scissorBox
	gl.Scissor(b[0], b[1], b[2], b[3])
}

// uploadMask copies the face's glyph strip into a single channel texture.
// Glyphs are stacked vertically, face.Height rows apiece.
func uploadMask(face *basicfont.Face) uint32 {
	bounds := face.Mask.Bounds()
	alpha, ok := face.Mask.(*image.Alpha)
	if !ok || alpha.Stride != bounds.Dx() {
		alpha = image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(alpha, alpha.Bounds(), face.Mask, bounds.Min, draw.Src)
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	for param, val := range map[uint32]int32{
		gl.TEXTURE_MIN_FILTER: gl.NEAREST,
		gl.TEXTURE_MAG_FILTER: gl.NEAREST,
		gl.TEXTURE_WRAP_S:     gl.CLAMP_TO_EDGE,
		gl.TEXTURE_WRAP_T:     gl.CLAMP_TO_EDGE,
	} {
		gl.TexParameteri(gl.TEXTURE_2D, param, val)
	}
	// Mask rows are not 4-byte aligned.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(bounds.Dx()), int32(bounds.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(alpha.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// orthoMatrix is a column-major orthographic projection.
func orthoMatrix(left, right, bottom, top, near, far float32) [16]float32 {
	w, h, d := right-left, top-bottom, far-near
	return [16]float32{
		2 / w, 0, 0, 0,
		0, 2 / h, 0, 0,
		0, 0, -2 / d, 0,
		-(right + left) / w, -(top + bottom) / h, -(far + near) / d, 1,
	}
}
