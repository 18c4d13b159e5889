package triptych

import "sync"

var drawLists = sync.Pool{
	New: func() any {
		return &DrawList{
			Vertices: make([]Vertex, 0, 4096),
			Indices:  make([]uint16, 0, 8192),
			Commands: make([]DrawCmd, 0, 16),
			clips:    make([][4]float32, 0, 8),
		}
	},
}

// AcquireDrawList returns an empty list from a shared pool. Hand it back
// with ReleaseDrawList once the frame has been rendered.
func AcquireDrawList() *DrawList {
	dl := drawLists.Get().(*DrawList)
	dl.Clear()
	return dl
}

func ReleaseDrawList(dl *DrawList) {
	if dl == nil {
		return
	}
	drawLists.Put(dl)
}

// DrawList collects one frame of quads. Consecutive quads that share a
// texture and a clip rectangle end up in the same DrawCmd.
type DrawList struct {
	Commands []DrawCmd
	Vertices []Vertex
	Indices  []uint16

	clips   [][4]float32
	clip    [4]float32
	texture uint32

	// Start of the open command in Vertices and Indices.
	vtxBase uint32
	idxBase uint32
}

// Indices are relative to the command's first vertex and must fit in uint16.
const maxCmdVertices = 0xFFFF - 4

var noClip = [4]float32{-1e9, -1e9, 1e9, 1e9}

// Clear empties the list but keeps its buffers.
func (dl *DrawList) Clear() {
	dl.Commands = dl.Commands[:0]
	dl.Vertices = dl.Vertices[:0]
	dl.Indices = dl.Indices[:0]
	dl.clips = dl.clips[:0]
	dl.clip = noClip
	dl.texture = 0
	dl.vtxBase, dl.idxBase = 0, 0
}

// PushClipRect narrows clipping to the given corners. The result never
// exceeds the clip already in effect.
func (dl *DrawList) PushClipRect(x1, y1, x2, y2 float32) {
	dl.clips = append(dl.clips, dl.clip)
	outer := dl.clip
	dl.clip = [4]float32{
		max(x1, outer[0]), max(y1, outer[1]),
		min(x2, outer[2]), min(y2, outer[3]),
	}
	dl.openCommand()
}

// PopClipRect restores the previous clip. Popping an empty stack does nothing.
func (dl *DrawList) PopClipRect() {
	top := len(dl.clips) - 1
	if top < 0 {
		return
	}
	dl.clip = dl.clips[top]
	dl.clips = dl.clips[:top]
	dl.openCommand()
}

// ClipRect reports the clip in effect as x1, y1, x2, y2.
func (dl *DrawList) ClipRect() [4]float32 {
	return dl.clip
}

// SetTexture binds id for the quads that follow; 0 means untextured.
func (dl *DrawList) SetTexture(id uint32) {
	if id == dl.texture {
		return
	}
	dl.texture = id
	dl.openCommand()
}

func (dl *DrawList) closeCommand() {
	if n := len(dl.Commands); n > 0 {
		dl.Commands[n-1].ElemCount = uint32(len(dl.Indices)) - dl.idxBase
	}
}

func (dl *DrawList) openCommand() {
	dl.closeCommand()
	dl.vtxBase = uint32(len(dl.Vertices))
	dl.idxBase = uint32(len(dl.Indices))
	dl.Commands = append(dl.Commands, DrawCmd{
		ClipRect:     dl.clip,
		TextureID:    dl.texture,
		VertexOffset: dl.vtxBase,
		IndexOffset:  dl.idxBase,
	})
}

// quad appends corners in clockwise order starting top-left.
func (dl *DrawList) quad(tl, tr, br, bl Vertex) {
	if len(dl.Commands) == 0 || uint32(len(dl.Vertices))-dl.vtxBase > maxCmdVertices {
		dl.openCommand()
	}
	i := uint16(uint32(len(dl.Vertices)) - dl.vtxBase)
	dl.Vertices = append(dl.Vertices, tl, tr, br, bl)
	dl.Indices = append(dl.Indices, i, i+1, i+2, i, i+2, i+3)
}

func visible(color uint32) bool {
	return color>>24 != 0
}

// AddRect fills a rectangle. Fully transparent or empty rectangles are skipped.
func (dl *DrawList) AddRect(x, y, w, h float32, color uint32) {
	if !visible(color) || w <= 0 || h <= 0 {
		return
	}
	dl.SetTexture(0)
	x2, y2 := x+w, y+h
	dl.quad(
		Vertex{Pos: [2]float32{x, y}, Color: color},
		Vertex{Pos: [2]float32{x2, y}, Color: color},
		Vertex{Pos: [2]float32{x2, y2}, Color: color},
		Vertex{Pos: [2]float32{x, y2}, Color: color},
	)
}

// AddText lays out one line of text from the atlas, top-left at x, y.
func (dl *DrawList) AddText(x, y float32, text string, color uint32, atlas *FontAtlas, scale float32) {
	if !visible(color) || text == "" || atlas == nil {
		return
	}
	dl.SetTexture(atlas.TextureID)

	gw, gh := atlas.CellW*scale, atlas.CellH*scale
	step := atlas.Advance * scale
	y2 := y + gh

	for _, r := range text {
		if unicodeFallback(r) != ' ' {
			top, bottom := atlas.glyphRows(r)
			x2 := x + gw
			dl.quad(
				Vertex{Pos: [2]float32{x, y}, TexCoord: [2]float32{0, top}, Color: color},
				Vertex{Pos: [2]float32{x2, y}, TexCoord: [2]float32{1, top}, Color: color},
				Vertex{Pos: [2]float32{x2, y2}, TexCoord: [2]float32{1, bottom}, Color: color},
				Vertex{Pos: [2]float32{x, y2}, TexCoord: [2]float32{0, bottom}, Color: color},
			)
		}
		x += step
	}
}

// Finalize closes the last command and drops commands with nothing to draw.
// Renderers call it before reading Commands.
func (dl *DrawList) Finalize() {
	dl.closeCommand()
	kept := dl.Commands[:0]
	for _, cmd := range dl.Commands {
		if cmd.ElemCount != 0 {
			kept = append(kept, cmd)
		}
	}
	dl.Commands = kept
}
