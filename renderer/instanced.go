// Package renderer uploads particle attributes to the graphics device and draws them.
package renderer

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/particle.vert
var particleVert string

//go:embed shaders/particle.frag
var particleFrag string

// Attribute locations, fixed in the vertex shader with layout(location=n).
const (
	attrCorner = 0
	attrOffset = 1
	attrColor  = 2
)

// Component counts and sizes of the per-instance attributes.
const (
	positionFloats = 2
	colorFloats    = 4
	floatSize      = 4
)

// quadVertices is the triangle strip count of one particle quad.
const quadVertices = 4

// InstancedQuads draws every live particle as a colored quad in one instanced call.
// Instance buffers are sized for the full capacity once and refilled each frame.
type InstancedQuads struct {
	capacity int

	prog uint32
	vao  uint32
	buf  struct {
		quad      uint32 // static corners
		positions uint32 // per instance
		colors    uint32 // per instance
	}
	uni struct {
		projection int32
		view       int32
	}

	draws int
}

// NewInstancedQuads compiles the particle program and allocates device buffers for
// capacity instances. A current GL 3.3 context and gl.Init are required.
func NewInstancedQuads(capacity int, halfSize float32) (*InstancedQuads, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("renderer: negative capacity %d", capacity)
	}
	r := &InstancedQuads{capacity: capacity}

	var err error
	r.prog, err = makeProg([]shader{
		{"Vertex", "particle.vert", particleVert, gl.VERTEX_SHADER},
		{"Fragment", "particle.frag", particleFrag, gl.FRAGMENT_SHADER},
	})
	if err != nil {
		return nil, err
	}

	// uniform location cannot be specified in the shaders in OpenGL 3.3 core
	r.uni.projection = gl.GetUniformLocation(r.prog, gl.Str("projection\x00"))
	r.uni.view = gl.GetUniformLocation(r.prog, gl.Str("view\x00"))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	// quad corners, shared by every instance
	corners := quadCorners(halfSize)
	gl.GenBuffers(1, &r.buf.quad)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.buf.quad)
	gl.BufferData(gl.ARRAY_BUFFER, len(corners)*floatSize, gl.Ptr(corners), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(attrCorner)
	gl.VertexAttribPointerWithOffset(attrCorner, 2, gl.FLOAT, false, 0, 0)

	// positions, one vec2 per instance
	gl.GenBuffers(1, &r.buf.positions)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.buf.positions)
	gl.BufferData(gl.ARRAY_BUFFER, r.positionBytes(capacity), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(attrOffset)
	gl.VertexAttribPointerWithOffset(attrOffset, positionFloats, gl.FLOAT, false, 0, 0)
	gl.VertexAttribDivisor(attrOffset, 1)

	// colors, one vec4 per instance
	gl.GenBuffers(1, &r.buf.colors)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.buf.colors)
	gl.BufferData(gl.ARRAY_BUFFER, r.colorBytes(capacity), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(attrColor)
	gl.VertexAttribPointerWithOffset(attrColor, colorFloats, gl.FLOAT, false, 0, 0)
	gl.VertexAttribDivisor(attrColor, 1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	// start with an identity camera
	r.SetCamera(mgl32.Ident4(), mgl32.Ident4())

	return r, nil
}

// quadCorners returns the four triangle strip corners of a square of the given half size.
func quadCorners(h float32) []float32 {
	return []float32{
		-h, -h,
		h, -h,
		-h, h,
		h, h,
	}
}

func (r *InstancedQuads) positionBytes(n int) int { return n * positionFloats * floatSize }
func (r *InstancedQuads) colorBytes(n int) int    { return n * colorFloats * floatSize }

// Cap returns the number of instances the device buffers hold.
func (r *InstancedQuads) Cap() int {
	return r.capacity
}

// Draws returns the number of instanced draw calls issued.
func (r *InstancedQuads) Draws() int {
	return r.draws
}

// SetCamera uploads the projection and view matrices.
func (r *InstancedQuads) SetCamera(projection, view mgl32.Mat4) {
	gl.UseProgram(r.prog)
	gl.UniformMatrix4fv(r.uni.projection, 1, false, &projection[0])
	gl.UniformMatrix4fv(r.uni.view, 1, false, &view[0])
	gl.UseProgram(0)
}

// SyncAndDraw uploads the first live positions and colors and draws live quads.
// Each instance buffer is orphaned before the upload so the driver can hand out
// fresh storage while the previous frame is still being read.
func (r *InstancedQuads) SyncAndDraw(live int, positions, colors []float32) {
	checkUpload(live, r.capacity, positions, colors)
	if live == 0 {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, r.buf.positions)
	gl.BufferData(gl.ARRAY_BUFFER, r.positionBytes(r.capacity), nil, gl.STREAM_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, r.positionBytes(live), gl.Ptr(positions))

	gl.BindBuffer(gl.ARRAY_BUFFER, r.buf.colors)
	gl.BufferData(gl.ARRAY_BUFFER, r.colorBytes(r.capacity), nil, gl.STREAM_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, r.colorBytes(live), gl.Ptr(colors))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.UseProgram(r.prog)
	gl.BindVertexArray(r.vao)
	gl.DrawArraysInstanced(gl.TRIANGLE_STRIP, 0, quadVertices, int32(live))
	gl.BindVertexArray(0)
	gl.UseProgram(0)

	r.draws++
}

// checkUpload panics when an upload would not fit the device buffers or the
// source slices are shorter than live entries.
func checkUpload(live, capacity int, positions, colors []float32) {
	if live < 0 || live > capacity {
		panic(fmt.Sprintf("renderer: upload of %d instances exceeds capacity %d", live, capacity))
	}
	if len(positions) < live*positionFloats || len(colors) < live*colorFloats {
		panic(fmt.Sprintf("renderer: %d instances but %d position and %d color floats",
			live, len(positions), len(colors)))
	}
}

// Unload releases the device objects.
func (r *InstancedQuads) Unload() {
	bufs := []uint32{r.buf.quad, r.buf.positions, r.buf.colors}
	gl.DeleteBuffers(int32(len(bufs)), &bufs[0])
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.prog)
}

// A shader is one stage of a program, compiled from embedded source.
type shader struct {
	name  string
	path  string
	src   string
	stage uint32
}

// makeProg compiles and links an OpenGL program.
func makeProg(shaders []shader) (uint32, error) {
	var errs []string
	ids := make([]uint32, 0, len(shaders))
	for _, s := range shaders {
		id := gl.CreateShader(s.stage)
		str, free := gl.Strs(s.src + "\x00")
		gl.ShaderSource(id, 1, str, nil)
		free()
		gl.CompileShader(id)

		var status int32
		gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
		if status != gl.TRUE {
			var n int32
			gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &n)
			log := strings.Repeat("\x00", int(n+1))
			gl.GetShaderInfoLog(id, n, nil, gl.Str(log))
			errs = append(errs, fmt.Sprintf("%s shader %s: %s", s.name, s.path, strings.TrimRight(log, "\x00")))
			gl.DeleteShader(id)
			continue
		}
		ids = append(ids, id)
	}
	if len(errs) > 0 {
		for _, id := range ids {
			gl.DeleteShader(id)
		}
		return 0, fmt.Errorf("renderer: compiling shaders: %s", strings.Join(errs, "; "))
	}

	prog := gl.CreateProgram()
	for _, id := range ids {
		gl.AttachShader(prog, id)
	}
	gl.LinkProgram(prog)
	for _, id := range ids {
		gl.DeleteShader(id)
	}

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status != gl.TRUE {
		var n int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(prog, n, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("renderer: linking program: %s", strings.TrimRight(log, "\x00"))
	}

	return prog, nil
}
