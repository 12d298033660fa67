package gfx

// Pass draws one geometry with one program.
type Pass struct {
	Name     string
	Program  *Program
	Geometry *Geometry
}

// Draw issues the pass as a triangle list.
func (p Pass) Draw() {
	p.Program.Use()
	p.Geometry.Bind()
	p.Program.dev.DrawTriangles(0, p.Geometry.Count())
}

// Release frees the geometry and the program.
func (p Pass) Release() {
	p.Geometry.Release()
	p.Program.Release()
}
