package software

import (
	"fmt"

	"github.com/achilleasa/lumen/device"
	"github.com/go-gl/mathgl/mgl32"
)

// A ShadeFunc computes the value of a single target pixel. It is invoked
// concurrently for different rows of the target and must only read from
// the invocation.
type ShadeFunc func(inv *Invocation, x, y int) mgl32.Vec4

// A program implemented by a Go shading function.
type program struct {
	dev    *Device
	name   string
	sig    device.Signature
	shade  ShadeFunc
	values map[string]interface{}
}

func newProgram(dev *Device, name string, sig device.Signature, shade ShadeFunc) *program {
	return &program{
		dev:    dev,
		name:   name,
		sig:    sig,
		shade:  shade,
		values: make(map[string]interface{}, len(sig)),
	}
}

func (p *program) Name() string {
	return p.name
}

func (p *program) Params() []string {
	return p.sig.Names()
}

// Bind parameters. The call is atomic; if any parameter fails validation
// none of the parameters are bound.
func (p *program) SetParams(params ...device.Param) error {
	for _, param := range params {
		if err := p.sig.Check(p.name, param); err != nil {
			return err
		}
		if surf, isSurface := param.Value.(device.Surface); isSurface {
			if _, err := p.dev.ownSurface(surf); err != nil {
				return fmt.Errorf("program %s, param %s: %w", p.name, param.Name, err)
			}
		}
	}
	for _, param := range params {
		p.values[param.Name] = param.Value
	}
	return nil
}

// Get the surfaces currently bound to the program.
func (p *program) boundSurfaces() []*surface {
	var out []*surface
	for _, name := range p.sig.Names() {
		if s, ok := p.values[name].(*surface); ok {
			out = append(out, s)
		}
	}
	return out
}

// Ensure that every declared parameter has a value.
func (p *program) checkBound() error {
	for _, name := range p.sig.Names() {
		if _, ok := p.values[name]; !ok {
			return fmt.Errorf("software device: program %s: parameter %s is not bound: %w", p.name, name, device.ErrParameterNotFound)
		}
	}
	return nil
}

// The state visible to a ShadeFunc while a program executes.
type Invocation struct {
	Width  int
	Height int

	prog *program
}

func (inv *Invocation) Int(name string) int32 {
	v, _ := inv.prog.values[name].(int32)
	return v
}

func (inv *Invocation) Uint(name string) uint32 {
	v, _ := inv.prog.values[name].(uint32)
	return v
}

func (inv *Invocation) Float(name string) float32 {
	v, _ := inv.prog.values[name].(float32)
	return v
}

func (inv *Invocation) Vec3(name string) mgl32.Vec3 {
	v, _ := inv.prog.values[name].(mgl32.Vec3)
	return v
}

func (inv *Invocation) Mat4(name string) mgl32.Mat4 {
	v, _ := inv.prog.values[name].(mgl32.Mat4)
	return v
}

// Fetch a texel from a bound surface. Coordinates are clamped to the
// surface edges so sources of a different size are sampled nearest-neighbor.
func (inv *Invocation) Texel(name string, x, y int) mgl32.Vec4 {
	s, ok := inv.prog.values[name].(*surface)
	if !ok || s.released {
		return mgl32.Vec4{}
	}
	sx := x * int(s.desc.Width) / inv.Width
	sy := y * int(s.desc.Height) / inv.Height
	return s.at(sx, sy)
}
