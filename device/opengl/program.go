package opengl

import (
	"fmt"
	"strings"

	"github.com/achilleasa/lumen/device"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// A linked GLSL program and the uniforms it exposes.
type program struct {
	dev  *Device
	name string
	id   uint32

	// Active uniforms by name, as reported by the linker.
	locations map[string]int32
	sig       device.Signature

	values map[string]interface{}
}

func (p *program) Name() string {
	return p.name
}

func (p *program) Params() []string {
	return p.sig.Names()
}

// Bind parameters. Values are recorded and uploaded when the program is
// drawn. The call is atomic; if any parameter fails validation none of the
// parameters are bound.
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

// Upload bound values to the program uniforms. Surfaces are assigned to
// consecutive texture units in parameter name order.
func (p *program) apply() error {
	gl.UseProgram(p.id)

	var textureUnit int32
	for _, name := range p.sig.Names() {
		value, bound := p.values[name]
		if !bound {
			return fmt.Errorf("opengl device: program %s: parameter %s is not bound: %w", p.name, name, device.ErrParameterNotFound)
		}

		loc := p.locations[name]
		switch v := value.(type) {
		case int32:
			gl.Uniform1i(loc, v)
		case uint32:
			gl.Uniform1ui(loc, v)
		case float32:
			gl.Uniform1f(loc, v)
		case mgl32.Vec3:
			gl.Uniform3fv(loc, 1, &v[0])
		case mgl32.Mat4:
			gl.UniformMatrix4fv(loc, 1, false, &v[0])
		case *surface:
			if v.released {
				return fmt.Errorf("opengl device: program %s: %w: %s", p.name, device.ErrSurfaceReleased, v.desc.Name)
			}
			gl.ActiveTexture(gl.TEXTURE0 + uint32(textureUnit))
			gl.BindTexture(gl.TEXTURE_2D, v.texture)
			gl.Uniform1i(loc, textureUnit)
			textureUnit++
		default:
			return fmt.Errorf("opengl device: program %s, param %s: %w", p.name, name, device.ErrUnsupportedParamType)
		}
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

func (p *program) release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// Map GLSL uniform types to parameter kinds.
var uniformKinds = map[uint32]device.ParamKind{
	gl.INT:          device.KindInt,
	gl.UNSIGNED_INT: device.KindUint,
	gl.FLOAT:        device.KindFloat,
	gl.FLOAT_VEC3:   device.KindVec3,
	gl.FLOAT_MAT4:   device.KindMat4,
	gl.SAMPLER_2D:   device.KindSurface,
}

// Compile and link a program from the shared full-screen vertex shader and
// the given fragment source, then enumerate its active uniforms.
func buildProgram(dev *Device, name, fragSource string) (*program, error) {
	vertShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragShader)

	id := gl.CreateProgram()
	gl.AttachShader(id, vertShader)
	gl.AttachShader(id, fragShader)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(id, logLength, nil, &log[0])
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link: %s", strings.TrimRight(string(log), "\x00"))
	}

	p := &program{
		dev:       dev,
		name:      name,
		id:        id,
		locations: make(map[string]int32),
		sig:       make(device.Signature),
		values:    make(map[string]interface{}),
	}

	var numUniforms, maxNameLen int32
	gl.GetProgramiv(id, gl.ACTIVE_UNIFORMS, &numUniforms)
	gl.GetProgramiv(id, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxNameLen)
	nameBuf := make([]uint8, maxNameLen+1)
	for index := uint32(0); index < uint32(numUniforms); index++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(id, index, int32(len(nameBuf)), &length, &size, &xtype, &nameBuf[0])
		uniformName := string(nameBuf[:length])

		kind, supported := uniformKinds[xtype]
		if !supported {
			dev.logger.Warningf("program %s: ignoring uniform %s with unsupported type 0x%x", name, uniformName, xtype)
			continue
		}
		p.sig[uniformName] = kind
		p.locations[uniformName] = gl.GetUniformLocation(id, gl.Str(uniformName+"\x00"))
	}

	return p, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", strings.TrimRight(string(log), "\x00"))
	}

	return shader, nil
}
