package device

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// A named program parameter value. Supported value types are int32,
// uint32, float32, mgl32.Vec3, mgl32.Mat4 and Surface.
type Param struct {
	Name  string
	Value interface{}
}

// Create a named parameter.
func P(name string, value interface{}) Param {
	return Param{Name: name, Value: value}
}

// The kind of value that a program parameter accepts.
type ParamKind uint8

// Supported parameter kinds.
const (
	KindInt ParamKind = iota
	KindUint
	KindFloat
	KindVec3
	KindMat4
	KindSurface
)

func (k ParamKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindVec3:
		return "vec3"
	case KindMat4:
		return "mat4"
	case KindSurface:
		return "surface"
	}
	return fmt.Sprintf("ParamKind(%d)", uint8(k))
}

// Get the kind of a parameter value.
func KindOf(value interface{}) (ParamKind, error) {
	switch value.(type) {
	case int32:
		return KindInt, nil
	case uint32:
		return KindUint, nil
	case float32:
		return KindFloat, nil
	case mgl32.Vec3:
		return KindVec3, nil
	case mgl32.Mat4:
		return KindMat4, nil
	case Surface:
		return KindSurface, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedParamType, reflect.TypeOf(value))
}

// A parameter signature table used by backends to validate bindings.
type Signature map[string]ParamKind

// The sorted parameter names in the signature.
func (s Signature) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate a parameter against the signature.
func (s Signature) Check(program string, p Param) error {
	kind, found := s[p.Name]
	if !found {
		return fmt.Errorf("%w: %s.%s", ErrParameterNotFound, program, p.Name)
	}

	gotKind, err := KindOf(p.Value)
	if err != nil {
		return fmt.Errorf("program %s, param %s: %w", program, p.Name, err)
	}
	if gotKind != kind {
		return fmt.Errorf("%w: %s.%s expects %s; got %s", ErrUnsupportedParamType, program, p.Name, kind, gotKind)
	}
	return nil
}

// Check that prog exposes every one of the given parameter names.
func RequireParams(prog Program, names ...string) error {
	exposed := make(map[string]struct{}, len(names))
	for _, name := range prog.Params() {
		exposed[name] = struct{}{}
	}
	for _, name := range names {
		if _, found := exposed[name]; !found {
			return fmt.Errorf("%w: %s.%s", ErrParameterNotFound, prog.Name(), name)
		}
	}
	return nil
}
