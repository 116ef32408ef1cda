package device

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type stubProgram struct {
	params []string
}

func (p *stubProgram) Name() string             { return "stub" }
func (p *stubProgram) Params() []string         { return p.params }
func (p *stubProgram) SetParams(...Param) error { return nil }

type stubSurface struct{}

func (stubSurface) Name() string      { return "stub" }
func (stubSurface) Width() uint32     { return 1 }
func (stubSurface) Height() uint32    { return 1 }
func (stubSurface) Desc() SurfaceDesc { return SurfaceDesc{} }
func (stubSurface) Release()          {}
func (stubSurface) Released() bool    { return false }

func TestKindOf(t *testing.T) {
	type spec struct {
		value   interface{}
		expKind ParamKind
		expErr  error
	}

	specs := []spec{
		{int32(1), KindInt, nil},
		{uint32(1), KindUint, nil},
		{float32(1), KindFloat, nil},
		{mgl32.Vec3{}, KindVec3, nil},
		{mgl32.Ident4(), KindMat4, nil},
		{stubSurface{}, KindSurface, nil},
		{1, 0, ErrUnsupportedParamType},
		{float64(1), 0, ErrUnsupportedParamType},
		{mgl32.Vec4{}, 0, ErrUnsupportedParamType},
	}

	for index, s := range specs {
		kind, err := KindOf(s.value)
		if s.expErr != nil {
			if !errors.Is(err, s.expErr) {
				t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if kind != s.expKind {
			t.Fatalf("[spec %d] expected kind %s; got %s", index, s.expKind, kind)
		}
	}
}

func TestSignatureCheck(t *testing.T) {
	sig := TraceSignature()

	exp := []string{
		ParamCameraPosition, ParamFrame, ParamInverseProjection, ParamInverseView,
		ParamMaxBounceCount, ParamNumRaysPerPixel, ParamViewportHeight, ParamViewportWidth,
	}
	names := sig.Names()
	if len(names) != len(exp) {
		t.Fatalf("expected %d names; got %d", len(exp), len(names))
	}
	for i := range exp {
		if names[i] != exp[i] {
			t.Fatalf("expected sorted names %v; got %v", exp, names)
		}
	}

	type spec struct {
		param  Param
		expErr error
	}

	specs := []spec{
		{P(ParamFrame, uint32(3)), nil},
		{P(ParamFrame, int32(3)), ErrUnsupportedParamType},
		{P(ParamInverseView, mgl32.Ident4()), nil},
		{P(ParamCameraPosition, mgl32.Ident4()), ErrUnsupportedParamType},
		{P(ParamCurrentFrame, stubSurface{}), ErrParameterNotFound},
		{P(ParamMaxBounceCount, 3), ErrUnsupportedParamType},
	}

	for index, s := range specs {
		err := sig.Check(TraceProgram, s.param)
		if s.expErr == nil && err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if s.expErr != nil && !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestRequireParams(t *testing.T) {
	prog := &stubProgram{params: DenoiseSignature().Names()}

	if err := RequireParams(prog, DenoiseSignature().Names()...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := RequireParams(prog, ParamCurrentFrame, ParamFrame)
	if !errors.Is(err, ErrParameterNotFound) {
		t.Fatalf("expected ErrParameterNotFound; got %v", err)
	}
}

func TestParseColorFormat(t *testing.T) {
	for _, cf := range []ColorFormat{ColorRGBA8, ColorRGBA16F, ColorRGBA32F} {
		got, err := ParseColorFormat(cf.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != cf {
			t.Fatalf("expected %s; got %s", cf, got)
		}
	}

	if _, err := ParseColorFormat("rgb565"); err == nil {
		t.Fatal("expected an error for an unknown color format")
	}
}
