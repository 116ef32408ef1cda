package renderer

import (
	"errors"
	"testing"

	"github.com/achilleasa/lumen/device"
	"github.com/achilleasa/lumen/device/software"
)

func TestFrameBufferSetAllocateRelease(t *testing.T) {
	dev := software.New(16, 8)
	defer dev.Close()

	fs := NewFrameBufferSet(dev, device.ColorRGBA16F, device.Depth24Stencil8, true)
	if fs.Allocated() {
		t.Fatal("expected a new frame buffer set to be empty")
	}

	if err := fs.Allocate(16, 8); err != nil {
		t.Fatal(err)
	}
	if dev.LiveSurfaces() != 3 {
		t.Fatalf("expected 3 live surfaces; got %d", dev.LiveSurfaces())
	}

	seen := make(map[device.Surface]Role)
	for _, role := range []Role{Current, Previous, Accumulated} {
		surf := fs.Get(role)
		if surf == nil {
			t.Fatalf("expected a surface for role %s", role)
		}
		if other, dup := seen[surf]; dup {
			t.Fatalf("expected role %s not to alias role %s", role, other)
		}
		seen[surf] = role

		desc := surf.Desc()
		if desc.Width != 16 || desc.Height != 8 {
			t.Fatalf("expected %s to be 16x8; got %dx%d", role, desc.Width, desc.Height)
		}
		if desc.Color != device.ColorRGBA16F || desc.Depth != device.Depth24Stencil8 || !desc.DiscardOnBind {
			t.Fatalf("expected %s to use the configured formats; got %+v", role, desc)
		}
		if desc.Name != role.String() {
			t.Fatalf("expected surface name %q; got %q", role.String(), desc.Name)
		}
	}

	fs.Release()
	if dev.LiveSurfaces() != 0 {
		t.Fatalf("expected 0 live surfaces after release; got %d", dev.LiveSurfaces())
	}
	if fs.Get(Current) != nil || fs.Allocated() {
		t.Fatal("expected released set to hold no surfaces")
	}

	// Second release is a no-op
	fs.Release()
	if dev.LiveSurfaces() != 0 {
		t.Fatalf("expected 0 live surfaces after second release; got %d", dev.LiveSurfaces())
	}
}

func TestFrameBufferSetReallocate(t *testing.T) {
	dev := software.New(16, 8)
	defer dev.Close()

	fs := NewFrameBufferSet(dev, device.ColorRGBA8, device.DepthNone, true)
	if err := fs.Allocate(16, 8); err != nil {
		t.Fatal(err)
	}
	old := fs.Get(Previous)

	if err := fs.Allocate(32, 24); err != nil {
		t.Fatal(err)
	}
	if !old.Released() {
		t.Fatal("expected previous surfaces to be released on reallocation")
	}
	if dev.LiveSurfaces() != 3 {
		t.Fatalf("expected 3 live surfaces after reallocation; got %d", dev.LiveSurfaces())
	}
	if w, h := fs.Size(); w != 32 || h != 24 {
		t.Fatalf("expected frame buffer size to be 32x24; got %dx%d", w, h)
	}
	fs.Release()
}

func TestFrameBufferSetAllocateInvalidSize(t *testing.T) {
	dev := software.New(16, 8)
	defer dev.Close()

	fs := NewFrameBufferSet(dev, device.ColorRGBA8, device.DepthNone, true)
	if err := fs.Allocate(16, 8); err != nil {
		t.Fatal(err)
	}

	err := fs.Allocate(0, 8)
	if !errors.Is(err, ErrInvalidFrameSize) {
		t.Fatalf("expected ErrInvalidFrameSize; got %v", err)
	}
	if dev.LiveSurfaces() != 0 {
		t.Fatalf("expected failed allocation to leave no live surfaces; got %d", dev.LiveSurfaces())
	}
}

type failingDevice struct {
	*software.Device
	failAfter int
}

func (d *failingDevice) NewSurface(desc device.SurfaceDesc) (device.Surface, error) {
	if d.failAfter == 0 {
		return nil, device.ErrSurfaceAllocation
	}
	d.failAfter--
	return d.Device.NewSurface(desc)
}

func TestFrameBufferSetAllocationFailure(t *testing.T) {
	dev := &failingDevice{Device: software.New(16, 8), failAfter: 2}
	defer dev.Close()

	fs := NewFrameBufferSet(dev, device.ColorRGBA8, device.DepthNone, true)
	err := fs.Allocate(16, 8)
	if !errors.Is(err, ErrConfiguration) || !errors.Is(err, device.ErrSurfaceAllocation) {
		t.Fatalf("expected a configuration error wrapping ErrSurfaceAllocation; got %v", err)
	}
	if dev.LiveSurfaces() != 0 {
		t.Fatalf("expected partial allocation to be rolled back; got %d live surfaces", dev.LiveSurfaces())
	}
}
