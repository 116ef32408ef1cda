// Package software implements the device contract on the host CPU. It is
// used for headless rendering and as the reference backend in tests.
package software

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/achilleasa/lumen/device"
	"github.com/achilleasa/lumen/log"
	"github.com/go-gl/mathgl/mgl32"
)

// The kind of operation reported to an OpHook.
type OpKind uint8

// Supported operation kinds.
const (
	OpDraw OpKind = iota
	OpCopy
	OpPresent
)

func (k OpKind) String() string {
	switch k {
	case OpDraw:
		return "draw"
	case OpCopy:
		return "copy"
	case OpPresent:
		return "present"
	}
	return fmt.Sprintf("OpKind(%d)", uint8(k))
}

// The name used for the display surface in reported operations.
const DisplayName = "display"

// An operation executed by the device.
type Op struct {
	Kind OpKind

	// The program name for draw operations.
	Program string

	// The surface written by the operation.
	Target string

	// The surfaces read by the operation.
	Sources []string
}

// A callback invoked after each successfully executed operation.
type OpHook func(Op)

// A CPU-backed device.
type Device struct {
	logger log.Logger

	name string

	// Display surface.
	displayW, displayH uint32
	display            []float32

	programs map[string]*program

	// Number of allocated surfaces that have not been released.
	liveSurfaces int

	numWorkers  int
	scheduler   *blockScheduler
	workerStats []workerStats

	onOp OpHook
}

// Create a new software device with a display surface of the given size.
// The device provides the built-in TraceProgram and DenoiseProgram.
func New(displayW, displayH uint32) *Device {
	d := &Device{
		logger:     log.New("software device"),
		name:       "software",
		programs:   make(map[string]*program),
		numWorkers: runtime.NumCPU(),
		scheduler:  newBlockScheduler(),
	}
	d.SetDisplaySize(displayW, displayH)
	registerBuiltins(d)
	return d
}

func (d *Device) Name() string {
	return d.name
}

// Register a program. Registering a program with an existing name
// replaces it.
func (d *Device) RegisterProgram(name string, sig device.Signature, shade ShadeFunc) {
	d.programs[name] = newProgram(d, name, sig, shade)
	d.logger.Debugf("registered program %s (params: %v)", name, sig.Names())
}

// Remove a program.
func (d *Device) UnregisterProgram(name string) {
	delete(d.programs, name)
}

// Get the sorted names of all registered programs.
func (d *Device) ProgramNames() []string {
	names := make([]string, 0, len(d.programs))
	for name := range d.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup a program by name.
func (d *Device) Program(name string) (device.Program, error) {
	prog, found := d.programs[name]
	if !found {
		return nil, fmt.Errorf("software device: %w: %s", device.ErrProgramNotFound, name)
	}
	return prog, nil
}

// Set the number of workers used for executing programs.
func (d *Device) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	d.numWorkers = n
	d.workerStats = nil
}

// Register a callback for executed operations.
func (d *Device) OnOp(hook OpHook) {
	d.onOp = hook
}

// Resize the display surface. Its contents are discarded.
func (d *Device) SetDisplaySize(w, h uint32) {
	d.displayW, d.displayH = w, h
	d.display = make([]float32, int(w*h)*pixelStride)
}

func (d *Device) DisplaySize() (uint32, uint32) {
	return d.displayW, d.displayH
}

// The number of surfaces that are currently allocated.
func (d *Device) LiveSurfaces() int {
	return d.liveSurfaces
}

// Allocate a new surface.
func (d *Device) NewSurface(desc device.SurfaceDesc) (device.Surface, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("software device: %w %s: invalid dimensions %dx%d", device.ErrSurfaceAllocation, desc.Name, desc.Width, desc.Height)
	}

	s := &surface{
		dev:  d,
		desc: desc,
		pix:  make([]float32, int(desc.Width)*int(desc.Height)*pixelStride),
	}
	d.liveSurfaces++
	d.logger.Debugf("allocated surface %s (%dx%d, %s, %s)", desc.Name, desc.Width, desc.Height, desc.Color, desc.Depth)
	return s, nil
}

func (d *Device) surfaceReleased(s *surface) {
	d.liveSurfaces--
	d.logger.Debugf("released surface %s", s.desc.Name)
}

// Ensure that surf was allocated by this device and has not been released.
func (d *Device) ownSurface(surf device.Surface) (*surface, error) {
	s, ok := surf.(*surface)
	if !ok || s.dev != d {
		return nil, fmt.Errorf("software device: %w: %s", device.ErrForeignSurface, surf.Name())
	}
	if s.released {
		return nil, fmt.Errorf("software device: %w: %s", device.ErrSurfaceReleased, s.desc.Name)
	}
	return s, nil
}

// Run prog over every pixel of target.
func (d *Device) Draw(targetSurf device.Surface, progIface device.Program) error {
	target, err := d.ownSurface(targetSurf)
	if err != nil {
		return err
	}
	prog, ok := progIface.(*program)
	if !ok || prog.dev != d {
		return fmt.Errorf("software device: %w: %s", device.ErrProgramNotFound, progIface.Name())
	}
	if err = prog.checkBound(); err != nil {
		return err
	}

	sources := prog.boundSurfaces()
	sourceNames := make([]string, 0, len(sources))
	for _, src := range sources {
		if src == target {
			return fmt.Errorf("software device: program %s: %w: %s", prog.name, device.ErrFeedbackLoop, target.desc.Name)
		}
		if src.released {
			return fmt.Errorf("software device: program %s: %w: %s", prog.name, device.ErrSurfaceReleased, src.desc.Name)
		}
		sourceNames = append(sourceNames, src.desc.Name)
	}

	if target.desc.DiscardOnBind {
		target.clear()
	}

	d.execute(target, prog)
	d.emit(Op{Kind: OpDraw, Program: prog.name, Target: target.desc.Name, Sources: sourceNames})
	return nil
}

// Split the target into row blocks and shade them in parallel.
func (d *Device) execute(target *surface, prog *program) {
	if len(d.workerStats) != d.numWorkers {
		d.workerStats = make([]workerStats, d.numWorkers)
	}

	inv := &Invocation{
		Width:  int(target.desc.Width),
		Height: int(target.desc.Height),
		prog:   prog,
	}

	blockAssignment := d.scheduler.Schedule(d.workerStats, target.desc.Height)

	var wg sync.WaitGroup
	var blockY uint32
	for workerIndex, blockH := range blockAssignment {
		if blockH == 0 {
			d.workerStats[workerIndex] = workerStats{}
			continue
		}

		wg.Add(1)
		go func(workerIndex int, blockY, blockH uint32) {
			defer wg.Done()
			start := time.Now()
			for y := int(blockY); y < int(blockY+blockH); y++ {
				for x := 0; x < inv.Width; x++ {
					target.set(x, y, prog.shade(inv, x, y))
				}
			}
			d.workerStats[workerIndex] = workerStats{Rows: blockH, Time: time.Since(start)}
		}(workerIndex, blockY, blockH)

		blockY += blockH
	}
	wg.Wait()
}

// Copy the contents of src into dst.
func (d *Device) Copy(srcSurf, dstSurf device.Surface) error {
	src, err := d.ownSurface(srcSurf)
	if err != nil {
		return err
	}
	dst, err := d.ownSurface(dstSurf)
	if err != nil {
		return err
	}
	if src == dst {
		return fmt.Errorf("software device: copy: %w: %s", device.ErrFeedbackLoop, src.desc.Name)
	}
	if src.desc.Width != dst.desc.Width || src.desc.Height != dst.desc.Height {
		return fmt.Errorf(
			"software device: copy %s (%dx%d) -> %s (%dx%d): %w",
			src.desc.Name, src.desc.Width, src.desc.Height,
			dst.desc.Name, dst.desc.Width, dst.desc.Height,
			device.ErrSizeMismatch,
		)
	}

	if dst.desc.Color == device.ColorRGBA8 && src.desc.Color != device.ColorRGBA8 {
		for i, v := range src.pix {
			dst.pix[i] = quantize8(v)
		}
	} else {
		copy(dst.pix, src.pix)
	}

	d.emit(Op{Kind: OpCopy, Target: dst.desc.Name, Sources: []string{src.desc.Name}})
	return nil
}

// Blit src onto the display surface, scaling it with nearest-neighbor
// filtering if the sizes differ.
func (d *Device) Present(srcSurf device.Surface) error {
	src, err := d.ownSurface(srcSurf)
	if err != nil {
		return err
	}

	w, h := int(d.displayW), int(d.displayH)
	for y := 0; y < h; y++ {
		sy := y * int(src.desc.Height) / h
		for x := 0; x < w; x++ {
			sx := x * int(src.desc.Width) / w
			v := src.at(sx, sy)
			copy(d.display[(y*w+x)*pixelStride:], v[:])
		}
	}

	d.emit(Op{Kind: OpPresent, Target: DisplayName, Sources: []string{src.desc.Name}})
	return nil
}

func (d *Device) emit(op Op) {
	if d.onOp != nil {
		d.onOp(op)
	}
}

// Get a copy of the pixel values stored in a surface.
func (d *Device) Pixels(surf device.Surface) ([]mgl32.Vec4, error) {
	s, err := d.ownSurface(surf)
	if err != nil {
		return nil, err
	}

	out := make([]mgl32.Vec4, int(s.desc.Width)*int(s.desc.Height))
	for i := range out {
		copy(out[i][:], s.pix[i*pixelStride:(i+1)*pixelStride])
	}
	return out, nil
}

// Convert the display surface contents into an 8-bit RGBA image.
func (d *Device) DisplayImage() *image.RGBA {
	w, h := int(d.displayW), int(d.displayH)
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			offset := (y*w + x) * pixelStride
			im.SetRGBA(x, y, color.RGBA{
				R: to8(d.display[offset]),
				G: to8(d.display[offset+1]),
				B: to8(d.display[offset+2]),
				A: 255,
			})
		}
	}
	return im
}

func to8(v float32) uint8 {
	return uint8(quantize8(v)*255.0 + 0.5)
}

// Shutdown the device. Surfaces that are still allocated are reported
// as leaks.
func (d *Device) Close() {
	if d.liveSurfaces != 0 {
		d.logger.Warningf("closing device with %d unreleased surfaces", d.liveSurfaces)
	}
	d.programs = make(map[string]*program)
}
