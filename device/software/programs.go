package software

import (
	"math"

	"github.com/achilleasa/lumen/device"
	"github.com/achilleasa/lumen/scene"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	skyZenith  = mgl32.Vec3{0.35, 0.55, 0.9}
	skyHorizon = mgl32.Vec3{0.9, 0.9, 0.95}
)

// Register the TraceProgram and DenoiseProgram implementations.
func registerBuiltins(d *Device) {
	spheres := scene.DefaultSpheres()
	d.RegisterProgram(device.TraceProgram, device.TraceSignature(), func(inv *Invocation, x, y int) mgl32.Vec4 {
		return tracePixel(inv, spheres, x, y)
	})
	d.RegisterProgram(device.DenoiseProgram, device.DenoiseSignature(), denoisePixel)
}

// Blend the current frame into the accumulated history using a running
// mean. With one rendered frame the previous frame has no influence.
func denoisePixel(inv *Invocation, x, y int) mgl32.Vec4 {
	n := inv.Int(device.ParamNumRenderedFrames)
	if n < 1 {
		n = 1
	}

	cur := inv.Texel(device.ParamCurrentFrame, x, y)
	prev := inv.Texel(device.ParamPreviousFrame, x, y)
	return prev.Add(cur.Sub(prev).Mul(1.0 / float32(n)))
}

// Estimate the radiance arriving at pixel (x, y) by averaging
// NumRaysPerPixel jittered paths of at most MaxBounceCount bounces.
func tracePixel(inv *Invocation, spheres []scene.Sphere, x, y int) mgl32.Vec4 {
	width := float32(inv.Int(device.ParamViewportWidth))
	height := float32(inv.Int(device.ParamViewportHeight))
	maxBounces := int(inv.Int(device.ParamMaxBounceCount))
	numRays := int(inv.Int(device.ParamNumRaysPerPixel))
	invView := inv.Mat4(device.ParamInverseView)
	invProj := inv.Mat4(device.ParamInverseProjection)
	origin := inv.Vec3(device.ParamCameraPosition)

	if numRays < 1 {
		numRays = 1
	}
	if width <= 0 || height <= 0 {
		width, height = float32(inv.Width), float32(inv.Height)
	}

	rng := newRNG(uint32(x), uint32(y), inv.Uint(device.ParamFrame))
	var sum mgl32.Vec3
	for ray := 0; ray < numRays; ray++ {
		// Jittered NDC coordinates; +Y points up.
		ndcX := (float32(x)+rng.float())/width*2.0 - 1.0
		ndcY := 1.0 - (float32(y)+rng.float())/height*2.0

		target := invProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
		if target[3] != 0 {
			target = target.Mul(1.0 / target[3])
		}
		dir := invView.Mul4x1(target.Vec3().Normalize().Vec4(0)).Vec3().Normalize()

		sum = sum.Add(tracePath(spheres, origin, dir, maxBounces, rng))
	}

	radiance := sum.Mul(1.0 / float32(numRays))
	return radiance.Vec4(1)
}

func tracePath(spheres []scene.Sphere, origin, dir mgl32.Vec3, maxBounces int, rng *rng) mgl32.Vec3 {
	throughput := mgl32.Vec3{1, 1, 1}
	var radiance mgl32.Vec3

	for bounce := 0; bounce <= maxBounces; bounce++ {
		hitIndex := -1
		closest := float32(math.MaxFloat32)
		for index, s := range spheres {
			if dist, hit := s.Intersect(origin, dir); hit && dist < closest {
				closest, hitIndex = dist, index
			}
		}

		if hitIndex == -1 {
			radiance = radiance.Add(mulVec3(throughput, sky(dir)))
			break
		}

		s := spheres[hitIndex]
		if s.Emission > 0 {
			radiance = radiance.Add(mulVec3(throughput, s.Color.Mul(s.Emission)))
		}

		origin = origin.Add(dir.Mul(closest))
		normal := origin.Sub(s.Position).Normalize()
		dir = rng.cosineHemisphere(normal)
		throughput = mulVec3(throughput, s.Color)
	}

	return radiance
}

func sky(dir mgl32.Vec3) mgl32.Vec3 {
	t := mgl32.Clamp(0.5*(dir[1]+1.0), 0, 1)
	return skyHorizon.Mul(1 - t).Add(skyZenith.Mul(t))
}

func mulVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// A xorshift generator seeded from the pixel coordinates and frame index.
type rng struct {
	state uint32
}

func newRNG(x, y, frame uint32) *rng {
	seed := x*1973 + y*9277 + frame*26699
	seed = (seed ^ 61) ^ (seed >> 16)
	seed *= 9
	seed ^= seed >> 4
	seed *= 0x27d4eb2d
	seed ^= seed >> 15
	if seed == 0 {
		seed = 1
	}
	return &rng{state: seed}
}

func (r *rng) next() uint32 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 17
	r.state ^= r.state << 5
	return r.state
}

// A uniformly distributed value in [0, 1).
func (r *rng) float() float32 {
	return float32(r.next()>>8) / float32(1<<24)
}

// Sample a direction around normal with a cosine-weighted distribution.
func (r *rng) cosineHemisphere(normal mgl32.Vec3) mgl32.Vec3 {
	u1, u2 := r.float(), r.float()
	radius := float32(math.Sqrt(float64(u1)))
	theta := 2.0 * math.Pi * float64(u2)

	tangent := mgl32.Vec3{1, 0, 0}
	if mgl32.Abs(normal[0]) > 0.9 {
		tangent = mgl32.Vec3{0, 1, 0}
	}
	tangent = tangent.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)

	return tangent.Mul(radius * float32(math.Cos(theta))).
		Add(bitangent.Mul(radius * float32(math.Sin(theta)))).
		Add(normal.Mul(float32(math.Sqrt(float64(1 - u1))))).
		Normalize()
}
