package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	MinDistance = 10.0
	MaxDistance = 10000.0
	ZoomFactor  = 1.1

	nearPlane = 1.0
	farPlane  = 1e6
)

// Camera orbits Target at Distance. Angles are in degrees; Elevation is
// clamped short of the poles so the up vector stays valid.
type Camera struct {
	Azimuth   float64
	Elevation float64
	Distance  float64
	Target    dynamo.Vector3
	FOV       float64
}

func NewCamera() *Camera {
	return &Camera{Azimuth: 45, Elevation: 30, Distance: 500, FOV: 60}
}

func (c *Camera) Rotate(dAzimuth, dElevation float64) {
	c.Azimuth = math.Mod(c.Azimuth+dAzimuth, 360)
	if c.Azimuth < 0 {
		c.Azimuth += 360
	}
	c.Elevation = mgl64.Clamp(c.Elevation+dElevation, -89, 89)
}

// Zoom moves the camera out for positive steps and in for negative ones.
func (c *Camera) Zoom(steps int) {
	c.Distance *= math.Pow(ZoomFactor, float64(steps))
	c.Distance = mgl64.Clamp(c.Distance, MinDistance, MaxDistance)
}

// Fit aims at the center of mass and backs off until every body is in
// view.
func (c *Camera) Fit(bodies []*physics.Body) {
	if len(bodies) == 0 {
		return
	}
	c.Target = physics.CenterOfMass(bodies)
	extent := 0.0
	for _, b := range bodies {
		extent = max(extent, b.Position.DistanceTo(c.Target)+b.Radius)
	}
	half := mgl64.DegToRad(c.FOV) / 2
	c.Distance = mgl64.Clamp(1.2*extent/math.Tan(half)+extent, MinDistance, MaxDistance)
}

func vec(v dynamo.Vector3) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

// Eye is the camera position in world space.
func (c *Camera) Eye() dynamo.Vector3 {
	az, el := mgl64.DegToRad(c.Azimuth), mgl64.DegToRad(c.Elevation)
	return c.Target.Add(dynamo.V(
		c.Distance*math.Cos(el)*math.Sin(az),
		c.Distance*math.Sin(el),
		c.Distance*math.Cos(el)*math.Cos(az),
	))
}

// Viewport fixes the camera for a w x h dot raster.
func (c *Camera) Viewport(w, h int) Viewport {
	fw, fh := float64(max(1, w)), float64(max(1, h))
	fov := mgl64.DegToRad(c.FOV)
	view := mgl64.LookAtV(vec(c.Eye()), vec(c.Target), mgl64.Vec3{0, 1, 0})
	proj := mgl64.Perspective(fov, fw/fh, nearPlane, farPlane)
	return Viewport{
		m:     proj.Mul4(view),
		w:     fw,
		h:     fh,
		focal: fh / 2 / math.Tan(fov/2),
	}
}

// Viewport maps world positions to raster dots.
type Viewport struct {
	m     mgl64.Mat4
	w, h  float64
	focal float64
}

// Project returns dot coordinates and eye-space depth. ok is false for
// points behind the near plane.
func (v Viewport) Project(p dynamo.Vector3) (x, y, depth float64, ok bool) {
	clip := v.m.Mul4x1(vec(p).Vec4(1))
	w := clip.W()
	if w < nearPlane {
		return 0, 0, w, false
	}
	x = (clip.X()/w + 1) / 2 * v.w
	y = (1 - clip.Y()/w) / 2 * v.h
	return x, y, w, true
}

// Size is the on-raster radius in dots of a world radius at depth.
func (v Viewport) Size(radius, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return radius * v.focal / depth
}
