package scene

import (
	"fmt"
	"math"

	"github.com/acekiller/povray-sub002/types"
)

// Stores the ray directions at the four corners of the camera frustrum. Per
// pixel rays are generated by interpolating the corner rays.
type Frustrum [4]types.Vec3

func (fr Frustrum) String() string {
	return fmt.Sprintf(
		"Frustrum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// A pinhole camera that generates primary rays.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3
	Pitch    float32
	Yaw      float32

	// Vertical field of view in degrees.
	FOV float32

	Aspect   float32
	Frustrum Frustrum
}

func NewCamera(fov float32) *Camera {
	c := &Camera{
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
		Aspect:   1,
	}
	c.Update()
	return c
}

// Recalculate the frustrum corner rays. Must be called after changing any
// of the camera fields. Pending pitch and yaw angles (radians) are applied to
// the view direction and then cleared.
func (c *Camera) Update() {
	forward := c.LookAt.Sub(c.Position).Normalize()
	if c.Pitch != 0 || c.Yaw != 0 {
		pitchQuat := types.QuatFromAxisAngle(forward.Cross(c.Up).Normalize(), c.Pitch)
		yawQuat := types.QuatFromAxisAngle(c.Up.Normalize(), c.Yaw)
		forward = yawQuat.Rotate(pitchQuat.Rotate(forward)).Normalize()
		c.LookAt = c.Position.Add(forward)
		c.Pitch, c.Yaw = 0, 0
	}
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward)

	halfHeight := float32(math.Tan(float64(c.FOV) * math.Pi / 360))
	halfWidth := halfHeight * c.Aspect
	r := right.Mul(halfWidth)
	u := up.Mul(halfHeight)

	c.Frustrum[0] = forward.Sub(r).Add(u)
	c.Frustrum[1] = forward.Add(r).Add(u)
	c.Frustrum[2] = forward.Sub(r).Sub(u)
	c.Frustrum[3] = forward.Add(r).Sub(u)
}

// Generate the ray through the normalized image coordinates (s, t) where
// (0, 0) is the top-left and (1, 1) the bottom-right frustrum corner.
func (c *Camera) Ray(s, t float32) types.Ray {
	top := lerp(c.Frustrum[0], c.Frustrum[1], s)
	bottom := lerp(c.Frustrum[2], c.Frustrum[3], s)
	return types.NewRay(c.Position, lerp(top, bottom, t).Normalize())
}

func lerp(a, b types.Vec3, t float32) types.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
