// Package geom provides the vector, box and ray math shared by the player,
// the enemies and hit resolution. Vector arithmetic is done by mgl64; this
// package adds the named-field world vector, boxes and ray casts on top.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the shortest vector that Normalize will scale to unit length.
// Anything shorter is treated as "no direction".
const Epsilon = 1e-6

// Vec3 is a point or direction in world space. Y is up. It keeps named
// fields so snapshots serialize as {"x","y","z"}; arithmetic goes through
// mgl64.Vec3.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V is shorthand for building a Vec3.
func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// FromMgl converts an mgl64 vector.
func FromMgl(m mgl64.Vec3) Vec3 { return Vec3{X: m[0], Y: m[1], Z: m[2]} }

// Mgl returns a as an mgl64 vector.
func (a Vec3) Mgl() mgl64.Vec3 { return mgl64.Vec3{a.X, a.Y, a.Z} }

func (a Vec3) Add(b Vec3) Vec3      { return FromMgl(a.Mgl().Add(b.Mgl())) }
func (a Vec3) Sub(b Vec3) Vec3      { return FromMgl(a.Mgl().Sub(b.Mgl())) }
func (a Vec3) Scale(s float64) Vec3 { return FromMgl(a.Mgl().Mul(s)) }
func (a Vec3) Dot(b Vec3) float64   { return a.Mgl().Dot(b.Mgl()) }
func (a Vec3) Cross(b Vec3) Vec3    { return FromMgl(a.Mgl().Cross(b.Mgl())) }
func (a Vec3) Negate() Vec3         { return a.Scale(-1) }
func (a Vec3) LenSq() float64       { return a.Dot(a) }
func (a Vec3) Len() float64         { return a.Mgl().Len() }
func (a Vec3) Dist(b Vec3) float64  { return a.Sub(b).Len() }
func (a Vec3) DistSq(b Vec3) float64 {
	return a.Sub(b).LenSq()
}
func (a Vec3) Horizontal() Vec3 { return Vec3{a.X, 0, a.Z} }
func (a Vec3) HorizontalDist(b Vec3) float64 {
	return a.Sub(b).Horizontal().Len()
}

// IsZero reports whether the vector is shorter than Epsilon.
func (a Vec3) IsZero() bool { return a.LenSq() < Epsilon*Epsilon }

// IsFinite reports whether every component is a real number.
func (a Vec3) IsFinite() bool {
	for _, c := range a.Mgl() {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Normalize returns the unit vector in the direction of a, or the zero
// vector when a is too short to have a direction. It never returns NaN.
func (a Vec3) Normalize() Vec3 {
	n, _ := a.NormalizeOK()
	return n
}

// NormalizeOK is Normalize that also reports whether a had a direction.
// mgl64 divides by the length unguarded, so short vectors stop here.
func (a Vec3) NormalizeOK() (Vec3, bool) {
	l := a.Len()
	if l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}, false
	}
	return FromMgl(a.Mgl().Normalize()), true
}

// Perp returns the horizontal perpendicular of a (rotated -90° about Y).
func (a Vec3) Perp() Vec3 { return Vec3{a.Z, 0, -a.X} }

// RotateY rotates a about the Y axis by angle radians, turning +X toward +Z.
// mgl64's rotation turns +Z toward +X, hence the negated angle.
func RotateY(a Vec3, angle float64) Vec3 {
	return FromMgl(mgl64.Rotate3DY(-angle).Mul3x1(a.Mgl()))
}

// FromAngle returns the horizontal unit vector (cos θ, 0, sin θ).
func FromAngle(theta float64) Vec3 {
	s, c := math.Sincos(theta)
	return Vec3{c, 0, s}
}

// AABB is an axis-aligned box. A box with Min > Max on any axis is empty.
type AABB struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoxFromCenter builds a box of the given full size centred at c.
func BoxFromCenter(c, size Vec3) AABB {
	h := size.Scale(0.5)
	return AABB{Min: c.Sub(h), Max: c.Add(h)}
}

func (b AABB) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }
func (b AABB) Size() Vec3 { return b.Max.Sub(b.Min) }

// Translate returns the box moved by d.
func (b AABB) Translate(d Vec3) AABB { return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)} }

// Expand grows the box by m on every side. Negative m shrinks it.
func (b AABB) Expand(m float64) AABB {
	d := Vec3{m, m, m}
	return AABB{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Intersects reports whether the interiors of the two boxes overlap.
// Boxes that only share a face do not intersect, so an agent standing
// exactly on top of an obstacle is not colliding with it.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

// OverlapsXZ reports whether the footprints of the two boxes overlap.
func (b AABB) OverlapsXZ(o AABB) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Ray is a half-line. Dir is expected to be unit length.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point t units along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Dir.Scale(t)) }

// IntersectBox returns the distance along the ray to the first point of b,
// using the slab method. A ray starting inside the box reports the exit.
func (r Ray) IntersectBox(b AABB) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	origin, dir := r.Origin.Mgl(), r.Dir.Mgl()
	mins, maxs := b.Min.Mgl(), b.Max.Mgl()

	for i := 0; i < 3; i++ {
		o, d := origin[i], dir[i]
		if math.Abs(d) < 1e-12 {
			if o < mins[i] || o > maxs[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (mins[i] - o) * inv
		t2 := (maxs[i] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}

	if tmax < 0 {
		return 0, false
	}
	if tmin >= 0 {
		return tmin, true
	}
	return tmax, true
}

// Hit is the nearest intersection found by Nearest.
type Hit struct {
	Index    int     // index into the box slice
	Distance float64 // distance along the ray
	Point    Vec3
}

// Nearest casts r against boxes and returns the closest hit within maxDist.
// maxDist <= 0 means unbounded.
func Nearest(r Ray, boxes []AABB, maxDist float64) (Hit, bool) {
	best := Hit{Index: -1}
	found := false
	for i, b := range boxes {
		t, ok := r.IntersectBox(b)
		if !ok || (maxDist > 0 && t > maxDist) {
			continue
		}
		if !found || t < best.Distance {
			best = Hit{Index: i, Distance: t}
			found = true
		}
	}
	if found {
		best.Point = r.At(best.Distance)
	}
	return best, found
}
