// Package geom provides the closest-point routines shared by placement and
// relaxation.
//
// All vectors are [r3.Vec] values from gonum's spatial/r3 package.
//
// # Distances
//
//   - [PointSegmentDistance] / [ClosestOnSegment]: point to a finite segment
//   - [SegmentSegmentDistance] / [ClosestBetweenSegments]: segment to segment
//
// The segment-segment solver clamps the two line parameters to [0, 1] with a
// fixed cascade: when the lines are close to parallel, s is pinned to 0 and t
// re-derived, and any clamp of t re-derives s from the corresponding endpoint.
// The cascade decides which endpoints "win" for parallel and collinear inputs,
// so it is kept exactly as written.
//
// # Spheres
//
// [SphereIntersectionCircle] returns a point on the circle where two spheres
// meet, in spherical coordinates relative to the first sphere's center. It
// reports ok=false when no such circle exists (one sphere contains the other,
// the spheres are disjoint, or they only touch).
package geom
