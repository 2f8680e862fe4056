// Package layout places text labels next to scatter points without overlap.
//
// # Overview
//
// The [Engine] works purely in display space. The caller (normally the
// renderer) transforms every data point to a display-space anchor, measures
// each label's text, and hands the engine one [LabelBox] per label together
// with the positions of all point markers. The engine returns a display-space
// offset per label.
//
// # Algorithm
//
// Every label starts centered on its anchor. Each iteration freezes a
// snapshot of all offsets and, from that snapshot alone, computes one
// accumulator vector per label:
//
//   - label against label: both boxes scaled by TextExpansion; an overlap
//     pushes the labels apart along the line joining their centers, scaled
//     by TextForce and the overlap depth
//   - label against marker: the label box scaled by PointExpansion; a marker
//     inside it pushes the label away, scaled by PointForce (a label ignores
//     its own marker)
//
// Labels that received no push drift back toward their anchor by AnchorPull.
// The accumulators are committed only after all of them are computed, so the
// result is identical whether the iteration runs on one goroutine or many.
//
// # Termination
//
// An iteration that finds no overlap ends the run as settled, without
// moving anything. Otherwise the engine stops after MaxIterations and
// reports the run as exhausted. Exhaustion is a normal outcome for dense
// plots and is not an error.
//
// Coincident centers are separated deterministically: the lower dataset
// index is pushed toward negative x and the higher toward positive x.
//
// # Errors
//
// Only impossible input fails: a non-finite anchor, offset or marker, or a
// label with non-positive width or height. Such input yields LAYOUT_ERROR.
package layout
