package bvh

import (
	"math"

	"github.com/acekiller/povray-sub002/scene"
	"github.com/acekiller/povray-sub002/types"
)

const (
	// The SAH strategy will not attempt to calculate split candidates
	// if the node bbox along an axis is less than this threshold.
	minSideLength float32 = 1e-3

	// Candidate planes evaluated per axis at the tree root. Deeper nodes
	// evaluate fewer candidates.
	maxSplitCandidates = 64
	minSplitCandidates = 8
)

// A split strategy using the SAH for scoring splits:
// score = num_items * node bbox face area.
type surfaceAreaHeuristic struct{}

// Evaluate evenly spaced split planes along each axis and pick the one with
// the lowest score. If no candidate improves the score of the unsplit node
// the strategy declines to split.
func (h surfaceAreaHeuristic) Split(workList []BoundedVolume, nodeBox scene.BBox, depth int) (Axis, float32, bool) {
	bestScore := h.ScorePartition(workList)
	var bestAxis Axis
	var bestSplit float32
	found := false

	candidates := maxSplitCandidates / (depth + 1)
	if candidates < minSplitCandidates {
		candidates = minSplitCandidates
	}

	for axis := XAxis; axis <= ZAxis; axis++ {
		// Skip axis if bbox dimension is too small
		side := nodeBox.Extent[axis]
		if side < minSideLength {
			continue
		}

		splitStep := side / float32(candidates)
		for step := 1; step < candidates; step++ {
			splitPoint := nodeBox.Min[axis] + float32(step)*splitStep
			_, _, score := h.ScoreSplit(workList, axis, splitPoint)
			if score < bestScore {
				bestScore = score
				bestAxis = axis
				bestSplit = splitPoint
				found = true
			}
		}
	}

	return bestAxis, bestSplit, found
}

// Score a BVH split based on the surface area heuristic. The SAH calculates
// the split score using the formula (lower score is better):
//
// left count * left BBOX area + rightCount * right BBOX area.
//
// SAH avoids splits that generate empty partitions by assigning the worst
// possible score (MaxFloat32) when it enounters such cases.
func (h surfaceAreaHeuristic) ScoreSplit(workList []BoundedVolume, axis Axis, splitPoint float32) (leftCount, rightCount int, score float32) {
	lmin := types.Splat(math.MaxFloat32)
	rmin := types.Splat(math.MaxFloat32)
	lmax := types.Splat(-math.MaxFloat32)
	rmax := types.Splat(-math.MaxFloat32)

	for _, item := range workList {
		itemBBox := item.BBox()
		if item.Center()[axis] < splitPoint {
			leftCount++
			lmin = types.MinVec3(lmin, itemBBox.Min)
			lmax = types.MaxVec3(lmax, itemBBox.Max())
		} else {
			rightCount++
			rmin = types.MinVec3(rmin, itemBBox.Min)
			rmax = types.MaxVec3(rmax, itemBBox.Max())
		}
	}

	// Make sure that we don't generate empty partitions
	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.MaxFloat32
	}

	lside := lmax.Sub(lmin)
	rside := rmax.Sub(rmin)
	score = (float32(leftCount) * (lside[0]*lside[1] + lside[1]*lside[2] + lside[0]*lside[2])) +
		(float32(rightCount) * (rside[0]*rside[1] + rside[1]*rside[2] + rside[0]*rside[2]))

	return leftCount, rightCount, score
}

// Calculate score for a partitioned workList using formula:
// count * BBOX area
//
// If the workList is empty, then this method returns the worst possible
// score (MaxFloat32).
func (h surfaceAreaHeuristic) ScorePartition(workList []BoundedVolume) (score float32) {
	if len(workList) == 0 {
		return math.MaxFloat32
	}

	side := unionBBox(workList).Extent
	return float32(len(workList)) * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2])
}
