package engine

import "sort"

// ThresholdCrossing is the mean cluster fraction at which a sweep is
// considered to have percolated; the classic giant-component definition
// uses half the nodes.
const ThresholdCrossing = 0.5

// Aggregate groups trial results by node count and collapses the trials of
// each group into a single percolation curve: per step, the mean/min/max of
// the cluster fraction across trials. The threads/node ratio is identical
// across trials of the same n (the batch size per step is deterministic),
// so the first trial's value is used as-is. Curves come back sorted by n.
func Aggregate(results []TrialResult) []Curve {
	byN := make(map[int][]TrialResult)
	for _, r := range results {
		byN[r.N] = append(byN[r.N], r)
	}

	curves := make([]Curve, 0, len(byN))
	for n, trials := range byN {
		curves = append(curves, aggregateOne(n, trials))
	}
	sort.Slice(curves, func(i, j int) bool { return curves[i].N < curves[j].N })
	return curves
}

func aggregateOne(n int, trials []TrialResult) Curve {
	steps := 0
	for _, tr := range trials {
		if len(tr.Series) > steps {
			steps = len(tr.Series)
		}
	}

	curve := Curve{N: n, Trials: len(trials), Threshold: -1}
	for step := 0; step < steps; step++ {
		var sum, min, max float64
		count := 0
		point := CurvePoint{StepIndex: step}
		for _, tr := range trials {
			if step >= len(tr.Series) {
				continue
			}
			s := tr.Series[step]
			if count == 0 {
				min, max = s.MaxClusterSize, s.MaxClusterSize
				point.ThreadsToButton = s.ThreadsToButton
			} else {
				if s.MaxClusterSize < min {
					min = s.MaxClusterSize
				}
				if s.MaxClusterSize > max {
					max = s.MaxClusterSize
				}
			}
			sum += s.MaxClusterSize
			count++
		}
		if count == 0 {
			continue
		}
		point.MeanCluster = sum / float64(count)
		point.MinCluster = min
		point.MaxCluster = max
		if curve.Threshold < 0 && point.MeanCluster >= ThresholdCrossing {
			curve.Threshold = point.ThreadsToButton
		}
		curve.Points = append(curve.Points, point)
	}
	return curve
}
