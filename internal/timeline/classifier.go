package timeline

import "fmt"

// Detector decides whether one sample's signals count as activity.
// It must be stateless so alternative detection signals can be swapped in
// without touching segmentation or aggregation.
type Detector interface {
	Active(motionScore float64, blobArea int) bool
}

// ThresholdDetector classifies a sample as active when both the motion score
// and the blob area reach their thresholds.
type ThresholdDetector struct {
	MotionThresh float64
	MinBlob      int
}

func NewThresholdDetector(motionThresh float64, minBlob int) (ThresholdDetector, error) {
	if motionThresh < 0 {
		return ThresholdDetector{}, fmt.Errorf("motion threshold must be non-negative, got %v", motionThresh)
	}
	if minBlob < 0 {
		return ThresholdDetector{}, fmt.Errorf("minimum blob area must be non-negative, got %d", minBlob)
	}
	return ThresholdDetector{MotionThresh: motionThresh, MinBlob: minBlob}, nil
}

func (d ThresholdDetector) Active(motionScore float64, blobArea int) bool {
	return motionScore >= d.MotionThresh && blobArea >= d.MinBlob
}
