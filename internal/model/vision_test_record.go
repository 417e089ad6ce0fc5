package model

// VisionResult is the overall outcome of a vision screening.
type VisionResult string

const (
	VisionPassed VisionResult = "Passed"
	VisionFailed VisionResult = "Failed"
)

// Valid reports whether r is a known vision result.
func (r VisionResult) Valid() bool {
	return r == VisionPassed || r == VisionFailed
}

// VisionTest is one vision screening for a student.
type VisionTest struct {
	ID              string       `json:"id"`
	StudentID       string       `json:"studentId"`
	TestDate        Date         `json:"testDate"`
	LeftEyeVision   string       `json:"leftEyeVision"`
	RightEyeVision  string       `json:"rightEyeVision"`
	Result          VisionResult `json:"result"`
	RequiresGlasses bool         `json:"requiresGlasses"`
	Notes           string       `json:"notes,omitempty"`
}

func (v VisionTest) RecordID() string { return v.ID }
