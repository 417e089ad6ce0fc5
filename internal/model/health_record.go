package model

import "math"

// BMICategory buckets a BMI value. Each boundary opens the category whose
// range it starts: 18.5 is Normal, 25.0 is Overweight, 30.0 is Obese.
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

// AllBMICategories returns the categories in ascending order.
func AllBMICategories() []BMICategory {
	return []BMICategory{BMIUnderweight, BMINormal, BMIOverweight, BMIObese}
}

// ComputeBMI derives body mass index from height in centimeters and weight
// in kilograms, rounded to one decimal place.
func ComputeBMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

// CategorizeBMI maps a BMI value onto its category.
func CategorizeBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25.0:
		return BMINormal
	case bmi < 30.0:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// HealthRecord is one checkup. BMI and BMICategory are always derived from
// Height and Weight at write time, never supplied by the caller.
type HealthRecord struct {
	ID              string      `json:"id"`
	StudentID       string      `json:"studentId"`
	DoctorID        string      `json:"doctorId"`
	CheckupDate     Date        `json:"checkupDate"`
	Height          float64     `json:"height"`
	Weight          float64     `json:"weight"`
	BMI             float64     `json:"bmi"`
	BMICategory     BMICategory `json:"bmiCategory"`
	BloodPressure   string      `json:"bloodPressure"`
	Temperature     float64     `json:"temperature"`
	PulseRate       *int        `json:"pulseRate,omitempty"`
	Notes           string      `json:"notes"`
	NextCheckupDate *Date       `json:"nextCheckupDate,omitempty"`
}

func (h HealthRecord) RecordID() string { return h.ID }

// DeriveBMI recomputes the BMI fields from the current height and weight.
func (h *HealthRecord) DeriveBMI() {
	h.BMI = ComputeBMI(h.Height, h.Weight)
	h.BMICategory = CategorizeBMI(h.BMI)
}
