package models

// EgramSample is one instant of the simulated three-trace egram.
type EgramSample struct {
	TimeS      float64 `json:"t_s"`
	AtrialMV   float64 `json:"atrial_mv"`
	VentrMV    float64 `json:"ventricular_mv"`
	SurfaceECG float64 `json:"surface_mv"`
}
