package param

// Clinical value grids. Built once at process start; every numeric field in a
// ParameterSet is backed by one of these.
//
// LRL steps ±5 ppm below 50 and above 90, ±1 ppm in between; the hysteresis
// rate limit shares the same choices.
var (
	// Lower rate limit / hysteresis rate limit, ppm.
	GridRateLimit = MustGrid(
		Segment{Low: 30, High: 50, Step: 5},
		Segment{Low: 50, High: 90, Step: 1},
		Segment{Low: 90, High: 175, Step: 5},
	)

	// Upper rate limit, ppm.
	GridUpperRate = MustGrid(
		Segment{Low: 50, High: 175, Step: 5},
	)

	// Pulse width, ms: a lone 0.05 member, then 0.1–1.9 in 0.1 steps.
	GridPulseWidth = MustGrid(
		Segment{Low: 0.05, High: 0.1, Step: 0.05},
		Segment{Low: 0.1, High: 1.9, Step: 0.1},
	)

	// Atrial/ventricular refractory period, ms.
	GridRefractory = MustGrid(
		Segment{Low: 150, High: 500, Step: 10},
	)

	// Atrial amplitude, V (low-voltage chamber grid).
	GridAtrialAmplitude = MustGrid(
		Segment{Low: 0.5, High: 3.2, Step: 0.1},
	)

	// Ventricular amplitude, V (high-voltage chamber grid).
	GridVentricularAmplitude = MustGrid(
		Segment{Low: 3.5, High: 7.0, Step: 0.5},
	)
)
