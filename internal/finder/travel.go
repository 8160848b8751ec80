package finder

// TravelMode is how the user is expected to reach a site.
type TravelMode string

const (
	TravelGround TravelMode = "ground"
	TravelAir    TravelMode = "air"
)

const (
	groundSpeedKmh = 40.0
	airSpeedKmh    = 850.0
	// airBufferHours covers getting to, through and away from airports.
	airBufferHours = 4.0
	// airThresholdKm is the longest distance still estimated as ground travel.
	airThresholdKm = 2500.0
)

// Travel is a rough door-to-door estimate.
type Travel struct {
	Mode  TravelMode `json:"mode"`
	Hours float64    `json:"hours"`
}

// EstimateTravel estimates travel time for a distance in kilometres.
func EstimateTravel(distanceKm float64) Travel {
	if distanceKm > airThresholdKm {
		return Travel{Mode: TravelAir, Hours: distanceKm/airSpeedKmh + airBufferHours}
	}
	return Travel{Mode: TravelGround, Hours: distanceKm / groundSpeedKmh}
}
