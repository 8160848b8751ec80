package sky

// band is one row of a description table: values below upper get text.
type band struct {
	upper float64
	text  string
}

var magnitudeBands = []band{
	{2.0, "City centre: only a handful of the brightest first-magnitude stars are visible."},
	{3.0, "City sky: well-known shapes like Orion or the Big Dipper can be traced."},
	{4.0, "Suburban sky: most constellations are visible and the Milky Way may be faintly hinted."},
	{5.0, "Dark rural sky: many stars, and the Milky Way begins to show."},
	{6.0, "Excellent site: the Milky Way is clearly visible and meteors are a good bet."},
}

const magnitudeTop = "Pristine sky: structure in the Milky Way and countless stars, a once-in-a-lifetime view."

var skyBrightnessBands = []band{
	{17, "Inner-city sky: heavy light pollution, only the brightest stars and planets."},
	{18, "Bright suburban sky: major constellations visible, no Milky Way."},
	{19, "Suburban sky: the Milky Way is invisible or barely hinted near the zenith."},
	{20, "Suburban/rural transition: the Milky Way is visible but washed out."},
	{21, "Rural sky: the Milky Way shows clear structure."},
	{21.5, "Dark site: zodiacal light and rich Milky Way detail are visible."},
	{21.75, "Very dark site: the Milky Way casts faint structure near the horizon."},
}

const skyBrightnessTop = "Excellent dark-sky site: close to the natural sky background."

var clearSkyBands = []struct {
	lower int
	text  string
}{
	{95, "Cloud cover 10% or less. An almost cloudless sky."},
	{65, "Cloud cover 40% or less. Some clouds, but plenty of clear gaps."},
	{35, "Cloud cover 70% or less. Mostly cloudy; observing means hunting for gaps."},
}

const clearSkyBottom = "Cloud cover above 70%. Overcast; seeing stars will be very difficult."

// Describe returns a human-readable description of a score under the model.
func (m Model) Describe(value float64) string {
	if m == ModelSkyBrightness {
		return lookup(skyBrightnessBands, skyBrightnessTop, value)
	}
	return lookup(magnitudeBands, magnitudeTop, value)
}

// DescribeClearSky describes a clear-sky index value.
func DescribeClearSky(index int) string {
	for _, b := range clearSkyBands {
		if index >= b.lower {
			return b.text
		}
	}
	return clearSkyBottom
}

func lookup(bands []band, top string, value float64) string {
	for _, b := range bands {
		if value < b.upper {
			return b.text
		}
	}
	return top
}

// MoonPhase names a lunar phase and gives observing advice for it.
type MoonPhase struct {
	Name   string `json:"name"`
	Advice string `json:"advice"`
}

// DescribeMoon maps a 0-1 phase fraction onto a named phase. The quarter points
// match exactly, as reported by the weather provider.
func DescribeMoon(phase float64) MoonPhase {
	switch {
	case phase == 0 || phase == 1:
		return MoonPhase{"New moon", "No moonlight at all: the best possible conditions for stargazing."}
	case phase > 0 && phase < 0.25:
		return MoonPhase{"Waxing crescent", "A thin moon with almost no effect on the sky."}
	case phase == 0.25:
		return MoonPhase{"First quarter", "The moon sets around midnight, so the small hours are ideal."}
	case phase > 0.25 && phase < 0.5:
		return MoonPhase{"Waxing gibbous", "The moon is getting bright; faint stars may be hard to see."}
	case phase == 0.5:
		return MoonPhase{"Full moon", "Very bright moonlight; the Milky Way and faint stars will be difficult."}
	case phase > 0.5 && phase < 0.75:
		return MoonPhase{"Waning gibbous", "A bright moon makes this a less favourable time for stargazing."}
	case phase == 0.75:
		return MoonPhase{"Last quarter", "The moon rises around midnight, so the evening is free of moonlight."}
	default:
		return MoonPhase{"Waning crescent", "The moon rises late; early evening is a good chance for stargazing."}
	}
}
