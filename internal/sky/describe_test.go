package sky

import "testing"

func TestDescribeMagnitudeBands(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{1.99, magnitudeBands[0].text},
		{2.0, magnitudeBands[1].text},
		{3.0, magnitudeBands[2].text},
		{4.0, magnitudeBands[3].text},
		{5.0, magnitudeBands[4].text},
		{5.99, magnitudeBands[4].text},
		{6.0, magnitudeTop},
	}

	for _, tc := range cases {
		if got := ModelLimitingMagnitude.Describe(tc.value); got != tc.want {
			t.Errorf("Describe(%v) = %q; want %q", tc.value, got, tc.want)
		}
	}
}

func TestDescribeSkyBrightnessBands(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{16.9, skyBrightnessBands[0].text},
		{17, skyBrightnessBands[1].text},
		{20.99, skyBrightnessBands[4].text},
		{21, skyBrightnessBands[5].text},
		{21.5, skyBrightnessBands[6].text},
		{21.75, skyBrightnessTop},
	}

	for _, tc := range cases {
		if got := ModelSkyBrightness.Describe(tc.value); got != tc.want {
			t.Errorf("Describe(%v) = %q; want %q", tc.value, got, tc.want)
		}
	}
}

func TestDescribeClearSky(t *testing.T) {
	cases := []struct {
		index int
		want  string
	}{
		{100, clearSkyBands[0].text},
		{95, clearSkyBands[0].text},
		{94, clearSkyBands[1].text},
		{65, clearSkyBands[1].text},
		{64, clearSkyBands[2].text},
		{35, clearSkyBands[2].text},
		{34, clearSkyBottom},
		{10, clearSkyBottom},
	}

	for _, tc := range cases {
		if got := DescribeClearSky(tc.index); got != tc.want {
			t.Errorf("DescribeClearSky(%d) = %q; want %q", tc.index, got, tc.want)
		}
	}
}

func TestDescribeMoon(t *testing.T) {
	cases := []struct {
		phase float64
		want  string
	}{
		{0, "New moon"},
		{1, "New moon"},
		{0.1, "Waxing crescent"},
		{0.25, "First quarter"},
		{0.3, "Waxing gibbous"},
		{0.5, "Full moon"},
		{0.6, "Waning gibbous"},
		{0.75, "Last quarter"},
		{0.9, "Waning crescent"},
	}

	for _, tc := range cases {
		if got := DescribeMoon(tc.phase).Name; got != tc.want {
			t.Errorf("DescribeMoon(%v).Name = %q; want %q", tc.phase, got, tc.want)
		}
	}
}
