package entity

// WeatherInfo holds a single current-conditions reading in metric units.
// A nil *WeatherInfo is the expected representation of "no reading", not
// an error state.
type WeatherInfo struct {
	Temperature float64
	Description string
	Humidity    int
	WindSpeed   float64
	FeelsLike   float64
}
