package planning

import (
	"fmt"
	"strings"
)

// AQILevel describes one of the five air-quality categories.
type AQILevel struct {
	AQI         int    `json:"aqi"`
	Level       string `json:"level"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

var aqiLevels = map[int]AQILevel{
	1: {AQI: 1, Level: "Good", Description: "Air quality is good.", Action: "No action needed. Enjoy outdoor activities!"},
	2: {AQI: 2, Level: "Fair", Description: "Air quality is fair.", Action: "Sensitive individuals should consider limiting prolonged outdoor exertion."},
	3: {AQI: 3, Level: "Moderate", Description: "Air quality is moderate.", Action: "Everyone should consider limiting prolonged outdoor exertion, especially sensitive groups."},
	4: {AQI: 4, Level: "Poor", Description: "Air quality is poor.", Action: "Limit outdoor activities. Avoid outdoor exertion for sensitive individuals."},
	5: {AQI: 5, Level: "Very Poor", Description: "Air quality is very poor.", Action: "Avoid all outdoor exertion. Use masks if necessary."},
}

// InvalidAQILevel marks an AQI outside 1-5.
const InvalidAQILevel = "Invalid AQI"

// RecommendAQI maps an AQI category to its label and suggested action.
func RecommendAQI(aqi int) AQILevel {
	if lvl, ok := aqiLevels[aqi]; ok {
		return lvl
	}
	return AQILevel{
		AQI:         aqi,
		Level:       InvalidAQILevel,
		Description: fmt.Sprintf("AQI value %d is outside the 1-5 range.", aqi),
	}
}

// PollutantInfo describes a pollutant reported in a reading's components.
type PollutantInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Source        string `json:"source"`
	HealthEffects string `json:"health_effects"`
}

// PollutantCatalog is keyed by the pollutant's component code.
var PollutantCatalog = map[string]PollutantInfo{
	"pm10": {
		Name:          "Particulate Matter (PM10)",
		Description:   "Coarse particulates that can penetrate into the lungs and cause health problems.",
		Source:        "Vehicle emissions, industrial activities, and dust.",
		HealthEffects: "Can cause respiratory issues, especially in sensitive individuals.",
	},
	"pm2_5": {
		Name:          "Particulate Matter (PM2.5)",
		Description:   "Fine particulates that can penetrate deep into the lungs and even enter the bloodstream.",
		Source:        "Vehicle emissions, industrial processes, and dust.",
		HealthEffects: "Prolonged exposure can lead to serious respiratory and cardiovascular issues.",
	},
	"no2": {
		Name:          "Nitrogen Dioxide (NO2)",
		Description:   "Forms from burning fossil fuels, especially in vehicles and power plants.",
		Source:        "Primarily emitted from vehicle engines and power plants.",
		HealthEffects: "Long-term exposure can lead to respiratory diseases such as asthma.",
	},
	"o3": {
		Name:          "Ozone (O3)",
		Description:   "Ground-level ozone forms when pollutants react with sunlight.",
		Source:        "Forms from reactions between NOx and VOCs in the presence of sunlight.",
		HealthEffects: "Aggravates lung diseases and reduces lung function.",
	},
	"so2": {
		Name:          "Sulfur Dioxide (SO2)",
		Description:   "A gas produced by the burning of fossil fuels, especially in power plants and industrial facilities.",
		Source:        "Burning of fossil fuels, such as coal and oil, and industrial processes.",
		HealthEffects: "Can cause respiratory problems and contribute to the formation of acid rain.",
	},
	"co": {
		Name:          "Carbon Monoxide (CO)",
		Description:   "Produced by incomplete combustion of carbon-containing fuels.",
		Source:        "Vehicles, industrial processes, and residential heating systems.",
		HealthEffects: "Reduces the body's ability to deliver oxygen to vital organs and tissues.",
	},
	"nh3": {
		Name:          "Ammonia (NH3)",
		Description:   "A colorless gas with a pungent odor, often associated with agricultural activities.",
		Source:        "Agriculture, especially livestock waste and fertilizer use.",
		HealthEffects: "Can irritate the eyes, nose, and throat; contributes to the formation of fine particulate matter.",
	},
	"no": {
		Name:          "Nitrogen Monoxide (NO)",
		Description:   "A precursor to nitrogen dioxide and ozone formation, associated with combustion processes.",
		Source:        "Combustion of fossil fuels, especially in vehicles and power plants.",
		HealthEffects: "Can lead to the formation of more harmful pollutants like NO2 and ozone.",
	},
}

const (
	densityThresholdCount  = 5
	densityThresholdRadius = 1000
)

// RecommendNearbyPlaces returns a density remark for count places found
// within radius meters, or "" when neither template applies. A count of
// exactly five never produces a remark.
func RecommendNearbyPlaces(keywords []string, count, radius int) string {
	kw := strings.Join(keywords, ", ")
	switch {
	case count < densityThresholdCount && radius >= densityThresholdRadius:
		return fmt.Sprintf("There are very less %s in the radius of %d meters.", kw, radius)
	case count > densityThresholdCount && radius <= densityThresholdRadius:
		return fmt.Sprintf("There are good enough %s within %d meters.", kw, radius)
	default:
		return ""
	}
}
