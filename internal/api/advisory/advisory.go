// Package advisory derives clothing and activity guidance from a day's forecast.
// Everything here is deterministic and does no I/O.
package advisory

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultDayTemp   = 20
	DefaultNightTemp = 15

	diurnalSwingThreshold = 8
	separator             = "; "
)

// ActivityKind names the single activity branch chosen for a day.
type ActivityKind string

const (
	ActivityRain      ActivityKind = "rain"
	ActivitySnow      ActivityKind = "snow"
	ActivityHeat      ActivityKind = "heat"
	ActivityCold      ActivityKind = "cold"
	ActivityWind      ActivityKind = "wind"
	ActivityFavorable ActivityKind = "favorable"
)

const (
	ClothingHot      = "Hot: wear light, breathable short sleeves"
	ClothingWarm     = "Warm: short sleeves or a thin shirt"
	ClothingMild     = "Mild: long sleeves or a light shirt"
	ClothingCool     = "Cool: bring a light jacket or sweater"
	ClothingChilly   = "Chilly: wear a jacket and long trousers"
	ClothingCold     = "Cold: wear a warm coat over layers"
	ClothingVeryCold = "Very cold: wear a down jacket, hat and gloves"

	ClothingRain  = "Bring an umbrella or raincoat and waterproof shoes"
	ClothingSnow  = "Wear non-slip waterproof boots"
	ClothingWind  = "Add a windproof outer layer"
	ClothingSunny = "Use sunscreen and sunglasses"

	ClothingDiurnalSwing = "Large day/night temperature swing: dress in layers"

	ActivityRainText      = "Rain expected: favour indoor sights such as museums and galleries"
	ActivitySnowText      = "Snow expected: stay with indoor sights and avoid walking between them"
	ActivityHeatText      = "High heat: avoid outdoor activities around midday"
	ActivityColdText      = "Cold weather: keep outdoor time short"
	ActivityWindText      = "Windy: avoid prolonged outdoor exposure"
	ActivityFavorableText = "Pleasant weather: good for outdoor sightseeing"
)

var (
	rainKeywords  = []string{"rain", "shower", "drizzle", "storm", "雨"}
	snowKeywords  = []string{"snow", "sleet", "雪"}
	windKeywords  = []string{"wind", "gale", "风"}
	coldKeywords  = []string{"cold", "frost", "freez", "寒", "冻"}
	sunnyKeywords = []string{"sunny", "clear", "cloud", "overcast", "晴", "云", "阴"}
)

// Advice is the derived guidance for one day.
type Advice struct {
	Clothing     string
	Activity     string
	ActivityKind ActivityKind
}

// Generate builds clothing and activity guidance for a condition and a temperature pair.
// Clothing advisories accumulate: a temperature band, at most one condition hint and the
// diurnal swing warning. Activity guidance is a single first-match branch.
func Generate(condition string, dayTemp, nightTemp int) Advice {
	avg := float64(dayTemp+nightTemp) / 2
	cond := strings.ToLower(condition)

	clothing := []string{clothingBand(avg)}
	switch {
	case containsAny(cond, rainKeywords):
		clothing = append(clothing, ClothingRain)
	case containsAny(cond, snowKeywords):
		clothing = append(clothing, ClothingSnow)
	case containsAny(cond, windKeywords) || containsAny(cond, coldKeywords):
		clothing = append(clothing, ClothingWind)
	case containsAny(cond, sunnyKeywords):
		clothing = append(clothing, ClothingSunny)
	}
	if absInt(dayTemp-nightTemp) > diurnalSwingThreshold {
		clothing = append(clothing, ClothingDiurnalSwing)
	}

	kind, text := activity(cond, avg)
	return Advice{
		Clothing:     strings.Join(clothing, separator),
		Activity:     text,
		ActivityKind: kind,
	}
}

func clothingBand(avg float64) string {
	switch {
	case avg >= 30:
		return ClothingHot
	case avg >= 25:
		return ClothingWarm
	case avg >= 20:
		return ClothingMild
	case avg >= 15:
		return ClothingCool
	case avg >= 10:
		return ClothingChilly
	case avg >= 5:
		return ClothingCold
	default:
		return ClothingVeryCold
	}
}

func activity(cond string, avg float64) (ActivityKind, string) {
	switch {
	case containsAny(cond, rainKeywords):
		return ActivityRain, ActivityRainText
	case containsAny(cond, snowKeywords):
		return ActivitySnow, ActivitySnowText
	case avg >= 30:
		return ActivityHeat, ActivityHeatText
	case avg <= 5:
		return ActivityCold, ActivityColdText
	case containsAny(cond, windKeywords):
		return ActivityWind, ActivityWindText
	default:
		return ActivityFavorable, ActivityFavorableText
	}
}

// ParseTemperatures turns a day/night temperature pair into whole degrees Celsius.
// Strings may carry a unit suffix ("25°C", "18℃"). If either side cannot be read the
// neutral default pair is returned.
func ParseTemperatures(day, night interface{}) (int, int) {
	d, okDay := parseTemperature(day)
	n, okNight := parseTemperature(night)
	if !okDay || !okNight {
		return DefaultDayTemp, DefaultNightTemp
	}
	return d, n
}

func parseTemperature(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float32:
		return roundToInt(float64(t))
	case float64:
		return roundToInt(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return roundToInt(f)
	case string:
		return parseTemperatureString(t)
	case fmt.Stringer:
		return parseTemperatureString(t.String())
	default:
		return 0, false
	}
}

func parseTemperatureString(s string) (int, bool) {
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"°C", "°c", "℃", "°", "C", "c"} {
		s = strings.TrimSuffix(s, suffix)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return roundToInt(f)
}

func roundToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
