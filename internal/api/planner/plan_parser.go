package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

var (
	ErrEmptyResponse = errors.New("model returned an empty response")
	ErrNoJSONFound   = errors.New("no JSON document found in model response")
)

// trailingCommaPattern matches trailing commas before ] or }.
var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// fenceTagPattern matches a bare language tag on the first line of a fenced block.
var fenceTagPattern = regexp.MustCompile(`^[A-Za-z0-9_+-]+\s*\n`)

// ExtractJSON pulls the structured document out of a model reply. Preference order:
// a ```json fenced block, any fenced block, then the span from the first '{' to the last '}'.
func ExtractJSON(response string) (string, error) {
	if strings.TrimSpace(response) == "" {
		return "", ErrEmptyResponse
	}

	if i := strings.Index(response, "```json"); i >= 0 {
		return fencedBody(response, i+len("```json"))
	}
	if i := strings.Index(response, "```"); i >= 0 {
		body, err := fencedBody(response, i+len("```"))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(fenceTagPattern.ReplaceAllString(body, "")), nil
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		return response[start : end+1], nil
	}
	return "", ErrNoJSONFound
}

// fencedBody returns the text from start up to the closing fence, or to the end of
// the reply when the model never closed it.
func fencedBody(response string, start int) (string, error) {
	rest := response[start:]
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	body := strings.TrimSpace(rest)
	if body == "" {
		return "", ErrNoJSONFound
	}
	return body, nil
}

// ParseOutcome reports how a reply was turned into a plan.
type ParseOutcome struct {
	Plan     *types.TripPlan
	Repaired bool
}

// ParsePlan extracts and decodes the model's plan. A decode failure gets exactly one
// repair pass and one retry. The decoded plan is then reconciled with the request so
// that it has one day per travel day, indexed from zero.
func ParsePlan(response string, req types.TripRequest, weather []types.DailyWeather, hotels []types.NormalizedPOI) (ParseOutcome, error) {
	doc, err := ExtractJSON(response)
	if err != nil {
		return ParseOutcome{}, err
	}

	plan, err := decodePlan(doc)
	repaired := false
	if err != nil {
		fixed := RepairJSON(doc, err)
		plan, err = decodePlan(fixed)
		if err != nil {
			return ParseOutcome{}, fmt.Errorf("failed to parse plan after repair: %w", err)
		}
		repaired = true
	}

	reconcilePlan(plan, req, weather, hotels)
	return ParseOutcome{Plan: plan, Repaired: repaired}, nil
}

func decodePlan(doc string) (*types.TripPlan, error) {
	var plan types.TripPlan
	if err := json.Unmarshal([]byte(doc), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// RepairJSON applies the single repair pass: balance the quote on the line a syntax
// error points at (only for unterminated strings and unexpected tokens), strip
// comments, then strip trailing commas.
func RepairJSON(doc string, parseErr error) string {
	fixed := doc
	if line, ok := repairableLine(doc, parseErr); ok {
		fixed = balanceQuotes(fixed, line)
	}
	fixed = stripComments(fixed)
	return trailingCommaPattern.ReplaceAllString(fixed, "$1")
}

// repairableLine returns the zero-based line a syntax error refers to when the error
// is an unterminated string or an unexpected token.
func repairableLine(doc string, err error) (int, bool) {
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return 0, false
	}
	msg := syntaxErr.Error()
	if !strings.Contains(msg, "in string literal") && !strings.HasPrefix(msg, "invalid character") {
		return 0, false
	}
	pos := int(syntaxErr.Offset) - 1
	if pos < 0 {
		pos = 0
	}
	if pos > len(doc) {
		pos = len(doc)
	}
	return strings.Count(doc[:pos], "\n"), true
}

// balanceQuotes closes an unterminated string on the given line. A trailing comma
// stays after the inserted quote.
func balanceQuotes(doc string, line int) string {
	lines := strings.Split(doc, "\n")
	if line < 0 || line >= len(lines) {
		return doc
	}
	l := strings.TrimRight(lines[line], " \t\r")
	if countQuotes(l)%2 == 0 {
		return doc
	}
	if strings.HasSuffix(l, ",") {
		l = strings.TrimSuffix(l, ",") + `",`
	} else {
		l += `"`
	}
	lines[line] = l
	return strings.Join(lines, "\n")
}

func countQuotes(s string) int {
	n := 0
	escaped := false
	for i := 0; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '"':
			n++
		}
	}
	return n
}

// stripComments removes // and /* */ comments outside string values.
// Newlines are kept so line numbers do not shift.
func stripComments(s string) string {
	if !strings.Contains(s, "//") && !strings.Contains(s, "/*") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			b.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"' || ch == '\n':
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			continue
		}
		if ch == '/' && i+1 < len(s) && s[i+1] == '/' {
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
			continue
		}
		if ch == '/' && i+1 < len(s) && s[i+1] == '*' {
			i += 2
			for i < len(s) && !(s[i] == '*' && i+1 < len(s) && s[i+1] == '/') {
				if s[i] == '\n' {
					b.WriteByte('\n')
				}
				i++
			}
			i++
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// reconcilePlan forces the structural invariants onto a decoded plan.
func reconcilePlan(plan *types.TripPlan, req types.TripRequest, weather []types.DailyWeather, hotels []types.NormalizedPOI) {
	if strings.TrimSpace(plan.City) == "" {
		plan.City = req.City
	}
	if plan.StartDate == "" {
		plan.StartDate = req.StartDate
	}
	if plan.EndDate == "" {
		plan.EndDate = req.EndDate
	}

	dates := req.Dates()
	if len(plan.Days) > req.TravelDays {
		plan.Days = plan.Days[:req.TravelDays]
	}
	for i := len(plan.Days); i < req.TravelDays; i++ {
		plan.Days = append(plan.Days, fallbackDay(req, i, dateAt(dates, i)))
	}

	for i := range plan.Days {
		day := &plan.Days[i]
		day.DayIndex = i
		if day.Date == "" {
			day.Date = dateAt(dates, i)
		}
		if day.Hotel == nil || strings.TrimSpace(day.Hotel.Name) == "" {
			day.Hotel = candidateHotel(req, hotels, i)
		}
		if len(day.Attractions) == 0 {
			day.Attractions = fallbackDay(req, i, day.Date).Attractions
		}
		day.Meals = threeMeals(day.Meals, i)
	}

	if len(weather) > 0 {
		plan.WeatherInfo = weather
	}
	if plan.WeatherInfo == nil {
		plan.WeatherInfo = []types.DailyWeather{}
	}

	if plan.Budget == nil || plan.Budget.Total == 0 {
		plan.RecomputeBudget()
	}
}

// candidateHotel picks the first retrieved hotel, or a placeholder when none came back.
func candidateHotel(req types.TripRequest, hotels []types.NormalizedPOI, dayIndex int) *types.Hotel {
	if len(hotels) == 0 {
		return placeholderHotel(req, dayIndex)
	}
	h := hotels[0]
	return &types.Hotel{
		Name:          h.Name,
		Address:       types.Text(h.Address),
		Location:      h.Location,
		PriceRange:    types.Text(h.Cost),
		Rating:        types.Text(h.Rating),
		Type:          types.Text(h.Type),
		EstimatedCost: types.ParseAmount(h.Cost),
	}
}

var mealAliases = map[string]string{
	"breakfast": "breakfast",
	"早餐":        "breakfast",
	"lunch":     "lunch",
	"午餐":        "lunch",
	"dinner":    "dinner",
	"supper":    "dinner",
	"晚餐":        "dinner",
}

// threeMeals returns exactly one breakfast, lunch and dinner in that order, keeping
// the model's meal for each slot and filling gaps from the template.
func threeMeals(meals []types.Meal, dayIndex int) []types.Meal {
	bySlot := make(map[string]types.Meal, len(mealOrder))
	for _, m := range meals {
		slot, ok := mealAliases[strings.ToLower(strings.TrimSpace(m.Type))]
		if !ok {
			continue
		}
		if _, taken := bySlot[slot]; !taken {
			m.Type = slot
			bySlot[slot] = m
		}
	}
	out := make([]types.Meal, 0, len(mealOrder))
	for _, slot := range mealOrder {
		if m, ok := bySlot[slot]; ok {
			out = append(out, m)
			continue
		}
		out = append(out, templateMeal(slot, dayIndex))
	}
	return out
}
