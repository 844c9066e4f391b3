package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ChampLong29/Multi-Agents-trip-planner/internal/types"
)

const (
	maxRecentCities      = 10
	contextRecentCities  = 5
	contextTopTags       = 3
	maxSnippets          = 20
	contextSnippets      = 3
	snippetPreviewLength = 100
)

// BuildContext renders the preference summary injected into the planner prompt.
// It returns "" when there is nothing worth mentioning.
func BuildContext(prefs *types.UserPreferences) string {
	if prefs == nil {
		return ""
	}
	var parts []string

	if len(prefs.RecentCities) > 0 {
		parts = append(parts, "Recently visited cities: "+strings.Join(firstN(prefs.RecentCities, contextRecentCities), ", "))
	}
	if top := mostCommon(prefs.TransportationCounts); top != "" {
		parts = append(parts, "Preferred transportation: "+top)
	}
	if top := mostCommon(prefs.AccommodationCounts); top != "" {
		parts = append(parts, "Preferred accommodation: "+top)
	}
	if tags := topKeys(prefs.PreferenceTags, contextTopTags); len(tags) > 0 {
		parts = append(parts, "Frequently chosen interests: "+strings.Join(tags, ", "))
	}

	if n := len(prefs.ConversationSnippets); n > 0 {
		parts = append(parts, "", "Recent requests:")
		start := n - contextSnippets
		if start < 0 {
			start = 0
		}
		for _, s := range prefs.ConversationSnippets[start:] {
			parts = append(parts, "- "+preview(s))
		}
	}

	return strings.Join(parts, "\n")
}

// UpdatePreferences folds one planning request into the user's preferences.
func UpdatePreferences(prefs *types.UserPreferences, req types.TripRequest, now time.Time) {
	if prefs.TransportationCounts == nil {
		prefs.TransportationCounts = map[string]int{}
	}
	if prefs.AccommodationCounts == nil {
		prefs.AccommodationCounts = map[string]int{}
	}
	if prefs.PreferenceTags == nil {
		prefs.PreferenceTags = map[string]int{}
	}

	city := strings.TrimSpace(req.City)
	if city != "" {
		cities := []string{city}
		for _, c := range prefs.RecentCities {
			if c != city {
				cities = append(cities, c)
			}
		}
		prefs.RecentCities = firstN(cities, maxRecentCities)
	}

	if t := strings.TrimSpace(req.Transportation); t != "" {
		prefs.TransportationCounts[t]++
	}
	if a := strings.TrimSpace(req.Accommodation); a != "" {
		prefs.AccommodationCounts[a]++
	}
	for _, p := range req.Preferences {
		if p = strings.TrimSpace(p); p != "" {
			prefs.PreferenceTags[p]++
		}
	}

	prefs.ConversationSnippets = append(prefs.ConversationSnippets, requestSnippet(req))
	if n := len(prefs.ConversationSnippets); n > maxSnippets {
		prefs.ConversationSnippets = prefs.ConversationSnippets[n-maxSnippets:]
	}
	prefs.UpdatedAt = now
}

func requestSnippet(req types.TripRequest) string {
	s := fmt.Sprintf("%d-day trip to %s from %s", req.TravelDays, req.City, req.StartDate)
	var tags []string
	for _, p := range req.Preferences {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	if len(tags) > 0 {
		s += " (" + strings.Join(tags, ", ") + ")"
	}
	if free := strings.TrimSpace(req.FreeTextInput); free != "" {
		s += ": " + free
	}
	return s
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= snippetPreviewLength {
		return s
	}
	return string(r[:snippetPreviewLength]) + "..."
}

// mostCommon picks the highest count; ties go to the lexically smallest key so the
// output is stable.
func mostCommon(counts map[string]int) string {
	if keys := topKeys(counts, 1); len(keys) == 1 {
		return keys[0]
	}
	return ""
}

func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k, v := range counts {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return firstN(keys, n)
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
