// Package recommend maps a listener's mood and time of day onto Spotify recommendation parameters.
//
// A mood selects one of six fixed presets; the time of day then nudges energy, valence and tempo.
// Lookups are case-insensitive and unknown values fall back to the neutral preset and the
// afternoon (no-op) adjustment, so [Build] never fails.
package recommend

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// DefaultLimit is the number of tracks requested.
const DefaultLimit = 20

const (
	minTempoFloor = 40
	tempoGap      = 5
)

// Mood names a preset.
type Mood string

const (
	Happy     Mood = "happy"
	Chill     Mood = "chill"
	Focus     Mood = "focus"
	Energetic Mood = "energetic"
	Nostalgic Mood = "nostalgic"
	Neutral   Mood = "neutral"
)

// Moods lists every preset in display order.
var Moods = []Mood{Happy, Chill, Focus, Energetic, Nostalgic, Neutral}

// TimeOfDay names an adjustment layered over a preset.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// TimesOfDay lists every adjustment in display order.
var TimesOfDay = []TimeOfDay{Morning, Afternoon, Evening, Night}

// Params are the query parameters sent to the recommendations endpoint.
type Params struct {
	SeedGenres    string  `json:"seed_genres"`
	Limit         int     `json:"limit"`
	TargetValence float64 `json:"target_valence"`
	TargetEnergy  float64 `json:"target_energy"`
	MinTempo      int     `json:"min_tempo"`
	MaxTempo      int     `json:"max_tempo"`
}

var presets = map[Mood]Params{
	Happy:     {SeedGenres: "pop,indie-pop", TargetValence: 0.85, TargetEnergy: 0.7, MinTempo: 100, MaxTempo: 135},
	Chill:     {SeedGenres: "chill,ambient,lo-fi", TargetValence: 0.4, TargetEnergy: 0.3, MinTempo: 60, MaxTempo: 95},
	Focus:     {SeedGenres: "focus,jazz,classical", TargetValence: 0.5, TargetEnergy: 0.45, MinTempo: 60, MaxTempo: 110},
	Energetic: {SeedGenres: "dance,edm,rock", TargetValence: 0.75, TargetEnergy: 0.9, MinTempo: 120, MaxTempo: 150},
	Nostalgic: {SeedGenres: "rock,classic-rock,soul", TargetValence: 0.5, TargetEnergy: 0.5, MinTempo: 70, MaxTempo: 115},
	Neutral:   {SeedGenres: "pop,rock", TargetValence: 0.6, TargetEnergy: 0.6, MinTempo: 80, MaxTempo: 130},
}

// adjustment is an additive change; tempo deltas are clamped after applying.
type adjustment struct {
	energy   float64
	valence  float64
	minTempo int
	maxTempo int
}

var adjustments = map[TimeOfDay]adjustment{
	Morning: {energy: -0.05, minTempo: -5},
	Evening: {energy: -0.1, maxTempo: -10},
	Night:   {energy: -0.2, valence: -0.1, maxTempo: -20},
}

// ParseMood normalizes s to a known [Mood], defaulting to [Neutral].
func ParseMood(s string) Mood {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presets[m]; ok {
		return m
	}
	return Neutral
}

// ParseTimeOfDay normalizes s to a known [TimeOfDay], defaulting to [Afternoon].
func ParseTimeOfDay(s string) TimeOfDay {
	switch tod := TimeOfDay(strings.ToLower(strings.TrimSpace(s))); tod {
	case Morning, Afternoon, Evening, Night:
		return tod
	default:
		return Afternoon
	}
}

// Build returns the recommendation parameters for mood and timeOfDay.
func Build(mood, timeOfDay string) Params {
	p := presets[ParseMood(mood)]
	p.Limit = DefaultLimit

	adj, ok := adjustments[ParseTimeOfDay(timeOfDay)]
	if !ok {
		return p
	}

	p.TargetEnergy = clampUnit(p.TargetEnergy + adj.energy)
	p.TargetValence = clampUnit(p.TargetValence + adj.valence)
	if adj.minTempo != 0 {
		p.MinTempo = max(minTempoFloor, p.MinTempo+adj.minTempo)
	}
	if adj.maxTempo != 0 {
		p.MaxTempo = max(p.MinTempo+tempoGap, p.MaxTempo+adj.maxTempo)
	}
	return p
}

// Seeds returns the seed genres as a slice.
func (p Params) Seeds() []string {
	return strings.Split(p.SeedGenres, ",")
}

// Values encodes p as provider query parameters, adding market when set.
func (p Params) Values(market string) url.Values {
	v := url.Values{}
	v.Set("seed_genres", p.SeedGenres)
	v.Set("limit", strconv.Itoa(p.Limit))
	v.Set("target_valence", formatFloat(p.TargetValence))
	v.Set("target_energy", formatFloat(p.TargetEnergy))
	v.Set("min_tempo", strconv.Itoa(p.MinTempo))
	v.Set("max_tempo", strconv.Itoa(p.MaxTempo))
	if market != "" {
		v.Set("market", market)
	}
	return v
}

// clampUnit rounds to two decimals and bounds x to [0, 1].
func clampUnit(x float64) float64 {
	x = math.Round(x*100) / 100
	return math.Min(1, math.Max(0, x))
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
