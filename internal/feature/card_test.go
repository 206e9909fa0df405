package feature

import (
	"math"
	"testing"

	"github.com/overcut/podium/internal/history"
	"github.com/overcut/podium/internal/model"
)

func sampleCard() model.RaceCard {
	return model.RaceCard{
		Season:        2024,
		Round:         4,
		CircuitName:   "Suzuka",
		Country:       "Japan",
		EventName:     "Japanese Grand Prix",
		CircuitLength: 5.807,
		AirTemp:       18,
		TrackTemp:     29,
		Humidity:      55,
		WindSpeed:     2.5,
		Entries: []model.Entry{
			{DriverCode: "VER", Constructor: "Red Bull", GridPosition: 1, QualifyingPosition: 1, QualifyingBestTime: 88.197},
			{DriverCode: "NOR", Constructor: "McLaren", GridPosition: 3, QualifyingPosition: 3, QualifyingBestTime: 88.609},
			{DriverCode: "ROO", Constructor: "Newcomer Racing", GridPosition: 18, QualifyingPosition: 18},
		},
	}
}

func TestFromCardQualifyingGap(t *testing.T) {
	card := sampleCard()

	ver := FromCard(card, card.Entries[0])
	if !almostEqual(ver["qualifying_time_from_pole"], 0) {
		t.Errorf("pole gap = %v, want 0", ver["qualifying_time_from_pole"])
	}

	nor := FromCard(card, card.Entries[1])
	if !almostEqual(nor["qualifying_time_from_pole"], 88.609-88.197) {
		t.Errorf("NOR gap = %v, want %v", nor["qualifying_time_from_pole"], 88.609-88.197)
	}

	// No qualifying time set: gap stays zero rather than inventing one.
	roo := FromCard(card, card.Entries[2])
	if roo["qualifying_time_from_pole"] != 0 {
		t.Errorf("missing-time gap = %v, want 0", roo["qualifying_time_from_pole"])
	}
}

func TestFromCardWeatherAndFlags(t *testing.T) {
	card := sampleCard()
	card.HadRain = true
	card.Rainfall = 1.4

	row := FromCard(card, card.Entries[0])
	if row["had_rain"] != 1 {
		t.Errorf("had_rain = %v, want 1", row["had_rain"])
	}
	if row["max_rainfall"] != 1.4 {
		t.Errorf("max_rainfall = %v, want 1.4", row["max_rainfall"])
	}
	if row["avg_track_temp"] != 29 || row["avg_air_temp"] != 18 {
		t.Errorf("temps = (%v, %v), want (29, 18)", row["avg_track_temp"], row["avg_air_temp"])
	}
}

func TestBuildRowCoversCatalogExactly(t *testing.T) {
	card := sampleCard()
	w := history.Window{
		result(2024, 1, "VER", "Red Bull", "Sakhir", 1, 26),
		result(2024, 2, "VER", "Red Bull", "Jeddah", 2, 18),
		result(2024, 1, "NOR", "McLaren", "Sakhir", 4, 12),
	}

	row := BuildRow(w, card, card.Entries[0])

	catalog := Catalog()
	inCatalog := make(map[string]bool, len(catalog))
	for _, name := range catalog {
		inCatalog[name] = true
		if _, ok := row[name]; !ok {
			t.Errorf("catalog feature %q missing from built row", name)
		}
	}
	for name := range row {
		if !inCatalog[name] {
			t.Errorf("built row contains %q, which the catalog does not list", name)
		}
	}
}

func TestBuildRowZeroHistoryIsFinite(t *testing.T) {
	card := sampleCard()
	rookie := card.Entries[2]

	row := BuildRow(nil, card, rookie)

	if row["races_so_far"] != 0 {
		t.Errorf("races_so_far = %v, want 0", row["races_so_far"])
	}
	if row["avg_position_so_far"] != MidfieldPosition {
		t.Errorf("avg_position_so_far = %v, want %v", row["avg_position_so_far"], MidfieldPosition)
	}
	for name, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %v, want finite for a zero-history driver", name, v)
		}
	}
}
