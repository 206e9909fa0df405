package feature

import (
	"github.com/overcut/podium/internal/history"
	"github.com/overcut/podium/internal/model"
)

// FromCard seeds a feature row with one entry's pre-race attributes. The
// qualifying gap is measured against the card's pole time; entries without
// a qualifying time get a zero gap rather than a fabricated one.
func FromCard(card model.RaceCard, e model.Entry) model.FeatureRow {
	row := model.FeatureRow{
		"grid_position":        e.GridPosition,
		"qualifying_position":  e.QualifyingPosition,
		"qualifying_best_time": e.QualifyingBestTime,
		"avg_air_temp":         card.AirTemp,
		"avg_track_temp":       card.TrackTemp,
		"avg_humidity":         card.Humidity,
		"avg_wind_speed":       card.WindSpeed,
		"max_rainfall":         card.Rainfall,
		"circuit_length":       card.CircuitLength,
	}

	row["had_rain"] = 0
	if card.HadRain {
		row["had_rain"] = 1
	}

	gap := 0.0
	if pole := card.PoleTime(); pole > 0 && e.QualifyingBestTime > 0 {
		gap = e.QualifyingBestTime - pole
		if gap < 0 {
			gap = 0
		}
	}
	row["qualifying_time_from_pole"] = gap

	return row
}

// EncodeCategoricals adds the stable hash encodings of the card's and
// entry's string attributes.
func EncodeCategoricals(row model.FeatureRow, card model.RaceCard, e model.Entry) {
	row["circuit_name_encoded"] = Encode(card.CircuitName)
	row["country_encoded"] = Encode(card.Country)
	row["event_name_encoded"] = Encode(card.EventName)
	row["driver_code_encoded"] = Encode(e.DriverCode)
}

// BuildRow assembles the complete feature row for one entry: pre-race card
// values, historical aggregates from the window, deterministic transforms,
// and categorical encodings. The window must already be bounded strictly
// below the card's (season, round).
func BuildRow(w history.Window, card model.RaceCard, e model.Entry) model.FeatureRow {
	row := FromCard(card, e)
	Aggregate(row, w, e.DriverCode, e.Constructor, card.CircuitName)
	Transform(row)
	EncodeCategoricals(row, card, e)
	return row
}
