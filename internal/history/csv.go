package history

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/overcut/podium/internal/model"
)

// Column names in the data collector's historical race export.
const (
	colSeason        = "year"
	colRound         = "round_number"
	colDriverCode    = "driver_code"
	colDriverNumber  = "driver_number"
	colConstructor   = "constructor"
	colPosition      = "race_position"
	colPoints        = "points"
	colDNF           = "dnf"
	colFastestLap    = "fastest_lap_time"
	colWinner        = "winner"
	colQualiPosition = "qualifying_position"
	colQualiBest     = "qualifying_best_time"
	colCircuit       = "circuit_name"
	colCountry       = "country"
	colEventName     = "event_name"
	colCircuitLength = "circuit_length"
	colAirTemp       = "avg_air_temp"
	colTrackTemp     = "avg_track_temp"
	colHumidity      = "avg_humidity"
	colWindSpeed     = "avg_wind_speed"
	colRainfall      = "max_rainfall"
	colHadRain       = "had_rain"
	colGrid          = "grid_position"
)

// LoadCSV reads the collector's historical_races.csv export into a Store.
// year, round_number and driver_code are required; every other column is
// optional and defaults to its zero value when absent or unparsable, so a
// partial export still loads.
func LoadCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("history: parse %s: %w", path, df.Err)
	}

	cols := make(map[string]int, len(df.Names()))
	for i, name := range df.Names() {
		cols[name] = i
	}
	for _, required := range []string{colSeason, colRound, colDriverCode} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("history: %s: missing required column %q", path, required)
		}
	}

	rows, _ := df.Dims()
	records := make([]model.EventRecord, 0, rows)
	for row := 0; row < rows; row++ {
		at := func(name string) string {
			col, ok := cols[name]
			if !ok {
				return ""
			}
			return df.Elem(row, col).String()
		}

		season := intField(at(colSeason))
		round := intField(at(colRound))
		code := at(colDriverCode)
		if season == 0 || round == 0 || code == "" {
			return nil, fmt.Errorf("history: %s row %d: invalid race key (%q, %q, %q)",
				path, row, at(colSeason), at(colRound), code)
		}

		records = append(records, model.EventRecord{
			Season:             season,
			Round:              round,
			DriverCode:         code,
			DriverNumber:       intField(at(colDriverNumber)),
			Constructor:        at(colConstructor),
			GridPosition:       floatField(at(colGrid)),
			QualifyingPosition: floatField(at(colQualiPosition)),
			QualifyingBestTime: floatField(at(colQualiBest)),
			Position:           floatField(at(colPosition)),
			Points:             floatField(at(colPoints)),
			Winner:             boolField(at(colWinner)),
			DNF:                boolField(at(colDNF)),
			FastestLapTime:     floatField(at(colFastestLap)),
			CircuitName:        at(colCircuit),
			Country:            at(colCountry),
			EventName:          at(colEventName),
			CircuitLength:      floatField(at(colCircuitLength)),
			AirTemp:            floatField(at(colAirTemp)),
			TrackTemp:          floatField(at(colTrackTemp)),
			Humidity:           floatField(at(colHumidity)),
			WindSpeed:          floatField(at(colWindSpeed)),
			Rainfall:           floatField(at(colRainfall)),
			HadRain:            boolField(at(colHadRain)),
		})
	}

	return NewStore(records), nil
}

func intField(s string) int {
	f := floatField(s)
	return int(f)
}

// floatField parses a numeric cell; empty cells (pandas NaN) and garbage
// parse to 0 rather than failing the whole load.
func floatField(s string) float64 {
	if s == "" || s == "NaN" || s == "NA" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func boolField(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}
