package model

// EventRecord is one driver's result and context for one (season, round).
// Records are ingested once from the data collector's export and read-only
// afterwards; outcome fields (Position, Points, Winner, DNF, FastestLapTime)
// exist for historical aggregation and must never be featurized for the
// record's own event.
type EventRecord struct {
	Season int
	Round  int

	DriverCode   string // three-letter code (e.g. "VER")
	DriverNumber int
	Constructor  string

	GridPosition       float64
	QualifyingPosition float64
	QualifyingBestTime float64 // best qualifying lap, seconds; 0 if unset

	Position       float64 // finishing position; meaningless when DNF
	Points         float64
	Winner         bool
	DNF            bool
	FastestLapTime float64 // seconds; 0 if unset

	CircuitName   string
	Country       string
	EventName     string
	CircuitLength float64 // km

	AirTemp   float64 // session average, °C
	TrackTemp float64
	Humidity  float64 // percent
	WindSpeed float64 // m/s
	Rainfall  float64 // max rainfall, mm
	HadRain   bool
}

// Classified reports whether the record carries a usable finishing position.
func (r EventRecord) Classified() bool {
	return !r.DNF && r.Position > 0
}
