package podium

// Record is one driver's result and context for one historical
// (season, round), matching a row of the data collector's export. Supply
// records via WithHistory when the caller already holds history in memory.
type Record struct {
	Season int
	Round  int

	Driver      string // three-letter code
	Number      int
	Constructor string

	Grid               float64
	QualifyingPosition float64
	QualifyingBestTime float64 // seconds; 0 if unset

	Position       float64 // finishing position; meaningless when DNF
	Points         float64
	Winner         bool
	DNF            bool
	FastestLapTime float64 // seconds; 0 if unset

	Circuit       string
	Country       string
	EventName     string
	CircuitLength float64 // km

	AirTemp   float64 // session average, °C
	TrackTemp float64
	Humidity  float64 // percent
	WindSpeed float64 // m/s
	Rainfall  float64 // max rainfall, mm
	Rain      bool
}
