package podium

// Race describes the event to predict: session context plus one Entry per
// driver. Everything a caller can supply here is knowable before lights out;
// there are no outcome fields.
type Race struct {
	Season int
	Round  int

	Circuit       string
	Country       string
	EventName     string
	CircuitLength float64 // km

	AirTemp   float64 // forecast session average, °C
	TrackTemp float64
	Humidity  float64 // percent
	WindSpeed float64 // m/s
	Rainfall  float64 // expected max rainfall, mm
	Rain      bool

	Entries []Entry
}

// Entry is one driver's slot on the grid.
type Entry struct {
	Driver             string // three-letter code (e.g. "VER")
	Number             int
	Constructor        string
	Grid               float64
	QualifyingPosition float64
	QualifyingBestTime float64 // seconds; 0 if no time set
}
