package model

// RaceCard holds the pre-race attributes of the event being predicted:
// session context plus one Entry per driver. Supplied by the session-loading
// collaborator; nothing in it describes the race's outcome.
type RaceCard struct {
	Season int
	Round  int

	CircuitName   string
	Country       string
	EventName     string
	CircuitLength float64

	AirTemp   float64
	TrackTemp float64
	Humidity  float64
	WindSpeed float64
	Rainfall  float64
	HadRain   bool

	Entries []Entry
}

// Entry is one driver's pre-race slot on a RaceCard.
type Entry struct {
	DriverCode         string
	DriverNumber       int
	Constructor        string
	GridPosition       float64
	QualifyingPosition float64
	QualifyingBestTime float64 // seconds; 0 if no time set
}

// PoleTime returns the fastest qualifying time on the card, or 0 when no
// entry has a time. Used to derive per-driver qualifying gaps.
func (c RaceCard) PoleTime() float64 {
	best := 0.0
	for _, e := range c.Entries {
		if e.QualifyingBestTime <= 0 {
			continue
		}
		if best == 0 || e.QualifyingBestTime < best {
			best = e.QualifyingBestTime
		}
	}
	return best
}
