package feature

import (
	"gonum.org/v1/gonum/stat"

	"github.com/overcut/podium/internal/history"
	"github.com/overcut/podium/internal/model"
)

// Aggregate adds the driver's historical statistics to row, computed
// strictly from the window: career counts and rates, recent form,
// constructor totals (both cars), and the driver's own record at the
// target circuit. An empty window yields the documented defaults — zero
// counts and rates, MidfieldPosition for position averages — never an
// error or a NaN.
func Aggregate(row model.FeatureRow, w history.Window, driverCode, constructor, circuit string) {
	driver := w.Driver(driverCode)

	wins := 0
	podiums := 0
	points := 0.0
	for _, r := range driver {
		if r.Winner {
			wins++
		}
		if r.Classified() && r.Position <= 3 {
			podiums++
		}
		points += r.Points
	}
	races := len(driver)

	row["wins_so_far"] = float64(wins)
	row["points_so_far"] = points
	row["podiums_so_far"] = float64(podiums)
	row["races_so_far"] = float64(races)

	row["avg_position_so_far"] = avgPosition(driver)
	row["avg_position_last_5"] = avgPosition(classified(driver).Last(RecentFormWindow))

	row["win_rate"] = rate(float64(wins), races)
	row["podium_rate"] = rate(float64(podiums), races)
	row["points_per_race"] = rate(points, races)

	team := w.Constructor(constructor)
	teamWins := 0
	teamPoints := 0.0
	for _, r := range team {
		if r.Winner {
			teamWins++
		}
		teamPoints += r.Points
	}
	row["constructor_points_so_far"] = teamPoints
	row["constructor_wins_so_far"] = float64(teamWins)

	atCircuit := driver.Circuit(circuit)
	circuitWins := 0
	for _, r := range atCircuit {
		if r.Winner {
			circuitWins++
		}
	}
	row["circuit_wins_history"] = float64(circuitWins)
	row["circuit_races_history"] = float64(len(atCircuit))
	row["circuit_avg_position"] = avgPosition(atCircuit)
}

// avgPosition is the mean finishing position over the window's classified
// records, or MidfieldPosition when there are none.
func avgPosition(w history.Window) float64 {
	var positions []float64
	for _, r := range w {
		if r.Classified() {
			positions = append(positions, r.Position)
		}
	}
	if len(positions) == 0 {
		return MidfieldPosition
	}
	return stat.Mean(positions, nil)
}

// classified narrows a window to records with a usable finishing position.
func classified(w history.Window) history.Window {
	var out history.Window
	for _, r := range w {
		if r.Classified() {
			out = append(out, r)
		}
	}
	return out
}

// rate divides a count by the number of races, returning 0 for an empty
// history instead of dividing by zero.
func rate(count float64, races int) float64 {
	if races == 0 {
		return 0
	}
	return count / float64(races)
}
