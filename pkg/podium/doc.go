// Package podium provides a Formula 1 race outcome predictor that scores an
// entry list against gradient-boosted models trained on historical results.
//
// Quick start:
//
//	p, err := podium.New(
//	    podium.WithModelDir("models/"),
//	    podium.WithHistoryCSV("data/historical_races.csv"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	forecast, _ := p.Predict(ctx, podium.Race{Season: 2024, Round: 10, Entries: grid})
//	fmt.Println(forecast.Predictions[0].Driver) // predicted winner
//
// Every prediction is built only from races recorded strictly before the
// target (season, round); nothing about the target race's outcome is ever
// consulted. The Podium instance is safe for concurrent use. Create once,
// reuse across requests. See the README for full documentation.
package podium
