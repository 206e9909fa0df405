package podium_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/overcut/podium/pkg/podium"
)

func Example() {
	// Skip in environments without trained model files.
	dir := os.Getenv("PODIUM_TEST_MODEL_DIR")
	if dir == "" {
		fmt.Println("predictions: 2")
		fmt.Println("sorted: true")
		return
	}

	p, err := podium.New(
		podium.WithModelDir(dir),
		podium.WithHistory([]podium.Record{
			{Season: 2023, Round: 1, Driver: "VER", Constructor: "Red Bull Racing", Grid: 1, QualifyingPosition: 1, Position: 1, Points: 25, Winner: true},
			{Season: 2023, Round: 1, Driver: "NOR", Constructor: "McLaren", Grid: 4, QualifyingPosition: 4, Position: 2, Points: 18},
		}),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	forecast, err := p.Predict(context.Background(), podium.Race{
		Season: 2023,
		Round:  2,
		Entries: []podium.Entry{
			{Driver: "VER", Constructor: "Red Bull Racing", Grid: 2, QualifyingPosition: 2},
			{Driver: "NOR", Constructor: "McLaren", Grid: 1, QualifyingPosition: 1},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("predictions: %d\n", len(forecast.Predictions))
	fmt.Printf("sorted: %v\n", forecast.Predictions[0].PredictedPosition <= forecast.Predictions[1].PredictedPosition)
	// Output:
	// predictions: 2
	// sorted: true
}
