package train

import (
	"log"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart"

	"github.com/officekit/intent/errors"
)

// RenderCurves renders the training history as PNG charts: loss.png with the
// train/validation loss series, accuracy.png, and learning_rate.png.
// Histories shorter than two epochs have no curve to draw (go-chart needs a
// non-zero x-range) and are skipped without error.
func (h History) RenderCurves(dir string) error {
	if len(h) < 2 {
		log.Printf("skipping training curves: %d epoch(s) recorded, need at least 2", len(h))
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "error creating directory '%s'", dir)
	}

	epochs := make([]float64, len(h))
	trainLoss := make([]float64, len(h))
	valLoss := make([]float64, len(h))
	valAcc := make([]float64, len(h))
	rates := make([]float64, len(h))
	for i, rec := range h {
		epochs[i] = float64(i + 1)
		trainLoss[i] = rec.TrainLoss
		valLoss[i] = rec.ValLoss
		valAcc[i] = rec.ValAccuracy
		rates[i] = rec.LearningRate
	}

	charts := []struct {
		filename string
		title    string
		yAxis    string
		series   []chart.Series
	}{
		{
			filename: "loss.png",
			title:    "Training and Validation Loss",
			yAxis:    "Loss",
			series: []chart.Series{
				chart.ContinuousSeries{
					Name:    "Train",
					XValues: epochs,
					YValues: trainLoss,
					Style:   chart.Style{Show: true, StrokeColor: chart.ColorBlue},
				},
				chart.ContinuousSeries{
					Name:    "Validation",
					XValues: epochs,
					YValues: valLoss,
					Style:   chart.Style{Show: true, StrokeColor: chart.ColorRed},
				},
			},
		},
		{
			filename: "accuracy.png",
			title:    "Validation Accuracy",
			yAxis:    "Accuracy",
			series: []chart.Series{
				chart.ContinuousSeries{
					Name:    "Validation Accuracy",
					XValues: epochs,
					YValues: valAcc,
					Style:   chart.Style{Show: true, StrokeColor: chart.ColorGreen},
				},
			},
		},
		{
			filename: "learning_rate.png",
			title:    "Learning Rate Schedule",
			yAxis:    "Learning Rate",
			series: []chart.Series{
				chart.ContinuousSeries{
					Name:    "Learning Rate",
					XValues: epochs,
					YValues: rates,
					Style:   chart.Style{Show: true, StrokeColor: chart.ColorAlternateBlue},
				},
			},
		},
	}

	for _, c := range charts {
		graph := chart.Chart{
			Title:      c.title,
			TitleStyle: chart.StyleShow(),
			XAxis: chart.XAxis{
				Name:      "Epoch",
				NameStyle: chart.StyleShow(),
				Style:     chart.StyleShow(),
			},
			YAxis: chart.YAxis{
				Name:      c.yAxis,
				NameStyle: chart.StyleShow(),
				Style:     chart.StyleShow(),
			},
			Series: c.series,
		}
		graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

		path := filepath.Join(dir, c.filename)
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "error creating '%s'", path)
		}
		if err := graph.Render(chart.PNG, f); err != nil {
			f.Close()
			return errors.Wrapf(err, "error rendering '%s'", path)
		}
		if err := f.Close(); err != nil {
			return errors.Wrapf(err, "error closing '%s'", path)
		}
	}
	return nil
}
