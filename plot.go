package salestune

import (
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/salestune/salestune/forecast"
	"github.com/salestune/salestune/timedataset"
)

// LineForecast generates an echart line chart overlaying the observed history
// with the horizon forecast and its interval bounds.
func LineForecast(title string, history *timedataset.TimeDataset, pred *forecast.Prediction) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	t := make([]time.Time, 0, len(history.T)+len(pred.T))
	t = append(t, history.T...)
	t = append(t, pred.T...)

	lineDataActual := make([]opts.LineData, 0, len(t))
	lineDataForecast := make([]opts.LineData, 0, len(t))
	lineDataUpper := make([]opts.LineData, 0, len(t))
	lineDataLower := make([]opts.LineData, 0, len(t))

	for i := range t {
		if i < len(history.T) {
			lineDataActual = append(lineDataActual, opts.LineData{Value: history.Y[i]})
			lineDataForecast = append(lineDataForecast, opts.LineData{Value: "-"})
			lineDataUpper = append(lineDataUpper, opts.LineData{Value: "-"})
			lineDataLower = append(lineDataLower, opts.LineData{Value: "-"})
			continue
		}
		j := i - len(history.T)
		lineDataActual = append(lineDataActual, opts.LineData{Value: "-"})
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: pred.Point[j]})
		lineDataUpper = append(lineDataUpper, opts.LineData{Value: pred.Upper[j]})
		lineDataLower = append(lineDataLower, opts.LineData{Value: pred.Lower[j]})
	}

	line.SetXAxis(t).
		AddSeries("Actual", lineDataActual).
		AddSeries("Forecast", lineDataForecast).
		AddSeries("Upper", lineDataUpper).
		AddSeries("Lower", lineDataLower)
	return line
}

// PlotForecast renders the history and forecast chart for one series to an
// html file.
func PlotForecast(path string, key SeriesKey, history *timedataset.TimeDataset, pred *forecast.Prediction) error {
	page := components.NewPage()
	page.AddCharts(LineForecast(key.String(), history, pred))

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}
