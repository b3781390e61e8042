package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// ChartGenerator генерирует графики для операторов
type ChartGenerator struct {
	Width  int
	Height int
}

// NewChartGenerator создает новый генератор графиков
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{Width: 1100, Height: 600}
}

// GenerateFunnel рисует воронку анкеты столбиками и возвращает PNG
func (g *ChartGenerator) GenerateFunnel(labels []string, values []int) ([]byte, error) {
	if len(labels) == 0 || len(labels) != len(values) {
		return nil, errors.New("funnel chart: labels and values must be non-empty and of equal length")
	}
	bars := make([]chart.Value, 0, len(labels))
	maxVal := 0
	for i := range labels {
		v := values[i]
		if v > maxVal {
			maxVal = v
		}
		bars = append(bars, chart.Value{Value: float64(v), Label: fmt.Sprintf("%s (%d)", labels[i], v)})
	}
	// при нулевых значениях go-chart падает с invalid data range
	yMax := float64(maxVal)
	if yMax <= 0 {
		yMax = 1
	}
	graph := chart.BarChart{
		Width:    g.Width,
		Height:   g.Height,
		BarWidth: 56,
		Background: chart.Style{Padding: chart.Box{
			Top:   50,
			Left:  16,
			Right: 16,
		}},
		YAxis: chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: yMax}},
		Bars:  bars,
	}
	buf := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("render funnel chart: %w", err)
	}
	return buf.Bytes(), nil
}
