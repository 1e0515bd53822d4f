// Package plot renders summary chart series to PNG.
package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Maxirabon/shapebuilder-cli/internal/api"
)

const (
	imageWidth  = 1024 // pixels
	imageHeight = 768  // pixels
	textSize    = 16   // points

	marginLeft   = 80
	marginRight  = 40
	marginTop    = 70
	marginBottom = 60
)

// Chart colors, matching the web client's palette.
var (
	orange = color.NRGBA{249, 115, 22, 255}
	blue   = color.NRGBA{59, 130, 246, 255}
	green  = color.NRGBA{34, 197, 94, 255}
	yellow = color.NRGBA{234, 179, 8, 255}
)

// Series is one named line on a chart.
type Series struct {
	Name   string
	Color  color.NRGBA
	Values []float64
}

// LineChart plots one or more series over a shared ordered label axis
// (dates, in practice).
type LineChart struct {
	Title  string
	Labels []string
	Series []Series
}

// NutritionChart builds the calories/protein/carbs/fat chart from a
// nutrition summary's series.
func NutritionChart(title string, s api.NutritionSummary) *LineChart {
	lc := &LineChart{
		Title: title,
		Series: []Series{
			{Name: "calories (kcal)", Color: orange},
			{Name: "protein (g)", Color: blue},
			{Name: "carbs (g)", Color: green},
			{Name: "fat (g)", Color: yellow},
		},
	}
	for _, pt := range s.ChartData {
		lc.Labels = append(lc.Labels, pt.Date)
		lc.Series[0].Values = append(lc.Series[0].Values, pt.Calories)
		lc.Series[1].Values = append(lc.Series[1].Values, pt.Protein)
		lc.Series[2].Values = append(lc.Series[2].Values, pt.Carbs)
		lc.Series[3].Values = append(lc.Series[3].Values, pt.Fat)
	}
	return lc
}

// TrainingChart builds the volume/average-weight chart from a training
// summary's series.
func TrainingChart(title string, s api.TrainingSummary) *LineChart {
	lc := &LineChart{
		Title: title,
		Series: []Series{
			{Name: "volume (kg)", Color: green},
			{Name: "avg weight (kg)", Color: blue},
		},
	}
	for _, pt := range s.ChartData {
		lc.Labels = append(lc.Labels, pt.Date)
		lc.Series[0].Values = append(lc.Series[0].Values, pt.TotalVolume)
		lc.Series[1].Values = append(lc.Series[1].Values, pt.AvgWeight)
	}
	return lc
}

// Render draws the chart as a PNG.
func (lc *LineChart) Render() ([]byte, error) {
	if len(lc.Labels) == 0 {
		return nil, fmt.Errorf("no data to plot")
	}

	// Initialise an all-white image.
	img := image.NewNRGBA(image.Rect(0, 0, imageWidth, imageHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	if err := writeText(img, 5, 5+textSize, color.Black, lc.Title); err != nil {
		return nil, fmt.Errorf("writing title: %w", err)
	}

	// Legend along the top.
	legendX := 5
	for _, s := range lc.Series {
		if err := writeText(img, legendX, 10+2*textSize, s.Color, "— "+s.Name); err != nil {
			return nil, fmt.Errorf("writing legend: %w", err)
		}
		legendX += 10 + 9*len(s.Name)
	}

	maxVal := 1.0
	for _, s := range lc.Series {
		for _, v := range s.Values {
			maxVal = math.Max(maxVal, v)
		}
	}

	plotW := float64(imageWidth - marginLeft - marginRight)
	plotH := float64(imageHeight - marginTop - marginBottom)
	xAt := func(i int) float64 {
		if len(lc.Labels) == 1 {
			return marginLeft + plotW/2
		}
		return marginLeft + plotW*float64(i)/float64(len(lc.Labels)-1)
	}
	yAt := func(v float64) float64 {
		return float64(imageHeight-marginBottom) - plotH*v/maxVal
	}

	// Axes and horizontal guides at quarter intervals.
	grey := color.NRGBA{200, 200, 200, 255}
	drawLine(img, marginLeft, float64(marginTop), marginLeft, float64(imageHeight-marginBottom), color.NRGBA{0, 0, 0, 255})
	drawLine(img, marginLeft, float64(imageHeight-marginBottom), float64(imageWidth-marginRight), float64(imageHeight-marginBottom), color.NRGBA{0, 0, 0, 255})
	for q := 1; q <= 4; q++ {
		v := maxVal * float64(q) / 4
		y := yAt(v)
		drawLine(img, marginLeft, y, float64(imageWidth-marginRight), y, grey)
		label := fmt.Sprintf("%.0f", v)
		if err := writeText(img, 5, int(y)+textSize/2, color.Black, label); err != nil {
			return nil, fmt.Errorf("writing axis label: %w", err)
		}
	}

	// A handful of date labels; all of them would overlap.
	step := len(lc.Labels)/6 + 1
	for i := 0; i < len(lc.Labels); i += step {
		if err := writeText(img, int(xAt(i))-30, imageHeight-marginBottom+textSize+10, color.Black, lc.Labels[i]); err != nil {
			return nil, fmt.Errorf("writing date label: %w", err)
		}
	}

	for _, s := range lc.Series {
		for i := 1; i < len(s.Values); i++ {
			drawLine(img, xAt(i-1), yAt(s.Values[i-1]), xAt(i), yAt(s.Values[i]), s.Color)
		}
		if len(s.Values) == 1 {
			drawLine(img, xAt(0)-3, yAt(s.Values[0]), xAt(0)+3, yAt(s.Values[0]), s.Color)
		}
	}

	var buf bytes.Buffer
	if err := (&png.Encoder{CompressionLevel: png.BestCompression}).Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLine(img *image.NRGBA, x0, y0, x1, y1 float64, col color.Color) {
	steps := math.Max(math.Abs(x1-x0), math.Abs(y1-y0))
	if steps < 1 {
		steps = 1
	}
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		img.Set(int(x0+(x1-x0)*t), int(y0+(y1-y0)*t), col)
	}
}

var chartFont *truetype.Font

func loadFont() (*truetype.Font, error) {
	if chartFont != nil {
		return chartFont, nil
	}
	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}
	chartFont = f
	return f, nil
}

func writeText(img *image.NRGBA, x, y int, col color.Color, text string) error {
	font, err := loadFont()
	if err != nil {
		return err
	}
	ctx := freetype.NewContext()
	ctx.SetDst(img)
	ctx.SetDPI(72)
	ctx.SetClip(img.Bounds())
	ctx.SetFont(font)
	ctx.SetFontSize(textSize)
	ctx.SetSrc(&image.Uniform{col})
	_, err = ctx.DrawString(text, freetype.Pt(x, y))
	return err
}
