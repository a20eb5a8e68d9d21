/*
Package chart renders the weekly sales-versus-budget bar chart that is
embedded inline in the report email.
*/
package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/tuumbleweed/xerr"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sales-notifier/src/pkg/report"
	"sales-notifier/src/pkg/util"
)

var (
	budgetFill = drawing.Color{R: 0xB0, G: 0xB0, B: 0xB0, A: 0xFF}
	onTrack    = drawing.Color{R: 0x2E, G: 0x8B, B: 0x57, A: 0xFF}
	offTrack   = drawing.Color{R: 0xC0, G: 0x3A, B: 0x2B, A: 0xFF}
)

/*
RenderWeekly draws budget and actual bars for each compliance row, one
pair per week in the order given. Actual bars are green when the week met
its budget and red when it fell short. The chart is rendered at base
resolution and upscaled 2x so it stays crisp in mail clients.
*/
func RenderWeekly(rows []report.WeeklyCompliance) (pngBytes []byte, e *xerr.Error) {
	if len(rows) == 0 {
		e = xerr.NewError(fmt.Errorf("no weekly rows"), "render weekly chart", "empty input")
		return nil, e
	}

	bars := make([]chart.Value, 0, len(rows)*2)
	for _, row := range rows {
		bars = append(bars, chart.Value{
			Value: row.Budget,
			Label: row.Period.Key(),
			Style: chart.Style{FillColor: budgetFill, StrokeColor: budgetFill},
		})
		actualColor := onTrack
		if row.CompliancePct < 100 {
			actualColor = offTrack
		}
		bars = append(bars, chart.Value{
			Value: row.Actual,
			Label: "",
			Style: chart.Style{FillColor: actualColor, StrokeColor: actualColor},
		})
	}

	barWidth := util.Clamp(600/len(bars), 10, 60)
	graph := chart.BarChart{
		Title:    "Weekly sales vs budget",
		Height:   360,
		Width:    util.Clamp(len(bars)*(barWidth+12), 480, 1200),
		BarWidth: barWidth,
		Bars:     bars,
		XAxis:    chart.Style{TextRotationDegrees: 45},
	}

	var buffer bytes.Buffer
	renderErr := graph.Render(chart.PNG, &buffer)
	if renderErr != nil {
		e = xerr.NewError(renderErr, "render weekly chart", "bar chart")
		return nil, e
	}

	decoded, decodeErr := png.Decode(&buffer)
	if decodeErr != nil {
		e = xerr.NewError(decodeErr, "decode rendered chart", "bar chart")
		return nil, e
	}

	upscaled := imaging.Resize(decoded, decoded.Bounds().Dx()*2, 0, imaging.Lanczos)
	pngBytes, e = encodePNG(upscaled)
	return pngBytes, e
}

/*
RenderWeeklyBase64 is RenderWeekly with the result encoded for direct use
in a data: URI, for providers without inline attachment support.
*/
func RenderWeeklyBase64(rows []report.WeeklyCompliance) (encoded string, e *xerr.Error) {
	pngBytes, e := RenderWeekly(rows)
	if e != nil {
		return "", e
	}
	encoded = base64.StdEncoding.EncodeToString(pngBytes)
	return encoded, e
}

func encodePNG(img image.Image) (pngBytes []byte, e *xerr.Error) {
	var buffer bytes.Buffer
	encodeErr := png.Encode(&buffer, img)
	if encodeErr != nil {
		e = xerr.NewError(encodeErr, "encode chart png", "upscaled image")
		return nil, e
	}
	return buffer.Bytes(), e
}
