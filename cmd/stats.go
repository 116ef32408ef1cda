package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/achilleasa/lumen/renderer"
	"github.com/olekukonko/tablewriter"
)

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Stage", "Time", "% of frame"})
	for _, stage := range []struct {
		name string
		time time.Duration
	}{
		{"trace", stats.TraceTime},
		{"denoise", stats.DenoiseTime},
		{"rotate", stats.RotateTime},
		{"present", stats.PresentTime},
	} {
		var percent float64
		if stats.RenderTime > 0 {
			percent = 100.0 * float64(stage.time) / float64(stats.RenderTime)
		}
		table.Append([]string{
			stage.name,
			stage.time.String(),
			fmt.Sprintf("%02.1f %%", percent),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("frame %d (%dx%d, %d samples)", stats.Frame, stats.FrameW, stats.FrameH, stats.Samples),
		stats.RenderTime.String(),
		"TOTAL",
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
