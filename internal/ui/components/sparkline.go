package components

import (
	"strings"
)

// Sparkline characters: U+2581 to U+2588
var sparkBars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline converts daily counts to a unicode sparkline. The scale
// starts at zero so quiet days stay at the bottom even when every day had
// some activity.
func RenderSparkline(values []int) string {
	peak := 0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	var sb strings.Builder
	for _, v := range values {
		sb.WriteRune(barFor(v, peak))
	}
	return sb.String()
}

func barFor(v, peak int) rune {
	if v <= 0 || peak <= 0 {
		return sparkBars[0]
	}
	idx := v * (len(sparkBars) - 1) / peak
	if idx == 0 {
		idx = 1
	}
	return sparkBars[idx]
}

// RenderSparklineWithWidth renders at most targetWidth bars, summing
// neighbouring days into one bar when there are more values than columns
func RenderSparklineWithWidth(values []int, targetWidth int) string {
	if len(values) == 0 || targetWidth <= 0 {
		return ""
	}
	if len(values) <= targetWidth {
		return RenderSparkline(values)
	}

	buckets := make([]int, targetWidth)
	for i, v := range values {
		buckets[i*targetWidth/len(values)] += v
	}
	return RenderSparkline(buckets)
}
