// Copyright (C) 2026, Probe Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"fmt"
	"io"
	"strings"
)

// Stats are descriptive statistics over one operation/transport subset.
type Stats struct {
	Count  int
	MeanMS float64
	MinMS  float64
	MaxMS  float64
}

// Summarize filters samples to one operation/transport pair, in capture
// order, and reduces them. ok is false when the subset is empty.
func Summarize(samples []Sample, operation string, transport Transport) (stats Stats, ok bool) {
	var sum float64
	for _, s := range samples {
		if s.Operation != operation || s.Transport != transport {
			continue
		}
		if stats.Count == 0 || s.LatencyMS < stats.MinMS {
			stats.MinMS = s.LatencyMS
		}
		if stats.Count == 0 || s.LatencyMS > stats.MaxMS {
			stats.MaxMS = s.LatencyMS
		}
		sum += s.LatencyMS
		stats.Count++
	}
	if stats.Count == 0 {
		return Stats{}, false
	}
	stats.MeanMS = sum / float64(stats.Count)
	return stats, true
}

// Speedup returns mean(textual)/mean(binary) for an operation. ok is false
// when either subset is empty; the comparison is then skipped, not failed.
func Speedup(samples []Sample, operation string) (speedup float64, ok bool) {
	binary, okB := Summarize(samples, operation, TransportBinary)
	textual, okT := Summarize(samples, operation, TransportTextual)
	if !okB || !okT || binary.MeanMS == 0 {
		return 0, false
	}
	return textual.MeanMS / binary.MeanMS, true
}

// Operations returns the distinct operation names in first-seen order.
func Operations(samples []Sample) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range samples {
		if !seen[s.Operation] {
			seen[s.Operation] = true
			out = append(out, s.Operation)
		}
	}
	return out
}

var transportLabels = map[Transport]string{
	TransportBinary:  "Binary",
	TransportTextual: "JSON-RPC",
}

// WriteReport renders the comparison for every operation present in the
// sample sequence.
func WriteReport(w io.Writer, samples []Sample) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "TRANSPORT COMPARISON RESULTS")
	fmt.Fprintln(w, rule)

	for _, operation := range Operations(samples) {
		fmt.Fprintf(w, "\n%s\n%s\n", strings.ToUpper(operation), strings.Repeat("-", 40))

		for _, transport := range []Transport{TransportBinary, TransportTextual} {
			stats, ok := Summarize(samples, operation, transport)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%-12s: %6.2fms avg (%.2f-%.2fms), %d samples\n",
				transportLabels[transport], stats.MeanMS, stats.MinMS, stats.MaxMS, stats.Count)
		}

		if speedup, ok := Speedup(samples, operation); ok {
			fmt.Fprintf(w, "%-12s: %.1fx faster over binary\n", "Speedup", speedup)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}
