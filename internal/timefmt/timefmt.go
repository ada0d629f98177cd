// Package timefmt renders task durations for display and speech.
package timefmt

import "fmt"

// Format converts a number of seconds into a human-readable string.
//
//	45   -> "45 seconds"
//	330  -> "5m 30s"
//	4220 -> "1h 10m 20s"
//
// Negative input is treated as zero.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		if seconds == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}

	hrs := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60
	out := fmt.Sprintf("%dh", hrs)
	if mins > 0 {
		out += fmt.Sprintf(" %dm", mins)
	}
	if secs > 0 {
		out += fmt.Sprintf(" %ds", secs)
	}
	return out
}

// Clock renders seconds as MM:SS, or H:MM:SS past the hour.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
