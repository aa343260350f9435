package models

// UsageDay is one calendar day of usage from the bundled dataset.
// Records are immutable once loaded; dates are unique and ascending.
type UsageDay struct {
	Date        string           `json:"date"`
	Requests    int64            `json:"requests"`
	StatusCodes map[string]int64 `json:"status_codes"`
	APIKeyUsage map[string]int64 `json:"api_keys"`
}

// Errors returns the day's error count: the sum of the 400/401/500
// status buckets. Absent codes count as zero; 200 is never an error.
func (d UsageDay) Errors() int64 {
	return d.StatusCodes["400"] + d.StatusCodes["401"] + d.StatusCodes["500"]
}

// ChartPoint is a single bar/point in the requests chart.
type ChartPoint struct {
	Date     string `json:"date"`
	Requests int64  `json:"requests"`
}

// UsageRow is one row of the usage details table. Latency carries the
// simulated per-day latency in milliseconds.
type UsageRow struct {
	Date     string `json:"date"`
	Requests int64  `json:"requests"`
	Errors   int64  `json:"errors"`
	Latency  int64  `json:"latency"`
}

// UsageSummary holds the aggregate statistics for a time window.
type UsageSummary struct {
	TotalRequests    int64   `json:"total_requests"`
	TotalErrors      int64   `json:"total_errors"`
	AverageErrorRate float64 `json:"average_error_rate"`
	AverageLatency   int64   `json:"average_latency"`
}

// DashboardMetrics are the headline figures on the console landing page,
// derived from the dataset's current (or most recent) day and the
// persisted key collection, independent of any time window.
type DashboardMetrics struct {
	ActiveKeys  int    `json:"active_keys"`
	CallsToday  int64  `json:"calls_today"`
	SuccessRate string `json:"success_rate"`
	ErrorsToday int64  `json:"errors_today"`
}

// User is the mock guest identity attached to a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthToken is the session envelope handed to the client on login and
// persisted in the session slot of the store. ExpiresAt is unix
// milliseconds; the token is valid strictly before that instant.
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"`
	User        User   `json:"user"`
}
