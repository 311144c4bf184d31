package models

type SleepLog struct {
	ID        int64   `json:"id" db:"id"`
	SleepTime string  `json:"sleep_time" db:"sleep_time"`
	WakeTime  string  `json:"wake_time" db:"wake_time"`
	Duration  float64 `json:"duration" db:"duration"`
}

// SleepLogInput carries the client-supplied timestamps. Duration is always
// computed server-side, never accepted from the client.
type SleepLogInput struct {
	SleepTime string `json:"sleep_time"`
	WakeTime  string `json:"wake_time"`
}

// SleepLogArchive is a deleted log's copy in the history table. It carries no
// reference back to the original id.
type SleepLogArchive struct {
	SleepTime string  `json:"sleep_time" db:"sleep_time"`
	WakeTime  string  `json:"wake_time" db:"wake_time"`
	Duration  float64 `json:"duration" db:"duration"`
}

type Recommendation struct {
	ID             int64  `json:"id" db:"id"`
	Recommendation string `json:"recommendation" db:"recommendation"`
}

type RecommendationInput struct {
	Recommendation string `json:"recommendation"`
}

type RecommendationArchive struct {
	Recommendation string `json:"recommendation" db:"recommendation"`
}

// SleepGoal is evaluated against existing logs in a single request; nothing
// is persisted for it.
type SleepGoal struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	HoursPerNight float64 `json:"hours_per_night"`
}

type GoalOutcome struct {
	Message            string  `json:"message"`
	TotalLoggedSleep   float64 `json:"total_logged_sleep"`
	TotalRequiredSleep float64 `json:"total_required_sleep"`
}

type DailySummary struct {
	Date            string  `json:"date"`
	TotalDuration   float64 `json:"total_duration"`
	AverageDuration float64 `json:"average_duration"`
	LogCount        int     `json:"log_count"`
}

type HourFrequency struct {
	Hour  string
	Count int
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
}
