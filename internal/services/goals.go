package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/Jbox19/ITMajor3-FinalProject/internal/models"
)

type GoalService struct {
	db *sql.DB
}

func NewGoalService(db *sql.DB) *GoalService {
	return &GoalService{db: db}
}

// daysInMonth is calendar-correct, including leap years: day 0 of the next
// month is the last day of this one.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Evaluate compares the logged sleep for the given month against the goal.
// Nothing is persisted; the goal lives only for this request.
func (s *GoalService) Evaluate(ctx context.Context, goal models.SleepGoal) (models.GoalOutcome, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return models.GoalOutcome{}, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	totalRequired := goal.HoursPerNight * float64(daysInMonth(goal.Year, goal.Month))

	var totalLogged float64
	err = conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration), 0) FROM sleep_logs
		 WHERE strftime('%Y', sleep_time) = ? AND strftime('%m', sleep_time) = ?`,
		strconv.Itoa(goal.Year), fmt.Sprintf("%02d", goal.Month)).Scan(&totalLogged)
	if err != nil && err != sql.ErrNoRows {
		return models.GoalOutcome{}, fmt.Errorf("failed to sum logged sleep: %w", err)
	}

	var message string
	if totalLogged >= totalRequired {
		message = fmt.Sprintf("You achieved your goal of sleeping %g hours a day this month!", goal.HoursPerNight)
	} else {
		message = fmt.Sprintf("You didn't sleep well this month. Your goal was to sleep %.2f hours, but you only logged %.2f hours.",
			totalRequired, totalLogged)
	}

	return models.GoalOutcome{
		Message:            message,
		TotalLoggedSleep:   totalLogged,
		TotalRequiredSleep: totalRequired,
	}, nil
}
