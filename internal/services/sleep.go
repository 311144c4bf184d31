package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Jbox19/ITMajor3-FinalProject/internal/models"
)

// TimeLayout is the only accepted timestamp format for sleep and wake times.
const TimeLayout = "2006-01-02 15:04"

var (
	// ErrNotFound is returned when an update or delete targets an id that
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBadTimestamp is returned when a client timestamp does not match
	// TimeLayout.
	ErrBadTimestamp = errors.New("invalid timestamp")
)

type SleepService struct {
	db *sql.DB
}

func NewSleepService(db *sql.DB) *SleepService {
	return &SleepService{db: db}
}

// computeDuration parses both timestamps and returns the elapsed hours
// between them. Wake before sleep yields a negative duration; that matches
// the stored behavior and is not rejected.
func computeDuration(sleepTime, wakeTime string) (float64, error) {
	start, err := time.Parse(TimeLayout, sleepTime)
	if err != nil {
		return 0, fmt.Errorf("%w: sleep_time %q", ErrBadTimestamp, sleepTime)
	}
	end, err := time.Parse(TimeLayout, wakeTime)
	if err != nil {
		return 0, fmt.Errorf("%w: wake_time %q", ErrBadTimestamp, wakeTime)
	}
	return end.Sub(start).Hours(), nil
}

func (s *SleepService) Create(ctx context.Context, in models.SleepLogInput) error {
	duration, err := computeDuration(in.SleepTime, in.WakeTime)
	if err != nil {
		return err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	query := `INSERT INTO sleep_logs (sleep_time, wake_time, duration) VALUES (?, ?, ?)`
	if _, err := conn.ExecContext(ctx, query, in.SleepTime, in.WakeTime, duration); err != nil {
		return fmt.Errorf("failed to insert sleep log: %w", err)
	}
	return nil
}

func (s *SleepService) List(ctx context.Context) ([]models.SleepLog, error) {
	return s.queryLogs(ctx, `SELECT id, sleep_time, wake_time, duration FROM sleep_logs`)
}

// ListByDatePrefix matches any log whose sleep_time starts with the given
// string, so "2024-05" covers the whole month and "2024-05-01" a single day.
func (s *SleepService) ListByDatePrefix(ctx context.Context, date string) ([]models.SleepLog, error) {
	return s.queryLogs(ctx,
		`SELECT id, sleep_time, wake_time, duration FROM sleep_logs WHERE sleep_time LIKE ?`,
		date+"%")
}

func (s *SleepService) ListByMonth(ctx context.Context, year, month int) ([]models.SleepLog, error) {
	return s.queryLogs(ctx,
		`SELECT id, sleep_time, wake_time, duration FROM sleep_logs
		 WHERE strftime('%Y', sleep_time) = ? AND strftime('%m', sleep_time) = ?`,
		strconv.Itoa(year), fmt.Sprintf("%02d", month))
}

func (s *SleepService) ListByYear(ctx context.Context, year int) ([]models.SleepLog, error) {
	return s.queryLogs(ctx,
		`SELECT id, sleep_time, wake_time, duration FROM sleep_logs WHERE strftime('%Y', sleep_time) = ?`,
		strconv.Itoa(year))
}

func (s *SleepService) queryLogs(ctx context.Context, query string, args ...any) ([]models.SleepLog, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sleep logs: %w", err)
	}
	defer rows.Close()

	logs := []models.SleepLog{}
	for rows.Next() {
		var l models.SleepLog
		if err := rows.Scan(&l.ID, &l.SleepTime, &l.WakeTime, &l.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan sleep log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sleep logs: %w", err)
	}
	return logs, nil
}

// Update overwrites all three stored fields. The existence check runs before
// the timestamps are parsed, so an unknown id reports not-found even when the
// body is bad.
func (s *SleepService) Update(ctx context.Context, id int64, in models.SleepLogInput) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	var existing int64
	err = conn.QueryRowContext(ctx, `SELECT id FROM sleep_logs WHERE id = ?`, id).Scan(&existing)
	if err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("failed to look up sleep log: %w", err)
	}

	duration, err := computeDuration(in.SleepTime, in.WakeTime)
	if err != nil {
		return err
	}

	query := `UPDATE sleep_logs SET sleep_time = ?, wake_time = ?, duration = ? WHERE id = ?`
	if _, err := conn.ExecContext(ctx, query, in.SleepTime, in.WakeTime, duration, id); err != nil {
		return fmt.Errorf("failed to update sleep log: %w", err)
	}
	return nil
}

// Delete copies the row into the history table and removes it, inside one
// transaction so a failed archive never loses the live row.
func (s *SleepService) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var l models.SleepLog
	err = tx.QueryRowContext(ctx,
		`SELECT id, sleep_time, wake_time, duration FROM sleep_logs WHERE id = ?`, id).
		Scan(&l.ID, &l.SleepTime, &l.WakeTime, &l.Duration)
	if err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("failed to look up sleep log: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (sleep_time, wake_time, duration) VALUES (?, ?, ?)`,
		l.SleepTime, l.WakeTime, l.Duration)
	if err != nil {
		return fmt.Errorf("failed to archive sleep log: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sleep_logs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete sleep log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

func (s *SleepService) AverageDuration(ctx context.Context) (float64, error) {
	return s.scalar(ctx, `SELECT COALESCE(AVG(duration), 0) FROM sleep_logs`)
}

func (s *SleepService) LongestSleep(ctx context.Context) (float64, error) {
	return s.scalar(ctx, `SELECT COALESCE(MAX(duration), 0) FROM sleep_logs`)
}

func (s *SleepService) ShortestSleep(ctx context.Context) (float64, error) {
	return s.scalar(ctx, `SELECT COALESCE(MIN(duration), 0) FROM sleep_logs`)
}

func (s *SleepService) scalar(ctx context.Context, query string) (float64, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	var v float64
	if err := conn.QueryRowContext(ctx, query).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to compute aggregate: %w", err)
	}
	return v, nil
}

func (s *SleepService) FrequentSleepHour(ctx context.Context) (models.HourFrequency, error) {
	return s.frequentHour(ctx,
		`SELECT strftime('%H', sleep_time) AS hour, COUNT(*) AS count FROM sleep_logs
		 GROUP BY hour ORDER BY count DESC, hour ASC LIMIT 1`)
}

func (s *SleepService) FrequentWakeHour(ctx context.Context) (models.HourFrequency, error) {
	return s.frequentHour(ctx,
		`SELECT strftime('%H', wake_time) AS hour, COUNT(*) AS count FROM sleep_logs
		 GROUP BY hour ORDER BY count DESC, hour ASC LIMIT 1`)
}

// frequentHour reports the hour with the highest count. Ties go to the
// smallest hour. An empty table yields an empty hour and count 0.
func (s *SleepService) frequentHour(ctx context.Context, query string) (models.HourFrequency, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return models.HourFrequency{}, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	var f models.HourFrequency
	err = conn.QueryRowContext(ctx, query).Scan(&f.Hour, &f.Count)
	if err == sql.ErrNoRows {
		return models.HourFrequency{}, nil
	} else if err != nil {
		return models.HourFrequency{}, fmt.Errorf("failed to compute frequent hour: %w", err)
	}
	return f, nil
}

func (s *SleepService) DailySummary(ctx context.Context, date string) (models.DailySummary, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	summary := models.DailySummary{Date: date}
	err = conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration), 0), COUNT(*) FROM sleep_logs WHERE sleep_time LIKE ?`,
		date+"%").Scan(&summary.TotalDuration, &summary.LogCount)
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("failed to compute daily summary: %w", err)
	}

	if summary.LogCount > 0 {
		summary.AverageDuration = summary.TotalDuration / float64(summary.LogCount)
	}
	return summary, nil
}

func (s *SleepService) History(ctx context.Context) ([]models.SleepLogArchive, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `SELECT sleep_time, wake_time, duration FROM history`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []models.SleepLogArchive{}
	for rows.Next() {
		var e models.SleepLogArchive
		if err := rows.Scan(&e.SleepTime, &e.WakeTime, &e.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}
