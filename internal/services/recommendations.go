package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Jbox19/ITMajor3-FinalProject/internal/models"
)

type RecommendationService struct {
	db *sql.DB
}

func NewRecommendationService(db *sql.DB) *RecommendationService {
	return &RecommendationService{db: db}
}

func (s *RecommendationService) Create(ctx context.Context, text string) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	query := `INSERT INTO sleep_recommendations (recommendation) VALUES (?)`
	if _, err := conn.ExecContext(ctx, query, text); err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}
	return nil
}

func (s *RecommendationService) List(ctx context.Context) ([]models.Recommendation, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `SELECT id, recommendation FROM sleep_recommendations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	recs := []models.Recommendation{}
	for rows.Next() {
		var r models.Recommendation
		if err := rows.Scan(&r.ID, &r.Recommendation); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recommendations: %w", err)
	}
	return recs, nil
}

func (s *RecommendationService) Update(ctx context.Context, id int64, text string) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx,
		`UPDATE sleep_recommendations SET recommendation = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("failed to update recommendation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete archives the text (only the text, not the id) before removing the
// row, all in one transaction.
func (s *RecommendationService) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var text string
	err = tx.QueryRowContext(ctx,
		`SELECT recommendation FROM sleep_recommendations WHERE id = ?`, id).Scan(&text)
	if err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("failed to look up recommendation: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recommendation_history (recommendation) VALUES (?)`, text)
	if err != nil {
		return fmt.Errorf("failed to archive recommendation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sleep_recommendations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

func (s *RecommendationService) History(ctx context.Context) ([]models.RecommendationArchive, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `SELECT recommendation FROM recommendation_history`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendation history: %w", err)
	}
	defer rows.Close()

	entries := []models.RecommendationArchive{}
	for rows.Next() {
		var e models.RecommendationArchive
		if err := rows.Scan(&e.Recommendation); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recommendation history: %w", err)
	}
	return entries, nil
}
