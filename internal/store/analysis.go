package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/liftform/internal/analysis"
	"github.com/ayusman/liftform/internal/pose"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Analysis is a stored frame analysis.
type Analysis struct {
	ID               string        `json:"id"`
	Exercise         pose.Exercise `json:"exercise,omitempty"`
	Score            float64       `json:"score"`
	SideProfile      pose.Side     `json:"side_profile"`
	EvaluatedSide    pose.Side     `json:"evaluated_side,omitempty"`
	MissingKeypoints bool          `json:"missing_keypoints"`
	IsGood           bool          `json:"is_good"`
	Gated            bool          `json:"gated"`
	Issues           []string      `json:"issues"`
	CreatedAt        time.Time     `json:"created_at"`
}

// FromReport converts a report into an unsaved Analysis.
func FromReport(r analysis.Report) *Analysis {
	issues := make([]string, len(r.Issues))
	copy(issues, r.Issues)
	return &Analysis{
		Exercise:         r.Exercise,
		Score:            r.Score,
		SideProfile:      r.SideProfile,
		EvaluatedSide:    r.EvaluatedSide,
		MissingKeypoints: r.MissingKeypoints,
		IsGood:           r.IsGood,
		Gated:            r.Gated,
		Issues:           issues,
	}
}

// ListOptions filters List.
type ListOptions struct {
	Exercise pose.Exercise
	Limit    int
}

// Stats aggregates stored analyses.
type Stats struct {
	Exercise     pose.Exercise `json:"exercise,omitempty"`
	Count        int           `json:"count"`
	AverageScore float64       `json:"average_score"`
	Good         int           `json:"good"`
}

// AnalysisRepository provides CRUD operations for analyses.
type AnalysisRepository struct {
	db *sql.DB
}

// Analyses returns the analysis repository for this store.
func (s *Store) Analyses() *AnalysisRepository {
	return &AnalysisRepository{db: s.db}
}

// Create inserts an analysis together with its issues and the frame's
// landmarks in a single transaction. An empty ID is replaced by a new UUID.
func (r *AnalysisRepository) Create(a *Analysis, landmarks []pose.Landmark) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.SideProfile == "" {
		a.SideProfile = pose.SideUnknown
	}
	a.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO analyses (id, exercise, score, side_profile, evaluated_side, missing_keypoints, is_good, gated, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Exercise), a.Score, string(a.SideProfile), string(a.EvaluatedSide),
		a.MissingKeypoints, a.IsGood, a.Gated, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	issueStmt, err := tx.Prepare(`INSERT INTO analysis_issues (analysis_id, seq, message) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer issueStmt.Close()

	for i, msg := range a.Issues {
		if _, err := issueStmt.Exec(a.ID, i, msg); err != nil {
			return fmt.Errorf("insert issue: %w", err)
		}
	}

	lmStmt, err := tx.Prepare(
		`INSERT INTO analysis_landmarks (analysis_id, seq, name, confidence, x, y) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer lmStmt.Close()

	for i, l := range landmarks {
		if _, err := lmStmt.Exec(a.ID, i, l.Name, l.Confidence, l.X, l.Y); err != nil {
			return fmt.Errorf("insert landmark: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves an analysis and its issues by ID.
func (r *AnalysisRepository) GetByID(id string) (*Analysis, error) {
	a := &Analysis{}
	var exercise, side, evaluated string

	err := r.db.QueryRow(
		`SELECT id, exercise, score, side_profile, evaluated_side, missing_keypoints, is_good, gated, created_at
		 FROM analyses WHERE id = ?`,
		id,
	).Scan(&a.ID, &exercise, &a.Score, &side, &evaluated, &a.MissingKeypoints, &a.IsGood, &a.Gated, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.Exercise = pose.Exercise(exercise)
	a.SideProfile = pose.Side(side)
	a.EvaluatedSide = pose.Side(evaluated)

	a.Issues, err = r.issues(a.ID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List retrieves analyses, newest first.
func (r *AnalysisRepository) List(opts ListOptions) ([]*Analysis, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	list, err := r.scanList(
		`SELECT id, exercise, score, side_profile, evaluated_side, missing_keypoints, is_good, gated, created_at
		 FROM analyses
		 WHERE (? = '' OR exercise = ?)
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		string(opts.Exercise), string(opts.Exercise), limit,
	)
	if err != nil {
		return nil, err
	}

	for _, a := range list {
		if a.Issues, err = r.issues(a.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// scanList runs the query and closes its rows before returning, so the
// caller can issue follow-up queries on a single-connection pool.
func (r *AnalysisRepository) scanList(query string, args ...any) ([]*Analysis, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*Analysis{}
	for rows.Next() {
		a := &Analysis{}
		var exercise, side, evaluated string

		err := rows.Scan(&a.ID, &exercise, &a.Score, &side, &evaluated, &a.MissingKeypoints, &a.IsGood, &a.Gated, &a.CreatedAt)
		if err != nil {
			return nil, err
		}

		a.Exercise = pose.Exercise(exercise)
		a.SideProfile = pose.Side(side)
		a.EvaluatedSide = pose.Side(evaluated)
		list = append(list, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *AnalysisRepository) issues(id string) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT message FROM analysis_issues WHERE analysis_id = ? ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := []string{}
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		issues = append(issues, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return issues, nil
}

// Landmarks retrieves the stored frame landmarks of an analysis in their
// original order.
func (r *AnalysisRepository) Landmarks(id string) ([]pose.Landmark, error) {
	if _, err := r.GetByID(id); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT name, confidence, x, y FROM analysis_landmarks WHERE analysis_id = ? ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	landmarks := []pose.Landmark{}
	for rows.Next() {
		var l pose.Landmark
		if err := rows.Scan(&l.Name, &l.Confidence, &l.X, &l.Y); err != nil {
			return nil, err
		}
		landmarks = append(landmarks, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return landmarks, nil
}

// Delete removes an analysis and, by cascade, its issues and landmarks.
func (r *AnalysisRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Stats aggregates analyses for one exercise, or all of them when
// exercise is empty.
func (r *AnalysisRepository) Stats(exercise pose.Exercise) (Stats, error) {
	st := Stats{Exercise: exercise}

	err := r.db.QueryRow(
		`SELECT COUNT(*), COALESCE(AVG(score), 0), COALESCE(SUM(is_good), 0)
		 FROM analyses WHERE (? = '' OR exercise = ?)`,
		string(exercise), string(exercise),
	).Scan(&st.Count, &st.AverageScore, &st.Good)
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}
