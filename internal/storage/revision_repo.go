package storage

import (
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ekrsw/knowledge-app-sub001/knowledge"
	"github.com/ekrsw/knowledge-app-sub001/knowledge/repository"
)

// Revision repository methods for sqliteDb

// revisionResult is used for scanning revision queries that include
// proposer info.
type revisionResult struct {
	ID         string             `db:"id"`
	ArticleID  string             `db:"article_id"`
	ProposerID int                `db:"proposer_id"`
	ApproverID *int               `db:"approver_id"`
	Reason     string             `db:"reason"`
	Priority   knowledge.Priority `db:"priority"`
	Status     knowledge.Status   `db:"status"`
	knowledge.AfterFields
	SubmittedAt *time.Time `db:"submitted_at"`
	ProcessedAt *time.Time `db:"processed_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	ScreenName  string     `db:"screenname"`
	Email       string     `db:"email"`
	Role        string     `db:"role"`
}

func (r *revisionResult) toRevision() *knowledge.Revision {
	return &knowledge.Revision{
		ID:          r.ID,
		ArticleID:   r.ArticleID,
		ProposerID:  r.ProposerID,
		ApproverID:  r.ApproverID,
		Reason:      r.Reason,
		Priority:    r.Priority,
		Status:      r.Status,
		After:       r.AfterFields,
		SubmittedAt: r.SubmittedAt,
		ProcessedAt: r.ProcessedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Proposer:    &knowledge.User{ID: r.ProposerID, ScreenName: r.ScreenName, Email: r.Email, Role: r.Role},
	}
}

func (db *sqliteDb) InsertRevision(revision *knowledge.Revision) error {
	now := time.Now()
	revision.CreatedAt = now
	revision.UpdatedAt = now

	_, err := db.conn.Exec(`
		INSERT INTO Revision (
			id, article_id, proposer_id, approver_id, reason, priority, status,
			after_title, after_info_category, after_keywords, after_importance,
			after_publish_start, after_publish_end, after_target, after_question,
			after_answer, after_add_info,
			submitted_at, processed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		revision.ID,
		revision.ArticleID,
		revision.ProposerID,
		revision.ApproverID,
		revision.Reason,
		revision.Priority,
		revision.Status,
		revision.After.Title,
		revision.After.InfoCategory,
		revision.After.Keywords,
		revision.After.Importance,
		revision.After.PublishStart,
		revision.After.PublishEnd,
		revision.After.Target,
		revision.After.Question,
		revision.After.Answer,
		revision.After.AddInfo,
		revision.SubmittedAt,
		revision.ProcessedAt,
		revision.CreatedAt,
		revision.UpdatedAt,
	)
	return err
}

func (db *sqliteDb) SelectRevision(id string) (*knowledge.Revision, error) {
	result := &revisionResult{}
	err := db.SelectRevisionStmt.Get(result, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, knowledge.ErrRevisionNotFound
	} else if err != nil {
		return nil, err
	}
	return result.toRevision(), nil
}

// decidableStatuses are the statuses an approver sees in their queue.
var decidableStatuses = []knowledge.Status{
	knowledge.StatusSubmitted,
	knowledge.StatusUnderReview,
	knowledge.StatusEscalated,
}

func (db *sqliteDb) SelectRevisionsAwaitingApprover(approverID int, filters repository.QueueFilters) ([]*knowledge.Revision, error) {
	statuses := filters.Statuses
	if len(statuses) == 0 {
		statuses = decidableStatuses
	}

	query := sq.Select("Revision.*", "User.screenname", "User.email", "User.role").
		From("Revision").
		Join("User ON Revision.proposer_id = User.id").
		Where(sq.Eq{"Revision.status": statuses}).
		Where(sq.Or{
			sq.Eq{"Revision.approver_id": approverID},
			sq.Eq{"Revision.approver_id": nil},
		}).
		OrderBy("Revision.submitted_at ASC")

	if filters.Priority != "" {
		query = query.Where(sq.Eq{"Revision.priority": filters.Priority})
	}
	if filters.ArticleID != "" {
		query = query.Where(sq.Eq{"Revision.article_id": filters.ArticleID})
	}

	querySQL, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.Queryx(querySQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revisions := make([]*knowledge.Revision, 0)
	for rows.Next() {
		result := &revisionResult{}
		if err := rows.StructScan(result); err != nil {
			return nil, err
		}
		revisions = append(revisions, result.toRevision())
	}
	return revisions, rows.Err()
}

func (db *sqliteDb) CompareAndSetStatus(id string, expected, next knowledge.Status, update repository.StatusUpdate) error {
	query := sq.Update("Revision").
		Set("status", next).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "status": expected})

	if update.ApproverID != nil {
		query = query.Set("approver_id", *update.ApproverID)
	}
	if update.SubmittedAt != nil {
		query = query.Set("submitted_at", *update.SubmittedAt)
	}
	if update.ProcessedAt != nil {
		query = query.Set("processed_at", *update.ProcessedAt)
	}
	if update.Priority != "" {
		query = query.Set("priority", update.Priority)
	}

	querySQL, args, err := query.ToSql()
	if err != nil {
		return err
	}

	result, err := db.conn.Exec(querySQL, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// The guarded update wrote nothing: either the revision is gone or
	// its status moved since the caller's read.
	var exists int
	if err := db.conn.Get(&exists, `SELECT COUNT(*) FROM Revision WHERE id = ?`, id); err != nil {
		return err
	}
	if exists == 0 {
		return knowledge.ErrRevisionNotFound
	}
	return knowledge.ErrStatusConflict
}

func (db *sqliteDb) UpdateRevisionContent(id string, after knowledge.AfterFields, reason string) error {
	query := sq.Update("Revision").
		Set("after_title", after.Title).
		Set("after_info_category", after.InfoCategory).
		Set("after_keywords", after.Keywords).
		Set("after_importance", after.Importance).
		Set("after_publish_start", after.PublishStart).
		Set("after_publish_end", after.PublishEnd).
		Set("after_target", after.Target).
		Set("after_question", after.Question).
		Set("after_answer", after.Answer).
		Set("after_add_info", after.AddInfo).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id})

	if reason != "" {
		query = query.Set("reason", reason)
	}

	querySQL, args, err := query.ToSql()
	if err != nil {
		return err
	}

	result, err := db.conn.Exec(querySQL, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return knowledge.ErrRevisionNotFound
	}
	return nil
}

func (db *sqliteDb) ApproverLoadCounts(approverID int, now time.Time) (knowledge.LoadCounts, error) {
	counts := knowledge.LoadCounts{}

	// Pending and overdue are derived from the live queue so the
	// escalation thresholds stay in one place.
	rows, err := db.conn.Queryx(`
		SELECT priority, submitted_at FROM Revision
		WHERE approver_id = ? AND status IN (?, ?, ?)`,
		approverID,
		knowledge.StatusSubmitted, knowledge.StatusUnderReview, knowledge.StatusEscalated)
	if err != nil {
		return counts, err
	}
	defer rows.Close()

	for rows.Next() {
		var priority knowledge.Priority
		var submittedAt *time.Time
		if err := rows.Scan(&priority, &submittedAt); err != nil {
			return counts, err
		}
		counts.Pending++
		if submittedAt != nil && knowledge.ShouldEscalate(priority, now.Sub(*submittedAt).Hours()/24) {
			counts.Overdue++
		}
	}
	if err := rows.Err(); err != nil {
		return counts, err
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)

	err = db.conn.Get(&counts.CompletedToday, `
		SELECT COUNT(*) FROM Revision
		WHERE approver_id = ? AND processed_at IS NOT NULL AND processed_at >= ?`,
		approverID, dayStart)
	if err != nil {
		return counts, err
	}

	err = db.conn.Get(&counts.CompletedThisWeek, `
		SELECT COUNT(*) FROM Revision
		WHERE approver_id = ? AND processed_at IS NOT NULL AND processed_at >= ?`,
		approverID, weekStart)
	if err != nil {
		return counts, err
	}

	return counts, nil
}
