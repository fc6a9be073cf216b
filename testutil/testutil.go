// Package testutil provides test utilities for integration tests.
package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/ekrsw/knowledge-app-sub001/internal/storage"
	"github.com/ekrsw/knowledge-app-sub001/knowledge"
	"github.com/ekrsw/knowledge-app-sub001/knowledge/repository"
	"github.com/ekrsw/knowledge-app-sub001/knowledge/service"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// TestDB wraps the database for testing. The raw connection is exposed
// so tests can manipulate rows directly, e.g. to backdate submissions.
type TestDB struct {
	repository.RevisionRepository
	repository.UserRepository
	Conn *sqlx.DB
}

// RecordedEvent is one notification captured by RecordingNotifier.
type RecordedEvent struct {
	RecipientID int
	Kind        knowledge.EventKind
	RevisionID  string
	Metadata    map[string]string
}

// RecordingNotifier captures workflow events for assertions.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []RecordedEvent
}

// Notify implements knowledge.Notifier.
func (n *RecordingNotifier) Notify(recipientID int, kind knowledge.EventKind, revisionID string, metadata map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, RecordedEvent{
		RecipientID: recipientID,
		Kind:        kind,
		RevisionID:  revisionID,
		Metadata:    metadata,
	})
	return nil
}

// Events returns a copy of the captured events.
func (n *RecordingNotifier) Events() []RecordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]RecordedEvent, len(n.events))
	copy(out, n.events)
	return out
}

// TestApp wraps the full application for integration tests.
type TestApp struct {
	Workflow service.WorkflowService
	Queue    service.QueueService
	Users    service.UserService
	Notifier *RecordingNotifier
	DB       *TestDB
}

// SetupTestDB creates an in-memory SQLite database with the schema loaded.
func SetupTestDB(t *testing.T) (*TestDB, func()) {
	t.Helper()

	conn, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	if err := storage.RunMigrations(conn); err != nil {
		conn.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	store, err := storage.Init(conn)
	if err != nil {
		conn.Close()
		t.Fatalf("failed to initialize storage: %v", err)
	}

	testDB := &TestDB{
		RevisionRepository: store,
		UserRepository:     store,
		Conn:               conn,
	}

	cleanup := func() {
		conn.Close()
	}

	return testDB, cleanup
}

// SetupTestApp creates a full application instance for integration tests.
func SetupTestApp(t *testing.T) (*TestApp, func()) {
	t.Helper()

	db, dbCleanup := SetupTestDB(t)
	notifier := &RecordingNotifier{}

	app := &TestApp{
		Workflow: service.NewWorkflowService(db, notifier),
		Queue:    service.NewQueueService(db),
		Users:    service.NewUserService(db),
		Notifier: notifier,
		DB:       db,
	}

	return app, dbCleanup
}

// CreateTestUser creates a user in the test database and returns it.
func CreateTestUser(t *testing.T, app *TestApp, screenname, role string) *knowledge.User {
	t.Helper()

	user := &knowledge.User{
		ScreenName: screenname,
		Email:      screenname + "@example.com",
		Role:       role,
	}
	if err := app.Users.PostUser(user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestDraft creates a draft revision proposed by proposer with the
// given designated approver (nil for unassigned).
func CreateTestDraft(t *testing.T, app *TestApp, proposer *knowledge.User, approverID *int, articleID string) *knowledge.Revision {
	t.Helper()

	answer := "Updated answer text."
	revision, err := app.Workflow.CreateDraft(proposer, service.DraftInput{
		ArticleID:  articleID,
		Reason:     "Fix outdated answer",
		ApproverID: approverID,
		After:      knowledge.AfterFields{Answer: &answer},
	})
	if err != nil {
		t.Fatalf("failed to create test draft: %v", err)
	}
	return revision
}

// SubmitTestRevision creates and submits a revision in one call.
func SubmitTestRevision(t *testing.T, app *TestApp, proposer *knowledge.User, approverID *int, articleID string) *knowledge.Revision {
	t.Helper()

	revision := CreateTestDraft(t, app, proposer, approverID, articleID)
	if err := app.Workflow.Submit(revision.ID, proposer); err != nil {
		t.Fatalf("failed to submit test revision: %v", err)
	}

	submitted, err := app.Workflow.GetRevision(revision.ID)
	if err != nil {
		t.Fatalf("failed to fetch submitted revision: %v", err)
	}
	return submitted
}

// BackdateSubmission rewrites a revision's submission time so it appears
// to have been pending for the given number of days.
func BackdateSubmission(t *testing.T, db *TestDB, revisionID string, days float64) {
	t.Helper()

	submittedAt := time.Now().Add(-time.Duration(days * 24 * float64(time.Hour)))
	_, err := db.Conn.Exec(`UPDATE Revision SET submitted_at = ? WHERE id = ?`, submittedAt, revisionID)
	if err != nil {
		t.Fatalf("failed to backdate submission: %v", err)
	}
}

// SetPriority rewrites a revision's priority tier directly.
func SetPriority(t *testing.T, db *TestDB, revisionID string, priority knowledge.Priority) {
	t.Helper()

	_, err := db.Conn.Exec(`UPDATE Revision SET priority = ? WHERE id = ?`, priority, revisionID)
	if err != nil {
		t.Fatalf("failed to set priority: %v", err)
	}
}
