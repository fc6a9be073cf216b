package knowledge

import (
	"time"

	"github.com/google/uuid"
)

// AfterFields holds the proposed new values of a revision. A nil field
// means no change is proposed for that field.
type AfterFields struct {
	Title        *string `db:"after_title" json:"title,omitempty"`
	InfoCategory *string `db:"after_info_category" json:"info_category,omitempty"`
	Keywords     *string `db:"after_keywords" json:"keywords,omitempty"`
	Importance   *bool   `db:"after_importance" json:"importance,omitempty"`
	PublishStart *string `db:"after_publish_start" json:"publish_start,omitempty"`
	PublishEnd   *string `db:"after_publish_end" json:"publish_end,omitempty"`
	Target       *string `db:"after_target" json:"target,omitempty"`
	Question     *string `db:"after_question" json:"question,omitempty"`
	Answer       *string `db:"after_answer" json:"answer,omitempty"`
	AddInfo      *string `db:"after_add_info" json:"add_info,omitempty"`
}

// fieldSensitivity ranks each editable article field by how consequential
// a change to it is. The highest tier among changed fields becomes the
// revision's impact level.
var fieldSensitivity = map[string]ImpactLevel{
	"title":         ImpactCritical,
	"question":      ImpactCritical,
	"answer":        ImpactCritical,
	"importance":    ImpactHigh,
	"publish_start": ImpactHigh,
	"publish_end":   ImpactHigh,
	"target":        ImpactHigh,
	"info_category": ImpactMedium,
	"keywords":      ImpactMedium,
	"add_info":      ImpactLow,
}

// ChangedFields returns the names of the fields this revision proposes
// to change, in schema order.
func (f *AfterFields) ChangedFields() []string {
	var changed []string
	appendIf := func(name string, set bool) {
		if set {
			changed = append(changed, name)
		}
	}
	appendIf("title", f.Title != nil)
	appendIf("info_category", f.InfoCategory != nil)
	appendIf("keywords", f.Keywords != nil)
	appendIf("importance", f.Importance != nil)
	appendIf("publish_start", f.PublishStart != nil)
	appendIf("publish_end", f.PublishEnd != nil)
	appendIf("target", f.Target != nil)
	appendIf("question", f.Question != nil)
	appendIf("answer", f.Answer != nil)
	appendIf("add_info", f.AddInfo != nil)
	return changed
}

// Merge overwrites only the fields that are set in other.
func (f *AfterFields) Merge(other AfterFields) {
	if other.Title != nil {
		f.Title = other.Title
	}
	if other.InfoCategory != nil {
		f.InfoCategory = other.InfoCategory
	}
	if other.Keywords != nil {
		f.Keywords = other.Keywords
	}
	if other.Importance != nil {
		f.Importance = other.Importance
	}
	if other.PublishStart != nil {
		f.PublishStart = other.PublishStart
	}
	if other.PublishEnd != nil {
		f.PublishEnd = other.PublishEnd
	}
	if other.Target != nil {
		f.Target = other.Target
	}
	if other.Question != nil {
		f.Question = other.Question
	}
	if other.Answer != nil {
		f.Answer = other.Answer
	}
	if other.AddInfo != nil {
		f.AddInfo = other.AddInfo
	}
}

// Revision is a proposed change to a published knowledge article. It is
// tracked independently of the article until approved or rejected. The
// target article is referenced by identifier only and may not exist at
// lookup time.
type Revision struct {
	ID          string      `db:"id" json:"id"`
	ArticleID   string      `db:"article_id" json:"article_id"`
	ProposerID  int         `db:"proposer_id" json:"proposer_id"`
	ApproverID  *int        `db:"approver_id" json:"approver_id,omitempty"`
	Reason      string      `db:"reason" json:"reason"`
	Priority    Priority    `db:"priority" json:"priority"`
	Status      Status      `db:"status" json:"status"`
	After       AfterFields `json:"after"`
	SubmittedAt *time.Time  `db:"submitted_at" json:"submitted_at,omitempty"`
	ProcessedAt *time.Time  `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`

	Proposer *User `json:"proposer,omitempty"`
}

// NewRevision creates a draft revision with a fresh opaque identifier.
func NewRevision(articleID string, proposerID int, reason string, after AfterFields) *Revision {
	return &Revision{
		ID:         uuid.NewString(),
		ArticleID:  articleID,
		ProposerID: proposerID,
		Reason:     reason,
		Priority:   PriorityMedium,
		Status:     StatusDraft,
		After:      after,
	}
}

var impactRank = map[ImpactLevel]int{
	ImpactNone:     0,
	ImpactLow:      1,
	ImpactMedium:   2,
	ImpactHigh:     3,
	ImpactCritical: 4,
}

// Impact derives the revision's impact level from the sensitivity of
// its changed fields. A revision with no proposed changes has no impact.
func (r *Revision) Impact() ImpactLevel {
	impact := ImpactNone
	for _, field := range r.After.ChangedFields() {
		if s, ok := fieldSensitivity[field]; ok && impactRank[s] > impactRank[impact] {
			impact = s
		}
	}
	return impact
}

// CountChanges returns the total number of changed fields and how many
// of them are critical-sensitivity fields.
func (r *Revision) CountChanges() (total, critical int) {
	for _, field := range r.After.ChangedFields() {
		total++
		if fieldSensitivity[field] == ImpactCritical {
			critical++
		}
	}
	return total, critical
}

// EstimateReviewTime returns the expected review duration in minutes
// for a revision with the given change counts.
func EstimateReviewTime(totalChanges, criticalChanges int) int {
	return 5 + 4*totalChanges + 8*criticalChanges
}

// DaysPending returns how long the revision has been waiting since
// submission, in fractional days. Zero if it was never submitted.
func (r *Revision) DaysPending(now time.Time) float64 {
	if r.SubmittedAt == nil {
		return 0
	}
	return now.Sub(*r.SubmittedAt).Hours() / 24
}

// IsOverdue reports whether the revision has been pending longer than
// its priority tier's escalation threshold.
func (r *Revision) IsOverdue(now time.Time) bool {
	return ShouldEscalate(r.Priority, r.DaysPending(now))
}
