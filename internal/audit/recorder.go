package audit

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/models"
)

// Recorder is the administrative audit trail: a best-effort, append-only
// sink plus a paginated read side with actor identity resolved for
// display.
type Recorder struct {
	entries db.AuditCollection
	users   db.UserCollection
}

// NewRecorder creates an audit recorder
func NewRecorder(entries db.AuditCollection, users db.UserCollection) *Recorder {
	return &Recorder{entries: entries, users: users}
}

// Record appends one audit entry. A failed write is logged and
// swallowed: the business transaction that triggered it must never be
// blocked or rolled back by the audit store.
func (r *Recorder) Record(ctx context.Context, entry models.AuditLogEntry) {
	if err := r.entries.InsertEntry(ctx, entry); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"admin":  entry.Admin.Hex(),
			"action": entry.ActionType,
			"target": entry.TargetType,
		}).Error("audit log write failed")
	}
}

// List returns one page of audit entries, newest first, with the acting
// admin's name and email resolved. Resolution is best-effort: an entry
// whose admin can no longer be found is still returned.
func (r *Recorder) List(ctx context.Context, page int64) (*models.AuditPage, error) {
	if page < 1 {
		page = 1
	}

	entries, err := r.entries.FindEntries(ctx, page)
	if err != nil {
		return nil, err
	}
	total, err := r.entries.CountEntries(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.AuditLogView, 0, len(entries))
	for _, entry := range entries {
		view := models.AuditLogView{AuditLogEntry: entry}
		if admin, err := r.users.FindUserByID(ctx, entry.Admin.Hex()); err == nil {
			view.AdminName = admin.Name
			view.AdminEmail = admin.Email
		}
		views = append(views, view)
	}

	pages := total / db.AuditPageSize
	if total%db.AuditPageSize != 0 {
		pages++
	}

	return &models.AuditPage{
		Logs:  views,
		Page:  page,
		Pages: pages,
		Total: total,
	}, nil
}
