package service

import (
	"context"
	"encoding/json"

	"coinstore/internal/models"
	"coinstore/internal/repository"

	"github.com/sirupsen/logrus"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID   uint
	Username string
	Role     string
	ClientMeta
}

// auditor writes audit rows best-effort; a failed write is logged and swallowed.
type auditor struct {
	repo *repository.AuditLogRepository
	log  *logrus.Logger
}

func (a auditor) record(ctx context.Context, actor Actor, action, resource, resourceID string, metadata interface{}) {
	if a.repo == nil {
		return
	}
	row := &models.AuditLog{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         actor.IP,
		UserAgent:  actor.UserAgent,
	}
	if actor.UserID != 0 {
		id := actor.UserID
		row.UserID = &id
	}
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			row.Metadata = string(b)
		}
	}
	if err := a.repo.Create(context.WithoutCancel(ctx), row); err != nil {
		a.log.WithError(err).WithFields(logrus.Fields{"action": action, "resource": resource}).Warn("audit write failed")
	}
}
