package service

import (
	"context"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/models"
	"coinstore/internal/repository"

	"github.com/sirupsen/logrus"
)

type ScheduleInput struct {
	UserID    uint
	Date      string
	StartTime string
	EndTime   string
	Note      string
}

func (in ScheduleInput) validate() error {
	if _, err := time.Parse(domain.DateLayout, in.Date); err != nil {
		return domain.Invalid("date", "must be YYYY-MM-DD")
	}
	start, err := time.Parse(domain.TimeOfDayLayout, in.StartTime)
	if err != nil {
		return domain.Invalid("start_time", "must be HH:MM")
	}
	end, err := time.Parse(domain.TimeOfDayLayout, in.EndTime)
	if err != nil {
		return domain.Invalid("end_time", "must be HH:MM")
	}
	if !end.After(start) {
		return domain.Invalid("end_time", "must be after start_time")
	}
	return nil
}

type ScheduleService struct {
	repo     *repository.ScheduleRepository
	userRepo *repository.UserRepository
	audit    auditor
}

func NewScheduleService(repo *repository.ScheduleRepository, userRepo *repository.UserRepository, auditRepo *repository.AuditLogRepository, log *logrus.Logger) *ScheduleService {
	return &ScheduleService{repo: repo, userRepo: userRepo, audit: auditor{repo: auditRepo, log: log}}
}

func (s *ScheduleService) List(ctx context.Context, username, from, to string) ([]models.Schedule, error) {
	return s.repo.List(ctx, username, from, to)
}

// Create books a shift. A shift overlapping another of the same user's shifts is a conflict.
func (s *ScheduleService) Create(ctx context.Context, actor Actor, in ScheduleInput) (*models.Schedule, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, in, ""); err != nil {
		return nil, err
	}
	sch := &models.Schedule{
		UserID:    u.ID,
		Username:  u.Username,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Note:      in.Note,
	}
	if err := s.repo.Create(ctx, sch); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, "schedule.create", "schedule", sch.ID, nil)
	return sch, nil
}

func (s *ScheduleService) Update(ctx context.Context, actor Actor, id string, in ScheduleInput) (*models.Schedule, error) {
	sch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.UserID == 0 {
		in.UserID = sch.UserID
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.UserID != sch.UserID {
		u, err := s.userRepo.GetByID(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		sch.UserID, sch.Username = u.ID, u.Username
	}
	if err := s.checkOverlap(ctx, in, id); err != nil {
		return nil, err
	}
	sch.Date, sch.StartTime, sch.EndTime, sch.Note = in.Date, in.StartTime, in.EndTime, in.Note
	if err := s.repo.Update(ctx, sch); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, "schedule.update", "schedule", sch.ID, nil)
	return sch, nil
}

func (s *ScheduleService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.record(ctx, actor, "schedule.delete", "schedule", id, nil)
	return nil
}

func (s *ScheduleService) checkOverlap(ctx context.Context, in ScheduleInput, excludeID string) error {
	clashes, err := s.repo.Overlapping(ctx, in.UserID, in.Date, in.StartTime, in.EndTime, excludeID)
	if err != nil {
		return err
	}
	if len(clashes) > 0 {
		return domain.ErrConflict
	}
	return nil
}
