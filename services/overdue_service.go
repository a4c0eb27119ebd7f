package services

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"backend_assetflow/models"
)

// OverdueService periodically flags active assignments whose expected return
// date has passed. The status flip does not touch asset availability: an
// overdue assignment still holds its unit until it is actually returned.
type OverdueService struct {
	DB            *gorm.DB
	Notifications *NotificationService

	cron *cron.Cron
}

// NewOverdueService creates a new OverdueService.
func NewOverdueService(db *gorm.DB, notifications *NotificationService) *OverdueService {
	return &OverdueService{DB: db, Notifications: notifications}
}

// Start schedules the sweeper with the given cron spec (e.g. "@hourly").
func (s *OverdueService) Start(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := s.MarkOverdueAssignments(); err != nil {
			log.Printf("Overdue sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule overdue sweep: %w", err)
	}

	c.Start()
	s.cron = c
	log.Printf("Overdue assignment sweeper scheduled: %s", spec)
	return nil
}

// Stop halts the scheduled sweeps.
func (s *OverdueService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// MarkOverdueAssignments flips every past-due active assignment to Overdue and
// sends one notification per newly flagged assignment. It returns the number
// of assignments updated.
func (s *OverdueService) MarkOverdueAssignments() (int, error) {
	var due []models.Assignment
	err := s.DB.Preload("Asset").
		Where("status = ? AND expected_return_date IS NOT NULL AND expected_return_date < ?",
			models.AssignmentStatusActive, time.Now()).
		Find(&due).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load past-due assignments: %w", err)
	}

	marked := 0
	for i := range due {
		a := &due[i]
		if err := s.DB.Model(a).Update("status", models.AssignmentStatusOverdue).Error; err != nil {
			log.Printf("Failed to mark assignment %d overdue: %v", a.ID, err)
			continue
		}
		marked++

		if s.Notifications != nil {
			go s.Notifications.SendAssignmentOverdue(a)
		}
	}

	if marked > 0 {
		log.Printf("Marked %d assignments as overdue", marked)
	}
	return marked, nil
}
