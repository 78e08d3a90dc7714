package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type CourtPage struct {
	Total  int64
	Courts []Court
}

type CourtStore struct {
	db *gorm.DB
}

func NewCourtStore(db *gorm.DB) *CourtStore {
	return &CourtStore{db: db}
}

func (s *CourtStore) List(ctx context.Context, page, limit int) (CourtPage, error) {
	var result CourtPage
	if err := s.db.WithContext(ctx).Model(&Court{}).Count(&result.Total).Error; err != nil {
		return CourtPage{}, fmt.Errorf("count courts: %w", err)
	}

	err := s.db.WithContext(ctx).
		Order("court_id ASC").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&result.Courts).Error
	if err != nil {
		return CourtPage{}, fmt.Errorf("list courts: %w", err)
	}
	return result, nil
}

func (s *CourtStore) Create(ctx context.Context, c *Court) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create court: %w", err)
	}
	return nil
}
