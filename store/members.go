package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberStore struct {
	db *gorm.DB
}

func NewMemberStore(db *gorm.DB) *MemberStore {
	return &MemberStore{db: db}
}

// FindByMemberID resolves an external account id to a member.
func (s *MemberStore) FindByMemberID(ctx context.Context, memberID string) (*Member, error) {
	var m Member
	err := s.db.WithContext(ctx).Where("member_id = ?", memberID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	return &m, nil
}

// Upsert inserts m or updates the nickname of the member with the same MemberID.
func (s *MemberStore) Upsert(ctx context.Context, m *Member) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"nickname"}),
	}).Create(m).Error
	if err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return nil
}
