package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedFile is the YAML layout accepted by Seed.
//
//	members:
//	  - member_id: "kakao:1234"
//	    nickname: 민수
//	courts:
//	  - name: 고양체육관
//	    address: 경기 고양시 ...
//	    is_indoor: true
//	    court_type: 하드
//	    rsv_url: https://...
type SeedFile struct {
	Members []SeedMember `yaml:"members"`
	Courts  []SeedCourt  `yaml:"courts"`
}

type SeedMember struct {
	MemberID string `yaml:"member_id"`
	Nickname string `yaml:"nickname"`
}

type SeedCourt struct {
	Name      string `yaml:"name"`
	Address   string `yaml:"address"`
	IsIndoor  bool   `yaml:"is_indoor"`
	CourtType string `yaml:"court_type"`
	RsvURL    string `yaml:"rsv_url"`
}

func ReadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Seed writes the members and courts of f in one transaction.
// Members are upserted; courts with an existing name are skipped.
func Seed(ctx context.Context, db *gorm.DB, f *SeedFile) (members, courts int, err error) {
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ms := NewMemberStore(tx)
		for _, m := range f.Members {
			if m.MemberID == "" {
				return fmt.Errorf("seed member %q: missing member_id", m.Nickname)
			}
			if err := ms.Upsert(ctx, &Member{MemberID: m.MemberID, Nickname: m.Nickname}); err != nil {
				return err
			}
			members++
		}

		for _, c := range f.Courts {
			var n int64
			if err := tx.Model(&Court{}).Where("name = ?", c.Name).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			court := Court{
				Name:      c.Name,
				Address:   c.Address,
				IsIndoor:  c.IsIndoor,
				CourtType: c.CourtType,
				RsvURL:    c.RsvURL,
			}
			if err := tx.Create(&court).Error; err != nil {
				return fmt.Errorf("seed court %q: %w", c.Name, err)
			}
			courts++
		}
		return nil
	})
	return members, courts, err
}
