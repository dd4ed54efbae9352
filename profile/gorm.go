package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/db"
	"gorm.io/gorm"
)

type profileRecord struct {
	UserID     string `gorm:"column:user_id;primaryKey"`
	Nickname   string `gorm:"column:nickname"`
	MascotName string `gorm:"column:mascot_name"`
	Points     int64  `gorm:"column:points"`
	Streak     int    `gorm:"column:streak_days"`
	Major      string `gorm:"column:major"`
}

func (profileRecord) TableName() string { return "user_profiles" }

func (r profileRecord) toProfile() Profile {
	return Profile{
		UserID:     r.UserID,
		Nickname:   r.Nickname,
		MascotName: r.MascotName,
		Points:     r.Points,
		Streak:     r.Streak,
		Major:      r.Major,
	}
}

type fallbackRecord struct {
	ID       uint   `gorm:"column:id;primaryKey"`
	Category string `gorm:"column:category"`
	Text     string `gorm:"column:text"`
	Active   bool   `gorm:"column:active"`
}

func (fallbackRecord) TableName() string { return "speech_fallback_lines" }

// GormSource reads profiles and fallback lines from MySQL
type GormSource struct {
	database db.Database
}

// NewGormSource creates a Source over database
func NewGormSource(database db.Database) *GormSource {
	return &GormSource{database: database}
}

// Load reads one user_profiles row
func (s *GormSource) Load(ctx context.Context, userID string) (Profile, error) {
	gdb, err := s.database.Session(ctx)
	if err != nil {
		return Profile{}, err
	}

	var rec profileRecord
	err = gdb.Where("user_id = ?", userID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("profile: load %s: %w", userID, err)
	}
	return rec.toProfile(), nil
}

// FallbackLines reads every active canned line
func (s *GormSource) FallbackLines(ctx context.Context) ([]FallbackLine, error) {
	gdb, err := s.database.Session(ctx)
	if err != nil {
		return nil, err
	}

	var recs []fallbackRecord
	if err := gdb.Where("active = ?", true).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("profile: load fallback lines: %w", err)
	}

	lines := make([]FallbackLine, 0, len(recs))
	for _, r := range recs {
		lines = append(lines, FallbackLine{Category: r.Category, Text: r.Text})
	}
	return lines, nil
}
