package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/craftora/pkg/config"
)

// slotRow persists one slot as a single JSON document.
type slotRow struct {
	Name      string    `gorm:"primaryKey;type:varchar(64)"`
	Data      []byte    `gorm:"type:longtext"`
	UpdatedAt time.Time
}

func (slotRow) TableName() string {
	return "slots"
}

// MySQL is a Store backed by a slots table. It has no change feed, so
// Subscribe is a no-op and callers re-read on their own schedule.
type MySQL struct {
	db *gorm.DB
}

func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if err := db.AutoMigrate(&slotRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &MySQL{db: db}, nil
}

var _ Store = (*MySQL)(nil)

func (m *MySQL) Get(ctx context.Context, slot Slot) ([]byte, error) {
	var row slotRow
	err := m.db.WithContext(ctx).Where("name = ?", string(slot)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Data, nil
}

func (m *MySQL) Set(ctx context.Context, slot Slot, data []byte) error {
	row := slotRow{Name: string(slot), Data: data, UpdatedAt: time.Now()}
	return m.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

func (m *MySQL) Delete(ctx context.Context, slot Slot) error {
	return m.db.WithContext(ctx).Delete(&slotRow{}, "name = ?", string(slot)).Error
}

func (m *MySQL) Subscribe(slot Slot, fn func()) (cancel func()) {
	return func() {}
}
