package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Entry struct {
	Namespace string    `gorm:"primaryKey;size:64"                   json:"namespace"`
	Key       string    `gorm:"column:entry_key;primaryKey;size:64"  json:"key"`
	Value     []byte    `gorm:"not null"                             json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Entry) TableName() string {
	return "kv_entries"
}

type GormKV struct {
	DB *gorm.DB
}

func (r *GormKV) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var e Entry
	err := r.DB.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

func (r *GormKV) Set(ctx context.Context, namespace, key string, value []byte) error {
	e := Entry{
		Namespace: namespace,
		Key:       key,
		Value:     value,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (r *GormKV) Delete(ctx context.Context, namespace, key string) error {
	return r.DB.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		Delete(&Entry{}).Error
}
