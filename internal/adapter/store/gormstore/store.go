package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loanverse/internal/domain/store"
)

// Document is one persisted collection, stored as its full JSON body and
// rewritten row-for-row on every save.
type Document struct {
	Key       string    `gorm:"primaryKey;size:64;column:doc_key"`
	Body      []byte    `gorm:"column:body"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string { return "documents" }

type Store struct{ db *gorm.DB }

// New migrates the documents table and returns the store.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var out Document
	res := s.db.WithContext(ctx).Where("doc_key = ?", key).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, store.ErrKeyNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return out.Body, nil
}

func (s *Store) Save(ctx context.Context, key string, doc []byte) error {
	rec := Document{Key: key, Body: doc}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).
		Create(&rec).Error
}
