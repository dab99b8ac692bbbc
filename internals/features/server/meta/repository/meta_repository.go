package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "ujianku_backend/internals/features/server/meta/model"
)

type MetaRepository struct {
	DB *gorm.DB
}

func NewMetaRepository(db *gorm.DB) *MetaRepository {
	return &MetaRepository{DB: db}
}

// All mengembalikan seluruh key/value meta.
func (r *MetaRepository) All(ctx context.Context) (map[string]string, error) {
	var rows []model.MetaModel
	if err := r.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "gagal membaca meta")
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.MetaKey] = row.MetaValue
	}
	return out, nil
}

// Set upsert beberapa key sekaligus dalam satu transaksi.
func (r *MetaRepository) Set(ctx context.Context, kv map[string]string) error {
	if len(kv) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]model.MetaModel, 0, len(kv))
	for k, v := range kv {
		rows = append(rows, model.MetaModel{MetaKey: k, MetaValue: v, MetaUpdatedAt: now})
	}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "meta_updated_at"}),
	}).Create(&rows).Error
	return errors.Wrap(err, "gagal menyimpan meta")
}
