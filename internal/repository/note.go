package repository

import (
	"time"

	"github.com/user/movievault/internal/model"
	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create 新增笔记（追加写入，同一部电影允许多条）
func (r *NoteRepository) Create(note *model.Note) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	return r.db.Create(note).Error
}

// ListByUser 获取用户全部笔记，新的在前
func (r *NoteRepository) ListByUser(userID int) ([]*model.Note, error) {
	var notes []*model.Note
	err := r.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}
