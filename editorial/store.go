package editorial

import (
	"gorm.io/gorm"

	"github.com/voloskyi/saffron-shop/models"
)

// pruneBatchSize bounds one retention pass. The cap is enforced after every
// publish, so the backlog past the cap is normally a single post.
const pruneBatchSize = 500

// PostStore is the persistence port of the publish pipeline.
type PostStore interface {
	// Create persists a new post; the store assigns id and created_at.
	Create(post *models.BlogPost) error
	// ListBeyond returns posts ordered newest first, skipping the first
	// offset rows. Ties on created_at break by insertion order.
	ListBeyond(offset int) ([]models.BlogPost, error)
	// Delete removes posts by primary key in one atomic operation.
	Delete(ids []uint) error
}

// GormPostStore implements PostStore on the application database.
type GormPostStore struct {
	db *gorm.DB
}

// NewGormPostStore wraps a gorm handle.
func NewGormPostStore(db *gorm.DB) *GormPostStore {
	return &GormPostStore{db: db}
}

func (s *GormPostStore) Create(post *models.BlogPost) error {
	return s.db.Create(post).Error
}

func (s *GormPostStore) ListBeyond(offset int) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := s.db.
		Select("id", "title", "created_at").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(pruneBatchSize).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *GormPostStore) Delete(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	// One transaction so a post inserted after the snapshot can never be
	// caught by this deletion.
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&models.BlogPost{}, ids).Error
	})
}
