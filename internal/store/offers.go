package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"gravity/internal/apierr"
	"gravity/internal/logger"
	"gravity/internal/models"
)

var ErrNotFound = models.ErrNotFound

// OfferRepository 方案表的增删改查，首次使用时建表
type OfferRepository struct {
	db  *gorm.DB
	log logger.Logger
	now func() time.Time

	schemaMu    sync.Mutex
	schemaReady bool
}

func NewOfferRepository(db *gorm.DB, log logger.Logger) *OfferRepository {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &OfferRepository{db: db, log: log, now: time.Now}
}

// ensureSchema creates the tables once per repository. A failed attempt is
// retried by the next call.
func (r *OfferRepository) ensureSchema(ctx context.Context) error {
	r.schemaMu.Lock()
	defer r.schemaMu.Unlock()
	if r.schemaReady {
		return nil
	}
	if err := r.db.WithContext(ctx).AutoMigrate(&models.Offer{}, &models.ChatMessage{}); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	r.schemaReady = true
	return nil
}

// List 返回全部方案，最新创建的在前
func (r *OfferRepository) List(ctx context.Context) ([]models.Offer, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	offers := make([]models.Offer, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	for i := range offers {
		r.warnMalformed(offers[i])
	}
	return offers, nil
}

// Create 新建方案，缺省字段使用默认值
func (r *OfferRepository) Create(ctx context.Context, p models.Patch) (models.Offer, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return models.Offer{}, err
	}
	offer := models.Offer{Status: models.StatusDraft, CurrentStep: models.FirstStep}
	p.ApplyTo(&offer)
	if offer.Title == "" {
		offer.Title = models.DefaultTitle
	}
	if offer.Status == "" {
		offer.Status = models.StatusDraft
	}
	if !models.StepInRange(offer.CurrentStep) {
		offer.CurrentStep = models.FirstStep
	}
	now := r.now().UTC().Truncate(time.Microsecond)
	offer.CreatedAt = now
	offer.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(&offer).Error; err != nil {
		return models.Offer{}, fmt.Errorf("create offer: %w", err)
	}
	return offer, nil
}

func (r *OfferRepository) Get(ctx context.Context, id uint) (models.Offer, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return models.Offer{}, err
	}
	var offer models.Offer
	if err := r.db.WithContext(ctx).First(&offer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Offer{}, ErrNotFound
		}
		return models.Offer{}, fmt.Errorf("get offer %d: %w", id, err)
	}
	r.warnMalformed(offer)
	return offer, nil
}

// Update 写入给定字段并刷新 updatedAt，未给出的字段保持不变
func (r *OfferRepository) Update(ctx context.Context, id uint, p models.Patch) (models.Offer, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return models.Offer{}, err
	}
	var updated models.Offer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Offer
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		cols := p.Columns()
		cols["updated_at"] = models.NextUpdatedAt(existing.UpdatedAt, r.now())
		if err := tx.Model(&models.Offer{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Offer{}, ErrNotFound
		}
		return models.Offer{}, fmt.Errorf("update offer %d: %w", id, err)
	}
	return updated, nil
}

// Delete 硬删除，记录不存在也视为成功
func (r *OfferRepository) Delete(ctx context.Context, id uint) error {
	if err := r.ensureSchema(ctx); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Offer{}, id).Error; err != nil {
		return fmt.Errorf("delete offer %d: %w", id, err)
	}
	return nil
}

func (r *OfferRepository) warnMalformed(o models.Offer) {
	if bad := o.Details().Malformed; len(bad) > 0 {
		r.log.Warn("offer has malformed stored fields", map[string]interface{}{
			"offerId": o.ID,
			"fields":  bad,
			"code":    apierr.CodeMalformedStoredJSON,
		})
	}
}
