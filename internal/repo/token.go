package repo

import (
	"context"
	"time"

	"github.com/vlasovm/shop_backend/internal/models"
)

func (r *GormRepo) AddRefresh(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) RefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *GormRepo) RevokeRefresh(ctx context.Context, jti string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("jti = ?", jti).
		Update("revoked", true).Error
}

// DeleteExpiredRefresh drops entries whose expiry has passed; revocation
// state for them no longer matters because the signature check already
// rejects expired tokens.
func (r *GormRepo) DeleteExpiredRefresh(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at < ?", now.Unix()).
		Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
