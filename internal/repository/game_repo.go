package repository

import (
	"context"

	"coinstore/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, g *models.Game) error {
	return translate(r.db.WithContext(ctx).Create(g).Error)
}

func (r *GameRepository) GetByID(ctx context.Context, id uint) (*models.Game, error) {
	var g models.Game
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *GameRepository) GetByName(ctx context.Context, name string) (*models.Game, error) {
	var g models.Game
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *GameRepository) List(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	err := r.db.WithContext(ctx).Order("name ASC").Find(&games).Error
	return games, err
}

// Rename changes the game's name and moves its entries along in one transaction.
// Cached coin columns are owned by AdjustCoins and SetCoins.
func (r *GameRepository) Rename(ctx context.Context, id uint, name string) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Game
		if err := tx.First(&g, id).Error; err != nil {
			return err
		}
		old := g.Name
		if old == name {
			return nil
		}
		if err := tx.Model(&g).Update("name", name).Error; err != nil {
			return err
		}
		return tx.Model(&models.GameEntry{}).Where("game_name = ?", old).UpdateColumn("game_name", name).Error
	}))
}

func (r *GameRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Game{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// AdjustCoins adds delta to the game's cached balance in a single statement.
// It reports false when no game has that name. Inside WithBalances the update
// runs under a savepoint, so a failure rolls back only the balance move.
func (r *GameRepository) AdjustCoins(ctx context.Context, name string, delta decimal.Decimal) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Game{}).
			Where("name = ?", name).
			UpdateColumns(map[string]interface{}{
				"total_coins":   gorm.Expr("total_coins + ?", delta),
				"coins_version": gorm.Expr("coins_version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	return found, err
}

// SetCoins overwrites the cached balance only if nobody wrote it since version was read.
func (r *GameRepository) SetCoins(ctx context.Context, id uint, version int64, total decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ? AND coins_version = ?", id, version).
		UpdateColumns(map[string]interface{}{
			"total_coins":   total,
			"coins_version": gorm.Expr("coins_version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Recharge adds a manual top-up to the game's recharge total.
func (r *GameRepository) Recharge(ctx context.Context, id uint, amount decimal.Decimal, date string) error {
	res := r.db.WithContext(ctx).Model(&models.Game{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"coins_recharged":    gorm.Expr("coins_recharged + ?", amount),
			"last_recharge_date": date,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
