package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/pricing"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/config"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/types"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Service reads and edits the restaurant-wide settings row. Reads are never
// cached so a pricing computation always sees the latest tax configuration.
type Service interface {
	Get(ctx context.Context, tx *gorm.DB) (*models.RestaurantSettings, error)
	Update(ctx context.Context, input UpdateInput) (*models.RestaurantSettings, error)
}

// UpdateInput carries a partial settings update; nil fields are left as is.
type UpdateInput struct {
	TaxRate         *decimal.Decimal
	TaxEnabled      *bool
	Currency        *string
	DiscountPresets *[]types.DiscountPreset
}

type service struct {
	db       *gorm.DB
	defaults config.RestaurantConfig
}

// NewService wires the settings service; defaults apply until a row is saved.
func NewService(db *gorm.DB, defaults config.RestaurantConfig) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("settings db required")
	}
	return &service{db: db, defaults: defaults}, nil
}

// Pricing narrows the settings to what the pricing engine needs.
func Pricing(s *models.RestaurantSettings) pricing.Settings {
	return pricing.Settings{
		TaxRate:    s.TaxRate,
		TaxEnabled: s.TaxEnabled,
		Currency:   s.Currency,
	}
}

// Preset looks up a discount preset by name, case-insensitively.
func Preset(s *models.RestaurantSettings, name string) (*types.DiscountPreset, bool) {
	for _, p := range s.DiscountPresets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			preset := p
			return &preset, true
		}
	}
	return nil, false
}

func (s *service) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

func (s *service) Get(ctx context.Context, tx *gorm.DB) (*models.RestaurantSettings, error) {
	var row models.RestaurantSettings
	err := s.conn(ctx, tx).Where("id = ?", models.SettingsRowID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.fallback(), nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
	}
	if row.DiscountPresets == nil {
		row.DiscountPresets = []types.DiscountPreset{}
	}
	return &row, nil
}

func (s *service) fallback() *models.RestaurantSettings {
	return &models.RestaurantSettings{
		ID:              models.SettingsRowID,
		TaxRate:         decimal.NewFromFloat(s.defaults.TaxRate),
		TaxEnabled:      s.defaults.TaxEnabled,
		Currency:        s.defaults.Currency,
		DiscountPresets: []types.DiscountPreset{},
	}
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.RestaurantSettings, error) {
	var saved *models.RestaurantSettings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.Get(ctx, tx)
		if err != nil {
			return err
		}
		if err := apply(current, input); err != nil {
			return err
		}
		current.ID = models.SettingsRowID
		if err := tx.Save(current).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save settings")
		}
		saved = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func apply(current *models.RestaurantSettings, input UpdateInput) error {
	if input.TaxRate != nil {
		rate := *input.TaxRate
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be between 0 and 100").
				WithDetails(map[string]any{"taxRate": rate.String()})
		}
		current.TaxRate = rate
	}
	if input.TaxEnabled != nil {
		current.TaxEnabled = *input.TaxEnabled
	}
	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if !currencyPattern.MatchString(currency) {
			return pkgerrors.New(pkgerrors.CodeValidation, "currency must be a three-letter code").
				WithDetails(map[string]any{"currency": *input.Currency})
		}
		current.Currency = currency
	}
	if input.DiscountPresets != nil {
		presets, err := validatePresets(*input.DiscountPresets)
		if err != nil {
			return err
		}
		current.DiscountPresets = presets
	}
	return nil
}

func validatePresets(presets []types.DiscountPreset) ([]types.DiscountPreset, error) {
	seen := make(map[string]struct{}, len(presets))
	out := make([]types.DiscountPreset, 0, len(presets))
	for _, p := range presets {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount preset name required")
		}
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate discount preset").
				WithDetails(map[string]any{"name": p.Name})
		}
		seen[key] = struct{}{}
		if err := pricing.ValidateDiscount(p.Discount()); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
