package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/imranmdl/tile-granite-management-sub002/internal/config"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/entity"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/apperror"
)

// EngineSettings is the typed configuration an operation runs with. It is
// loaded once per operation and passed down explicitly.
type EngineSettings struct {
	DefaultCommissionPct decimal.Decimal `json:"commission_default_pct"`
	CostMode             enum.CostMode   `json:"cost_mode"`
	DamageWarningPct     decimal.Decimal `json:"damage_warning_pct"`
	TransportWarningPct  decimal.Decimal `json:"transport_warning_pct"`
}

// SettingsService merges stored overrides over configured defaults
type SettingsService struct {
	defaults config.EngineConfig
	repo     repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(defaults config.EngineConfig, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{defaults: defaults, repo: repo}
}

// Defaults returns the settings used when nothing is stored
func (s *SettingsService) Defaults() EngineSettings {
	return EngineSettings{
		DefaultCommissionPct: s.defaults.DefaultCommissionPct,
		CostMode:             enum.ParseCostMode(s.defaults.CostMode),
		DamageWarningPct:     s.defaults.DamageWarningPct,
		TransportWarningPct:  s.defaults.TransportWarningPct,
	}
}

// Get loads settings through the service's own repository
func (s *SettingsService) Get(ctx context.Context) (EngineSettings, error) {
	return s.Load(ctx, s.repo)
}

// Load reads overrides through repo, which may be bound to a transaction
func (s *SettingsService) Load(ctx context.Context, repo repository.SettingsRepository) (EngineSettings, error) {
	settings := s.Defaults()

	stored, err := repo.GetAll(ctx)
	if err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}

	for _, st := range stored {
		if err := settings.apply(st.Key, st.Value); err != nil {
			log.Warn().Str("key", string(st.Key)).Str("value", st.Value).Err(err).Msg("ignoring invalid setting override")
		}
	}
	return settings, nil
}

// Update validates and stores an override for one known key
func (s *SettingsService) Update(ctx context.Context, key entity.SettingKey, value string) (EngineSettings, error) {
	candidate := s.Defaults()
	if err := candidate.apply(key, value); err != nil {
		return EngineSettings{}, apperror.NewFieldError(string(key), err.Error())
	}

	if err := s.repo.Upsert(ctx, &entity.AppSetting{Key: key, Value: strings.TrimSpace(value)}); err != nil {
		return EngineSettings{}, fmt.Errorf("store setting %s: %w", key, err)
	}
	return s.Get(ctx)
}

func (e *EngineSettings) apply(key entity.SettingKey, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case entity.SettingCommissionDefaultPct:
		return setPct(&e.DefaultCommissionPct, value)
	case entity.SettingDamageWarningPct:
		return setPct(&e.DamageWarningPct, value)
	case entity.SettingTransportWarningPct:
		return setPct(&e.TransportWarningPct, value)
	case entity.SettingCostMode:
		if !strings.EqualFold(value, "simple") && !strings.EqualFold(value, "detailed") {
			return fmt.Errorf("must be simple or detailed")
		}
		e.CostMode = enum.ParseCostMode(value)
		return nil
	default:
		return fmt.Errorf("unknown setting")
	}
}

func setPct(dst *decimal.Decimal, value string) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("must be between 0 and 100")
	}
	*dst = d
	return nil
}
