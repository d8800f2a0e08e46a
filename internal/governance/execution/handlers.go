package execution

import (
	"context"
	"log/slog"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
)

// NewDefaultRegistry returns a registry with the standard parameter-write
// handler installed for every change type each domain allows. Callers can
// Register over individual pairs to hook domain-specific side effects.
func NewDefaultRegistry(store ParamStore, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	registry := NewRegistry()
	for _, domain := range models.Domains() {
		for _, changeType := range models.AllowedChangeTypes(domain) {
			registry.Register(domain, changeType, paramWriteHandler(store, logger))
		}
	}
	return registry
}

// paramWriteHandler persists the change's new value under its parameter
// name. This is the common case: most governed settings are plain key-value
// configuration read live by the owning service.
func paramWriteHandler(store ParamStore, logger *slog.Logger) Handler {
	return HandlerFunc(func(ctx context.Context, rec *models.ChangeRecord) error {
		if err := store.SetParameter(ctx, rec.Domain, rec.ParameterName, rec.NewValue); err != nil {
			return err
		}
		logger.InfoContext(ctx, "applied configuration change",
			"domain", rec.Domain.String(),
			"change_type", rec.ChangeType.String(),
			"parameter", rec.ParameterName,
			"change_id", uint64(rec.ID))
		return nil
	})
}
