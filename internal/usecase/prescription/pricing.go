package prescription

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	domain "github.com/BruksfildServices01/clinic-server/internal/domain/prescription"
)

// ResolvePrice looks the medicine up by exact name, then by substring in
// either direction, and falls back to def.
func ResolvePrice(
	ctx context.Context,
	repo domain.Repository,
	name string,
	def float64,
) (float64, domain.PriceSource, error) {

	name = strings.TrimSpace(name)

	m, err := repo.MedicineByName(ctx, name)
	if err == nil {
		return m.Price, domain.PriceExact, nil
	}
	if !apperr.IsNotFound(err) {
		return 0, "", err
	}

	if name != "" {
		m, err = repo.MedicineLike(ctx, name)
		if err == nil {
			return m.Price, domain.PriceSubstring, nil
		}
		if !apperr.IsNotFound(err) {
			return 0, "", err
		}
	}

	return def, domain.PriceDefault, nil
}
