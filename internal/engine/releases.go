package engine

import (
	"context"
	"math/big"
	"sort"

	apierrors "github.com/kutbudev/aha-mcp/internal/errors"
	"github.com/kutbudev/aha-mcp/internal/models"
	"github.com/kutbudev/aha-mcp/internal/pagination"
)

// GetReleases returns every release of a product, ordered by id. An empty
// productID falls back to the configured product.
func (e *Engine) GetReleases(ctx context.Context, productID string) ([]models.Release, error) {
	if productID == "" {
		productID = e.cfg.ProductID
	}
	if productID == "" {
		return nil, apierrors.InvalidParams("Product ID is required. Pass productId or set AHA_PRODUCT_ID")
	}

	releases, err := pagination.Drain(ctx, func(ctx context.Context, page int) (*pagination.Page[models.Release], error) {
		return e.up.ListReleases(ctx, productID, page)
	})
	if err != nil {
		return nil, e.wrap("fetch releases", err)
	}
	SortReleases(releases)
	return releases, nil
}

// SortReleases orders releases by numeric id ascending. Ids exceed 64-bit
// range so they are compared as big integers; ids that are not numbers sort
// after all numeric ones, in string order.
func SortReleases(releases []models.Release) {
	keys := make(map[string]*big.Int, len(releases))
	for _, r := range releases {
		if n, ok := new(big.Int).SetString(r.ID, 10); ok {
			keys[r.ID] = n
		}
	}
	sort.SliceStable(releases, func(i, j int) bool {
		a, aok := keys[releases[i].ID]
		b, bok := keys[releases[j].ID]
		switch {
		case aok && bok:
			return a.Cmp(b) < 0
		case aok != bok:
			return aok
		default:
			return releases[i].ID < releases[j].ID
		}
	})
}
