package driven

import (
	"context"
	"errors"

	"github.com/cosplayangola/acervo/internal/domain/model"
)

// ErrPartnerNotFound indicates the requested partner does not exist.
var ErrPartnerNotFound = errors.New("partner not found")

// PartnerStore defines the driven port for partner persistence.
// ListAll with activeOnly set skips deactivated partners.
type PartnerStore interface {
	Create(ctx context.Context, partner model.Partner) error
	GetByID(ctx context.Context, id string) (*model.Partner, error)
	ListAll(ctx context.Context, activeOnly bool) ([]model.Partner, error)
	Update(ctx context.Context, partner model.Partner) error
	Delete(ctx context.Context, id string) error
}
