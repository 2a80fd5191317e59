package assets

import (
	"context"

	"github.com/patrimonio-cl/console-activos/internal/application/dto"
	"github.com/patrimonio-cl/console-activos/internal/domain/entity"
)

// API puerto hacia el servicio remoto de activos. Lo implementa
// infrastructure/api.AssetService; los tests usan un fake.
type API interface {
	CreateAsset(ctx context.Context, req dto.CreateAssetRequest) (*entity.Asset, error)
	UpdateAsset(ctx context.Context, id int64, req dto.CreateAssetRequest) (*entity.Asset, error)
	GetAsset(ctx context.Context, id int64) (*entity.Asset, error)
	ListAssets(ctx context.Context, page dto.PageRequest) (*dto.AssetListResponse, error)
	Relocate(ctx context.Context, id, toDependencyID int64) (*entity.Asset, error)
	Transfer(ctx context.Context, id int64, in dto.TransferInput) (*entity.Asset, error)
	ChangeStatus(ctx context.Context, id int64, in dto.StatusChangeInput) (*entity.Asset, error)
	Restore(ctx context.Context, id int64, in dto.RestoreInput) (*entity.Asset, error)
	ReasonCodes(ctx context.Context) (*entity.ReasonCodeCatalog, error)
}

// Session lo que el motor necesita saber de la sesión: quién opera.
type Session interface {
	CurrentUser() *entity.User
}
