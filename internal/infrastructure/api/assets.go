package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/patrimonio-cl/console-activos/internal/application/dto"
	"github.com/patrimonio-cl/console-activos/internal/domain/entity"
)

// AssetService endpoints de activos consumidos por el motor de ciclo de vida.
type AssetService struct {
	client *Client
}

// NewAssetService construye el servicio de activos sobre el cliente.
func NewAssetService(c *Client) *AssetService {
	return &AssetService{client: c}
}

// CreateAsset registra un activo nuevo; el servidor asigna el código interno.
func (s *AssetService) CreateAsset(ctx context.Context, req dto.CreateAssetRequest) (*entity.Asset, error) {
	var out entity.Asset
	if err := s.client.Request(ctx, http.MethodPost, "/assets", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAsset actualiza los atributos editables de un activo.
func (s *AssetService) UpdateAsset(ctx context.Context, id int64, req dto.CreateAssetRequest) (*entity.Asset, error) {
	var out entity.Asset
	path := fmt.Sprintf("/assets/%d", id)
	if err := s.client.Request(ctx, http.MethodPut, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAsset trae el registro autoritativo del activo (se usa también para la
// reconciliación tras un 409).
func (s *AssetService) GetAsset(ctx context.Context, id int64) (*entity.Asset, error) {
	var out entity.Asset
	path := fmt.Sprintf("/assets/%d", id)
	if err := s.client.Request(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAssets lista activos con paginación acotada.
func (s *AssetService) ListAssets(ctx context.Context, page dto.PageRequest) (*dto.AssetListResponse, error) {
	page.DefaultPage()
	var out dto.AssetListResponse
	if err := s.client.RequestQuery(ctx, http.MethodGet, "/assets", PageQuery(page.Take, page.Skip), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Relocate reubica el activo en otra dependencia del mismo establecimiento.
func (s *AssetService) Relocate(ctx context.Context, id, toDependencyID int64) (*entity.Asset, error) {
	var out entity.Asset
	path := fmt.Sprintf("/assets/%d/relocate", id)
	if err := s.client.Request(ctx, http.MethodPut, path, dto.RelocateRequest{ToDependencyID: toDependencyID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transfer traslada el activo a otro establecimiento (multipart con evidencia).
func (s *AssetService) Transfer(ctx context.Context, id int64, in dto.TransferInput) (*entity.Asset, error) {
	form := NewForm()
	form.Set("toEstablishmentId", strconv.FormatInt(in.ToEstablishmentID, 10))
	form.Set("toDependencyId", strconv.FormatInt(in.ToDependencyID, 10))
	form.Set("reasonCode", in.ReasonCode)
	form.Set("docType", in.DocType)
	form.Set("note", in.Note)
	if in.File != nil {
		form.AddFile("file", in.File.Name, in.File.Content)
	}
	var out entity.Asset
	path := fmt.Sprintf("/assets/%d/transfer", id)
	if err := s.client.RequestMultipart(ctx, http.MethodPut, path, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeStatus cambia el estado del activo (multipart con evidencia).
func (s *AssetService) ChangeStatus(ctx context.Context, id int64, in dto.StatusChangeInput) (*entity.Asset, error) {
	form := NewForm()
	form.Set("assetStateId", strconv.FormatInt(in.AssetStateID, 10))
	form.Set("reasonCode", in.ReasonCode)
	form.Set("docType", in.DocType)
	form.Set("note", in.Note)
	if in.File != nil {
		form.AddFile("file", in.File.Name, in.File.Content)
	}
	var out entity.Asset
	path := fmt.Sprintf("/assets/%d/status", id)
	if err := s.client.RequestMultipart(ctx, http.MethodPut, path, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Restore reactiva un activo dado de baja (multipart con evidencia).
func (s *AssetService) Restore(ctx context.Context, id int64, in dto.RestoreInput) (*entity.Asset, error) {
	form := NewForm()
	form.Set("reasonCode", in.ReasonCode)
	form.Set("docType", in.DocType)
	form.Set("note", in.Note)
	if in.File != nil {
		form.AddFile("file", in.File.Name, in.File.Content)
	}
	var out entity.Asset
	path := fmt.Sprintf("/assets/%d/restore", id)
	if err := s.client.RequestMultipart(ctx, http.MethodPut, path, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReasonCodes trae el catálogo de motivos agrupado por familia.
func (s *AssetService) ReasonCodes(ctx context.Context) (*entity.ReasonCodeCatalog, error) {
	var out entity.ReasonCodeCatalog
	if err := s.client.Request(ctx, http.MethodGet, "/assets/reason-codes", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Movements lista los movimientos históricos de un activo.
func (s *AssetService) Movements(ctx context.Context, id int64, page dto.PageRequest) ([]entity.Movement, error) {
	page.DefaultPage()
	var out struct {
		Items []entity.Movement `json:"items"`
	}
	path := fmt.Sprintf("/assets/%d/movements", id)
	if err := s.client.RequestQuery(ctx, http.MethodGet, path, PageQuery(page.Take, page.Skip), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// DownloadLabel descarga la etiqueta del activo al directorio de descargas.
func (s *AssetService) DownloadLabel(ctx context.Context, id int64, filename string) (string, error) {
	path := fmt.Sprintf("/assets/%d/label", id)
	return s.client.Download(ctx, path, filename)
}
