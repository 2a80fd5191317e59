package assets

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patrimonio-cl/console-activos/internal/application/dto"
	"github.com/patrimonio-cl/console-activos/internal/domain"
	"github.com/patrimonio-cl/console-activos/internal/domain/entity"
	"github.com/patrimonio-cl/console-activos/pkg/rut"
)

// rutCanonical forma canónica exigida tras normalizar: 7 u 8 dígitos, guión,
// dígito verificador.
var rutCanonical = regexp.MustCompile(`^\d{7,8}-[\dK]$`)

// validateAssetInput valida el formulario de creación/edición y arma el
// payload tipado. Todo falla aquí, en el cliente, antes de tocar la red.
func validateAssetInput(in dto.AssetInput) (*dto.CreateAssetRequest, error) {
	var errs domain.ValidationErrors

	addErr := func(field, msg string) {
		errs = append(errs, &domain.ValidationError{Field: field, Message: msg})
	}

	if in.EstablishmentID <= 0 {
		addErr("establishmentId", "seleccione un establecimiento")
	}
	if in.DependencyID <= 0 {
		addErr("dependencyId", "seleccione una dependencia")
	}
	if in.AssetTypeID <= 0 {
		addErr("assetTypeId", "seleccione un tipo de activo")
	}
	if in.AssetStateID <= 0 {
		addErr("assetStateId", "seleccione un estado")
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(in.Quantity))
	if err != nil || quantity <= 0 {
		addErr("quantity", "la cantidad debe ser un entero positivo")
	}

	value, err := decimal.NewFromString(strings.TrimSpace(in.AcquisitionValue))
	if err != nil || !value.GreaterThan(decimal.Zero) {
		addErr("acquisitionValue", "el valor de adquisición debe ser mayor que cero")
	}

	var date time.Time
	if strings.TrimSpace(in.AcquisitionDate) != "" {
		date, err = time.Parse("2006-01-02", strings.TrimSpace(in.AcquisitionDate))
		if err != nil {
			addErr("acquisitionDate", "fecha inválida (se espera AAAA-MM-DD)")
		}
	}

	if strings.TrimSpace(in.AccountingAccount) == "" {
		addErr("accountingAccount", "la cuenta contable es obligatoria")
	}

	// Debe venir una referencia de catálogo o un nombre explícito.
	if in.CatalogItemID == nil && strings.TrimSpace(in.Name) == "" {
		addErr("name", "indique un artículo del catálogo o un nombre")
	}

	var responsible *entity.ResponsibleParty
	if in.Responsible != nil {
		formatted, ferr := rut.Format(in.Responsible.RUT)
		switch {
		case ferr != nil || !rutCanonical.MatchString(formatted):
			addErr("responsible.rut", "RUT inválido")
		case rut.Validate(in.Responsible.RUT) != nil:
			addErr("responsible.rut", "dígito verificador del RUT inválido")
		default:
			responsible = &entity.ResponsibleParty{
				Name:       strings.TrimSpace(in.Responsible.Name),
				RUT:        formatted,
				Role:       strings.TrimSpace(in.Responsible.Role),
				CostCenter: strings.TrimSpace(in.Responsible.CostCenter),
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &dto.CreateAssetRequest{
		EstablishmentID:   in.EstablishmentID,
		DependencyID:      in.DependencyID,
		AssetTypeID:       in.AssetTypeID,
		AssetStateID:      in.AssetStateID,
		Name:              strings.TrimSpace(in.Name),
		CatalogItemID:     in.CatalogItemID,
		Quantity:          quantity,
		AccountingAccount: strings.TrimSpace(in.AccountingAccount),
		AcquisitionValue:  value,
		AcquisitionDate:   date,
		Responsible:       responsible,
	}, nil
}

// validateEvidence guard local compartido por traslado, cambio de estado y
// restauración: archivo presente y de tipo permitido.
func validateEvidence(file *entity.EvidenceFile) error {
	if file == nil || len(file.Content) == 0 {
		return domain.ErrEvidenceRequired
	}
	if !entity.IsAllowedEvidenceFile(file.Name) {
		return &domain.ValidationError{Field: "file", Message: "solo se aceptan archivos PDF, JPG o PNG"}
	}
	return nil
}
