package forcedelete

import "fmt"

// Clases de entidad que comparten el flujo de borrado definitivo.
const (
	KindInstitution   = "institution"
	KindEstablishment = "establishment"
	KindDependency    = "dependency"
	KindUser          = "user"
	KindCatalogItem   = "catalogItem"
	KindAsset         = "asset"
)

// kindPaths prefijo de ruta por clase de entidad.
var kindPaths = map[string]string{
	KindInstitution:   "/institutions",
	KindEstablishment: "/establishments",
	KindDependency:    "/dependencies",
	KindUser:          "/users",
	KindCatalogItem:   "/catalog-items",
	KindAsset:         "/assets",
}

// TargetFor arma el Target de una clase de entidad e id concretos.
// Las seis clases comparten el contrato {summaryPath, forcePath, reload}.
func TargetFor(kind string, id int64, reload ReloadFunc) (Target, error) {
	prefix, ok := kindPaths[kind]
	if !ok {
		return Target{}, fmt.Errorf("force-delete: clase de entidad desconocida %q", kind)
	}
	return Target{
		Kind:        kind,
		SummaryPath: fmt.Sprintf("%s/%d/delete-summary", prefix, id),
		ForcePath:   fmt.Sprintf("%s/%d/force", prefix, id),
		Reload:      reload,
	}, nil
}
