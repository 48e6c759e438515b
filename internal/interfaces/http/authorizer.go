package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/multistock/internal/application/dto"
	"github.com/tu-usuario/multistock/internal/domain/entity"
)

// Capacidades de la API. Los handlers declaran QUÉ requieren; el Authorizer
// decide QUIÉN puede, lo que permite cambiar la política sin tocar rutas.
const (
	CapManageCatalog  = "catalog:manage"  // productos, categorías, tiendas
	CapAdjustStock    = "stock:adjust"    // ajustes directos / carga masiva
	CapRecordSale     = "sale:record"     // ventas
	CapRecordPurchase = "purchase:record" // compras
	CapRecordTransfer = "transfer:record" // traslados entre tiendas
	CapViewReports    = "reports:view"    // tablero y reportes
	CapManageUsers    = "users:manage"    // registro de usuarios
)

// Authorizer decide si un rol puede ejercer una capacidad.
type Authorizer interface {
	Can(role, capability string) bool
}

// RoleAuthorizer política por rol: admin todo; bodeguero opera inventario
// (compras, traslados, ajustes); vendedor opera el punto de venta.
type RoleAuthorizer struct {
	grants map[string]map[string]bool
}

// NewRoleAuthorizer construye la política por defecto.
func NewRoleAuthorizer() *RoleAuthorizer {
	return &RoleAuthorizer{
		grants: map[string]map[string]bool{
			entity.RoleAdmin: {
				CapManageCatalog:  true,
				CapAdjustStock:    true,
				CapRecordSale:     true,
				CapRecordPurchase: true,
				CapRecordTransfer: true,
				CapViewReports:    true,
				CapManageUsers:    true,
			},
			entity.RoleBodeguero: {
				CapAdjustStock:    true,
				CapRecordPurchase: true,
				CapRecordTransfer: true,
				CapViewReports:    true,
			},
			entity.RoleVendedor: {
				CapRecordSale:  true,
				CapViewReports: true,
			},
		},
	}
}

// Can indica si el rol tiene la capacidad.
func (a *RoleAuthorizer) Can(role, capability string) bool {
	caps, ok := a.grants[role]
	if !ok {
		return false
	}
	return caps[capability]
}

// RequireCapability devuelve un middleware que consulta al Authorizer con el
// rol del token. Debe usarse DESPUÉS de AuthMiddleware.
func RequireCapability(authz Authorizer, capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "rol no encontrado en el token"})
		}
		if !authz.Can(role, capability) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
		}
		return c.Next()
	}
}
