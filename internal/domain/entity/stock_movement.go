package entity

import "time"

// Acciones registradas en el log de movimientos.
const (
	ActionAdd         = "ADD"          // entrada manual / carga masiva
	ActionRemove      = "REMOVE"       // salida manual
	ActionSale        = "SALE"         // venta
	ActionPurchase    = "PURCHASE"     // compra
	ActionAdjust      = "ADJUST"       // ajuste
	ActionTransferOut = "TRANSFER_OUT" // traslado: salida en tienda origen
	ActionTransferIn  = "TRANSFER_IN"  // traslado: entrada en tienda destino
)

// StockMovement es un hecho inmutable del log de movimientos: un delta con
// signo aplicado a una fila (tienda, producto), con actor, acción y motivo.
// Solo se agrega, nunca se modifica; el orden por CreatedAt con desempate por
// Seq define la pista de auditoría. Invariante: la cantidad de cada StockEntry
// es igual a la suma de los deltas de su par (tienda, producto).
type StockMovement struct {
	ID        string
	Seq       int64 // orden de inserción, asignado por el almacenamiento
	ProductID string
	StoreID   string
	Actor     string // id del usuario que originó el movimiento (vacío = sistema)
	Action    string
	Delta     int64 // cambio con signo: positivo entrada, negativo salida
	Reason    string
	CreatedAt time.Time
}
