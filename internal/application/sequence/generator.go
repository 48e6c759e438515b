package sequence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tu-usuario/multistock/internal/domain"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// Familias de orden. Ventas y traslados comparten tabla pero numeran desde
// secuencias disjuntas; compras tienen la suya.
const (
	FamilySale     = "SO"
	FamilyPurchase = "PO"
	FamilyTransfer = "TR"
)

// Generator acuña el siguiente identificador de orden para una familia.
// El valor viene de un contador dedicado por familia persistido en la misma
// transacción que la mutación del libro: si la transacción se aborta, el
// incremento se revierte y el número no se consume. El contador nunca
// decrementa, así que los huecos por filas borradas se toleran sin colisiones.
type Generator struct{}

// NewGenerator construye el generador.
func NewGenerator() *Generator {
	return &Generator{}
}

// Next incrementa el contador de la familia usando el repositorio del caller
// (misma transacción) y devuelve el id formateado, ej. "SO-0001".
func (g *Generator) Next(seqRepo repository.SequenceRepository, family string) (string, error) {
	if !validFamily(family) {
		return "", domain.ErrInvalidInput
	}
	n, err := seqRepo.Next(family)
	if err != nil {
		return "", err
	}
	return Format(family, n), nil
}

// Format produce el identificador legible: prefijo + número con relleno de
// ceros a 4 dígitos (crece naturalmente más allá de 9999).
func Format(family string, n int64) string {
	return fmt.Sprintf("%s-%04d", family, n)
}

// ParseSuffix extrae el sufijo numérico de un order id de la familia dada.
// Devuelve false si el prefijo no coincide o el sufijo no es numérico
// (ids heredados malformados no aportan al consecutivo).
func ParseSuffix(family, orderID string) (int64, bool) {
	prefix := family + "-"
	if !strings.HasPrefix(orderID, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(orderID[len(prefix):], 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func validFamily(family string) bool {
	switch family {
	case FamilySale, FamilyPurchase, FamilyTransfer:
		return true
	}
	return false
}
