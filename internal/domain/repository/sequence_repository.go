package repository

// SequenceRepository puerto del contador de consecutivos por familia de orden
// ("SO", "PO", "TR"). Next incrementa y devuelve el nuevo valor tomando un
// bloqueo de fila, por lo que es linealizable por familia dentro de la
// transacción que lo invoque: dos commits concurrentes de la misma familia
// nunca observan el mismo valor. El contador nunca decrementa (los huecos por
// rollbacks o borrados se toleran sin reutilizar números).
type SequenceRepository interface {
	Next(family string) (int64, error)
	Current(family string) (int64, error)
}
