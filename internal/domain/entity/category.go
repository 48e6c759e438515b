package entity

// Category agrupa productos para catálogo y reportes.
type Category struct {
	ID          string
	Name        string
	Description string
}
