package entity

// Estados comunes para materias primas, productos, líneas de receta y detalles de compra.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
