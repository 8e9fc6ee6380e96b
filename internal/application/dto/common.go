package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Missing []ShortfallDTO    `json:"missing,omitempty"` // INSUFFICIENT_STOCK
	Fields  map[string]string `json:"fields,omitempty"`  // VALIDATION: campo -> regla
}

// ShortfallDTO faltante de una materia prima.
type ShortfallDTO struct {
	MaterialID string `json:"material_id"`
	Requested  int64  `json:"requested"`
	Available  int64  `json:"available"`
	Missing    int64  `json:"missing"`
}
