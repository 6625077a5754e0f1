package query

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int
}

// Clamp ajusta Limit a [1, max] (defaultLimit si no viene) y Offset a >= 0.
func (p OffsetPagination) Clamp(defaultLimit, max int) OffsetPagination {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
