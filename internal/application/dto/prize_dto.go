package dto

import "github.com/jhoicas/gacha-api/internal/domain/entity"

// CreatePrizeRequest entrada para crear un premio.
// TotalStock y Order son opcionales: sin TotalStock se usa Stock; sin Order se asigna al final.
type CreatePrizeRequest struct {
	Name        string   `json:"name" validate:"required,min=1"`
	ImageURL    string   `json:"imageUrl"`
	Description string   `json:"description"`
	Stock       int      `json:"stock"`
	TotalStock  *int     `json:"totalStock"`
	Order       *float64 `json:"order"`
}

// UpdatePrizeRequest actualización parcial por ID; los campos nil conservan el valor previo.
type UpdatePrizeRequest struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	ImageURL    *string  `json:"imageUrl"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"`
	TotalStock  *int     `json:"totalStock"`
	Order       *float64 `json:"order"`
}

// DecrementResponse salida de un descuento de stock.
type DecrementResponse struct {
	ID    string `json:"id"`
	Stock int    `json:"stock"`
}

// DrawResponse resultado de un sorteo en el kiosco.
type DrawResponse struct {
	Prize          entity.Prize `json:"prize"`
	RemainingStock int          `json:"remainingStock"`
}

// UserErrorDTO error legible para el usuario final (nunca el error técnico crudo).
type UserErrorDTO struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// InitResultDTO resultado de la carga inicial de datos.
type InitResultDTO struct {
	Loaded  int           `json:"loaded"`
	Cleared bool          `json:"cleared"`
	Remote  bool          `json:"remote"`
	Error   *UserErrorDTO `json:"error,omitempty"`
}
