package dto

type CreateReferenceDTO struct {
	Name string `json:"name" validate:"required"`
}

type UpdateReferenceDTO struct {
	Name string `json:"name" validate:"required"`
}
