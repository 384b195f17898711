package dto

type RegisterDTO struct {
	FirstName string `json:"firstName" validate:"required,max=100,name_spacial_char"`
	LastName  string `json:"lastName" validate:"required,max=100,name_spacial_char"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,max=128"`
	Role      string `json:"role" validate:"required,oneof=student hr admin"`
	Image     string `json:"image" validate:"required"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
	Image    string `json:"image" validate:"required"`
}

type LoginResponseDTO struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type MessageResponseDTO struct {
	Message string `json:"message"`
}

type MeResponseDTO struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
