package validator

import (
	"testing"

	"facegate.io/application/controller/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() dto.RegisterDTO {
	return dto.RegisterDTO{
		FirstName: "Ada",
		LastName:  "O'Neil-Smith",
		Email:     "ada@x.com",
		Password:  "p",
		Role:      "student",
		Image:     "aGVsbG8=",
	}
}

func TestValidateRegisterDTO(t *testing.T) {
	payload := validRegister()
	assert.Nil(t, ValidatorInstance.ValidateStruct(&payload))

	tests := []struct {
		name   string
		mutate func(*dto.RegisterDTO)
		want   string
	}{
		{name: "missing first name", mutate: func(p *dto.RegisterDTO) { p.FirstName = "" }, want: "firstName is required"},
		{name: "digits in name", mutate: func(p *dto.RegisterDTO) { p.LastName = "R2D2" }, want: "lastName may only contain"},
		{name: "bad email", mutate: func(p *dto.RegisterDTO) { p.Email = "nope" }, want: "email must be a valid email address"},
		{name: "unknown role", mutate: func(p *dto.RegisterDTO) { p.Role = "root" }, want: "role must be one of"},
		{name: "missing image", mutate: func(p *dto.RegisterDTO) { p.Image = "" }, want: "image is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validRegister()
			tt.mutate(&payload)
			errs := ValidatorInstance.ValidateStruct(&payload)
			require.NotNil(t, errs)
			require.Len(t, *errs, 1)
			assert.Contains(t, (*errs)[0].Error(), tt.want)
		})
	}
}

func TestValidateLoginDTO(t *testing.T) {
	errs := ValidatorInstance.ValidateStruct(&dto.LoginDTO{})
	require.NotNil(t, errs)
	assert.Len(t, *errs, 3)
}

func TestValidateValue(t *testing.T) {
	assert.NoError(t, ValidatorInstance.ValidateValue("hr", "oneof=student hr admin"))
	assert.Error(t, ValidatorInstance.ValidateValue("ceo", "oneof=student hr admin"))
}
