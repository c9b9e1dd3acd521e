package user

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesa-desk/mesa/internal/model"
)

func TestCreateUserInput_Validate(t *testing.T) {
	valid := CreateUserInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Login:    "alice",
		Password: "s3cret-pass",
	}

	tests := []struct {
		name    string
		mutate  func(in *CreateUserInput)
		wantErr string
	}{
		{name: "valid", mutate: func(in *CreateUserInput) {}},
		{
			name:    "missing name",
			mutate:  func(in *CreateUserInput) { in.Name = " " },
			wantErr: "name is required",
		},
		{
			name:    "bad email",
			mutate:  func(in *CreateUserInput) { in.Email = "not-an-email" },
			wantErr: "email is not a valid address",
		},
		{
			name:    "short login",
			mutate:  func(in *CreateUserInput) { in.Login = "ab" },
			wantErr: "login must be at least 3 characters",
		},
		{
			name:    "short password",
			mutate:  func(in *CreateUserInput) { in.Password = "1234567" },
			wantErr: "password must be at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			err := input.Validate()
			if tt.wantErr != "" {
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
