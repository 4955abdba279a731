package auth

import (
	"markiz-admin/types"
)

// RegisterRequest creates a new account. Registration never logs the caller
// in; a token is only issued by an explicit login.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=3,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Password string `json:"password" validate:"required,min=8"`
	Confirm  string `json:"confirm" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=ADMIN TEACHER STUDENT PARENT"`
}

func (r *RegisterRequest) Validate() error {
	return types.ValidateStruct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return types.ValidateStruct(r)
}

// ChangePasswordRequest requires proof of the current password before a new
// one is accepted.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
	Confirm     string `json:"confirm" validate:"required"`
}

func (r *ChangePasswordRequest) Validate() error {
	return types.ValidateStruct(r)
}

type UpdateSelfRequest struct {
	FullName string `json:"full_name" validate:"required,min=3,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
}

func (r *UpdateSelfRequest) Validate() error {
	return types.ValidateStruct(r)
}

type UpdateByAdminRequest struct {
	ID       uint   `json:"id" validate:"required"`
	FullName string `json:"full_name" validate:"required,min=3,max=255"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Role     string `json:"role" validate:"required,oneof=ADMIN TEACHER STUDENT PARENT"`
}

func (r *UpdateByAdminRequest) Validate() error {
	return types.ValidateStruct(r)
}

type ChangeNameRequest struct {
	FullName string `json:"full_name" validate:"required,min=3,max=255"`
}

func (r *ChangeNameRequest) Validate() error {
	return types.ValidateStruct(r)
}

type ChangeRoleRequest struct {
	ID   uint   `json:"id" validate:"required"`
	Role string `json:"role" validate:"required,oneof=ADMIN TEACHER STUDENT PARENT"`
}

func (r *ChangeRoleRequest) Validate() error {
	return types.ValidateStruct(r)
}

type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgetPasswordRequest) Validate() error {
	return types.ValidateStruct(r)
}

// VerifyResetRequest is the second step of the reset flow: it proves control
// of the emailed code before any password changes.
type VerifyResetRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

func (r *VerifyResetRequest) Validate() error {
	return types.ValidateStruct(r)
}

// ResetPasswordRequest is the third step; it only succeeds when the most
// recent reset code for the account has been verified.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
	Confirm     string `json:"confirm" validate:"required"`
}

func (r *ResetPasswordRequest) Validate() error {
	return types.ValidateStruct(r)
}

type SendMessageRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (r *SendMessageRequest) Validate() error {
	return types.ValidateStruct(r)
}
