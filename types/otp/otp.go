package otp

import (
	"markiz-admin/types"
)

// VerifyCodeRequest carries a submitted one-time code for the email/phone
// verification endpoints; the account comes from the bearer token.
type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

func (r *VerifyCodeRequest) Validate() error {
	return types.ValidateStruct(r)
}

// CodeResponse reports when the freshly issued code expires.
type CodeResponse struct {
	ExpiresAt string `json:"expires_at"`
}
