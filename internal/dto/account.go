package dto

import (
	"github.com/tonvq/ketoan_backend/internal/core/domain"
)

// CreateAccountRequest defines the payload for adding a chart-of-accounts
// entry. The level is derived from the parent, not supplied by the caller.
type CreateAccountRequest struct {
	Code       string               `json:"code" binding:"required,max=10"`
	Name       string               `json:"name" binding:"required,max=255"`
	Class      domain.AccountClass  `json:"class" binding:"required,oneof=ASSET LIABILITY_EQUITY REVENUE EXPENSE OFF_BALANCE"`
	ParentCode *string              `json:"parentCode"`
	Nature     domain.AccountNature `json:"nature" binding:"required,oneof=DEBIT CREDIT COMPUTED"`
	Postable   bool                 `json:"postable"`
}

// UpdateAccountRequest defines the mutable fields of an account.
// Code, class, level, parent and nature are immutable identifiers.
type UpdateAccountRequest struct {
	Name     *string `json:"name"`
	Postable *bool   `json:"postable"`
	IsActive *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Class      string  `json:"class"`
	Level      int16   `json:"level"`
	ParentCode *string `json:"parentCode"`
	Nature     string  `json:"nature"`
	Postable   bool    `json:"postable"`
	IsActive   bool    `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Code:       a.Code,
		Name:       a.Name,
		Class:      string(a.Class),
		Level:      a.Level,
		ParentCode: a.ParentCode,
		Nature:     string(a.Nature),
		Postable:   a.Postable,
		IsActive:   a.IsActive,
	}
}

// ToAccountResponses converts a slice of domain.Account to []AccountResponse.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
