package mapping

import (
	"github.com/tonvq/ketoan_backend/internal/core/domain"
	"github.com/tonvq/ketoan_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		Code:        d.Code,
		Name:        d.Name,
		Class:       string(d.Class),
		Level:       d.Level,
		ParentCode:  d.ParentCode,
		Nature:      string(d.Nature),
		Postable:    d.Postable,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		Code:        m.Code,
		Name:        m.Name,
		Class:       domain.AccountClass(m.Class),
		Level:       m.Level,
		ParentCode:  m.ParentCode,
		Nature:      domain.AccountNature(m.Nature),
		Postable:    m.Postable,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
