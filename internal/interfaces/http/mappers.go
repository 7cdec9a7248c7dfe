package http

import (
	"time"

	"github.com/jhoicas/Seguros-api/internal/application/dto"
	"github.com/jhoicas/Seguros-api/internal/application/policies"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

func formatDate(t time.Time) string { return t.Format(time.DateOnly) }

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func toPaymentResponse(v policies.PaymentView) dto.PaymentResponse {
	p := v.Payment
	return dto.PaymentResponse{
		ID:                p.ID,
		PolicyID:          p.PolicyID,
		InstallmentNumber: p.InstallmentNumber,
		DueDate:           formatDate(p.DueDate),
		Amount:            p.Amount,
		Status:            string(p.Status),
		EffectiveStatus:   string(v.EffectiveStatus),
		PaidAt:            p.PaidAt,
		Method:            p.Method,
		Reference:         p.Reference,
		AnnulReason:       p.AnnulReason,
	}
}

func toPolicyResponse(d *policies.Detail) dto.PolicyResponse {
	p := d.Policy
	out := dto.PolicyResponse{
		ID:                   p.ID,
		CompanyID:            p.CompanyID,
		ClientID:             p.ClientID,
		InsurerID:            p.InsurerID,
		InsuranceTypeID:      p.InsuranceTypeID,
		PolicyNumber:         p.PolicyNumber,
		StartDate:            formatDate(p.StartDate),
		EndDate:              formatDate(p.EndDate),
		Premium:              p.Premium,
		NumberOfInstallments: p.NumberOfInstallments,
		Status:               string(p.Status),
		EffectiveStatus:      string(d.EffectiveStatus),
		AutoRenew:            p.AutoRenew,
		CommissionRate:       p.CommissionRate,
		Beneficiary:          p.Beneficiary,
		PredecessorID:        p.PredecessorID,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	for _, pv := range d.Payments {
		out.Payments = append(out.Payments, toPaymentResponse(pv))
	}
	return out
}

func toCommissionResponse(c *entity.Commission) dto.CommissionResponse {
	return dto.CommissionResponse{
		ID:            c.ID,
		PolicyID:      c.PolicyID,
		ProducerID:    c.ProducerID,
		PremiumAmount: c.PremiumAmount,
		Rate:          c.Rate,
		Amount:        c.Amount,
		Period:        c.Period,
		Status:        string(c.Status),
		PaidAt:        c.PaidAt,
		CreatedAt:     c.CreatedAt,
	}
}

func toRuleResponse(r *entity.CommissionRule) dto.CommissionRuleResponse {
	return dto.CommissionRuleResponse{
		ID:              r.ID,
		InsurerID:       r.InsurerID,
		InsuranceTypeID: r.InsuranceTypeID,
		Rate:            r.Rate,
		EffectiveFrom:   formatDate(r.EffectiveFrom),
		EffectiveTo:     formatOptionalDate(r.EffectiveTo),
	}
}

func toRenewalResponse(r *entity.Renewal) dto.RenewalResponse {
	return dto.RenewalResponse{
		ID:                r.ID,
		PolicyID:          r.PolicyID,
		OriginalEndDate:   formatDate(r.OriginalEndDate),
		NewEndDate:        formatOptionalDate(r.NewEndDate),
		NewPremium:        r.NewPremium,
		SuccessorPolicyID: r.SuccessorPolicyID,
		Status:            string(r.Status),
		Notes:             r.Notes,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toPermissionResponse(p entity.ModulePermission) dto.PermissionResponse {
	return dto.PermissionResponse{
		Role:      string(p.Role),
		Module:    string(p.Module),
		CanView:   p.CanView,
		CanCreate: p.CanCreate,
		CanEdit:   p.CanEdit,
		CanDelete: p.CanDelete,
	}
}
