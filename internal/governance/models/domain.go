package models

import (
	dErrors "github.com/realassetcoin-RAC/ignite-rewards/pkg/domain-errors"
)

// Domain is the parameter category a change belongs to. Each domain carries
// its own change-type allow-list and its own id counter.
type Domain string

const (
	DomainLoyalty     Domain = "loyalty"
	DomainMerchant    Domain = "merchant"
	DomainIntegration Domain = "integration"
)

var validDomains = map[Domain]bool{
	DomainLoyalty:     true,
	DomainMerchant:    true,
	DomainIntegration: true,
}

// Domains lists all governed domains in a stable order.
func Domains() []Domain {
	return []Domain{DomainLoyalty, DomainMerchant, DomainIntegration}
}

// ParseDomain constructs a Domain from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unknown.
func ParseDomain(s string) (Domain, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "domain cannot be empty")
	}
	d := Domain(s)
	if !validDomains[d] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown governance domain")
	}
	return d, nil
}

func (d Domain) String() string {
	return string(d)
}

// ProposalKind returns the proposal kind a change from this domain escalates
// into.
func (d Domain) ProposalKind() ProposalKind {
	switch d {
	case DomainMerchant:
		return ProposalKindMerchantChange
	case DomainIntegration:
		return ProposalKindIntegrationChange
	default:
		return ProposalKindLoyaltyChange
	}
}
