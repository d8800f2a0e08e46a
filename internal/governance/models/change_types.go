package models

// ChangeType names a governed configuration surface. Types are domain-scoped:
// a type is only proposable in domains whose allow-list contains it.
type ChangeType string

// Loyalty domain change types.
const (
	ChangeTypePointReleaseDelay        ChangeType = "point_release_delay"
	ChangeTypeReferralParameters       ChangeType = "referral_parameters"
	ChangeTypeNFTEarningRatios         ChangeType = "nft_earning_ratios"
	ChangeTypeLoyaltyNetworkSettings   ChangeType = "loyalty_network_settings"
	ChangeTypeMerchantLimits           ChangeType = "merchant_limits"
	ChangeTypeInactivityTimeout        ChangeType = "inactivity_timeout"
	ChangeTypeSMSOTPSettings           ChangeType = "sms_otp_settings"
	ChangeTypeSubscriptionPlans        ChangeType = "subscription_plans"
	ChangeTypeAssetInitiativeSelection ChangeType = "asset_initiative_selection"
	ChangeTypeWalletManagement         ChangeType = "wallet_management"
	ChangeTypePaymentGateway           ChangeType = "payment_gateway"
	ChangeTypeEmailNotifications       ChangeType = "email_notifications"
)

// Merchant domain change types.
const (
	ChangeTypeSubscriptionLimits       ChangeType = "subscription_limits"
	ChangeTypeTransactionEditWindow    ChangeType = "transaction_edit_window"
	ChangeTypeDiscountCodePolicies     ChangeType = "discount_code_policies"
	ChangeTypePointDistributionLimits  ChangeType = "point_distribution_limits"
	ChangeTypeMerchantVerification     ChangeType = "merchant_verification"
)

// Integration domain change types. LoyaltyNetworkSettings and SMSOTPSettings
// are shared with the loyalty domain.
const (
	ChangeTypeEmailNotificationSettings ChangeType = "email_notification_settings"
	ChangeTypePaymentGatewaySettings    ChangeType = "payment_gateway_settings"
	ChangeTypeThirdPartyAPISettings     ChangeType = "third_party_api_settings"
)

// allowedChangeTypes is the single source of truth for each domain's
// allow-list. Unknown types are rejected at propose time, not execution time.
var allowedChangeTypes = map[Domain][]ChangeType{
	DomainLoyalty: {
		ChangeTypePointReleaseDelay,
		ChangeTypeReferralParameters,
		ChangeTypeNFTEarningRatios,
		ChangeTypeLoyaltyNetworkSettings,
		ChangeTypeMerchantLimits,
		ChangeTypeInactivityTimeout,
		ChangeTypeSMSOTPSettings,
		ChangeTypeSubscriptionPlans,
		ChangeTypeAssetInitiativeSelection,
		ChangeTypeWalletManagement,
		ChangeTypePaymentGateway,
		ChangeTypeEmailNotifications,
	},
	DomainMerchant: {
		ChangeTypeSubscriptionLimits,
		ChangeTypeTransactionEditWindow,
		ChangeTypeDiscountCodePolicies,
		ChangeTypePointDistributionLimits,
		ChangeTypeMerchantVerification,
	},
	DomainIntegration: {
		ChangeTypeLoyaltyNetworkSettings,
		ChangeTypeSMSOTPSettings,
		ChangeTypeEmailNotificationSettings,
		ChangeTypePaymentGatewaySettings,
		ChangeTypeThirdPartyAPISettings,
	},
}

var displayNames = map[ChangeType]string{
	ChangeTypePointReleaseDelay:         "Point Release Delay",
	ChangeTypeReferralParameters:        "Referral Parameters",
	ChangeTypeNFTEarningRatios:          "NFT Earning Ratios",
	ChangeTypeLoyaltyNetworkSettings:    "Loyalty Network Settings",
	ChangeTypeMerchantLimits:            "Merchant Limits",
	ChangeTypeInactivityTimeout:         "Inactivity Timeout",
	ChangeTypeSMSOTPSettings:            "SMS OTP Settings",
	ChangeTypeSubscriptionPlans:         "Subscription Plans",
	ChangeTypeAssetInitiativeSelection:  "Asset Initiative Selection",
	ChangeTypeWalletManagement:          "Wallet Management",
	ChangeTypePaymentGateway:            "Payment Gateway",
	ChangeTypeEmailNotifications:        "Email Notifications",
	ChangeTypeSubscriptionLimits:        "Subscription Limits",
	ChangeTypeTransactionEditWindow:     "Transaction Edit Window",
	ChangeTypeDiscountCodePolicies:      "Discount Code Policies",
	ChangeTypePointDistributionLimits:   "Point Distribution Limits",
	ChangeTypeMerchantVerification:      "Merchant Verification",
	ChangeTypeEmailNotificationSettings: "Email Notification Settings",
	ChangeTypePaymentGatewaySettings:    "Payment Gateway Settings",
	ChangeTypeThirdPartyAPISettings:     "Third Party API Settings",
}

// AllowedChangeTypes returns the allow-list for a domain.
func AllowedChangeTypes(d Domain) []ChangeType {
	types := allowedChangeTypes[d]
	out := make([]ChangeType, len(types))
	copy(out, types)
	return out
}

// AllowedInDomain reports whether the change type may be proposed in the
// given domain.
func (t ChangeType) AllowedInDomain(d Domain) bool {
	for _, allowed := range allowedChangeTypes[d] {
		if allowed == t {
			return true
		}
	}
	return false
}

// DisplayName returns the human-readable name used in notifications and
// dashboards. Falls back to the raw value for unregistered types.
func (t ChangeType) DisplayName() string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return string(t)
}

func (t ChangeType) String() string {
	return string(t)
}
