package paymob

// Config represents the configuration for the Paymob client
type Config struct {
	// APIKey is the static Paymob API key exchanged for short-lived access tokens
	APIKey string

	// BaseURL is the Paymob Accept API base URL
	BaseURL string

	// CardIntegrationID selects the online-card payment method configuration
	CardIntegrationID int

	// WalletIntegrationID selects the mobile-wallet payment method configuration
	WalletIntegrationID int

	// IframeID identifies the hosted card payment page
	IframeID string

	// Currency is the ISO currency code for all amounts, e.g. "EGP"
	Currency string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrInvalidConfig
	}
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if c.CardIntegrationID == 0 || c.WalletIntegrationID == 0 {
		return ErrInvalidConfig
	}
	if c.IframeID == "" {
		return ErrInvalidConfig
	}
	if c.Currency == "" {
		return ErrInvalidConfig
	}
	return nil
}
