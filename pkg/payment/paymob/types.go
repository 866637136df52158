package paymob

// Wire schemas are dictated by the Paymob Accept API and must be preserved
// byte-for-byte.

type authRequest struct {
	APIKey string `json:"api_key"`
}

type authResponse struct {
	Token string `json:"token"`
}

// OrderItem is a single line item of an order registration
type OrderItem struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}

type orderRequest struct {
	AuthToken      string      `json:"auth_token"`
	DeliveryNeeded string      `json:"delivery_needed"`
	AmountCents    int64       `json:"amount_cents"`
	Currency       string      `json:"currency"`
	Items          []OrderItem `json:"items"`
}

type orderResponse struct {
	ID int64 `json:"id"`
}

// BillingData identifies the paying customer. Paymob requires every field to
// be present; unknown values are sent as "NA".
type BillingData struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Apartment      string `json:"apartment"`
	Floor          string `json:"floor"`
	Street         string `json:"street"`
	Building       string `json:"building"`
	ShippingMethod string `json:"shipping_method"`
	PostalCode     string `json:"postal_code"`
	City           string `json:"city"`
	Country        string `json:"country"`
	State          string `json:"state"`
}

func (b BillingData) withDefaults() BillingData {
	fill := func(s *string) {
		if *s == "" {
			*s = "NA"
		}
	}
	fill(&b.FirstName)
	fill(&b.LastName)
	fill(&b.Email)
	fill(&b.PhoneNumber)
	fill(&b.Apartment)
	fill(&b.Floor)
	fill(&b.Street)
	fill(&b.Building)
	fill(&b.ShippingMethod)
	fill(&b.PostalCode)
	fill(&b.City)
	fill(&b.Country)
	fill(&b.State)
	return b
}

type paymentKeyRequest struct {
	AuthToken     string      `json:"auth_token"`
	AmountCents   int64       `json:"amount_cents"`
	Expiration    int         `json:"expiration"`
	OrderID       int64       `json:"order_id"`
	BillingData   BillingData `json:"billing_data"`
	Currency      string      `json:"currency"`
	IntegrationID int         `json:"integration_id"`
}

type paymentKeyResponse struct {
	Token string `json:"token"`
}

type walletSource struct {
	Identifier string `json:"identifier"`
	Subtype    string `json:"subtype"`
}

type walletPayRequest struct {
	Source walletSource `json:"source"`
	Token  string       `json:"token"`
}

type walletPayResponse struct {
	RedirectURL string `json:"redirect_url"`
}
