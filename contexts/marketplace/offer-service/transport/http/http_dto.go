package httptransport

type AuthorDTO struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type OfferDTO struct {
	OfferID   string     `json:"offer_id"`
	UserID    string     `json:"user_id"`
	ListingID string     `json:"listing_id"`
	Status    string     `json:"status"`
	Rejected  bool       `json:"rejected"`
	Price     float64    `json:"price"`
	Message   string     `json:"message,omitempty"`
	Author    *AuthorDTO `json:"author,omitempty"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

// CreateOfferRequest carries the target listing and the offer terms. Author and
// state are never taken from the body.
type CreateOfferRequest struct {
	ListingID string  `json:"listing_id"`
	Price     float64 `json:"price"`
	Message   string  `json:"message,omitempty"`
}

// EditOfferRequest is a partial update. Omitted fields keep their stored value.
type EditOfferRequest struct {
	Price   *float64 `json:"price,omitempty"`
	Message *string  `json:"message,omitempty"`
}

// ListOffersResponse wraps list results in an object rather than a bare array.
type ListOffersResponse struct {
	Items []OfferDTO `json:"items"`
}

type DeleteOfferResponse struct {
	OfferID string `json:"offer_id"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
