package entities

import "strings"

// User is the offer author side. OfferIDs lists offers the user made.
type User struct {
	UserID   string
	Username string
	Email    string
	OfferIDs []string
}

// Listing is the item offers target. SellerID owns the listing.
type Listing struct {
	ListingID string
	SellerID  string
	Title     string
	OfferIDs  []string
}

func (l Listing) IsSoldBy(userID string) bool {
	return strings.TrimSpace(userID) != "" && l.SellerID == userID
}

// Principal is the verified caller identity.
type Principal struct {
	UserID   string
	Username string
	Email    string
}

func (p Principal) Valid() bool {
	return strings.TrimSpace(p.UserID) != ""
}

// Author is the public author projection attached to offer reads.
type Author struct {
	UserID   string
	Username string
	Email    string
}

func AuthorFromPrincipal(p Principal) Author {
	return Author{UserID: p.UserID, Username: p.Username, Email: p.Email}
}

func AuthorFromUser(u User) Author {
	return Author{UserID: u.UserID, Username: u.Username, Email: u.Email}
}

// OfferView is an offer plus an optional author projection.
type OfferView struct {
	Offer  Offer
	Author *Author
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func (u User) WithOffer(offerID string) User {
	u.OfferIDs = appendUnique(append([]string(nil), u.OfferIDs...), offerID)
	return u
}

func (u User) WithoutOffer(offerID string) User {
	u.OfferIDs = removeID(u.OfferIDs, offerID)
	return u
}

func (l Listing) WithOffer(offerID string) Listing {
	l.OfferIDs = appendUnique(append([]string(nil), l.OfferIDs...), offerID)
	return l
}

func (l Listing) WithoutOffer(offerID string) Listing {
	l.OfferIDs = removeID(l.OfferIDs, offerID)
	return l
}
