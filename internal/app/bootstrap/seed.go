package bootstrap

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"offerhub/contexts/marketplace/offer-service/domain/entities"
)

// Seed is the users and listings loaded into memory storage at start-up.
type Seed struct {
	UserRows    []SeedUser    `json:"users"`
	ListingRows []SeedListing `json:"listings"`
}

type SeedUser struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SeedListing struct {
	ListingID string `json:"listing_id"`
	SellerID  string `json:"seller_id"`
	Title     string `json:"title"`
}

// LoadSeed reads a seed file. An empty path yields an empty seed.
func LoadSeed(path string) (Seed, error) {
	if strings.TrimSpace(path) == "" {
		return Seed{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed file: %w", err)
	}
	for _, user := range seed.UserRows {
		if strings.TrimSpace(user.UserID) == "" {
			return Seed{}, fmt.Errorf("seed user without user_id")
		}
	}
	for _, listing := range seed.ListingRows {
		if strings.TrimSpace(listing.ListingID) == "" || strings.TrimSpace(listing.SellerID) == "" {
			return Seed{}, fmt.Errorf("seed listing %q needs listing_id and seller_id", listing.ListingID)
		}
	}
	return seed, nil
}

func (s Seed) Users() []entities.User {
	users := make([]entities.User, 0, len(s.UserRows))
	for _, row := range s.UserRows {
		users = append(users, entities.User{UserID: row.UserID, Username: row.Username, Email: row.Email})
	}
	return users
}

func (s Seed) Listings() []entities.Listing {
	listings := make([]entities.Listing, 0, len(s.ListingRows))
	for _, row := range s.ListingRows {
		listings = append(listings, entities.Listing{ListingID: row.ListingID, SellerID: row.SellerID, Title: row.Title})
	}
	return listings
}
