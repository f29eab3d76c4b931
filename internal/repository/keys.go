package repository

import (
	"github.com/google/uuid"
)

// Схема ключей key-value хранилища. Префиксы совпадают с исторической
// схемой данных продукта, поэтому менять их нельзя без миграции.
const (
	prefixFarmer         = "farmer:"
	prefixCompany        = "company:"
	prefixListing        = "listing:"
	prefixOffer          = "offer:"
	prefixReport         = "report:"
	prefixCredentials    = "cred:"
	prefixSession        = "session:"
	prefixFarmerListings = "farmer_listings:"
	prefixListingOffers  = "listing_offers:"
	prefixOTP            = "otp:"
	prefixResetOTP       = "reset-otp:"
)

func farmerKey(id uuid.UUID) string         { return prefixFarmer + id.String() }
func companyKey(id uuid.UUID) string        { return prefixCompany + id.String() }
func listingKey(id uuid.UUID) string        { return prefixListing + id.String() }
func offerKey(id uuid.UUID) string          { return prefixOffer + id.String() }
func reportKey(id uuid.UUID) string         { return prefixReport + id.String() }
func credentialsKey(email string) string    { return prefixCredentials + email }
func sessionKey(jti string) string          { return prefixSession + jti }
func farmerListingsKey(id uuid.UUID) string { return prefixFarmerListings + id.String() }
func listingOffersKey(id uuid.UUID) string  { return prefixListingOffers + id.String() }

func otpKey(codeType string, id uuid.UUID) string { return prefixOTP + codeType + ":" + id.String() }
func resetOTPKey(identifier string) string        { return prefixResetOTP + identifier }
