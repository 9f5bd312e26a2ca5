package primegaming

// Payload types for the four fixed operations. Field sets mirror the
// portal's GraphQL schema; json tags are the wire contract.

type CurrentUser struct {
	IsSignedIn    bool   `json:"isSignedIn"`
	IsAmazonPrime bool   `json:"isAmazonPrime"`
	IsTwitchPrime bool   `json:"isTwitchPrime"`
	FirstName     string `json:"firstName"`
}

type ItemCollection struct {
	Items []Item `json:"items"`
}

// OfferCollections is the response of OffersContext_Offers_And_Items.
// Only InGameLoot and Games are traversed for claiming; Expiring and
// Popular ride along untouched.
type OfferCollections struct {
	InGameLoot ItemCollection `json:"inGameLoot"`
	Expiring   ItemCollection `json:"expiring"`
	Popular    ItemCollection `json:"popular"`
	Games      ItemCollection `json:"games"`
}

type Item struct {
	ID                  string     `json:"id"`
	GrantsCode          bool       `json:"grantsCode"`
	IsDirectEntitlement bool       `json:"isDirectEntitlement"`
	IsFGWP              bool       `json:"isFGWP"`
	Assets              ItemAssets `json:"assets"`
	Game                *Game      `json:"game"`
	Offers              []Offer    `json:"offers"`
}

type ItemAssets struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	ExternalClaimLink string `json:"externalClaimLink"`
	ClaimInstructions string `json:"claimInstructions"`
}

type Game struct {
	Assets            GameAssets          `json:"assets"`
	AccountLinkConfig []AccountLinkConfig `json:"accountLinkConfig"`
}

// Publisher is a pointer on purpose: the portal omits the field for
// some games and an absent publisher is treated differently from an
// empty one (the item is skipped, never claimed).
type GameAssets struct {
	Title     string  `json:"title"`
	Publisher *string `json:"publisher"`
}

type AccountLinkConfig struct {
	AccountType string `json:"accountType"`
	LinkingUrl  string `json:"linkingUrl"`
}

type Offer struct {
	ID                  string              `json:"id"`
	OfferSelfConnection OfferSelfConnection `json:"offerSelfConnection"`
}

type OfferSelfConnection struct {
	Eligibility      Eligibility        `json:"eligibility"`
	OrderInformation []OrderInformation `json:"orderInformation"`
}

type Eligibility struct {
	OfferState                 string `json:"offerState"`
	IsClaimed                  bool   `json:"isClaimed"`
	CanClaim                   bool   `json:"canClaim"`
	MissingRequiredAccountLink bool   `json:"missingRequiredAccountLink"`
}

// OrderInformation is only meaningful after a claim has been placed.
type OrderInformation struct {
	ID         string `json:"id"`
	ClaimCode  string `json:"claimCode"`
	OrderState string `json:"orderState"`
}

type ErrorCode struct {
	Code string `json:"code"`
}

type PlaceOrdersPayload struct {
	Error            *ErrorCode         `json:"error"`
	OrderInformation []OrderInformation `json:"orderInformation"`
}

// GameTitle returns the owning game's title, or "" for items whose
// game payload is missing.
func (i Item) GameTitle() string {
	if i.Game == nil {
		return ""
	}
	return i.Game.Assets.Title
}

// Eligibility returns the first offer's eligibility. Items always
// carry at least one offer in practice; a zero Eligibility (claimed
// false, canClaim false) comes back for malformed ones so callers
// never claim them by accident.
func (i Item) Eligibility() Eligibility {
	if len(i.Offers) == 0 {
		return Eligibility{}
	}
	return i.Offers[0].OfferSelfConnection.Eligibility
}

// ClaimCode returns the issued code for the first offer's order, or
// "" while the order is still pending.
func (i Item) ClaimCode() string {
	if len(i.Offers) == 0 {
		return ""
	}
	orders := i.Offers[0].OfferSelfConnection.OrderInformation
	if len(orders) == 0 {
		return ""
	}
	return orders[0].ClaimCode
}

// Publisher returns the detail-payload publisher and whether it was
// present at all.
func (i Item) Publisher() (string, bool) {
	if i.Game == nil || i.Game.Assets.Publisher == nil {
		return "", false
	}
	return *i.Game.Assets.Publisher, true
}
