package primegaming

import "context"

const offersQuery = `
query OffersContext_Offers_And_Items($dateOverride: Time, $pageSize: Int) {
  inGameLoot: items(collectionType: LOOT, dateOverride: $dateOverride, pageSize: $pageSize) {
    items {
      ...Item
      __typename
    }
    __typename
  }
  expiring: items(collectionType: EXPIRING, dateOverride: $dateOverride) {
    items {
      ...Item
      __typename
    }
    __typename
  }
  popular: items(collectionType: FEATURED, dateOverride: $dateOverride) {
    items {
      ...Item
      __typename
    }
    __typename
  }
  games: items(collectionType: FREE_GAMES, dateOverride: $dateOverride, pageSize: $pageSize) {
    items {
      ...Item
      __typename
    }
    __typename
  }
}

fragment Item on Item {
  id
  isFGWP
  isDirectEntitlement
  grantsCode
  priority
  assets {
    id
    title
    externalClaimLink
    __typename
  }
  offers {
    id
    startTime
    endTime
    offerSelfConnection {
      eligibility {
        offerState
        isClaimed
        __typename
      }
      __typename
    }
    __typename
  }
  game {
    id
    isActiveAndVisible
    assets {
      title
      __typename
    }
    __typename
  }
  __typename
}
`

type offersVariables struct {
	PageSize int `json:"pageSize"`
}

// Offers fetches every offer collection in one request. pageSize caps
// the loot and free-games collections; the web frontend sends 999.
func (c *Client) Offers(ctx context.Context, pageSize int) (OfferCollections, error) {
	data, err := graphqlQuery[offersVariables, OfferCollections](
		ctx, c,
		"OffersContext_Offers_And_Items",
		offersQuery,
		offersVariables{PageSize: pageSize},
	)
	if err != nil {
		return OfferCollections{}, err
	}
	return data, nil
}
