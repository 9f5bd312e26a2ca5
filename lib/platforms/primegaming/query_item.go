package primegaming

import (
	"context"
	"log/slog"
)

const itemQuery = `
query ItemV2Context($itemId: String!, $redirectUrl: String) {
  itemV2(itemId: $itemId) {
    item {
      ...ItemPageItem
      __typename
    }
    error {
      code
      __typename
    }
    __typename
  }
}

fragment ItemPageItem on Item {
  id
  isDirectEntitlement
  requiresLinkBeforeClaim
  grantsCode
  isFGWP
  assets {
    id
    title
    claimInstructions
    externalClaimLink
    __typename
  }
  game {
    id
    accountLinkConfig(redirectUrl: $redirectUrl) {
      accountType
      linkingUrl
      __typename
    }
    assets {
      title
      publisher
      __typename
    }
    __typename
  }
  offers {
    id
    offerSelfConnection {
      eligibility {
        isClaimed
        canClaim
        missingRequiredAccountLink
        offerState
        __typename
      }
      orderInformation {
        id
        claimCode
        orderState
        __typename
      }
      __typename
    }
    __typename
  }
  __typename
}
`

type itemVariables struct {
	ItemId      string `json:"itemId"`
	RedirectUrl string `json:"redirectUrl"`
}

type itemV2Payload struct {
	Item  *Item      `json:"item"`
	Error *ErrorCode `json:"error"`
}

type itemData struct {
	ItemV2 *itemV2Payload `json:"itemV2"`
}

// Item fetches the full detail payload for one item. This is the
// re-fetch primitive: the claim engine calls it again after every
// mutating step because the detail payload is authoritative.
//
// A non-null itemV2.error with a present item is logged and ignored;
// the portal emits benign codes here.
func (c *Client) Item(ctx context.Context, itemId, redirectUrl string) (Item, error) {
	data, err := graphqlQuery[itemVariables, itemData](
		ctx, c,
		"ItemV2Context",
		itemQuery,
		itemVariables{ItemId: itemId, RedirectUrl: redirectUrl},
	)
	if err != nil {
		return Item{}, err
	}
	if data.ItemV2 == nil {
		return Item{}, MissingPayload("itemV2")
	}
	if data.ItemV2.Error != nil {
		slog.WarnContext(ctx, "item detail returned an error code",
			"item_id", itemId,
			"code", data.ItemV2.Error.Code,
		)
	}
	if data.ItemV2.Item == nil {
		return Item{}, MissingPayload("itemV2.item")
	}
	return *data.ItemV2.Item, nil
}
