package primegaming

import (
	"context"
	"fmt"
)

const placeOrdersMutation = `
fragment Place_Orders_Payload_Order_Information on OfferOrderInformation {
  catalogOfferId
  claimCode
  entitledAccountId
  entitledAccountName
  id
  orderDate
  orderState
  __typename
}

mutation placeOrdersDetailPage($input: PlaceOrdersInput!) {
  placeOrders(input: $input) {
    error {
      code
      __typename
    }
    orderInformation {
      ...Place_Orders_Payload_Order_Information
      __typename
    }
    __typename
  }
}
`

type placeOrdersInput struct {
	OfferIds           string `json:"offerIds"`
	AttributionChannel string `json:"attributionChannel"`
}

type placeOrdersVariables struct {
	Input placeOrdersInput `json:"input"`
}

type placeOrdersData struct {
	PlaceOrders *PlaceOrdersPayload `json:"placeOrders"`
}

// PlaceOrders submits the claim mutation for one offer. A non-null
// payload error is returned to the caller, not raised: the portal
// sends codes like "offer already placed" that the subsequent detail
// re-fetch disambiguates.
func (c *Client) PlaceOrders(ctx context.Context, offerId string) (PlaceOrdersPayload, error) {
	attribution := fmt.Sprintf(
		`{"eventId":"ItemDetailRootPage:%s","page":"ItemDetailPage"}`,
		offerId,
	)

	data, err := graphqlQuery[placeOrdersVariables, placeOrdersData](
		ctx, c,
		"placeOrdersDetailPage",
		placeOrdersMutation,
		placeOrdersVariables{Input: placeOrdersInput{
			OfferIds:           offerId,
			AttributionChannel: attribution,
		}},
	)
	if err != nil {
		return PlaceOrdersPayload{}, err
	}
	if data.PlaceOrders == nil {
		return PlaceOrdersPayload{}, MissingPayload("placeOrders")
	}
	return *data.PlaceOrders, nil
}
