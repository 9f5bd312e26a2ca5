package primegaming

import "context"

// weblab treatments the web frontend sends along; the endpoint
// rejects the query without them.
var weblabTreatmentList = []string{
	"PG_326549",
	"PG_TO_THE_MOON_372912",
	"PG_CHEESY_GORDITA_439922",
	"PG_CLAIM_CONSOLIDATION_MILESTONE_3_582648",
	"PG_SCRAMBLED_EGGS_446919",
	"PG_PCONS_V1_541640",
	"PG_ZAPDOS_555379",
	"HUMBLE_HYLIAN_713107",
	"PG_BANANA_STAND_607245",
	"PG_INTEG_BANANAPHONE_803595",
	"PG_CARBONITE_PRIME_BENEFITS_BANNER_722856",
	"PG_CARBONITE_747927",
	"PG_KEYBEARERS_HALLOWEEN_PAGE_778298",
	"PG_OBSIDIAN_794242",
	"PG_THANK_YOU_RECS_TWO_796685",
	"PG_EU_COOKIE_BANNER_COMPLIANCE_803731",
	"PG_CARBONITE_REMAINING_FTUE_GLOBAL_LAUNCH_825106",
	"PG_KEEP_IT_CASUAL_818343",
	"IMPROVED_DISCOVERY_736602",
	"PG_OCI_765028",
}

const entryPointsUserQuery = `
fragment EntryPointsUser_TwitchAccount on TwitchAccount {
    tuid
    __typename
}

fragment EntryPointsUser_CurrentUser on CurrentUser {
    id
    isTwitchPrime
    isAmazonPrime
    isSignedIn
    firstName
    twitchAccounts {
        ...EntryPointsUser_TwitchAccount
        __typename
    }
    __typename
}

fragment EntryPointsUser_Weblab on Weblab {
    name
    treatment
    __typename
}

query Entry_Points_User($weblabTreatmentList: [String!]!) {
    currentUser {
        ...EntryPointsUser_CurrentUser
        __typename
    }
    weblabTreatmentList(weblabNameList: $weblabTreatmentList) {
        ...EntryPointsUser_Weblab
        __typename
    }
}
`

type currentUserVariables struct {
	WeblabTreatmentList []string `json:"weblabTreatmentList"`
}

type currentUserData struct {
	CurrentUser *CurrentUser `json:"currentUser"`
}

func (c *Client) CurrentUser(ctx context.Context) (CurrentUser, error) {
	data, err := graphqlQuery[currentUserVariables, currentUserData](
		ctx, c,
		"Entry_Points_User",
		entryPointsUserQuery,
		currentUserVariables{WeblabTreatmentList: weblabTreatmentList},
	)
	if err != nil {
		return CurrentUser{}, err
	}
	if data.CurrentUser == nil {
		return CurrentUser{}, MissingPayload("currentUser")
	}
	return *data.CurrentUser, nil
}
