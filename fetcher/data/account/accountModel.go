package accountfetcher

import "nexusiq/fetcher/requests"

// Account is the return of a account search.
type Account struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

func (a *Account) Validate() error {
	return requests.Required(
		requests.Field{Name: "puuid", Value: a.Puuid},
		requests.Field{Name: "gameName", Value: a.GameName},
		requests.Field{Name: "tagLine", Value: a.TagLine},
	)
}

// ActiveRegion is the return of the active region endpoint.
type ActiveRegion struct {
	Puuid  string `json:"puuid"`
	Game   string `json:"game"`
	Region string `json:"region"`
}

func (a *ActiveRegion) Validate() error {
	return requests.Required(
		requests.Field{Name: "puuid", Value: a.Puuid},
		requests.Field{Name: "region", Value: a.Region},
	)
}
