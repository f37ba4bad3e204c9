package data

import (
	accountfetcher "nexusiq/fetcher/data/account"
	leaguefetcher "nexusiq/fetcher/data/league"
	matchfetcher "nexusiq/fetcher/data/match"
	summonerfetcher "nexusiq/fetcher/data/summoner"
	"nexusiq/fetcher/requests"
	"nexusiq/pkg/regions"
)

// Define a main fetcher.
// Every fetcher shares the same transport client, so the connection pool and limits are shared.
type MainFetcher struct {
	Account  *accountfetcher.AccountFetcher
	Summoner *summonerfetcher.SummonerFetcher
	League   *leaguefetcher.LeagueFetcher
	Match    *matchfetcher.MatchFetcher
}

// NewMainFetcher instanciates the main fetcher.
func NewMainFetcher(client requests.Requester, accountRegion regions.Region) *MainFetcher {
	return &MainFetcher{
		Account:  accountfetcher.NewAccountFetcher(client, accountRegion),
		Summoner: summonerfetcher.NewSummonerFetcher(client),
		League:   leaguefetcher.NewLeagueFetcher(client),
		Match:    matchfetcher.NewMatchFetcher(client),
	}
}
