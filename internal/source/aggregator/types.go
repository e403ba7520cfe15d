package aggregator

type autocompleteResponse struct {
	Data []aggSummoner `json:"data"`
}

type aggSummoner struct {
	SummonerID      string `json:"summoner_id"`
	Name            string `json:"name"`
	Level           int    `json:"level"`
	ProfileImageURL string `json:"profile_image_url"`
}

type leagueStatsResponse struct {
	Data []leagueStat `json:"data"`
}

type leagueStat struct {
	QueueInfo struct {
		GameType string `json:"game_type"`
	} `json:"queue_info"`
	TierInfo struct {
		Tier     string `json:"tier"`
		Division int    `json:"division"`
		LP       int    `json:"lp"`
	} `json:"tier_info"`
	Win  int `json:"win"`
	Lose int `json:"lose"`
}
