package riotapi

type riotSummoner struct {
	ID            string `json:"id"`
	AccountID     string `json:"accountId"`
	PUUID         string `json:"puuid"`
	Name          string `json:"name"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int    `json:"summonerLevel"`
}

type leagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

type riotMatch struct {
	Metadata riotMatchMetadata `json:"metadata"`
	Info     riotMatchInfo     `json:"info"`
}

type riotMatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type riotMatchInfo struct {
	GameCreation int64             `json:"gameCreation"`
	GameDuration int               `json:"gameDuration"`
	GameMode     string            `json:"gameMode"`
	QueueID      int               `json:"queueId"`
	MapID        int               `json:"mapId"`
	Participants []riotParticipant `json:"participants"`
	Teams        []riotTeam        `json:"teams"`
}

type riotParticipant struct {
	PUUID                       string `json:"puuid"`
	SummonerName                string `json:"summonerName"`
	TeamID                      int    `json:"teamId"`
	ChampionID                  int    `json:"championId"`
	ChampionName                string `json:"championName"`
	ChampLevel                  int    `json:"champLevel"`
	Lane                        string `json:"teamPosition"`
	Win                         bool   `json:"win"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	GoldEarned                  int    `json:"goldEarned"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	VisionScore                 int    `json:"visionScore"`
	Item0                       int    `json:"item0"`
	Item1                       int    `json:"item1"`
	Item2                       int    `json:"item2"`
	Item3                       int    `json:"item3"`
	Item4                       int    `json:"item4"`
	Item5                       int    `json:"item5"`
	Item6                       int    `json:"item6"`
	Summoner1ID                 int    `json:"summoner1Id"`
	Summoner2ID                 int    `json:"summoner2Id"`
}

type riotTeam struct {
	TeamID     int            `json:"teamId"`
	Win        bool           `json:"win"`
	Objectives riotObjectives `json:"objectives"`
}

type riotObjectives struct {
	Baron  riotObjective `json:"baron"`
	Dragon riotObjective `json:"dragon"`
	Tower  riotObjective `json:"tower"`
}

type riotObjective struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}
