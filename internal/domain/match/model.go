package match

import (
	"fmt"
	"strings"
	"time"
)

type Lane string

const (
	LaneTop     Lane = "TOP"
	LaneJungle  Lane = "JUNGLE"
	LaneMiddle  Lane = "MIDDLE"
	LaneBottom  Lane = "BOTTOM"
	LaneUtility Lane = "UTILITY"
)

var AllLanes = []Lane{LaneTop, LaneJungle, LaneMiddle, LaneBottom, LaneUtility}

type Item struct {
	Slot     int    `json:"slot"`
	ItemID   int    `json:"itemId"`
	ItemName string `json:"itemName,omitempty"`
}

type RunePage struct {
	PrimaryStyle   int   `json:"primaryStyle"`
	SecondaryStyle int   `json:"secondaryStyle"`
	PerkIDs        []int `json:"perkIds,omitempty"`
}

// Participant is one player's line in a match. IdentityKey references
// summoner.Identity and is a foreign key, not an ownership relation.
type Participant struct {
	IdentityKey   string   `json:"identityKey"`
	DisplayName   string   `json:"displayName"`
	TeamID        int      `json:"teamId"`
	ChampionID    int      `json:"championId"`
	ChampionName  string   `json:"championName"`
	ChampionLevel int      `json:"championLevel"`
	Lane          Lane     `json:"lane"`
	Win           bool     `json:"win"`
	Kills         int      `json:"kills"`
	Deaths        int      `json:"deaths"`
	Assists       int      `json:"assists"`
	DamageDealt   int      `json:"totalDamageDealtToChampions"`
	GoldEarned    int      `json:"goldEarned"`
	CreepScore    int      `json:"totalMinionsKilled"`
	VisionScore   int      `json:"visionScore"`
	Items         []Item   `json:"items,omitempty"`
	Runes         RunePage `json:"runes"`
	Spell1ID      int      `json:"spell1Id"`
	Spell2ID      int      `json:"spell2Id"`
}

type TeamStats struct {
	TeamID      int  `json:"teamId"`
	Win         bool `json:"win"`
	BaronKills  int  `json:"baronKills"`
	DragonKills int  `json:"dragonKills"`
	TowerKills  int  `json:"towerKills"`
	FirstBaron  bool `json:"firstBaron"`
	FirstDragon bool `json:"firstDragon"`
	FirstTower  bool `json:"firstTower"`
}

// Record is one stored match, keyed by MatchKey.
type Record struct {
	MatchKey        string        `json:"matchKey"`
	GameMode        string        `json:"gameMode"`
	QueueID         int           `json:"queueId"`
	MapID           int           `json:"mapId"`
	CreatedAt       time.Time     `json:"createdAt"`
	DurationSeconds int           `json:"durationSeconds"`
	Participants    []Participant `json:"participants"`
	Teams           []TeamStats   `json:"teams,omitempty"`
	LastUpdated     time.Time     `json:"lastUpdated"`
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.MatchKey) == "" {
		return fmt.Errorf("match key is required")
	}
	if len(r.Participants) == 0 {
		return fmt.Errorf("match must have at least one participant")
	}
	for i, p := range r.Participants {
		if strings.TrimSpace(p.IdentityKey) == "" {
			return fmt.Errorf("participant %d is missing an identity key", i)
		}
	}
	if r.DurationSeconds < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}

// References reports whether any participant points at identityKey.
func (r Record) References(identityKey string) bool {
	for _, p := range r.Participants {
		if p.IdentityKey == identityKey {
			return true
		}
	}
	return false
}
