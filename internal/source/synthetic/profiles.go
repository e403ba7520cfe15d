package synthetic

import (
	"github.com/riftwatch/rift-ledger/internal/domain/match"
	"github.com/riftwatch/rift-ledger/internal/domain/summoner"
)

type playstyle string

const (
	playstyleAggressive playstyle = "aggressive"
	playstyleDefensive  playstyle = "defensive"
	playstyleBalanced   playstyle = "balanced"
)

type archetype struct {
	Lane     match.Lane
	Tier     summoner.Tier
	Division summoner.Division
	LP       int
	Level    int
	Style    playstyle
	WinRate  float64
}

// namedArchetypes are hand-tuned profiles for players the tracker's
// authors follow. A hit here is emitted as a curated profile rather
// than a generic synthetic one.
var namedArchetypes = map[string]archetype{
	"love丶小文": {
		Lane:     match.LaneBottom,
		Tier:     summoner.TierGold,
		Division: summoner.DivisionIII,
		LP:       42,
		Level:    187,
		Style:    playstyleAggressive,
		WinRate:  0.54,
	},
	"夜未央": {
		Lane:     match.LaneMiddle,
		Tier:     summoner.TierPlatinum,
		Division: summoner.DivisionIV,
		LP:       18,
		Level:    243,
		Style:    playstyleBalanced,
		WinRate:  0.51,
	},
	"北风行": {
		Lane:     match.LaneJungle,
		Tier:     summoner.TierSilver,
		Division: summoner.DivisionI,
		LP:       77,
		Level:    129,
		Style:    playstyleDefensive,
		WinRate:  0.49,
	},
}

type span struct {
	Min, Max int
}

type laneProfile struct {
	Kills   span
	Deaths  span
	Assists span
	Damage  span
	Gold    span
	CS      span
	Vision  span
}

var laneProfiles = map[match.Lane]laneProfile{
	match.LaneTop: {
		Kills: span{2, 9}, Deaths: span{2, 7}, Assists: span{3, 9},
		Damage: span{14000, 32000}, Gold: span{9000, 15000},
		CS: span{150, 260}, Vision: span{10, 25},
	},
	match.LaneJungle: {
		Kills: span{3, 10}, Deaths: span{2, 7}, Assists: span{6, 15},
		Damage: span{11000, 26000}, Gold: span{8500, 14000},
		CS: span{120, 210}, Vision: span{20, 45},
	},
	match.LaneMiddle: {
		Kills: span{4, 12}, Deaths: span{2, 7}, Assists: span{4, 11},
		Damage: span{18000, 38000}, Gold: span{9500, 16000},
		CS: span{160, 280}, Vision: span{12, 28},
	},
	match.LaneBottom: {
		Kills: span{4, 13}, Deaths: span{2, 8}, Assists: span{4, 12},
		Damage: span{19000, 42000}, Gold: span{10000, 17000},
		CS: span{180, 300}, Vision: span{10, 24},
	},
	match.LaneUtility: {
		Kills: span{0, 4}, Deaths: span{2, 8}, Assists: span{10, 24},
		Damage: span{5000, 14000}, Gold: span{6000, 10000},
		CS: span{20, 60}, Vision: span{45, 110},
	},
}

type champion struct {
	ID   int
	Name string
}

var laneChampions = map[match.Lane][]champion{
	match.LaneTop:     {{266, "Aatrox"}, {122, "Darius"}, {86, "Garen"}, {24, "Jax"}, {92, "Riven"}},
	match.LaneJungle:  {{64, "LeeSin"}, {254, "Vi"}, {120, "Hecarim"}, {19, "Warwick"}, {141, "Kayn"}},
	match.LaneMiddle:  {{103, "Ahri"}, {157, "Yasuo"}, {238, "Zed"}, {7, "Leblanc"}, {134, "Syndra"}},
	match.LaneBottom:  {{222, "Jinx"}, {51, "Caitlyn"}, {119, "Draven"}, {145, "Kaisa"}, {81, "Ezreal"}},
	match.LaneUtility: {{412, "Thresh"}, {53, "Blitzcrank"}, {117, "Lulu"}, {350, "Yuumi"}, {555, "Pyke"}},
}

var laneItems = map[match.Lane][]match.Item{
	match.LaneTop: {
		{Slot: 0, ItemID: 6630, ItemName: "Goredrinker"},
		{Slot: 1, ItemID: 3053, ItemName: "Sterak's Gage"},
		{Slot: 2, ItemID: 3071, ItemName: "Black Cleaver"},
		{Slot: 3, ItemID: 3047, ItemName: "Plated Steelcaps"},
		{Slot: 4, ItemID: 3065, ItemName: "Spirit Visage"},
		{Slot: 5, ItemID: 3075, ItemName: "Thornmail"},
		{Slot: 6, ItemID: 3340, ItemName: "Stealth Ward"},
	},
	match.LaneJungle: {
		{Slot: 0, ItemID: 6632, ItemName: "Divine Sunderer"},
		{Slot: 1, ItemID: 3111, ItemName: "Mercury's Treads"},
		{Slot: 2, ItemID: 3071, ItemName: "Black Cleaver"},
		{Slot: 3, ItemID: 3053, ItemName: "Sterak's Gage"},
		{Slot: 4, ItemID: 3026, ItemName: "Guardian Angel"},
		{Slot: 5, ItemID: 3748, ItemName: "Titanic Hydra"},
		{Slot: 6, ItemID: 3364, ItemName: "Oracle Lens"},
	},
	match.LaneMiddle: {
		{Slot: 0, ItemID: 6655, ItemName: "Luden's Tempest"},
		{Slot: 1, ItemID: 3020, ItemName: "Sorcerer's Shoes"},
		{Slot: 2, ItemID: 4645, ItemName: "Shadowflame"},
		{Slot: 3, ItemID: 3089, ItemName: "Rabadon's Deathcap"},
		{Slot: 4, ItemID: 3157, ItemName: "Zhonya's Hourglass"},
		{Slot: 5, ItemID: 3135, ItemName: "Void Staff"},
		{Slot: 6, ItemID: 3340, ItemName: "Stealth Ward"},
	},
	match.LaneBottom: {
		{Slot: 0, ItemID: 6672, ItemName: "Kraken Slayer"},
		{Slot: 1, ItemID: 3006, ItemName: "Berserker's Greaves"},
		{Slot: 2, ItemID: 3031, ItemName: "Infinity Edge"},
		{Slot: 3, ItemID: 3036, ItemName: "Lord Dominik's Regards"},
		{Slot: 4, ItemID: 3072, ItemName: "Bloodthirster"},
		{Slot: 5, ItemID: 3026, ItemName: "Guardian Angel"},
		{Slot: 6, ItemID: 3363, ItemName: "Farsight Alteration"},
	},
	match.LaneUtility: {
		{Slot: 0, ItemID: 3860, ItemName: "Bulwark of the Mountain"},
		{Slot: 1, ItemID: 3158, ItemName: "Ionian Boots of Lucidity"},
		{Slot: 2, ItemID: 3190, ItemName: "Locket of the Iron Solari"},
		{Slot: 3, ItemID: 3109, ItemName: "Knight's Vow"},
		{Slot: 4, ItemID: 3222, ItemName: "Mikael's Blessing"},
		{Slot: 5, ItemID: 3050, ItemName: "Zeke's Convergence"},
		{Slot: 6, ItemID: 3364, ItemName: "Oracle Lens"},
	},
}

var laneRunes = map[match.Lane]match.RunePage{
	match.LaneTop:     {PrimaryStyle: 8000, SecondaryStyle: 8400, PerkIDs: []int{8010, 9111, 9104, 8014}},
	match.LaneJungle:  {PrimaryStyle: 8100, SecondaryStyle: 8000, PerkIDs: []int{8128, 8143, 8138, 8106}},
	match.LaneMiddle:  {PrimaryStyle: 8200, SecondaryStyle: 8100, PerkIDs: []int{8214, 8226, 8210, 8237}},
	match.LaneBottom:  {PrimaryStyle: 8000, SecondaryStyle: 8200, PerkIDs: []int{8008, 9101, 9103, 8017}},
	match.LaneUtility: {PrimaryStyle: 8400, SecondaryStyle: 8300, PerkIDs: []int{8465, 8463, 8473, 8453}},
}

type spellPair struct {
	Spell1 int
	Spell2 int
}

var laneSpells = map[match.Lane]spellPair{
	match.LaneTop:     {Spell1: 4, Spell2: 12},
	match.LaneJungle:  {Spell1: 4, Spell2: 11},
	match.LaneMiddle:  {Spell1: 4, Spell2: 14},
	match.LaneBottom:  {Spell1: 4, Spell2: 7},
	match.LaneUtility: {Spell1: 4, Spell2: 14},
}

// fallbackTiers is the spread used when deriving a profile from the
// name hash. Weighted toward the middle of the ladder.
var fallbackTiers = []struct {
	Tier summoner.Tier
	Divs []summoner.Division
}{
	{summoner.TierBronze, []summoner.Division{summoner.DivisionII, summoner.DivisionI}},
	{summoner.TierSilver, []summoner.Division{summoner.DivisionIV, summoner.DivisionIII, summoner.DivisionII, summoner.DivisionI}},
	{summoner.TierGold, []summoner.Division{summoner.DivisionIV, summoner.DivisionIII, summoner.DivisionII, summoner.DivisionI}},
	{summoner.TierPlatinum, []summoner.Division{summoner.DivisionIV, summoner.DivisionIII}},
}
