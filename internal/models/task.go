package models

import (
	"time"
)

// EventType is an open string type: any non-empty value is storable, the
// constants below are the values the planner UI offers.
type EventType string

const (
	EventTypeTournament     EventType = "Tournament"
	EventTypeCommunityEvent EventType = "Community Event"
	EventTypeSpecialMission EventType = "Special Mission"
	EventTypeSeasonStart    EventType = "Season Start"
	EventTypeUpdateRelease  EventType = "Update Release"
)

// GameType is an open string type like EventType.
type GameType string

const (
	GameTypeFPS          GameType = "FPS"
	GameTypeMOBA         GameType = "MOBA"
	GameTypeRPG          GameType = "RPG"
	GameTypeStrategy     GameType = "Strategy"
	GameTypeCardGame     GameType = "Card Game"
	GameTypeBattleRoyale GameType = "Battle Royale"
	GameTypeOther        GameType = "Other"
)

// EventTypes lists the recognized event types in display order.
var EventTypes = []EventType{
	EventTypeTournament,
	EventTypeCommunityEvent,
	EventTypeSpecialMission,
	EventTypeSeasonStart,
	EventTypeUpdateRelease,
}

// GameTypes lists the recognized game types in display order.
var GameTypes = []GameType{
	GameTypeFPS,
	GameTypeMOBA,
	GameTypeRPG,
	GameTypeStrategy,
	GameTypeCardGame,
	GameTypeBattleRoyale,
	GameTypeOther,
}

// IsRecognized reports whether t is one of EventTypes.
func (t EventType) IsRecognized() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsRecognized reports whether t is one of GameTypes.
func (t GameType) IsRecognized() bool {
	for _, known := range GameTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Task struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	EventType   EventType `gorm:"type:varchar(50);not null" json:"eventType"`
	GameType    GameType  `gorm:"type:varchar(50);not null" json:"gameType"`
	StartDate   time.Time `gorm:"not null;index" json:"startDate"`
	EndDate     time.Time `gorm:"not null" json:"endDate"`
	IsComplete  bool      `gorm:"not null;default:false" json:"isComplete"`
	UserID      uint64    `gorm:"not null;index" json:"userId"`
}
