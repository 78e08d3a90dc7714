package store

import "time"

// Member is a registered club member. MemberID is the external account id
// carried in auth tokens; Seq is the internal actor id.
type Member struct {
	Seq       uint   `gorm:"primaryKey"`
	MemberID  string `gorm:"uniqueIndex;not null"`
	Nickname  string `gorm:"not null"`
	CreatedAt time.Time
}

type Court struct {
	CourtID   uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Address   string
	IsIndoor  bool
	CourtType string
	RsvURL    string
}

// Event is a scheduled club meeting. Times are stored in UTC.
type Event struct {
	ID              uint      `gorm:"primaryKey"`
	Title           string    `gorm:"not null"`
	StartDatetime   time.Time `gorm:"index;not null"`
	EndDatetime     time.Time `gorm:"index;not null"`
	LocationName    string
	LocationURL     string
	Description     string
	MaxParticipants int  `gorm:"not null"`
	HostMemberSeq   uint `gorm:"index;not null"`
	CreatedAt       time.Time

	Host         Member             `gorm:"foreignKey:HostMemberSeq;references:Seq"`
	Participants []EventParticipant `gorm:"foreignKey:EventID"`
}

type EventParticipant struct {
	ID        uint `gorm:"primaryKey"`
	EventID   uint `gorm:"uniqueIndex:idx_event_member;not null"`
	MemberSeq uint `gorm:"uniqueIndex:idx_event_member;not null"`
	CreatedAt time.Time
}

// CurrentParticipants is the number of members signed up for e.
// Participants must be preloaded.
func (e *Event) CurrentParticipants() int {
	return len(e.Participants)
}
