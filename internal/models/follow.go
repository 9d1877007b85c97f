package models

import "time"

// Follow is a directed subscription edge from a follower (UserID) to an
// author (AuthorID). The pair is unique. Both keys are nullable at the
// storage level like the other author references; edges are only ever
// created through NewFollow with both set.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"uniqueIndex:idx_follow_pair" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  *uint     `gorm:"uniqueIndex:idx_follow_pair;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Follow.
func (Follow) TableName() string {
	return "follows"
}

// NewFollow returns the edge from follower userID to authorID.
func NewFollow(userID, authorID uint) *Follow {
	return &Follow{UserID: &userID, AuthorID: &authorID}
}
