package models

import "time"

// Post is a unit of authored text with an optional group and image.
//
// AuthorID and GroupID are nullable at the storage level. Removing a group
// clears GroupID on its posts; removing an author removes their posts.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  *uint     `gorm:"index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image,omitempty"`
	CreatedAt time.Time `gorm:"index;autoCreateTime" json:"created_at"`
}

// IsAuthoredBy reports whether userID is the post's author.
func (p *Post) IsAuthoredBy(userID uint) bool {
	return p.AuthorID != nil && *p.AuthorID == userID
}
