package models

import (
	"path"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Post is a publication by a single author, optionally attached to a group.
// Deleting the author removes the post; deleting the group only detaches it.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"<-:create;index" json:"pub_date"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"group,omitempty"`
	Image     string    `gorm:"size:255" json:"image,omitempty"`
	ImageWebP string    `gorm:"-" json:"image_webp,omitempty"`
}

// AfterFind fills the WebP sibling path of a stored image.
func (p *Post) AfterFind(_ *gorm.DB) error {
	p.ImageWebP = WebPVariant(p.Image)
	return nil
}

// WebPVariant returns the media-relative path of the WebP copy of a stored image.
func WebPVariant(rel string) string {
	if rel == "" {
		return ""
	}
	return strings.TrimSuffix(rel, path.Ext(rel)) + ".webp"
}
