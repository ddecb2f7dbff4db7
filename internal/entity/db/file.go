package db

import "time"

// File is a catalogued file record. Tags is never persisted on the row; it is
// filled in at read time from the file_tags relationship rows.
type File struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`

	Name string `gorm:"size:768;uniqueIndex;not null" json:"name"`
	Tags []Tag  `gorm:"-" json:"tags"`
}

// TableName 指定表名
func (File) TableName() string {
	return "files"
}
