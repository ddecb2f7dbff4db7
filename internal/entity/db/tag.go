package db

import "time"

// Tag 表示可以挂到文件上的命名标签。
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name string `gorm:"size:256;uniqueIndex;not null" json:"name"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// FileTag 文件与标签的关联表，只有两个外键组成的联合主键。
type FileTag struct {
	FileID uint `gorm:"primaryKey;autoIncrement:false" json:"file_id"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
}

// TableName 指定表名
func (FileTag) TableName() string {
	return "file_tags"
}
