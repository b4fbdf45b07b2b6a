package models

type TagKind string

const (
	TagKindRole  TagKind = "ROLE"
	TagKindTool  TagKind = "TOOL"
	TagKindStyle TagKind = "STYLE"
	TagKindGenre TagKind = "GENRE"
)

func ValidTagKind(k TagKind) bool {
	switch k {
	case TagKindRole, TagKindTool, TagKindStyle, TagKindGenre:
		return true
	}
	return false
}

type SkillTag struct {
	ID   uint    `gorm:"primaryKey" json:"id"`
	Name string  `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Kind TagKind `gorm:"type:varchar(8);not null;default:'TOOL'" json:"kind"`
}
