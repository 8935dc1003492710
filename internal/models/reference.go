package models

// Area is a location inside a building that complaints refer to.
type Area struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:area_name;type:text;not null" json:"area_name"`
}

// ComplaintType classifies complaints. Queue routes complaints of this type to
// the responsible manager role and is stable across renames.
type ComplaintType struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"column:type_name;type:text;not null" json:"type_name"`
	Queue string `gorm:"type:varchar(20);not null;default:'facilities'" json:"queue"`
}
