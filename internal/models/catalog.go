package models

import (
	"time"
)

// Subject groups chapters; chapters group quizzes. Both are authored by
// admins and read-only to the exam engine.
type Subject struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;uniqueIndex;size:200"`
	Description *string `json:"description" gorm:"type:text"`
	CreatedBy   uint    `json:"created_by" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Chapters are admin-managed and cascade with their subject.
	Chapters []Chapter `json:"chapters,omitempty" gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
}

type Chapter struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	SubjectID   uint    `json:"subject_id" gorm:"not null;index"`
	Name        string  `json:"name" gorm:"not null;size:200"`
	Description *string `json:"description" gorm:"type:text"`
	CreatedBy   uint    `json:"created_by" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Quizzes []Quiz `json:"quizzes,omitempty" gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE"`
}

func (Subject) TableName() string {
	return "subjects"
}

func (Chapter) TableName() string {
	return "chapters"
}
