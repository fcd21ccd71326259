package models

// Subject is a teachable subject in the catalogue.
type Subject struct {
	ID   uint   `gorm:"primaryKey" json:"subject_id"`
	Name string `gorm:"size:128;uniqueIndex;not null" json:"subject_name"`
}

// TutorSubject is a tutor's offering of one subject at one grade and medium.
// Sessions are booked against this unit.
type TutorSubject struct {
	ID             uint    `gorm:"primaryKey" json:"tutor_subject_id"`
	TutorID        uint    `gorm:"not null;index" json:"tutor_id"`
	Tutor          Tutor   `gorm:"foreignKey:TutorID" json:"tutor"`
	SubjectID      uint    `gorm:"not null" json:"subject_id"`
	Subject        Subject `json:"subject"`
	Grade          string  `gorm:"size:16;not null" json:"grade"`
	TeachingMedium string  `gorm:"size:32;not null" json:"teaching_medium"`
}
