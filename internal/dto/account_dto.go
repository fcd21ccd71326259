package dto

// AddressPayload carries postal address fields at registration.
type AddressPayload struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// GuardianPayload carries the guardian contact registered with a student.
type GuardianPayload struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
}

// StudentRegistration is the payload for creating a student account.
type StudentRegistration struct {
	FullName     string          `json:"full_name" validate:"required"`
	Gender       string          `json:"gender"`
	DateOfBirth  string          `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email" validate:"required,email"`
	Password     string          `json:"password" validate:"required,min=8"`
	ProfilePhoto string          `json:"profile_photo"`
	Grade        string          `json:"grade" validate:"required"`
	Address      AddressPayload  `json:"address"`
	Guardian     GuardianPayload `json:"guardian" validate:"required"`
}

// TutorSubjectPayload declares one offering a tutor registers with.
type TutorSubjectPayload struct {
	SubjectName    string `json:"subject_name" validate:"required"`
	Grade          string `json:"grade" validate:"required"`
	TeachingMedium string `json:"teaching_medium" validate:"required"`
}

// TutorRegistration is the payload for creating a tutor account together
// with the offerings it teaches.
type TutorRegistration struct {
	FullName     string                `json:"full_name" validate:"required"`
	Gender       string                `json:"gender"`
	DateOfBirth  string                `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Phone        string                `json:"phone"`
	Email        string                `json:"email" validate:"required,email"`
	Password     string                `json:"password" validate:"required,min=8"`
	ProfilePhoto string                `json:"profile_photo"`
	School       string                `json:"school"`
	University   string                `json:"university"`
	Bio          string                `json:"bio"`
	Address      AddressPayload        `json:"address"`
	Subjects     []TutorSubjectPayload `json:"subjects" validate:"required,min=1,dive"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the signed bearer token and basic identity.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// RegistrationResponse acknowledges a created account.
type RegistrationResponse struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}
