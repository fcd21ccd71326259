package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sheda3838/tuteskillz-backend/internal/dto"
	"github.com/sheda3838/tuteskillz-backend/internal/models"
	"github.com/sheda3838/tuteskillz-backend/internal/repository"
)

var (
	// ErrEmailTaken indicates the email already belongs to an account.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AccountService registers students and tutors and authenticates logins.
type AccountService interface {
	RegisterStudent(ctx context.Context, payload dto.StudentRegistration) (dto.RegistrationResponse, error)
	RegisterTutor(ctx context.Context, payload dto.TutorRegistration) (dto.RegistrationResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type accountService struct {
	users     repository.UserRepository
	uow       repository.UnitOfWork
	validator *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAccountService constructs the account service.
func NewAccountService(users repository.UserRepository, uow repository.UnitOfWork, validate *validator.Validate, jwtSecret string, logger zerolog.Logger) AccountService {
	return &accountService{
		users:     users,
		uow:       uow,
		validator: validate,
		jwtSecret: jwtSecret,
		tokenTTL:  24 * time.Hour,
		logger:    logger.With().Str("component", "account_service").Logger(),
		now:       time.Now,
	}
}

func (s *accountService) RegisterStudent(ctx context.Context, payload dto.StudentRegistration) (dto.RegistrationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RegistrationResponse{}, err
	}

	if err := s.ensureEmailFree(ctx, payload.Email); err != nil {
		return dto.RegistrationResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.RegistrationResponse{}, err
	}

	var user models.User
	err = s.uow.Do(ctx, func(r repository.Repositories) error {
		address := models.Address{
			Street:     payload.Address.Street,
			City:       payload.Address.City,
			Province:   payload.Address.Province,
			PostalCode: payload.Address.PostalCode,
		}
		if err := r.Users.CreateAddress(ctx, &address); err != nil {
			return err
		}

		guardian := models.Guardian{
			FullName: payload.Guardian.FullName,
			Email:    payload.Guardian.Email,
			Phone:    payload.Guardian.Phone,
		}
		if err := r.Users.CreateGuardian(ctx, &guardian); err != nil {
			return err
		}

		user = models.User{
			FullName:     payload.FullName,
			Gender:       payload.Gender,
			DateOfBirth:  parseDateOfBirth(payload.DateOfBirth),
			Phone:        payload.Phone,
			AddressID:    &address.ID,
			Email:        payload.Email,
			Password:     string(hashed),
			Role:         models.RoleStudent,
			ProfilePhoto: payload.ProfilePhoto,
		}
		if err := r.Users.Create(ctx, &user); err != nil {
			return err
		}

		return r.Students.Create(ctx, &models.Student{
			UserID:     user.ID,
			GuardianID: &guardian.ID,
			Grade:      payload.Grade,
		})
	})
	if err != nil {
		return dto.RegistrationResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("student registered")

	return dto.RegistrationResponse{UserID: user.ID, Role: models.RoleStudent}, nil
}

func (s *accountService) RegisterTutor(ctx context.Context, payload dto.TutorRegistration) (dto.RegistrationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RegistrationResponse{}, err
	}

	if err := s.ensureEmailFree(ctx, payload.Email); err != nil {
		return dto.RegistrationResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.RegistrationResponse{}, err
	}

	var user models.User
	err = s.uow.Do(ctx, func(r repository.Repositories) error {
		address := models.Address{
			Street:     payload.Address.Street,
			City:       payload.Address.City,
			Province:   payload.Address.Province,
			PostalCode: payload.Address.PostalCode,
		}
		if err := r.Users.CreateAddress(ctx, &address); err != nil {
			return err
		}

		user = models.User{
			FullName:     payload.FullName,
			Gender:       payload.Gender,
			DateOfBirth:  parseDateOfBirth(payload.DateOfBirth),
			Phone:        payload.Phone,
			AddressID:    &address.ID,
			Email:        payload.Email,
			Password:     string(hashed),
			Role:         models.RoleTutor,
			ProfilePhoto: payload.ProfilePhoto,
		}
		if err := r.Users.Create(ctx, &user); err != nil {
			return err
		}

		if err := r.Tutors.Create(ctx, &models.Tutor{
			UserID:     user.ID,
			School:     payload.School,
			University: payload.University,
			Bio:        payload.Bio,
		}); err != nil {
			return err
		}

		// All offerings go in as one batched insert.
		offerings := make([]models.TutorSubject, 0, len(payload.Subjects))
		for _, subject := range payload.Subjects {
			catalogued, err := r.Subjects.GetOrCreateByName(ctx, subject.SubjectName)
			if err != nil {
				return err
			}
			offerings = append(offerings, models.TutorSubject{
				TutorID:        user.ID,
				SubjectID:      catalogued.ID,
				Grade:          subject.Grade,
				TeachingMedium: subject.TeachingMedium,
			})
		}
		return r.Subjects.CreateTutorSubjects(ctx, offerings)
	})
	if err != nil {
		return dto.RegistrationResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Int("subjects", len(payload.Subjects)).Msg("tutor registered")

	return dto.RegistrationResponse{UserID: user.ID, Role: models.RoleTutor}, nil
}

func (s *accountService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  s.now().Add(s.tokenTTL).Unix(),
		"iat":  s.now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Role:     user.Role,
		FullName: user.FullName,
	}, nil
}

func (s *accountService) ensureEmailFree(ctx context.Context, email string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func parseDateOfBirth(value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &parsed
}
