package iam

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/terraconstructs/logbook/internal/auth"
	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/terraconstructs/logbook/internal/repository"
)

// TokenEncoder issues bearer tokens. *auth.TokenCodec implements it.
type TokenEncoder interface {
	Encode(subjectID string, isAdmin bool) (string, error)
}

// Dependencies groups everything Service needs.
type Dependencies struct {
	Students repository.StudentRepository
	Admins   repository.AdminRepository
	Courses  repository.CourseRepository
	Tokens   TokenEncoder
	Hasher   auth.PasswordHasher
}

// Service registers principals and exchanges passwords for tokens.
type Service struct {
	students repository.StudentRepository
	admins   repository.AdminRepository
	courses  repository.CourseRepository
	tokens   TokenEncoder
	hasher   auth.PasswordHasher
	validate *validator.Validate
}

// NewService creates a registration and login service.
func NewService(deps Dependencies) *Service {
	return &Service{
		students: deps.Students,
		admins:   deps.Admins,
		courses:  deps.Courses,
		tokens:   deps.Tokens,
		hasher:   deps.Hasher,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterStudentInput is the payload of POST /student/register.
type RegisterStudentInput struct {
	MatricNum  string `json:"matric_num" validate:"required"`
	Password   string `json:"password" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	MiddleName string `json:"middle_name"`
	// Course is a course code ("CS") or full name ("Computer Science").
	Course string `json:"course" validate:"required"`
}

// RegisterAdminInput is the payload of POST /admin/register.
type RegisterAdminInput struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// StudentLoginInput is the payload of POST /student/login.
type StudentLoginInput struct {
	MatricNum string `json:"matric_num" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// AdminLoginInput is the payload of POST /admin/login.
type AdminLoginInput struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterStudent creates a student account.
func (s *Service) RegisterStudent(ctx context.Context, in RegisterStudentInput) (*models.Student, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, ErrIncompleteRequestData
	}

	_, err := s.students.GetByMatricNum(ctx, in.MatricNum)
	switch {
	case err == nil:
		return nil, ErrDuplicateIdentity
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check existing student: %w", err)
	}

	course, err := s.resolveCourse(ctx, in.Course)
	if err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		MatricNum:    in.MatricNum,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		MiddleName:   in.MiddleName,
		CourseCode:   course.Code,
		PasswordHash: hash,
		Course:       course,
	}
	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("register student: %w", err)
	}

	log.Printf("Registered student %s (%s)", student.MatricNum, course.Code)
	return student, nil
}

// RegisterAdmin creates an administrator account.
func (s *Service) RegisterAdmin(ctx context.Context, in RegisterAdminInput) (*models.Admin, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, ErrIncompleteRequestData
	}

	_, err := s.admins.GetByName(ctx, in.Name)
	switch {
	case err == nil:
		return nil, ErrDuplicateIdentity
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check existing admin: %w", err)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{Name: in.Name, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("register admin: %w", err)
	}

	log.Printf("Registered admin %d (%s)", admin.ID, admin.Name)
	return admin, nil
}

// LoginStudent verifies a student's password and issues a student token.
func (s *Service) LoginStudent(ctx context.Context, in StudentLoginInput) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", ErrIncompleteRequestData
	}

	student, err := s.students.GetByMatricNum(ctx, in.MatricNum)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify("", in.Password)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("login student: %w", err)
	}
	if !s.hasher.Verify(student.PasswordHash, in.Password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Encode(student.MatricNum, false)
	if err != nil {
		return "", fmt.Errorf("issue student token: %w", err)
	}
	return token, nil
}

// LoginAdmin verifies an administrator's password and issues an admin token.
func (s *Service) LoginAdmin(ctx context.Context, in AdminLoginInput) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", ErrIncompleteRequestData
	}

	admin, err := s.admins.GetByName(ctx, in.Name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify("", in.Password)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("login admin: %w", err)
	}
	if !s.hasher.Verify(admin.PasswordHash, in.Password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Encode(admin.SubjectID(), true)
	if err != nil {
		return "", fmt.Errorf("issue admin token: %w", err)
	}
	return token, nil
}

// resolveCourse accepts a course code first, then a full course name.
func (s *Service) resolveCourse(ctx context.Context, codeOrName string) (*models.Course, error) {
	course, err := s.courses.GetByCode(ctx, codeOrName)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("resolve course: %w", err)
	}

	course, err = s.courses.GetByName(ctx, codeOrName)
	if err == nil {
		return course, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnknownCourse
	}
	return nil, fmt.Errorf("resolve course: %w", err)
}

func (s *Service) hashPassword(plaintext string) (string, error) {
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", ErrIncompleteRequestData
		}
		return "", err
	}
	return hash, nil
}
