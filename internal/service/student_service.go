package service

import (
	domain "activity-registration/internal/domain/enrollment"
	interfaces "activity-registration/internal/interfaces/infrastructure"
	serviceInterfaces "activity-registration/internal/interfaces/service"
	"context"
	"fmt"

	"github.com/google/uuid"
)

var _ serviceInterfaces.StudentService = (*StudentService)(nil)

type CreateStudentRequest = serviceInterfaces.CreateStudentRequest

type StudentService struct {
	studentRepo interfaces.StudentRepository
}

func NewStudentService(studentRepo interfaces.StudentRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo}
}

func (s *StudentService) CreateStudent(ctx context.Context, req *CreateStudentRequest) (*domain.Student, error) {
	existing, err := s.studentRepo.GetByStudentNumber(ctx, req.StudentNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check student number: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: student number %s taken", domain.ErrAlreadyEnrolled, req.StudentNumber)
	}

	student := &domain.Student{
		StudentID:     uuid.New(),
		StudentNumber: req.StudentNumber,
		FullName:      req.FullName,
		GradeLevel:    req.GradeLevel,
		Status:        "active",
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	return student, nil
}

func (s *StudentService) GetStudent(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student %s", domain.ErrNotFound, id)
	}
	return student, nil
}
