package usecase

import (
	"time"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// UserUseCase consultas y administración de usuarios. El alta y el login viven en auth.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByID devuelve el usuario o ErrNotFound. companyID acota la consulta al
// tenant del token: nadie ve usuarios de otra empresa.
func (uc *UserUseCase) GetByID(id, companyID string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if companyID != "" && user.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return userToResponse(user), nil
}

// ListByCompany lista los usuarios de la empresa con paginación.
func (uc *UserUseCase) ListByCompany(companyID string, limit, offset int) (*dto.UserListResponse, error) {
	users, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *userToResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// UpdateStatus suspende o reactiva una cuenta. callerID es quien ejecuta la
// operación: un admin no puede dejar su propia cuenta fuera de servicio.
func (uc *UserUseCase) UpdateStatus(callerID, id, companyID, status string) (*dto.UserResponse, error) {
	if !entity.ValidUserStatus(status) {
		return nil, domain.NewValidationError("status", "estado de cuenta desconocido: "+status)
	}
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if companyID != "" && user.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if callerID == id && status != entity.UserStatusActive {
		return nil, domain.NewValidationError("status", "no puede desactivar su propia cuenta")
	}
	user.Status = status
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func userToResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
