package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/application/usecase"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

const userTestCompany = "empresa-1"

// fakeUserStore implementa solo los métodos del puerto que usa UserUseCase;
// el resto queda en la interfaz embebida y entra en pánico si se toca.
type fakeUserStore struct {
	repository.UserRepository
	byID    map[string]*entity.User
	updated *entity.User
}

func (f *fakeUserStore) GetByID(id string) (*entity.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserStore) Update(u *entity.User) error {
	f.updated = u
	return nil
}

func (f *fakeUserStore) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.byID {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func newUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[string]*entity.User{
		"admin-1": {
			ID: "admin-1", CompanyID: userTestCompany, Email: "admin@acme.co",
			Name: "Admin", Role: entity.RoleAdmin, Status: entity.UserStatusActive,
		},
		"vend-1": {
			ID: "vend-1", CompanyID: userTestCompany, Email: "ventas@acme.co",
			Name: "Vendedor", Role: entity.RoleVendedor, Status: entity.UserStatusActive,
		},
		"ajeno-1": {
			ID: "ajeno-1", CompanyID: "empresa-2", Email: "otro@rival.co",
			Name: "Ajeno", Role: entity.RoleAdmin, Status: entity.UserStatusActive,
		},
	}}
}

func TestGetByID_DevuelveUsuarioDeLaEmpresa(t *testing.T) {
	uc := usecase.NewUserUseCase(newUserStore())

	out, err := uc.GetByID("vend-1", userTestCompany)
	require.NoError(t, err)
	assert.Equal(t, "ventas@acme.co", out.Email)
	assert.Equal(t, entity.RoleVendedor, out.Role)
}

func TestGetByID_NoExiste(t *testing.T) {
	uc := usecase.NewUserUseCase(newUserStore())

	_, err := uc.GetByID("fantasma", userTestCompany)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un usuario de otra empresa existe en la tabla pero no es visible para el tenant.
func TestGetByID_OtraEmpresaEsForbidden(t *testing.T) {
	uc := usecase.NewUserUseCase(newUserStore())

	_, err := uc.GetByID("ajeno-1", userTestCompany)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatus_SuspendeCuenta(t *testing.T) {
	store := newUserStore()
	uc := usecase.NewUserUseCase(store)

	out, err := uc.UpdateStatus("admin-1", "vend-1", userTestCompany, entity.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusSuspended, out.Status)

	require.NotNil(t, store.updated, "el cambio debe persistirse")
	assert.Equal(t, "vend-1", store.updated.ID)
	assert.False(t, store.updated.UpdatedAt.IsZero())
}

func TestUpdateStatus_EstadoDesconocido(t *testing.T) {
	uc := usecase.NewUserUseCase(newUserStore())

	_, err := uc.UpdateStatus("admin-1", "vend-1", userTestCompany, "congelado")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_OtraEmpresaEsForbidden(t *testing.T) {
	uc := usecase.NewUserUseCase(newUserStore())

	_, err := uc.UpdateStatus("admin-1", "ajeno-1", userTestCompany, entity.UserStatusSuspended)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// El admin que ejecuta la operación no puede dejar su propia cuenta por fuera.
func TestUpdateStatus_PropiaCuentaNoSeSuspende(t *testing.T) {
	store := newUserStore()
	uc := usecase.NewUserUseCase(store)

	_, err := uc.UpdateStatus("admin-1", "admin-1", userTestCompany, entity.UserStatusSuspended)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, store.updated, "no debe persistirse nada")
}

func TestListByCompany_SoloDelTenant(t *testing.T) {
	uc := usecase.NewUserUseCase(newUserStore())

	out, err := uc.ListByCompany(userTestCompany, 20, 0)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	for _, u := range out.Items {
		assert.Equal(t, userTestCompany, u.CompanyID)
	}
	assert.Equal(t, 20, out.Page.Limit)
}
