package veterinarian

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vetstack/vetclinic-api/internal/email"
	"github.com/vetstack/vetclinic-api/internal/model"
	apperrors "github.com/vetstack/vetclinic-api/pkg/errors"
	"github.com/vetstack/vetclinic-api/pkg/logger"
	"github.com/vetstack/vetclinic-api/pkg/security"
)

type fakeVetRepo struct {
	vets   map[int64]*model.Veterinarian
	nextID int64
}

func newFakeVetRepo() *fakeVetRepo {
	return &fakeVetRepo{vets: make(map[int64]*model.Veterinarian), nextID: 1}
}

func (f *fakeVetRepo) Create(_ context.Context, vet *model.Veterinarian) error {
	for _, existing := range f.vets {
		if existing.Email == vet.Email {
			return apperrors.Conflict("email already registered", nil)
		}
	}
	vet.ID = f.nextID
	f.nextID++
	vet.CreatedAt = time.Now()
	vet.UpdatedAt = vet.CreatedAt
	stored := *vet
	f.vets[vet.ID] = &stored
	return nil
}

func (f *fakeVetRepo) Get(_ context.Context, id int64) (*model.Veterinarian, error) {
	vet, ok := f.vets[id]
	if !ok {
		return nil, apperrors.NotFound("veterinarian", nil)
	}
	copy := *vet
	return &copy, nil
}

func (f *fakeVetRepo) GetByEmail(_ context.Context, email string) (*model.Veterinarian, error) {
	for _, vet := range f.vets {
		if vet.Email == email {
			copy := *vet
			return &copy, nil
		}
	}
	return nil, apperrors.NotFound("veterinarian", nil)
}

func (f *fakeVetRepo) Update(_ context.Context, vet *model.Veterinarian) error {
	if _, ok := f.vets[vet.ID]; !ok {
		return apperrors.NotFound("veterinarian", nil)
	}
	stored := *vet
	stored.UpdatedAt = time.Now()
	f.vets[vet.ID] = &stored
	return nil
}

func (f *fakeVetRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.vets[id]; !ok {
		return apperrors.NotFound("veterinarian", nil)
	}
	delete(f.vets, id)
	return nil
}

func (f *fakeVetRepo) List(_ context.Context) ([]*model.Veterinarian, error) {
	ids := make([]int64, 0, len(f.vets))
	for id := range f.vets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	vets := make([]*model.Veterinarian, 0, len(ids))
	for _, id := range ids {
		copy := *f.vets[id]
		vets = append(vets, &copy)
	}
	return vets, nil
}

type fakeApptRepo struct {
	appointments []*model.Appointment
}

func (f *fakeApptRepo) ListForVeterinarian(_ context.Context, veterinarianID int64) ([]*model.Appointment, error) {
	var result []*model.Appointment
	for _, a := range f.appointments {
		if a.VeterinarianID == veterinarianID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeApptRepo) ListAll(_ context.Context) ([]*model.Appointment, error) {
	return f.appointments, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.OutboxStatus, _ *string) error {
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type testEnv struct {
	svc    *Service
	vets   *fakeVetRepo
	appts  *fakeApptRepo
	outbox *fakeOutboxRepo
	hasher security.PasswordHasher
}

func newTestEnv() *testEnv {
	vets := newFakeVetRepo()
	appts := &fakeApptRepo{}
	outbox := &fakeOutboxRepo{}
	hasher := security.NewBcryptHasher(bcrypt.MinCost)

	svc := NewService(vets, appts, outbox, hasher,
		security.DefaultPasswordPolicy(), email.Noop(), logger.NewLogger(nil))

	return &testEnv{svc: svc, vets: vets, appts: appts, outbox: outbox, hasher: hasher}
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		FirstName: "Anna",
		LastName:  "Berg",
		Email:     "anna@clinic.test",
		Password:  "GoodPass1!",
		Sex:       "female",
		Languages: "norwegian, english",
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	env := newTestEnv()

	vet, err := env.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.NotEqual(t, "GoodPass1!", vet.PasswordHash)
	assert.True(t, env.hasher.Compare(vet.PasswordHash, "GoodPass1!"))
}

func TestRegister_WeakPasswordPersistsNothing(t *testing.T) {
	env := newTestEnv()

	req := registerRequest()
	req.Password = "ab"

	_, err := env.svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation, apperrors.AsAppError(err).Code)
	assert.Empty(t, env.vets.vets)
	assert.Empty(t, env.outbox.events)
}

func TestRegister_EmptyOptionalFieldsStoredAsNull(t *testing.T) {
	env := newTestEnv()

	req := registerRequest()
	req.Languages = ""
	req.Description = ""

	vet, err := env.svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, vet.Languages)
	assert.Nil(t, vet.Description)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = env.svc.Register(context.Background(), registerRequest())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrConflict, apperrors.AsAppError(err).Code)
}

func TestRegister_EmitsCreatedEvent(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	require.Len(t, env.outbox.events, 1)
	assert.Equal(t, EventVeterinarianCreated, env.outbox.events[0].EventType)
}

func TestVeterinarianJSON_NeverExposesPassword(t *testing.T) {
	env := newTestEnv()

	vet, err := env.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	body, err := json.Marshal(vet)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), vet.PasswordHash)

	public, err := json.Marshal(vet.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(public), "password")
	assert.NotContains(t, string(public), "is_admin")
}

func TestUpdate_InvalidPatchPersistsNothing(t *testing.T) {
	env := newTestEnv()

	vet, err := env.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	req, err := DecodeUpdateRequest(strings.NewReader(`{"languages": "german", "first_name": ""}`))
	require.NoError(t, err)

	_, err = env.svc.Update(context.Background(), vet.ID, req)
	require.Error(t, err)

	stored, err := env.svc.GetFull(context.Background(), vet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", stored.FirstName)
	require.NotNil(t, stored.Languages)
	assert.Equal(t, "norwegian, english", *stored.Languages)
}

func TestUpdate_AppliesPatchAndEmitsEvent(t *testing.T) {
	env := newTestEnv()

	vet, err := env.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	req, err := DecodeUpdateRequest(strings.NewReader(`{"first_name": "Berit", "languages": ""}`))
	require.NoError(t, err)

	updated, err := env.svc.Update(context.Background(), vet.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Berit", updated.FirstName)
	assert.Nil(t, updated.Languages)

	require.Len(t, env.outbox.events, 2)
	assert.Equal(t, EventVeterinarianUpdated, env.outbox.events[1].EventType)
}

func TestUpdate_UnknownVeterinarian(t *testing.T) {
	env := newTestEnv()

	req, err := DecodeUpdateRequest(strings.NewReader(`{"first_name": "Berit"}`))
	require.NoError(t, err)

	_, err = env.svc.Update(context.Background(), 42, req)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.AsAppError(err).Code)
}

func TestDelete_ReturnsDeletedRecord(t *testing.T) {
	env := newTestEnv()

	vet, err := env.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	deleted, err := env.svc.Delete(context.Background(), vet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Veterinarian Anna Berg deleted successfully", DeletedMessage(deleted))

	_, err = env.svc.GetFull(context.Background(), vet.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.AsAppError(err).Code)
}

func TestDelete_UnknownVeterinarian(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.AsAppError(err).Code)
}

func TestGetAppointments_UnknownVeterinarian(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.GetAppointments(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.AsAppError(err).Code)
}

func TestGetAppointments_NoneReturnsEmptySlice(t *testing.T) {
	env := newTestEnv()

	vet, err := env.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	appointments, err := env.svc.GetAppointments(context.Background(), vet.ID)
	require.NoError(t, err)
	require.NotNil(t, appointments)
	assert.Empty(t, appointments)
}

func TestListAllAppointments_IncludesVeterinariansWithoutAny(t *testing.T) {
	env := newTestEnv()

	first, err := env.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	second := registerRequest()
	second.Email = "berit@clinic.test"
	vet2, err := env.svc.Register(context.Background(), second)
	require.NoError(t, err)

	env.appts.appointments = []*model.Appointment{
		{ID: 1, VeterinarianID: first.ID, AnimalName: "Rex", OwnerName: "Ola"},
	}

	result, err := env.svc.ListAllAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, first.ID, result[0].ID)
	assert.Len(t, result[0].Appointments, 1)

	assert.Equal(t, vet2.ID, result[1].ID)
	require.NotNil(t, result[1].Appointments)
	assert.Empty(t, result[1].Appointments)
}

func TestListPublic_ProjectsRecords(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	vets, err := env.svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, vets, 1)
	assert.Equal(t, "Anna", vets[0].FirstName)
	assert.Equal(t, "anna@clinic.test", vets[0].Email)
}
