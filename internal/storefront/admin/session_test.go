package admin

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warli-jewels/storefront/internal/storefront/client"
	"github.com/warli-jewels/storefront/internal/storefront/localstore"
	"github.com/warli-jewels/storefront/internal/storefront/notify"
)

type stubCatalog struct {
	records []client.Record

	createCalls int
	updateCalls int
	deleteCalls int

	failWith     error
	onUpdate     func()
	nextID       int
	lastUpdateID string
}

func (s *stubCatalog) FetchProducts(context.Context) ([]client.Record, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.records, nil
}

func (s *stubCatalog) CreateProduct(_ context.Context, req client.CreateRequest) (client.Record, error) {
	s.createCalls++
	if s.failWith != nil {
		return client.Record{}, s.failWith
	}
	s.nextID++
	return client.Record{
		ID: "srv-" + string(rune('0'+s.nextID)), Name: req.Name, Description: req.Description,
		Price: req.Price, Image: req.Image, Category: req.Category, Source: "custom", InStock: true,
	}, nil
}

func (s *stubCatalog) UpdateProduct(_ context.Context, id string, req client.UpdateRequest) (client.Record, error) {
	s.updateCalls++
	s.lastUpdateID = id
	if s.onUpdate != nil {
		s.onUpdate()
	}
	if s.failWith != nil {
		return client.Record{}, s.failWith
	}
	record := client.Record{ID: id, Source: "custom", InStock: true}
	if req.Name != nil {
		record.Name = *req.Name
	}
	if req.Price != nil {
		record.Price = *req.Price
	}
	return record, nil
}

func (s *stubCatalog) DeleteProduct(_ context.Context, id string) (client.Record, error) {
	s.deleteCalls++
	if s.failWith != nil {
		return client.Record{}, s.failWith
	}
	return client.Record{ID: id}, nil
}

func (s *stubCatalog) ClearCustomProducts(context.Context) (int, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	return len(s.records), nil
}

func newTestSession(t *testing.T, catalog *stubCatalog) *Session {
	t.Helper()
	store := localstore.Open(filepath.Join(t.TempDir(), "state.json"), nil)
	return NewSession(catalog, store, notify.New(nil), nil)
}

func validForm() Form {
	return Form{Name: "Tribal Pendant", Description: "Hand painted", Price: "1499.50", Image: "asset/pendant.jpg"}
}

func seedProduct(t *testing.T, s *Session, catalog *stubCatalog) string {
	t.Helper()
	require.NoError(t, s.Submit(context.Background(), validForm()))
	mirror := s.Mirror()
	require.NotEmpty(t, mirror)
	return mirror[len(mirror)-1].ID.String()
}

func TestSubmitCreatesInCreatingState(t *testing.T) {
	catalog := &stubCatalog{}
	s := newTestSession(t, catalog)

	require.NoError(t, s.Submit(context.Background(), validForm()))

	assert.Equal(t, 1, catalog.createCalls)
	state, _ := s.State()
	assert.Equal(t, StateCreating, state)
	mirror := s.Mirror()
	require.Len(t, mirror, 1)
	assert.True(t, mirror[0].ID.IsRemote(), "mirror carries the server-assigned id")
}

func TestSubmitWithEmptyNameSkipsRemoteCall(t *testing.T) {
	catalog := &stubCatalog{}
	s := newTestSession(t, catalog)
	id := seedProduct(t, s, catalog)
	_, ok := s.EnterEdit(id)
	require.True(t, ok)

	form := validForm()
	form.Name = "  "
	err := s.Submit(context.Background(), form)

	require.Error(t, err)
	assert.True(t, client.IsValidation(err))
	assert.Zero(t, catalog.updateCalls, "validation failures never reach the service")
	state, editing := s.State()
	assert.Equal(t, StateEditing, state)
	assert.Equal(t, id, editing)
}

func TestSubmitRejectsUnparsablePrice(t *testing.T) {
	catalog := &stubCatalog{}
	s := newTestSession(t, catalog)

	form := validForm()
	form.Price = "twelve"
	err := s.Submit(context.Background(), form)

	require.Error(t, err)
	assert.True(t, client.IsValidation(err))
	assert.Zero(t, catalog.createCalls)
}

func TestEnterEditUnknownIDIsNoOp(t *testing.T) {
	s := newTestSession(t, &stubCatalog{})
	_, ok := s.EnterEdit("ghost")
	assert.False(t, ok)
	state, _ := s.State()
	assert.Equal(t, StateCreating, state)
}

func TestEnterEditThenSubmitUpdates(t *testing.T) {
	catalog := &stubCatalog{}
	s := newTestSession(t, catalog)
	id := seedProduct(t, s, catalog)

	form, ok := s.EnterEdit(id)
	require.True(t, ok)
	assert.Equal(t, "Tribal Pendant", form.Name)
	assert.Equal(t, "1499.5", form.Price)

	form.Name = "Tribal Pendant XL"
	require.NoError(t, s.Submit(context.Background(), form))

	assert.Equal(t, 1, catalog.updateCalls)
	assert.Equal(t, id, catalog.lastUpdateID)
	state, _ := s.State()
	assert.Equal(t, StateCreating, state, "a successful update ends the edit")
	mirror := s.Mirror()
	require.Len(t, mirror, 1)
	assert.Equal(t, "Tribal Pendant XL", mirror[0].Name)
}

func TestRemoveEditedProductInvalidatesSession(t *testing.T) {
	catalog := &stubCatalog{}
	s := newTestSession(t, catalog)
	id := seedProduct(t, s, catalog)

	_, ok := s.EnterEdit(id)
	require.True(t, ok)
	require.NoError(t, s.Remove(context.Background(), id))

	state, editing := s.State()
	assert.Equal(t, StateCreating, state)
	assert.Empty(t, editing)
	assert.Empty(t, s.Mirror())

	// With the session invalidated, the next submit is a create.
	require.NoError(t, s.Submit(context.Background(), validForm()))
	assert.Equal(t, 2, catalog.createCalls)
	assert.Zero(t, catalog.updateCalls)
}

func TestRemoveFailureLeavesMirrorIntact(t *testing.T) {
	catalog := &stubCatalog{}
	s := newTestSession(t, catalog)
	id := seedProduct(t, s, catalog)

	catalog.failWith = &client.NetworkError{Err: errors.New("connection reset")}
	err := s.Remove(context.Background(), id)

	require.Error(t, err)
	mirror := s.Mirror()
	require.Len(t, mirror, 1)
	assert.Equal(t, id, mirror[0].ID.String())
}

func TestUpdateFailureLeavesSessionEditing(t *testing.T) {
	catalog := &stubCatalog{}
	s := newTestSession(t, catalog)
	id := seedProduct(t, s, catalog)
	_, ok := s.EnterEdit(id)
	require.True(t, ok)

	catalog.failWith = &client.StorageUnavailableError{Message: "Database not connected"}
	form := validForm()
	err := s.Submit(context.Background(), form)

	require.Error(t, err)
	state, editing := s.State()
	assert.Equal(t, StateEditing, state)
	assert.Equal(t, id, editing)
	assert.Equal(t, "Tribal Pendant", s.Mirror()[0].Name)
}

func TestCancelDuringInFlightUpdateWins(t *testing.T) {
	catalog := &stubCatalog{}
	s := newTestSession(t, catalog)
	id := seedProduct(t, s, catalog)
	_, ok := s.EnterEdit(id)
	require.True(t, ok)

	// The cancel lands while the update is on the wire; the late completion
	// must not resurrect the edit or flip state behind the cancel's back.
	catalog.onUpdate = func() { s.Cancel() }
	form := validForm()
	form.Name = "Late Rename"
	require.NoError(t, s.Submit(context.Background(), form))

	state, editing := s.State()
	assert.Equal(t, StateCreating, state)
	assert.Empty(t, editing)
	// The server did apply the update, so the mirror reflects it.
	assert.Equal(t, "Late Rename", s.Mirror()[0].Name)
}

func TestClearAll(t *testing.T) {
	catalog := &stubCatalog{}
	s := newTestSession(t, catalog)
	seedProduct(t, s, catalog)
	seedProduct(t, s, catalog)

	count, err := s.ClearAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, s.Mirror())
	state, _ := s.State()
	assert.Equal(t, StateCreating, state)
}

func TestRefreshMirrorKeepsCustomSubset(t *testing.T) {
	catalog := &stubCatalog{records: []client.Record{
		{ID: "c1", Name: "Custom", Source: "custom"},
		{ID: "s1", Name: "Seeded", Source: "seed"},
		{LegacyID: "c2", Name: "Untagged"},
	}}
	s := newTestSession(t, catalog)

	require.NoError(t, s.RefreshMirror(context.Background()))

	mirror := s.Mirror()
	require.Len(t, mirror, 2)
	assert.Equal(t, "c1", mirror[0].ID.String())
	assert.Equal(t, "c2", mirror[1].ID.String())
}

func TestRefreshMirrorInvalidatesVanishedEditTarget(t *testing.T) {
	catalog := &stubCatalog{}
	s := newTestSession(t, catalog)
	id := seedProduct(t, s, catalog)
	_, ok := s.EnterEdit(id)
	require.True(t, ok)

	catalog.records = nil
	require.NoError(t, s.RefreshMirror(context.Background()))

	state, _ := s.State()
	assert.Equal(t, StateCreating, state)
}
