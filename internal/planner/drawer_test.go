package planner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivu-app/journey-planner/internal/domain"
	"github.com/vivu-app/journey-planner/internal/planner"
)

func TestDrawer_Open(t *testing.T) {
	stored := storedJourney()
	var loadingDuringCall bool
	var d *planner.Drawer
	api := &mockAPI{listJourneys: func(context.Context) ([]domain.Journey, error) {
		loadingDuringCall = d.Loading()
		return []domain.Journey{stored}, nil
	}}
	n := &recordingNotifier{}
	d = planner.NewDrawer(api, n, discardLogger())

	require.NoError(t, d.Open(context.Background()))

	assert.True(t, loadingDuringCall)
	assert.False(t, d.Loading())
	assert.True(t, d.IsOpen())
	assert.Equal(t, []domain.Journey{stored}, d.Journeys())
}

func TestDrawer_OpenFailure(t *testing.T) {
	api := &mockAPI{listJourneys: func(context.Context) ([]domain.Journey, error) {
		return nil, errors.New("offline")
	}}
	n := &recordingNotifier{}
	d := planner.NewDrawer(api, n, discardLogger())

	require.Error(t, d.Open(context.Background()))

	assert.False(t, d.Loading())
	assert.Empty(t, d.Journeys())
	assert.Equal(t, []string{"Không thể tải danh sách hành trình"}, n.errors)
}

func openDrawer(t *testing.T, api *mockAPI) (*planner.Drawer, *recordingNotifier) {
	t.Helper()
	api.listJourneys = func(context.Context) ([]domain.Journey, error) {
		return []domain.Journey{storedJourney()}, nil
	}
	n := &recordingNotifier{}
	d := planner.NewDrawer(api, n, discardLogger())
	require.NoError(t, d.Open(context.Background()))
	return d, n
}

func TestDrawer_Rename(t *testing.T) {
	stored := storedJourney()
	api := &mockAPI{updateJourney: func(_ context.Context, id uuid.UUID, patch domain.JourneyPatch) (domain.Journey, error) {
		assert.Equal(t, stored.ID, id)
		require.NotNil(t, patch.Name)
		assert.Nil(t, patch.Locations)
		j := stored
		j.Name = *patch.Name
		return j, nil
	}}
	d, n := openDrawer(t, api)

	require.NoError(t, d.Rename(context.Background(), stored.ID, "Xuyên Việt"))

	assert.Equal(t, "Xuyên Việt", d.Journeys()[0].Name)
	assert.Equal(t, []string{"Đã cập nhật tên hành trình"}, n.successes)
}

func TestDrawer_RenameUnchangedSkipsCall(t *testing.T) {
	api := &mockAPI{updateJourney: func(context.Context, uuid.UUID, domain.JourneyPatch) (domain.Journey, error) {
		t.Fatal("update must not be called")
		return domain.Journey{}, nil
	}}
	d, n := openDrawer(t, api)

	require.NoError(t, d.Rename(context.Background(), storedJourney().ID, "Bắc tiến"))
	assert.Empty(t, n.successes)
}

func TestDrawer_RenameBlank(t *testing.T) {
	d, _ := openDrawer(t, &mockAPI{})

	err := d.Rename(context.Background(), storedJourney().ID, "  ")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Bắc tiến", d.Journeys()[0].Name)
}

func TestDrawer_RenameFailure(t *testing.T) {
	api := &mockAPI{updateJourney: func(context.Context, uuid.UUID, domain.JourneyPatch) (domain.Journey, error) {
		return domain.Journey{}, errors.New("offline")
	}}
	d, n := openDrawer(t, api)

	require.Error(t, d.Rename(context.Background(), storedJourney().ID, "Xuyên Việt"))

	assert.Equal(t, "Bắc tiến", d.Journeys()[0].Name)
	assert.Equal(t, []string{"Lỗi khi cập nhật tên"}, n.errors)
}

func TestDrawer_Select(t *testing.T) {
	d, _ := openDrawer(t, &mockAPI{})
	id := storedJourney().ID

	assert.Equal(t, id, d.Select(id))
	assert.False(t, d.IsOpen())
}

func TestDrawer_RenameIgnoresSurroundingSpace(t *testing.T) {
	api := &mockAPI{updateJourney: func(context.Context, uuid.UUID, domain.JourneyPatch) (domain.Journey, error) {
		t.Fatal("update must not be called")
		return domain.Journey{}, nil
	}}
	d, n := openDrawer(t, api)

	require.NoError(t, d.Rename(context.Background(), storedJourney().ID, "Bắc tiến  "))
	assert.Empty(t, n.successes)
}

func TestDrawer_RenameSendsTrimmedName(t *testing.T) {
	stored := storedJourney()
	var sent string
	api := &mockAPI{updateJourney: func(_ context.Context, _ uuid.UUID, patch domain.JourneyPatch) (domain.Journey, error) {
		sent = *patch.Name
		j := stored
		j.Name = *patch.Name
		return j, nil
	}}
	d, _ := openDrawer(t, api)

	require.NoError(t, d.Rename(context.Background(), stored.ID, "  Xuyên Việt "))

	assert.Equal(t, "Xuyên Việt", sent)
	assert.Equal(t, "Xuyên Việt", d.Journeys()[0].Name)
}
