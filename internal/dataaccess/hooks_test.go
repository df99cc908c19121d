package dataaccess

import (
	"sync"
	"testing"
	"time"

	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/backend/backendtest"
	"fueldesk/dashboard-service/internal/fetch"
	"fueldesk/dashboard-service/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	notes []notify.Notification
}

func (r *recorder) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func TestStationsOrderedByName(t *testing.T) {
	fake := backendtest.New()
	fake.Seed("stations",
		backend.Row{"id": "s-2", "name": "Beta", "status": "active"},
		backend.Row{"id": "s-1", "name": "Alpha", "status": "active"},
	)
	release := fake.Hold("stations")

	f := Stations(fake)
	defer f.Close()

	require.True(t, f.Refresh())
	assert.True(t, f.State().Loading)
	release()
	f.Wait()

	st := f.State()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Err)
	require.NotNil(t, st.Data)
	require.Len(t, *st.Data, 2)
	assert.Equal(t, "Alpha", (*st.Data)[0].Name)
	assert.Equal(t, "Beta", (*st.Data)[1].Name)
}

func TestStationsBackendError(t *testing.T) {
	fake := backendtest.New()
	fake.FailWith("stations", &backend.Error{Message: "timeout"})
	rec := &recorder{}

	f := Stations(fake, fetch.WithNotifier(rec))
	defer f.Close()

	st := f.Load()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Data)
	require.NotNil(t, st.Err)
	assert.Equal(t, "timeout", st.Err.Message)
	require.Len(t, rec.notes, 1)
	assert.Equal(t, "Could not load stations", rec.notes[0].Title)
}

func TestStationNilIDSkipsBackend(t *testing.T) {
	fake := backendtest.New()
	f := Station(fake, nil)
	defer f.Close()

	st := f.Load()
	assert.Nil(t, st.Data)
	assert.Nil(t, st.Err)
	assert.False(t, st.Loading)
	assert.Empty(t, fake.Calls())

	blank := "  "
	g := Station(fake, &blank)
	defer g.Close()
	g.Load()
	assert.Empty(t, fake.Calls())
}

func TestStationMissing(t *testing.T) {
	fake := backendtest.New()
	id := "missing"
	f := Station(fake, &id)
	defer f.Close()

	st := f.Load()
	assert.Nil(t, st.Data)
	assert.False(t, st.Loading)
	require.NotNil(t, st.Err)
	assert.Equal(t, backend.CodeNotFound, st.Err.Code)
	assert.NotEmpty(t, st.Err.Message)
	assert.Equal(t, []string{"select:stations"}, fake.Calls())
}

func TestStationFound(t *testing.T) {
	fake := backendtest.New()
	fake.Seed("stations", backend.Row{"id": "s-1", "name": "Alpha", "created_at": time.Now().UTC()})
	id := "s-1"
	f := Station(fake, &id)
	defer f.Close()

	st := f.Load(id)
	require.NotNil(t, st.Data)
	assert.Equal(t, "Alpha", st.Data.Name)
}

func TestProfilesOrderedByFullName(t *testing.T) {
	fake := backendtest.New()
	fake.Seed("profiles",
		backend.Row{"id": "p-1", "full_name": "Zainab Musa", "role": "employee"},
		backend.Row{"id": "p-2", "full_name": "Ade Bello", "role": "admin"},
	)
	f := Profiles(fake)
	defer f.Close()

	st := f.Load()
	require.NotNil(t, st.Data)
	require.Len(t, *st.Data, 2)
	assert.Equal(t, "Ade Bello", (*st.Data)[0].FullName)
}
