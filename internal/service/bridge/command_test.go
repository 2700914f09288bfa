package bridge

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/speaker-autogroup/internal/repository/household"
)

var errTestLoad = errors.New("test load error")

// memoryRepository is a minimal in-memory Repository implementation for tests.
type memoryRepository struct {
	// layout is returned from Load.
	layout *household.Layout
	// loadErr is the error to return from Load operations.
	loadErr error
	// saved stores the last layout passed to Save.
	saved *household.Layout
}

func (m *memoryRepository) Load(context.Context) (*household.Layout, error) {
	return m.layout, m.loadErr
}

func (m *memoryRepository) Save(_ context.Context, l *household.Layout) error {
	m.saved = l

	return nil
}

// TestLoadLayout_SeedsOrFails asserts loadLayout behavior on existing, missing and broken files.
func TestLoadLayout_SeedsOrFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	existing := &household.Layout{Speakers: []household.SpeakerSpec{{Name: "Office", ID: "RINCON_O"}}}
	layout, err := loadLayout(ctx, &memoryRepository{layout: existing})
	require.NoError(t, err)
	require.Same(t, existing, layout)

	repo := &memoryRepository{loadErr: household.ErrNotFound}
	layout, err = loadLayout(ctx, repo)
	require.NoError(t, err)
	require.Len(t, layout.Speakers, 3)
	require.Same(t, layout, repo.saved)

	_, err = loadLayout(ctx, &memoryRepository{loadErr: errTestLoad})
	require.ErrorIs(t, err, errTestLoad)
}

func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	addr, err := resolveListenAddress("bridge.lan:6000", "127.0.0.1:7000")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7000", addr)

	addr, err = resolveListenAddress("bridge.lan:6000", "")
	require.NoError(t, err)
	require.Equal(t, ":6000", addr)

	addr, err = resolveListenAddress("", "")
	require.NoError(t, err)
	require.Equal(t, DefaultListenAddress, addr)

	_, err = resolveListenAddress("bridge.lan", "")
	require.Error(t, err)
}

func TestAdvertise_RejectsNonTCP(t *testing.T) {
	t.Parallel()

	_, err := advertise(context.Background(), "test", &net.UnixAddr{Name: "/tmp/bridge.sock", Net: "unix"})
	require.ErrorIs(t, err, errUnexpectedAddress)
}
