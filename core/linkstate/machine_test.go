package linkstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlankit/linknotify/core/eventqueue"
	"github.com/wlankit/linknotify/core/linkstate"
)

// recordingSink captures published statuses in order.
type recordingSink struct {
	statuses []eventqueue.Status
	lists    []*eventqueue.ScanResult
	err      error
}

func (s *recordingSink) Publish(status eventqueue.Status, scan *eventqueue.ScanResult) error {
	if s.err != nil {
		return s.err
	}
	s.statuses = append(s.statuses, status)
	s.lists = append(s.lists, scan)
	return nil
}

func TestMachine_ConnectLifecycle(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	m := linkstate.New(sink)
	require.NoError(t, m.Start())

	require.NoError(t, m.Connect())
	assert.Equal(t, linkstate.StateConnecting, m.State())

	require.NoError(t, m.ConnectSucceeded())
	assert.Equal(t, linkstate.StateConnected, m.State())

	require.NoError(t, m.Disconnect())
	require.NoError(t, m.DisconnectDone())
	assert.Equal(t, linkstate.StateDisconnected, m.State())

	assert.Equal(t, []eventqueue.Status{
		eventqueue.StatusConnected,
		eventqueue.StatusDisconnected,
	}, sink.statuses)
}

func TestMachine_ConnectFailed(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	m := linkstate.New(sink)
	require.NoError(t, m.Start())
	require.NoError(t, m.Connect())

	require.NoError(t, m.ConnectFailed())
	assert.Equal(t, linkstate.StateDisconnected, m.State())
	assert.Equal(t, []eventqueue.Status{eventqueue.StatusConnectFailed}, sink.statuses)
}

func TestMachine_LinkLostTriggersReconnect(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	m := linkstate.New(sink)
	require.NoError(t, m.Start())
	require.NoError(t, m.Connect())
	require.NoError(t, m.ConnectSucceeded())

	require.NoError(t, m.LinkLost())
	assert.Equal(t, linkstate.StateReconnecting, m.State())

	// Reconnect attempt concludes like a normal connect.
	require.NoError(t, m.ConnectSucceeded())
	assert.Equal(t, linkstate.StateConnected, m.State())

	assert.Equal(t, []eventqueue.Status{
		eventqueue.StatusConnected,
		eventqueue.StatusDisconnected,
		eventqueue.StatusConnected,
	}, sink.statuses)
}

func TestMachine_ScanResumesPreviousState(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name  string
		setup func(m *linkstate.Machine) error
		want  linkstate.State
	}{
		{
			name:  "from disconnected",
			setup: func(m *linkstate.Machine) error { return nil },
			want:  linkstate.StateDisconnected,
		},
		{
			name: "from connected",
			setup: func(m *linkstate.Machine) error {
				if err := m.Connect(); err != nil {
					return err
				}
				return m.ConnectSucceeded()
			},
			want: linkstate.StateConnected,
		},
		{
			name:  "from softap",
			setup: func(m *linkstate.Machine) error { return m.StartSoftAP() },
			want:  linkstate.StateSoftAP,
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sink := &recordingSink{}
			m := linkstate.New(sink)
			require.NoError(t, m.Start())
			require.NoError(t, tc.setup(m))

			require.NoError(t, m.StartScan())
			assert.Equal(t, linkstate.StateScanning, m.State())

			list := &eventqueue.ScanResult{Channel: 11}
			require.NoError(t, m.ScanCompleted(list))
			assert.Equal(t, tc.want, m.State())

			last := len(sink.statuses) - 1
			assert.Equal(t, eventqueue.StatusScanDone, sink.statuses[last])
			assert.Same(t, list, sink.lists[last])
		})
	}
}

func TestMachine_ScanFailed(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	m := linkstate.New(sink)
	require.NoError(t, m.Start())
	require.NoError(t, m.StartScan())

	require.NoError(t, m.ScanFailed())
	assert.Equal(t, linkstate.StateDisconnected, m.State())
	assert.Equal(t, []eventqueue.Status{eventqueue.StatusScanFailed}, sink.statuses)
}

func TestMachine_SoftAPStations(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	m := linkstate.New(sink)
	require.NoError(t, m.Start())
	require.NoError(t, m.StartSoftAP())

	require.NoError(t, m.StationJoined())
	require.NoError(t, m.StationLeft())
	require.NoError(t, m.StopSoftAP())
	assert.Equal(t, linkstate.StateDisconnected, m.State())

	assert.Equal(t, []eventqueue.Status{
		eventqueue.StatusSoftAPJoined,
		eventqueue.StatusSoftAPLeft,
	}, sink.statuses)
}

func TestMachine_InvalidTransitions(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	m := linkstate.New(sink)

	t.Run("before start", func(t *testing.T) {
		assert.ErrorIs(t, m.Connect(), linkstate.ErrNotStarted)
		assert.ErrorIs(t, m.StartScan(), linkstate.ErrNotStarted)
	})

	require.NoError(t, m.Start())

	t.Run("wrong source state", func(t *testing.T) {
		assert.ErrorIs(t, m.ConnectSucceeded(), linkstate.ErrInvalidTransition)
		assert.ErrorIs(t, m.Disconnect(), linkstate.ErrInvalidTransition)
		assert.ErrorIs(t, m.StationJoined(), linkstate.ErrInvalidTransition)
		assert.ErrorIs(t, m.ScanCompleted(nil), linkstate.ErrInvalidTransition)
	})

	t.Run("double start", func(t *testing.T) {
		assert.ErrorIs(t, m.Start(), linkstate.ErrInvalidTransition)
	})

	// Rejected transitions publish nothing.
	assert.Empty(t, sink.statuses)
}

func TestMachine_PublishesToRealQueue(t *testing.T) {
	t.Parallel()

	q := eventqueue.New()
	require.NoError(t, q.Register("reader"))

	m := linkstate.New(q)
	require.NoError(t, m.Start())
	require.NoError(t, m.Connect())
	require.NoError(t, m.ConnectSucceeded())

	buf := make([]byte, eventqueue.HeaderSize)
	n, err := q.Consume("reader", buf)
	require.NoError(t, err)
	status, payloadLen, err := eventqueue.ParseHeader(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, eventqueue.StatusConnected, status)
	assert.Zero(t, payloadLen)
}
