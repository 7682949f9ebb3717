package eventqueue

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeScanList(t *testing.T) {
	t.Parallel()

	t.Run("nil list fails", func(t *testing.T) {
		buf, err := encodeScanList(nil)
		assert.ErrorIs(t, err, errEmptyScanList)
		assert.Nil(t, buf)
	})

	t.Run("single record", func(t *testing.T) {
		r := &ScanResult{Channel: 6, RSSI: -52, AuthType: 3}
		copy(r.SSID[:], "home-ap")

		buf, err := encodeScanList(r)
		require.NoError(t, err)
		require.Len(t, buf, ScanRecordSize)

		assert.Equal(t, uint32(6), binary.LittleEndian.Uint32(buf[0:4]))
		assert.Equal(t, "home-ap", string(buf[4:4+7]))
		rssiOff := 4 + ssidLen + bssidLen
		assert.Equal(t, int32(-52), int32(binary.LittleEndian.Uint32(buf[rssiOff:rssiOff+4])))
		assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(buf[rssiOff+4:rssiOff+8]))
	})

	t.Run("records packed in list order", func(t *testing.T) {
		third := &ScanResult{Channel: 3}
		second := &ScanResult{Channel: 2, Next: third}
		first := &ScanResult{Channel: 1, Next: second}

		buf, err := encodeScanList(first)
		require.NoError(t, err)
		require.Len(t, buf, 3*ScanRecordSize)

		for i := 0; i < 3; i++ {
			ch := binary.LittleEndian.Uint32(buf[i*ScanRecordSize : i*ScanRecordSize+4])
			assert.Equal(t, uint32(i+1), ch)
		}
	})
}

func TestScanRecordSize(t *testing.T) {
	t.Parallel()

	// Wire layout is packed with no padding: channel + ssid + bssid + rssi +
	// auth + crypto + phy mode.
	assert.Equal(t, 4+ssidLen+bssidLen+4+4+4+4, ScanRecordSize)
}
