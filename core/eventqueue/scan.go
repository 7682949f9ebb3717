package eventqueue

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	ssidLen  = 33 // NUL-terminated SSID, 32 chars max
	bssidLen = 18 // textual MAC, "xx:xx:xx:xx:xx:xx" + NUL
)

// ScanResult is one access-point record in an intrusive scan list. The
// producer hands the head of the list to Publish; the encoder packs the
// records back-to-back in list order.
//
// Encoded record layout (little-endian, no padding, ScanRecordSize bytes):
//
//	Channel    uint32
//	SSID       [33]byte
//	BSSID      [18]byte
//	RSSI       int32
//	AuthType   uint32
//	CryptoType uint32
//	PhyMode    uint32
type ScanResult struct {
	Next *ScanResult

	Channel    uint32
	SSID       [ssidLen]byte
	BSSID      [bssidLen]byte
	RSSI       int32
	AuthType   uint32
	CryptoType uint32
	PhyMode    uint32
}

// scanRecord is the fixed-width wire shape of one ScanResult, without the
// list link.
type scanRecord struct {
	Channel    uint32
	SSID       [ssidLen]byte
	BSSID      [bssidLen]byte
	RSSI       int32
	AuthType   uint32
	CryptoType uint32
	PhyMode    uint32
}

// ScanRecordSize is the encoded size in bytes of one scan record on the wire.
var ScanRecordSize = binary.Size(scanRecord{})

var errEmptyScanList = errors.New("scan list is empty")

func (r *ScanResult) record() scanRecord {
	return scanRecord{
		Channel:    r.Channel,
		SSID:       r.SSID,
		BSSID:      r.BSSID,
		RSSI:       r.RSSI,
		AuthType:   r.AuthType,
		CryptoType: r.CryptoType,
		PhyMode:    r.PhyMode,
	}
}

// encodeScanList serializes an intrusive scan list into one contiguous
// buffer of count*ScanRecordSize bytes. An empty list is a failure: the
// publish path degrades the event to StatusScanFailed rather than emitting
// a scan-done notification with nothing in it.
func encodeScanList(list *ScanResult) ([]byte, error) {
	if list == nil {
		return nil, errEmptyScanList
	}

	count := 0
	for r := list; r != nil; r = r.Next {
		count++
	}

	buf := bytes.NewBuffer(make([]byte, 0, count*ScanRecordSize))
	for r := list; r != nil; r = r.Next {
		if err := binary.Write(buf, binary.LittleEndian, r.record()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
