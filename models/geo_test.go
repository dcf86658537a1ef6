package models

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeEWKB(lng, lat float64, withSRID bool) string {
	buf := []byte{1}
	geomType := uint32(ewkbPointType)
	if withSRID {
		geomType |= ewkbSRIDFlag
	}
	buf = binary.LittleEndian.AppendUint32(buf, geomType)
	if withSRID {
		buf = binary.LittleEndian.AppendUint32(buf, 4326)
	}
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(lng))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(lat))
	return hex.EncodeToString(buf)
}

func TestGeoPointScan(t *testing.T) {
	var p GeoPoint
	err := p.Scan([]byte(encodeEWKB(-17.4467, 14.6928, true)))
	require.NoError(t, err)
	assert.InDelta(t, -17.4467, p.Lng, 1e-9)
	assert.InDelta(t, 14.6928, p.Lat, 1e-9)
}

func TestGeoPointScanWithoutSRID(t *testing.T) {
	var p GeoPoint
	err := p.Scan([]byte(encodeEWKB(2.35, 48.85, false)))
	require.NoError(t, err)
	assert.InDelta(t, 2.35, p.Lng, 1e-9)
	assert.InDelta(t, 48.85, p.Lat, 1e-9)
}

func TestGeoPointScanRejectsGarbage(t *testing.T) {
	var p GeoPoint
	assert.Error(t, p.Scan([]byte("not-hex")))
	assert.Error(t, p.Scan([]byte("01")))
	assert.Error(t, p.Scan(42))
}

func TestGeoPointValue(t *testing.T) {
	p := GeoPoint{Lng: -17.4467, Lat: 14.6928}
	v, err := p.Value()
	require.NoError(t, err)
	assert.Equal(t, "SRID=4326;POINT(-17.44670000 14.69280000)", v)
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(14.6928, -17.4467))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(90.1, 0))
	assert.False(t, ValidCoordinates(0, -180.5))
}

func TestValidEmergencyType(t *testing.T) {
	assert.True(t, ValidEmergencyType(TypeFire))
	assert.False(t, ValidEmergencyType("volcano"))
}

func TestValidEmergencyStatus(t *testing.T) {
	assert.True(t, ValidEmergencyStatus(StatusInProgress))
	assert.False(t, ValidEmergencyStatus("archived"))
}
