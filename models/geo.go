package models

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// GeoPoint is a WGS84 (longitude, latitude) pair stored as a PostGIS
// geography(POINT,4326) column. It is written as EWKT and read back as the
// hex-encoded EWKB PostGIS returns.
type GeoPoint struct {
	Lng float64 `json:"longitude"`
	Lat float64 `json:"latitude"`
}

func (GeoPoint) GormDataType() string {
	return "geography(POINT,4326)"
}

func (p GeoPoint) Value() (driver.Value, error) {
	return fmt.Sprintf("SRID=4326;POINT(%.8f %.8f)", p.Lng, p.Lat), nil
}

const (
	ewkbPointType = 1
	ewkbSRIDFlag  = 0x20000000
)

func (p *GeoPoint) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into GeoPoint", value)
	}

	decoded := make([]byte, hex.DecodedLen(len(raw)))
	if _, err := hex.Decode(decoded, raw); err != nil {
		return fmt.Errorf("invalid EWKB hex: %v", err)
	}

	// byte order flag + geometry type + optional SRID + X + Y
	if len(decoded) < 21 {
		return fmt.Errorf("EWKB too short: %d bytes", len(decoded))
	}

	var order binary.ByteOrder = binary.BigEndian
	if decoded[0] == 1 {
		order = binary.LittleEndian
	}

	geomType := order.Uint32(decoded[1:5])
	offset := 5
	if geomType&ewkbSRIDFlag != 0 {
		offset += 4
	}
	if geomType&0xFF != ewkbPointType {
		return fmt.Errorf("unexpected EWKB geometry type %d", geomType&0xFF)
	}
	if len(decoded) < offset+16 {
		return fmt.Errorf("EWKB point truncated")
	}

	p.Lng = math.Float64frombits(order.Uint64(decoded[offset : offset+8]))
	p.Lat = math.Float64frombits(order.Uint64(decoded[offset+8 : offset+16]))
	return nil
}

// ValidCoordinates reports whether a latitude/longitude pair is on the globe.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
