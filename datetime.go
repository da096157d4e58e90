package vector

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Dates and timestamps are milliseconds since the epoch, times are
// milliseconds since midnight.

func timestampObject(ms int64) interface{} {
	return time.UnixMilli(ms).UTC()
}

func timeObject(ms int32) interface{} {
	h, m, s := time.UnixMilli(int64(ms)).UTC().Clock()
	return time.Date(0, 1, 1, h, m, s, int(ms%1000)*int(time.Millisecond), time.UTC)
}

func intervalYearObject(months int32) interface{} {
	var prefix string
	if months < 0 {
		months = -months
		prefix = "-"
	}

	return fmt.Sprintf("%s%d-%d", prefix, months/12, months%12)
}

const daysToMillis = 24 * 60 * 60 * 1000

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func intervalDayObject(val []byte) interface{} {
	days := int32(binary.LittleEndian.Uint32(val))
	millis := int32(binary.LittleEndian.Uint32(val[4:]))

	isneg := (days < 0) || (days == 0 && millis < 0)
	days, millis = abs32(days), abs32(millis)

	days += millis / daysToMillis
	millis = millis % daysToMillis

	dur := time.Duration(millis) * time.Millisecond
	var prefix string
	if isneg {
		prefix = "-"
	}

	return fmt.Sprintf("%s%d days %s", prefix, days, dur.String())
}

func intervalObject(val []byte) interface{} {
	m := int32(binary.LittleEndian.Uint32(val))
	days := int32(binary.LittleEndian.Uint32(val[4:]))
	millis := int32(binary.LittleEndian.Uint32(val[8:]))

	isneg := (m < 0) || (m == 0 && days < 0) || (m == 0 && days == 0 && millis < 0)
	m, days, millis = abs32(m), abs32(days), abs32(millis)

	days += millis / daysToMillis
	millis = millis % daysToMillis

	dur := time.Duration(millis) * time.Millisecond

	var prefix string
	if isneg {
		prefix = "-"
	}

	return fmt.Sprintf("%s%d-%d-%d %s", prefix, m/12, m%12, days, dur.String())
}
