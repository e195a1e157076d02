package utils

import (
	"fmt"
	"time"
)

// StampLayout is the common log format timestamp, e.g. "01/Jul/1995:00:00:01 -0400".
const StampLayout = "02/Jan/2006:15:04:05 -0700"

func FormatStamp(t time.Time) string {
	return t.Format(StampLayout)
}

func HostHourKey(host string, t time.Time) string {
	return fmt.Sprintf("HOST:%s:HOUR:%s", host, t.Format("2006-01-02-15"))
}

func HostDayKey(host string, t time.Time) string {
	return fmt.Sprintf("HOST:%s:DAY:%s", host, t.Format("2006-01-02"))
}
