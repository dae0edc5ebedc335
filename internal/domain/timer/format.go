package timer

import (
	"fmt"
	"time"
)

// RemainText renders the distance from now to target the way the chat
// replies show it: 剩餘 1h30m before the instant, 已過 0h5m after it.
func RemainText(now, target time.Time) string {
	d := target.Sub(now)
	prefix := "剩餘"
	if d < 0 {
		prefix = "已過"
		d = -d
	}
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	return fmt.Sprintf("%s %dh%dm", prefix, h, m)
}
