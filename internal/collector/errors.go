package collector

import "codeberg.org/mutker/ministatus/internal/errors"

const (
	ErrMailboxMissing    = errors.ErrorCode("collector_mailbox_missing")
	ErrMailboxGlob       = errors.ErrorCode("collector_mailbox_glob_failed")
	ErrBatteryStatus     = errors.ErrorCode("collector_battery_status_failed")
	ErrWirelessRead      = errors.ErrorCode("collector_wireless_read_failed")
	ErrWirelessOperstate = errors.ErrorCode("collector_wireless_operstate_failed")
)
