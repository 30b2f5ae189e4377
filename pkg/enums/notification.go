package enums

// NotificationKind classifies events emitted toward the UI notification sink.
type NotificationKind string

const (
	NotificationKindSuccess NotificationKind = "success"
	NotificationKindError   NotificationKind = "error"
	NotificationKindInfo    NotificationKind = "info"
)

func (k NotificationKind) IsValid() bool {
	switch k {
	case NotificationKindSuccess, NotificationKindError, NotificationKindInfo:
		return true
	}
	return false
}

func (k NotificationKind) String() string {
	return string(k)
}
