package tracker

import "fmt"

// NoticeKind classifies a notice shown to the user.
type NoticeKind string

const (
	NoticeAlert NoticeKind = "alert"
	NoticeInfo  NoticeKind = "info"
)

// Notice is a message for the user produced by an action.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// lowAlert returns an alert when value is under the threshold and a contact is set.
func (c *Controller) lowAlert(value int) *Notice {
	if value >= c.alert.LowThreshold || c.alert.Contact == "" {
		return nil
	}
	c.logger.Warn("low glucose alert")
	return &Notice{
		Kind:    NoticeAlert,
		Message: fmt.Sprintf("ALERT: low glucose detected (%d mg/dL). A message would be sent to %s.", value, c.alert.Contact),
	}
}

// TestAlert returns the notice a low alert would produce. It requires a contact.
func (c *Controller) TestAlert() (Notice, error) {
	if c.alert.Contact == "" {
		return Notice{}, invalid("contact", "Please provide an emergency contact first.")
	}
	return Notice{
		Kind: NoticeInfo,
		Message: fmt.Sprintf("Test alert: glucose below %d mg/dL. A message would be sent to %s.",
			c.alert.LowThreshold, c.alert.Contact),
	}, nil
}
