package todo

import "time"

// NoticeTTL is how long a notice stays visible unless replaced or dismissed.
const NoticeTTL = 3 * time.Second

// Notice holds the single live error or validation message.
//
// Every Raise bumps the generation. Expiry is keyed to the generation
// so a timer scheduled for an older message can never clear a newer one.
type Notice struct {
	text     string
	gen      uint64
	deadline time.Time
}

// Raise replaces the current message and restarts its expiry.
// It returns the generation a later Expire must present.
func (n *Notice) Raise(text string, now time.Time) uint64 {
	n.gen++
	n.text = text
	n.deadline = now.Add(NoticeTTL)
	return n.gen
}

// Dismiss clears the message immediately. Pending expiries become no-ops.
func (n *Notice) Dismiss() {
	n.text = ""
	n.gen++
}

// Expire clears the message only if gen is still the current generation.
func (n *Notice) Expire(gen uint64) bool {
	if gen != n.gen || n.text == "" {
		return false
	}
	n.text = ""
	return true
}

// Text returns the live message, or "" once its deadline has passed.
func (n *Notice) Text(now time.Time) string {
	if n.text == "" || !now.Before(n.deadline) {
		return ""
	}
	return n.text
}

// Generation identifies the most recent Raise or Dismiss.
func (n *Notice) Generation() uint64 { return n.gen }
