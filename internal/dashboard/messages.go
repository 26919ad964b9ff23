package dashboard

import "time"

// pollMsg carries the outcome of one status poll.
type pollMsg struct {
	result PollResult
	err    error
}

// tickMsg schedules the next poll.
type tickMsg time.Time

// publicIPMsg carries the public IP lookup.
type publicIPMsg struct {
	ip  string
	err error
}

// clipboardMsg reports the copy action.
type clipboardMsg struct {
	err error
}
