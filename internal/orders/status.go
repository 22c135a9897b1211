package orders

import (
	"fmt"
	"strings"

	"github.com/safar/go-sql-notes/internal/apperr"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

var statuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

func (s Status) Valid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus requires an exact, case-sensitive match.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.Valid() {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		return "", apperr.Invalid(fmt.Sprintf("status must be one of [%s]", strings.Join(names, " ")))
	}
	return status, nil
}
