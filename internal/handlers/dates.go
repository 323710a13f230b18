package handlers

import (
	"time"

	"github.com/yukikurage/game-event-planner/internal/dto"
	"github.com/yukikurage/game-event-planner/internal/services"
)

// parseDate parses value, recording a field error on verr when it is not a
// timestamp.
func parseDate(verr *services.ValidationError, field, value string) time.Time {
	t, err := dto.ParseTimestamp(value)
	if err != nil {
		verr.Add(field, err.Error())
	}
	return t
}
