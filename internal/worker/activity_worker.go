package worker

import (
	"github.com/behnamfe76/helpdesk-service/internal/service"
)

// StartActivityWorker registers the ticket activity handlers.
func StartActivityWorker(activity *service.ActivityService) {
	if activity == nil {
		return
	}
	activity.RegisterHandlers()
}
