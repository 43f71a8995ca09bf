package worker

import (
	"github.com/spec-kit/support-forum-bot/internal/events"
	"github.com/spec-kit/support-forum-bot/internal/service"
)

// StartTicketWorker subscribes the ticket state machine to gateway events.
func StartTicketWorker(ticketService *service.TicketService, dispatcher events.Dispatcher) {
	if ticketService == nil || dispatcher == nil {
		return
	}
	ticketService.RegisterHandlers(dispatcher)
}
