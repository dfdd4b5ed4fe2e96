package handlers

import "github.com/yeloe-dev/yeloe/internal/services"

var (
	authService       *services.AuthService
	invitationService *services.InvitationService
	taskService       *services.TaskService
)

// Init wires the service layer. Pass a nil mailer to disable outbound
// email (useful in tests and local development).
func Init(mailer *services.Mailer) {
	authService = services.NewAuthService(mailer)
	invitationService = services.NewInvitationService(mailer)
	taskService = services.NewTaskService()
}
