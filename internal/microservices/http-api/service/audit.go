package service

import (
	"context"
	"log/slog"
)

// auditAdmins records a back-office mutation on the admins broadcast channel.
// An audit failure never fails the mutation that triggered it, but it is
// logged so a persistently broken notification store stays visible.
func auditAdmins(ctx context.Context, n NotificationService, title, message, notifType, icon, link string) {
	if err := n.NotifyAdmins(ctx, title, message, notifType, icon, link); err != nil {
		slog.Warn("admin audit notification failed", "title", title, "error", err)
	}
}
