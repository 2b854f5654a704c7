package ui

import "github.com/gen2brain/beeep"

// DesktopNotifier sends failures to the desktop notification center
type DesktopNotifier struct{}

// Notify implements Notifier
func (DesktopNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}
