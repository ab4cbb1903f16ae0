package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// InfoMsg carries a status line to show to the user.
type InfoMsg struct {
	Text string
}

// LoggedInMsg is sent after a successful login.
type LoggedInMsg struct {
	Session Session
}

// LoggedOutMsg is sent once the session has been torn down.
type LoggedOutMsg struct{}

// RegisteredMsg is sent after a user account is created.
type RegisteredMsg struct {
	User User
}

// ShopsPageMsg carries the result of one listing page fetch. Gen is the
// listing generation the fetch was claimed in.
type ShopsPageMsg struct {
	Page    int
	Gen     int
	Records []ShopRecord
	Err     error
}

// BookingsLoadedMsg is sent when the customer's bookings are loaded.
type BookingsLoadedMsg struct {
	Bookings  []BookingView
	FromCache bool
}

// BookingCreatedMsg is sent when a remote booking is created.
type BookingCreatedMsg struct {
	Booking  BookingView
	Bookings []BookingView
}

// OwnedShopsLoadedMsg is sent when the admin's shops are loaded.
type OwnedShopsLoadedMsg struct {
	Shops []Shop
}

// ShopSavedMsg is sent when a shop is successfully saved.
type ShopSavedMsg struct {
	ID        string
	Operation string // insert, update
}

// ShopDeletedMsg is sent when a shop is deleted.
type ShopDeletedMsg struct {
	ID string
}

// LocalBookingsLoadedMsg is sent when the local scheduler entries are read.
type LocalBookingsLoadedMsg struct {
	Bookings []LocalBooking
}

// LocalBookingResultMsg reports the outcome of a schedule or cancel action.
type LocalBookingResultMsg struct {
	Text     string
	Err      error
	Bookings []LocalBooking
}

// AvatarLoadedMsg carries the rendered avatar of the session user.
type AvatarLoadedMsg struct {
	Art string
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenWelcome Screen = iota
	ScreenLogin
	ScreenRegister
	ScreenShops
	ScreenBookings
	ScreenBookingForm
	ScreenAdminShops
	ScreenShopForm
	ScreenScheduler
	ScreenScheduleForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)
