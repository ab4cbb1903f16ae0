package model

import "time"

// Role is the kind of account a session belongs to.
type Role int

const (
	RoleCustomer Role = iota
	RoleEstablishmentAdmin
)

// Wire values used by the API for roles.
const (
	WireRoleCustomer = "Cliente"
	WireRoleAdmin    = "ADM_Estabelecimento"
)

// ParseRole maps the API role string to a Role. Unknown values are customers.
func ParseRole(s string) Role {
	if s == WireRoleAdmin {
		return RoleEstablishmentAdmin
	}
	return RoleCustomer
}

// Wire returns the API representation of the role.
func (r Role) Wire() string {
	if r == RoleEstablishmentAdmin {
		return WireRoleAdmin
	}
	return WireRoleCustomer
}

func (r Role) String() string {
	if r == RoleEstablishmentAdmin {
		return "establishment admin"
	}
	return "customer"
}

// Session is the locally persisted identity of the logged-in user.
type Session struct {
	ID       string `json:"id"`
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	PhotoRef string `json:"fotoUrl,omitempty"`
}

// RoleKind returns the parsed role of the session.
func (s Session) RoleKind() Role {
	return ParseRole(s.Role)
}

// Address is the structured address of a shop.
type Address struct {
	Street string `mapstructure:"rua"`
	City   string `mapstructure:"cidade"`
	State  string `mapstructure:"estado"`
	Zip    string `mapstructure:"cep"`
}

// Shop is a barbershop listing record after normalization.
type Shop struct {
	ID          string
	Name        string
	Address     string
	Rating      float64
	RatingCount int
	ImageRef    string
	FullAddress Address
	Description string
	Phone       string
	MEI         string
	OwnerID     string
}

// ShopRecord is a shop as returned by the API, before normalization.
type ShopRecord map[string]any

// ShopInput is the editable part of a shop, as sent to the API.
type ShopInput struct {
	Name        string
	Description string
	Street      string
	City        string
	State       string
	Country     string
	Zip         string
	Phone       string
	MEI         string
}

// LocalBooking is an entry of the local scheduler, keyed by Name and Date.
type LocalBooking struct {
	Name    string `csv:"name"`
	Date    string `csv:"date"`
	Time    string `csv:"time"`
	Service string `csv:"service"`
}

// BookingStatus is the lifecycle state of a remote booking.
type BookingStatus string

const (
	StatusActive    BookingStatus = "active"
	StatusLate      BookingStatus = "late"
	StatusCanceled  BookingStatus = "canceled"
	StatusFreeTrial BookingStatus = "freeTrial"
	StatusPaused    BookingStatus = "paused"
)

// RemoteBooking is a booking owned by the backend.
type RemoteBooking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"usuario_id"`
	ShopID        string        `json:"estabelecimento_id"`
	PlanID        int           `json:"plano_id"`
	NextPaymentAt time.Time     `json:"proximo_pag"`
	Status        BookingStatus `json:"status"`
}

// BookingView is a remote booking with display fields resolved.
type BookingView struct {
	RemoteBooking
	ShopName  string `json:"shop_name"`
	PlanLabel string `json:"plan_label"`
}

// NewBooking represents data for creating a remote booking.
type NewBooking struct {
	UserID        string
	ShopID        string
	PlanID        int
	NextPaymentAt time.Time
	Status        BookingStatus
}

// User is an account record of the API.
type User struct {
	ID       string `json:"id"`
	CPF      string `json:"cpf,omitempty"`
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	PhotoRef string `json:"fotoUrl,omitempty"`
}

// NewUser represents data for registering a user.
type NewUser struct {
	CPF      string `json:"cpf"`
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Role     string `json:"role"`
}
