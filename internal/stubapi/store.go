package stubapi

import (
	"sort"
	"strings"
	"sync"
)

type user struct {
	ID       int64  `json:"id"`
	CPF      string `json:"cpf"`
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     string `json:"role"`
	PhotoRef string `json:"fotoUrl,omitempty"`
}

// establishment uses the legacy field names on purpose; clients are
// expected to normalize them.
type establishment struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nome"`
	Description string  `json:"description"`
	Street      string  `json:"rua"`
	City        string  `json:"cidade"`
	State       string  `json:"stado"`
	Country     string  `json:"pais"`
	Zip         string  `json:"cep"`
	Phone       string  `json:"phone"`
	MEI         string  `json:"mei"`
	OwnerID     int64   `json:"dono_id"`
	Rating      float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`
}

type booking struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"usuario_id"`
	ShopID        int64  `json:"estabelecimento_id"`
	PlanID        int    `json:"plano_id"`
	NextPaymentAt string `json:"proximo_pag"`
	Status        string `json:"status"`
}

// store is the in-memory backing of the stub API.
type store struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*user
	shops    map[int64]*establishment
	bookings map[int64]*booking
}

func newStore() *store {
	return &store{
		users:    make(map[int64]*user),
		shops:    make(map[int64]*establishment),
		bookings: make(map[int64]*booking),
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) addUser(u user) user {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.id()
	s.users[u.ID] = &u
	return u
}

func (s *store) addShop(e establishment) establishment {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.id()
	s.shops[e.ID] = &e
	return e
}

func (s *store) addBooking(b booking) booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	s.bookings[b.ID] = &b
	return b
}

func (s *store) findLogin(login, password string) (user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if (strings.EqualFold(u.Email, login) || u.CPF == login || u.Name == login) && u.Password == password {
			return *u, true
		}
	}
	return user{}, false
}

func (s *store) userList() []user {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]user, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) shopList() []establishment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]establishment, 0, len(s.shops))
	for _, e := range s.shops {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) bookingsFor(userID int64) []booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]booking, 0)
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// page returns the 1-based page of items. With repeatLast set, pages past
// the end repeat the final page instead of coming back empty.
func page[T any](items []T, pageNum, limit int, repeatLast bool) []T {
	if limit <= 0 {
		limit = 5
	}
	if pageNum <= 0 {
		pageNum = 1
	}
	start := (pageNum - 1) * limit
	if start >= len(items) {
		if !repeatLast || len(items) == 0 {
			return []T{}
		}
		start = ((len(items) - 1) / limit) * limit
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
