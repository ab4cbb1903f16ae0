package stubapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

func str(m map[string]any, key string) string {
	return strings.TrimSpace(cast.ToString(m[key]))
}

func (s *Server) createUser(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	u := user{
		CPF:      str(body, "cpf"),
		Name:     str(body, "nome"),
		Email:    str(body, "email"),
		Password: str(body, "senha"),
		Role:     str(body, "role"),
		PhotoRef: str(body, "fotoUrl"),
	}
	if u.Name == "" || u.Email == "" || u.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}
	for _, existing := range s.store.userList() {
		if strings.EqualFold(existing.Email, u.Email) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
	}
	if u.Role == "" {
		u.Role = "Cliente"
	}
	c.JSON(http.StatusCreated, s.store.addUser(u))
}

func (s *Server) listUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.userList())
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := pathID(c)
	s.store.mu.Lock()
	u, found := s.store.users[id]
	var out user
	if found {
		out = *u
	}
	s.store.mu.Unlock()
	if !ok || !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := pathID(c)
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	u, found := s.store.users[id]
	if !ok || !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if v := str(body, "nome"); v != "" {
		u.Name = v
	}
	if v := str(body, "email"); v != "" {
		u.Email = v
	}
	if v := str(body, "senha"); v != "" {
		u.Password = v
	}
	if v := str(body, "fotoUrl"); v != "" {
		u.PhotoRef = v
	}
	c.JSON(http.StatusOK, *u)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := pathID(c)
	s.store.mu.Lock()
	_, found := s.store.users[id]
	delete(s.store.users, id)
	s.store.mu.Unlock()
	if !ok || !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) login(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.String(http.StatusBadRequest, "invalid login request")
		return
	}
	u, ok := s.store.findLogin(str(body, "usuario"), str(body, "senha"))
	if !ok {
		c.String(http.StatusUnauthorized, "Invalid username or password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"usuario": u})
}

func (s *Server) listShops(c *gin.Context) {
	pageNum, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	c.JSON(http.StatusOK, page(s.store.shopList(), pageNum, limit, s.repeatLast))
}

func (s *Server) getShop(c *gin.Context) {
	id, ok := pathID(c)
	s.store.mu.Lock()
	e, found := s.store.shops[id]
	var out establishment
	if found {
		out = *e
	}
	s.store.mu.Unlock()
	if !ok || !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "establishment not found"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func applyShop(e *establishment, body map[string]any) {
	e.Name = str(body, "nome")
	e.Description = str(body, "description")
	e.Street = str(body, "rua")
	e.City = str(body, "cidade")
	e.State = str(body, "stado")
	e.Country = str(body, "pais")
	e.Zip = str(body, "cep")
	e.Phone = str(body, "phone")
	e.MEI = str(body, "mei")
}

func (s *Server) createShop(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	var e establishment
	applyShop(&e, body)
	if e.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	e.OwnerID = cast.ToInt64(body["dono_id"])
	e = s.store.addShop(e)
	c.JSON(http.StatusCreated, gin.H{"id": e.ID})
}

func (s *Server) updateShop(c *gin.Context) {
	id, ok := pathID(c)
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	e, found := s.store.shops[id]
	if !ok || !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "establishment not found"})
		return
	}
	applyShop(e, body)
	c.JSON(http.StatusOK, *e)
}

func (s *Server) deleteShop(c *gin.Context) {
	id, ok := pathID(c)
	s.store.mu.Lock()
	_, found := s.store.shops[id]
	delete(s.store.shops, id)
	s.store.mu.Unlock()
	if !ok || !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "establishment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) listBookings(c *gin.Context) {
	if s.failBookings.Load() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "bookings unavailable"})
		return
	}
	userID, err := strconv.ParseInt(c.Query("usuario_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuario_id is required"})
		return
	}
	c.JSON(http.StatusOK, s.store.bookingsFor(userID))
}

func (s *Server) createBooking(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	b := booking{
		UserID:        cast.ToInt64(body["usuario_id"]),
		ShopID:        cast.ToInt64(body["estabelecimento_id"]),
		PlanID:        cast.ToInt(body["plano_id"]),
		NextPaymentAt: str(body, "proximo_pag"),
		Status:        str(body, "status"),
	}
	if b.UserID == 0 || b.ShopID == 0 || b.PlanID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "usuario_id, estabelecimento_id and plano_id are required"})
		return
	}
	b = s.store.addBooking(b)
	c.JSON(http.StatusCreated, gin.H{"id": b.ID})
}
