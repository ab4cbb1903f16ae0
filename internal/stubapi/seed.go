package stubapi

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Demo credentials created by Seed.
const (
	DemoCustomerEmail = "ana@example.com"
	DemoAdminEmail    = "bruno@example.com"
	DemoPassword      = "123456"
)

var demoShops = []struct {
	name, street, city, state string
	rating                    float64
	count                     int
}{
	{"Barbearia Central", "Rua da Aurora, 100", "Recife", "PE", 4.8, 120},
	{"Corte Fino", "Av. Boa Viagem, 2200", "Recife", "PE", 4.5, 87},
	{"Navalha de Ouro", "Rua do Sol, 45", "Olinda", "PE", 4.2, 40},
	{"Barba Negra", "Rua Augusta, 900", "São Paulo", "SP", 4.9, 310},
	{"Tesoura Afiada", "Rua XV de Novembro, 12", "Curitiba", "PR", 3.9, 22},
	{"Dom Bigode", "Av. Paulista, 1500", "São Paulo", "SP", 4.6, 201},
	{"Cabelo & Cia", "Rua das Flores, 8", "Curitiba", "PR", 4.1, 15},
	{"Studio Barber", "Rua Chile, 30", "Salvador", "BA", 4.4, 64},
	{"Old School", "Av. Sete de Setembro, 77", "Salvador", "BA", 4.7, 98},
	{"Barbearia do Zé", "Rua Direita, 5", "Ouro Preto", "MG", 4.0, 9},
	{"Corte Real", "Av. Afonso Pena, 800", "Belo Horizonte", "MG", 4.3, 56},
	{"Navalha Clássica", "Rua Oscar Freire, 300", "São Paulo", "SP", 4.8, 143},
	{"Pente Fino", "Rua da Praia, 60", "Porto Alegre", "RS", 3.7, 11},
}

func (s *Server) seed() {
	customer := s.store.addUser(user{
		CPF: "11122233344", Name: "Ana Souza", Email: DemoCustomerEmail,
		Password: DemoPassword, Role: "Cliente", PhotoRef: "ana.png",
	})
	admin := s.store.addUser(user{
		CPF: "55566677788", Name: "Bruno Lima", Email: DemoAdminEmail,
		Password: DemoPassword, Role: "ADM_Estabelecimento",
	})

	var first establishment
	for i, d := range demoShops {
		e := establishment{
			Name:        d.name,
			Description: "Cortes clássicos e modernos.",
			Street:      d.street,
			City:        d.city,
			State:       d.state,
			Country:     "Brasil",
			Zip:         "00000-000",
			Phone:       "(81) 99999-0000",
			Rating:      d.rating,
			RatingCount: d.count,
		}
		if i%4 == 0 {
			e.OwnerID = admin.ID
		}
		e = s.store.addShop(e)
		if i == 0 {
			first = e
		}
	}

	s.store.addBooking(booking{
		UserID:        customer.ID,
		ShopID:        first.ID,
		PlanID:        2,
		NextPaymentAt: time.Now().AddDate(0, 0, 30).Format(time.DateOnly),
		Status:        "active",
	})
}

// photo renders a small deterministic gradient for any reference.
func (s *Server) photo(c *gin.Context) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(c.Param("ref")))
	sum := h.Sum32()
	base := color.RGBA{R: uint8(sum), G: uint8(sum >> 8), B: uint8(sum >> 16), A: 255}

	const size = 32
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{
				R: base.R ^ uint8(x*8),
				G: base.G ^ uint8(y*8),
				B: base.B,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render photo"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
