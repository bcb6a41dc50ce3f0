package memory

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Seed каталог для заполнения хранилища
//
//	[[services]]
//	id = 1
//	salon_id = 1
//	name = "Haircut"
//	price = 25.0
//	duration = "45min"
//
//	[[professionals]]
//	id = 1
//	salon_id = 1
//	name = "Anna"
//	is_available = true
type Seed struct {
	Services      []SeedService      `toml:"services"`
	Professionals []SeedProfessional `toml:"professionals"`
}

type SeedService struct {
	ID       int64   `toml:"id"`
	SalonID  int64   `toml:"salon_id"`
	Name     string  `toml:"name"`
	Price    float64 `toml:"price"`
	Duration string  `toml:"duration"`
}

type SeedProfessional struct {
	ID          int64  `toml:"id"`
	SalonID     int64  `toml:"salon_id"`
	Name        string `toml:"name"`
	IsAvailable bool   `toml:"is_available"`
}

// LoadSeedFile читает каталог из TOML-файла и добавляет его в хранилище
func (s *Store) LoadSeedFile(path string) (int, error) {
	var seed Seed
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return 0, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	return s.ApplySeed(seed)
}

// ApplySeed добавляет услуги и мастеров, возвращает число добавленных записей
func (s *Store) ApplySeed(seed Seed) (int, error) {
	for i, svc := range seed.Services {
		if svc.ID <= 0 || svc.SalonID <= 0 {
			return 0, fmt.Errorf("seed service #%d: id and salon_id must be positive", i+1)
		}
	}
	for i, p := range seed.Professionals {
		if p.ID <= 0 || p.SalonID <= 0 {
			return 0, fmt.Errorf("seed professional #%d: id and salon_id must be positive", i+1)
		}
	}

	for _, svc := range seed.Services {
		s.AddService(domain.Service{
			ID:       svc.ID,
			SalonID:  svc.SalonID,
			Name:     svc.Name,
			Price:    svc.Price,
			Duration: svc.Duration,
		})
	}
	for _, p := range seed.Professionals {
		s.AddProfessional(domain.Professional{
			ID:          p.ID,
			SalonID:     p.SalonID,
			Name:        p.Name,
			IsAvailable: p.IsAvailable,
		})
	}
	return len(seed.Services) + len(seed.Professionals), nil
}
