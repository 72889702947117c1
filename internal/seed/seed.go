// Package seed loads a small development dataset: three accounts, a
// catalog of well known alfajores and a random batch of reviews.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/alfajores-platform/internal/reviews"
	"github.com/example/alfajores-platform/internal/store"
)

type userSeed struct {
	Email       string
	Password    string
	DisplayName string
}

var userSeeds = []userSeed{
	{Email: "agus@test.com", Password: "123456", DisplayName: "Agus"},
	{Email: "alma@test.com", Password: "123456", DisplayName: "Alma"},
	{Email: "santi@test.com", Password: "123456", DisplayName: "Santi"},
}

var alfajorSeeds = []store.Alfajor{
	{Name: "Havanna Clásico", Brand: "Havanna", Country: "Argentina", Kind: "Dulce de leche", Coating: "Chocolate con leche", Description: "Triple clásico con mucho dulce de leche."},
	{Name: "Guaymallén Triple", Brand: "Guaymallén", Country: "Argentina", Kind: "Dulce de leche", Coating: "Chocolate amargo", Description: "Una institución porteña accesible."},
	{Name: "Capitán del Espacio", Brand: "Capitán del Espacio", Country: "Argentina", Kind: "Dulce de leche", Coating: "Chocolate con leche"},
	{Name: "Cachafaz Mousse", Brand: "Cachafaz", Country: "Argentina", Kind: "Mousse de dulce de leche", Coating: "Chocolate semi-amargo"},
	{Name: "Serenata", Brand: "Nestlé", Country: "Uruguay", Kind: "Dulce de leche", Coating: "Chocolate con leche"},
	{Name: "Punta Ballena Clásico", Brand: "Punta Ballena", Country: "Uruguay", Kind: "Dulce de leche", Coating: "Chocolate"},
	{Name: "Costa Ramita", Brand: "Costa", Country: "Chile", Kind: "Manjar", Coating: "Chocolate"},
	{Name: "Helena Gourmet", Brand: "Helena", Country: "Perú", Kind: "Manjar blanco", Coating: "Azúcar impalpable"},
	{Name: "Chomp Deluxe", Brand: "Whittaker", Country: "Nueva Zelanda", Kind: "Caramelo y dulce de leche", Coating: "Chocolate"},
	{Name: "Milka Oreo Alfajor", Brand: "Milka", Country: "Argentina", Kind: "Crema Oreo", Coating: "Chocolate con leche"},
}

var reviewTexts = []string{
	"Increíble textura y equilibrio.",
	"Rico pero un poco empalagoso.",
	"Ideal con café.",
	"El chocolate podría ser mejor.",
	"Sabor nostálgico.",
	"Sorprendentemente fresco.",
}

var scoreOptions = []float64{5, 4.5, 4, 3.5, 3, 2.5}

const reviewTarget = 15

// Summary reports what a seeding run created. Existing rows are skipped,
// so re-running against a populated database is safe.
type Summary struct {
	Users     int
	Alfajores int
	Reviews   int
}

type Seeder struct {
	Users     store.UserStore
	Alfajores store.AlfajorStore
	Reviews   *reviews.Service
	Rand      *rand.Rand
}

func (s *Seeder) rng() *rand.Rand {
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s.Rand
}

func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	userIDs := make([]string, 0, len(userSeeds))
	for _, us := range userSeeds {
		u, created, err := s.ensureUser(ctx, us)
		if err != nil {
			return sum, fmt.Errorf("seed user %s: %w", us.Email, err)
		}
		if created {
			sum.Users++
		}
		userIDs = append(userIDs, u.ID)
	}

	alfajorIDs := make([]string, 0, len(alfajorSeeds))
	for _, as := range alfajorSeeds {
		a, created, err := s.ensureAlfajor(ctx, as)
		if err != nil {
			return sum, fmt.Errorf("seed alfajor %s: %w", as.Name, err)
		}
		if created {
			sum.Alfajores++
		}
		alfajorIDs = append(alfajorIDs, a.ID)
	}

	created, err := s.seedReviews(ctx, userIDs, alfajorIDs)
	if err != nil {
		return sum, err
	}
	sum.Reviews = created

	// one final recalculation per alfajor so derived fields are consistent
	// even when every review already existed
	for _, id := range alfajorIDs {
		if err := s.Reviews.Recalculate(ctx, id); err != nil {
			return sum, fmt.Errorf("recalculate %s: %w", id, err)
		}
	}
	return sum, nil
}

func (s *Seeder) ensureUser(ctx context.Context, us userSeed) (store.User, bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(us.Password), bcrypt.DefaultCost)
	if err != nil {
		return store.User{}, false, err
	}
	u, err := s.Users.Create(ctx, store.CreateUserParams{
		Email:        us.Email,
		PasswordHash: string(hash),
		DisplayName:  us.DisplayName,
	})
	if errors.Is(err, store.ErrConflict) {
		existing, ferr := s.Users.FindByEmail(ctx, us.Email)
		return existing, false, ferr
	}
	if err != nil {
		return store.User{}, false, err
	}
	return u, true, nil
}

func (s *Seeder) ensureAlfajor(ctx context.Context, a store.Alfajor) (store.Alfajor, bool, error) {
	matches, _, err := s.Alfajores.List(ctx, store.ListAlfajoresParams{
		Query: a.Name, Sort: store.SortRecent, Page: 1, PageSize: 50,
	})
	if err != nil {
		return store.Alfajor{}, false, err
	}
	for _, m := range matches {
		if m.Name == a.Name && m.Brand == a.Brand {
			return m, false, nil
		}
	}
	created, err := s.Alfajores.Create(ctx, a)
	if err != nil {
		return store.Alfajor{}, false, err
	}
	return created, true, nil
}

type combo struct {
	userID    string
	alfajorID string
}

func (s *Seeder) seedReviews(ctx context.Context, userIDs, alfajorIDs []string) (int, error) {
	rng := s.rng()

	combos := make([]combo, 0, len(userIDs)*len(alfajorIDs))
	for _, u := range userIDs {
		for _, a := range alfajorIDs {
			combos = append(combos, combo{userID: u, alfajorID: a})
		}
	}
	rng.Shuffle(len(combos), func(i, j int) { combos[i], combos[j] = combos[j], combos[i] })
	if len(combos) > reviewTarget {
		combos = combos[:reviewTarget]
	}

	created := 0
	for _, c := range combos {
		consumed := time.Now().UTC().AddDate(0, 0, -rng.Intn(120))
		_, err := s.Reviews.Create(ctx, c.userID, reviews.CreateInput{
			AlfajorID:  c.alfajorID,
			Score:      scoreOptions[rng.Intn(len(scoreOptions))],
			Text:       reviewTexts[rng.Intn(len(reviewTexts))],
			ConsumedAt: &consumed,
		})
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed review (%s, %s): %w", c.userID, c.alfajorID, err)
		}
		created++
	}
	return created, nil
}
